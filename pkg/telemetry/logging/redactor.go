package logging

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"mercator-hq/relay/pkg/config"
)

// RedactedValue replaces the value of a sensitive attribute.
const RedactedValue = "[REDACTED]"

// Built-in pattern names.
const (
	PatternAPIKey      = "api_key"
	PatternBearerToken = "bearer_token"
	PatternPassword    = "password"
	PatternEmail       = "email"
)

// Redactor removes secrets from log messages and attributes.
//
// Attributes whose key names a credential are replaced wholesale. String
// values are additionally scrubbed with the built-in and custom patterns.
type Redactor struct {
	patterns []redactPattern
}

type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

var defaultPatterns = []struct {
	name        string
	regex       string
	replacement string
}{
	{PatternAPIKey, `\bsk-[A-Za-z0-9_\-]{8,}`, RedactedValue},
	{PatternBearerToken, `(?i)bearer\s+[A-Za-z0-9\-._~+/]+=*`, "Bearer " + RedactedValue},
	{PatternPassword, `(?i)(password|passwd|pwd)[:=]\s*\S+`, "$1=" + RedactedValue},
	{PatternEmail, `[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`, RedactedValue},
}

// NewRedactor creates a Redactor with the built-in patterns followed by custom.
func NewRedactor(custom []config.RedactPattern) (*Redactor, error) {
	r := &Redactor{}

	for _, p := range defaultPatterns {
		r.patterns = append(r.patterns, redactPattern{
			name:        p.name,
			regex:       regexp.MustCompile(p.regex),
			replacement: p.replacement,
		})
	}

	for _, p := range custom {
		regex, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid redact pattern %q: %w", p.Name, err)
		}
		replacement := p.Replacement
		if replacement == "" {
			replacement = RedactedValue
		}
		r.patterns = append(r.patterns, redactPattern{
			name:        p.Name,
			regex:       regex,
			replacement: replacement,
		})
	}

	return r, nil
}

// RedactString applies every pattern to value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}
	for _, p := range r.patterns {
		value = p.regex.ReplaceAllString(value, p.replacement)
	}
	return value
}

// RedactAttr returns a copy of a with sensitive content removed. Groups are
// walked recursively and LogValuer values are resolved first.
func (r *Redactor) RedactAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if IsSensitiveKey(a.Key) {
		return slog.String(a.Key, RedactedValue)
	}

	switch a.Value.Kind() {
	case slog.KindString:
		return slog.String(a.Key, r.RedactString(a.Value.String()))
	case slog.KindGroup:
		group := a.Value.Group()
		redacted := make([]slog.Attr, len(group))
		for i, ga := range group {
			redacted[i] = r.RedactAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redacted...)}
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			return slog.String(a.Key, r.RedactString(err.Error()))
		}
		if s, ok := a.Value.Any().(fmt.Stringer); ok {
			return slog.String(a.Key, r.RedactString(s.String()))
		}
	}

	return a
}

// sensitiveKeys name attributes whose value is always a credential.
var sensitiveKeys = map[string]bool{
	"password":      true,
	"passwd":        true,
	"secret":        true,
	"token":         true,
	"api_key":       true,
	"apikey":        true,
	"x-api-key":     true,
	"authorization": true,
	"private_key":   true,
}

// sensitiveSuffixes catch compound keys such as "cohere_api_key" or
// "access_token". Counters such as "input_tokens" do not match.
var sensitiveSuffixes = []string{
	"_password",
	"_secret",
	"_token",
	"_api_key",
	"_apikey",
	"_private_key",
}

// IsSensitiveKey reports whether an attribute key names a credential.
func IsSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	if sensitiveKeys[lower] {
		return true
	}
	for _, suffix := range sensitiveSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
