package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"mercator-hq/relay/pkg/providers"
)

// KeyLocationKind identifies where an API key is read from.
type KeyLocationKind string

// Key location kinds accepted in api_key_location.
const (
	KeyLocationEnv     KeyLocationKind = "env"
	KeyLocationPath    KeyLocationKind = "path"
	KeyLocationSecret  KeyLocationKind = "secret"
	KeyLocationDynamic KeyLocationKind = "dynamic"
	KeyLocationNone    KeyLocationKind = "none"
)

const locationSeparator = "::"

// KeyLocation is a parsed api_key_location value.
type KeyLocation struct {
	Kind KeyLocationKind

	// Value is the variable name, file path, secret name or dynamic key name.
	// It is empty for KeyLocationNone.
	Value string
}

// String returns the location in its configuration syntax.
func (l KeyLocation) String() string {
	if l.Kind == KeyLocationNone {
		return string(KeyLocationNone)
	}
	return string(l.Kind) + locationSeparator + l.Value
}

// ParseKeyLocation parses an api_key_location value such as "env::COHERE_API_KEY".
func ParseKeyLocation(s string) (KeyLocation, error) {
	if s == string(KeyLocationNone) {
		return KeyLocation{Kind: KeyLocationNone}, nil
	}

	kind, value, ok := strings.Cut(s, locationSeparator)
	if !ok {
		return KeyLocation{}, fmt.Errorf("invalid key location %q: expected <kind>::<value> or none", s)
	}

	switch KeyLocationKind(kind) {
	case KeyLocationEnv, KeyLocationPath, KeyLocationSecret, KeyLocationDynamic:
	default:
		return KeyLocation{}, fmt.Errorf("invalid key location %q: unknown kind %q (supported: env, path, secret, dynamic, none)", s, kind)
	}

	if value == "" {
		return KeyLocation{}, fmt.Errorf("invalid key location %q: missing %s name", s, kind)
	}

	return KeyLocation{Kind: KeyLocationKind(kind), Value: value}, nil
}

// SecretResolver looks up named secrets for "secret::" locations.
// *secrets.Manager implements it.
type SecretResolver interface {
	GetSecret(ctx context.Context, name string) (providers.Secret, error)
}

// ResolveOptions controls credential resolution.
type ResolveOptions struct {
	// Secrets resolves "secret::" locations. Required when any provider uses one.
	Secrets SecretResolver

	// AllowMissing turns an unreadable static key into a Missing credential
	// instead of an error. Calls to such a provider fail with APIKeyMissingError.
	AllowMissing bool
}

// ResolveCredential turns a key location into a provider credential.
// env, path and secret locations are read once here and become Static.
func ResolveCredential(ctx context.Context, location KeyLocation, opts ResolveOptions) (providers.Credential, error) {
	var (
		secret providers.Secret
		err    error
	)

	switch location.Kind {
	case KeyLocationNone:
		return providers.NoCredential(), nil

	case KeyLocationDynamic:
		return providers.DynamicCredential(location.Value), nil

	case KeyLocationEnv:
		if value := os.Getenv(location.Value); value != "" {
			secret = providers.NewSecret(value)
		} else {
			err = fmt.Errorf("environment variable %s is not set", location.Value)
		}

	case KeyLocationPath:
		secret, err = readKeyFile(location.Value)

	case KeyLocationSecret:
		if opts.Secrets == nil {
			return providers.Credential{}, errors.New("secret key location requires a secret manager")
		}
		secret, err = opts.Secrets.GetSecret(ctx, location.Value)

	default:
		return providers.Credential{}, fmt.Errorf("unknown key location kind %q", location.Kind)
	}

	if err != nil {
		if opts.AllowMissing {
			slog.WarnContext(ctx, "API key unavailable, provider credential is missing",
				"location", location.String(),
				"error", err,
			)
			return providers.MissingCredential(), nil
		}
		return providers.Credential{}, err
	}

	return providers.StaticCredential(secret), nil
}

// readKeyFile reads a key file and trims surrounding whitespace.
func readKeyFile(path string) (providers.Secret, error) {
	// #nosec G304 - key file locations come from operator configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return providers.Secret{}, fmt.Errorf("failed to read key file: %w", err)
	}

	value := strings.TrimSpace(string(data))
	if value == "" {
		return providers.Secret{}, fmt.Errorf("key file %s is empty", path)
	}

	return providers.NewSecret(value), nil
}

// ProviderConfigs resolves every provider section into an adapter
// configuration, sorted by provider name. Resolution errors are collected
// into a ValidationError.
func (c *Config) ProviderConfigs(ctx context.Context, opts ResolveOptions) ([]providers.ProviderConfig, error) {
	names := make([]string, 0, len(c.Providers))
	for name := range c.Providers {
		names = append(names, name)
	}
	slices.Sort(names)

	var errs []FieldError
	configs := make([]providers.ProviderConfig, 0, len(names))

	for _, name := range names {
		section := c.Providers[name]
		field := fmt.Sprintf("providers.%s.api_key_location", name)

		location, err := ParseKeyLocation(section.APIKeyLocation)
		if err != nil {
			errs = append(errs, FieldError{Field: field, Message: err.Error()})
			continue
		}

		credential, err := ResolveCredential(ctx, location, opts)
		if err != nil {
			errs = append(errs, FieldError{Field: field, Message: err.Error()})
			continue
		}

		configs = append(configs, providers.ProviderConfig{
			Name:          name,
			Type:          section.Type,
			Model:         section.Model,
			BaseURL:       section.BaseURL,
			Credential:    credential,
			TopK:          section.TopK,
			StopSequences: section.StopSequences,
			Logprobs:      section.Logprobs,
		})
	}

	if len(errs) > 0 {
		return nil, ValidationError{Errors: errs}
	}

	return configs, nil
}
