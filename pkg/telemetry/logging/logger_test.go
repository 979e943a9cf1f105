package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"mercator-hq/relay/pkg/config"
	"mercator-hq/relay/pkg/providers"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "valid JSON config",
			config: Config{Level: "info", Format: "json", Redact: true},
		},
		{
			name:   "valid text config",
			config: Config{Level: "debug", Format: "text"},
		},
		{
			name:   "empty level and format use defaults",
			config: Config{},
		},
		{
			name:    "invalid log level",
			config:  Config{Level: "invalid", Format: "json"},
			wantErr: true,
		},
		{
			name:    "invalid format",
			config:  Config{Level: "info", Format: "console"},
			wantErr: true,
		},
		{
			name: "invalid redact pattern",
			config: Config{
				Level:          "info",
				Redact:         true,
				RedactPatterns: []config.RedactPattern{{Name: "broken", Pattern: "[unclosed"}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.Writer = &bytes.Buffer{}

			logger, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && logger.Slog() == nil {
				t.Error("expected non-nil slog logger")
			}
		})
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		logLevel  string
		logMethod func(*Logger, string)
		wantLog   bool
	}{
		{"debug level logs debug", "debug", func(l *Logger, msg string) { l.Debug(msg) }, true},
		{"info level filters debug", "info", func(l *Logger, msg string) { l.Debug(msg) }, false},
		{"info level logs info", "info", func(l *Logger, msg string) { l.Info(msg) }, true},
		{"warn level filters info", "warn", func(l *Logger, msg string) { l.Info(msg) }, false},
		{"warn level logs warn", "warn", func(l *Logger, msg string) { l.Warn(msg) }, true},
		{"error level filters warn", "error", func(l *Logger, msg string) { l.Warn(msg) }, false},
		{"error level logs error", "error", func(l *Logger, msg string) { l.Error(msg) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger, err := New(Config{Level: tt.logLevel, Format: "json", Writer: buf})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			tt.logMethod(logger, "test message")

			if gotLog := buf.Len() > 0; gotLog != tt.wantLog {
				t.Errorf("wantLog = %v, got output %q", tt.wantLog, buf.String())
			}
		})
	}
}

func TestLogger_TextFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "info", Format: "text", Writer: buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info("provider ready", "provider", "cohere")

	out := buf.String()
	if !strings.Contains(out, "msg=\"provider ready\"") || !strings.Contains(out, "provider=cohere") {
		t.Errorf("unexpected text output: %q", out)
	}
}

func TestLogger_With(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "info", Format: "json", Redact: true, Writer: buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.With("provider", "anthropic", "api_key", "plain-value").Info("ready")

	entry := decodeEntry(t, buf)
	if entry["provider"] != "anthropic" {
		t.Errorf("provider = %v, want anthropic", entry["provider"])
	}
	if entry["api_key"] != RedactedValue {
		t.Errorf("api_key = %v, want %s", entry["api_key"], RedactedValue)
	}
}

func TestLogger_RedactsSecrets(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "debug", Format: "json", Redact: true, Writer: buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	secret := providers.NewSecret("sk-live-abcdefghijklmnop")
	logger.Info("calling provider with sk-live-abcdefghijklmnop",
		"secret_value", secret,
		"authorization", "Bearer abcdef",
		"credential", providers.StaticCredential(secret),
		"input_tokens", 12,
	)

	out := buf.String()
	if strings.Contains(out, "abcdefghijklmnop") || strings.Contains(out, "Bearer abcdef") {
		t.Fatalf("secret leaked into log output: %s", out)
	}

	entry := decodeEntry(t, buf)
	if entry["credential"] != "static" {
		t.Errorf("credential = %v, want static", entry["credential"])
	}
	if entry["input_tokens"] != float64(12) {
		t.Errorf("input_tokens = %v, want 12", entry["input_tokens"])
	}
}

func TestLogger_SecretRedactedWithoutRedaction(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "info", Format: "json", Redact: false, Writer: buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info("resolved", "value", providers.NewSecret("hunter2"))

	if strings.Contains(buf.String(), "hunter2") {
		t.Fatalf("secret leaked into log output: %s", buf.String())
	}
}

func TestConfigFrom(t *testing.T) {
	redact := false
	cfg := ConfigFrom(config.LoggingConfig{
		Level:     "warn",
		Format:    "text",
		AddSource: true,
		Redact:    &redact,
	}, nil)

	if cfg.Level != "warn" || cfg.Format != "text" || !cfg.AddSource {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Redact {
		t.Error("expected redaction to be disabled")
	}

	if !ConfigFrom(config.LoggingConfig{}, nil).Redact {
		t.Error("expected redaction to default to enabled")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log line %q: %v", buf.String(), err)
	}
	return entry
}
