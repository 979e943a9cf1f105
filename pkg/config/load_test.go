package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mercator-hq/relay/pkg/providers"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "relay.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
http_client:
  timeout: "30s"
  max_idle_conns: 50

providers:
  cohere:
    model: "command-r-plus"
    api_key_location: "dynamic::cohere_key"
    top_k: 5
    stop_sequences: ["END"]
  local:
    type: "generic"
    model: "llama3"
    base_url: "http://localhost:11434/v1"

telemetry:
  logging:
    level: "debug"
    format: "text"
  metrics:
    enabled: true
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.HTTPClient.Timeout != 30*time.Second {
		t.Errorf("expected timeout 30s, got %v", cfg.HTTPClient.Timeout)
	}
	if cfg.HTTPClient.MaxIdleConns != 50 {
		t.Errorf("expected max idle conns 50, got %d", cfg.HTTPClient.MaxIdleConns)
	}
	if cfg.HTTPClient.MaxIdleConnsPerHost != DefaultMaxIdleConnsPerHost {
		t.Errorf("expected default max idle conns per host, got %d", cfg.HTTPClient.MaxIdleConnsPerHost)
	}

	cohere := cfg.Providers["cohere"]
	if cohere.Type != providers.TypeCohere {
		t.Errorf("expected inferred type cohere, got %q", cohere.Type)
	}
	if cohere.TopK == nil || *cohere.TopK != 5 {
		t.Errorf("expected top_k 5, got %v", cohere.TopK)
	}
	if len(cohere.StopSequences) != 1 || cohere.StopSequences[0] != "END" {
		t.Errorf("unexpected stop sequences: %v", cohere.StopSequences)
	}

	if got := cfg.Providers["local"].APIKeyLocation; got != "none" {
		t.Errorf("expected generic default key location none, got %q", got)
	}

	if cfg.Telemetry.Logging.Level != "debug" || cfg.Telemetry.Logging.Format != "text" {
		t.Errorf("unexpected logging config: %+v", cfg.Telemetry.Logging)
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics enabled")
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "providers: [unclosed")

	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for invalid YAML, got nil")
	}
}

func TestLoadConfig_UnknownField(t *testing.T) {
	path := writeConfig(t, `
providers:
  cohere:
    model: "command-r"
    api_key: "sk-inline"
`)

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected error for unknown field, got nil")
	}
	if !strings.Contains(err.Error(), "api_key") {
		t.Errorf("expected error to name the unknown field, got %v", err)
	}
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	path := writeConfig(t, `
providers:
  mystery:
    model: "x"
`)

	_, err := LoadConfig(path)

	var validationErr ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if validationErr.Errors[0].Field != "providers.mystery.type" {
		t.Errorf("expected providers.mystery.type error, got %+v", validationErr.Errors)
	}
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPClient.Timeout != DefaultHTTPTimeout {
		t.Errorf("expected defaults applied, got timeout %v", cfg.HTTPClient.Timeout)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
providers:
  cohere-prod:
    type: "cohere"
    model: "command-r"
`)

	t.Setenv("RELAY_HTTP_CLIENT_TIMEOUT", "5s")
	t.Setenv("RELAY_PROVIDERS_COHERE_PROD_MODEL", "command-r-plus")
	t.Setenv("RELAY_PROVIDERS_COHERE_PROD_API_KEY_LOCATION", "secret::cohere")
	t.Setenv("RELAY_PROVIDERS_COHERE_PROD_TOP_K", "3")
	t.Setenv("RELAY_TELEMETRY_LOGGING_LEVEL", "warn")
	t.Setenv("RELAY_TELEMETRY_METRICS_ENABLED", "true")
	t.Setenv("RELAY_TELEMETRY_TRACING_SAMPLE_RATIO", "0.5")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.HTTPClient.Timeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", cfg.HTTPClient.Timeout)
	}

	provider := cfg.Providers["cohere-prod"]
	if provider.Model != "command-r-plus" {
		t.Errorf("expected model override, got %q", provider.Model)
	}
	if provider.APIKeyLocation != "secret::cohere" {
		t.Errorf("expected key location override, got %q", provider.APIKeyLocation)
	}
	if provider.TopK == nil || *provider.TopK != 3 {
		t.Errorf("expected top_k override 3, got %v", provider.TopK)
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("expected level warn, got %q", cfg.Telemetry.Logging.Level)
	}
	if !cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics enabled by override")
	}
	if cfg.Telemetry.Tracing.SampleRatio != 0.5 {
		t.Errorf("expected sample ratio 0.5, got %v", cfg.Telemetry.Tracing.SampleRatio)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidValue(t *testing.T) {
	path := writeConfig(t, `
providers:
  cohere:
    model: "command-r"
`)

	t.Setenv("RELAY_HTTP_CLIENT_TIMEOUT", "soon")

	_, err := LoadConfigWithEnvOverrides(path)

	var validationErr ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if validationErr.Errors[0].Field != "http_client.timeout" {
		t.Errorf("expected http_client.timeout error, got %+v", validationErr.Errors)
	}
}

func TestEnvName(t *testing.T) {
	tests := map[string]string{
		"cohere":      "COHERE",
		"cohere-prod": "COHERE_PROD",
		"openai.eu":   "OPENAI_EU",
	}
	for input, want := range tests {
		if got := envName(input); got != want {
			t.Errorf("envName(%q) = %q, want %q", input, got, want)
		}
	}
}
