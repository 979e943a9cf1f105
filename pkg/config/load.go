package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment variable override.
const EnvPrefix = "RELAY_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention RELAY_SECTION_FIELD (e.g., RELAY_HTTP_CLIENT_TIMEOUT).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if errs := applyEnvOverrides(cfg); len(errs) > 0 {
		return nil, fmt.Errorf("invalid environment overrides: %w", ValidationError{Errors: errs})
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML configuration and applies defaults. Unknown fields are
// rejected. Parse does not validate.
func Parse(data []byte) (*Config, error) {
	var cfg Config

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	ApplyDefaults(&cfg)
	return &cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Values that fail to parse are returned as field errors.
func applyEnvOverrides(cfg *Config) []FieldError {
	o := overrides{}

	// HTTP client overrides
	o.duration("HTTP_CLIENT_TIMEOUT", "http_client.timeout", &cfg.HTTPClient.Timeout)
	o.integer("HTTP_CLIENT_MAX_IDLE_CONNS", "http_client.max_idle_conns", &cfg.HTTPClient.MaxIdleConns)
	o.integer("HTTP_CLIENT_MAX_IDLE_CONNS_PER_HOST", "http_client.max_idle_conns_per_host", &cfg.HTTPClient.MaxIdleConnsPerHost)
	o.duration("HTTP_CLIENT_IDLE_CONN_TIMEOUT", "http_client.idle_conn_timeout", &cfg.HTTPClient.IdleConnTimeout)

	// Provider overrides for every configured provider
	for name, provider := range cfg.Providers {
		prefix := "PROVIDERS_" + envName(name) + "_"
		field := "providers." + name + "."

		o.str(prefix+"MODEL", &provider.Model)
		o.str(prefix+"BASE_URL", &provider.BaseURL)
		o.str(prefix+"API_KEY_LOCATION", &provider.APIKeyLocation)
		if val, ok := lookup(prefix + "TOP_K"); ok {
			if i, err := strconv.Atoi(val); err == nil {
				provider.TopK = &i
			} else {
				o.fail(prefix+"TOP_K", field+"top_k", err)
			}
		}

		cfg.Providers[name] = provider
	}

	// Secrets overrides
	o.str("SECRETS_ENV_PREFIX", &cfg.Secrets.Env.Prefix)
	o.str("SECRETS_FILE_PATH", &cfg.Secrets.File.Path)
	o.boolean("SECRETS_FILE_WATCH", "secrets.file.watch", &cfg.Secrets.File.Watch)

	// Telemetry overrides
	o.str("TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	o.str("TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	o.boolean("TELEMETRY_METRICS_ENABLED", "telemetry.metrics.enabled", &cfg.Telemetry.Metrics.Enabled)
	o.str("TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)
	o.str("TELEMETRY_METRICS_LISTEN_ADDRESS", &cfg.Telemetry.Metrics.ListenAddress)
	o.boolean("TELEMETRY_TRACING_ENABLED", "telemetry.tracing.enabled", &cfg.Telemetry.Tracing.Enabled)
	o.str("TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	o.str("TELEMETRY_TRACING_SAMPLER", &cfg.Telemetry.Tracing.Sampler)
	if val, ok := lookup("TELEMETRY_TRACING_SAMPLE_RATIO"); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		} else {
			o.fail("TELEMETRY_TRACING_SAMPLE_RATIO", "telemetry.tracing.sample_ratio", err)
		}
	}

	return o.errs
}

// overrides collects parse failures while applying environment overrides.
type overrides struct {
	errs []FieldError
}

func (o *overrides) fail(env, field string, err error) {
	o.errs = append(o.errs, FieldError{
		Field:   field,
		Message: fmt.Sprintf("invalid value in %s%s: %v", EnvPrefix, env, err),
	})
}

func (o *overrides) str(env string, dst *string) {
	if val, ok := lookup(env); ok {
		*dst = val
	}
}

func (o *overrides) duration(env, field string, dst *time.Duration) {
	if val, ok := lookup(env); ok {
		d, err := time.ParseDuration(val)
		if err != nil {
			o.fail(env, field, err)
			return
		}
		*dst = d
	}
}

func (o *overrides) integer(env, field string, dst *int) {
	if val, ok := lookup(env); ok {
		i, err := strconv.Atoi(val)
		if err != nil {
			o.fail(env, field, err)
			return
		}
		*dst = i
	}
}

func (o *overrides) boolean(env, field string, dst *bool) {
	if val, ok := lookup(env); ok {
		b, err := strconv.ParseBool(val)
		if err != nil {
			o.fail(env, field, err)
			return
		}
		*dst = b
	}
}

// lookup reads RELAY_<name>; empty values count as unset.
func lookup(name string) (string, bool) {
	val := os.Getenv(EnvPrefix + name)
	return val, val != ""
}

// envName converts a provider name into its environment variable form.
//
// Example: "cohere-prod" -> "COHERE_PROD"
func envName(name string) string {
	return strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(name))
}
