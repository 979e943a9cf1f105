package config

import (
	"fmt"
	"time"

	"mercator-hq/relay/pkg/providers"
	relaytls "mercator-hq/relay/pkg/security/tls"
)

// Config is the root configuration structure for Relay.
type Config struct {
	// HTTPClient configures the shared outbound HTTP client used by every adapter.
	HTTPClient HTTPClientConfig `yaml:"http_client"`

	// Providers contains configuration for all provider adapters.
	// Keys are provider instance names (e.g., "cohere", "openai-eu").
	Providers map[string]ProviderConfig `yaml:"providers"`

	// Secrets configures the sources consulted for "secret::" key locations.
	Secrets SecretsConfig `yaml:"secrets"`

	// Telemetry contains configuration for logging, metrics and tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// HTTPClientConfig contains configuration for the outbound HTTP client.
// All timeouts live here; adapters add none of their own.
type HTTPClientConfig struct {
	// Timeout is the maximum duration of one inference call.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout"`

	// MaxIdleConns is the maximum number of idle connections across all hosts.
	// Default: 100
	MaxIdleConns int `yaml:"max_idle_conns"`

	// MaxIdleConnsPerHost is the maximum number of idle connections per host.
	// Default: 10
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host"`

	// IdleConnTimeout is how long an idle connection is kept in the pool.
	// Default: 90s
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`

	// TLS configures custom roots and client certificates for
	// self-hosted endpoints. Empty keeps the system defaults.
	TLS relaytls.Config `yaml:"tls"`
}

// ClientConfig converts the section into the providers HTTP client
// configuration. It fails when the TLS files cannot be loaded.
func (c HTTPClientConfig) ClientConfig() (providers.HTTPClientConfig, error) {
	tlsConfig, err := c.TLS.ToTLSConfig()
	if err != nil {
		return providers.HTTPClientConfig{}, fmt.Errorf("http_client.tls: %w", err)
	}

	return providers.HTTPClientConfig{
		Timeout:             c.Timeout,
		MaxIdleConns:        c.MaxIdleConns,
		MaxIdleConnsPerHost: c.MaxIdleConnsPerHost,
		IdleConnTimeout:     c.IdleConnTimeout,
		TLSConfig:           tlsConfig,
	}, nil
}

// ProviderConfig contains configuration for a single provider adapter.
type ProviderConfig struct {
	// Type is the adapter type: "openai", "anthropic", "cohere" or "generic".
	// When empty it is inferred from well-known provider names.
	Type string `yaml:"type"`

	// Model is the vendor model identifier.
	Model string `yaml:"model"`

	// BaseURL overrides the vendor API base URL. Required for "generic".
	BaseURL string `yaml:"base_url"`

	// APIKeyLocation says where the API key comes from:
	//   env::VAR        environment variable, read at load
	//   path::/file     file contents, read at load
	//   secret::name    secret manager lookup, at load
	//   dynamic::name   per-call dynamic credentials table
	//   none            no credential
	// Default: env::<TYPE>_API_KEY for vendor types, none for generic.
	APIKeyLocation string `yaml:"api_key_location"`

	// TopK limits sampling to the K most likely tokens where supported.
	TopK *int `yaml:"top_k"`

	// StopSequences are sent with every request where supported.
	StopSequences []string `yaml:"stop_sequences"`

	// Logprobs requests token log probabilities where supported.
	Logprobs bool `yaml:"logprobs"`
}

// SecretsConfig contains secret source configuration.
type SecretsConfig struct {
	// Env configures the environment variable secret source.
	Env EnvSecretsConfig `yaml:"env"`

	// File configures the directory secret source.
	File FileSecretsConfig `yaml:"file"`
}

// EnvSecretsConfig configures the environment variable secret source.
type EnvSecretsConfig struct {
	// Enabled controls whether the source is consulted.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// Prefix is prepended to the upper-cased secret name.
	// Default: "RELAY_SECRET_"
	Prefix string `yaml:"prefix"`
}

// FileSecretsConfig configures the directory secret source.
type FileSecretsConfig struct {
	// Path is the directory holding one file per secret. Empty disables the source.
	Path string `yaml:"path"`

	// Watch reloads secrets when files in Path change.
	// Default: false
	Watch bool `yaml:"watch"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	AddSource bool `yaml:"add_source"`

	// Redact enables pattern-based redaction of API keys and bearer tokens
	// in log arguments.
	// Default: true
	Redact *bool `yaml:"redact"`

	// RedactPatterns contains additional redaction patterns.
	RedactPatterns []RedactPattern `yaml:"redact_patterns"`
}

// RedactionEnabled reports whether log redaction is on.
func (c LoggingConfig) RedactionEnabled() bool {
	return c.Redact == nil || *c.Redact
}

// RedactPattern defines a custom redaction pattern.
type RedactPattern struct {
	// Name is a descriptive name for the pattern.
	Name string `yaml:"name"`

	// Pattern is the regular expression to match.
	Pattern string `yaml:"pattern"`

	// Replacement is the string to replace matches with.
	Replacement string `yaml:"replacement"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether adapter calls are instrumented.
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// ListenAddress serves the metrics endpoint when set (e.g., "127.0.0.1:9090").
	ListenAddress string `yaml:"listen_address"`

	// Namespace is the metric name prefix.
	// Default: "relay"
	Namespace string `yaml:"namespace"`

	// RequestDurationBuckets defines histogram buckets for call latency (seconds).
	// Default: [0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0]
	RequestDurationBuckets []float64 `yaml:"request_duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether adapter calls are traced.
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Exporter determines the trace exporter.
	// Options: "otlp"
	// Default: "otlp"
	Exporter string `yaml:"exporter"`

	// Endpoint is the OTLP gRPC collector endpoint (e.g., "localhost:4317").
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "relay"
	ServiceName string `yaml:"service_name"`

	// OTLP contains OTLP exporter specific configuration.
	OTLP OTLPConfig `yaml:"otlp"`
}

// OTLPConfig contains OTLP exporter configuration.
type OTLPConfig struct {
	// Insecure disables TLS for the OTLP connection.
	Insecure bool `yaml:"insecure"`

	// Timeout is the timeout for OTLP exports.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}
