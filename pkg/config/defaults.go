package config

import (
	"strings"
	"time"

	"mercator-hq/relay/pkg/providers"
)

// Default values for configuration fields.
const (
	// HTTP client defaults
	DefaultHTTPTimeout         = 60 * time.Second
	DefaultMaxIdleConns        = 100
	DefaultMaxIdleConnsPerHost = 10
	DefaultIdleConnTimeout     = 90 * time.Second

	// Secrets defaults
	DefaultSecretEnvPrefix = "RELAY_SECRET_"

	// Telemetry defaults
	DefaultLoggingLevel       = "info"
	DefaultLoggingFormat      = "json"
	DefaultMetricsPath        = "/metrics"
	DefaultMetricsNamespace   = "relay"
	DefaultTracingSampler     = "ratio"
	DefaultTracingSampleRatio = 1.0
	DefaultTracingExporter    = "otlp"
	DefaultTracingService     = "relay"
	DefaultOTLPTimeout        = 10 * time.Second
)

// DefaultRequestDurationBuckets are the default latency histogram buckets in seconds.
var DefaultRequestDurationBuckets = []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// HTTP client defaults
	if cfg.HTTPClient.Timeout == 0 {
		cfg.HTTPClient.Timeout = DefaultHTTPTimeout
	}
	if cfg.HTTPClient.MaxIdleConns == 0 {
		cfg.HTTPClient.MaxIdleConns = DefaultMaxIdleConns
	}
	if cfg.HTTPClient.MaxIdleConnsPerHost == 0 {
		cfg.HTTPClient.MaxIdleConnsPerHost = DefaultMaxIdleConnsPerHost
	}
	if cfg.HTTPClient.IdleConnTimeout == 0 {
		cfg.HTTPClient.IdleConnTimeout = DefaultIdleConnTimeout
	}

	// Provider defaults - applied to each provider
	for name, provider := range cfg.Providers {
		if provider.Type == "" {
			provider.Type = inferProviderType(name)
		}
		if provider.APIKeyLocation == "" {
			provider.APIKeyLocation = defaultKeyLocation(provider.Type)
		}
		cfg.Providers[name] = provider
	}

	// Secrets defaults
	if cfg.Secrets.Env.Enabled == nil {
		enabled := true
		cfg.Secrets.Env.Enabled = &enabled
	}
	if cfg.Secrets.Env.Prefix == "" {
		cfg.Secrets.Env.Prefix = DefaultSecretEnvPrefix
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if len(cfg.Telemetry.Metrics.RequestDurationBuckets) == 0 {
		cfg.Telemetry.Metrics.RequestDurationBuckets = append([]float64(nil), DefaultRequestDurationBuckets...)
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 && cfg.Telemetry.Tracing.Sampler == "ratio" {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Telemetry.Tracing.Exporter == "" {
		cfg.Telemetry.Tracing.Exporter = DefaultTracingExporter
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingService
	}
	if cfg.Telemetry.Tracing.OTLP.Timeout == 0 {
		cfg.Telemetry.Tracing.OTLP.Timeout = DefaultOTLPTimeout
	}
}

// inferProviderType infers the adapter type from well-known provider names.
func inferProviderType(name string) string {
	switch name {
	case providers.TypeOpenAI, providers.TypeAnthropic, providers.TypeCohere:
		return name
	case "ollama", "lmstudio", "vllm", "localai", "together", "fireworks":
		return providers.TypeGeneric
	default:
		return ""
	}
}

// defaultKeyLocation returns the key location used when none is configured.
func defaultKeyLocation(providerType string) string {
	switch providerType {
	case providers.TypeOpenAI, providers.TypeAnthropic, providers.TypeCohere:
		return string(KeyLocationEnv) + locationSeparator + strings.ToUpper(providerType) + "_API_KEY"
	default:
		return string(KeyLocationNone)
	}
}
