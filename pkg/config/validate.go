package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"mercator-hq/relay/pkg/providers"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "providers.cohere.model").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateHTTPClient(&cfg.HTTPClient)...)
	errs = append(errs, validateProviders(cfg.Providers)...)
	errs = append(errs, validateSecrets(&cfg.Secrets)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateHTTPClient validates the outbound HTTP client configuration.
func validateHTTPClient(cfg *HTTPClientConfig) []FieldError {
	var errs []FieldError

	if cfg.Timeout < 0 {
		errs = append(errs, FieldError{
			Field:   "http_client.timeout",
			Message: "timeout must be positive",
		})
	}
	if cfg.IdleConnTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "http_client.idle_conn_timeout",
			Message: "idle connection timeout must be positive",
		})
	}
	if cfg.MaxIdleConns < 0 {
		errs = append(errs, FieldError{
			Field:   "http_client.max_idle_conns",
			Message: "max idle connections must be non-negative",
		})
	}
	if cfg.MaxIdleConnsPerHost < 0 {
		errs = append(errs, FieldError{
			Field:   "http_client.max_idle_conns_per_host",
			Message: "max idle connections per host must be non-negative",
		})
	}
	if err := cfg.TLS.Validate(); err != nil {
		errs = append(errs, FieldError{
			Field:   "http_client.tls",
			Message: err.Error(),
		})
	}

	return errs
}

var supportedProviderTypes = []string{
	providers.TypeOpenAI,
	providers.TypeAnthropic,
	providers.TypeCohere,
	providers.TypeGeneric,
}

// validateProviders validates provider configurations in name order.
func validateProviders(configs map[string]ProviderConfig) []FieldError {
	var errs []FieldError

	if len(configs) == 0 {
		errs = append(errs, FieldError{
			Field:   "providers",
			Message: "at least one provider must be configured",
		})
		return errs
	}

	names := make([]string, 0, len(configs))
	for name := range configs {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		provider := configs[name]
		prefix := fmt.Sprintf("providers.%s", name)

		switch {
		case provider.Type == "":
			errs = append(errs, FieldError{
				Field:   prefix + ".type",
				Message: "provider type is required (openai, anthropic, cohere, generic)",
			})
		case !slices.Contains(supportedProviderTypes, provider.Type):
			errs = append(errs, FieldError{
				Field:   prefix + ".type",
				Message: fmt.Sprintf("unsupported provider type %q (supported: %s)", provider.Type, strings.Join(supportedProviderTypes, ", ")),
			})
		}

		if provider.Model == "" {
			errs = append(errs, FieldError{
				Field:   prefix + ".model",
				Message: "model is required",
			})
		}

		if provider.BaseURL == "" {
			if provider.Type == providers.TypeGeneric {
				errs = append(errs, FieldError{
					Field:   prefix + ".base_url",
					Message: "base URL is required for generic providers",
				})
			}
		} else if u, err := url.Parse(provider.BaseURL); err != nil {
			errs = append(errs, FieldError{
				Field:   prefix + ".base_url",
				Message: fmt.Sprintf("invalid URL format: %v", err),
			})
		} else if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, FieldError{
				Field:   prefix + ".base_url",
				Message: "base URL must be an absolute http or https URL",
			})
		}

		if _, err := ParseKeyLocation(provider.APIKeyLocation); err != nil {
			errs = append(errs, FieldError{
				Field:   prefix + ".api_key_location",
				Message: err.Error(),
			})
		}

		if provider.TopK != nil && *provider.TopK < 0 {
			errs = append(errs, FieldError{
				Field:   prefix + ".top_k",
				Message: "top_k must be non-negative",
			})
		}
	}

	return errs
}

// validateSecrets validates secret source configuration.
func validateSecrets(cfg *SecretsConfig) []FieldError {
	var errs []FieldError

	if cfg.File.Watch && cfg.File.Path == "" {
		errs = append(errs, FieldError{
			Field:   "secrets.file.path",
			Message: "path is required when watch is enabled",
		})
	}

	return errs
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	// Validate logging level
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	// Validate logging format
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json' or 'text'", cfg.Logging.Format),
		})
	}

	for i, pattern := range cfg.Logging.RedactPatterns {
		if pattern.Name == "" || pattern.Pattern == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("telemetry.logging.redact_patterns[%d]", i),
				Message: "name and pattern are required",
			})
		}
	}

	// Validate metrics
	if cfg.Metrics.Path == "" || cfg.Metrics.Path[0] != '/' {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with /",
		})
	}
	if !slices.IsSorted(cfg.Metrics.RequestDurationBuckets) {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.request_duration_buckets",
			Message: "buckets must be in increasing order",
		})
	}

	// Validate tracing
	validSamplers := map[string]bool{"always": true, "never": true, "ratio": true}
	if !validSamplers[cfg.Tracing.Sampler] {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q: must be 'always', 'never', or 'ratio'", cfg.Tracing.Sampler),
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1.0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}
	if cfg.Tracing.Exporter != "otlp" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.exporter",
			Message: fmt.Sprintf("unsupported exporter %q: must be 'otlp'", cfg.Tracing.Exporter),
		})
	}
	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "tracing endpoint is required when tracing is enabled",
		})
	}

	return errs
}
