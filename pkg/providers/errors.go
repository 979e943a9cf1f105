package providers

import (
	"errors"
	"fmt"
)

// ErrorKind classifies provider errors. Callers that implement retry or
// fallback policies decide on the kind and never on message text.
type ErrorKind string

// Error kinds
const (
	// KindConfig means the request cannot be honored by the chosen adapter
	// or the adapter is misconfigured. Retrying the same adapter is pointless.
	KindConfig ErrorKind = "config"

	// KindAPIKeyMissing means no usable credential was available.
	KindAPIKeyMissing ErrorKind = "api_key_missing"

	// KindInferenceClient means the request could not be built or sent.
	KindInferenceClient ErrorKind = "inference_client"

	// KindInferenceServer means the vendor answered with a failure status or
	// a body that could not be understood.
	KindInferenceServer ErrorKind = "inference_server"

	// KindUnknown is returned by Kind for errors outside the taxonomy.
	KindUnknown ErrorKind = "unknown"
)

// ConfigError represents a provider configuration error.
// It is also returned when a request needs a capability (such as required
// tool use) that the adapter cannot provide.
type ConfigError struct {
	// Provider is the name of the provider with invalid configuration
	Provider string

	// Field is the configuration or request field that is invalid
	Field string

	// Message describes the configuration error
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("provider %q configuration error: %s", e.Provider, e.Message)
	}
	return fmt.Sprintf("provider %q configuration error for field %q: %s",
		e.Provider, e.Field, e.Message)
}

// APIKeyMissingError is returned when credential resolution yields no secret.
type APIKeyMissingError struct {
	// ProviderName is the name of the provider whose credential is missing
	ProviderName string
}

// Error implements the error interface.
func (e *APIKeyMissingError) Error() string {
	return fmt.Sprintf("API key missing for provider %q", e.ProviderName)
}

// InferenceClientError represents a failure on our side of the wire: the
// vendor request could not be serialized or the transport failed before a
// response arrived (connection refused, TLS failure, cancellation).
type InferenceClientError struct {
	// Message describes the failure
	Message string

	// StatusCode is the HTTP status code (0 if no response was received)
	StatusCode int

	// RawRequest is the serialized vendor request body, if it was built
	RawRequest string

	// RawResponse is the vendor response body, if one was received
	RawResponse string

	// ProviderType is the provider type tag (e.g. "cohere")
	ProviderType string

	// Cause is the underlying error (if any)
	Cause error
}

// Error implements the error interface.
func (e *InferenceClientError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s client error (status %d): %s", e.ProviderType, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s client error: %s", e.ProviderType, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *InferenceClientError) Unwrap() error {
	return e.Cause
}

// InferenceServerError represents a failure reported by or attributable to
// the vendor: a non-2xx status, an unreadable body or an unparsable body.
// Every non-2xx response maps to this error regardless of status.
type InferenceServerError struct {
	// Message describes the failure, refined from the vendor error body when possible
	Message string

	// StatusCode is the HTTP status code returned by the vendor
	StatusCode int

	// RawRequest is the serialized vendor request body
	RawRequest string

	// RawResponse is the literal vendor response body ("" if it could not be read)
	RawResponse string

	// ProviderType is the provider type tag (e.g. "cohere")
	ProviderType string

	// Cause is the underlying error (if any)
	Cause error
}

// Error implements the error interface.
func (e *InferenceServerError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s server error (status %d): %s", e.ProviderType, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s server error: %s", e.ProviderType, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *InferenceServerError) Unwrap() error {
	return e.Cause
}

// Kind returns the error kind of err, looking through wrapped errors.
func Kind(err error) ErrorKind {
	var (
		configErr *ConfigError
		keyErr    *APIKeyMissingError
		clientErr *InferenceClientError
		serverErr *InferenceServerError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &configErr):
		return KindConfig
	case errors.As(err, &keyErr):
		return KindAPIKeyMissing
	case errors.As(err, &clientErr):
		return KindInferenceClient
	case errors.As(err, &serverErr):
		return KindInferenceServer
	default:
		return KindUnknown
	}
}

// StatusCode returns the HTTP status code carried by an inference error, or 0.
func StatusCode(err error) int {
	var clientErr *InferenceClientError
	if errors.As(err, &clientErr) {
		return clientErr.StatusCode
	}
	var serverErr *InferenceServerError
	if errors.As(err, &serverErr) {
		return serverErr.StatusCode
	}
	return 0
}

// ProviderType returns the provider type tag carried by an inference error, or "".
func ProviderType(err error) string {
	var clientErr *InferenceClientError
	if errors.As(err, &clientErr) {
		return clientErr.ProviderType
	}
	var serverErr *InferenceServerError
	if errors.As(err, &serverErr) {
		return serverErr.ProviderType
	}
	return ""
}

// RawResponse returns the vendor response text carried by an inference error, or "".
func RawResponse(err error) string {
	var clientErr *InferenceClientError
	if errors.As(err, &clientErr) {
		return clientErr.RawResponse
	}
	var serverErr *InferenceServerError
	if errors.As(err, &serverErr) {
		return serverErr.RawResponse
	}
	return ""
}
