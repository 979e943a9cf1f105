package providers

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// HTTPClientConfig configures the pooled HTTP client shared by adapters.
type HTTPClientConfig struct {
	// Timeout is the overall request timeout (0 = no timeout)
	Timeout time.Duration

	// MaxIdleConns is the maximum number of idle connections in the pool
	MaxIdleConns int

	// MaxIdleConnsPerHost is the maximum idle connections per host
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long an idle connection remains in the pool
	IdleConnTimeout time.Duration

	// TLSConfig overrides the transport TLS settings (nil = Go defaults)
	TLSConfig *tls.Config
}

// DefaultHTTPClientConfig returns the pool settings used when none are configured.
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:             60 * time.Second,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
}

// NewHTTPClient creates an HTTP client with connection pooling. The client
// is safe for concurrent use and is meant to be shared by every adapter.
func NewHTTPClient(config HTTPClientConfig) *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		TLSClientConfig:     config.TLSConfig,
		DisableCompression:  false,
		// Enable HTTP/2
		ForceAttemptHTTP2: true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   config.Timeout,
	}
}

// HTTPRequest is one vendor call.
type HTTPRequest struct {
	// ProviderType tags errors produced by the call
	ProviderType string

	// URL is the full endpoint URL
	URL string

	// Body is the serialized vendor request
	Body []byte

	// Headers are set on the outgoing request. Content-Type defaults to application/json.
	Headers http.Header
}

// HTTPResponse is the fully read vendor response.
type HTTPResponse struct {
	// StatusCode is the HTTP status code
	StatusCode int

	// Header holds the response headers
	Header http.Header

	// Body is the literal response body text
	Body string

	// Started is when the request was handed to the client
	Started time.Time

	// Finished is when the response body was fully read
	Finished time.Time
}

// Success reports whether the status code is 2xx.
func (r *HTTPResponse) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Latency returns the time between sending the request and reading the body.
func (r *HTTPResponse) Latency() time.Duration {
	return r.Finished.Sub(r.Started)
}

// MarshalRequest serializes a vendor request body. A failure is reported as
// an *InferenceClientError since nothing has been sent yet.
func MarshalRequest(providerType string, body any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, &InferenceClientError{
			Message:      fmt.Sprintf("failed to serialize request body: %v", err),
			ProviderType: providerType,
			Cause:        err,
		}
	}
	return data, nil
}

// Send performs exactly one POST through client and reads the whole response.
//
// A transport failure (including ctx cancellation) yields an
// *InferenceClientError carrying the raw request. A 2xx response whose body
// cannot be read yields an *InferenceServerError without a raw response.
// For non-2xx responses the body is read best effort and returned with a nil
// error; callers turn it into an *InferenceServerError with StatusError.
func Send(ctx context.Context, client *http.Client, call HTTPRequest) (*HTTPResponse, error) {
	rawRequest := string(call.Body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, call.URL, bytes.NewReader(call.Body))
	if err != nil {
		return nil, &InferenceClientError{
			Message:      fmt.Sprintf("failed to create request: %v", err),
			RawRequest:   rawRequest,
			ProviderType: call.ProviderType,
			Cause:        err,
		}
	}
	for key, values := range call.Headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	slog.DebugContext(ctx, "sending request to provider",
		"provider_type", call.ProviderType,
		"url", call.URL,
		"body_bytes", len(call.Body),
	)

	started := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, &InferenceClientError{
			Message:      fmt.Sprintf("error sending request: %v", err),
			RawRequest:   rawRequest,
			ProviderType: call.ProviderType,
			Cause:        err,
		}
	}
	defer resp.Body.Close()

	result := &HTTPResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Started:    started,
	}

	body, err := io.ReadAll(resp.Body)
	result.Finished = time.Now()
	if err != nil {
		if result.Success() {
			return nil, &InferenceServerError{
				Message:      fmt.Sprintf("error reading response body: %v", err),
				StatusCode:   resp.StatusCode,
				RawRequest:   rawRequest,
				ProviderType: call.ProviderType,
				Cause:        err,
			}
		}
		slog.DebugContext(ctx, "failed to read error response body",
			"provider_type", call.ProviderType,
			"status", resp.StatusCode,
			"error", err,
		)
		body = nil
	}
	result.Body = string(body)

	slog.DebugContext(ctx, "received response from provider",
		"provider_type", call.ProviderType,
		"status", resp.StatusCode,
		"latency", result.Latency(),
	)

	return result, nil
}

// StatusError builds the *InferenceServerError for a non-2xx response.
// message is the vendor-specific error message; when empty the raw body (or
// the status text for an empty body) is used instead.
func StatusError(resp *HTTPResponse, rawRequest []byte, providerType, message string) *InferenceServerError {
	if message == "" {
		message = resp.Body
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	return &InferenceServerError{
		Message:      message,
		StatusCode:   resp.StatusCode,
		RawRequest:   string(rawRequest),
		RawResponse:  resp.Body,
		ProviderType: providerType,
	}
}

// DecodeResponse unmarshals a 2xx response body into v. A parse failure is
// reported as an *InferenceServerError carrying the literal body.
func DecodeResponse(resp *HTTPResponse, rawRequest []byte, providerType string, v any) error {
	if err := json.Unmarshal([]byte(resp.Body), v); err != nil {
		return &InferenceServerError{
			Message:      fmt.Sprintf("error parsing JSON response: %v", err),
			StatusCode:   resp.StatusCode,
			RawRequest:   string(rawRequest),
			RawResponse:  resp.Body,
			ProviderType: providerType,
			Cause:        err,
		}
	}
	return nil
}
