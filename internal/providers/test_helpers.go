package providers

import (
	"errors"
	"testing"

	"mercator-hq/relay/pkg/providers"
)

// TestAPIKey is the static secret used by TestConfig.
const TestAPIKey = "test-key"

// TestConfig returns a test provider configuration with a static credential.
func TestConfig(name, providerType string) providers.ProviderConfig {
	return providers.ProviderConfig{
		Name:       name,
		Type:       providerType,
		Model:      "test-model",
		BaseURL:    "http://localhost:8080",
		Credential: providers.StaticCredential(providers.NewSecret(TestAPIKey)),
	}
}

// TestConfigWithURL returns a test config with a specific base URL.
func TestConfigWithURL(name, providerType, baseURL string) providers.ProviderConfig {
	config := TestConfig(name, providerType)
	config.BaseURL = baseURL
	return config
}

// TestRequest creates a request with a single user message and no optional parameters.
func TestRequest(content string) *providers.InferenceRequest {
	return providers.NewInferenceRequest(providers.NewTextMessage(providers.RoleUser, content))
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertErrorKind fails the test if err is not of the expected kind.
func AssertErrorKind(t *testing.T, err error, kind providers.ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := providers.Kind(err); got != kind {
		t.Fatalf("expected %s error, got %s (%T): %v", kind, got, err, err)
	}
}

// AssertServerError asserts err is an *InferenceServerError and returns it.
func AssertServerError(t *testing.T, err error) *providers.InferenceServerError {
	t.Helper()
	var serverErr *providers.InferenceServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("expected *InferenceServerError, got %T: %v", err, err)
	}
	return serverErr
}

// AssertClientError asserts err is an *InferenceClientError and returns it.
func AssertClientError(t *testing.T, err error) *providers.InferenceClientError {
	t.Helper()
	var clientErr *providers.InferenceClientError
	if !errors.As(err, &clientErr) {
		t.Fatalf("expected *InferenceClientError, got %T: %v", err, err)
	}
	return clientErr
}

// AssertAbsent fails the test if any of keys is present in body.
func AssertAbsent(t *testing.T, body map[string]interface{}, keys ...string) {
	t.Helper()
	for _, key := range keys {
		if _, ok := body[key]; ok {
			t.Errorf("expected field %q to be absent from request body, got %v", key, body[key])
		}
	}
}
