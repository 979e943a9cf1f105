package cohere

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"mercator-hq/relay/pkg/providers"
)

const (
	// DefaultBaseURL is the Cohere API base URL
	DefaultBaseURL = "https://api.cohere.com"

	chatPath = "/v2/chat"
)

// Provider is the Cohere provider adapter.
// It implements the providers.Provider interface for Cohere's v2 chat API.
type Provider struct {
	config   providers.ProviderConfig
	endpoint string
}

var _ providers.Provider = (*Provider)(nil)

// NewProvider creates a new Cohere provider instance.
func NewProvider(config providers.ProviderConfig) (*Provider, error) {
	if config.Name == "" {
		return nil, &providers.ConfigError{
			Provider: providers.TypeCohere,
			Field:    "name",
			Message:  "provider name is required",
		}
	}

	if config.Model == "" {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "model",
			Message:  "model is required for Cohere",
		}
	}

	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}

	p := &Provider{
		config:   config,
		endpoint: strings.TrimRight(config.BaseURL, "/") + chatPath,
	}

	slog.Debug("Cohere provider initialized",
		"provider", config.Name,
		"model", config.Model,
		"base_url", config.BaseURL,
		"credential", config.Credential,
	)

	return p, nil
}

// Name returns the provider's configured name.
func (p *Provider) Name() string {
	return p.config.Name
}

// Type returns the provider type.
func (p *Provider) Type() string {
	return providers.TypeCohere
}

// Capabilities reports the features supported by the Cohere adapter.
func (p *Provider) Capabilities() providers.Capabilities {
	return providers.Capabilities{
		SystemPrompt: true,
		Seed:         true,
	}
}

// Infer sends one chat request to Cohere. The call is always non-streaming.
func (p *Provider) Infer(ctx context.Context, req *providers.InferenceRequest, client *http.Client, creds providers.DynamicCredentials) (*providers.InferenceResponse, error) {
	apiKey, err := p.config.Credential.Resolve(p.config.Name, creds)
	if err != nil {
		return nil, err
	}

	if err := providers.CheckToolSupport(p.config.Name, p.Capabilities(), req); err != nil {
		return nil, err
	}
	if err := providers.CheckStreamSupport(p.config.Name, p.Capabilities(), req); err != nil {
		return nil, err
	}

	body, err := providers.MarshalRequest(providers.TypeCohere, transformRequest(p.config, req))
	if err != nil {
		return nil, err
	}

	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+apiKey.ExposeSecret())
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json")

	start := time.Now()
	resp, err := providers.Send(ctx, client, providers.HTTPRequest{
		ProviderType: providers.TypeCohere,
		URL:          p.endpoint,
		Body:         body,
		Headers:      headers,
	})
	if err != nil {
		return nil, err
	}

	if !resp.Success() {
		slog.DebugContext(ctx, "Cohere returned error status",
			"provider", p.config.Name,
			"status", resp.StatusCode,
		)
		return nil, providers.StatusError(resp, body, providers.TypeCohere, errorMessage(resp.Body))
	}

	var cohereResp CohereResponse
	if err := providers.DecodeResponse(resp, body, providers.TypeCohere, &cohereResp); err != nil {
		return nil, err
	}

	result := transformResponse(req, &cohereResp)
	result.RawRequest = string(body)
	result.RawResponse = resp.Body
	result.Latency = time.Since(start)

	slog.DebugContext(ctx, "inference request succeeded",
		"provider", p.config.Name,
		"model", p.config.Model,
		"input_tokens", result.Usage.InputTokens,
		"output_tokens", result.Usage.OutputTokens,
		"latency", result.Latency,
	)

	return result, nil
}
