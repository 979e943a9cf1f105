package anthropic

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"mercator-hq/relay/pkg/providers"
)

// Provider is the Anthropic provider adapter.
// It implements the providers.Provider interface for Anthropic's Messages API.
type Provider struct {
	config   providers.ProviderConfig
	endpoint string
}

var _ providers.Provider = (*Provider)(nil)

const (
	// DefaultAnthropicVersion is the API version to use
	DefaultAnthropicVersion = "2023-06-01"

	// DefaultBaseURL is the Anthropic API base URL
	DefaultBaseURL = "https://api.anthropic.com"

	messagesPath = "/v1/messages"
)

// NewProvider creates a new Anthropic provider instance.
func NewProvider(config providers.ProviderConfig) (*Provider, error) {
	// Validate configuration
	if config.Name == "" {
		return nil, &providers.ConfigError{
			Provider: providers.TypeAnthropic,
			Field:    "name",
			Message:  "provider name is required",
		}
	}

	if config.Model == "" {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "model",
			Message:  "model is required for Anthropic",
		}
	}

	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}

	p := &Provider{
		config:   config,
		endpoint: strings.TrimRight(config.BaseURL, "/") + messagesPath,
	}

	slog.Debug("Anthropic provider initialized",
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
	return providers.TypeAnthropic
}

// Capabilities reports the features supported by the Anthropic adapter.
func (p *Provider) Capabilities() providers.Capabilities {
	return providers.Capabilities{
		ToolCalling:       true,
		ParallelToolCalls: true,
		SystemPrompt:      true,
	}
}

// Infer sends one messages request to Anthropic. The call is always non-streaming.
func (p *Provider) Infer(ctx context.Context, req *providers.InferenceRequest, client *http.Client, creds providers.DynamicCredentials) (*providers.InferenceResponse, error) {
	apiKey, err := p.config.Credential.Resolve(p.config.Name, creds)
	if err != nil {
		return nil, err
	}

	if err := providers.CheckStreamSupport(p.config.Name, p.Capabilities(), req); err != nil {
		return nil, err
	}

	body, err := providers.MarshalRequest(providers.TypeAnthropic, transformRequest(p.config, req))
	if err != nil {
		return nil, err
	}

	headers := http.Header{}
	headers.Set("x-api-key", apiKey.ExposeSecret())
	headers.Set("anthropic-version", DefaultAnthropicVersion)
	headers.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := providers.Send(ctx, client, providers.HTTPRequest{
		ProviderType: providers.TypeAnthropic,
		URL:          p.endpoint,
		Body:         body,
		Headers:      headers,
	})
	if err != nil {
		return nil, err
	}

	if !resp.Success() {
		return nil, providers.StatusError(resp, body, providers.TypeAnthropic, errorMessage(resp.Body))
	}

	var anthropicResp AnthropicResponse
	if err := providers.DecodeResponse(resp, body, providers.TypeAnthropic, &anthropicResp); err != nil {
		return nil, err
	}

	result := transformResponse(req, &anthropicResp)
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
