package openai

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"mercator-hq/relay/pkg/providers"
	"mercator-hq/relay/pkg/providers/openaicompat"
)

const (
	// DefaultBaseURL is the OpenAI API base URL
	DefaultBaseURL = "https://api.openai.com/v1"

	chatCompletionsPath = "/chat/completions"
)

// Provider is the OpenAI provider adapter.
// It implements the providers.Provider interface for OpenAI's chat
// completions API and, through NewCompatibleProvider, for any server that
// speaks the same format.
type Provider struct {
	config       providers.ProviderConfig
	providerType string
	endpoint     string
	optionalAuth bool
}

var _ providers.Provider = (*Provider)(nil)

// NewProvider creates a new OpenAI provider instance.
func NewProvider(config providers.ProviderConfig) (*Provider, error) {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	return NewCompatibleProvider(config, providers.TypeOpenAI, false)
}

// NewCompatibleProvider creates an adapter for an OpenAI-compatible server.
// providerType tags errors and metrics. When optionalAuth is set, None and
// Missing credentials send no Authorization header instead of failing.
func NewCompatibleProvider(config providers.ProviderConfig, providerType string, optionalAuth bool) (*Provider, error) {
	if config.Name == "" {
		return nil, &providers.ConfigError{
			Provider: providerType,
			Field:    "name",
			Message:  "provider name is required",
		}
	}

	if config.BaseURL == "" {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "base_url",
			Message:  "base URL is required",
		}
	}

	if config.Model == "" {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "model",
			Message:  "model is required",
		}
	}

	p := &Provider{
		config:       config,
		providerType: providerType,
		endpoint:     strings.TrimRight(config.BaseURL, "/") + chatCompletionsPath,
		optionalAuth: optionalAuth,
	}

	slog.Debug("OpenAI-compatible provider initialized",
		"provider", config.Name,
		"type", providerType,
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
	return p.providerType
}

// Capabilities reports the features supported by the adapter.
func (p *Provider) Capabilities() providers.Capabilities {
	return providers.Capabilities{
		ToolCalling:       true,
		ParallelToolCalls: true,
		SystemPrompt:      true,
		Seed:              true,
	}
}

// Infer sends one chat completion request. The call is always non-streaming.
func (p *Provider) Infer(ctx context.Context, req *providers.InferenceRequest, client *http.Client, creds providers.DynamicCredentials) (*providers.InferenceResponse, error) {
	headers := http.Header{}
	if !p.anonymous() {
		apiKey, err := p.config.Credential.Resolve(p.config.Name, creds)
		if err != nil {
			return nil, err
		}
		headers.Set("Authorization", "Bearer "+apiKey.ExposeSecret())
	}
	headers.Set("Content-Type", "application/json")

	if err := providers.CheckStreamSupport(p.config.Name, p.Capabilities(), req); err != nil {
		return nil, err
	}

	body, err := providers.MarshalRequest(p.providerType, transformRequest(p.config, req))
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := providers.Send(ctx, client, providers.HTTPRequest{
		ProviderType: p.providerType,
		URL:          p.endpoint,
		Body:         body,
		Headers:      headers,
	})
	if err != nil {
		return nil, err
	}

	if !resp.Success() {
		return nil, providers.StatusError(resp, body, p.providerType, openaicompat.ExtractErrorMessage(resp.Body))
	}

	var openaiResp openaicompat.ChatCompletionResponse
	if err := providers.DecodeResponse(resp, body, p.providerType, &openaiResp); err != nil {
		return nil, err
	}
	if len(openaiResp.Choices) == 0 {
		return nil, &providers.InferenceServerError{
			Message:      "no choices in response",
			StatusCode:   resp.StatusCode,
			RawRequest:   string(body),
			RawResponse:  resp.Body,
			ProviderType: p.providerType,
		}
	}

	result := transformResponse(req, &openaiResp)
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

// anonymous reports whether requests are sent without an Authorization header.
func (p *Provider) anonymous() bool {
	if !p.optionalAuth {
		return false
	}
	kind := p.config.Credential.Kind()
	return kind == providers.CredentialNone || kind == providers.CredentialMissing
}
