package generic

import (
	"mercator-hq/relay/pkg/providers"
	"mercator-hq/relay/pkg/providers/openai"
)

// Provider is a generic OpenAI-compatible provider adapter.
// It supports any provider that implements the OpenAI API format,
// such as Ollama, LM Studio, vLLM, Together or Fireworks.
//
// This adapter reuses the OpenAI request/response format but requires an
// explicit base URL and treats the API key as optional.
type Provider struct {
	*openai.Provider
}

var _ providers.Provider = (*Provider)(nil)

// NewProvider creates a new generic OpenAI-compatible provider instance.
// A None or Missing credential sends requests without an Authorization header.
func NewProvider(config providers.ProviderConfig) (*Provider, error) {
	if config.Name == "" {
		return nil, &providers.ConfigError{
			Provider: providers.TypeGeneric,
			Field:    "name",
			Message:  "provider name is required",
		}
	}

	if config.BaseURL == "" {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "base_url",
			Message:  "base URL is required for generic provider",
		}
	}

	openaiProvider, err := openai.NewCompatibleProvider(config, providers.TypeGeneric, true)
	if err != nil {
		return nil, err
	}

	return &Provider{Provider: openaiProvider}, nil
}
