package providerfactory

import (
	"fmt"
	"log/slog"

	"mercator-hq/relay/pkg/providers"
	"mercator-hq/relay/pkg/providers/anthropic"
	"mercator-hq/relay/pkg/providers/cohere"
	"mercator-hq/relay/pkg/providers/generic"
	"mercator-hq/relay/pkg/providers/openai"
)

// NewProvider creates a new provider instance based on the configuration.
// It is the single dispatch point over the closed set of provider types.
//
// Supported provider types:
//   - "openai": OpenAI chat completions API
//   - "anthropic": Anthropic Messages API
//   - "cohere": Cohere v2 chat API
//   - "generic": OpenAI-compatible APIs (Ollama, vLLM, Together, Fireworks, etc.)
//
// The provider type is determined from the config.Type field. If not specified,
// it is inferred from well-known provider names; any other name without a type
// is a configuration error.
//
// Example:
//
//	provider, err := NewProvider(providers.ProviderConfig{
//	    Name:       "cohere",
//	    Type:       providers.TypeCohere,
//	    Model:      "command-r-plus",
//	    Credential: providers.DynamicCredential("COHERE_API_KEY"),
//	})
//	if err != nil {
//	    return err
//	}
func NewProvider(config providers.ProviderConfig) (providers.Provider, error) {
	providerType := config.Type
	if providerType == "" {
		providerType = inferProviderType(config.Name)
		config.Type = providerType
	}

	slog.Debug("creating provider",
		"name", config.Name,
		"type", providerType,
		"base_url", config.BaseURL,
	)

	var provider providers.Provider
	var err error

	switch providerType {
	case providers.TypeOpenAI:
		provider, err = openai.NewProvider(config)

	case providers.TypeAnthropic:
		provider, err = anthropic.NewProvider(config)

	case providers.TypeCohere:
		provider, err = cohere.NewProvider(config)

	case providers.TypeGeneric:
		provider, err = generic.NewProvider(config)

	case "":
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "type",
			Message:  "provider type is required",
		}

	default:
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "type",
			Message:  fmt.Sprintf("unsupported provider type: %q (supported: openai, anthropic, cohere, generic)", providerType),
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create provider %q: %w", config.Name, err)
	}

	slog.Debug("provider created successfully",
		"name", config.Name,
		"type", providerType,
	)

	return provider, nil
}

// inferProviderType infers the provider type from the provider name.
func inferProviderType(name string) string {
	switch name {
	case "openai":
		return providers.TypeOpenAI
	case "anthropic":
		return providers.TypeAnthropic
	case "cohere":
		return providers.TypeCohere
	case "ollama", "lmstudio", "vllm", "localai", "together", "fireworks":
		return providers.TypeGeneric
	default:
		return ""
	}
}
