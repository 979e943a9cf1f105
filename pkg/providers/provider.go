package providers

import (
	"context"
	"net/http"
)

// Provider is the contract every vendor adapter implements.
//
// Infer performs exactly one inference call: it resolves the adapter's
// credential against creds, translates req into the vendor wire format,
// sends one HTTP request through client and normalizes the outcome into an
// *InferenceResponse or one of the typed errors in this package. There is no
// retry and no timeout beyond what client and ctx impose; cancelling ctx
// aborts the in-flight request.
//
// Implementations are immutable after construction and safe for concurrent
// use. They never mutate req or creds.
//
// Example usage:
//
//	provider, err := providerfactory.NewProvider(providers.ProviderConfig{
//	    Name:       "cohere",
//	    Type:       providers.TypeCohere,
//	    Model:      "command-r-plus",
//	    Credential: providers.DynamicCredential("COHERE_API_KEY"),
//	})
//	if err != nil {
//	    return err
//	}
//
//	req := providers.NewInferenceRequest(
//	    providers.NewTextMessage(providers.RoleUser, "Hello!"),
//	)
//	creds := providers.DynamicCredentials{"COHERE_API_KEY": providers.NewSecret(key)}
//
//	resp, err := provider.Infer(ctx, req, httpClient, creds)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(resp.Text())
type Provider interface {
	// Infer sends one inference request to the vendor and returns the
	// normalized response or a typed error.
	Infer(ctx context.Context, req *InferenceRequest, client *http.Client, creds DynamicCredentials) (*InferenceResponse, error)

	// Name returns the provider's configured instance name.
	Name() string

	// Type returns the provider type tag (e.g., "cohere", "openai").
	Type() string

	// Capabilities reports which optional features the adapter honors.
	Capabilities() Capabilities
}

// Provider type tags. The set is closed: providerfactory dispatches over it.
const (
	TypeOpenAI    = "openai"
	TypeAnthropic = "anthropic"
	TypeCohere    = "cohere"
	TypeGeneric   = "generic"
)

// Capabilities describes the optional features of an adapter.
type Capabilities struct {
	// ToolCalling indicates the adapter forwards tool definitions and tool choice
	ToolCalling bool

	// ParallelToolCalls indicates the vendor accepts the parallel_tool_calls flag
	ParallelToolCalls bool

	// SystemPrompt indicates the vendor accepts a system prompt
	SystemPrompt bool

	// Seed indicates the vendor accepts a sampling seed
	Seed bool

	// Streaming indicates Infer can deliver a streamed response
	Streaming bool
}

// ProviderConfig contains the configuration of one adapter instance.
type ProviderConfig struct {
	// Name is the provider instance identifier (e.g., "cohere-prod")
	Name string

	// Type is the provider type (one of the Type* constants)
	Type string

	// Model is the vendor model identifier sent with every request
	Model string

	// BaseURL is the API endpoint base URL ("" = vendor default)
	BaseURL string

	// Credential describes where the API key comes from
	Credential Credential

	// TopK limits sampling to the K most likely tokens where supported (nil = vendor default)
	TopK *int

	// StopSequences are sent with every request where supported
	StopSequences []string

	// Logprobs requests token log probabilities where supported
	Logprobs bool
}

// CheckToolSupport returns a *ConfigError when req cannot be honored without
// tool calling and caps does not include it. Adapters call it before
// building the vendor request so that no network call is made.
func CheckToolSupport(providerName string, caps Capabilities, req *InferenceRequest) error {
	if caps.ToolCalling || !req.ToolConfig.RequiresToolUse() {
		return nil
	}
	return &ConfigError{
		Provider: providerName,
		Field:    "tool_choice",
		Message:  "tool use is required by the request but the provider does not support tool calling",
	}
}

// CheckStreamSupport returns a *ConfigError when req asks for a streamed
// response and caps does not include streaming.
func CheckStreamSupport(providerName string, caps Capabilities, req *InferenceRequest) error {
	if caps.Streaming || !req.Stream {
		return nil
	}
	return &ConfigError{
		Provider: providerName,
		Field:    "stream",
		Message:  "streaming was requested but the provider only supports non-streaming calls",
	}
}
