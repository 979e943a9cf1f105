// Package anthropic implements the Anthropic provider adapter.
//
// This package provides an implementation of the providers.Provider interface
// for Anthropic's Messages API. It supports:
//
//   - Messages API (Claude models), non-streaming
//   - Tool calling (tool_use and tool_result content blocks)
//   - Token usage tracking
//
// # Basic Usage
//
//	config := providers.ProviderConfig{
//	    Name:       "anthropic",
//	    Type:       providers.TypeAnthropic,
//	    Model:      "claude-3-opus-20240229",
//	    Credential: providers.DynamicCredential("ANTHROPIC_API_KEY"),
//	}
//
//	provider, err := anthropic.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := provider.Infer(ctx, req, httpClient, creds)
//
// # Request Transformation
//
//   - The system prompt is sent as the top-level "system" field
//   - max_tokens is required by the API and defaults to 4096 when unset
//   - Tool choice maps to auto, any (required) or tool (specific); none drops the tools
//   - Seed and penalty parameters are not supported by the API and are not sent
//
// # Authentication
//
// The resolved secret is sent in the x-api-key header together with the
// anthropic-version header.
package anthropic
