// Package openai implements the OpenAI provider adapter.
//
// This package provides an implementation of the providers.Provider interface
// for OpenAI's chat completions API. It supports:
//
//   - Chat completions (non-streaming)
//   - Function/tool calling, including required and specific tool choice
//   - Token usage tracking
//
// # Basic Usage
//
//	config := providers.ProviderConfig{
//	    Name:       "openai",
//	    Type:       providers.TypeOpenAI,
//	    Model:      "gpt-4",
//	    Credential: providers.StaticCredential(providers.NewSecret(os.Getenv("OPENAI_API_KEY"))),
//	}
//
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	req := providers.NewInferenceRequest(
//	    providers.NewTextMessage(providers.RoleUser, "Hello!"),
//	)
//
//	resp, err := provider.Infer(context.Background(), req, httpClient, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.Text())
//
// # Request Transformation
//
//   - The system prompt becomes the first message
//   - Tool results become "tool" role messages
//   - Tools are sent in the function calling format; tool choice none drops them
//   - Unset sampling parameters are omitted from the body
//
// # Response Transformation
//
//   - Token usage is extracted from the usage field
//   - Finish reason is normalized (stop, length, tool_call, content_filter)
//   - Tool calls are extracted as tool call content blocks
//
// # Error Handling
//
// Every non-2xx status maps to *providers.InferenceServerError. The message
// comes from the error envelope ({"error":{"message":...}}) when present.
// Nothing is retried.
//
// # Compatible Servers
//
// NewCompatibleProvider reuses the adapter for servers that implement the
// same API; see package generic.
package openai
