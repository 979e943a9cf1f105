// Package generic implements a generic OpenAI-compatible provider adapter.
//
// The generic adapter works with any server that implements the OpenAI chat
// completions API, including:
//
//   - Ollama (http://localhost:11434/v1)
//   - LM Studio (http://localhost:1234/v1)
//   - vLLM (http://localhost:8000/v1)
//   - Hosted services such as Together or Fireworks
//
// # Basic Usage
//
//	config := providers.ProviderConfig{
//	    Name:    "ollama",
//	    Type:    providers.TypeGeneric,
//	    Model:   "llama2:13b",
//	    BaseURL: "http://localhost:11434/v1",
//	    // No credential: local servers need no API key
//	}
//
//	provider, err := generic.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := provider.Infer(ctx, req, httpClient, nil)
//
// # Credentials
//
// Unlike the cloud adapters, a None or Missing credential is not an error:
// requests are sent without an Authorization header. Static and Dynamic
// credentials are sent as bearer tokens, and a Dynamic credential that is
// absent from the per-call table still fails with APIKeyMissingError.
//
// # Compatibility Notes
//
// Not all OpenAI-compatible servers implement the full API:
//
//   - Tool/function calling may not be supported
//   - Token usage may not be reported
//   - Some parameters may be ignored
//
// Errors are tagged with provider type "generic".
package generic
