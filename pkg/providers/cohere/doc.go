// Package cohere implements the Cohere provider adapter.
//
// The adapter speaks the v2 chat API (POST {base_url}/v2/chat) with bearer
// authentication. Messages are mapped with openaicompat.PrepareMessages, so
// the system prompt is sent as the first message. Optional sampling
// parameters that are unset on the request are left out of the body; top_p
// is sent as "p" and the configured TopK as "k".
//
// The adapter does not implement tool calling. Tool definitions are dropped
// when the tool choice is auto or none; a request that requires tool use
// fails with a *providers.ConfigError before any network call.
//
// Any non-2xx status yields a *providers.InferenceServerError whose message
// is taken from the "message" field of the Cohere error body when present.
//
// Usage:
//
//	provider, err := cohere.NewProvider(providers.ProviderConfig{
//	    Name:       "cohere",
//	    Type:       providers.TypeCohere,
//	    Model:      "command-r-plus",
//	    Credential: providers.StaticCredential(providers.NewSecret(key)),
//	})
//
//	resp, err := provider.Infer(ctx, req, httpClient, nil)
package cohere
