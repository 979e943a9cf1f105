// Package providers implements the provider-adapter core of the relay: the
// canonical request and response model, the credential model, the error
// taxonomy and the single-attempt HTTP execution helpers shared by every
// vendor adapter.
//
// # Overview
//
// A caller builds an InferenceRequest once, picks an adapter (selection is
// the caller's business) and calls Infer with a shared *http.Client and the
// per-call DynamicCredentials table. The adapter resolves its Credential,
// builds the vendor body, sends exactly one request and returns either an
// *InferenceResponse or a typed error.
//
// # Architecture
//
//  1. Canonical model - InferenceRequest, InferenceResponse and content blocks
//  2. Credential model - Static, Dynamic, None and Missing credentials, and the opaque Secret
//  3. Error taxonomy - ConfigError, APIKeyMissingError, InferenceClientError, InferenceServerError
//  4. HTTP execution - NewHTTPClient, MarshalRequest, Send, StatusError, DecodeResponse
//  5. Provider contract - the Provider interface implemented by the adapters in the subpackages
//
// # Credentials
//
//	cred := providers.DynamicCredential("COHERE_API_KEY")
//	secret, err := cred.Resolve("cohere", providers.DynamicCredentials{
//	    "COHERE_API_KEY": providers.NewSecret(os.Getenv("COHERE_API_KEY")),
//	})
//
// Secrets print as [REDACTED] through fmt, encoding/json and log/slog.
// ExposeSecret is the only accessor and is called where auth headers are set.
//
// # Errors
//
// Every failure is one of four kinds. Retry and fallback policies live
// outside this package and decide with Kind, StatusCode and ProviderType:
//
//	resp, err := provider.Infer(ctx, req, client, creds)
//	switch providers.Kind(err) {
//	case providers.KindInferenceServer:
//	    if providers.StatusCode(err) >= 500 {
//	        // try another provider
//	    }
//	case providers.KindAPIKeyMissing, providers.KindConfig:
//	    return err
//	}
//
// Any non-2xx vendor status is an InferenceServerError carrying the literal
// response body.
//
// # Thread Safety
//
// Adapters are immutable after construction and safe for concurrent use.
// The *http.Client connection pool is the only shared resource.
package providers
