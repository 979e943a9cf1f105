/*
Package security holds the credential and transport plumbing behind provider
adapters.

# Secret Management

The secrets package resolves "secret::<name>" key locations against the
environment and mounted secret files:

	manager, err := secrets.NewManagerFromConfig(cfg.Secrets)
	if err != nil {
		return err
	}
	defer manager.Close()

	apiKey, err := manager.GetSecret(ctx, "cohere-api-key")

Resolved values are providers.Secret and never print their contents.

# Outbound TLS

The tls package turns the http_client.tls section into a client
crypto/tls.Config for endpoints behind a private CA or requiring a client
certificate:

	tlsConfig, err := cfg.HTTPClient.TLS.ToTLSConfig()
*/
package security
