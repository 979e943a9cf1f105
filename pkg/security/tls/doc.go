/*
Package tls builds the client TLS configuration used by the shared outbound
HTTP client.

Provider endpoints on the public internet need nothing here. Self-hosted
OpenAI-compatible servers often sit behind a private CA or require a client
certificate:

	http_client:
	  tls:
	    ca_file: /etc/relay/ca.pem
	    cert_file: /etc/relay/client.pem
	    key_file: /etc/relay/client-key.pem
	    min_version: "1.3"

The section converts to a crypto/tls.Config:

	tlsConfig, err := cfg.HTTPClient.TLS.ToTLSConfig()

A nil result means no TLS setting was configured and the transport keeps
Go's defaults. Client certificates are checked for their validity window at
load time and a warning is logged when one expires within 30 days.
*/
package tls
