// Relay sends canonical inference requests to LLM vendor APIs through the
// provider adapters.
//
// Usage:
//
//	# Validate configuration and list providers
//	relay validate --config relay.yaml
//
//	# Send one message to a provider
//	relay infer --config relay.yaml --provider cohere --message "Hello"
//
//	# Fan one request out to several providers
//	relay infer --providers cohere,openai --message "Hello" --json
//
//	# Show version information
//	relay version
package main

func main() {
	Execute()
}
