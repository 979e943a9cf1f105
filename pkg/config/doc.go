// Package config provides configuration management for Relay.
//
// This package handles loading, validating, and resolving configuration from
// YAML files with environment variable overrides.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("relay.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("relay.yaml")
//
// Unknown fields are rejected so that typos surface at load time.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention RELAY_SECTION_FIELD.
// For example:
//
//   - RELAY_HTTP_CLIENT_TIMEOUT overrides http_client.timeout
//   - RELAY_PROVIDERS_COHERE_PROD_MODEL overrides providers.cohere-prod.model
//   - RELAY_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Provider overrides apply to providers present in the file.
//
// # Configuration Precedence
//
//  1. Values from YAML file
//  2. Default values for fields left empty (defined in defaults.go)
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Credentials
//
// Each provider names where its API key lives with api_key_location:
//
//	providers:
//	  cohere:
//	    type: cohere
//	    model: command-r-plus
//	    api_key_location: env::COHERE_API_KEY
//	  anthropic:
//	    type: anthropic
//	    model: claude-3-5-sonnet-latest
//	    api_key_location: dynamic::anthropic_key
//	  local:
//	    type: generic
//	    model: llama3
//	    base_url: http://localhost:11434/v1
//	    api_key_location: none
//
// Config.ProviderConfigs reads env, path and secret locations once and turns
// them into Static credentials; dynamic locations are looked up per call from
// the caller's dynamic credentials table.
//
// # Validation
//
// Validation errors are collected into a ValidationError holding one
// FieldError per problem, so every issue is reported at once.
package config
