package secrets

import (
	"context"
	"fmt"
	"os"
	"strings"

	"mercator-hq/relay/pkg/providers"
)

// DefaultEnvPrefix is the environment variable prefix used when none is configured.
const DefaultEnvPrefix = "RELAY_SECRET_"

// EnvProvider loads secrets from environment variables.
//
// Secret names are converted to uppercase environment variable names
// with hyphens replaced by underscores, then prefixed.
//
// Example:
//   - Secret name: "cohere-api-key"
//   - Env var name: "RELAY_SECRET_COHERE_API_KEY" (with prefix "RELAY_SECRET_")
type EnvProvider struct {
	Prefix string
}

// NewEnvProvider creates a new environment variable secret provider.
func NewEnvProvider(prefix string) *EnvProvider {
	return &EnvProvider{
		Prefix: prefix,
	}
}

// GetSecret retrieves a secret from an environment variable.
// An empty variable counts as absent.
func (p *EnvProvider) GetSecret(ctx context.Context, name string) (providers.Secret, error) {
	envVar := p.secretNameToEnvVar(name)

	value := os.Getenv(envVar)
	if value == "" {
		return providers.Secret{}, fmt.Errorf("%w in environment: %s (env var: %s)", ErrSecretNotFound, name, envVar)
	}

	return providers.NewSecret(value), nil
}

// ListSecrets returns all secret names from environment variables with the configured prefix.
func (p *EnvProvider) ListSecrets(ctx context.Context) ([]string, error) {
	var secrets []string

	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, p.Prefix) {
			continue
		}

		envVarName, _, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}

		secrets = append(secrets, p.envVarToSecretName(envVarName))
	}

	return secrets, nil
}

// Provider returns the provider name.
func (p *EnvProvider) Provider() string {
	return "env"
}

// Supports always returns true: any secret can be provided via the environment.
func (p *EnvProvider) Supports(name string) bool {
	return true
}

// secretNameToEnvVar converts a secret name to an environment variable name.
//
// Example: "cohere-api-key" -> "RELAY_SECRET_COHERE_API_KEY"
func (p *EnvProvider) secretNameToEnvVar(name string) string {
	return p.Prefix + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

// envVarToSecretName converts an environment variable name back to a secret name.
func (p *EnvProvider) envVarToSecretName(envVar string) string {
	name := strings.TrimPrefix(envVar, p.Prefix)
	return strings.ToLower(strings.ReplaceAll(name, "_", "-"))
}
