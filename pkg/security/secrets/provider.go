// Package secrets resolves named secrets from environment variables and files.
package secrets

import (
	"context"
	"errors"

	"mercator-hq/relay/pkg/providers"
)

// ErrSecretNotFound is returned when no source holds the requested secret.
var ErrSecretNotFound = errors.New("secret not found")

// SecretProvider retrieves secrets from a backend.
//
// Providers can be chained together in a Manager with priority-based fallback.
type SecretProvider interface {
	// GetSecret retrieves a secret by name.
	// Returns an error wrapping ErrSecretNotFound if the secret does not exist.
	GetSecret(ctx context.Context, name string) (providers.Secret, error)

	// ListSecrets returns all secret names available from this provider.
	// Values are not included.
	ListSecrets(ctx context.Context) ([]string, error)

	// Provider returns the provider name (env, file).
	Provider() string

	// Supports indicates if this provider may hold the given secret name.
	Supports(name string) bool
}

// RefreshableProvider can reload secrets without restart.
//
// This is implemented by providers that support secret rotation,
// such as the file provider that watches for file changes.
type RefreshableProvider interface {
	SecretProvider

	// Refresh drops any cached values so the next read hits the backend.
	Refresh(ctx context.Context) error
}
