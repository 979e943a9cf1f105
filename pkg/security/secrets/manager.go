package secrets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"mercator-hq/relay/pkg/config"
	"mercator-hq/relay/pkg/providers"
)

// Manager orchestrates multiple secret providers with priority-based fallback.
//
// The manager tries each provider in order until one returns a value.
// It holds no cache of its own; providers decide whether to cache.
type Manager struct {
	providers []SecretProvider
}

// NewManager creates a new secret manager. Providers are tried in the given order.
func NewManager(providers ...SecretProvider) *Manager {
	return &Manager{
		providers: providers,
	}
}

// GetSecret retrieves a secret from the first provider that supports it and
// returns a value. If every provider misses, the error wraps ErrSecretNotFound.
func (m *Manager) GetSecret(ctx context.Context, name string) (providers.Secret, error) {
	var errs []error
	for _, provider := range m.providers {
		if !provider.Supports(name) {
			continue
		}

		value, err := provider.GetSecret(ctx, name)
		if err != nil {
			slog.Debug("secret provider miss",
				"provider", provider.Provider(),
				"name", name,
				"error", err,
			)
			errs = append(errs, fmt.Errorf("%s: %w", provider.Provider(), err))
			continue
		}

		slog.Debug("secret retrieved",
			"provider", provider.Provider(),
			"name", name,
		)
		return value, nil
	}

	if len(errs) > 0 {
		return providers.Secret{}, fmt.Errorf("failed to get secret %q: %w", name, errors.Join(errs...))
	}

	return providers.Secret{}, fmt.Errorf("%w: %q (no provider supports this secret)", ErrSecretNotFound, name)
}

// Refresh reloads all refreshable providers.
func (m *Manager) Refresh(ctx context.Context) error {
	var errs []error
	for _, provider := range m.providers {
		refreshable, ok := provider.(RefreshableProvider)
		if !ok {
			continue
		}

		if err := refreshable.Refresh(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", provider.Provider(), err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to refresh some providers: %w", errors.Join(errs...))
	}

	return nil
}

// ListSecrets returns the deduplicated secret names of all providers.
func (m *Manager) ListSecrets(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var secrets []string

	for _, provider := range m.providers {
		names, err := provider.ListSecrets(ctx)
		if err != nil {
			slog.Warn("failed to list secrets from provider",
				"provider", provider.Provider(),
				"error", err,
			)
			continue
		}

		for _, name := range names {
			if !seen[name] {
				seen[name] = true
				secrets = append(secrets, name)
			}
		}
	}

	return secrets, nil
}

// Close closes every provider that holds resources.
func (m *Manager) Close() error {
	var errs []error
	for _, provider := range m.providers {
		if closer, ok := provider.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// NewManagerFromConfig builds a manager from the secrets configuration section.
// The file source, when configured, is consulted before the environment.
func NewManagerFromConfig(cfg config.SecretsConfig) (*Manager, error) {
	var chain []SecretProvider

	if cfg.File.Path != "" {
		fileProvider, err := NewFileProvider(cfg.File.Path, cfg.File.Watch)
		if err != nil {
			return nil, fmt.Errorf("failed to create file secret provider: %w", err)
		}
		chain = append(chain, fileProvider)
	}

	if cfg.Env.Enabled == nil || *cfg.Env.Enabled {
		prefix := cfg.Env.Prefix
		if prefix == "" {
			prefix = DefaultEnvPrefix
		}
		chain = append(chain, NewEnvProvider(prefix))
	}

	return NewManager(chain...), nil
}
