package providerfactory

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"mercator-hq/relay/pkg/providers"
)

// ErrProviderNotFound is returned by Registry.Get for unknown names.
var ErrProviderNotFound = errors.New("provider not found")

// Middleware wraps a constructed provider, for example with metrics or tracing.
type Middleware func(providers.Provider) providers.Provider

// Registry holds constructed adapters by name.
//
// A Registry is populated once by NewRegistry and is read-only afterwards, so
// it is safe for concurrent use without locking. Choosing which provider to
// call for a request is left to the caller.
type Registry struct {
	providers map[string]providers.Provider
	names     []string
}

// NewRegistry constructs one adapter per configuration and applies the
// middleware to each in order, so the last middleware is the outermost.
// All construction errors are collected and returned together.
func NewRegistry(configs []providers.ProviderConfig, middleware ...Middleware) (*Registry, error) {
	r := &Registry{
		providers: make(map[string]providers.Provider, len(configs)),
	}

	var errs []error
	for _, config := range configs {
		if _, ok := r.providers[config.Name]; ok {
			errs = append(errs, &providers.ConfigError{
				Provider: config.Name,
				Field:    "name",
				Message:  "duplicate provider name",
			})
			continue
		}

		provider, err := NewProvider(config)
		if err != nil {
			slog.Error("failed to load provider",
				"name", config.Name,
				"error", err,
			)
			errs = append(errs, err)
			continue
		}

		for _, wrap := range middleware {
			provider = wrap(provider)
		}

		r.providers[config.Name] = provider
		r.names = append(r.names, config.Name)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to load %d provider(s): %w", len(errs), errors.Join(errs...))
	}

	slices.Sort(r.names)

	slog.Debug("providers loaded", "count", len(r.names))
	return r, nil
}

// Get returns a provider by name.
func (r *Registry) Get(name string) (providers.Provider, error) {
	provider, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrProviderNotFound, name)
	}
	return provider, nil
}

// Names returns the sorted provider names.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// Len returns the number of providers.
func (r *Registry) Len() int {
	return len(r.names)
}
