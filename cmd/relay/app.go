package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"mercator-hq/relay/pkg/cli"
	"mercator-hq/relay/pkg/config"
	"mercator-hq/relay/pkg/providerfactory"
	"mercator-hq/relay/pkg/providers"
	"mercator-hq/relay/pkg/security/secrets"
	"mercator-hq/relay/pkg/telemetry/logging"
	"mercator-hq/relay/pkg/telemetry/metrics"
	"mercator-hq/relay/pkg/telemetry/tracing"
)

// app is the runtime assembled from configuration for one command.
type app struct {
	cfg       *config.Config
	logger    *logging.Logger
	secrets   *secrets.Manager
	collector *metrics.Collector
	tracer    *tracing.Tracer
	registry  *providerfactory.Registry
	client    *http.Client
	configs   []providers.ProviderConfig
}

// newApp loads configuration and builds the provider registry. Credentials
// that cannot be resolved become Missing so that only calls to the affected
// provider fail.
func newApp(ctx context.Context, opts *rootOptions, logOut io.Writer) (*app, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(opts.cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("", err.Error())
	}

	if opts.verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.New(logging.ConfigFrom(cfg.Telemetry.Logging, logOut))
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger.Slog())

	a := &app{cfg: cfg, logger: logger}

	a.secrets, err = secrets.NewManagerFromConfig(cfg.Secrets)
	if err != nil {
		return nil, cli.NewConfigError("secrets", err.Error())
	}

	a.configs, err = cfg.ProviderConfigs(ctx, config.ResolveOptions{
		Secrets:      a.secrets,
		AllowMissing: true,
	})
	if err != nil {
		a.Close()
		return nil, cli.NewConfigError("providers", err.Error())
	}

	clientConfig, err := cfg.HTTPClient.ClientConfig()
	if err != nil {
		a.Close()
		return nil, cli.NewConfigError("", err.Error())
	}

	var middleware []providerfactory.Middleware
	a.client = providers.NewHTTPClient(clientConfig)

	if cfg.Telemetry.Metrics.Enabled {
		a.collector = metrics.NewCollector(cfg.Telemetry.Metrics, nil)
		middleware = append(middleware, a.collector.Instrument)
	}

	if cfg.Telemetry.Tracing.Enabled {
		a.tracer, err = tracing.New(ctx, cfg.Telemetry.Tracing, tracing.WithServiceVersion(Version))
		if err != nil {
			a.Close()
			return nil, cli.NewConfigError("telemetry.tracing", err.Error())
		}
		middleware = append(middleware, a.tracer.Instrument)
		a.client = a.tracer.WrapClient(a.client)
	}

	a.registry, err = providerfactory.NewRegistry(a.configs, middleware...)
	if err != nil {
		a.Close()
		return nil, cli.NewConfigError("providers", err.Error())
	}

	logger.Debug("relay initialized",
		"providers", a.registry.Names(),
		"metrics", cfg.Telemetry.Metrics.Enabled,
		"tracing", cfg.Telemetry.Tracing.Enabled,
	)

	return a, nil
}

// Close flushes traces and releases the secret watchers.
func (a *app) Close() error {
	var errs []error
	if a.tracer != nil {
		if err := a.tracer.Shutdown(context.Background()); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if a.secrets != nil {
		if err := a.secrets.Close(); err != nil {
			errs = append(errs, fmt.Errorf("secrets close: %w", err))
		}
	}
	return errors.Join(errs...)
}
