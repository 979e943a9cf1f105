package main

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"mercator-hq/relay/pkg/cli"
)

// metricsMux serves the collector at the configured path.
func (a *app) metricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle(a.cfg.Telemetry.Metrics.Path, a.collector.Handler())
	return mux
}

// startMetricsServer listens on the configured metrics address and serves
// in the background. The caller shuts the server down.
func (a *app) startMetricsServer() (*http.Server, error) {
	cfg := a.cfg.Telemetry.Metrics
	if a.collector == nil {
		return nil, cli.NewConfigError("telemetry.metrics.enabled", "metrics must be enabled to use --serve-metrics")
	}
	if cfg.ListenAddress == "" {
		return nil, cli.NewConfigError("telemetry.metrics.listen_address", "a listen address is required to use --serve-metrics")
	}

	listener, err := net.Listen("tcp", cfg.ListenAddress)
	if err != nil {
		return nil, cli.NewCommandError("infer", err)
	}

	server := &http.Server{
		Addr:              listener.Addr().String(),
		Handler:           a.metricsMux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", "error", err)
		}
	}()

	return server, nil
}
