// Package telemetry groups the observability layers wrapped around provider
// adapters.
//
// # Components
//
//   - logging: slog handler with secret redaction and per-inference context
//   - metrics: Prometheus collector on a private registry
//   - tracing: OpenTelemetry spans for Infer calls and outbound HTTP requests
//
// # Usage
//
// Metrics and tracing both expose an Instrument method matching
// providerfactory.Middleware, so they compose when the registry is built:
//
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
//	tracer, err := tracing.New(ctx, cfg.Telemetry.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(ctx)
//
//	client := tracer.WrapClient(httpClient)
//	registry, err := providerfactory.NewRegistry(configs, collector.Instrument, tracer.Instrument)
//
// Nothing in these packages installs global state. Callers decide whether to
// call slog.SetDefault or expose the metrics registry over HTTP.
//
// # Secret Protection
//
// Logging redacts sensitive attribute keys and common secret shapes (OpenAI
// style keys, bearer tokens, passwords, emails) before records reach the
// output. providers.Secret values always log as [REDACTED] regardless of the
// redaction setting.
package telemetry
