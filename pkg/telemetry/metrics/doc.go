// Package metrics records Prometheus metrics for provider calls.
//
// A Collector owns a private registry. Its Instrument method decorates a
// providers.Provider and has the providerfactory.Middleware signature, so
// metrics are attached when the registry is built:
//
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
//	registry, err := providerfactory.NewRegistry(configs, collector.Instrument)
//
//	mux := http.NewServeMux()
//	mux.Handle("/metrics", collector.Handler())
//
// # Metrics
//
//	relay_requests_total{provider,type,outcome}
//	relay_request_duration_seconds{provider,type}
//	relay_tokens_total{provider,direction}
//	relay_request_size_bytes{provider,direction}
//	relay_provider_errors_total{provider,kind,status}
//	relay_provider_in_flight{provider}
//
// Labels use the configured provider name and type, never the model name
// or request content, which keeps cardinality bounded by configuration.
package metrics
