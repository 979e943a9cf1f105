// Package tracing provides OpenTelemetry tracing for provider calls.
//
// New builds a tracer provider from config.TracingConfig with a parent-based
// sampler and an OTLP gRPC exporter. The provider is owned by the Tracer and
// is never installed globally.
//
// Tracer.Instrument decorates a providers.Provider with a span per Infer call
// and has the providerfactory.Middleware signature. Tracer.WrapClient adds a
// client span per HTTP request and injects the W3C traceparent header:
//
//	tracer, err := tracing.New(ctx, cfg.Telemetry.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	registry, err := providerfactory.NewRegistry(configs, tracer.Instrument)
//	client := tracer.WrapClient(providers.NewHTTPClient(providers.DefaultHTTPClientConfig()))
//
// # Sampling
//
//   - always: sample every root span
//   - never: sample nothing
//   - ratio: sample by trace ID with sample_ratio (default 1.0)
//
// # Attributes
//
// Provider spans carry relay.provider.name, relay.provider.type,
// relay.inference_id, message and tool counts, gen_ai.usage token counts and
// the finish reason. Failed calls set relay.error.kind and, when the vendor
// answered, http.response.status_code. Message content is never recorded.
package tracing
