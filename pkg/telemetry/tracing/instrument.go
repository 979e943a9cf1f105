package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"mercator-hq/relay/pkg/providers"
)

// SpanInfer is the name of the span wrapping each provider call.
const SpanInfer = "provider.infer"

// tracedProvider creates a span around every Infer call.
type tracedProvider struct {
	providers.Provider
	tracer *Tracer
}

// Instrument wraps p so that each Infer call runs in its own span.
// Its signature matches providerfactory.Middleware.
//
// Span attributes never include message content or credentials.
func (t *Tracer) Instrument(p providers.Provider) providers.Provider {
	return &tracedProvider{Provider: p, tracer: t}
}

func (p *tracedProvider) Infer(ctx context.Context, req *providers.InferenceRequest, client *http.Client, creds providers.DynamicCredentials) (*providers.InferenceResponse, error) {
	ctx, span := p.tracer.Start(ctx, SpanInfer,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(requestAttributes(p.Provider, req)...),
	)
	defer span.End()

	resp, err := p.Provider.Infer(ctx, req, client, creds)
	if err != nil {
		setErrorAttributes(span, err)
		SetStatus(span, err)
		return nil, err
	}

	setResponseAttributes(span, resp)
	SetStatus(span, nil)
	return resp, nil
}
