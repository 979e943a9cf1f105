package tracing

import (
	"net/http"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// transport creates a client span per HTTP request and injects the
// W3C traceparent header.
type transport struct {
	base   http.RoundTripper
	tracer *Tracer
}

// Transport wraps base so that outgoing requests carry the trace context.
// A nil base uses http.DefaultTransport.
func (t *Tracer) Transport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &transport{base: base, tracer: t}
}

// WrapClient returns a shallow copy of client whose transport is traced.
// The original client is not modified.
func (t *Tracer) WrapClient(client *http.Client) *http.Client {
	if client == nil {
		client = &http.Client{}
	}
	wrapped := *client
	wrapped.Transport = t.Transport(client.Transport)
	return &wrapped
}

// RoundTrip implements http.RoundTripper.
func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx, span := t.tracer.Start(req.Context(), "HTTP "+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			AttrHTTPMethod.String(req.Method),
			AttrServerAddress.String(req.URL.Host),
		),
	)
	defer span.End()

	out := req.Clone(ctx)
	t.tracer.propagator.Inject(ctx, propagation.HeaderCarrier(out.Header))

	resp, err := t.base.RoundTrip(out)
	if err != nil {
		SetStatus(span, err)
		return nil, err
	}

	span.SetAttributes(AttrHTTPStatusCode.Int(resp.StatusCode))
	if resp.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
	}
	return resp, nil
}
