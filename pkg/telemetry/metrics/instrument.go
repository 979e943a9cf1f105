package metrics

import (
	"context"
	"net/http"
	"time"

	"mercator-hq/relay/pkg/providers"
)

// instrumentedProvider records metrics around every Infer call.
type instrumentedProvider struct {
	providers.Provider
	collector *Collector
}

// Instrument wraps p so that each Infer call is recorded by the collector.
// Its signature matches providerfactory.Middleware.
func (c *Collector) Instrument(p providers.Provider) providers.Provider {
	return &instrumentedProvider{Provider: p, collector: c}
}

func (p *instrumentedProvider) Infer(ctx context.Context, req *providers.InferenceRequest, client *http.Client, creds providers.DynamicCredentials) (*providers.InferenceResponse, error) {
	done := p.collector.providerMetrics.Begin(p.Name())
	defer done()

	start := time.Now()
	resp, err := p.Provider.Infer(ctx, req, client, creds)
	p.collector.RecordInference(p.Name(), p.Type(), time.Since(start), resp, err)

	return resp, err
}
