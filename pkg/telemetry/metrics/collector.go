package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/relay/pkg/config"
	"mercator-hq/relay/pkg/providers"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Collector owns the Prometheus registry and every metric recorded for
// provider calls.
//
// A Collector is safe for concurrent use.
type Collector struct {
	config   config.MetricsConfig
	registry *prometheus.Registry

	requestMetrics  *RequestMetrics
	providerMetrics *ProviderMetrics
}

// NewCollector creates a collector and registers its metrics with registry.
// A nil registry gets a fresh one. An empty namespace or bucket list falls
// back to the configuration defaults.
//
// Example:
//
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
//	registry, err := providerfactory.NewRegistry(configs, collector.Instrument)
func NewCollector(cfg config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if len(cfg.RequestDurationBuckets) == 0 {
		cfg.RequestDurationBuckets = config.DefaultRequestDurationBuckets
	}

	return &Collector{
		config:          cfg,
		registry:        registry,
		requestMetrics:  NewRequestMetrics(cfg, registry),
		providerMetrics: NewProviderMetrics(cfg, registry),
	}
}

// RecordInference records one completed provider call.
//
// Parameters:
//   - provider: configured provider name (e.g., "cohere-prod")
//   - providerType: provider type tag (e.g., "cohere")
//   - duration: wall-clock duration of the call
//   - resp: the response, nil on failure
//   - err: the error returned by Infer, nil on success
func (c *Collector) RecordInference(provider, providerType string, duration time.Duration, resp *providers.InferenceResponse, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}

	c.requestMetrics.RecordRequest(provider, providerType, outcome, duration)

	if err != nil {
		c.providerMetrics.RecordError(provider, string(providers.Kind(err)), statusLabel(err))
		return
	}

	if resp != nil {
		c.requestMetrics.RecordTokens(provider, resp.Usage.InputTokens, resp.Usage.OutputTokens)
		c.requestMetrics.RecordSize(provider, "request", len(resp.RawRequest))
		c.requestMetrics.RecordSize(provider, "response", len(resp.RawResponse))
	}
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// statusLabel returns the vendor status code of err, or "none" when the
// call failed before a status was received.
func statusLabel(err error) string {
	if code := providers.StatusCode(err); code != 0 {
		return strconv.Itoa(code)
	}
	return "none"
}
