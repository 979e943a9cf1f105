package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/relay/pkg/config"
)

// ProviderMetrics tracks provider failures and concurrency.
//
// Metrics:
//   - relay_provider_errors_total: errors by provider, error kind and status code
//   - relay_provider_in_flight: calls currently waiting on each provider
type ProviderMetrics struct {
	errors   *prometheus.CounterVec
	inFlight *prometheus.GaugeVec
}

// NewProviderMetrics creates and registers provider metrics with the provided registry.
func NewProviderMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *ProviderMetrics {
	pm := &ProviderMetrics{
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "provider_errors_total",
				Help:      "Total number of provider errors by kind and status",
			},
			[]string{"provider", "kind", "status"},
		),

		inFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "provider_in_flight",
				Help:      "Number of provider calls in progress",
			},
			[]string{"provider"},
		),
	}

	registry.MustRegister(pm.errors, pm.inFlight)

	return pm
}

// RecordError records a failed call.
//
// kind is one of the provider error kinds ("config", "api_key_missing",
// "inference_client", "inference_server", "unknown"). status is the vendor
// HTTP status code or "none".
func (pm *ProviderMetrics) RecordError(provider, kind, status string) {
	pm.errors.WithLabelValues(provider, kind, status).Inc()
}

// Begin marks a call as started and returns the function that ends it.
func (pm *ProviderMetrics) Begin(provider string) func() {
	gauge := pm.inFlight.WithLabelValues(provider)
	gauge.Inc()
	return gauge.Dec
}
