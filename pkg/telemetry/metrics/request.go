package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/relay/pkg/config"
)

// RequestMetrics tracks provider calls.
//
// Metrics:
//   - relay_requests_total: calls by provider, type and outcome
//   - relay_request_duration_seconds: call duration histogram
//   - relay_tokens_total: tokens by provider and direction (input, output)
//   - relay_request_size_bytes: vendor request/response body size
type RequestMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	tokensTotal     *prometheus.CounterVec
	sizeBytes       *prometheus.HistogramVec
}

// NewRequestMetrics creates and registers request metrics with the provided registry.
func NewRequestMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *RequestMetrics {
	rm := &RequestMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "requests_total",
				Help:      "Total number of provider inference calls",
			},
			[]string{"provider", "type", "outcome"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "request_duration_seconds",
				Help:      "Duration of provider inference calls in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
			[]string{"provider", "type"},
		),

		tokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "tokens_total",
				Help:      "Total number of tokens reported by providers",
			},
			[]string{"provider", "direction"},
		),

		sizeBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "request_size_bytes",
				Help:      "Size of vendor request and response bodies in bytes",
				Buckets:   prometheus.ExponentialBuckets(256, 4, 8), // 256B to 4MB
			},
			[]string{"provider", "direction"},
		),
	}

	registry.MustRegister(
		rm.requestsTotal,
		rm.requestDuration,
		rm.tokensTotal,
		rm.sizeBytes,
	)

	return rm
}

// RecordRequest counts one call and observes its duration.
func (rm *RequestMetrics) RecordRequest(provider, providerType, outcome string, duration time.Duration) {
	rm.requestsTotal.WithLabelValues(provider, providerType, outcome).Inc()
	rm.requestDuration.WithLabelValues(provider, providerType).Observe(duration.Seconds())
}

// RecordTokens adds input and output token counts.
func (rm *RequestMetrics) RecordTokens(provider string, inputTokens, outputTokens int) {
	if inputTokens > 0 {
		rm.tokensTotal.WithLabelValues(provider, "input").Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		rm.tokensTotal.WithLabelValues(provider, "output").Add(float64(outputTokens))
	}
}

// RecordSize observes the size of a request or response body.
// direction is "request" or "response".
func (rm *RequestMetrics) RecordSize(provider, direction string, sizeBytes int) {
	if sizeBytes > 0 {
		rm.sizeBytes.WithLabelValues(provider, direction).Observe(float64(sizeBytes))
	}
}
