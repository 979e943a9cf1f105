package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"mercator-hq/relay/pkg/config"
	"mercator-hq/relay/pkg/providers"
)

func testConfig() config.MetricsConfig {
	return config.MetricsConfig{
		Enabled:                true,
		Namespace:              "test",
		RequestDurationBuckets: []float64{0.1, 0.5, 1.0, 5.0},
	}
}

// stubProvider returns a fixed response or error.
type stubProvider struct {
	name  string
	resp  *providers.InferenceResponse
	err   error
	check func()
}

func (s *stubProvider) Infer(context.Context, *providers.InferenceRequest, *http.Client, providers.DynamicCredentials) (*providers.InferenceResponse, error) {
	if s.check != nil {
		s.check()
	}
	return s.resp, s.err
}

func (s *stubProvider) Name() string                         { return s.name }
func (s *stubProvider) Type() string                         { return providers.TypeCohere }
func (s *stubProvider) Capabilities() providers.Capabilities { return providers.Capabilities{} }

func TestNewCollector_Defaults(t *testing.T) {
	collector := NewCollector(config.MetricsConfig{}, nil)

	if collector.Registry() == nil {
		t.Fatal("expected a registry")
	}
	if collector.config.Namespace != config.DefaultMetricsNamespace {
		t.Errorf("namespace = %q, want %q", collector.config.Namespace, config.DefaultMetricsNamespace)
	}
	if len(collector.config.RequestDurationBuckets) == 0 {
		t.Error("expected default buckets")
	}
}

func TestInstrument_Success(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := NewCollector(testConfig(), registry)

	provider := collector.Instrument(&stubProvider{
		name: "cohere-prod",
		resp: &providers.InferenceResponse{
			Usage:       providers.Usage{InputTokens: 10, OutputTokens: 20},
			RawRequest:  `{"model":"command-r"}`,
			RawResponse: `{"id":"1"}`,
		},
	})

	if provider.Name() != "cohere-prod" || provider.Type() != providers.TypeCohere {
		t.Errorf("decorator changed identity: %s/%s", provider.Name(), provider.Type())
	}

	if _, err := provider.Infer(context.Background(), &providers.InferenceRequest{}, nil, nil); err != nil {
		t.Fatalf("Infer failed: %v", err)
	}

	rm := collector.requestMetrics
	if got := testutil.ToFloat64(rm.requestsTotal.WithLabelValues("cohere-prod", "cohere", OutcomeSuccess)); got != 1 {
		t.Errorf("requests_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rm.tokensTotal.WithLabelValues("cohere-prod", "input")); got != 10 {
		t.Errorf("input tokens = %v, want 10", got)
	}
	if got := testutil.ToFloat64(rm.tokensTotal.WithLabelValues("cohere-prod", "output")); got != 20 {
		t.Errorf("output tokens = %v, want 20", got)
	}
	if got := testutil.CollectAndCount(rm.requestDuration); got != 1 {
		t.Errorf("duration series = %d, want 1", got)
	}
	if got := testutil.CollectAndCount(rm.sizeBytes); got != 2 {
		t.Errorf("size series = %d, want 2", got)
	}
	if got := testutil.CollectAndCount(collector.providerMetrics.errors); got != 0 {
		t.Errorf("error series = %d, want 0", got)
	}
}

func TestInstrument_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantKind   string
		wantStatus string
	}{
		{
			name:       "server error",
			err:        &providers.InferenceServerError{ProviderType: providers.TypeCohere, StatusCode: 503, Message: "unavailable"},
			wantKind:   string(providers.KindInferenceServer),
			wantStatus: "503",
		},
		{
			name:       "client error without status",
			err:        &providers.InferenceClientError{ProviderType: providers.TypeCohere, Message: "connection refused"},
			wantKind:   string(providers.KindInferenceClient),
			wantStatus: "none",
		},
		{
			name:       "missing key",
			err:        &providers.APIKeyMissingError{ProviderName: "cohere-prod"},
			wantKind:   string(providers.KindAPIKeyMissing),
			wantStatus: "none",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collector := NewCollector(testConfig(), prometheus.NewRegistry())
			provider := collector.Instrument(&stubProvider{name: "cohere-prod", err: tt.err})

			if _, err := provider.Infer(context.Background(), &providers.InferenceRequest{}, nil, nil); err != tt.err {
				t.Fatalf("expected error to pass through unchanged, got %v", err)
			}

			errs := collector.providerMetrics.errors
			if got := testutil.ToFloat64(errs.WithLabelValues("cohere-prod", tt.wantKind, tt.wantStatus)); got != 1 {
				t.Errorf("provider_errors_total = %v, want 1", got)
			}
			requests := collector.requestMetrics.requestsTotal
			if got := testutil.ToFloat64(requests.WithLabelValues("cohere-prod", "cohere", OutcomeError)); got != 1 {
				t.Errorf("requests_total{outcome=error} = %v, want 1", got)
			}
		})
	}
}

func TestInstrument_InFlight(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	gauge := collector.providerMetrics.inFlight.WithLabelValues("cohere-prod")

	var during float64
	provider := collector.Instrument(&stubProvider{
		name:  "cohere-prod",
		resp:  &providers.InferenceResponse{},
		check: func() { during = testutil.ToFloat64(gauge) },
	})

	if _, err := provider.Infer(context.Background(), &providers.InferenceRequest{}, nil, nil); err != nil {
		t.Fatalf("Infer failed: %v", err)
	}

	if during != 1 {
		t.Errorf("in-flight during call = %v, want 1", during)
	}
	if after := testutil.ToFloat64(gauge); after != 0 {
		t.Errorf("in-flight after call = %v, want 0", after)
	}
}

func TestCollector_ConcurrentRecording(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	resp := &providers.InferenceResponse{Usage: providers.Usage{InputTokens: 1, OutputTokens: 1}}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collector.RecordInference("openai", "openai", 10*time.Millisecond, resp, nil)
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(collector.requestMetrics.requestsTotal.WithLabelValues("openai", "openai", OutcomeSuccess)); got != 50 {
		t.Errorf("requests_total = %v, want 50", got)
	}
	if got := testutil.ToFloat64(collector.requestMetrics.tokensTotal.WithLabelValues("openai", "input")); got != 50 {
		t.Errorf("input tokens = %v, want 50", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	collector := NewCollector(testConfig(), nil)
	collector.RecordInference("anthropic", "anthropic", time.Second, &providers.InferenceResponse{}, nil)

	server := httptest.NewServer(collector.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), `test_requests_total{outcome="success",provider="anthropic",type="anthropic"} 1`) {
		t.Errorf("metrics output missing request counter:\n%s", body)
	}
}
