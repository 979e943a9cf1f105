package openai

import (
	"context"
	"encoding/json"
	"testing"

	testhelpers "mercator-hq/relay/internal/providers"
	"mercator-hq/relay/pkg/providers"
)

func newTestProvider(t *testing.T, baseURL string) *Provider {
	t.Helper()
	config := testhelpers.TestConfigWithURL("openai", providers.TypeOpenAI, baseURL)
	config.Model = "gpt-4"
	provider, err := NewProvider(config)
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	return provider
}

func TestOpenAIProvider_Infer(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	mock.SetResponse("/v1/chat/completions", testhelpers.MockResponse{
		StatusCode: 200,
		Body:       testhelpers.MockOpenAIResponse("Hello, world!", "gpt-4"),
	})

	provider := newTestProvider(t, mock.URL()+"/v1")
	req := testhelpers.TestRequest("Hello")

	resp, err := provider.Infer(context.Background(), req, mock.Client(), nil)
	testhelpers.AssertNoError(t, err)

	if resp.Text() != "Hello, world!" {
		t.Errorf("expected content %q, got %q", "Hello, world!", resp.Text())
	}
	if resp.Usage.InputTokens != 10 || resp.Usage.OutputTokens != 20 {
		t.Errorf("unexpected usage: %+v", resp.Usage)
	}
	if resp.FinishReason != providers.FinishReasonStop {
		t.Errorf("expected finish reason %q, got %q", providers.FinishReasonStop, resp.FinishReason)
	}
	if mock.GetRequestCount() != 1 {
		t.Errorf("expected 1 request, got %d", mock.GetRequestCount())
	}

	recorded, _ := mock.LastRequest()
	if err := testhelpers.ExpectHeader(recorded, "Authorization", "Bearer "+testhelpers.TestAPIKey); err != nil {
		t.Error(err)
	}
	body, err := recorded.JSON()
	if err != nil {
		t.Fatal(err)
	}
	testhelpers.AssertAbsent(t, body,
		"temperature", "max_tokens", "top_p", "seed", "stop", "presence_penalty",
		"frequency_penalty", "tools", "tool_choice", "parallel_tool_calls", "stream", "logprobs",
	)
}

func TestOpenAIProvider_ToolCalling(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	mock.SetResponse("/v1/chat/completions", testhelpers.MockResponse{
		StatusCode: 200,
		Body:       testhelpers.MockOpenAIToolCallResponse("call_abc", "get_weather", `{"location":"Paris"}`),
	})

	provider := newTestProvider(t, mock.URL()+"/v1")
	req := testhelpers.TestRequest("Weather in Paris?")
	req.ToolConfig = &providers.ToolCallConfig{
		Tools: []providers.Tool{{
			Name:        "get_weather",
			Description: "Get the weather",
			Parameters:  json.RawMessage(`{"type":"object","properties":{"location":{"type":"string"}}}`),
		}},
		ToolChoice:        providers.ToolChoice{Mode: providers.ToolChoiceRequired},
		ParallelToolCalls: providers.Ptr(false),
	}

	resp, err := provider.Infer(context.Background(), req, mock.Client(), nil)
	testhelpers.AssertNoError(t, err)

	calls := resp.ToolCalls()
	if len(calls) != 1 || calls[0].ID != "call_abc" || calls[0].Arguments != `{"location":"Paris"}` {
		t.Errorf("unexpected tool calls: %+v", calls)
	}
	if resp.FinishReason != providers.FinishReasonToolCall {
		t.Errorf("expected tool_call finish reason, got %s", resp.FinishReason)
	}

	recorded, _ := mock.LastRequest()
	body, err := recorded.JSON()
	if err != nil {
		t.Fatal(err)
	}
	if body["tool_choice"] != "required" {
		t.Errorf("expected tool_choice required, got %v", body["tool_choice"])
	}
	if body["parallel_tool_calls"] != false {
		t.Errorf("expected parallel_tool_calls false, got %v", body["parallel_tool_calls"])
	}
	tools, ok := body["tools"].([]interface{})
	if !ok || len(tools) != 1 {
		t.Fatalf("expected one tool, got %v", body["tools"])
	}
}

func TestOpenAIProvider_ErrorStatus(t *testing.T) {
	tests := []struct {
		name     string
		response testhelpers.MockResponse
		status   int
		message  string
	}{
		{name: "auth", response: testhelpers.MockAuthError(), status: 401, message: "Invalid API key"},
		{name: "rate limit", response: testhelpers.MockRateLimitError(60), status: 429, message: "Rate limit exceeded"},
		{name: "server", response: testhelpers.MockServerError(), status: 500, message: "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testhelpers.NewMockServer()
			defer mock.Close()
			mock.SetResponse("/v1/chat/completions", tt.response)

			provider := newTestProvider(t, mock.URL()+"/v1")

			_, err := provider.Infer(context.Background(), testhelpers.TestRequest("Hello"), mock.Client(), nil)

			serverErr := testhelpers.AssertServerError(t, err)
			if serverErr.StatusCode != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, serverErr.StatusCode)
			}
			if serverErr.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, serverErr.Message)
			}
			if serverErr.ProviderType != providers.TypeOpenAI {
				t.Errorf("expected provider type openai, got %s", serverErr.ProviderType)
			}
			if serverErr.RawResponse == "" {
				t.Error("expected raw response to be kept")
			}
			// No retries: exactly one attempt per call.
			if mock.GetRequestCount() != 1 {
				t.Errorf("expected 1 request, got %d", mock.GetRequestCount())
			}
		})
	}
}

func TestOpenAIProvider_NoChoices(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	mock.SetResponse("/v1/chat/completions", testhelpers.MockResponse{
		StatusCode: 200,
		Body:       `{"id":"x","choices":[]}`,
	})

	provider := newTestProvider(t, mock.URL()+"/v1")

	_, err := provider.Infer(context.Background(), testhelpers.TestRequest("Hello"), mock.Client(), nil)

	serverErr := testhelpers.AssertServerError(t, err)
	if serverErr.RawResponse != `{"id":"x","choices":[]}` {
		t.Errorf("unexpected raw response %q", serverErr.RawResponse)
	}
}

func TestOpenAIProvider_MissingCredential(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	config := testhelpers.TestConfigWithURL("openai", providers.TypeOpenAI, mock.URL()+"/v1")
	config.Credential = providers.NoCredential()
	provider, err := NewProvider(config)
	if err != nil {
		t.Fatal(err)
	}

	_, err = provider.Infer(context.Background(), testhelpers.TestRequest("Hello"), mock.Client(), nil)
	testhelpers.AssertErrorKind(t, err, providers.KindAPIKeyMissing)
	if mock.GetRequestCount() != 0 {
		t.Errorf("expected zero HTTP calls, got %d", mock.GetRequestCount())
	}
}

func TestNewProvider_Defaults(t *testing.T) {
	provider, err := NewProvider(providers.ProviderConfig{Name: "openai", Model: "gpt-4"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.endpoint != DefaultBaseURL+chatCompletionsPath {
		t.Errorf("expected default endpoint, got %s", provider.endpoint)
	}
	if !provider.Capabilities().ToolCalling {
		t.Error("expected tool calling capability")
	}

	if _, err := NewProvider(providers.ProviderConfig{Name: "openai"}); providers.Kind(err) != providers.KindConfig {
		t.Errorf("expected config error for missing model, got %v", err)
	}
}

func TestOpenAIProvider_StreamRejected(t *testing.T) {
	mock := testhelpers.NewMockServer()
	defer mock.Close()

	provider := newTestProvider(t, mock.URL())
	req := testhelpers.TestRequest("Hello")
	req.Stream = true

	_, err := provider.Infer(context.Background(), req, mock.Client(), nil)

	testhelpers.AssertErrorKind(t, err, providers.KindConfig)
	if mock.GetRequestCount() != 0 {
		t.Errorf("expected zero HTTP calls, got %d", mock.GetRequestCount())
	}
}
