package cohere

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"mercator-hq/relay/pkg/providers"
	"mercator-hq/relay/pkg/providers/openaicompat"
)

// Cohere v2 chat API request/response types

// CohereRequest represents a Cohere v2 chat request. Every optional field
// is omitted when unset.
type CohereRequest struct {
	Model            string                     `json:"model"`
	Messages         []openaicompat.ChatMessage `json:"messages"`
	MaxTokens        *int                       `json:"max_tokens,omitempty"`
	StopSequences    []string                   `json:"stop_sequences,omitempty"`
	Temperature      *float64                   `json:"temperature,omitempty"`
	Seed             *int                       `json:"seed,omitempty"`
	FrequencyPenalty *float64                   `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64                   `json:"presence_penalty,omitempty"`
	K                *int                       `json:"k,omitempty"`
	P                *float64                   `json:"p,omitempty"`
	Logprobs         *bool                      `json:"logprobs,omitempty"`
}

// CohereResponse represents a Cohere v2 chat response.
type CohereResponse struct {
	ID           string          `json:"id"`
	FinishReason string          `json:"finish_reason"`
	Message      CohereMessage   `json:"message"`
	Usage        *CohereUsage    `json:"usage,omitempty"`
	Logprobs     json.RawMessage `json:"logprobs,omitempty"`
}

// CohereMessage is the assistant message of a response.
type CohereMessage struct {
	Role      string                      `json:"role"`
	Content   []CohereContent             `json:"content"`
	ToolPlan  string                      `json:"tool_plan,omitempty"`
	ToolCalls []openaicompat.ChatToolCall `json:"tool_calls,omitempty"`
}

// CohereContent is one content item of a response message.
type CohereContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CohereUsage holds billed and actual token counts.
type CohereUsage struct {
	BilledUnits *CohereTokens `json:"billed_units,omitempty"`
	Tokens      *CohereTokens `json:"tokens,omitempty"`
}

// CohereTokens holds input and output token counts.
type CohereTokens struct {
	InputTokens  float64 `json:"input_tokens"`
	OutputTokens float64 `json:"output_tokens"`
}

// CohereErrorResponse is the error body returned by the Cohere API.
type CohereErrorResponse struct {
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
}

// transformRequest transforms a canonical request to Cohere format.
// Tool definitions are never sent: callers reject requests that require
// tool use before reaching this point.
func transformRequest(config providers.ProviderConfig, req *providers.InferenceRequest) *CohereRequest {
	cohereReq := &CohereRequest{
		Model:            config.Model,
		Messages:         openaicompat.PrepareMessages(req.System, req.Messages),
		MaxTokens:        req.MaxTokens,
		StopSequences:    config.StopSequences,
		Temperature:      req.Temperature,
		Seed:             req.Seed,
		FrequencyPenalty: req.FrequencyPenalty,
		PresencePenalty:  req.PresencePenalty,
		K:                config.TopK,
		P:                req.TopP,
	}
	if config.Logprobs {
		cohereReq.Logprobs = providers.Ptr(true)
	}
	return cohereReq
}

// transformResponse transforms a Cohere response to the canonical format.
func transformResponse(req *providers.InferenceRequest, cohereResp *CohereResponse) *providers.InferenceResponse {
	var content []providers.ContentBlock
	var text strings.Builder
	for _, item := range cohereResp.Message.Content {
		if item.Type == "text" {
			text.WriteString(item.Text)
		}
	}
	if text.Len() > 0 {
		content = append(content, providers.TextBlock(text.String()))
	}
	for _, tc := range cohereResp.Message.ToolCalls {
		content = append(content, providers.ToolCallBlock(providers.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		}))
	}

	return &providers.InferenceResponse{
		ID:           uuid.Must(uuid.NewV7()),
		InferenceID:  req.InferenceID,
		Content:      content,
		Usage:        transformUsage(cohereResp.Usage),
		FinishReason: normalizeFinishReason(cohereResp.FinishReason),
		Created:      time.Now(),
	}
}

// transformUsage prefers the actual token counts over billed units.
func transformUsage(usage *CohereUsage) providers.Usage {
	if usage == nil {
		return providers.Usage{}
	}
	tokens := usage.Tokens
	if tokens == nil {
		tokens = usage.BilledUnits
	}
	if tokens == nil {
		return providers.Usage{}
	}
	return providers.Usage{
		InputTokens:  int(tokens.InputTokens),
		OutputTokens: int(tokens.OutputTokens),
	}
}

// normalizeFinishReason converts a Cohere finish reason to the canonical one.
func normalizeFinishReason(reason string) providers.FinishReason {
	switch reason {
	case "COMPLETE", "STOP_SEQUENCE":
		return providers.FinishReasonStop
	case "MAX_TOKENS":
		return providers.FinishReasonLength
	case "TOOL_CALL":
		return providers.FinishReasonToolCall
	case "ERROR_TOXIC":
		return providers.FinishReasonContentFilter
	default:
		return providers.FinishReasonUnknown
	}
}

// errorMessage extracts the message of a Cohere error body, or "".
func errorMessage(body string) string {
	var errResp CohereErrorResponse
	if err := json.Unmarshal([]byte(body), &errResp); err != nil {
		return ""
	}
	return errResp.Message
}
