package openai

import (
	"time"

	"github.com/google/uuid"

	"mercator-hq/relay/pkg/providers"
	"mercator-hq/relay/pkg/providers/openaicompat"
)

// OpenAI API request/response types

// OpenAIRequest represents an OpenAI chat completion request. Unset
// optional parameters are omitted from the body.
type OpenAIRequest struct {
	Model             string                     `json:"model"`
	Messages          []openaicompat.ChatMessage `json:"messages"`
	Temperature       *float64                   `json:"temperature,omitempty"`
	MaxTokens         *int                       `json:"max_tokens,omitempty"`
	TopP              *float64                   `json:"top_p,omitempty"`
	Seed              *int                       `json:"seed,omitempty"`
	Tools             []openaicompat.ChatTool    `json:"tools,omitempty"`
	ToolChoice        any                        `json:"tool_choice,omitempty"`
	ParallelToolCalls *bool                      `json:"parallel_tool_calls,omitempty"`
	Stop              []string                   `json:"stop,omitempty"`
	PresencePenalty   *float64                   `json:"presence_penalty,omitempty"`
	FrequencyPenalty  *float64                   `json:"frequency_penalty,omitempty"`
	Logprobs          *bool                      `json:"logprobs,omitempty"`
}

// transformRequest transforms a canonical request to OpenAI format.
func transformRequest(config providers.ProviderConfig, req *providers.InferenceRequest) *OpenAIRequest {
	openaiReq := &OpenAIRequest{
		Model:            config.Model,
		Messages:         openaicompat.PrepareMessages(req.System, req.Messages),
		Temperature:      req.Temperature,
		MaxTokens:        req.MaxTokens,
		TopP:             req.TopP,
		Seed:             req.Seed,
		Stop:             config.StopSequences,
		PresencePenalty:  req.PresencePenalty,
		FrequencyPenalty: req.FrequencyPenalty,
	}
	if config.Logprobs {
		openaiReq.Logprobs = providers.Ptr(true)
	}

	// Transform tools
	openaiReq.Tools, openaiReq.ToolChoice = openaicompat.PrepareTools(req.ToolConfig)
	if len(openaiReq.Tools) > 0 {
		openaiReq.ParallelToolCalls = req.ToolConfig.ParallelToolCalls
	}

	return openaiReq
}

// transformResponse transforms an OpenAI response to the canonical format.
// The caller guarantees at least one choice.
func transformResponse(req *providers.InferenceRequest, resp *openaicompat.ChatCompletionResponse) *providers.InferenceResponse {
	// Use the first choice (n is never set, so the vendor returns one)
	choice := resp.Choices[0]

	result := &providers.InferenceResponse{
		ID:           uuid.Must(uuid.NewV7()),
		InferenceID:  req.InferenceID,
		Content:      openaicompat.ContentFromMessage(choice.Message),
		FinishReason: openaicompat.NormalizeFinishReason(choice.FinishReason),
		Created:      time.Now(),
	}
	if resp.Usage != nil {
		result.Usage = providers.Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		}
	}

	return result
}
