package anthropic

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"mercator-hq/relay/pkg/providers"
)

// Anthropic API request/response types

// AnthropicRequest represents an Anthropic messages request.
type AnthropicRequest struct {
	Model         string               `json:"model"`
	Messages      []AnthropicMessage   `json:"messages"`
	System        string               `json:"system,omitempty"`
	MaxTokens     int                  `json:"max_tokens"`
	Temperature   *float64             `json:"temperature,omitempty"`
	TopP          *float64             `json:"top_p,omitempty"`
	TopK          *int                 `json:"top_k,omitempty"`
	Tools         []AnthropicTool      `json:"tools,omitempty"`
	ToolChoice    *AnthropicToolChoice `json:"tool_choice,omitempty"`
	StopSequences []string             `json:"stop_sequences,omitempty"`
}

// AnthropicMessage represents a message in Anthropic format.
type AnthropicMessage struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

// ContentBlock represents a content block in Anthropic format.
type ContentBlock struct {
	Type string `json:"type"` // "text" or "tool_use" or "tool_result"
	Text string `json:"text,omitempty"`

	// For tool_use blocks
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`

	// For tool_result blocks
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
}

// AnthropicTool represents a tool definition in Anthropic format.
type AnthropicTool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"input_schema"`
}

// AnthropicToolChoice represents the tool_choice object.
type AnthropicToolChoice struct {
	Type                   string `json:"type"` // "auto", "any" or "tool"
	Name                   string `json:"name,omitempty"`
	DisableParallelToolUse *bool  `json:"disable_parallel_tool_use,omitempty"`
}

// AnthropicResponse represents an Anthropic messages response.
type AnthropicResponse struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	Role         string         `json:"role"`
	Content      []ContentBlock `json:"content"`
	Model        string         `json:"model"`
	StopReason   string         `json:"stop_reason"`
	StopSequence string         `json:"stop_sequence,omitempty"`
	Usage        AnthropicUsage `json:"usage"`
}

// AnthropicUsage represents token usage in Anthropic format.
type AnthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// AnthropicErrorResponse is the error body returned by the Messages API.
type AnthropicErrorResponse struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

const (
	// defaultMaxTokens is sent when the request leaves max_tokens unset,
	// since the Messages API requires it.
	defaultMaxTokens = 4096

	emptyObject = `{}`
)

// Transformation functions

// transformRequest transforms a canonical request to Anthropic format.
func transformRequest(config providers.ProviderConfig, req *providers.InferenceRequest) *AnthropicRequest {
	anthropicReq := &AnthropicRequest{
		Model:         config.Model,
		Messages:      make([]AnthropicMessage, 0, len(req.Messages)),
		System:        req.System,
		MaxTokens:     defaultMaxTokens,
		Temperature:   req.Temperature,
		TopP:          req.TopP,
		TopK:          config.TopK,
		StopSequences: config.StopSequences,
	}
	if req.MaxTokens != nil {
		anthropicReq.MaxTokens = *req.MaxTokens
	}

	for _, msg := range req.Messages {
		anthropicReq.Messages = append(anthropicReq.Messages, AnthropicMessage{
			Role:    string(msg.Role),
			Content: transformContent(msg.Content),
		})
	}

	anthropicReq.Tools, anthropicReq.ToolChoice = transformTools(req.ToolConfig)

	return anthropicReq
}

func transformContent(blocks []providers.ContentBlock) []ContentBlock {
	out := make([]ContentBlock, 0, len(blocks))
	for _, block := range blocks {
		switch block.Type {
		case providers.ContentText:
			out = append(out, ContentBlock{Type: "text", Text: block.Text})
		case providers.ContentToolCall:
			if block.ToolCall == nil {
				continue
			}
			input := block.ToolCall.Arguments
			if strings.TrimSpace(input) == "" {
				input = emptyObject
			}
			out = append(out, ContentBlock{
				Type:  "tool_use",
				ID:    block.ToolCall.ID,
				Name:  block.ToolCall.Name,
				Input: json.RawMessage(input),
			})
		case providers.ContentToolResult:
			if block.ToolResult == nil {
				continue
			}
			out = append(out, ContentBlock{
				Type:      "tool_result",
				ToolUseID: block.ToolResult.ID,
				Content:   block.ToolResult.Result,
			})
		}
	}
	return out
}

// transformTools maps the tool configuration. Tool choice none drops the
// tools entirely.
func transformTools(config *providers.ToolCallConfig) ([]AnthropicTool, *AnthropicToolChoice) {
	if config == nil || len(config.Tools) == 0 || config.ToolChoice.Mode == providers.ToolChoiceNone {
		return nil, nil
	}

	tools := make([]AnthropicTool, len(config.Tools))
	for i, tool := range config.Tools {
		schema := tool.Parameters
		if len(schema) == 0 {
			schema = json.RawMessage(`{"type":"object"}`)
		}
		tools[i] = AnthropicTool{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: schema,
		}
	}

	choice := &AnthropicToolChoice{Type: "auto"}
	switch config.ToolChoice.Mode {
	case providers.ToolChoiceRequired:
		choice.Type = "any"
	case providers.ToolChoiceSpecific:
		choice.Type = "tool"
		choice.Name = config.ToolChoice.Name
	}
	if config.ParallelToolCalls != nil && !*config.ParallelToolCalls {
		choice.DisableParallelToolUse = providers.Ptr(true)
	}

	return tools, choice
}

// transformResponse transforms an Anthropic response to the canonical format.
func transformResponse(req *providers.InferenceRequest, resp *AnthropicResponse) *providers.InferenceResponse {
	var content []providers.ContentBlock

	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			content = append(content, providers.TextBlock(block.Text))

		case "tool_use":
			arguments := string(block.Input)
			if arguments == "" {
				arguments = emptyObject
			}
			content = append(content, providers.ToolCallBlock(providers.ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: arguments,
			}))
		}
	}

	return &providers.InferenceResponse{
		ID:           uuid.Must(uuid.NewV7()),
		InferenceID:  req.InferenceID,
		Content:      content,
		FinishReason: normalizeStopReason(resp.StopReason),
		Usage: providers.Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
		},
		Created: time.Now(),
	}
}

// normalizeStopReason normalizes Anthropic stop reasons to canonical values.
func normalizeStopReason(reason string) providers.FinishReason {
	switch reason {
	case "end_turn", "stop_sequence":
		return providers.FinishReasonStop
	case "max_tokens":
		return providers.FinishReasonLength
	case "tool_use":
		return providers.FinishReasonToolCall
	case "refusal":
		return providers.FinishReasonContentFilter
	default:
		return providers.FinishReasonUnknown
	}
}

// errorMessage extracts the message of an Anthropic error body, or "".
func errorMessage(body string) string {
	var errResp AnthropicErrorResponse
	if err := json.Unmarshal([]byte(body), &errResp); err != nil {
		return ""
	}
	return errResp.Error.Message
}
