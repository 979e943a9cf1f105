package providers

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a message in the canonical conversation.
// System prompts are carried separately on InferenceRequest.System.
type Role string

// Message role constants
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ContentBlockType tags the variant held by a ContentBlock.
type ContentBlockType string

// Content block type constants
const (
	ContentText       ContentBlockType = "text"
	ContentToolCall   ContentBlockType = "tool_call"
	ContentToolResult ContentBlockType = "tool_result"
)

// ContentBlock is one piece of message content. Exactly one of Text, ToolCall
// or ToolResult is meaningful, selected by Type.
type ContentBlock struct {
	// Type selects the variant
	Type ContentBlockType `json:"type"`

	// Text is the text content (Type == ContentText)
	Text string `json:"text,omitempty"`

	// ToolCall is a tool invocation produced by the model (Type == ContentToolCall)
	ToolCall *ToolCall `json:"tool_call,omitempty"`

	// ToolResult is the output of a tool fed back to the model (Type == ContentToolResult)
	ToolResult *ToolResult `json:"tool_result,omitempty"`
}

// TextBlock returns a text content block.
func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: ContentText, Text: text}
}

// ToolCallBlock returns a tool call content block.
func ToolCallBlock(call ToolCall) ContentBlock {
	return ContentBlock{Type: ContentToolCall, ToolCall: &call}
}

// ToolResultBlock returns a tool result content block.
func ToolResultBlock(result ToolResult) ContentBlock {
	return ContentBlock{Type: ContentToolResult, ToolResult: &result}
}

// Message represents a single message in a conversation.
// It is provider-agnostic and will be transformed to provider-specific formats.
type Message struct {
	// Role identifies the message sender (user, assistant)
	Role Role `json:"role"`

	// Content holds the ordered content blocks of the message
	Content []ContentBlock `json:"content"`
}

// NewTextMessage creates a message with a single text block.
func NewTextMessage(role Role, text string) Message {
	return Message{Role: role, Content: []ContentBlock{TextBlock(text)}}
}

// ToolCall represents a function/tool call request from the model.
type ToolCall struct {
	// ID is a unique identifier for this tool call
	ID string `json:"id"`

	// Name is the function name to call
	Name string `json:"name"`

	// Arguments is a JSON string containing the function arguments
	Arguments string `json:"arguments"`
}

// ToolResult carries the output of a tool call back to the model.
type ToolResult struct {
	// ID references the ToolCall this result answers
	ID string `json:"id"`

	// Name is the function name that produced the result
	Name string `json:"name"`

	// Result is the tool output, usually JSON or plain text
	Result string `json:"result"`
}

// Tool is a function definition that the model can call.
type Tool struct {
	// Name is the function name
	Name string `json:"name"`

	// Description explains what the function does
	Description string `json:"description,omitempty"`

	// Parameters is a JSON Schema object describing the function parameters
	Parameters json.RawMessage `json:"parameters,omitempty"`

	// Strict asks vendors that support it to enforce the schema exactly
	Strict bool `json:"strict,omitempty"`
}

// ToolChoiceMode selects how the model may use the configured tools.
type ToolChoiceMode string

// Tool choice modes
const (
	ToolChoiceAuto     ToolChoiceMode = "auto"
	ToolChoiceNone     ToolChoiceMode = "none"
	ToolChoiceRequired ToolChoiceMode = "required"
	ToolChoiceSpecific ToolChoiceMode = "specific"
)

// ToolChoice is the tool-choice policy. Name is only set when Mode is
// ToolChoiceSpecific.
type ToolChoice struct {
	Mode ToolChoiceMode `json:"mode"`
	Name string         `json:"name,omitempty"`
}

// ToolCallConfig bundles the tool definitions and tool-choice policy of a request.
type ToolCallConfig struct {
	// Tools is a list of tools the model can call
	Tools []Tool `json:"tools"`

	// ToolChoice controls which tools can be called
	ToolChoice ToolChoice `json:"tool_choice"`

	// ParallelToolCalls allows several tool calls in one turn (nil = vendor default)
	ParallelToolCalls *bool `json:"parallel_tool_calls,omitempty"`
}

// RequiresToolUse reports whether the request cannot be honored without tool
// calling: a required or specific tool choice with at least one tool defined.
func (c *ToolCallConfig) RequiresToolUse() bool {
	if c == nil || len(c.Tools) == 0 {
		return false
	}
	return c.ToolChoice.Mode == ToolChoiceRequired || c.ToolChoice.Mode == ToolChoiceSpecific
}

// InferenceRequest is the canonical, provider-agnostic inference request.
// It is built once per call by the caller and only read by adapters.
//
// Optional sampling parameters are pointers: nil means "not set" and the
// adapter must omit the field from the vendor body. Values are validated by
// the caller; adapters forward them unchanged.
type InferenceRequest struct {
	// InferenceID uniquely identifies this inference
	InferenceID uuid.UUID `json:"inference_id"`

	// Messages is the conversation history (never empty)
	Messages []Message `json:"messages"`

	// System is the optional system prompt ("" = none)
	System string `json:"system,omitempty"`

	// Temperature controls randomness
	Temperature *float64 `json:"temperature,omitempty"`

	// TopP controls nucleus sampling
	TopP *float64 `json:"top_p,omitempty"`

	// MaxTokens is the maximum number of tokens to generate
	MaxTokens *int `json:"max_tokens,omitempty"`

	// Seed requests deterministic sampling where supported
	Seed *int `json:"seed,omitempty"`

	// FrequencyPenalty reduces repetition based on frequency
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`

	// PresencePenalty reduces repetition
	PresencePenalty *float64 `json:"presence_penalty,omitempty"`

	// Stream requests a streamed response. Adapters without streaming
	// support reject it with a *ConfigError before any network call.
	Stream bool `json:"stream,omitempty"`

	// ToolConfig holds tool definitions and the tool-choice policy (nil = no tools)
	ToolConfig *ToolCallConfig `json:"tool_config,omitempty"`
}

// NewInferenceRequest creates a request with a fresh time-ordered inference ID.
func NewInferenceRequest(messages ...Message) *InferenceRequest {
	return &InferenceRequest{
		InferenceID: uuid.Must(uuid.NewV7()),
		Messages:    messages,
	}
}

// Ptr returns a pointer to v. It is a convenience for setting optional
// request parameters.
func Ptr[T any](v T) *T {
	return &v
}

// FinishReason indicates why generation stopped.
type FinishReason string

// Finish reason constants
const (
	FinishReasonStop          FinishReason = "stop"
	FinishReasonLength        FinishReason = "length"
	FinishReasonToolCall      FinishReason = "tool_call"
	FinishReasonContentFilter FinishReason = "content_filter"
	FinishReasonUnknown       FinishReason = "unknown"
)

// Usage tracks token consumption for a request.
type Usage struct {
	// InputTokens is the number of tokens in the prompt
	InputTokens int `json:"input_tokens"`

	// OutputTokens is the number of tokens in the completion
	OutputTokens int `json:"output_tokens"`
}

// TotalTokens returns input plus output tokens.
func (u Usage) TotalTokens() int {
	return u.InputTokens + u.OutputTokens
}

// InferenceResponse is the canonical response normalized from a vendor response.
type InferenceResponse struct {
	// ID is the unique identifier of this provider response
	ID uuid.UUID `json:"id"`

	// InferenceID echoes the request's inference ID
	InferenceID uuid.UUID `json:"inference_id"`

	// Content is the generated output: text and tool call blocks
	Content []ContentBlock `json:"content"`

	// Usage contains token consumption information
	Usage Usage `json:"usage"`

	// FinishReason indicates why generation stopped
	FinishReason FinishReason `json:"finish_reason"`

	// Latency is the wall-clock duration of the vendor call measured by the adapter
	Latency time.Duration `json:"latency"`

	// RawRequest is the serialized vendor request body
	RawRequest string `json:"raw_request"`

	// RawResponse is the literal vendor response body
	RawResponse string `json:"raw_response"`

	// Created is when the response was produced
	Created time.Time `json:"created"`
}

// Text concatenates all text blocks of the response.
func (r *InferenceResponse) Text() string {
	var text string
	for _, block := range r.Content {
		if block.Type == ContentText {
			text += block.Text
		}
	}
	return text
}

// ToolCalls returns the tool calls contained in the response.
func (r *InferenceResponse) ToolCalls() []ToolCall {
	var calls []ToolCall
	for _, block := range r.Content {
		if block.Type == ContentToolCall && block.ToolCall != nil {
			calls = append(calls, *block.ToolCall)
		}
	}
	return calls
}
