package openaicompat

import (
	"strings"

	"mercator-hq/relay/pkg/providers"
)

// Chat Completions role names.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

const toolTypeFunction = "function"

// PrepareMessages converts the canonical conversation into Chat Completions
// messages. A non-empty system prompt becomes the first message. Tool
// results become "tool" messages placed where they appear in the turn;
// consecutive text blocks are joined into one message.
func PrepareMessages(system string, messages []providers.Message) []ChatMessage {
	out := make([]ChatMessage, 0, len(messages)+1)
	if system != "" {
		out = append(out, ChatMessage{Role: RoleSystem, Content: system})
	}

	for _, msg := range messages {
		switch msg.Role {
		case providers.RoleAssistant:
			out = append(out, assistantMessage(msg))
		default:
			out = append(out, userMessages(msg)...)
		}
	}
	return out
}

func assistantMessage(msg providers.Message) ChatMessage {
	var text strings.Builder
	cm := ChatMessage{Role: RoleAssistant}
	for _, block := range msg.Content {
		switch block.Type {
		case providers.ContentText:
			text.WriteString(block.Text)
		case providers.ContentToolCall:
			if block.ToolCall == nil {
				continue
			}
			cm.ToolCalls = append(cm.ToolCalls, ChatToolCall{
				ID:   block.ToolCall.ID,
				Type: toolTypeFunction,
				Function: ChatFunctionCall{
					Name:      block.ToolCall.Name,
					Arguments: block.ToolCall.Arguments,
				},
			})
		}
	}
	cm.Content = text.String()
	return cm
}

func userMessages(msg providers.Message) []ChatMessage {
	var (
		out     []ChatMessage
		text    strings.Builder
		hasText bool
	)
	flush := func() {
		if hasText {
			out = append(out, ChatMessage{Role: RoleUser, Content: text.String()})
			text.Reset()
			hasText = false
		}
	}

	for _, block := range msg.Content {
		switch block.Type {
		case providers.ContentText:
			text.WriteString(block.Text)
			hasText = true
		case providers.ContentToolResult:
			if block.ToolResult == nil {
				continue
			}
			flush()
			out = append(out, ChatMessage{
				Role:       RoleTool,
				Content:    block.ToolResult.Result,
				ToolCallID: block.ToolResult.ID,
			})
		}
	}
	flush()
	return out
}

// PrepareTools converts the canonical tool configuration into Chat
// Completions tools and tool_choice. A nil config, an empty tool list or
// ToolChoiceNone yields no tools at all.
func PrepareTools(config *providers.ToolCallConfig) ([]ChatTool, any) {
	if config == nil || len(config.Tools) == 0 || config.ToolChoice.Mode == providers.ToolChoiceNone {
		return nil, nil
	}

	tools := make([]ChatTool, len(config.Tools))
	for i, tool := range config.Tools {
		tools[i] = ChatTool{
			Type: toolTypeFunction,
			Function: ChatFunctionDef{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
				Strict:      tool.Strict,
			},
		}
	}

	switch config.ToolChoice.Mode {
	case providers.ToolChoiceRequired:
		return tools, "required"
	case providers.ToolChoiceSpecific:
		return tools, ChatToolChoiceFunction{
			Type:     toolTypeFunction,
			Function: ChatToolChoiceName{Name: config.ToolChoice.Name},
		}
	default:
		return tools, "auto"
	}
}

// ContentFromMessage converts a response message into canonical content blocks.
func ContentFromMessage(msg ChatResponseMessage) []providers.ContentBlock {
	var blocks []providers.ContentBlock
	if msg.Content != nil && *msg.Content != "" {
		blocks = append(blocks, providers.TextBlock(*msg.Content))
	}
	for _, tc := range msg.ToolCalls {
		blocks = append(blocks, providers.ToolCallBlock(providers.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		}))
	}
	return blocks
}

// NormalizeFinishReason maps a Chat Completions finish reason to the canonical one.
func NormalizeFinishReason(reason string) providers.FinishReason {
	switch reason {
	case "stop":
		return providers.FinishReasonStop
	case "length":
		return providers.FinishReasonLength
	case "tool_calls", "function_call":
		return providers.FinishReasonToolCall
	case "content_filter":
		return providers.FinishReasonContentFilter
	default:
		return providers.FinishReasonUnknown
	}
}
