// Package llm provides shared data models for LLM providers.
package llm

import "encoding/json"

// PartType distinguishes the kinds of multimodal content parts.
type PartType string

const (
	// PartText is a plain text segment of a multimodal message.
	PartText PartType = "text"
	// PartImage is an image reference (data URL or https URL).
	PartImage PartType = "image"
)

// ContentPart is one element of a multimodal message body.
type ContentPart struct {
	Type     PartType `json:"type"`
	Text     string   `json:"text,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
}

// TextPart creates a text content part.
func TextPart(text string) ContentPart {
	return ContentPart{Type: PartText, Text: text}
}

// ImagePart creates an image content part from a URL or data URL.
func ImagePart(url string) ContentPart {
	return ContentPart{Type: PartImage, ImageURL: url}
}

// ChatMessage represents a chat message with role and content.
//
// Content is a tagged variant decided once at message construction:
// plain text lives in Content, multimodal bodies live in Parts. When
// Parts is non-empty, providers send the structured form and Content
// is ignored. Images carries raw attachment references on user turns
// before the assembler converts them into Parts.
type ChatMessage struct {
	Role       string        `json:"role"`
	Content    string        `json:"content"`
	Parts      []ContentPart `json:"parts,omitempty"`
	Images     []string      `json:"images,omitempty"`
	ToolCalls  []ToolCall    `json:"tool_calls,omitempty"`   // For assistant messages with tool calls
	ToolCallID string        `json:"tool_call_id,omitempty"` // For tool result messages
}

// Multimodal reports whether the message carries a structured body.
func (m ChatMessage) Multimodal() bool {
	return len(m.Parts) > 0
}

// ToolCall represents a tool call from the LLM.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolDefinition defines a tool that the LLM can call.
type ToolDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"` // JSON Schema
}

// SystemMessage creates a system message.
func SystemMessage(content string) ChatMessage {
	return ChatMessage{
		Role:    "system",
		Content: content,
	}
}

// UserMessage creates a user message.
func UserMessage(content string) ChatMessage {
	return ChatMessage{
		Role:    "user",
		Content: content,
	}
}

// AssistantMessage creates an assistant message.
func AssistantMessage(content string) ChatMessage {
	return ChatMessage{
		Role:    "assistant",
		Content: content,
	}
}

// MultimodalUserMessage creates a user message with structured parts.
func MultimodalUserMessage(parts ...ContentPart) ChatMessage {
	return ChatMessage{
		Role:  "user",
		Parts: parts,
	}
}

// LLMResponse represents a response from an LLM provider.
type LLMResponse struct {
	Content   string
	ToolCalls []ToolCall // Tool calls requested by the LLM
	Usage     *TokenUsage
}

// TokenUsage contains token usage statistics.
type TokenUsage struct {
	PromptTokens     uint32
	CompletionTokens uint32
	TotalTokens      uint32
}
