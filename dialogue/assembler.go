package dialogue

import (
	"github.com/richinex/parley/llm"
)

// Assemble builds the provider message list for a turn: the system
// prompt first, then the conversation turns with raw image attachments
// converted into structured parts.
//
// Conversion is idempotent: messages already carrying parts pass
// through unchanged, and non-user roles are never touched.
func Assemble(systemPrompt string, turns []llm.ChatMessage) []llm.ChatMessage {
	messages := make([]llm.ChatMessage, 0, len(turns)+1)
	messages = append(messages, llm.SystemMessage(systemPrompt))
	for _, turn := range turns {
		messages = append(messages, withImageParts(turn))
	}
	return messages
}

// withImageParts converts a user message with raw image attachments
// into the structured multimodal form: the text first (when present),
// then the images in attachment order.
func withImageParts(msg llm.ChatMessage) llm.ChatMessage {
	if msg.Role != "user" || msg.Multimodal() || len(msg.Images) == 0 {
		return msg
	}

	parts := make([]llm.ContentPart, 0, len(msg.Images)+1)
	if msg.Content != "" {
		parts = append(parts, llm.TextPart(msg.Content))
	}
	for _, img := range msg.Images {
		parts = append(parts, llm.ImagePart(img))
	}

	msg.Parts = parts
	return msg
}
