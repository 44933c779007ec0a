package dialogue

import (
	"fmt"
	"sort"
	"strings"
)

// Dialogue modes. ModeExplore is the default.
const (
	ModeSetup   = "setup"
	ModeExplore = "explore"
)

const basePrompt = `You are a helpful assistant with access to web search, SMS, voice call and image generation tools. Answer accurately and concisely, ground factual claims in search results when you use web search, and use the available tools whenever a request calls for them.`

const telephonyInstruction = "\n\nIMPORTANT: When asked to send an SMS or make a call, use the appropriate tool (send_sms or make_call) directly. Do not hesitate to use these tools when explicitly requested."

const searchPolicy = "\n\nWhen using the web_search tool to respond to queries about news, events, or information:" +
	"\n1. Always find at least 5 relevant sources from diverse websites" +
	"\n2. Structure your response with a clear, well-organized summary of key findings" +
	"\n3. List all 5 sources with proper links at the end of your response" +
	"\n4. Prefer recent sources when available" +
	"\n5. Present information in a factual, balanced way, highlighting agreements and differences between sources"

const continuityReminder = "\n\nIMPORTANT: You have access to the full conversation history. Reference previous parts of the conversation when relevant and maintain continuity by referring to previous questions and answers."

const setupInstruction = "\nYou are in SETUP mode. Focus on helping the user configure systems, services, or applications. Provide detailed step-by-step instructions. When appropriate, suggest best practices for configuration."

const exploreInstruction = "\nYou are in EXPLORE mode. Focus on helping the user discover information and learn new things. Be comprehensive and educational in your responses."

// PromptOptions carries the per-request context that shapes the
// system prompt.
type PromptOptions struct {
	Mode           string
	ProjectContext map[string]string
	ImageContext   string
}

// SystemPrompt builds the system prompt for an agent turn.
// Project context keys are emitted in sorted order so the prompt is
// deterministic for a given request.
func SystemPrompt(opts PromptOptions) string {
	var sb strings.Builder
	sb.WriteString(basePrompt)
	sb.WriteString(telephonyInstruction)
	sb.WriteString(searchPolicy)
	sb.WriteString(continuityReminder)

	if len(opts.ProjectContext) > 0 {
		keys := make([]string, 0, len(opts.ProjectContext))
		for k := range opts.ProjectContext {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString("\n\nProject Context:\n")
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("%s: %s\n", k, opts.ProjectContext[k]))
		}
	}

	if opts.ImageContext != "" {
		sb.WriteString(fmt.Sprintf("\n\nImage Context:\n%s\n", opts.ImageContext))
	}

	switch opts.Mode {
	case ModeSetup:
		sb.WriteString(setupInstruction)
	case ModeExplore, "":
		sb.WriteString(exploreInstruction)
	}

	return sb.String()
}
