package dialogue

import (
	"context"
	"fmt"

	"github.com/richinex/parley/llm"
	"github.com/richinex/parley/reshape"
	"github.com/richinex/parley/tools"
)

// DefaultMaxGraphSteps bounds the message graph: each model invocation
// and each tool batch counts as one step.
const DefaultMaxGraphSteps = 20

// Graph processes a turn as an alternation between a model node and a
// tool node over a growing message list. It is the low-level sibling
// of the orchestrator's agent loop: callers own the message list and
// get the full transcript back, tool messages included.
type Graph struct {
	provider llm.Provider
	registry *tools.Registry
	executor *tools.Executor
	maxSteps int
}

// NewGraph creates a message graph processor with default bounds.
func NewGraph(provider llm.Provider, registry *tools.Registry) *Graph {
	return &Graph{
		provider: provider,
		registry: registry,
		executor: tools.NewExecutor(tools.DefaultToolTimeout),
		maxSteps: DefaultMaxGraphSteps,
	}
}

// WithMaxSteps overrides the step bound.
func (g *Graph) WithMaxSteps(n int) *Graph {
	if n > 0 {
		g.maxSteps = n
	}
	return g
}

// ProcessTurn runs the model/tool alternation until the model stops
// requesting tools, returning the grown message list. The final
// assistant answer is reshaped when web search was involved.
// Exceeding the step bound is an error.
func (g *Graph) ProcessTurn(ctx context.Context, messages []llm.ChatMessage) ([]llm.ChatMessage, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("no messages to process")
	}

	defs := toolDefinitions(g.registry)
	searchUsed := false
	steps := 0

	for {
		if ctx.Err() != nil {
			return messages, ctx.Err()
		}
		if steps >= g.maxSteps {
			return messages, fmt.Errorf("message graph exceeded %d steps", g.maxSteps)
		}
		steps++

		response, err := g.provider.ChatWithTools(ctx, messages, defs)
		if err != nil {
			return messages, fmt.Errorf("LLM call failed: %w", err)
		}

		if len(response.ToolCalls) == 0 {
			content := response.Content
			if searchUsed {
				content = reshape.Reshape(content)
			}
			return append(messages, llm.AssistantMessage(content)), nil
		}

		messages = append(messages, llm.ChatMessage{
			Role:      "assistant",
			Content:   response.Content,
			ToolCalls: response.ToolCalls,
		})

		if steps >= g.maxSteps {
			return messages, fmt.Errorf("message graph exceeded %d steps", g.maxSteps)
		}
		steps++

		for _, tc := range response.ToolCalls {
			if tc.Name == tools.NameWebSearch {
				searchUsed = true
			}
			messages = append(messages, g.executeGraphToolCall(ctx, tc))
		}
	}
}

func (g *Graph) executeGraphToolCall(ctx context.Context, tc llm.ToolCall) llm.ChatMessage {
	tool, exists := g.registry.Get(tc.Name)
	if !exists {
		return llm.ChatMessage{
			Role:       "tool",
			Content:    fmt.Sprintf("Error: tool '%s' not found", tc.Name),
			ToolCallID: tc.ID,
		}
	}

	result, err := g.executor.Execute(ctx, tool, tc.Arguments)
	if err != nil {
		return llm.ChatMessage{
			Role:       "tool",
			Content:    fmt.Sprintf("Error: %v", err),
			ToolCallID: tc.ID,
		}
	}
	if !result.Success() {
		return llm.ChatMessage{
			Role:       "tool",
			Content:    fmt.Sprintf("Error: %v", result.Error),
			ToolCallID: tc.ID,
		}
	}

	output := result.Output
	if output == "" {
		output = "(empty result)"
	}
	return llm.ChatMessage{
		Role:       "tool",
		Content:    output,
		ToolCallID: tc.ID,
	}
}
