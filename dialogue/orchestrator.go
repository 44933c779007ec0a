// Dialogue orchestrator.
//
// Information Hiding:
// - Routing between direct-action shortcuts and the agent loop
// - Agent loop mechanics and iteration bounds
// - Degradation policy: callers always get an answer string

package dialogue

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/richinex/parley/history"
	"github.com/richinex/parley/llm"
	"github.com/richinex/parley/reshape"
	"github.com/richinex/parley/tools"
)

// DefaultMaxIterations bounds the agent's model/tool round trips.
const DefaultMaxIterations = 5

// rephraseApology is returned when the agent loop ends without a
// usable answer.
const rephraseApology = "I apologize for the error in processing your request. Could you please rephrase your question?"

// ProcessingApology is the user-facing text for any internal failure.
// Error detail goes to the log only, never to the end user.
const ProcessingApology = "I encountered an error while processing your request."

// Request is one dialogue turn.
type Request struct {
	Query          string
	ThreadID       string
	Mode           string
	ProjectContext map[string]string
	ImageContext   string
	AttachedImages []string
}

// Orchestrator answers dialogue turns. Queries matching a
// direct-action shortcut bypass the model entirely; everything else
// runs through a bounded tool-calling loop.
type Orchestrator struct {
	provider      llm.Provider
	registry      *tools.Registry
	executor      *tools.Executor
	reconciler    *history.Reconciler
	maxIterations int
}

// New creates an orchestrator with default bounds.
func New(provider llm.Provider, registry *tools.Registry, reconciler *history.Reconciler) *Orchestrator {
	return &Orchestrator{
		provider:      provider,
		registry:      registry,
		executor:      tools.NewExecutor(tools.DefaultToolTimeout),
		reconciler:    reconciler,
		maxIterations: DefaultMaxIterations,
	}
}

// WithMaxIterations overrides the agent loop bound.
func (o *Orchestrator) WithMaxIterations(n int) *Orchestrator {
	if n > 0 {
		o.maxIterations = n
	}
	return o
}

// GetAnswer answers one dialogue turn. It never fails: internal errors
// degrade to an apology so the caller always has something to show.
func (o *Orchestrator) GetAnswer(ctx context.Context, req Request) string {
	answer, err := o.answer(ctx, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error processing query: %v\n", err)
		return ProcessingApology
	}
	return answer
}

func (o *Orchestrator) answer(ctx context.Context, req Request) (string, error) {
	decision := Classify(req.Query, o.historyLoader(ctx, req.ThreadID))
	switch decision.Route {
	case RouteImage:
		return o.generateImage(ctx, req, decision.ImageDescription)
	case RouteSMS:
		return o.sendSMS(ctx, req, decision)
	case RouteCall:
		return o.makeCall(ctx, req, decision)
	default:
		return o.runAgent(ctx, req)
	}
}

// historyLoader exposes the local history for entity fallback during
// routing. The remote log is not consulted here, and a failed read
// degrades to no history rather than aborting the query.
func (o *Orchestrator) historyLoader(ctx context.Context, threadID string) HistoryLoader {
	if threadID == "" {
		return nil
	}
	return func() []llm.ChatMessage {
		cached, err := o.reconciler.Local().Load(ctx, threadID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to read cached history: %v\n", err)
			return nil
		}
		return cached
	}
}

func (o *Orchestrator) generateImage(ctx context.Context, req Request, description string) (string, error) {
	result, err := o.invokeTool(ctx, tools.NameGenerateImage, map[string]string{
		"prompt": description,
	})
	if err != nil {
		return "", err
	}
	if !result.Success() {
		return fmt.Sprintf("Error generating image: %v", result.Error), nil
	}

	answer := fmt.Sprintf("I've created an image of %s:\n\n![Generated Image](%s)", description, result.Output)
	o.reconciler.Record(ctx, req.ThreadID, llm.UserMessage(req.Query), llm.AssistantMessage(answer))
	return answer, nil
}

func (o *Orchestrator) sendSMS(ctx context.Context, req Request, decision Decision) (string, error) {
	result, err := o.invokeTool(ctx, tools.NameSendSMS, map[string]string{
		"recipient": decision.Phone,
		"message":   decision.Message,
	})
	if err != nil {
		return "", err
	}
	if !result.Success() {
		return "", result.Error
	}

	answer := fmt.Sprintf("✅ SMS sent to %s with message: '%s'. %s", decision.Phone, decision.Message, result.Output)
	o.reconciler.Record(ctx, req.ThreadID, llm.UserMessage(req.Query), llm.AssistantMessage(answer))
	return answer, nil
}

func (o *Orchestrator) makeCall(ctx context.Context, req Request, decision Decision) (string, error) {
	result, err := o.invokeTool(ctx, tools.NameMakeCall, map[string]string{
		"recipient": decision.Phone,
		"message":   decision.Message,
	})
	if err != nil {
		return "", err
	}
	if !result.Success() {
		return "", result.Error
	}

	answer := fmt.Sprintf("✅ Call initiated to %s with message: '%s'. %s", decision.Phone, decision.Message, result.Output)
	o.reconciler.Record(ctx, req.ThreadID, llm.UserMessage(req.Query), llm.AssistantMessage(answer))
	return answer, nil
}

func (o *Orchestrator) invokeTool(ctx context.Context, name string, args map[string]string) (tools.ToolResult, error) {
	tool, ok := o.registry.Get(name)
	if !ok {
		return tools.ToolResult{}, fmt.Errorf("tool '%s' not available", name)
	}

	encoded, err := json.Marshal(args)
	if err != nil {
		return tools.ToolResult{}, fmt.Errorf("failed to encode tool arguments: %w", err)
	}

	return o.executor.Execute(ctx, tool, encoded)
}

// runAgent answers a query through the bounded tool-calling loop.
func (o *Orchestrator) runAgent(ctx context.Context, req Request) (string, error) {
	turns, err := o.reconciler.Resolve(ctx, req.ThreadID)
	if err != nil {
		return "", err
	}

	userMsg := llm.UserMessage(req.Query)
	userMsg.Images = req.AttachedImages
	turns = append(turns, userMsg)

	systemPrompt := SystemPrompt(PromptOptions{
		Mode:           req.Mode,
		ProjectContext: req.ProjectContext,
		ImageContext:   req.ImageContext,
	})
	messages := Assemble(systemPrompt, turns)
	defs := toolDefinitions(o.registry)

	answer := ""
	searchUsed := false

	for i := 0; i < o.maxIterations; i++ {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		response, err := o.provider.ChatWithTools(ctx, messages, defs)
		if err != nil {
			return "", fmt.Errorf("LLM call failed: %w", err)
		}

		// No tool calls - final answer
		if len(response.ToolCalls) == 0 {
			answer = response.Content
			break
		}

		messages = append(messages, llm.ChatMessage{
			Role:      "assistant",
			Content:   response.Content,
			ToolCalls: response.ToolCalls,
		})

		for _, tc := range response.ToolCalls {
			if tc.Name == tools.NameWebSearch {
				searchUsed = true
			}
			messages = append(messages, o.executeToolCall(ctx, tc))
		}
	}

	if answer == "" {
		answer = rephraseApology
	} else if searchUsed {
		answer = reshape.Reshape(answer)
	}

	o.reconciler.Record(ctx, req.ThreadID, userMsg, llm.AssistantMessage(answer))
	return answer, nil
}

// executeToolCall runs one requested tool call and wraps the outcome
// as a tool message. Failures are relayed to the model, never retried.
func (o *Orchestrator) executeToolCall(ctx context.Context, tc llm.ToolCall) llm.ChatMessage {
	tool, exists := o.registry.Get(tc.Name)
	if !exists {
		return llm.ChatMessage{
			Role:       "tool",
			Content:    fmt.Sprintf("Error: tool '%s' not found", tc.Name),
			ToolCallID: tc.ID,
		}
	}

	result, err := o.executor.Execute(ctx, tool, tc.Arguments)
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

// toolDefinitions converts registered tools to LLM tool definitions,
// in sorted name order so prompts are deterministic.
func toolDefinitions(registry *tools.Registry) []llm.ToolDefinition {
	names := registry.Names()
	defs := make([]llm.ToolDefinition, 0, len(names))
	for _, name := range names {
		tool, ok := registry.Get(name)
		if !ok {
			continue
		}
		meta := tool.Metadata()

		params := make(map[string]interface{})
		required := []string{}
		for _, p := range meta.Parameters {
			params[p.Name] = map[string]interface{}{
				"type":        p.ParamType,
				"description": p.Description,
			}
			if p.Required {
				required = append(required, p.Name)
			}
		}

		defs = append(defs, llm.ToolDefinition{
			Name:        meta.Name,
			Description: meta.Description,
			Parameters: map[string]interface{}{
				"type":       "object",
				"properties": params,
				"required":   required,
			},
		})
	}
	return defs
}
