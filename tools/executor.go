// Single-shot tool execution.
//
// Tool invocations are at-most-once per call site: failures are surfaced
// in the returned result and fed back to the model verbatim, never retried.

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Executor runs tools exactly once with a per-call timeout.
type Executor struct {
	timeout time.Duration
}

// NewExecutor creates an executor with the given per-call timeout in seconds.
// A zero timeout falls back to DefaultToolTimeout.
func NewExecutor(timeoutSecs uint64) *Executor {
	if timeoutSecs == 0 {
		timeoutSecs = DefaultToolTimeout
	}
	return &Executor{timeout: time.Duration(timeoutSecs) * time.Second}
}

// Execute validates and runs a tool once.
// Validation failures and execution failures are both returned as failed
// results so callers can relay them to the model.
func (e *Executor) Execute(ctx context.Context, tool Tool, args json.RawMessage) (ToolResult, error) {
	if err := tool.Validate(args); err != nil {
		return FailureResult(fmt.Errorf("validation failed: %w", err)), nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	return tool.Execute(ctx, args)
}
