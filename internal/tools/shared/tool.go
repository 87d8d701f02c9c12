package shared

import (
	"context"
	"fmt"

	"normatlas/pkg/logger"
)

// FailurePrefix marks a tool answer that reports a failure instead of an
// analysis result. The prefix is part of the tool output contract: the agent
// loop has no structured error channel, so failures travel inside the text.
const FailurePrefix = "Analiz yapılırken bir hata oluştu"

// Tool is a named, described, text-in/text-out callable unit exposed to the
// reasoning agent and the query router.
type Tool interface {
	// Name returns the unique tool identifier, used as the dispatch key.
	Name() string
	// Description returns the natural-language usage hint for the planner.
	Description() string
	// Invoke answers the free-text query. It never returns an error and never
	// panics; internal failures come back as a diagnostic string prefixed
	// with FailurePrefix.
	Invoke(ctx context.Context, query string) string
}

// HandlerFunc is the function signature for tool handlers. Handlers may
// return errors; the adapter converts them to diagnostic strings.
type HandlerFunc func(ctx context.Context, query string) (string, error)

// FunctionTool is a Tool implementation backed by a handler function.
type FunctionTool struct {
	name        string
	description string
	handler     HandlerFunc
	log         *logger.Logger
}

// New creates a new function-backed Tool.
func New(name, description string, handler HandlerFunc) Tool {
	return &FunctionTool{
		name:        name,
		description: description,
		handler:     handler,
		log:         logger.Get().With("tool", name),
	}
}

// Name returns the tool identifier.
func (t *FunctionTool) Name() string { return t.name }

// Description returns a human description of the tool.
func (t *FunctionTool) Description() string { return t.description }

// Invoke runs the handler, converting every failure mode into a
// human-readable diagnostic string.
func (t *FunctionTool) Invoke(ctx context.Context, query string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			t.log.Errorf("tool panicked: %v", r)
			result = fmt.Sprintf("%s: %v", FailurePrefix, r)
		}
	}()

	if t.handler == nil {
		return fmt.Sprintf("%s: tool handler is not defined", FailurePrefix)
	}

	answer, err := t.handler(ctx, query)
	if err != nil {
		t.log.Warnf("tool failed: %v", err)
		return fmt.Sprintf("%s: %v", FailurePrefix, err)
	}
	return answer
}
