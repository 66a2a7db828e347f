package agent

import (
	"context"

	"github.com/killallgit/agentflow/pkg/events"
)

// Agent defines the interface for interacting with agents
// This interface is used by both the interactive chat and headless modes
type Agent interface {
	// Run executes one turn for prompt, reporting every callback event to
	// handler in the order the framework emits it, and returns the agent's
	// final result.
	Run(ctx context.Context, prompt string, handler events.Handler) (string, error)

	// Close cleans up resources
	Close() error
}

// Ensure implementations satisfy Agent
var (
	_ Agent = (*ExecutorAgent)(nil)
	_ Agent = (*ScriptAgent)(nil)
)
