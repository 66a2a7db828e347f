package headless

import (
	"context"
	"fmt"

	"github.com/killallgit/agentflow/pkg/agent"
	"github.com/killallgit/agentflow/pkg/render"
	"github.com/killallgit/agentflow/pkg/session"
)

// RunHeadless executes a single prompt in a fresh session
// This is the main entry point for one-shot CLI execution
func RunHeadless(ctx context.Context, ag agent.Agent, r render.Renderer, prompt string, opts Options) error {
	if prompt == "" {
		return fmt.Errorf("prompt cannot be empty in headless mode")
	}

	runner := NewRunner(ag, session.NewStore().Get(""), r, opts)
	if _, err := runner.Run(ctx, prompt, nil); err != nil {
		return err
	}
	return nil
}
