package headless

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/killallgit/agentflow/pkg/agent"
	"github.com/killallgit/agentflow/pkg/chat"
	"github.com/killallgit/agentflow/pkg/flow"
	"github.com/killallgit/agentflow/pkg/logger"
	"github.com/killallgit/agentflow/pkg/render"
	"github.com/killallgit/agentflow/pkg/replay"
	"github.com/killallgit/agentflow/pkg/session"
)

// Runner runs turns for one session, drawing them live as they are
// recorded
type Runner struct {
	agent       agent.Agent
	session     *session.Session
	renderer    render.Renderer
	historyPath string
}

// Options configures a Runner
type Options struct {
	// HistoryPath, when set, receives a snapshot of the history after
	// every turn
	HistoryPath string
}

// NewRunner creates a runner with injected agent, session and renderer
func NewRunner(ag agent.Agent, sess *session.Session, r render.Renderer, opts Options) *Runner {
	return &Runner{
		agent:       ag,
		session:     sess,
		renderer:    r,
		historyPath: opts.HistoryPath,
	}
}

// Session returns the runner's session
func (r *Runner) Session() *session.Session {
	return r.session
}

// Run executes one turn for prompt. The assistant message is returned once
// it has been appended to the history. An agent error aborts the turn and
// is shown to the user; it is not retried.
func (r *Runner) Run(ctx context.Context, prompt string, uploaded []string) (chat.Message, error) {
	fullPrompt, err := r.session.BeginTurn(prompt, uploaded)
	if err != nil {
		return chat.Message{}, err
	}

	logger.Debug("User prompt: %s (uploads: %d)", prompt, len(uploaded))

	r.renderer.BeginMessage(chat.RoleUser, render.ModeLive)
	r.renderer.Text(strings.TrimSpace(prompt))
	if len(uploaded) > 0 {
		names := make([]string, len(uploaded))
		for i, p := range uploaded {
			names[i] = filepath.Base(p)
		}
		render.Notice(r.renderer, "📎 Files: "+strings.Join(names, ", "))
	}
	r.renderer.EndMessage()

	r.renderer.BeginMessage(chat.RoleAssistant, render.ModeLive)
	defer r.renderer.EndMessage()

	r.session.Observe(
		func(e flow.Entry) { replay.Dispatch(e, r.renderer) },
		func(delta string) { render.Progress(r.renderer, delta) },
	)
	defer r.session.Observe(nil, nil)

	result, runErr := r.agent.Run(ctx, fullPrompt, r.session.Recorder())
	if runErr != nil {
		if err := r.session.AbortTurn(runErr); err != nil {
			logger.Warn("Failed to abort turn: %v", err)
		}
		render.Error(r.renderer, runErr)
		r.save()
		return chat.Message{}, fmt.Errorf("failed to execute prompt: %w", runErr)
	}

	msg, err := r.session.CompleteTurn(result)
	if err != nil {
		return chat.Message{}, err
	}

	// With no recorded entries, replay draws the content, so live does too
	if !msg.HasFlow() && msg.Content != "" {
		r.renderer.Text(msg.Content)
	}

	logger.Debug("Response complete (entries: %d, tool calls: %d)", len(msg.Flow), msg.ToolCallCount())
	r.save()
	return msg, nil
}

func (r *Runner) save() {
	if r.historyPath == "" {
		return
	}
	if err := r.session.History().Save(r.historyPath); err != nil {
		logger.Warn("Failed to save history to %s: %v", r.historyPath, err)
	}
}
