package integration

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/killallgit/agentflow/pkg/agent"
	"github.com/killallgit/agentflow/pkg/flow"
	"github.com/killallgit/agentflow/pkg/headless"
	"github.com/killallgit/agentflow/pkg/render"
	"github.com/killallgit/agentflow/pkg/replay"
	"github.com/killallgit/agentflow/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipUnlessOllama(t *testing.T) {
	t.Helper()
	if !integrationEnabled() {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run.")
	}
	if !isOllamaAvailable() {
		t.Skip("Skipping test: Ollama is not available")
	}
	if !isAgentCompatibleModel() {
		t.Skipf("Skipping test: %s does not follow the agent format", ollamaModel())
	}
}

func TestExecutorAgentWithOllama(t *testing.T) {
	skipUnlessOllama(t)

	ag, err := agent.New(ollamaConfig())
	require.NoError(t, err)
	defer ag.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	t.Run("It records a calculator turn in order", func(t *testing.T) {
		live := render.NewCapture()
		sess := session.NewStore().Get("")
		runner := headless.NewRunner(ag, sess, live, headless.Options{})

		msg, err := runner.Run(ctx, "Use the calculator to compute 17*23.", nil)
		require.NoError(t, err)
		require.True(t, msg.HasFlow(), "assistant message should carry a flow")

		calls := msg.Flow.ToolCalls()
		results := msg.Flow.ToolResults()
		require.NotEmpty(t, calls)
		require.Len(t, results, len(calls))
		for i := range calls {
			assert.Equal(t, calls[i].ID, results[i].ToolUseID)
		}
		assert.Contains(t, flow.JoinContent(results[0].Content), "391")

		replayed := render.NewCapture()
		replay.Message(msg, replayed)
		liveKinds := live.Kinds()
		assert.Equal(t, liveKinds[len(liveKinds)-len(replayed.Kinds()):], replayed.Kinds())
	})

	t.Run("It answers without tools", func(t *testing.T) {
		sess := session.NewStore().Get("")
		runner := headless.NewRunner(ag, sess, render.NewCapture(), headless.Options{})

		msg, err := runner.Run(ctx, "Say hello and nothing else", nil)
		require.NoError(t, err)

		content := strings.ToLower(msg.Content)
		assert.True(t, strings.Contains(content, "hello") || strings.Contains(content, "hi"),
			"Response should contain greeting: %s", msg.Content)
	})
}
