package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/killallgit/agentflow/pkg/config"
	"github.com/killallgit/agentflow/pkg/events"
	"github.com/killallgit/agentflow/pkg/logger"
	"github.com/tmc/langchaingo/agents"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/tools"
)

// ExecutorAgent is a LangChain executor-based agent implementation
// It wraps a one-shot ReAct agent with an executor and reports every step
// through a CallbackHandler.
type ExecutorAgent struct {
	executor *agents.Executor
	handler  *CallbackHandler
	tools    []tools.Tool

	// One turn at a time; the callback handler has a single target
	runMu sync.Mutex
}

// NewExecutorAgent creates a new executor-based agent with an injected LLM
func NewExecutorAgent(llm llms.Model, cfg config.AgentConfig) (*ExecutorAgent, error) {
	if llm == nil {
		return nil, fmt.Errorf("llm is required")
	}

	handler := NewCallbackHandler()
	agentTools := defaultTools(handler)

	maxIterations := cfg.MaxIterations
	if maxIterations <= 0 {
		maxIterations = 5
	}

	opts := []agents.Option{
		agents.WithCallbacksHandler(handler),
		agents.WithMaxIterations(maxIterations),
	}
	if prefix := strings.TrimSpace(cfg.SystemPrompt); prefix != "" {
		opts = append(opts, agents.WithPromptPrefix(prefix+promptToolsSection))
	}

	agent := agents.NewOneShotAgent(llm, agentTools, opts...)
	executor := agents.NewExecutor(
		agent,
		agents.WithMaxIterations(maxIterations),
		agents.WithCallbacksHandler(handler),
	)

	return &ExecutorAgent{
		executor: executor,
		handler:  handler,
		tools:    agentTools,
	}, nil
}

// promptToolsSection keeps the tool listing the one-shot prompt expects
// after a custom system prompt
const promptToolsSection = `

Answer the following questions as best you can. You have access to the following tools:

{{.tool_descriptions}}`

// Run executes one turn, streaming callback events to handler
func (e *ExecutorAgent) Run(ctx context.Context, prompt string, handler events.Handler) (string, error) {
	e.runMu.Lock()
	defer e.runMu.Unlock()

	e.handler.SetTarget(handler)
	defer e.handler.SetTarget(nil)

	log := logger.WithComponent("executor_agent")
	log.Debug("Running agent", "prompt_length", len(prompt), "tools", len(e.tools))

	input := map[string]any{
		"input": prompt,
	}

	result, err := e.executor.Call(ctx, input)
	if err != nil {
		return "", fmt.Errorf("agent execution failed: %w", err)
	}

	// Extract the response
	response, ok := result["output"].(string)
	if !ok {
		for _, v := range result {
			if str, ok := v.(string); ok {
				response = str
				break
			}
		}
		if response == "" {
			return "", fmt.Errorf("no valid response from agent")
		}
	}

	return response, nil
}

// Tools returns the names of the tools the agent can call
func (e *ExecutorAgent) Tools() []string {
	names := make([]string, len(e.tools))
	for i, t := range e.tools {
		names[i] = t.Name()
	}
	return names
}

// Close cleans up resources
func (e *ExecutorAgent) Close() error {
	return nil
}
