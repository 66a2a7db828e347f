package agent

import (
	"fmt"
	"net/http"

	"github.com/killallgit/agentflow/pkg/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// New builds the agent for the configured provider
func New(cfg *config.Config) (Agent, error) {
	switch provider := cfg.GetActiveProvider(); provider {
	case "script":
		if cfg.Agent.Script == "" {
			return nil, fmt.Errorf("provider script requires agent.script")
		}
		return NewScriptAgentFromFile(cfg.Agent.Script)
	case "ollama", "openai":
		llm, err := NewLLM(cfg)
		if err != nil {
			return nil, err
		}
		return NewExecutorAgent(llm, cfg.Agent)
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
}

// NewLLM creates the langchaingo model for the configured provider
func NewLLM(cfg *config.Config) (llms.Model, error) {
	switch cfg.GetActiveProvider() {
	case "openai":
		opts := []openai.Option{
			openai.WithModel(cfg.OpenAI.Model),
			openai.WithHTTPClient(&http.Client{Timeout: cfg.OpenAI.Timeout}),
		}
		if cfg.OpenAI.APIKey != "" {
			opts = append(opts, openai.WithToken(cfg.OpenAI.APIKey))
		}
		if cfg.OpenAI.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.OpenAI.BaseURL))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai client: %w", err)
		}
		return llm, nil
	default:
		llm, err := ollama.New(
			ollama.WithServerURL(cfg.Ollama.URL),
			ollama.WithModel(cfg.Ollama.Model),
			ollama.WithHTTPClient(&http.Client{Timeout: cfg.Ollama.Timeout}),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create ollama client: %w", err)
		}
		return llm, nil
	}
}
