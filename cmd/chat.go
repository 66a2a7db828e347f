package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/killallgit/agentflow/pkg/agent"
	"github.com/killallgit/agentflow/pkg/config"
	"github.com/killallgit/agentflow/pkg/headless"
	"github.com/killallgit/agentflow/pkg/logger"
	"github.com/killallgit/agentflow/pkg/models"
	"github.com/killallgit/agentflow/pkg/ollama"
	"github.com/killallgit/agentflow/pkg/render"
	"github.com/killallgit/agentflow/pkg/replay"
	"github.com/killallgit/agentflow/pkg/tokens"
	"github.com/killallgit/agentflow/pkg/uploads"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the agent",
	Long: `Start an interactive chat over one session. Every turn is recorded and
shown live. Use --prompt to run a single turn and exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		prompt, _ := cmd.Flags().GetString("prompt")
		continueHistory, _ := cmd.Flags().GetBool("continue")

		ag, err := agent.New(cfg)
		if err != nil {
			return fmt.Errorf("failed to create agent: %w", err)
		}
		defer ag.Close()

		r, err := newRenderer(cmd.OutOrStdout())
		if err != nil {
			return err
		}

		if warning := models.Warning(cfg.GetActiveProvider(), cfg.GetActiveProviderModel()); warning != "" {
			render.Notice(r, warning)
		}
		if cfg.GetActiveProvider() == "ollama" {
			checkOllamaModel(cmd.Context(), cfg, r)
		}

		sess, closeSession := openSession()
		defer closeSession()
		path := historyPath()
		if continueHistory {
			h, err := loadHistoryIfExists(path)
			if err != nil {
				return err
			}
			if err := sess.Restore(h); err != nil {
				return err
			}
			logger.Info("Continuing session %s with %d messages", sess.ID, h.Len())
			replay.History(h.Messages(), r)
		}

		opts := headless.Options{}
		if cfg.History.Autosave {
			opts.HistoryPath = path
		}
		runner := headless.NewRunner(ag, sess, r, opts)

		if prompt != "" {
			_, err := runner.Run(cmd.Context(), prompt, nil)
			return err
		}

		loop := &repl{
			runner:    runner,
			renderer:  r,
			uploads:   uploads.NewDir(cfg.Uploads.Directory),
			listLimit: cfg.Uploads.ListLimit,
			out:       cmd.OutOrStdout(),
			counter:   tokens.NewCounter(cfg.GetActiveProviderModel(), cfg.Tokens.Encoding),
		}
		if isTerminal(cmd.InOrStdin()) {
			loop.prompt = "> "
		}

		logger.Info("Chat started (provider: %s, model: %s)", cfg.GetActiveProvider(), cfg.GetActiveProviderModel())
		return loop.run(cmd.Context(), cmd.InOrStdin())
	},
}

// checkOllamaModel warns when the configured model is not pulled. The
// chat still starts; the first turn will report the real error.
func checkOllamaModel(ctx context.Context, cfg *config.Config, r render.Renderer) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ok, err := ollama.NewClient(cfg.Ollama.URL).HasModel(ctx, cfg.Ollama.Model)
	switch {
	case err != nil:
		render.Notice(r, "Warning: "+err.Error())
	case !ok:
		render.Notice(r, fmt.Sprintf("Warning: model '%s' is not pulled on %s (try: ollama pull %s)",
			cfg.Ollama.Model, cfg.Ollama.URL, cfg.Ollama.Model))
	}
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func init() {
	chatCmd.Flags().StringP("prompt", "p", "", "run a single prompt and exit")
	chatCmd.Flags().Bool("continue", false, "continue from the saved chat history instead of starting fresh")
	rootCmd.AddCommand(chatCmd)
}
