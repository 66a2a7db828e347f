package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/killallgit/agentflow/pkg/agent"
	"github.com/killallgit/agentflow/pkg/headless"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <events.jsonl>",
	Short: "Record a captured callback stream as one turn",
	Long: `Feed a file of captured agent callback payloads, one JSON object per
line, through the recorder as a single turn and print it live.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		script, err := agent.NewScriptAgentFromFile(args[0])
		if err != nil {
			return err
		}
		defer script.Close()

		prompt, _ := cmd.Flags().GetString("prompt")
		if prompt == "" {
			prompt = fmt.Sprintf("Ingested %s", filepath.Base(args[0]))
		}
		savePath, _ := cmd.Flags().GetString("save")

		r, err := newRenderer(cmd.OutOrStdout())
		if err != nil {
			return err
		}

		sess, closeSession := openSession()
		defer closeSession()
		if savePath != "" {
			h, err := loadHistoryIfExists(savePath)
			if err != nil {
				return err
			}
			if err := sess.Restore(h); err != nil {
				return err
			}
		}

		runner := headless.NewRunner(script, sess, r, headless.Options{HistoryPath: savePath})
		_, err = runner.Run(cmd.Context(), prompt, nil)
		return err
	},
}

func init() {
	ingestCmd.Flags().StringP("prompt", "p", "", "user prompt recorded for the turn")
	ingestCmd.Flags().StringP("save", "s", "", "append the turn to this history file")
	rootCmd.AddCommand(ingestCmd)
}
