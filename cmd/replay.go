package cmd

import (
	"github.com/killallgit/agentflow/pkg/chat"
	"github.com/killallgit/agentflow/pkg/logger"
	"github.com/killallgit/agentflow/pkg/replay"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay <history.json>",
	Short: "Replay a saved chat history",
	Long:  `Render every message of a saved history in order, tool calls and results in the position they happened.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := chat.LoadHistory(args[0])
		if err != nil {
			return err
		}

		r, err := newRenderer(cmd.OutOrStdout())
		if err != nil {
			return err
		}

		logger.Info("Replaying %d messages from %s", h.Len(), args[0])
		replay.History(h.Messages(), r)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
}
