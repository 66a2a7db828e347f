package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/killallgit/agentflow/pkg/chat"
	"github.com/killallgit/agentflow/pkg/config"
	"github.com/killallgit/agentflow/pkg/render"
	"github.com/killallgit/agentflow/pkg/tokens"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <history.json>",
	Short: "Summarise a saved chat history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := chat.LoadHistory(args[0])
		if err != nil {
			return err
		}
		return printStats(cmd.OutOrStdout(), summarise(h))
	},
}

type summary struct {
	chat.Stats
	Tokens    int  `json:"tokens"`
	Estimated bool `json:"tokens_estimated"`
}

func summarise(h *chat.History) summary {
	counter := tokens.NewCounter(config.Get().GetActiveProviderModel(), config.Get().Tokens.Encoding)
	return summary{
		Stats:     h.Stats(),
		Tokens:    counter.CountMessages(h.Messages()),
		Estimated: counter.Estimated(),
	}
}

func (s summary) tokenString() string {
	n := humanize.Comma(int64(s.Tokens))
	if s.Estimated {
		return "~" + n
	}
	return n
}

func printStats(w io.Writer, s summary) error {
	if config.Get().Render.Format == render.FormatJSONL {
		return json.NewEncoder(w).Encode(s)
	}
	fmt.Fprintf(w, "User messages: %d\n", s.UserMessages)
	fmt.Fprintf(w, "Assistant messages: %d\n", s.AssistantMessages)
	fmt.Fprintf(w, "Tool calls: %d\n", s.ToolCalls)
	fmt.Fprintf(w, "Tokens: %s\n", s.tokenString())
	return nil
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
