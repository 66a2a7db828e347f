package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/killallgit/agentflow/pkg/config"
	"github.com/killallgit/agentflow/pkg/models"
	"github.com/killallgit/agentflow/pkg/ollama"
	"github.com/killallgit/agentflow/pkg/render"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available models",
	Long:  `List the models pulled on the configured Ollama server and how well each is expected to drive the agent's tool loop.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		tags, err := ollama.NewClient(cfg.Ollama.URL).Tags(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list models: %w", err)
		}
		return listModels(cmd.OutOrStdout(), tags.Models, cfg.Render.Format)
	},
}

type modelRow struct {
	Name       string `json:"name"`
	Size       string `json:"size"`
	Parameters string `json:"parameters,omitempty"`
	Support    string `json:"tool_support"`
}

func listModels(w io.Writer, list []ollama.Model, format string) error {
	rows := make([]modelRow, len(list))
	for i, m := range list {
		rows[i] = modelRow{
			Name:       m.Name,
			Size:       humanize.Bytes(uint64(m.Size)),
			Parameters: m.Details.ParameterSize,
			Support:    models.SupportFor(m.Name).String(),
		}
	}

	if format == render.FormatJSONL {
		enc := json.NewEncoder(w)
		for _, row := range rows {
			if err := enc.Encode(row); err != nil {
				return err
			}
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSIZE\tPARAMS\tTOOL SUPPORT")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", row.Name, row.Size, row.Parameters, row.Support)
	}
	return tw.Flush()
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
