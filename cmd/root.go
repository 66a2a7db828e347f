package cmd

import (
	"fmt"
	"os"

	"github.com/killallgit/agentflow/pkg/config"
	"github.com/killallgit/agentflow/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "agentflow",
	Short: "Record and replay agent turns",
	Long: `agentflow records the ordered flow of an agent turn (text, tool calls
and tool results) as it streams, stores it with the chat history and
replays it exactly as it was shown live.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.Load(cfgFile); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := logger.Init(); err != nil {
			return err
		}
		logger.Debug("Config file: %s", config.GetConfigFileUsed())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if err := logger.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close log: %v\n", err)
		}
	},
}

// Execute adds all child commands to the root command and runs it
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is .agentflow/settings.yaml)")

	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level")
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().StringP("format", "f", "terminal", "output format (terminal|jsonl)")
	viper.BindPFlag("render.format", rootCmd.PersistentFlags().Lookup("format"))
}
