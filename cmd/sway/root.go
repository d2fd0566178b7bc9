package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sway/internal/config"
	"sway/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	logLevel  string
	logFormat string
	config    string
}

// cfg is resolved once in the persistent pre-run and shared by subcommands.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "sway",
	Short: "Persona-based persuasion analysis of image pairs",
	Long: "Sway runs a roster of judgment personas over a directory of image pairs,\n" +
		"asking a multimodal model which image each persona finds more persuasive,\n" +
		"and records every verdict durably as it is produced.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := logging.Init(rootFlags.logLevel, rootFlags.logFormat, cmd.ErrOrStderr()); err != nil {
			return err
		}
		c, err := config.Load(rootFlags.config)
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "Log format (text, json)")
	pf.StringVar(&rootFlags.config, "config", "sway.yaml", "Config file path (missing file means defaults)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(pairsCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
