package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sway/internal/console"
)

var resultsFlags struct {
	resultsDir string
	storeKind  string
	summary    bool
}

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Show recorded verdicts from the result store",
	RunE:  runResults,
}

func init() {
	f := resultsCmd.Flags()
	f.StringVar(&resultsFlags.resultsDir, "results-dir", "", "Results directory (overrides config)")
	f.StringVar(&resultsFlags.storeKind, "store", "", "Result sink backend: csv or sqlite (overrides config)")
	f.BoolVar(&resultsFlags.summary, "summary", false, "Show per-pair A/B tallies instead of every row")
}

func runResults(cmd *cobra.Command, _ []string) error {
	if resultsFlags.resultsDir != "" {
		cfg.ResultsDir = resultsFlags.resultsDir
	}
	if resultsFlags.storeKind != "" {
		cfg.Store = resultsFlags.storeKind
	}

	sink, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer sink.Close()

	records, err := sink.Load()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No results recorded yet. Run 'sway run' first.")
		return nil
	}
	if resultsFlags.summary {
		fmt.Fprintln(out, console.SummaryTable(records))
		return nil
	}
	fmt.Fprintln(out, console.ResultsTable(records))
	return nil
}
