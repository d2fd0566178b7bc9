package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sway/internal/discover"
	"sway/internal/report"
)

var reportFlags struct {
	images     string
	resultsDir string
	storeKind  string
	output     string
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Regenerate the HTML report from stored results",
	Long: `Rebuilds the visual report from everything in the result store, without
calling the judgment service. Useful after interrupted runs or when results
from several runs have accumulated.`,
	RunE: runReport,
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportFlags.images, "images", "", "Image pair directory (overrides config)")
	f.StringVar(&reportFlags.resultsDir, "results-dir", "", "Results directory (overrides config)")
	f.StringVar(&reportFlags.storeKind, "store", "", "Result sink backend: csv or sqlite (overrides config)")
	f.StringVarP(&reportFlags.output, "output", "o", "", "Report output path (default <results-dir>/visual_report.html)")
}

func runReport(cmd *cobra.Command, _ []string) error {
	if reportFlags.images != "" {
		cfg.ImageDir = reportFlags.images
	}
	if reportFlags.resultsDir != "" {
		cfg.ResultsDir = reportFlags.resultsDir
	}
	if reportFlags.storeKind != "" {
		cfg.Store = reportFlags.storeKind
	}
	outPath := reportFlags.output
	if outPath == "" {
		outPath = cfg.HTMLPath()
	}

	pairs, err := discover.Scan(cfg.ImageDir)
	if err != nil {
		return err
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
	if err := report.WriteFile(outPath, records, pairs); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report: %s (%d verdicts, %d pairs)\n", outPath, len(records), len(pairs))
	return nil
}
