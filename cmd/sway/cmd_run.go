package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"sway/internal/batch"
	"sway/internal/config"
	"sway/internal/console"
	"sway/internal/discover"
	"sway/internal/judge"
	"sway/internal/persona"
	"sway/internal/report"
	"sway/internal/retry"
)

var runFlags struct {
	images      string
	resultsDir  string
	model       string
	storeKind   string
	baseURL     string
	apiKeyFile  string
	maxAttempts int
	pacing      time.Duration
	noReport    bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full persona-by-pair evaluation batch",
	Long: `Discovers image pairs under the image directory, then asks the model for a
verdict from every persona on every complete pair, strictly one call at a
time. Each verdict is appended durably to the result store before the next
call starts, so an interrupted run loses at most the task in flight.

Tasks that keep failing are skipped, never retried past their budget, and
never abort the batch. After the batch a summary table is printed and the
HTML report is regenerated.`,
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runFlags.images, "images", "", "Image pair directory (overrides config)")
	f.StringVar(&runFlags.resultsDir, "results-dir", "", "Results directory (overrides config)")
	f.StringVar(&runFlags.model, "model", "", "Model identifier (overrides config)")
	f.StringVar(&runFlags.storeKind, "store", "", "Result sink backend: csv or sqlite (overrides config)")
	f.StringVar(&runFlags.baseURL, "base-url", "", "Judgment service base URL (overrides config)")
	f.StringVar(&runFlags.apiKeyFile, "api-key-file", "", "API key file path (overrides config)")
	f.IntVar(&runFlags.maxAttempts, "max-attempts", 0, "Per-task retry budget (overrides config)")
	f.DurationVar(&runFlags.pacing, "pacing", -1, "Delay between tasks (overrides config)")
	f.BoolVar(&runFlags.noReport, "no-report", false, "Skip HTML report generation")
}

func runRun(cmd *cobra.Command, _ []string) error {
	if runFlags.images != "" {
		cfg.ImageDir = runFlags.images
	}
	if runFlags.resultsDir != "" {
		cfg.ResultsDir = runFlags.resultsDir
	}
	if runFlags.model != "" {
		cfg.Model = runFlags.model
	}
	if runFlags.storeKind != "" {
		cfg.Store = runFlags.storeKind
	}
	if runFlags.baseURL != "" {
		cfg.BaseURL = runFlags.baseURL
	}
	if runFlags.apiKeyFile != "" {
		cfg.APIKeyFile = runFlags.apiKeyFile
	}
	if runFlags.maxAttempts > 0 {
		cfg.MaxAttempts = runFlags.maxAttempts
	}
	if runFlags.pacing >= 0 {
		cfg.Pacing = config.Duration(runFlags.pacing)
	}

	if err := cfg.ResolveAPIKey(); err != nil {
		return err
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("no API key found: set SWAY_API_KEY or OPENAI_API_KEY, or write it to %s", cfg.APIKeyFile)
	}

	out := cmd.OutOrStdout()

	if _, err := os.Stat(cfg.ImageDir); err != nil {
		return fmt.Errorf("image directory %q not found: create it and add files named like pair1A.png / pair1B.png", cfg.ImageDir)
	}
	pairs, err := discover.Scan(cfg.ImageDir)
	if err != nil {
		return err
	}
	tasks := batch.Enumerate(pairs, persona.Roster())
	if len(tasks) == 0 {
		fmt.Fprintf(out, "No complete pairs under %s — nothing to do.\n", cfg.ImageDir)
		return nil
	}

	sink, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer sink.Close()

	policy := retry.DefaultPolicy()
	policy.MaxAttempts = cfg.MaxAttempts

	driver := batch.NewDriver(batch.Config{
		Invoker: judge.NewClient(judge.ClientConfig{
			BaseURL:     cfg.BaseURL,
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
		}),
		Store:  sink,
		Policy: policy,
		Pacing: cfg.Pacing.Std(),
		OnVerdict: func(t batch.Task, v *judge.Verdict) {
			fmt.Fprintln(out, console.VerdictLine(t.Persona.ID, v.Choice, v.Difficulty))
		},
	})

	roster := persona.Roster()
	fmt.Fprintf(out, "Running %d tasks (%d pairs x %d personas) with model %s\n",
		len(tasks), len(tasks)/len(roster), len(roster), cfg.Model)

	records, err := driver.Run(cmd.Context(), tasks)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, console.SummaryTable(records))
	if cfg.Store == "sqlite" {
		fmt.Fprintf(out, "Results: %s\n", cfg.DBPath())
	} else {
		fmt.Fprintf(out, "Results: %s\n", cfg.CSVPath())
	}

	if runFlags.noReport {
		return nil
	}
	if err := report.WriteFile(cfg.HTMLPath(), records, pairs); err != nil {
		return err
	}
	fmt.Fprintf(out, "Report:  %s\n", cfg.HTMLPath())
	return nil
}
