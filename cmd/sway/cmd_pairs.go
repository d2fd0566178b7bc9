package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sway/internal/console"
	"sway/internal/discover"
)

var pairsFlags struct {
	images string
}

var pairsCmd = &cobra.Command{
	Use:   "pairs",
	Short: "List discovered image pairs and their eligibility",
	RunE:  runPairs,
}

func init() {
	pairsCmd.Flags().StringVar(&pairsFlags.images, "images", "", "Image pair directory (overrides config)")
}

func runPairs(cmd *cobra.Command, _ []string) error {
	if pairsFlags.images != "" {
		cfg.ImageDir = pairsFlags.images
	}

	pairs, err := discover.Scan(cfg.ImageDir)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(pairs) == 0 {
		fmt.Fprintf(out, "No pair files under %s (expected names like pair1A.png / pair1B.png).\n", cfg.ImageDir)
		return nil
	}
	fmt.Fprintln(out, console.PairsTable(pairs))
	return nil
}
