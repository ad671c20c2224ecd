package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/takumi/hellowork-collector/internal/merge"
	"github.com/takumi/hellowork-collector/internal/observability"
	"github.com/takumi/hellowork-collector/internal/store"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <list-csv> <detail-csv> <output-csv>",
	Short: "Join a listing batch with a detail batch on the job number",
	Long:  "Left-joins a saved detail CSV into a saved listing CSV on the job identifier and writes the merged CSV/JSON artifacts. Every listing row survives the join.",
	Args:  cobra.ExactArgs(3),
	RunE:  runMerge,
}

var mergeColumns string

func init() {
	mergeCmd.Flags().StringVar(&mergeColumns, "columns", "", "Comma-separated detail columns to keep (default: all)")
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(_ *cobra.Command, args []string) error {
	listPath, detailPath, outPath := args[0], args[1], args[2]
	for _, path := range []string{listPath, detailPath} {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("input file not found: %s", path)
		}
	}

	listing, err := store.ReadCSV(listPath)
	if err != nil {
		return err
	}
	details, err := store.ReadCSV(detailPath)
	if err != nil {
		return err
	}

	merged, err := merge.Merge(listing, details, parseColumns(mergeColumns))
	if err != nil {
		return fmt.Errorf("merge failed: %w", err)
	}

	if dir := filepath.Dir(outPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := store.WriteCSV(outPath, merged); err != nil {
		return err
	}
	jsonPath := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + ".json"
	if err := store.WriteJSON(jsonPath, merged); err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintMergeSummary(merged.Len(), len(merged.Columns), outPath)
	return nil
}
