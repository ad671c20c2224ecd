package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/takumi/hellowork-collector/internal/batch"
	"github.com/takumi/hellowork-collector/internal/config"
	"github.com/takumi/hellowork-collector/internal/detail"
	"github.com/takumi/hellowork-collector/internal/navigator"
	"github.com/takumi/hellowork-collector/internal/observability"
	"github.com/takumi/hellowork-collector/internal/store"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich <list-file>",
	Short: "Merge selected detail columns into a saved listing batch",
	Long:  "Reads a saved listing CSV or JSON file, fetches the detail page for each row, merges the requested detail columns into the listing rows, and rewrites the enriched CSV/JSON artifacts in full. Rows already fully enriched in a prior run are not re-fetched.",
	Args:  cobra.ExactArgs(1),
	RunE:  runEnrich,
}

var (
	enrichColumns string
	enrichLimit   int
)

func init() {
	enrichCmd.Flags().StringVar(&enrichColumns, "columns", "", "Comma-separated detail columns to merge (default: employer profile set)")
	enrichCmd.Flags().IntVar(&enrichLimit, "limit", 0, "Maximum number of list rows to process (0 = no limit)")
	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(_ *cobra.Command, args []string) error {
	listPath := args[0]
	if _, err := os.Stat(listPath); err != nil {
		return fmt.Errorf("list file not found: %s", listPath)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	columns := parseColumns(enrichColumns)
	if len(columns) == 0 {
		columns = config.DefaultEnrichColumns
	}
	log.Printf("[DETAIL] enriching with columns: %s", strings.Join(columns, ", "))

	listing, err := readListingArtifact(listPath)
	if err != nil {
		return err
	}
	log.Printf("[DETAIL] read %d records from %s", listing.Len(), listPath)

	st := store.New(cfg.OutputDir, cfg.FilenamePrefix)

	// A previously written enriched artifact enables skipping rows that
	// already carry every requested column.
	var prior *batch.Batch
	priorCSV, _ := st.EnrichedPathsFor(listPath)
	if _, statErr := os.Stat(priorCSV); statErr == nil {
		prior, err = store.ReadCSV(priorCSV)
		if err != nil {
			log.Printf("[DETAIL] could not read existing enriched file %s, skipping disabled: %v", priorCSV, err)
			prior = nil
		} else {
			log.Printf("[DETAIL] loaded %d records from existing enriched file", prior.Len())
		}
	}

	session, err := navigator.New(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to start browser session: %w", err)
	}
	defer session.Shutdown()

	enricher := detail.NewEnricher(cfg, session)
	enriched, stats, err := enricher.Enrich(listing, columns, prior, enrichLimit)
	if err != nil {
		return fmt.Errorf("enrichment failed: %w", err)
	}

	csvPath, jsonPath, err := st.SaveEnriched(listPath, enriched)
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintDetailSummary("Enrichment Summary", stats, csvPath, jsonPath)
	return nil
}

func parseColumns(raw string) []string {
	var columns []string
	for _, col := range strings.Split(raw, ",") {
		if col = strings.TrimSpace(col); col != "" {
			columns = append(columns, col)
		}
	}
	return columns
}
