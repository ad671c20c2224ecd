package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/spf13/cobra"

	"github.com/takumi/hellowork-collector/internal/batch"
	"github.com/takumi/hellowork-collector/internal/config"
	"github.com/takumi/hellowork-collector/internal/detail"
	"github.com/takumi/hellowork-collector/internal/harvest"
	"github.com/takumi/hellowork-collector/internal/navigator"
	"github.com/takumi/hellowork-collector/internal/observability"
	"github.com/takumi/hellowork-collector/internal/store"
)

var detailsCmd = &cobra.Command{
	Use:   "details <list-file>",
	Short: "Fetch detail pages for a saved listing batch",
	Long:  "Reads a saved listing CSV, fetches the detail page for each job not already present in the details artifact, and appends the new detail records. Rerunning against the same batch fetches nothing.",
	Args:  cobra.ExactArgs(1),
	RunE:  runDetails,
}

var detailsLimit int

func init() {
	detailsCmd.Flags().IntVar(&detailsLimit, "limit", 0, "Maximum number of new detail pages to fetch (0 = no limit)")
	rootCmd.AddCommand(detailsCmd)
}

func runDetails(_ *cobra.Command, args []string) error {
	listPath := args[0]
	if !strings.EqualFold(filepath.Ext(listPath), ".csv") {
		return fmt.Errorf("details mode requires a CSV input file, got %s", listPath)
	}
	if _, err := os.Stat(listPath); err != nil {
		return fmt.Errorf("list file not found: %s", listPath)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	session, err := navigator.New(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to start browser session: %w", err)
	}
	defer session.Shutdown()

	st := store.New(cfg.OutputDir, cfg.FilenamePrefix)
	stats, saved, err := collectDetailsForFile(cfg, session, st, listPath, detailsLimit)
	if err != nil {
		return fmt.Errorf("detail collection failed: %w", err)
	}

	observability.NewPrinter(os.Stdout).PrintDetailSummary("Detail Summary", stats, saved...)
	return nil
}

// collectDetailsForFile runs the details-only flow for one saved listing
// file: load the skip-set from the existing details artifact, fetch the
// rest, and append. Shared by the details command and harvest --details.
func collectDetailsForFile(cfg *config.Config, session navigator.Session, st *store.Store, listPath string, limit int) (*detail.Stats, []string, error) {
	listing, err := store.ReadCSV(listPath)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("[DETAIL] read %d entries from %s", listing.Len(), listPath)

	// Identifiers already in the details artifact are the durable
	// record of prior runs; load them to skip re-fetching.
	existing := mapset.NewSet[string]()
	detailsPath := st.DetailsPathFor(listPath)
	if _, statErr := os.Stat(detailsPath); statErr == nil {
		prior, readErr := store.ReadCSV(detailsPath)
		if readErr != nil {
			log.Printf("[DETAIL] could not read existing details file %s, no rows will be skipped: %v", detailsPath, readErr)
		} else {
			existing = prior.ColumnSet(harvest.ColJobNumberRef)
			log.Printf("[DETAIL] loaded %d existing job numbers from %s", existing.Cardinality(), detailsPath)
		}
	}

	enricher := detail.NewEnricher(cfg, session)
	details, stats, err := enricher.CollectDetails(listing, existing, limit)
	if err != nil {
		return stats, nil, err
	}

	if details.Len() == 0 {
		log.Printf("[DETAIL] no new detail data collected (fetched: %d, skipped: %d)", stats.Fetched, stats.Skipped)
		return stats, nil, nil
	}

	csvPath, jsonPath, err := st.AppendDetails(listPath, details)
	if err != nil {
		return stats, nil, err
	}
	return stats, []string{csvPath, jsonPath}, nil
}

// readListingArtifact loads a listing batch from a CSV, JSON, or JSON
// Lines artifact.
func readListingArtifact(path string) (*batch.Batch, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return store.ReadCSV(path)
	case ".json":
		return store.ReadJSON(path)
	case ".jsonl":
		return store.ReadJSONLines(path)
	default:
		return nil, fmt.Errorf("unsupported list file format %s (expected .csv, .json, or .jsonl)", filepath.Ext(path))
	}
}
