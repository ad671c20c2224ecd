package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/takumi/hellowork-collector/internal/config"
	"github.com/takumi/hellowork-collector/internal/harvest"
	"github.com/takumi/hellowork-collector/internal/navigator"
	"github.com/takumi/hellowork-collector/internal/observability"
	"github.com/takumi/hellowork-collector/internal/store"
)

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Harvest job listings from the search results pages",
	Long:  "Submits the search form for a region and job category, paginates through the result set, and persists one CSV/JSON batch per page. With --details, detail pages are fetched for each saved page afterwards.",
	RunE:  runHarvest,
}

var (
	harvestRegion         string
	harvestCategory       string
	harvestStartPage      int
	harvestDetails        bool
	harvestPromptInterval int
	harvestDetailLimit    int
)

func init() {
	harvestCmd.Flags().StringVarP(&harvestRegion, "region", "r", "", "Prefecture code for the region facet (required, e.g. 26)")
	harvestCmd.Flags().StringVarP(&harvestCategory, "category", "c", "", "Job category code (required)")
	harvestCmd.Flags().IntVar(&harvestStartPage, "start-page", 1, "Results page to start harvesting from")
	harvestCmd.Flags().BoolVar(&harvestDetails, "details", false, "Fetch detail pages for each saved listing page")
	harvestCmd.Flags().IntVar(&harvestPromptInterval, "prompt-interval", 0, "Ask for confirmation every N pages (0 disables the prompt)")
	harvestCmd.Flags().IntVar(&harvestDetailLimit, "limit", 0, "Maximum detail pages to fetch per listing page with --details (0 = no limit)")

	if err := harvestCmd.MarkFlagRequired("region"); err != nil {
		panic(fmt.Sprintf("failed to mark region flag as required: %v", err))
	}
	if err := harvestCmd.MarkFlagRequired("category"); err != nil {
		panic(fmt.Sprintf("failed to mark category flag as required: %v", err))
	}

	rootCmd.AddCommand(harvestCmd)
}

func runHarvest(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The category set is fixed; an unknown code is a configuration
	// error caught before the browser starts.
	if err := config.ValidateCategory(harvestCategory); err != nil {
		return err
	}
	if harvestStartPage < 1 {
		return fmt.Errorf("start page must be at least 1, got %d", harvestStartPage)
	}

	session, err := navigator.New(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to start browser session: %w", err)
	}
	defer session.Shutdown()

	st := store.New(cfg.OutputDir, cfg.FilenamePrefix)
	runner := harvest.NewRunner(cfg, session, st)
	printer := observability.NewPrinter(os.Stdout)

	res, runErr := runner.Run(harvestRegion, harvestCategory, harvestStartPage, promptEvery(harvestPromptInterval))
	printer.PrintHarvestSummary(res)
	if runErr != nil {
		return fmt.Errorf("harvest run failed: %w", runErr)
	}

	if harvestDetails {
		for _, path := range res.SavedFiles {
			if !strings.HasSuffix(path, ".csv") {
				continue
			}
			stats, saved, err := collectDetailsForFile(cfg, session, st, path, harvestDetailLimit)
			if err != nil {
				return fmt.Errorf("detail collection failed for %s: %w", path, err)
			}
			printer.PrintDetailSummary("Detail Summary: "+path, stats, saved...)
		}
	}
	return nil
}

// promptEvery builds the between-pages continuation callback. A zero or
// negative interval disables interactivity (always continue).
func promptEvery(interval int) harvest.ContinueFunc {
	if interval <= 0 {
		return nil
	}
	reader := bufio.NewReader(os.Stdin)
	return func(pagesDone int) bool {
		if pagesDone%interval != 0 {
			return true
		}
		fmt.Fprintf(os.Stdout, "Saved %d pages. Continue? [Y/n]: ", pagesDone)
		line, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		line = strings.ToLower(strings.TrimSpace(line))
		return line == "" || line == "y" || line == "yes"
	}
}
