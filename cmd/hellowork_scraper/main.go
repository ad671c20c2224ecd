// Package main provides the entry point for the HelloWork listing
// collector CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/takumi/hellowork-collector/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "hellowork_scraper",
	Short: "HelloWork job listing collector",
	Long:  "Collects public job-posting listings from the HelloWork employment-search site, enriches them from detail pages, and persists CSV/JSON batches.",
}

var (
	rootConfigPath string
	rootOutputDir  string
	rootVerbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "Path to JSON config file (defaults apply when omitted)")
	rootCmd.PersistentFlags().StringVarP(&rootOutputDir, "out", "o", "", "Output directory (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Print detailed debug information")
}

// loadConfig loads the configuration and applies the persistent flag
// overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(rootConfigPath)
	if err != nil {
		return nil, err
	}
	if rootOutputDir != "" {
		cfg.OutputDir = rootOutputDir
	}
	if rootVerbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
