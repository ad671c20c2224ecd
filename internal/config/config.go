// Package config provides configuration loading and validation for the
// collector.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds the site contract and run behavior. All fields are
// optional in the JSON file; missing values use defaults. The core treats
// the selector maps as opaque — it does not validate them against the
// live site.
type Config struct {
	// Site
	BaseURL   string `json:"base_url" validate:"required,url"`
	UserAgent string `json:"user_agent,omitempty"`

	// Browser
	Headless     bool `json:"headless"`
	WindowWidth  int  `json:"window_width,omitempty"`
	WindowHeight int  `json:"window_height,omitempty"`

	// Timing (seconds)
	RequestIntervalSec   float64 `json:"request_interval_sec,omitempty" validate:"gte=0"`
	NavigationTimeoutSec float64 `json:"navigation_timeout_sec,omitempty" validate:"gte=0"`

	// Output
	OutputDir      string `json:"output_dir,omitempty"`
	FilenamePrefix string `json:"filename_prefix,omitempty"`

	// Behavior
	Verbose bool `json:"verbose,omitempty"`

	// Selectors are fixed per site release and not exposed in the JSON
	// file; they live in selectors.go.
	List       ListSelectors       `json:"-"`
	Detail     DetailSelectors     `json:"-"`
	Pagination PaginationSelectors `json:"-"`
}

// Default returns the configuration for the current site contract.
func Default() *Config {
	return &Config{
		BaseURL:              "https://www.hellowork.mhlw.go.jp/kensaku/GECA110010.do",
		UserAgent:            "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		Headless:             true,
		WindowWidth:          1920,
		WindowHeight:         1080,
		RequestIntervalSec:   2,
		NavigationTimeoutSec: 20,
		OutputDir:            "output",
		FilenamePrefix:       "hellowork_jobs_",
		List:                 DefaultListSelectors(),
		Detail:               DefaultDetailSelectors(),
		Pagination:           DefaultPaginationSelectors(),
	}
}

// Load reads a JSON config file and overlays it on the defaults.
// An empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration using the validator.
func (c *Config) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// RequestInterval returns the inter-request courtesy delay.
func (c *Config) RequestInterval() time.Duration {
	return time.Duration(c.RequestIntervalSec * float64(time.Second))
}

// NavigationTimeout returns the bound on navigation and element waits.
func (c *Config) NavigationTimeout() time.Duration {
	if c.NavigationTimeoutSec <= 0 {
		return 20 * time.Second
	}
	return time.Duration(c.NavigationTimeoutSec * float64(time.Second))
}
