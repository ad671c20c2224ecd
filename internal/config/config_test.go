package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 2*time.Second, cfg.RequestInterval())
	assert.Equal(t, 20*time.Second, cfg.NavigationTimeout())
	assert.NotEmpty(t, cfg.List.BodyFields)
	assert.NotEmpty(t, cfg.Detail.Fields)
	assert.NotEmpty(t, cfg.Pagination.NextButton)
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().BaseURL, cfg.BaseURL)
}

func TestLoad_OverlaysFileOnDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"output_dir": "custom_out", "request_interval_sec": 5}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "custom_out", cfg.OutputDir)
	assert.Equal(t, 5*time.Second, cfg.RequestInterval())
	// Untouched fields keep their defaults.
	assert.Equal(t, Default().BaseURL, cfg.BaseURL)
}

func TestLoad_RejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"base_url": "not a url"}`), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestValidateCategory(t *testing.T) {
	require.NoError(t, ValidateCategory("02"))

	err := ValidateCategory("99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "99")
}

func TestCategoryCodes_SortedAndLabeled(t *testing.T) {
	codes := CategoryCodes()
	require.NotEmpty(t, codes)
	assert.Equal(t, "01", codes[0])
	for _, code := range codes {
		assert.NotEmpty(t, CategoryLabel(code))
	}
}

func TestDefaultEnrichColumns_ExistInDetailFields(t *testing.T) {
	names := make(map[string]bool)
	for _, f := range DefaultDetailSelectors().Fields {
		names[f.Name] = true
	}
	for _, col := range DefaultEnrichColumns {
		assert.True(t, names[col], "enrich column %s has no detail field", col)
	}
}
