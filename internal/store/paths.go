package store

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/takumi/hellowork-collector/internal/batch"
)

// Store builds artifact paths under one output directory and saves
// page/batch outputs with the collector's filename scheme.
type Store struct {
	Dir    string
	Prefix string
}

// New creates a Store rooted at dir with the configured filename prefix.
func New(dir, prefix string) *Store {
	return &Store{Dir: dir, Prefix: prefix}
}

// SaveListingPage persists one harvested page as CSV and JSON, named by
// page number, date, and region. Each page is saved immediately so a
// partial run still leaves usable output.
func (s *Store) SaveListingPage(b *batch.Batch, page int, region string) (csvPath, jsonPath string, err error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create output directory %s: %w", s.Dir, err)
	}

	base := fmt.Sprintf("%slist_page%03d_%s_%s",
		s.Prefix, page, time.Now().Format("20060102"), region)
	csvPath = filepath.Join(s.Dir, base+".csv")
	jsonPath = filepath.Join(s.Dir, base+".json")

	if err := WriteCSV(csvPath, b); err != nil {
		return "", "", err
	}
	if err := WriteJSON(jsonPath, b); err != nil {
		return "", "", err
	}
	return csvPath, jsonPath, nil
}

// DetailsPathFor derives the details artifact path from a list artifact
// path: "list_page" in the base name becomes "details"; names without it
// get a "_details" suffix.
func (s *Store) DetailsPathFor(listPath string) string {
	base := filepath.Base(listPath)
	if strings.Contains(base, "list_page") {
		base = strings.Replace(base, "list_page", "details", 1)
	} else {
		ext := filepath.Ext(base)
		base = strings.TrimSuffix(base, ext) + "_details" + ext
	}
	return filepath.Join(s.Dir, base)
}

// AppendDetails appends newly fetched detail rows to the details CSV
// artifact (creating it when absent) and rewrites the companion JSON
// artifact from the full post-append CSV contents.
func (s *Store) AppendDetails(listPath string, b *batch.Batch) (csvPath, jsonPath string, err error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create output directory %s: %w", s.Dir, err)
	}

	csvPath = s.DetailsPathFor(listPath)
	jsonPath = strings.TrimSuffix(csvPath, filepath.Ext(csvPath)) + ".json"

	created, err := AppendCSV(csvPath, b)
	if err != nil {
		return "", "", err
	}
	if created {
		log.Printf("[STORE] created details artifact %s", csvPath)
	} else {
		log.Printf("[STORE] appended %d rows to %s", b.Len(), csvPath)
	}

	full, err := ReadCSV(csvPath)
	if err != nil {
		return "", "", err
	}
	if err := WriteJSON(jsonPath, full); err != nil {
		return "", "", err
	}
	return csvPath, jsonPath, nil
}

// EnrichedPathsFor derives the enriched artifact paths from a list
// artifact path. Enriched outputs are always rewritten in full.
func (s *Store) EnrichedPathsFor(listPath string) (csvPath, jsonPath string) {
	base := filepath.Base(listPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	csvPath = filepath.Join(s.Dir, "enriched_"+name+".csv")
	jsonPath = filepath.Join(s.Dir, "enriched_"+name+".json")
	return csvPath, jsonPath
}

// SaveEnriched overwrites the enriched CSV and JSON artifacts.
func (s *Store) SaveEnriched(listPath string, b *batch.Batch) (csvPath, jsonPath string, err error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create output directory %s: %w", s.Dir, err)
	}

	csvPath, jsonPath = s.EnrichedPathsFor(listPath)
	if err := WriteCSV(csvPath, b); err != nil {
		return "", "", err
	}
	if err := WriteJSON(jsonPath, b); err != nil {
		return "", "", err
	}
	return csvPath, jsonPath, nil
}
