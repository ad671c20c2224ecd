package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/takumi/hellowork-collector/internal/batch"
)

// WriteJSON writes the batch as a pretty-printed JSON array of
// string-valued objects, overwriting any existing file. Every column is
// materialized on every object so the document shape is uniform.
func WriteJSON(path string, b *batch.Batch) error {
	objects := make([]map[string]string, 0, len(b.Rows))
	for _, row := range b.Rows {
		obj := make(map[string]string, len(b.Columns))
		for _, col := range b.Columns {
			obj[col] = row.Get(col)
		}
		objects = append(objects, obj)
	}

	// Japanese field values should stay readable in the artifact, so
	// keep non-ASCII characters unescaped.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(objects); err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadJSON reads a document-oriented artifact back into a batch. JSON
// objects carry no column order, so columns come back sorted.
func ReadJSON(path string) (*batch.Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var objects []map[string]string
	if err := json.Unmarshal(data, &objects); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return batchFromObjects(objects), nil
}

// ReadJSONLines reads a JSON Lines artifact (one object per line) back
// into a batch. Blank lines are skipped; columns come back sorted, as
// with ReadJSON.
func ReadJSONLines(path string) (*batch.Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var objects []map[string]string
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var obj map[string]string
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			return nil, fmt.Errorf("failed to parse %s line %d: %w", path, i+1, err)
		}
		objects = append(objects, obj)
	}
	return batchFromObjects(objects), nil
}

// batchFromObjects builds a batch over the sorted union of the objects'
// keys. JSON objects carry no column order of their own.
func batchFromObjects(objects []map[string]string) *batch.Batch {
	columns := make(map[string]bool)
	for _, obj := range objects {
		for k := range obj {
			columns[k] = true
		}
	}
	ordered := make([]string, 0, len(columns))
	for k := range columns {
		ordered = append(ordered, k)
	}
	sort.Strings(ordered)

	b := batch.New(ordered...)
	for _, obj := range objects {
		b.AddRow(batch.Row(obj))
	}
	return b
}
