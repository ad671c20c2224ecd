// Package store serializes record batches to the row-oriented (CSV) and
// document-oriented (JSON) artifacts the collector persists between
// runs.
package store

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/takumi/hellowork-collector/internal/batch"
)

// utf8BOM prefixes CSV artifacts so spreadsheet applications detect the
// encoding correctly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes the batch to path, truncating any existing file. The
// file starts with a UTF-8 BOM followed by the header row.
func WriteCSV(path string, b *batch.Batch) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM to %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(b.Columns); err != nil {
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	if err := writeRows(w, b.Columns, b.Rows); err != nil {
		return fmt.Errorf("failed to write rows to %s: %w", path, err)
	}
	w.Flush()
	return w.Error()
}

// AppendCSV appends the batch's rows to an existing CSV artifact,
// creating it (with BOM and header) when absent. Appended rows follow
// the existing file's column order so prior rows stay aligned.
func AppendCSV(path string, b *batch.Batch) (created bool, err error) {
	existing, err := readHeader(path)
	if os.IsNotExist(err) {
		return true, WriteCSV(path, b)
	}
	if err != nil {
		return false, err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return false, fmt.Errorf("failed to open %s for append: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := writeRows(w, existing, b.Rows); err != nil {
		return false, fmt.Errorf("failed to append rows to %s: %w", path, err)
	}
	w.Flush()
	return false, w.Error()
}

// ReadCSV reads a persisted CSV artifact back into a batch. Every value
// is kept as a string; the identifier columns in particular must never
// be reinterpreted as numbers.
func ReadCSV(path string) (*batch.Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(strings.NewReader(string(data)))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return batch.New(), nil
	}

	header := rows[0]
	b := batch.New(header...)
	for _, record := range rows[1:] {
		row := make(batch.Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		b.AddRow(row)
	}
	return b, nil
}

func writeRows(w *csv.Writer, columns []string, rows []batch.Row) error {
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = row.Get(col)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// readHeader returns the column order of an existing CSV artifact.
func readHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, len(utf8BOM))
	n, _ := f.Read(buf)
	if n < len(utf8BOM) || !bytes.Equal(buf[:n], utf8BOM) {
		if _, err := f.Seek(0, 0); err != nil {
			return nil, err
		}
	}

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	return header, nil
}
