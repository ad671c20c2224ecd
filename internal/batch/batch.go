// Package batch provides the ordered-column row batch that record
// collections are held in between scraping and persistence.
package batch

import (
	"fmt"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
)

// Row is a single record keyed by column name. Absent columns read as
// empty strings through Get.
type Row map[string]string

// Get returns the value for a column, or "" when the row has no value.
func (r Row) Get(column string) string {
	return r[column]
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Batch is an ordered collection of rows with a deterministic column order.
// Columns are unioned in first-seen order as rows are added, which keeps
// CSV headers stable across runs.
type Batch struct {
	Columns []string
	Rows    []Row

	known map[string]bool
}

// New creates an empty batch with the given initial column order.
func New(columns ...string) *Batch {
	b := &Batch{known: make(map[string]bool, len(columns))}
	b.EnsureColumns(columns...)
	return b
}

// Len returns the number of rows.
func (b *Batch) Len() int {
	return len(b.Rows)
}

// HasColumn reports whether the batch carries the named column.
func (b *Batch) HasColumn(name string) bool {
	if b.known == nil {
		b.rebuildIndex()
	}
	return b.known[name]
}

// EnsureColumns registers columns in the given order, skipping ones
// already present.
func (b *Batch) EnsureColumns(names ...string) {
	if b.known == nil {
		b.rebuildIndex()
	}
	for _, name := range names {
		if !b.known[name] {
			b.known[name] = true
			b.Columns = append(b.Columns, name)
		}
	}
}

// AddRow appends a row. Columns registered through EnsureColumns keep
// their order; any keys the batch has never seen are appended sorted so
// the resulting column order stays deterministic.
func (b *Batch) AddRow(row Row) {
	if b.known == nil {
		b.rebuildIndex()
	}
	var unseen []string
	for k := range row {
		if !b.known[k] {
			unseen = append(unseen, k)
		}
	}
	if len(unseen) > 0 {
		sort.Strings(unseen)
		b.EnsureColumns(unseen...)
	}
	b.Rows = append(b.Rows, row)
}

// ColumnSet collects the non-empty values of one column into a set, used
// for already-processed identifier lookups across runs.
func (b *Batch) ColumnSet(column string) mapset.Set[string] {
	set := mapset.NewSet[string]()
	for _, row := range b.Rows {
		if v := row.Get(column); v != "" {
			set.Add(v)
		}
	}
	return set
}

// rebuildIndex restores the column index after a Batch was constructed
// with a literal instead of New (tests do this).
func (b *Batch) rebuildIndex() {
	b.known = make(map[string]bool, len(b.Columns))
	for _, c := range b.Columns {
		b.known[c] = true
	}
}

// MissingColumnsError reports required columns absent from a batch that
// was read back from a persisted artifact.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("batch is missing required columns: %v", e.Missing)
}

// RequireColumns verifies the batch carries every named column and
// returns a MissingColumnsError otherwise. Operations that read persisted
// artifacts call this before any fetching begins.
func (b *Batch) RequireColumns(names ...string) error {
	var missing []string
	for _, name := range names {
		if !b.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{Missing: missing}
	}
	return nil
}

// RequireAnyColumn verifies at least one of the named columns is present.
func (b *Batch) RequireAnyColumn(names ...string) error {
	for _, name := range names {
		if b.HasColumn(name) {
			return nil
		}
	}
	return &MissingColumnsError{Missing: names}
}
