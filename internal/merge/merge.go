// Package merge joins listing batches with detail batches on the job
// identifier.
package merge

import (
	"log"

	"github.com/takumi/hellowork-collector/internal/batch"
	"github.com/takumi/hellowork-collector/internal/harvest"
)

// redundantDetailColumns are detail-side columns dropped before the join
// when the listing side already carries them.
var redundantDetailColumns = []string{"reception_date", "deadline_date"}

// Merge left-joins detail rows into listing rows on the job identifier.
// Every listing row survives; unmatched rows get empty values for the
// requested detail columns. On column conflicts the detail value wins.
// The join key column contributed by the detail side never appears in
// the output. A nil or empty columns slice requests every detail column.
//
// Duplicate identifiers in the detail batch resolve first-occurrence-
// wins, so the output row count always equals the listing row count.
func Merge(listing, detail *batch.Batch, columns []string) (*batch.Batch, error) {
	if err := checkContracts(listing, detail); err != nil {
		return nil, err
	}

	if len(columns) == 0 {
		columns = defaultColumns(listing, detail)
	} else {
		columns = withoutJoinKey(columns)
	}

	index := indexDetail(detail)

	out := batch.New(listing.Columns...)
	out.EnsureColumns(columns...)

	matched := 0
	for _, src := range listing.Rows {
		row := src.Clone()

		var detailRow batch.Row
		if id, ok := harvest.ResolveRowIdentifier(row); ok {
			detailRow = index[id]
		}
		if detailRow != nil {
			matched++
		}

		for _, col := range columns {
			if detailRow != nil {
				row[col] = detailRow.Get(col)
			} else if _, present := row[col]; !present {
				row[col] = ""
			}
		}
		out.AddRow(row)
	}

	log.Printf("[MERGE] joined %d/%d listing rows against %d detail rows (%d columns)",
		matched, listing.Len(), detail.Len(), len(columns))
	return out, nil
}

func checkContracts(listing, detail *batch.Batch) error {
	hasSplit := listing.HasColumn(harvest.ColSegmentHigh) && listing.HasColumn(harvest.ColSegmentLow)
	if !hasSplit && !listing.HasColumn(harvest.ColJobNumber) {
		return &batch.MissingColumnsError{
			Missing: []string{harvest.ColSegmentHigh, harvest.ColSegmentLow, harvest.ColJobNumber},
		}
	}
	return detail.RequireColumns(harvest.ColJobNumberRef)
}

// withoutJoinKey drops the detail-side join key from an explicit column
// request. The key is internal to the join and never reaches the output.
func withoutJoinKey(columns []string) []string {
	out := make([]string, 0, len(columns))
	for _, col := range columns {
		if col != harvest.ColJobNumberRef {
			out = append(out, col)
		}
	}
	return out
}

// indexDetail maps identifier to detail row, first occurrence wins.
func indexDetail(detail *batch.Batch) map[string]batch.Row {
	index := make(map[string]batch.Row, detail.Len())
	for _, row := range detail.Rows {
		id := row.Get(harvest.ColJobNumberRef)
		if id == "" {
			continue
		}
		if _, seen := index[id]; !seen {
			index[id] = row
		}
	}
	return index
}

// defaultColumns selects every detail column except the join key and
// columns redundant with ones the listing side already carries.
func defaultColumns(listing, detail *batch.Batch) []string {
	redundant := make(map[string]bool, len(redundantDetailColumns))
	for _, col := range redundantDetailColumns {
		if listing.HasColumn(col) {
			redundant[col] = true
		}
	}

	var columns []string
	for _, col := range detail.Columns {
		if col == harvest.ColJobNumberRef || redundant[col] {
			continue
		}
		columns = append(columns, col)
	}
	return columns
}
