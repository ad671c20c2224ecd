package harvest

import (
	"github.com/takumi/hellowork-collector/internal/batch"
)

// ListingRecord is one job posting as seen on a search-results page.
// Body holds the field-map values extracted from the body block; a record
// whose body block was missing has an empty Body but is still kept.
type ListingRecord struct {
	Title        string
	ReceiptDate  string
	DeadlineDate string

	// JobNumber is the raw hyphen-joined identifier field; ID is its
	// split form, zero when the raw field did not split.
	JobNumber string
	ID        JobIdentifier

	Body map[string]string

	SpecialNotes string
	Openings     string
	DetailLink   string
}

// ListingColumns returns the persisted column order for listing batches:
// header fields, the body field map in configuration order, the split
// identifier segments, then the derived fields.
func ListingColumns(bodyFields []string) []string {
	cols := []string{"title", "reception_date", "deadline_date"}
	cols = append(cols, bodyFields...)
	cols = append(cols,
		ColSegmentHigh, ColSegmentLow,
		"special_notes", "openings", ColDetailLink,
	)
	return cols
}

// Row converts the record into a persisted row.
func (r *ListingRecord) Row(bodyFields []string) batch.Row {
	row := batch.Row{
		"title":          r.Title,
		"reception_date": r.ReceiptDate,
		"deadline_date":  r.DeadlineDate,
		ColSegmentHigh:   r.ID.High,
		ColSegmentLow:    r.ID.Low,
		"special_notes":  r.SpecialNotes,
		"openings":       r.Openings,
		ColDetailLink:    r.DetailLink,
	}
	for _, name := range bodyFields {
		row[name] = r.Body[name]
	}
	return row
}

// HasIdentifier reports whether the record carries a resolvable
// identifier. Records without one are excluded from identifier-based
// skip and merge logic but are still persisted.
func (r *ListingRecord) HasIdentifier() bool {
	return !r.ID.IsZero() || r.JobNumber != ""
}
