// Package harvest turns rendered search-result pages into structured
// listing records and drives the pagination loop.
package harvest

import (
	"strings"

	"github.com/takumi/hellowork-collector/internal/batch"
)

// Column names shared across persisted artifacts. The split identifier
// columns carry the two segments of the composite job number; older
// artifacts may only carry the raw form.
const (
	ColJobNumber    = "job_number"
	ColSegmentHigh  = "kSNoJo"
	ColSegmentLow   = "kSNoGe"
	ColDetailLink   = "detail_link_href"
	ColJobNumberRef = "job_number_ref"
)

// JobIdentifier is the composite key naming one job posting, canonically
// rendered as "high-low". The zero value means the raw field could not
// be split.
type JobIdentifier struct {
	High string
	Low  string
}

// SplitIdentifier derives a JobIdentifier from the raw hyphen-joined
// field. Only a value containing exactly one hyphen with non-empty
// segments splits; anything else leaves the identifier unsplit and
// downstream comparisons degrade to string equality on the raw field.
func SplitIdentifier(raw string) (JobIdentifier, bool) {
	raw = strings.TrimSpace(raw)
	if strings.Count(raw, "-") != 1 {
		return JobIdentifier{}, false
	}
	high, low, _ := strings.Cut(raw, "-")
	if high == "" || low == "" {
		return JobIdentifier{}, false
	}
	return JobIdentifier{High: high, Low: low}, true
}

// Canonical renders the identifier's canonical string form.
func (id JobIdentifier) Canonical() string {
	return id.High + "-" + id.Low
}

// IsZero reports whether the identifier is unsplit.
func (id JobIdentifier) IsZero() bool {
	return id.High == "" && id.Low == ""
}

// ResolveRowIdentifier resolves a persisted row's identifier with a
// deterministic preference order: the split columns when both are
// non-empty, then the raw job-number column. The second return is false
// when the row has no usable identifier.
func ResolveRowIdentifier(row batch.Row) (string, bool) {
	high := strings.TrimSpace(row.Get(ColSegmentHigh))
	low := strings.TrimSpace(row.Get(ColSegmentLow))
	if high != "" && low != "" {
		return JobIdentifier{High: high, Low: low}.Canonical(), true
	}
	if raw := strings.TrimSpace(row.Get(ColJobNumber)); raw != "" {
		return raw, true
	}
	return "", false
}
