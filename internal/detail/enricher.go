// Package detail fetches job detail pages for saved listing batches and
// either emits detail records keyed by job number or merges selected
// detail fields back into the listing rows.
package detail

import (
	"log"
	"net/url"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/takumi/hellowork-collector/internal/batch"
	"github.com/takumi/hellowork-collector/internal/config"
	"github.com/takumi/hellowork-collector/internal/extract"
	"github.com/takumi/hellowork-collector/internal/harvest"
	"github.com/takumi/hellowork-collector/internal/navigator"
)

// Stats counts per-row outcomes of a detail run. NoIdentifier rows are
// counted separately from ordinary skips.
type Stats struct {
	Fetched      int
	Skipped      int
	NoIdentifier int
	Failed       int
}

// Enricher drives detail-page fetches over an existing browser session.
type Enricher struct {
	cfg     *config.Config
	session navigator.Session
}

// NewEnricher creates an Enricher. The caller owns the session.
func NewEnricher(cfg *config.Config, session navigator.Session) *Enricher {
	return &Enricher{cfg: cfg, session: session}
}

// CollectDetails fetches one detail record per listing row, skipping
// rows whose identifier is already in existing. Fetch failures are
// row-scoped: logged, counted, and the batch continues. limit caps the
// number of newly fetched rows; zero means no limit.
func (e *Enricher) CollectDetails(listing *batch.Batch, existing mapset.Set[string], limit int) (*batch.Batch, *Stats, error) {
	stats := &Stats{}
	if err := checkListingContract(listing); err != nil {
		return nil, stats, err
	}

	out := batch.New(e.detailColumns()...)
	total := listing.Len()
	for i, row := range listing.Rows {
		if limit > 0 && stats.Fetched >= limit {
			log.Printf("[DETAIL] reached fetch limit of %d, stopping", limit)
			break
		}

		id, ok := harvest.ResolveRowIdentifier(row)
		if !ok {
			log.Printf("[DETAIL] row %d/%d has no usable job identifier, skipping", i+1, total)
			stats.NoIdentifier++
			continue
		}
		if existing != nil && existing.Contains(id) {
			stats.Skipped++
			continue
		}
		href := row.Get(harvest.ColDetailLink)
		if href == "" {
			log.Printf("[DETAIL] job %s has no detail link, skipping", id)
			stats.Skipped++
			continue
		}

		log.Printf("[DETAIL] fetching job %s (%d/%d, fetched: %d, skipped: %d)",
			id, i+1, total, stats.Fetched, stats.Skipped)
		rec, err := e.fetchDetail(href, id)
		if err != nil {
			log.Printf("[DETAIL] fetch failed for job %s: %v", id, err)
			stats.Failed++
			continue
		}
		out.AddRow(rec)
		stats.Fetched++
	}
	return out, stats, nil
}

// Enrich merges the requested detail columns into every listing row. A
// row is only skipped when the prior enriched artifact already has a
// non-empty value for every requested column; partially-enriched rows
// are re-fetched in full. The returned batch carries every input row
// (including skipped and failed ones), so callers rewrite the enriched
// artifact from it rather than appending. limit caps the number of
// input rows processed.
func (e *Enricher) Enrich(listing *batch.Batch, columns []string, prior *batch.Batch, limit int) (*batch.Batch, *Stats, error) {
	stats := &Stats{}
	if err := checkListingContract(listing); err != nil {
		return nil, stats, err
	}

	existing := priorEnrichment(prior, columns)

	out := batch.New(listing.Columns...)
	out.EnsureColumns(columns...)

	total := listing.Len()
	for i, src := range listing.Rows {
		if limit > 0 && i >= limit {
			log.Printf("[DETAIL] reached processing limit of %d input rows, stopping", limit)
			break
		}
		row := src.Clone()

		id, ok := harvest.ResolveRowIdentifier(row)
		if !ok {
			log.Printf("[DETAIL] row %d/%d has no usable job identifier, carrying through unchanged", i+1, total)
			stats.NoIdentifier++
			out.AddRow(row)
			continue
		}
		href := row.Get(harvest.ColDetailLink)
		if href == "" {
			log.Printf("[DETAIL] job %s has no detail link, carrying through unchanged", id)
			stats.Skipped++
			out.AddRow(row)
			continue
		}

		if vals, found := existing[id]; found && allNonEmpty(vals, columns) {
			for _, col := range columns {
				row[col] = vals.Get(col)
			}
			stats.Skipped++
			out.AddRow(row)
			continue
		}

		log.Printf("[DETAIL] fetching job %s (%d/%d, fetched: %d, skipped: %d)",
			id, i+1, total, stats.Fetched, stats.Skipped)
		rec, err := e.fetchDetail(href, id)
		if err != nil {
			log.Printf("[DETAIL] fetch failed for job %s, requested columns left empty: %v", id, err)
			for _, col := range columns {
				if _, present := row[col]; !present {
					row[col] = ""
				}
			}
			stats.Failed++
		} else {
			for _, col := range columns {
				row[col] = rec.Get(col)
			}
			stats.Fetched++
		}
		out.AddRow(row)
	}
	return out, stats, nil
}

// fetchDetail navigates to one detail page, waits for the anchor field,
// and extracts the full detail field map tagged with the identifier.
func (e *Enricher) fetchDetail(href, id string) (batch.Row, error) {
	doc, err := e.session.NavigateDetail(e.absoluteLink(href), e.cfg.Detail.Anchor)
	if err != nil {
		return nil, err
	}
	values := extract.Extract(doc.Selection, e.cfg.Detail.Fields)

	row := make(batch.Row, len(values)+1)
	row[harvest.ColJobNumberRef] = id
	for k, v := range values {
		row[k] = v
	}
	return row, nil
}

func (e *Enricher) detailColumns() []string {
	return append([]string{harvest.ColJobNumberRef}, e.cfg.Detail.Fields.Names()...)
}

// absoluteLink resolves a detail href against the configured base URL.
func (e *Enricher) absoluteLink(href string) string {
	base, err := url.Parse(e.cfg.BaseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// checkListingContract verifies the listing batch carries an identifier
// representation and the detail link column before any fetching begins.
func checkListingContract(b *batch.Batch) error {
	hasSplit := b.HasColumn(harvest.ColSegmentHigh) && b.HasColumn(harvest.ColSegmentLow)
	if !hasSplit && !b.HasColumn(harvest.ColJobNumber) {
		return &batch.MissingColumnsError{
			Missing: []string{harvest.ColSegmentHigh, harvest.ColSegmentLow, harvest.ColJobNumber},
		}
	}
	return b.RequireColumns(harvest.ColDetailLink)
}

// priorEnrichment indexes a previously written enriched artifact by
// identifier, keeping only the requested columns.
func priorEnrichment(prior *batch.Batch, columns []string) map[string]batch.Row {
	index := make(map[string]batch.Row)
	if prior == nil {
		return index
	}
	for _, row := range prior.Rows {
		id, ok := harvest.ResolveRowIdentifier(row)
		if !ok {
			continue
		}
		if _, seen := index[id]; seen {
			continue
		}
		kept := make(batch.Row, len(columns))
		for _, col := range columns {
			kept[col] = row.Get(col)
		}
		index[id] = kept
	}
	return index
}

func allNonEmpty(row batch.Row, columns []string) bool {
	for _, col := range columns {
		if row.Get(col) == "" {
			return false
		}
	}
	return true
}
