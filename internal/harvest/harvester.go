package harvest

import (
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/takumi/hellowork-collector/internal/batch"
	"github.com/takumi/hellowork-collector/internal/config"
	"github.com/takumi/hellowork-collector/internal/extract"
)

// ParseError reports a page whose structure violated the markup
// contract. Structure failures tend to indicate a site-wide change, so
// the pagination loop halts on them instead of skipping ahead.
type ParseError struct {
	Page    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error on page %d: %s", e.Page, e.Message)
}

// Harvester extracts listing records from rendered result pages.
type Harvester struct {
	cfg *config.Config
}

// NewHarvester creates a Harvester for the configured site contract.
func NewHarvester(cfg *config.Config) *Harvester {
	return &Harvester{cfg: cfg}
}

// HarvestPage extracts every job record from one results page. Record
// boundaries are found by sibling traversal from each header block; a
// page may contain zero or many records.
func (h *Harvester) HarvestPage(doc *goquery.Document, pageURL string) []ListingRecord {
	sel := h.cfg.List

	var records []ListingRecord
	doc.Find(sel.ResultsContainer).Find(sel.RecordContainer).Find(sel.RecordHeader).Each(func(i int, head *goquery.Selection) {
		rec := h.harvestRecord(head, pageURL)
		if rec.Body == nil {
			log.Printf("[HARVEST] record %d (%q) has no body block, keeping partial record", i+1, rec.Title)
		}
		if !rec.HasIdentifier() {
			log.Printf("[HARVEST] record %d (%q) has no resolvable job identifier", i+1, rec.Title)
		}
		records = append(records, rec)
	})
	return records
}

// harvestRecord walks the sibling blocks following one header block:
// date, body, optional notes, optional positions, footer. The walk stops
// at the footer or at the next record's header.
func (h *Harvester) harvestRecord(head *goquery.Selection, pageURL string) ListingRecord {
	sel := h.cfg.List

	rec := ListingRecord{
		Title: extract.One(head, sel.HeaderTitle),
	}

	var dateBlock, bodyBlock, notesBlock, positionsBlock, footerBlock *goquery.Selection
walk:
	for cur := head.Next(); cur.Length() > 0; cur = cur.Next() {
		switch {
		case cur.Is(sel.RecordHeader):
			break walk
		case cur.Is(sel.RecordDate):
			dateBlock = cur
		case cur.Is(sel.RecordBody):
			bodyBlock = cur
		case cur.Is(sel.RecordNotes):
			notesBlock = cur
		case cur.Is(sel.RecordPositions):
			positionsBlock = cur
		case cur.Is(sel.RecordFooter):
			footerBlock = cur
			break walk
		}
	}

	if dateBlock != nil {
		rec.ReceiptDate = stripLabel(extract.One(dateBlock, sel.DateReceipt))
		rec.DeadlineDate = stripLabel(extract.One(dateBlock, sel.DateDeadline))
	}

	if bodyBlock != nil {
		rec.Body = extract.Extract(bodyBlock, sel.BodyFields)
		rec.JobNumber = rec.Body[ColJobNumber]
		rec.ID, _ = SplitIdentifier(rec.JobNumber)
	}

	if notesBlock != nil {
		rec.SpecialNotes = collectNotes(notesBlock, sel.NotesLabel)
	}

	if positionsBlock != nil {
		rec.Openings = stripOpenings(
			extract.One(positionsBlock, sel.PositionsValue),
			sel.PositionsPrefix, sel.PositionsSuffix,
		)
	}

	if footerBlock != nil {
		if href := extract.One(footerBlock, sel.FooterLink); href != "" {
			rec.DetailLink = absoluteURL(pageURL, href)
		}
	}

	return rec
}

// RecordsBatch converts harvested records to a persistable batch with
// the canonical listing column order.
func (h *Harvester) RecordsBatch(records []ListingRecord) *batch.Batch {
	bodyFields := h.cfg.List.BodyFields.Names()
	b := batch.New(ListingColumns(bodyFields)...)
	for i := range records {
		b.AddRow(records[i].Row(bodyFields))
	}
	return b
}

// collectNotes joins the label texts found within the notes block with
// commas; no notes block or no labels yields the empty string.
func collectNotes(block *goquery.Selection, labelSelector string) string {
	var labels []string
	block.Find(labelSelector).Each(func(_ int, s *goquery.Selection) {
		if t := extract.CleanText(s.Text()); t != "" {
			labels = append(labels, t)
		}
	})
	return strings.Join(labels, ",")
}

// stripOpenings removes the known label prefix and suffix around the
// numeric openings value. The prefix is width-folded first so it matches
// the already-normalized extracted text.
func stripOpenings(value, prefix, suffix string) string {
	value = strings.TrimPrefix(value, extract.CleanText(prefix))
	value = strings.TrimSuffix(value, extract.CleanText(suffix))
	return strings.TrimSpace(value)
}

// stripLabel drops a "label:" prefix from a date field, keeping the
// value as-is when no label is present.
func stripLabel(s string) string {
	if _, after, found := strings.Cut(s, ":"); found {
		return strings.TrimSpace(after)
	}
	return s
}

// absoluteURL resolves a possibly-relative link against the page URL.
func absoluteURL(pageURL, href string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
