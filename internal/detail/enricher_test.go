package detail

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takumi/hellowork-collector/internal/batch"
	"github.com/takumi/hellowork-collector/internal/config"
	"github.com/takumi/hellowork-collector/internal/harvest"
	"github.com/takumi/hellowork-collector/internal/navigator"
)

// fakeSession serves canned detail documents keyed by the absolute URL
// the enricher asks for. URLs without a page fail the fetch.
type fakeSession struct {
	details map[string]string
	visits  []string
}

var _ navigator.Session = (*fakeSession)(nil)

func (f *fakeSession) SubmitSearch(region, category string) error { return nil }
func (f *fakeSession) AdvancePage() (bool, error)                 { return false, nil }
func (f *fakeSession) HasNextPage() bool                          { return false }
func (f *fakeSession) CurrentURL() string                         { return "" }
func (f *fakeSession) Shutdown()                                  {}

func (f *fakeSession) CurrentDocument() (*goquery.Document, error) {
	return nil, &navigator.NavigationError{Message: "no current page in this fake"}
}

func (f *fakeSession) NavigateDetail(url, waitSelector string) (*goquery.Document, error) {
	f.visits = append(f.visits, url)
	html, ok := f.details[url]
	if !ok {
		return nil, &navigator.NavigationError{Message: "detail page did not load"}
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func detailPage(jobNumber, officeName, capital string) string {
	return fmt.Sprintf(`<html><body>
		<div id="ID_kjNo">%s</div>
		<div id="ID_jgshMei">%s</div>
		<div id="ID_shkn">%s</div>
	</body></html>`, jobNumber, officeName, capital)
}

func detailURL(job string) string {
	return "https://www.hellowork.mhlw.go.jp/kensaku/GECA110010.do?action=dispDetailBtn&kJNo=" + job
}

func listingBatch(ids ...string) *batch.Batch {
	b := batch.New("title", harvest.ColSegmentHigh, harvest.ColSegmentLow, harvest.ColDetailLink)
	for _, id := range ids {
		high, low, _ := strings.Cut(id, "-")
		row := batch.Row{
			"title":                "posting " + id,
			harvest.ColSegmentHigh: high,
			harvest.ColSegmentLow:  low,
		}
		if id != "" {
			row[harvest.ColDetailLink] = "/kensaku/GECA110010.do?action=dispDetailBtn&kJNo=" + id
		}
		b.AddRow(row)
	}
	return b
}

func newTestEnricher(details map[string]string) (*Enricher, *fakeSession) {
	session := &fakeSession{details: details}
	cfg := config.Default()
	cfg.RequestIntervalSec = 0
	return NewEnricher(cfg, session), session
}

func TestCollectDetails_FetchesEveryListingRow(t *testing.T) {
	e, _ := newTestEnricher(map[string]string{
		detailURL("101-5"): detailPage("101-5", "A Co", "¥10,000,000"),
		detailURL("202-7"): detailPage("202-7", "B Co", "¥5,000,000"),
	})
	listing := listingBatch("101-5", "202-7")

	out, stats, err := e.CollectDetails(listing, nil, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Fetched)
	assert.Zero(t, stats.Skipped)
	require.Equal(t, 2, out.Len())

	assert.Equal(t, harvest.ColJobNumberRef, out.Columns[0])
	assert.Equal(t, "101-5", out.Rows[0].Get(harvest.ColJobNumberRef))
	assert.Equal(t, "A Co", out.Rows[0].Get("office_name"))
	assert.Equal(t, "¥10,000,000", out.Rows[0].Get("capital"))
	// Fields absent from the page come through as empty strings.
	assert.Equal(t, "", out.Rows[0].Get("wage_total"))
}

func TestCollectDetails_SkipSetMakesRerunIdempotent(t *testing.T) {
	e, session := newTestEnricher(map[string]string{
		detailURL("101-5"): detailPage("101-5", "A Co", "¥10,000,000"),
		detailURL("202-7"): detailPage("202-7", "B Co", "¥5,000,000"),
	})
	listing := listingBatch("101-5", "202-7")

	existing := mapset.NewSet("101-5", "202-7")
	out, stats, err := e.CollectDetails(listing, existing, 0)
	require.NoError(t, err)

	assert.Zero(t, stats.Fetched)
	assert.Equal(t, 2, stats.Skipped)
	assert.Zero(t, out.Len())
	assert.Empty(t, session.visits)
}

func TestCollectDetails_FetchFailureIsRowScoped(t *testing.T) {
	e, _ := newTestEnricher(map[string]string{
		detailURL("202-7"): detailPage("202-7", "B Co", "¥5,000,000"),
	})
	listing := listingBatch("101-5", "202-7")

	out, stats, err := e.CollectDetails(listing, nil, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.Fetched)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, "202-7", out.Rows[0].Get(harvest.ColJobNumberRef))
}

func TestCollectDetails_LimitCapsNewFetches(t *testing.T) {
	e, session := newTestEnricher(map[string]string{
		detailURL("101-5"): detailPage("101-5", "A Co", "¥10,000,000"),
		detailURL("202-7"): detailPage("202-7", "B Co", "¥5,000,000"),
		detailURL("303-9"): detailPage("303-9", "C Co", "¥1,000,000"),
	})
	listing := listingBatch("101-5", "202-7", "303-9")

	out, stats, err := e.CollectDetails(listing, nil, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Fetched)
	assert.Equal(t, 2, out.Len())
	assert.Len(t, session.visits, 2)
}

func TestCollectDetails_RowWithoutIdentifier(t *testing.T) {
	e, session := newTestEnricher(nil)
	listing := batch.New("title", harvest.ColSegmentHigh, harvest.ColSegmentLow, harvest.ColDetailLink)
	listing.AddRow(batch.Row{"title": "anonymous posting", harvest.ColDetailLink: "/x"})

	out, stats, err := e.CollectDetails(listing, nil, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.NoIdentifier)
	assert.Zero(t, out.Len())
	assert.Empty(t, session.visits)
}

func TestCollectDetails_RejectsBatchWithoutContractColumns(t *testing.T) {
	e, _ := newTestEnricher(nil)
	listing := batch.New("title")
	listing.AddRow(batch.Row{"title": "no identifiers here"})

	_, _, err := e.CollectDetails(listing, nil, 0)

	var missing *batch.MissingColumnsError
	require.ErrorAs(t, err, &missing)
}

func TestEnrich_MergesRequestedColumnsIntoEveryRow(t *testing.T) {
	e, _ := newTestEnricher(map[string]string{
		detailURL("101-5"): detailPage("101-5", "A Co", "¥10,000,000"),
	})
	listing := listingBatch("101-5")
	columns := []string{"office_name", "capital"}

	out, stats, err := e.Enrich(listing, columns, nil, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Fetched)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, "posting 101-5", out.Rows[0].Get("title"))
	assert.Equal(t, "A Co", out.Rows[0].Get("office_name"))
	assert.Equal(t, "¥10,000,000", out.Rows[0].Get("capital"))
	// Requested columns are appended after the listing's own columns.
	assert.Equal(t, []string{"office_name", "capital"}, out.Columns[len(out.Columns)-2:])
}

func TestEnrich_SkipsOnlyFullyEnrichedPriorRows(t *testing.T) {
	e, session := newTestEnricher(map[string]string{
		detailURL("101-5"): detailPage("101-5", "A Co", "¥10,000,000"),
		detailURL("202-7"): detailPage("202-7", "B Co", "¥5,000,000"),
	})
	listing := listingBatch("101-5", "202-7")
	columns := []string{"office_name", "capital"}

	prior := batch.New(harvest.ColSegmentHigh, harvest.ColSegmentLow, "office_name", "capital")
	// 101-5 is fully enriched; 202-7 is missing capital and must be
	// re-fetched in full.
	prior.AddRow(batch.Row{
		harvest.ColSegmentHigh: "101", harvest.ColSegmentLow: "5",
		"office_name": "A Co (prior)", "capital": "¥10,000,000",
	})
	prior.AddRow(batch.Row{
		harvest.ColSegmentHigh: "202", harvest.ColSegmentLow: "7",
		"office_name": "B Co (prior)", "capital": "",
	})

	out, stats, err := e.Enrich(listing, columns, prior, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 1, stats.Fetched)
	require.Equal(t, 2, out.Len())

	// The skipped row keeps the prior values; only 202-7 was visited.
	assert.Equal(t, "A Co (prior)", out.Rows[0].Get("office_name"))
	assert.Equal(t, "B Co", out.Rows[1].Get("office_name"))
	assert.Equal(t, "¥5,000,000", out.Rows[1].Get("capital"))
	assert.Equal(t, []string{detailURL("202-7")}, session.visits)
}

func TestEnrich_FetchFailureLeavesColumnsEmptyAndKeepsRow(t *testing.T) {
	e, _ := newTestEnricher(nil)
	listing := listingBatch("101-5")
	columns := []string{"office_name", "capital"}

	out, stats, err := e.Enrich(listing, columns, nil, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Failed)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, "posting 101-5", out.Rows[0].Get("title"))
	assert.Equal(t, "", out.Rows[0].Get("office_name"))
	assert.Equal(t, "", out.Rows[0].Get("capital"))
}

func TestEnrich_RowWithoutIdentifierCarriesThrough(t *testing.T) {
	e, _ := newTestEnricher(nil)
	listing := batch.New("title", harvest.ColSegmentHigh, harvest.ColSegmentLow, harvest.ColDetailLink)
	listing.AddRow(batch.Row{"title": "anonymous posting", harvest.ColDetailLink: "/x"})

	out, stats, err := e.Enrich(listing, []string{"capital"}, nil, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.NoIdentifier)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, "anonymous posting", out.Rows[0].Get("title"))
}

func TestEnrich_LimitCapsProcessedRows(t *testing.T) {
	e, _ := newTestEnricher(map[string]string{
		detailURL("101-5"): detailPage("101-5", "A Co", "¥10,000,000"),
		detailURL("202-7"): detailPage("202-7", "B Co", "¥5,000,000"),
	})
	listing := listingBatch("101-5", "202-7")

	out, stats, err := e.Enrich(listing, []string{"capital"}, nil, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Fetched)
	assert.Equal(t, 1, out.Len())
}
