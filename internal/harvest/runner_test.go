package harvest

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takumi/hellowork-collector/internal/config"
	"github.com/takumi/hellowork-collector/internal/navigator"
	"github.com/takumi/hellowork-collector/internal/store"
)

// fakeSession replays a fixed sequence of canned pages. AdvancePage moves
// the cursor; past the last page it reports exhaustion.
type fakeSession struct {
	pages      []string
	idx        int
	submitErr  error
	advanceErr error

	submitted    bool
	advanceCalls int
	shutdowns    int
}

var _ navigator.Session = (*fakeSession)(nil)

func (f *fakeSession) SubmitSearch(region, category string) error {
	f.submitted = true
	return f.submitErr
}

func (f *fakeSession) AdvancePage() (bool, error) {
	f.advanceCalls++
	if f.advanceErr != nil {
		return false, f.advanceErr
	}
	if f.idx+1 >= len(f.pages) {
		return false, nil
	}
	f.idx++
	return true, nil
}

func (f *fakeSession) HasNextPage() bool {
	return f.idx+1 < len(f.pages)
}

func (f *fakeSession) CurrentDocument() (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(f.pages[f.idx]))
}

func (f *fakeSession) CurrentURL() string { return pageURL }

func (f *fakeSession) NavigateDetail(url, waitSelector string) (*goquery.Document, error) {
	return nil, &navigator.NavigationError{Message: "no detail pages in this fake"}
}

func (f *fakeSession) Shutdown() { f.shutdowns++ }

func newTestRunner(t *testing.T, session navigator.Session) (*Runner, *store.Store) {
	t.Helper()
	cfg := config.Default()
	cfg.RequestIntervalSec = 0
	st := store.New(t.TempDir(), cfg.FilenamePrefix)
	return NewRunner(cfg, session, st), st
}

func TestRunner_HarvestsUntilPaginationExhausted(t *testing.T) {
	session := &fakeSession{pages: []string{
		resultsPage(fullRecordHTML),
		resultsPage(fullRecordHTML, headlessRecordHTML),
	}}
	r, _ := newTestRunner(t, session)

	res, err := r.Run("26", "09", 1, nil)
	require.NoError(t, err)

	assert.True(t, session.submitted)
	assert.Equal(t, 2, res.PagesSaved)
	assert.Equal(t, 3, res.Records)
	assert.Len(t, res.SavedFiles, 4)
	assert.False(t, res.MorePages)

	// Every page is persisted as a CSV/JSON pair.
	assert.True(t, strings.HasSuffix(res.SavedFiles[0], ".csv"))
	assert.True(t, strings.HasSuffix(res.SavedFiles[1], ".json"))

	saved, err := store.ReadCSV(res.SavedFiles[0])
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Len())
}

func TestRunner_HaltsOnMissingResultsContainer(t *testing.T) {
	session := &fakeSession{pages: []string{
		resultsPage(fullRecordHTML),
		`<html><body><p>something else entirely</p></body></html>`,
	}}
	r, _ := newTestRunner(t, session)

	res, err := r.Run("26", "09", 1, nil)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 2, parseErr.Page)
	// The first page was persisted before the failure.
	assert.Equal(t, 1, res.PagesSaved)
	assert.Len(t, res.SavedFiles, 2)
}

func TestRunner_DeclinedContinuationReportsMorePages(t *testing.T) {
	session := &fakeSession{pages: []string{
		resultsPage(fullRecordHTML),
		resultsPage(fullRecordHTML),
		resultsPage(fullRecordHTML),
	}}
	r, _ := newTestRunner(t, session)

	res, err := r.Run("26", "09", 1, func(pagesDone int) bool {
		return pagesDone < 2
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.PagesSaved)
	assert.True(t, res.MorePages)
}

func TestRunner_StartPageSkipsEarlierPages(t *testing.T) {
	session := &fakeSession{pages: []string{
		resultsPage(fullRecordHTML),
		resultsPage(fullRecordHTML, fullRecordHTML),
	}}
	r, _ := newTestRunner(t, session)

	res, err := r.Run("26", "09", 2, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, res.PagesSaved)
	assert.Equal(t, 2, res.Records)
}

func TestRunner_StartPageBeyondLastPage(t *testing.T) {
	session := &fakeSession{pages: []string{resultsPage(fullRecordHTML)}}
	r, _ := newTestRunner(t, session)

	res, err := r.Run("26", "09", 5, nil)
	require.NoError(t, err)

	assert.Zero(t, res.PagesSaved)
	assert.Empty(t, res.SavedFiles)
}

func TestRunner_SubmitFailureStopsBeforeHarvest(t *testing.T) {
	session := &fakeSession{
		pages:     []string{resultsPage(fullRecordHTML)},
		submitErr: &navigator.SiteError{Marker: "エラーが発生しました"},
	}
	r, _ := newTestRunner(t, session)

	res, err := r.Run("26", "09", 1, nil)

	var siteErr *navigator.SiteError
	require.ErrorAs(t, err, &siteErr)
	assert.Zero(t, res.PagesSaved)
}
