package harvest

import (
	"log"

	"github.com/takumi/hellowork-collector/internal/config"
	"github.com/takumi/hellowork-collector/internal/navigator"
	"github.com/takumi/hellowork-collector/internal/store"
)

// ContinueFunc decides between pages whether the run should go on.
// Passing nil to Run means "always continue".
type ContinueFunc func(pagesDone int) bool

// RunResult summarizes a pagination run. SavedFiles lists every artifact
// written, in order; MorePages reports whether a further page was
// believed to exist when the run stopped.
type RunResult struct {
	PagesSaved int
	Records    int
	SavedFiles []string
	MorePages  bool
}

// Runner orchestrates the session, the per-page harvester, and per-page
// persistence.
type Runner struct {
	cfg       *config.Config
	session   navigator.Session
	store     *store.Store
	harvester *Harvester
}

// NewRunner creates a Runner. The caller retains ownership of the
// session and must shut it down on every exit path.
func NewRunner(cfg *config.Config, session navigator.Session, st *store.Store) *Runner {
	return &Runner{
		cfg:       cfg,
		session:   session,
		store:     st,
		harvester: NewHarvester(cfg),
	}
}

// Run submits the search, advances to startPage, then repeats
// {harvest page, persist page, advance} until pagination is exhausted, a
// fatal navigator condition occurs, a page fails to parse, or the
// continuation callback declines. Every successfully harvested page is
// persisted before the next one is fetched.
func (r *Runner) Run(region, category string, startPage int, shouldContinue ContinueFunc) (*RunResult, error) {
	if shouldContinue == nil {
		shouldContinue = func(int) bool { return true }
	}
	res := &RunResult{}

	if err := r.session.SubmitSearch(region, category); err != nil {
		return res, err
	}

	page := 1
	for page < startPage {
		ok, err := r.session.AdvancePage()
		if err != nil {
			return res, err
		}
		if !ok {
			log.Printf("[HARVEST] start page %d is beyond the last page (%d)", startPage, page)
			return res, nil
		}
		page++
	}

	for {
		doc, err := r.session.CurrentDocument()
		if err != nil {
			return res, err
		}
		if doc.Find(r.cfg.List.ResultsContainer).Length() == 0 {
			// A page without the results container means the structural
			// assumptions no longer hold; halt rather than skip ahead.
			return res, &ParseError{Page: page, Message: "results container not found"}
		}

		records := r.harvester.HarvestPage(doc, r.session.CurrentURL())
		b := r.harvester.RecordsBatch(records)

		csvPath, jsonPath, err := r.store.SaveListingPage(b, page, region)
		if err != nil {
			return res, err
		}
		res.PagesSaved++
		res.Records += len(records)
		res.SavedFiles = append(res.SavedFiles, csvPath, jsonPath)
		log.Printf("[HARVEST] page %d: %d records saved to %s", page, len(records), csvPath)

		if !shouldContinue(res.PagesSaved) {
			res.MorePages = r.session.HasNextPage()
			log.Printf("[HARVEST] continuation declined after %d pages (more pages: %v)", res.PagesSaved, res.MorePages)
			return res, nil
		}

		ok, err := r.session.AdvancePage()
		if err != nil {
			return res, err
		}
		if !ok {
			res.MorePages = false
			return res, nil
		}
		page++
	}
}
