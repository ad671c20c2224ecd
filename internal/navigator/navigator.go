package navigator

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"github.com/takumi/hellowork-collector/internal/config"
)

// Session is the narrow capability surface the harvester and enricher
// drive. Tests replace it with a fake that replays canned documents.
type Session interface {
	// SubmitSearch loads the search entry point, selects the region and
	// category facets, submits, and waits for the results container.
	SubmitSearch(region, category string) error
	// AdvancePage clicks the next-page control. (false, nil) means no
	// more pages — the normal termination condition. A non-nil error
	// means navigation state is corrupted and the run must stop.
	AdvancePage() (bool, error)
	// HasNextPage probes the next-page control without clicking.
	HasNextPage() bool
	// CurrentDocument returns the rendered current page, parsed.
	CurrentDocument() (*goquery.Document, error)
	// CurrentURL returns the current page's URL.
	CurrentURL() string
	// NavigateDetail loads a detail page and waits for the anchor
	// selector. Failures here are row-scoped, not fatal.
	NavigateDetail(url, waitSelector string) (*goquery.Document, error)
	// Shutdown releases the browser session. Idempotent.
	Shutdown()
}

const (
	nextAbsent   = "absent"
	nextDisabled = "disabled"
	nextPresent  = "present"
)

// Navigator is the chromedp-backed Session. It owns the browser process
// exclusively; every exit path must call Shutdown to avoid leaking it.
type Navigator struct {
	cfg    *config.Config
	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

var _ Session = (*Navigator)(nil)

// New opens a headless browser session. A failure to start the browser
// is fatal to the run.
func New(parent context.Context, cfg *config.Config) (*Navigator, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(cfg.UserAgent),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	cancel := func() {
		cancelBrowser()
		cancelAlloc()
	}

	nav := &Navigator{cfg: cfg, ctx: browserCtx, cancel: cancel}

	// Start the browser now so a missing Chrome binary fails the run up
	// front instead of on the first navigation.
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		nav.closed = true
		return nil, &NavigationError{Message: "failed to start browser session", Cause: err}
	}

	if cfg.Verbose {
		log.Printf("[NAVIGATOR] browser session started (headless=%v)", cfg.Headless)
	}
	return nav, nil
}

// SubmitSearch implements Session.
func (n *Navigator) SubmitSearch(region, category string) error {
	sel := n.cfg.List

	tctx, cancel := n.timeoutCtx()
	defer cancel()

	err := chromedp.Run(tctx,
		chromedp.Navigate(n.cfg.BaseURL),
		chromedp.WaitVisible(sel.RegionSelect, chromedp.ByQuery),
		chromedp.SetValue(sel.RegionSelect, region, chromedp.ByQuery),
		chromedp.SetValue(sel.CategorySelect, category, chromedp.ByQuery),
		chromedp.Click(sel.SubmitButton, chromedp.ByQuery),
		chromedp.WaitVisible(sel.ResultsContainer, chromedp.ByQuery),
	)
	if err != nil {
		return &NavigationError{Message: "search submission failed", Cause: err}
	}
	if err := n.checkSiteError(); err != nil {
		return err
	}

	if n.cfg.Verbose {
		log.Printf("[NAVIGATOR] search submitted (region=%s category=%s)", region, category)
	}
	n.pause()
	return nil
}

// AdvancePage implements Session.
func (n *Navigator) AdvancePage() (bool, error) {
	state, err := n.probeNext()
	if err != nil {
		return false, &NavigationError{Message: "failed to probe next-page control", Cause: err}
	}
	if state != nextPresent {
		if n.cfg.Verbose {
			log.Printf("[NAVIGATOR] next-page control %s, pagination exhausted", state)
		}
		return false, nil
	}

	next := n.cfg.Pagination.NextButton

	tctx, cancel := n.timeoutCtx()
	if err := chromedp.Run(tctx, chromedp.Click(next, chromedp.ByQuery, chromedp.NodeVisible)); err != nil {
		// Overlays can intercept the direct click; fall back to a
		// programmatic one.
		log.Printf("[NAVIGATOR] direct click failed (%v), trying programmatic click", err)
		script := fmt.Sprintf(`document.querySelector(%q).click()`, next)
		if fbErr := chromedp.Run(tctx, chromedp.Evaluate(script, nil)); fbErr != nil {
			cancel()
			return false, &NavigationError{Message: "page advance click failed on both paths", Cause: fbErr}
		}
	}
	cancel()

	tctx, cancel = n.timeoutCtx()
	defer cancel()
	if err := chromedp.Run(tctx, chromedp.WaitVisible(n.cfg.Pagination.PageMarker, chromedp.ByQuery)); err != nil {
		return false, &NavigationError{Message: "timed out waiting for post-navigation marker", Cause: err}
	}
	if err := n.checkSiteError(); err != nil {
		return false, err
	}

	n.pause()
	return true, nil
}

// HasNextPage implements Session.
func (n *Navigator) HasNextPage() bool {
	state, err := n.probeNext()
	return err == nil && state == nextPresent
}

func (n *Navigator) probeNext() (string, error) {
	script := fmt.Sprintf(
		`(() => {
			const el = document.querySelector(%q);
			if (!el) return %q;
			if (el.disabled || el.classList.contains("disabled")) return %q;
			return %q;
		})()`,
		n.cfg.Pagination.NextButton, nextAbsent, nextDisabled, nextPresent)

	tctx, cancel := n.timeoutCtx()
	defer cancel()

	var state string
	if err := chromedp.Run(tctx, chromedp.Evaluate(script, &state)); err != nil {
		return "", err
	}
	return state, nil
}

// CurrentDocument implements Session.
func (n *Navigator) CurrentDocument() (*goquery.Document, error) {
	tctx, cancel := n.timeoutCtx()
	defer cancel()

	var html string
	if err := chromedp.Run(tctx, chromedp.OuterHTML("html", &html)); err != nil {
		return nil, &NavigationError{Message: "failed to read rendered page", Cause: err}
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &NavigationError{Message: "failed to parse rendered page", Cause: err}
	}
	return doc, nil
}

// CurrentURL implements Session.
func (n *Navigator) CurrentURL() string {
	tctx, cancel := n.timeoutCtx()
	defer cancel()

	var loc string
	if err := chromedp.Run(tctx, chromedp.Location(&loc)); err != nil {
		return n.cfg.BaseURL
	}
	return loc
}

// NavigateDetail implements Session.
func (n *Navigator) NavigateDetail(url, waitSelector string) (*goquery.Document, error) {
	tctx, cancel := n.timeoutCtx()
	defer cancel()

	err := chromedp.Run(tctx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(waitSelector, chromedp.ByQuery),
	)
	if err != nil {
		return nil, &NavigationError{Message: fmt.Sprintf("detail page %s did not load", url), Cause: err}
	}

	n.pause()
	return n.CurrentDocument()
}

// Shutdown implements Session. Safe to call multiple times; teardown
// errors are logged, not returned.
func (n *Navigator) Shutdown() {
	if n.closed {
		return
	}
	n.closed = true

	if err := chromedp.Cancel(n.ctx); err != nil {
		log.Printf("[NAVIGATOR] browser teardown reported: %v", err)
	}
	n.cancel()
	if n.cfg.Verbose {
		log.Printf("[NAVIGATOR] browser session closed")
	}
}

// checkSiteError inspects the rendered page for the transient-error
// marker text.
func (n *Navigator) checkSiteError() error {
	marker := n.cfg.Pagination.ErrorMarkerText
	if marker == "" {
		return nil
	}
	doc, err := n.CurrentDocument()
	if err != nil {
		return err
	}
	if strings.Contains(doc.Find("body").Text(), marker) {
		return &SiteError{Marker: marker}
	}
	return nil
}

// pause enforces the fixed courtesy delay after every page load.
func (n *Navigator) pause() {
	if d := n.cfg.RequestInterval(); d > 0 {
		time.Sleep(d)
	}
}

func (n *Navigator) timeoutCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(n.ctx, n.cfg.NavigationTimeout())
}
