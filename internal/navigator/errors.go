// Package navigator drives a stateful headless-browser session through
// the search form, result pagination, and detail-page navigation.
package navigator

import "fmt"

// NavigationError represents a browser navigation or interaction failure.
type NavigationError struct {
	Message string
	Cause   error
}

func (e *NavigationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("navigation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("navigation error: %s", e.Message)
}

func (e *NavigationError) Unwrap() error {
	return e.Cause
}

// SiteError represents the site's own transient error page. It does not
// self-resolve within a run's timeframe, so callers treat it as fatal.
type SiteError struct {
	Marker string
}

func (e *SiteError) Error() string {
	return fmt.Sprintf("site rendered its error page (marker %q)", e.Marker)
}
