package extract

import (
	"strings"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// normalizer folds full-width digits and ASCII to their half-width forms
// and applies compatibility normalization. Job numbers on the site are
// rendered full-width; identifier parsing depends on this fold.
var normalizer = transform.Chain(width.Fold, norm.NFC)

// CleanText normalizes extracted text: width-folds, then collapses runs
// of whitespace (including newlines left by nested markup) to single
// spaces.
func CleanText(s string) string {
	folded, _, err := transform.String(normalizer, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(folded), " ")
}
