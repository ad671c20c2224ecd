package extract

import (
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Extract resolves each field's locator against the fragment and returns
// the field values. A field whose locator matches nothing resolves to the
// empty string; one bad field never aborts extraction of the rest.
func Extract(fragment *goquery.Selection, fields FieldMap) map[string]string {
	values := make(map[string]string, len(fields))
	for _, field := range fields {
		values[field.Name] = extractOne(fragment, field)
	}
	return values
}

// One extracts a single locator's value from the fragment.
func One(fragment *goquery.Selection, loc Locator) string {
	return extractOne(fragment, Field{Name: loc.Expression, Locator: loc})
}

func extractOne(fragment *goquery.Selection, field Field) (value string) {
	// Malformed locators and unexpected node shapes surface as panics
	// from the selector engine; resolve them to empty per field.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[EXTRACT] field %q: recovered from %v", field.Name, r)
			value = ""
		}
	}()

	match := fragment.Find(field.Locator.Expression).First()
	if match.Length() == 0 {
		return ""
	}

	switch field.Locator.Kind {
	case KindAttribute:
		attr, _ := match.Attr(field.Locator.Attribute)
		return strings.TrimSpace(attr)
	default:
		return elementText(match)
	}
}

// elementText joins the element's non-empty stripped text nodes with
// single spaces, preserving document order. When the element carries no
// text nodes at all, fall back to its raw trimmed text.
func elementText(sel *goquery.Selection) string {
	var parts []string
	appendStrippedText(sel, &parts)
	if len(parts) == 0 {
		return CleanText(sel.Text())
	}
	return CleanText(strings.Join(parts, " "))
}

func appendStrippedText(sel *goquery.Selection, parts *[]string) {
	sel.Contents().Each(func(_ int, child *goquery.Selection) {
		if goquery.NodeName(child) == "#text" {
			if t := strings.TrimSpace(child.Text()); t != "" {
				*parts = append(*parts, t)
			}
			return
		}
		appendStrippedText(child, parts)
	})
}
