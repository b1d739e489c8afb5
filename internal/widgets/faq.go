// Package widgets builds the view models for presentational blocks shared by
// every page: FAQ accordion, breadcrumb trail, internal link lists and tables.
package widgets

import (
	"strconv"

	"bayshorebuild.com/site-web/internal/cms"
	"bayshorebuild.com/site-web/internal/seo"
)

// FAQEntry is one disclosure in the accordion.
type FAQEntry struct {
	Anchor   string
	Question string
	Answer   string
	Open     bool
}

// FAQ is the accordion view model. Items and Schema come from the same slice,
// so the visible questions and the FAQPage questions always agree.
type FAQ struct {
	ID        string
	Heading   string
	Exclusive bool
	Items     []FAQEntry
	Schema    map[string]any
}

// NewFAQ builds the accordion for items. In single mode the first entry starts
// open and the entries share a details name so only one stays open.
func NewFAQ(id string, items []cms.FAQ, mode string) FAQ {
	if id == "" {
		id = "faq"
	}
	f := FAQ{
		ID:        id,
		Heading:   "Frequently Asked Questions",
		Exclusive: mode != cms.FAQModeMultiple,
		Schema:    seo.FAQPage(items),
	}
	for i, it := range items {
		f.Items = append(f.Items, FAQEntry{
			Anchor:   "faq-" + strconv.Itoa(i+1),
			Question: it.Question,
			Answer:   it.Answer,
			Open:     f.Exclusive && i == 0,
		})
	}
	return f
}

// Empty reports whether there is nothing to render.
func (f FAQ) Empty() bool { return len(f.Items) == 0 }

// Questions returns the visible questions in order.
func (f FAQ) Questions() []string {
	out := make([]string, 0, len(f.Items))
	for _, it := range f.Items {
		out = append(out, it.Question)
	}
	return out
}
