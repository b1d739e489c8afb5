package cms

import (
	"fmt"
	"strings"
)

// ValidationError lists every fixture problem found during Load.
type ValidationError struct {
	problems []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("cms: invalid content: %s", strings.Join(e.problems, "; "))
}

// Problems returns a copy of the problem list.
func (e *ValidationError) Problems() []string {
	out := make([]string, len(e.problems))
	copy(out, e.problems)
	return out
}

// HasProblems reports whether anything was recorded.
func (e *ValidationError) HasProblems() bool {
	return e != nil && len(e.problems) > 0
}

func (e *ValidationError) add(source, format string, args ...any) {
	e.problems = append(e.problems, source+": "+fmt.Sprintf(format, args...))
}

func validatePage(p *Page, verr *ValidationError) {
	src := p.Source
	if !strings.HasPrefix(p.Route, "/") || !strings.HasSuffix(p.Route, "/") {
		verr.add(src, "route %q must start and end with /", p.Route)
	}
	if p.Meta.Title == "" {
		verr.add(src, "meta title is required")
	}
	if p.Meta.Description == "" {
		verr.add(src, "meta description is required")
	}
	if p.Heading == "" {
		verr.add(src, "heading is required")
	}
	switch p.Kind {
	case KindHome, KindHub, KindService, KindLocation, KindArticle, KindFAQ:
	default:
		verr.add(src, "unknown kind %q", p.Kind)
	}
	if (p.Kind == KindService || p.Kind == KindLocation) && (p.Service == nil || strings.TrimSpace(p.Service.Name) == "") {
		verr.add(src, "%s pages need a service name", p.Kind)
	}
	if p.Kind == KindLocation && p.City == "" {
		verr.add(src, "location pages need a city")
	}
	if n := len(p.Breadcrumbs); n > 0 {
		for i, b := range p.Breadcrumbs {
			if b.Name == "" || b.Href == "" {
				verr.add(src, "breadcrumb %d needs a name and href", i+1)
			}
		}
		if last := NormalizeRoute(p.Breadcrumbs[n-1].Href); last != p.Route {
			verr.add(src, "last breadcrumb %q does not match route %q", p.Breadcrumbs[n-1].Href, p.Route)
		}
	}
	if p.FAQMode != FAQModeSingle && p.FAQMode != FAQModeMultiple {
		verr.add(src, "faq_mode %q must be %s or %s", p.FAQMode, FAQModeSingle, FAQModeMultiple)
	}
	questions := make(map[string]struct{}, len(p.FAQs))
	for i, f := range p.FAQs {
		if f.Question == "" || f.Answer == "" {
			verr.add(src, "faq %d needs a question and an answer", i+1)
			continue
		}
		if _, dup := questions[f.Question]; dup {
			verr.add(src, "duplicate faq question %q", f.Question)
		}
		questions[f.Question] = struct{}{}
	}
	if p.CostTable != nil {
		for _, r := range p.CostTable.Rows {
			if r.High != 0 && r.Low > r.High {
				verr.add(src, "cost row %q has low above high", r.Item)
			}
		}
	}
	if strings.Contains(string(p.Body), "<h1") {
		verr.add(src, "body must not contain a level-one heading")
	}
	for _, s := range p.Sections {
		if strings.Contains(string(s.HTML), "<h1") {
			verr.add(src, "section %q must not contain a level-one heading", s.ID)
		}
	}
}
