package widgets

import (
	"bayshorebuild.com/site-web/internal/nav"
	"bayshorebuild.com/site-web/internal/seo"
)

// Trail pairs the visible breadcrumbs with their BreadcrumbList schema.
type Trail struct {
	Crumbs []nav.Crumb
	Schema map[string]any
}

// NewTrail builds the trail. Schema items use absolute URLs under baseURL.
func NewTrail(baseURL string, crumbs []nav.Crumb) Trail {
	items := make([]seo.BreadcrumbItem, 0, len(crumbs))
	for _, c := range crumbs {
		items = append(items, seo.BreadcrumbItem{Name: c.Label, Item: seo.AbsURL(baseURL, c.Href)})
	}
	return Trail{Crumbs: crumbs, Schema: seo.BreadcrumbList(items)}
}

// Last returns the current-page crumb.
func (t Trail) Last() nav.Crumb {
	if len(t.Crumbs) == 0 {
		return nav.Crumb{}
	}
	return t.Crumbs[len(t.Crumbs)-1]
}
