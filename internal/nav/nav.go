package nav

import (
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"bayshorebuild.com/site-web/internal/cms"
)

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href   string
	Label  string
	Active bool
}

// Crumb represents a breadcrumb entry.
type Crumb struct {
	Href   string
	Label  string
	Active bool
}

// Build renders navigation links with active state given the current route.
func Build(links []cms.Link, currentPath string) []RenderedItem {
	currentPath = cms.NormalizeRoute(currentPath)
	items := make([]RenderedItem, 0, len(links))
	for _, l := range links {
		items = append(items, RenderedItem{
			Href:   l.Href,
			Label:  l.Label,
			Active: isActive(cms.NormalizeRoute(l.Href), currentPath),
		})
	}
	return items
}

func isActive(itemPath, currentPath string) bool {
	if itemPath == "/" {
		return currentPath == "/"
	}
	// exact match or a page below the section: "/blog/" or "/blog/..."
	return strings.HasPrefix(currentPath, itemPath)
}

// FromItems converts authored breadcrumbs to crumbs. The last one is active.
func FromItems(items []cms.Breadcrumb) []Crumb {
	crumbs := make([]Crumb, 0, len(items))
	for i, it := range items {
		crumbs = append(crumbs, Crumb{
			Href:   it.Href,
			Label:  it.Name,
			Active: i == len(items)-1,
		})
	}
	return crumbs
}

// Breadcrumbs derives a trail from the route for pages that do not author one.
// Rules:
// - Always start with Home
// - Each segment becomes a crumb ending in a slash
// - Labels are the title-cased segment with hyphens as spaces
func Breadcrumbs(currentPath string) []Crumb {
	currentPath = cms.NormalizeRoute(currentPath)
	crumbs := []Crumb{{Href: "/", Label: "Home", Active: currentPath == "/"}}
	if currentPath == "/" {
		return crumbs
	}

	parts := strings.Split(strings.Trim(path.Clean(currentPath), "/"), "/")
	href := "/"
	for i, seg := range parts {
		href += seg + "/"
		crumbs = append(crumbs, Crumb{
			Href:   href,
			Label:  titleFromSegment(seg),
			Active: i == len(parts)-1,
		})
	}
	return crumbs
}

func titleFromSegment(seg string) string {
	s := strings.NewReplacer("-", " ", "_", " ").Replace(seg)
	// Casers keep state, so each call gets its own.
	return cases.Title(language.AmericanEnglish).String(s)
}
