package widgets

import (
	"strings"

	"bayshorebuild.com/site-web/internal/cms"
)

// Exclude lists what a link widget must not point back at.
type Exclude struct {
	Route   string
	City    string
	Service string
}

// LinkList is a titled list of internal links.
type LinkList struct {
	Title string
	Kind  string
	Links []cms.Link
}

// Empty reports whether there is nothing to render.
func (l LinkList) Empty() bool { return len(l.Links) == 0 }

// Links filters links against ex, drops duplicates and truncates to limit.
// A limit of zero or less keeps every link. Hrefs are compared in their
// normalized trailing-slash form.
func Links(title string, links []cms.Link, ex Exclude, limit int) LinkList {
	out := LinkList{Title: title}
	route := ""
	if ex.Route != "" {
		route = cms.NormalizeRoute(ex.Route)
	}
	seen := make(map[string]struct{}, len(links))
	for _, l := range links {
		key := l.Href
		if cms.IsInternal(l.Href) {
			key = cms.NormalizeRoute(l.Href)
		}
		if route != "" && key == route {
			continue
		}
		if ex.City != "" && strings.EqualFold(l.City, ex.City) {
			continue
		}
		if ex.Service != "" && strings.EqualFold(l.Service, ex.Service) {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out.Links = append(out.Links, l)
		if limit > 0 && len(out.Links) == limit {
			break
		}
	}
	return out
}

func curated(page, catalog []cms.Link) []cms.Link {
	if len(page) > 0 {
		return page
	}
	return catalog
}

// RelatedServices lists other services. Service pages also drop links to
// their own service slug; landing pages keep the parent service.
func RelatedServices(p *cms.Page, catalog cms.Catalog, limit int) LinkList {
	ex := Exclude{Route: p.Route}
	if p.Kind == cms.KindService && p.Service != nil {
		ex.Service = p.Service.Slug
	}
	l := Links("Related Services", curated(p.Related.Services, catalog.Services), ex, limit)
	l.Kind = "services"
	return l
}

// NearbyLocations lists landing pages in other cities.
func NearbyLocations(p *cms.Page, catalog cms.Catalog, limit int) LinkList {
	l := Links("Nearby Service Areas", curated(p.Related.Locations, catalog.Locations), Exclude{Route: p.Route, City: p.City}, limit)
	l.Kind = "locations"
	return l
}

// RelatedArticles lists blog posts other than the current one.
func RelatedArticles(p *cms.Page, catalog cms.Catalog, limit int) LinkList {
	l := Links("Related Articles", curated(p.Related.Articles, catalog.Articles), Exclude{Route: p.Route}, limit)
	l.Kind = "articles"
	return l
}

// InternalLinks lists the page's hand-picked cross links.
func InternalLinks(p *cms.Page, limit int) LinkList {
	l := Links("Explore More", p.Related.Internal, Exclude{Route: p.Route}, limit)
	l.Kind = "internal"
	return l
}
