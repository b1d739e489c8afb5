package render

import (
	"bayshorebuild.com/site-web/internal/cms"
	"bayshorebuild.com/site-web/internal/nav"
	"bayshorebuild.com/site-web/internal/seo"
	"bayshorebuild.com/site-web/internal/widgets"
)

// relatedLimit caps every internal link widget.
const relatedLimit = 6

// PageData is the view model executed by the shared "base" layout.
type PageData struct {
	Lang      string
	Kind      cms.Kind
	Path      string
	SEO       SEOData
	Analytics Analytics
	Business  cms.Business
	Nav       []nav.RenderedItem
	Trail     widgets.Trail
	Page      *cms.Page
	NotFound  bool

	// Widgets, in render order
	ServiceTypes    []widgets.ServiceTypeCard
	CostTable       *widgets.CostTableView
	Process         []widgets.StepView
	Comparison      *widgets.ComparisonView
	Neighborhoods   []widgets.NeighborhoodCard
	FAQ             widgets.FAQ
	RelatedServices widgets.LinkList
	NearbyLocations widgets.LinkList
	RelatedArticles widgets.LinkList
	InternalLinks   widgets.LinkList
	CTA             cms.CTA
}

// SEOData carries head metadata plus the serialized JSON-LD blocks.
type SEOData struct {
	seo.Meta
	Robots string
	JSONLD []string
}

// Analytics holds client instrumentation configuration surfaced to templates.
type Analytics struct {
	GA4MeasurementID string // e.g. G-XXXXXXXXXX
}

// BuildPageData assembles the view model for p. baseURL overrides the
// business URL for canonical and schema links when non-empty.
func BuildPageData(site *cms.Site, p *cms.Page, baseURL string) PageData {
	if baseURL == "" {
		baseURL = site.Business.URL
	}
	canonical := seo.AbsURL(baseURL, p.Route)

	crumbs := nav.FromItems(p.Breadcrumbs)
	if len(crumbs) == 0 {
		crumbs = nav.Breadcrumbs(p.Route)
	}
	trail := widgets.NewTrail(baseURL, crumbs)
	faq := widgets.NewFAQ("faq", p.FAQs, p.FAQMode)

	ogType, image := "website", p.Hero.Image
	if p.Article != nil {
		ogType = "article"
		if p.Article.Image != "" {
			image = p.Article.Image
		}
	}
	if image == "" {
		image = site.Business.Image
	}

	data := PageData{
		Lang:     "en",
		Kind:     p.Kind,
		Path:     p.Route,
		Business: site.Business,
		Nav:      nav.Build(site.Nav, p.Route),
		Trail:    trail,
		Page:     p,
		SEO: SEOData{
			Meta:   seo.NewMeta(p.Meta.Title, p.Meta.Description, p.Meta.Keywords, canonical, seo.AbsURL(baseURL, image), site.Business.Name, ogType),
			Robots: "index, follow",
		},
		ServiceTypes:    widgets.ServiceTypeGrid(p.ServiceTypes),
		CostTable:       widgets.CostTable(p.CostTable),
		Process:         widgets.ProcessGrid(p.Process),
		Comparison:      widgets.ComparisonTable(p.Comparison),
		Neighborhoods:   widgets.NeighborhoodGrid(p.Neighborhoods),
		FAQ:             faq,
		RelatedServices: widgets.RelatedServices(p, site.Catalog, relatedLimit),
		NearbyLocations: widgets.NearbyLocations(p, site.Catalog, relatedLimit),
		RelatedArticles: widgets.RelatedArticles(p, site.Catalog, relatedLimit),
		InternalLinks:   widgets.InternalLinks(p, relatedLimit),
		CTA:             resolveCTA(p.CTA, site.Business),
	}
	data.SEO.JSONLD = schemas(site.Business, p, canonical, trail, faq)
	return data
}

// NotFoundData is the view model for the 404 page.
func NotFoundData(site *cms.Site) PageData {
	crumbs := []nav.Crumb{{Href: "/", Label: "Home"}}
	return PageData{
		Lang:     "en",
		Path:     "/404.html",
		Business: site.Business,
		Nav:      nav.Build(site.Nav, "/404.html"),
		Trail:    widgets.Trail{Crumbs: crumbs},
		NotFound: true,
		SEO: SEOData{
			Meta: seo.Meta{
				Title:       "Page not found | " + site.Business.Name,
				Description: "The page you requested could not be found.",
			},
			Robots: "noindex",
		},
		CTA: resolveCTA(nil, site.Business),
	}
}

// schemas returns the JSON-LD blocks for p, business first.
func schemas(biz cms.Business, p *cms.Page, canonical string, trail widgets.Trail, faq widgets.FAQ) []string {
	var blocks []map[string]any
	switch p.Kind {
	case cms.KindHome:
		blocks = append(blocks,
			seo.Organization(biz.Name, biz.URL, biz.Logo),
			seo.WebSite(biz.Name, biz.URL, ""),
			seo.LocalBusiness(biz, ""),
		)
	case cms.KindArticle:
		a := p.Article
		blocks = append(blocks, seo.Article(seo.ArticleParams{
			Headline:    p.Heading,
			Description: p.Meta.Description,
			URL:         canonical,
			Image:       a.Image,
			Author:      a.Author,
			Published:   a.Published,
			Modified:    a.Updated,
			Publisher:   biz,
		}))
	default:
		blocks = append(blocks, seo.LocalBusiness(biz, p.City))
	}
	if p.Service != nil && (p.Kind == cms.KindService || p.Kind == cms.KindLocation) {
		blocks = append(blocks, seo.Service(seo.ServiceParams{
			Name:        p.Service.Name,
			Description: p.Meta.Description,
			URL:         canonical,
			Category:    p.Service.Category,
			City:        p.City,
			PriceLow:    p.Service.PriceLow,
			PriceHigh:   p.Service.PriceHigh,
			Business:    biz,
		}))
	}
	blocks = append(blocks, trail.Schema)
	if faq.Schema != nil {
		blocks = append(blocks, faq.Schema)
	}

	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if s := seo.JSON(b); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func resolveCTA(c *cms.CTA, biz cms.Business) cms.CTA {
	out := cms.CTA{
		Heading: "Talk to a " + biz.Name + " estimator",
		Body:    "Free on-site assessments across Tampa Bay and Central Florida.",
	}
	if c == nil {
		return out
	}
	if c.Heading != "" {
		out.Heading = c.Heading
	}
	if c.Body != "" {
		out.Body = c.Body
	}
	out.Label, out.Href = c.Label, c.Href
	if out.Href != "" && out.Label == "" {
		out.Label = "Learn more"
	}
	return out
}
