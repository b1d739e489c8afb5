package cms

import (
	"errors"
	"html/template"
	"sort"
	"time"
)

// ErrNotFound is returned when no page is registered for a route.
var ErrNotFound = errors.New("cms: not found")

// Kind classifies a page so the renderer can pick schemas and widgets.
type Kind string

const (
	KindHome     Kind = "home"
	KindHub      Kind = "hub"
	KindService  Kind = "service"
	KindLocation Kind = "location"
	KindArticle  Kind = "article"
	KindFAQ      Kind = "faq"
)

// FAQ accordion modes.
const (
	FAQModeSingle   = "single"
	FAQModeMultiple = "multiple"
)

// Metadata populates the document head.
type Metadata struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Keywords    []string `yaml:"keywords"`
}

// Breadcrumb is one step of the Home -> page trail.
type Breadcrumb struct {
	Name string `yaml:"name"`
	Href string `yaml:"href"`
}

// FAQ is a question/answer pair shared by the accordion and the FAQPage schema.
type FAQ struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

type Hero struct {
	Eyebrow  string `yaml:"eyebrow"`
	Subtitle string `yaml:"subtitle"`
	Image    string `yaml:"image"`
}

// ServiceInfo describes the service a page sells. Prices are whole US dollars.
type ServiceInfo struct {
	Name      string `yaml:"name"`
	Slug      string `yaml:"slug"`
	Category  string `yaml:"category"`
	PriceLow  int64  `yaml:"price_low"`
	PriceHigh int64  `yaml:"price_high"`
	PriceUnit string `yaml:"price_unit"`
}

// ArticleInfo carries blog-post metadata.
type ArticleInfo struct {
	Author    string
	Published time.Time
	Updated   time.Time
	Image     string
}

// Section is a block of markdown body copy; HTML is filled in at load time.
type Section struct {
	ID      string        `yaml:"id"`
	Heading string        `yaml:"heading"`
	Body    string        `yaml:"body"`
	HTML    template.HTML `yaml:"-"`
}

type CostTable struct {
	Caption string    `yaml:"caption"`
	Rows    []CostRow `yaml:"rows"`
}

type CostRow struct {
	Item  string `yaml:"item"`
	Low   int64  `yaml:"low"`
	High  int64  `yaml:"high"`
	Unit  string `yaml:"unit"`
	Notes string `yaml:"notes"`
}

type ProcessStep struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Duration    string `yaml:"duration"`
}

type Neighborhood struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Highlights  []string `yaml:"highlights"`
}

type ServiceType struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	StartingAt  int64  `yaml:"starting_at"`
}

type Comparison struct {
	Caption string     `yaml:"caption"`
	Columns []string   `yaml:"columns"`
	Rows    [][]string `yaml:"rows"`
}

// Link is a hand-authored internal link. City and Service let widgets drop
// entries that point back at the current page's subject.
type Link struct {
	Href    string `yaml:"href"`
	Label   string `yaml:"label"`
	City    string `yaml:"city"`
	Service string `yaml:"service"`
}

// Related groups the curated link lists of a page.
type Related struct {
	Services  []Link `yaml:"services"`
	Locations []Link `yaml:"locations"`
	Articles  []Link `yaml:"articles"`
	Internal  []Link `yaml:"internal"`
}

type CTA struct {
	Heading string `yaml:"heading"`
	Body    string `yaml:"body"`
	Label   string `yaml:"label"`
	Href    string `yaml:"href"`
}

// Page is one fully loaded content fixture.
type Page struct {
	Route         string
	Kind          Kind
	Source        string
	Meta          Metadata
	Heading       string
	Intro         string
	Hero          Hero
	City          string
	Service       *ServiceInfo
	Article       *ArticleInfo
	Breadcrumbs   []Breadcrumb
	TrustBadges   []string
	Sections      []Section
	Body          template.HTML
	CostTable     *CostTable
	Process       []ProcessStep
	Neighborhoods []Neighborhood
	ServiceTypes  []ServiceType
	Comparison    *Comparison
	FAQs          []FAQ
	FAQMode       string
	Related       Related
	CTA           *CTA
}

// LastModified returns the most relevant date for sitemaps.
func (p *Page) LastModified() time.Time {
	if p == nil || p.Article == nil {
		return time.Time{}
	}
	if !p.Article.Updated.IsZero() {
		return p.Article.Updated
	}
	return p.Article.Published
}

// Business is the shared BUSINESS_INFO record.
type Business struct {
	Name         string   `yaml:"name"`
	LegalName    string   `yaml:"legal_name"`
	Phone        string   `yaml:"phone"`
	PhoneRaw     string   `yaml:"phone_raw"`
	Email        string   `yaml:"email"`
	URL          string   `yaml:"url"`
	Logo         string   `yaml:"logo"`
	Image        string   `yaml:"image"`
	PriceRange   string   `yaml:"price_range"`
	Street       string   `yaml:"street"`
	City         string   `yaml:"city"`
	Region       string   `yaml:"region"`
	PostalCode   string   `yaml:"postal_code"`
	Country      string   `yaml:"country"`
	Latitude     float64  `yaml:"latitude"`
	Longitude    float64  `yaml:"longitude"`
	OpeningHours []string `yaml:"opening_hours"`
	AreaServed   []string `yaml:"area_served"`
	SameAs       []string `yaml:"same_as"`
	License      string   `yaml:"license"`
}

// Catalog is the site-wide link inventory used when a page has no curated list.
type Catalog struct {
	Services  []Link `yaml:"services"`
	Locations []Link `yaml:"locations"`
	Articles  []Link `yaml:"articles"`
}

// Site is the immutable result of loading every fixture.
type Site struct {
	Business Business
	Nav      []Link
	Catalog  Catalog

	pages  map[string]*Page
	routes []string
}

// Page returns the page registered for route.
func (s *Site) Page(route string) (*Page, error) {
	if s == nil {
		return nil, ErrNotFound
	}
	p, ok := s.pages[NormalizeRoute(route)]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

// Has reports whether route resolves to a page.
func (s *Site) Has(route string) bool {
	_, err := s.Page(route)
	return err == nil
}

// Pages returns every page ordered by route.
func (s *Site) Pages() []*Page {
	if s == nil {
		return nil
	}
	out := make([]*Page, 0, len(s.routes))
	for _, r := range s.routes {
		out = append(out, s.pages[r])
	}
	return out
}

// Routes returns a copy of the sorted route list.
func (s *Site) Routes() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.routes))
	copy(out, s.routes)
	return out
}

// PagesOfKind filters Pages by kind.
func (s *Site) PagesOfKind(kind Kind) []*Page {
	var out []*Page
	for _, p := range s.Pages() {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

func newSite(business Business, nav []Link, catalog Catalog, pages []*Page) *Site {
	s := &Site{
		Business: business,
		Nav:      nav,
		Catalog:  catalog,
		pages:    make(map[string]*Page, len(pages)),
	}
	for _, p := range pages {
		s.pages[p.Route] = p
		s.routes = append(s.routes, p.Route)
	}
	sort.Strings(s.routes)
	return s
}
