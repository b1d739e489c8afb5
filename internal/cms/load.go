package cms

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

const (
	siteFileName  = "site.yaml"
	linksFileName = "links.yaml"
	pagesDir      = "pages"
	articlesDir   = "articles"
	articlesBase  = "/blog/"
)

type siteFile struct {
	Business Business `yaml:"business"`
	Nav      []Link   `yaml:"nav"`
}

// pageFile is the on-disk shape shared by YAML pages and article front matter.
type pageFile struct {
	Route         string         `yaml:"route"`
	Kind          string         `yaml:"kind"`
	Title         string         `yaml:"title"`
	Description   string         `yaml:"description"`
	Keywords      []string       `yaml:"keywords"`
	Meta          Metadata       `yaml:"meta"`
	Heading       string         `yaml:"heading"`
	Intro         string         `yaml:"intro"`
	Hero          Hero           `yaml:"hero"`
	City          string         `yaml:"city"`
	Service       *ServiceInfo   `yaml:"service"`
	Author        string         `yaml:"author"`
	Published     string         `yaml:"published"`
	Updated       string         `yaml:"updated"`
	Image         string         `yaml:"image"`
	Breadcrumbs   []Breadcrumb   `yaml:"breadcrumbs"`
	TrustBadges   []string       `yaml:"trust_badges"`
	Sections      []Section      `yaml:"sections"`
	CostTable     *CostTable     `yaml:"cost_table"`
	Process       []ProcessStep  `yaml:"process"`
	Neighborhoods []Neighborhood `yaml:"neighborhoods"`
	ServiceTypes  []ServiceType  `yaml:"service_types"`
	Comparison    *Comparison    `yaml:"comparison"`
	FAQMode       string         `yaml:"faq_mode"`
	FAQs          []FAQ          `yaml:"faqs"`
	Related       Related        `yaml:"related"`
	CTA           *CTA           `yaml:"cta"`
}

// Load reads site.yaml, links.yaml, pages/**/*.yaml and articles/*.md from fsys.
// Every fixture problem is collected into a single *ValidationError.
func Load(fsys fs.FS) (*Site, error) {
	var sf siteFile
	if err := readYAML(fsys, siteFileName, &sf); err != nil {
		return nil, err
	}
	var catalog Catalog
	if err := readYAML(fsys, linksFileName, &catalog); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	md := newMarkdown()
	verr := &ValidationError{}
	var pages []*Page

	err := walkFiles(fsys, pagesDir, func(name string, data []byte) error {
		if ext := path.Ext(name); ext != ".yaml" && ext != ".yml" {
			return nil
		}
		var pf pageFile
		if err := yaml.Unmarshal(data, &pf); err != nil {
			return fmt.Errorf("cms: parse %s: %w", name, err)
		}
		p, err := buildPage(name, pf, md, false, verr)
		if err != nil {
			return err
		}
		pages = append(pages, p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = walkFiles(fsys, articlesDir, func(name string, data []byte) error {
		if path.Ext(name) != ".md" {
			return nil
		}
		var pf pageFile
		body, err := frontmatter.Parse(bytes.NewReader(data), &pf)
		if err != nil {
			return fmt.Errorf("cms: parse front matter %s: %w", name, err)
		}
		p, err := buildPage(name, pf, md, true, verr)
		if err != nil {
			return err
		}
		html, err := md.render(string(body))
		if err != nil {
			return fmt.Errorf("cms: render %s: %w", name, err)
		}
		p.Body = html
		pages = append(pages, p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]string, len(pages))
	for _, p := range pages {
		if prev, dup := seen[p.Route]; dup {
			verr.add(p.Source, "route %s already defined by %s", p.Route, prev)
			continue
		}
		seen[p.Route] = p.Source
		validatePage(p, verr)
	}
	if verr.HasProblems() {
		return nil, verr
	}
	return newSite(normalizeBusiness(sf.Business), trimLinks(sf.Nav), Catalog{
		Services:  trimLinks(catalog.Services),
		Locations: trimLinks(catalog.Locations),
		Articles:  trimLinks(catalog.Articles),
	}, pages), nil
}

func readYAML(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("cms: read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("cms: parse %s: %w", name, err)
	}
	return nil
}

// walkFiles calls fn for every regular file under root. A missing root is not an error.
func walkFiles(fsys fs.FS, root string, fn func(name string, data []byte) error) error {
	if _, err := fs.Stat(fsys, root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("cms: stat %s: %w", root, err)
	}
	return fs.WalkDir(fsys, root, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("cms: read %s: %w", name, err)
		}
		return fn(name, data)
	})
}

// buildPage converts one fixture. Field-level problems go to verr; the
// returned error is reserved for markdown rendering failures.
func buildPage(source string, pf pageFile, md *markdown, article bool, verr *ValidationError) (*Page, error) {
	route := strings.TrimSpace(pf.Route)
	if route == "" {
		route = deriveRoute(source, article)
	}
	p := &Page{
		Route:   NormalizeRoute(route),
		Kind:    Kind(strings.ToLower(strings.TrimSpace(pf.Kind))),
		Source:  source,
		Heading: strings.TrimSpace(pf.Heading),
		Intro:   strings.TrimSpace(pf.Intro),
		Hero: Hero{
			Eyebrow:  strings.TrimSpace(pf.Hero.Eyebrow),
			Subtitle: strings.TrimSpace(pf.Hero.Subtitle),
			Image:    strings.TrimSpace(pf.Hero.Image),
		},
		City:          strings.TrimSpace(pf.City),
		Service:       pf.Service,
		Breadcrumbs:   trimBreadcrumbs(pf.Breadcrumbs),
		TrustBadges:   trimStrings(pf.TrustBadges),
		CostTable:     pf.CostTable,
		Process:       pf.Process,
		Neighborhoods: pf.Neighborhoods,
		ServiceTypes:  pf.ServiceTypes,
		Comparison:    pf.Comparison,
		FAQs:          trimFAQs(pf.FAQs),
		FAQMode:       strings.ToLower(strings.TrimSpace(pf.FAQMode)),
		Related: Related{
			Services:  trimLinks(pf.Related.Services),
			Locations: trimLinks(pf.Related.Locations),
			Articles:  trimLinks(pf.Related.Articles),
			Internal:  trimLinks(pf.Related.Internal),
		},
		CTA: pf.CTA,
	}
	p.Meta = Metadata{
		Title:       strings.TrimSpace(firstNonEmpty(pf.Meta.Title, pf.Title)),
		Description: strings.TrimSpace(firstNonEmpty(pf.Meta.Description, pf.Description)),
		Keywords:    trimStrings(append(append([]string(nil), pf.Meta.Keywords...), pf.Keywords...)),
	}
	if p.Kind == "" {
		p.Kind = inferKind(p.Route, article)
	}
	if p.FAQMode == "" {
		p.FAQMode = FAQModeSingle
	}
	if article {
		published, err := parseContentDate(pf.Published)
		if err != nil {
			verr.add(source, "published: %v", err)
		}
		updated, err := parseContentDate(pf.Updated)
		if err != nil {
			verr.add(source, "updated: %v", err)
		}
		p.Article = &ArticleInfo{
			Author:    strings.TrimSpace(pf.Author),
			Published: published,
			Updated:   updated,
			Image:     strings.TrimSpace(pf.Image),
		}
	}
	for i := range pf.Sections {
		s := pf.Sections[i]
		s.ID = strings.TrimSpace(s.ID)
		s.Heading = strings.TrimSpace(s.Heading)
		html, err := md.render(s.Body)
		if err != nil {
			return nil, fmt.Errorf("cms: render section %q in %s: %w", s.ID, source, err)
		}
		s.HTML = html
		p.Sections = append(p.Sections, s)
	}
	return p, nil
}

// deriveRoute maps pages/services/index.yaml to /services/, pages/x/y.yaml to
// /y/ and articles/z.md to /blog/z/.
func deriveRoute(source string, article bool) string {
	base := strings.TrimSuffix(path.Base(source), path.Ext(source))
	if article {
		return articlesBase + base + "/"
	}
	if base == "index" {
		dir := strings.TrimPrefix(path.Dir(source), pagesDir)
		return NormalizeRoute(dir)
	}
	return "/" + base + "/"
}

func inferKind(route string, article bool) Kind {
	switch {
	case article:
		return KindArticle
	case route == "/":
		return KindHome
	default:
		return KindHub
	}
}

// fileExts are the extensions served as files rather than pages.
var fileExts = map[string]struct{}{
	".css": {}, ".gif": {}, ".html": {}, ".ico": {}, ".jpeg": {}, ".jpg": {},
	".js": {}, ".json": {}, ".pdf": {}, ".png": {}, ".svg": {}, ".txt": {},
	".webmanifest": {}, ".webp": {}, ".woff2": {}, ".xml": {},
}

// IsFilePath reports whether p names a static file such as /sitemap.xml.
func IsFilePath(p string) bool {
	if strings.HasSuffix(p, "/") {
		return false
	}
	_, ok := fileExts[strings.ToLower(path.Ext(p))]
	return ok
}

// NormalizeRoute cleans an internal href into the canonical /segment/ form.
// Query strings and fragments are dropped. An href that already ends in a
// slash stays a page route even when a segment contains dots; otherwise only
// known file extensions keep the path slash-free.
func NormalizeRoute(href string) string {
	href = strings.TrimSpace(href)
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	if href == "" {
		return "/"
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	clean := path.Clean(href)
	if clean == "/" || IsFilePath(href) {
		return clean
	}
	return clean + "/"
}

// IsInternal reports whether href points inside the site.
func IsInternal(href string) bool {
	href = strings.TrimSpace(href)
	return strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//")
}

// parseContentDate accepts ISO dates. Empty input is the zero time.
func parseContentDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006/01/02",
		"2006-1-2",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("date %q is not YYYY-MM-DD or RFC 3339", v)
}

func normalizeBusiness(b Business) Business {
	b.Name = strings.TrimSpace(b.Name)
	b.Phone = strings.TrimSpace(b.Phone)
	raw := strings.TrimSpace(b.PhoneRaw)
	if raw == "" {
		raw = b.Phone
	}
	b.PhoneRaw = e164(raw)
	b.URL = strings.TrimRight(strings.TrimSpace(b.URL), "/")
	b.AreaServed = trimStrings(b.AreaServed)
	b.OpeningHours = trimStrings(b.OpeningHours)
	b.SameAs = trimStrings(b.SameAs)
	return b
}

// e164 reduces a North American number to +1NXXNXXXXXX. Numbers that already
// carry a country code keep it.
func e164(s string) string {
	d := digitsOnly(s)
	switch {
	case d == "" || strings.HasPrefix(d, "+"):
		return d
	case len(d) == 10:
		return "+1" + d
	case len(d) == 11 && d[0] == '1':
		return "+" + d
	default:
		return d
	}
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || (r == '+' && b.Len() == 0) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func trimLinks(in []Link) []Link {
	if len(in) == 0 {
		return nil
	}
	out := make([]Link, 0, len(in))
	for _, l := range in {
		l.Href = strings.TrimSpace(l.Href)
		l.Label = strings.TrimSpace(l.Label)
		l.City = strings.TrimSpace(l.City)
		l.Service = strings.TrimSpace(l.Service)
		if l.Href == "" || l.Label == "" {
			continue
		}
		out = append(out, l)
	}
	return out
}

func trimBreadcrumbs(in []Breadcrumb) []Breadcrumb {
	if len(in) == 0 {
		return nil
	}
	out := make([]Breadcrumb, 0, len(in))
	for _, b := range in {
		out = append(out, Breadcrumb{Name: strings.TrimSpace(b.Name), Href: strings.TrimSpace(b.Href)})
	}
	return out
}

func trimFAQs(in []FAQ) []FAQ {
	if len(in) == 0 {
		return nil
	}
	out := make([]FAQ, 0, len(in))
	for _, f := range in {
		out = append(out, FAQ{Question: strings.TrimSpace(f.Question), Answer: strings.TrimSpace(f.Answer)})
	}
	return out
}

func trimStrings(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
