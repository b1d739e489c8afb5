// Package audit checks rendered pages for the structural rules every page on
// the site must follow.
package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"bayshorebuild.com/site-web/internal/cms"
)

// Rule names reported in findings.
const (
	RuleSingleH1      = "single-h1"
	RuleTitle         = "title"
	RuleDescription   = "description"
	RuleBreadcrumbEnd = "breadcrumb-end"
	RuleFAQParity     = "faq-parity"
	RuleSelfLink      = "self-link"
	RuleJSONLD        = "json-ld"
	RuleDeadLink      = "dead-link"
	RuleMissingAsset  = "missing-asset"
)

const assetsPrefix = "/assets/"

// Finding is one rule violation on one page.
type Finding struct {
	Route   string
	Rule    string
	Message string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s [%s] %s", f.Route, f.Rule, f.Message)
}

// Auditor checks pages. Internal links are only checked against known
// routes when some were supplied, and /assets/ references only when an
// asset tree was attached with WithAssets.
type Auditor struct {
	known  map[string]struct{}
	assets fs.FS
}

// New returns an Auditor that treats routes as the set of existing pages.
func New(routes []string) *Auditor {
	a := &Auditor{known: make(map[string]struct{}, len(routes))}
	for _, r := range routes {
		a.known[cms.NormalizeRoute(r)] = struct{}{}
	}
	return a
}

// WithAssets makes the auditor verify that every /assets/ reference on the
// site's own host exists in fsys, which is rooted at the assets directory.
func (a *Auditor) WithAssets(fsys fs.FS) *Auditor {
	a.assets = fsys
	return a
}

// Check parses body and reports every rule violation for route.
func (a *Auditor) Check(route string, body io.Reader) ([]Finding, error) {
	root, err := html.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("audit %s: parse: %w", route, err)
	}
	doc := goquery.NewDocumentFromNode(root)
	route = cms.NormalizeRoute(route)

	c := &checker{route: route, doc: doc}
	c.headings()
	c.metadata()
	schemas := c.jsonLD()
	c.breadcrumbs(schemas)
	c.faq(schemas)
	c.selfLinks()
	if len(a.known) > 0 {
		c.deadLinks(a.known)
	}
	if a.assets != nil {
		c.missingAssets(a.assets, schemas)
	}
	return c.findings, nil
}

type checker struct {
	route    string
	doc      *goquery.Document
	findings []Finding
}

func (c *checker) add(rule, format string, args ...any) {
	c.findings = append(c.findings, Finding{Route: c.route, Rule: rule, Message: fmt.Sprintf(format, args...)})
}

func (c *checker) headings() {
	if n := c.doc.Find("h1").Length(); n != 1 {
		c.add(RuleSingleH1, "expected exactly one h1, found %d", n)
	}
}

func (c *checker) metadata() {
	if strings.TrimSpace(c.doc.Find("head title").First().Text()) == "" {
		c.add(RuleTitle, "missing or empty <title>")
	}
	desc, _ := c.doc.Find(`head meta[name="description"]`).First().Attr("content")
	if strings.TrimSpace(desc) == "" {
		c.add(RuleDescription, "missing or empty meta description")
	}
}

// jsonLD validates every block and returns the decoded ones keyed by @type.
func (c *checker) jsonLD() map[string]map[string]any {
	out := make(map[string]map[string]any)
	c.doc.Find(`script[type="application/ld+json"]`).Each(func(i int, s *goquery.Selection) {
		var m map[string]any
		if err := json.Unmarshal([]byte(s.Text()), &m); err != nil {
			c.add(RuleJSONLD, "block %d is not valid JSON: %v", i+1, err)
			return
		}
		if m["@context"] == nil {
			c.add(RuleJSONLD, "block %d has no @context", i+1)
		}
		typ, _ := m["@type"].(string)
		if typ == "" {
			c.add(RuleJSONLD, "block %d has no @type", i+1)
			return
		}
		out[typ] = m
	})
	return out
}

func (c *checker) breadcrumbs(schemas map[string]map[string]any) {
	links := c.doc.Find("[data-breadcrumbs] a")
	if links.Length() == 0 {
		c.add(RuleBreadcrumbEnd, "page has no breadcrumb trail")
	} else {
		href, _ := links.Last().Attr("href")
		if cms.NormalizeRoute(href) != c.route {
			c.add(RuleBreadcrumbEnd, "last breadcrumb %q does not match route", href)
		}
	}

	list, ok := schemas["BreadcrumbList"]
	if !ok {
		c.add(RuleBreadcrumbEnd, "missing BreadcrumbList schema")
		return
	}
	items, _ := list["itemListElement"].([]any)
	if len(items) == 0 {
		c.add(RuleBreadcrumbEnd, "BreadcrumbList has no items")
		return
	}
	last, _ := items[len(items)-1].(map[string]any)
	item, _ := last["item"].(string)
	u, err := url.Parse(item)
	if err != nil || cms.NormalizeRoute(u.Path) != c.route {
		c.add(RuleBreadcrumbEnd, "BreadcrumbList ends at %q, not the page route", item)
	}
}

func (c *checker) faq(schemas map[string]map[string]any) {
	var visible []string
	c.doc.Find("[data-faq-question]").Each(func(_ int, s *goquery.Selection) {
		visible = append(visible, strings.TrimSpace(s.Text()))
	})

	var schema []string
	if page, ok := schemas["FAQPage"]; ok {
		entities, _ := page["mainEntity"].([]any)
		for _, e := range entities {
			q, _ := e.(map[string]any)
			name, _ := q["name"].(string)
			schema = append(schema, strings.TrimSpace(name))
		}
	}

	if len(visible) != len(schema) {
		c.add(RuleFAQParity, "accordion shows %d questions, FAQPage lists %d", len(visible), len(schema))
		return
	}
	for i := range visible {
		if visible[i] != schema[i] {
			c.add(RuleFAQParity, "question %d differs: %q vs %q", i+1, visible[i], schema[i])
		}
	}
}

func (c *checker) selfLinks() {
	c.doc.Find("[data-link-widget] a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if cms.IsInternal(href) && cms.NormalizeRoute(href) == c.route {
			widget, _ := s.Closest("[data-link-widget]").Attr("data-link-widget")
			c.add(RuleSelfLink, "%s widget links to the current page", widget)
		}
	})
}

func (c *checker) deadLinks(known map[string]struct{}) {
	reported := make(map[string]struct{})
	c.doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !cms.IsInternal(href) {
			return
		}
		target := cms.NormalizeRoute(href)
		// files such as /sitemap.xml or /assets/... are not pages
		if cms.IsFilePath(target) || strings.HasPrefix(target, assetsPrefix) {
			return
		}
		if _, ok := known[target]; ok {
			return
		}
		if _, dup := reported[target]; dup {
			return
		}
		reported[target] = struct{}{}
		c.add(RuleDeadLink, "link to unknown page %s", target)
	})
}

// missingAssets resolves src, href, social image and JSON-LD references that
// point at /assets/ on the page's own host.
func (c *checker) missingAssets(assets fs.FS, schemas map[string]map[string]any) {
	host := ""
	if canonical, ok := c.doc.Find(`link[rel="canonical"]`).Attr("href"); ok {
		if u, err := url.Parse(canonical); err == nil {
			host = u.Host
		}
	}

	reported := make(map[string]struct{})
	check := func(ref string) {
		u, err := url.Parse(strings.TrimSpace(ref))
		if err != nil || (u.Host != "" && u.Host != host) {
			return
		}
		if !strings.HasPrefix(u.Path, assetsPrefix) {
			return
		}
		name := strings.TrimPrefix(u.Path, assetsPrefix)
		if _, dup := reported[name]; dup {
			return
		}
		if _, err := fs.Stat(assets, name); err != nil {
			reported[name] = struct{}{}
			c.add(RuleMissingAsset, "asset %s does not exist", u.Path)
		}
	}

	c.doc.Find("[src], link[href], a[href]").Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr("src"); ok {
			check(v)
		}
		if v, ok := s.Attr("href"); ok {
			check(v)
		}
	})
	c.doc.Find(`meta[property="og:image"], meta[name="twitter:image"]`).Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr("content"); ok {
			check(v)
		}
	})
	for _, block := range schemas {
		eachString(block, check)
	}
}

func eachString(v any, fn func(string)) {
	switch t := v.(type) {
	case string:
		fn(t)
	case map[string]any:
		for _, e := range t {
			eachString(e, fn)
		}
	case []any:
		for _, e := range t {
			eachString(e, fn)
		}
	}
}
