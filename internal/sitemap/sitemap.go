// Package sitemap produces sitemap.xml and robots.txt for the rendered site.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/temoto/robotstxt"

	"bayshorebuild.com/site-web/internal/cms"
	"bayshorebuild.com/site-web/internal/format"
	"bayshorebuild.com/site-web/internal/seo"
)

const xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

// URLSet represents the structure of an XML sitemap.
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// URL represents a single URL entry in the sitemap.
type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// Build lists pages in the order given. Article dates become lastmod.
func Build(baseURL string, pages []*cms.Page) URLSet {
	set := URLSet{Xmlns: xmlns}
	for _, p := range pages {
		freq, prio := weights(p.Kind)
		set.URLs = append(set.URLs, URL{
			Loc:        seo.AbsURL(baseURL, p.Route),
			LastMod:    format.ISODate(p.LastModified()),
			ChangeFreq: freq,
			Priority:   prio,
		})
	}
	return set
}

func weights(k cms.Kind) (changefreq, priority string) {
	switch k {
	case cms.KindHome:
		return "weekly", "1.0"
	case cms.KindService:
		return "monthly", "0.9"
	case cms.KindLocation:
		return "monthly", "0.8"
	case cms.KindHub:
		return "weekly", "0.7"
	case cms.KindArticle:
		return "monthly", "0.6"
	default:
		return "monthly", "0.5"
	}
}

// Encode writes the sitemap document with its XML header.
func (s URLSet) Encode(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("sitemap: encode: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Robots returns a robots.txt that allows everything except disallow and
// points crawlers at the sitemap.
func Robots(baseURL string, disallow ...string) string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	if len(disallow) == 0 {
		b.WriteString("Allow: /\n")
	}
	for _, d := range disallow {
		fmt.Fprintf(&b, "Disallow: %s\n", d)
	}
	fmt.Fprintf(&b, "\nSitemap: %s\n", seo.AbsURL(baseURL, "/sitemap.xml"))
	return b.String()
}

// Blocked parses robots and returns the routes a generic crawler may not fetch.
func Blocked(robots string, routes []string) ([]string, error) {
	data, err := robotstxt.FromString(robots)
	if err != nil {
		return nil, fmt.Errorf("sitemap: parse robots.txt: %w", err)
	}
	group := data.FindGroup("*")
	var blocked []string
	for _, r := range routes {
		if !group.Test(r) {
			blocked = append(blocked, r)
		}
	}
	return blocked, nil
}
