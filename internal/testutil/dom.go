package testutil

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

// ParseHTML parses the provided HTML payload into a goquery document for assertions.
func ParseHTML(t testing.TB, body []byte) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

// Texts returns the trimmed text of every node matched by selector.
func Texts(doc *goquery.Document, selector string) []string {
	var out []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out
}

// Attrs returns attr of every node matched by selector.
func Attrs(doc *goquery.Document, selector, attr string) []string {
	var out []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		v, _ := s.Attr(attr)
		out = append(out, v)
	})
	return out
}

// JSONLD decodes every application/ld+json block, keyed by @type.
func JSONLD(t testing.TB, doc *goquery.Document) map[string]map[string]any {
	t.Helper()

	out := make(map[string]map[string]any)
	doc.Find(`script[type="application/ld+json"]`).Each(func(i int, s *goquery.Selection) {
		var m map[string]any
		if err := json.Unmarshal([]byte(s.Text()), &m); err != nil {
			t.Fatalf("json-ld block %d: %v", i, err)
		}
		typ, _ := m["@type"].(string)
		out[typ] = m
	})
	return out
}
