package seo

import (
	"encoding/json"
	"strings"
	"time"

	"bayshorebuild.com/site-web/internal/cms"
)

const schemaContext = "https://schema.org"

// JSON marshals v to a compact JSON string. It returns an empty string on error.
// encoding/json escapes <, > and & so the output is safe inside a script tag.
func JSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// AbsURL joins a site base URL and an internal href.
func AbsURL(baseURL, href string) string {
	if href == "" || strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	base := strings.TrimRight(baseURL, "/")
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return base + href
}

// BusinessID is the stable @id other schemas use to reference the business node.
func BusinessID(b cms.Business) string {
	return strings.TrimRight(b.URL, "/") + "/#business"
}

// Organization returns a minimal Organization schema.
func Organization(name, url, logoURL string) map[string]any {
	m := map[string]any{
		"@context": schemaContext,
		"@type":    "Organization",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if logoURL != "" {
		m["logo"] = logoURL
	}
	return m
}

// WebSite returns a minimal WebSite schema with optional SearchAction.
func WebSite(name, url, searchActionURL string) map[string]any {
	m := map[string]any{
		"@context": schemaContext,
		"@type":    "WebSite",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if searchActionURL != "" {
		m["potentialAction"] = map[string]any{
			"@type":       "SearchAction",
			"target":      searchActionURL + "{search_term_string}",
			"query-input": "required name=search_term_string",
		}
	}
	return m
}

// LocalBusiness describes the contractor as a GeneralContractor node.
// A non-empty city narrows areaServed to that city for landing pages.
func LocalBusiness(b cms.Business, city string) map[string]any {
	m := map[string]any{
		"@context":  schemaContext,
		"@type":     "GeneralContractor",
		"@id":       BusinessID(b),
		"name":      b.Name,
		"url":       b.URL,
		"telephone": b.PhoneRaw,
	}
	if b.LegalName != "" {
		m["legalName"] = b.LegalName
	}
	if b.Email != "" {
		m["email"] = b.Email
	}
	if b.Logo != "" {
		m["logo"] = b.Logo
	}
	if b.Image != "" {
		m["image"] = b.Image
	}
	if b.PriceRange != "" {
		m["priceRange"] = b.PriceRange
	}
	if b.Street != "" || b.City != "" {
		m["address"] = map[string]any{
			"@type":           "PostalAddress",
			"streetAddress":   b.Street,
			"addressLocality": b.City,
			"addressRegion":   b.Region,
			"postalCode":      b.PostalCode,
			"addressCountry":  b.Country,
		}
	}
	if b.Latitude != 0 || b.Longitude != 0 {
		m["geo"] = map[string]any{
			"@type":     "GeoCoordinates",
			"latitude":  b.Latitude,
			"longitude": b.Longitude,
		}
	}
	if len(b.OpeningHours) > 0 {
		m["openingHours"] = b.OpeningHours
	}
	if city != "" {
		m["areaServed"] = cityNode(city, b.Region)
	} else if len(b.AreaServed) > 0 {
		areas := make([]map[string]any, 0, len(b.AreaServed))
		for _, a := range b.AreaServed {
			areas = append(areas, cityNode(a, b.Region))
		}
		m["areaServed"] = areas
	}
	if len(b.SameAs) > 0 {
		m["sameAs"] = b.SameAs
	}
	return m
}

func cityNode(name, region string) map[string]any {
	m := map[string]any{"@type": "City", "name": name}
	if region != "" {
		m["containedInPlace"] = map[string]any{"@type": "State", "name": region}
	}
	return m
}

// ServiceParams feeds Service.
type ServiceParams struct {
	Name        string
	Description string
	URL         string
	Category    string
	City        string
	PriceLow    int64
	PriceHigh   int64
	Business    cms.Business
}

// Service returns a Service schema provided by the business. Offers are
// attached as an AggregateOffer only when a price range is known.
func Service(p ServiceParams) map[string]any {
	m := map[string]any{
		"@context":    schemaContext,
		"@type":       "Service",
		"name":        p.Name,
		"serviceType": p.Name,
		"provider": map[string]any{
			"@type": "GeneralContractor",
			"@id":   BusinessID(p.Business),
			"name":  p.Business.Name,
		},
	}
	if p.Description != "" {
		m["description"] = p.Description
	}
	if p.URL != "" {
		m["url"] = p.URL
	}
	if p.Category != "" {
		m["category"] = p.Category
	}
	if p.City != "" {
		m["areaServed"] = cityNode(p.City, p.Business.Region)
	}
	if p.PriceLow > 0 || p.PriceHigh > 0 {
		offer := map[string]any{
			"@type":         "AggregateOffer",
			"priceCurrency": "USD",
		}
		if p.PriceLow > 0 {
			offer["lowPrice"] = p.PriceLow
		}
		if p.PriceHigh > 0 {
			offer["highPrice"] = p.PriceHigh
		}
		m["offers"] = offer
	}
	return m
}

// ArticleParams feeds Article.
type ArticleParams struct {
	Headline    string
	Description string
	URL         string
	Image       string
	Author      string
	Published   time.Time
	Modified    time.Time
	Publisher   cms.Business
}

// Article returns an Article schema. An empty author falls back to the publisher.
func Article(p ArticleParams) map[string]any {
	publisher := map[string]any{
		"@type": "Organization",
		"name":  p.Publisher.Name,
	}
	if p.Publisher.Logo != "" {
		publisher["logo"] = map[string]any{"@type": "ImageObject", "url": p.Publisher.Logo}
	}
	m := map[string]any{
		"@context":  schemaContext,
		"@type":     "Article",
		"headline":  p.Headline,
		"publisher": publisher,
	}
	if p.Description != "" {
		m["description"] = p.Description
	}
	if p.URL != "" {
		m["url"] = p.URL
		m["mainEntityOfPage"] = map[string]any{"@type": "WebPage", "@id": p.URL}
	}
	if p.Image != "" {
		m["image"] = p.Image
	}
	if p.Author != "" {
		m["author"] = map[string]any{"@type": "Person", "name": p.Author}
	} else {
		m["author"] = map[string]any{"@type": "Organization", "name": p.Publisher.Name}
	}
	if !p.Published.IsZero() {
		m["datePublished"] = p.Published.Format(time.DateOnly)
		modified := p.Modified
		if modified.IsZero() {
			modified = p.Published
		}
		m["dateModified"] = modified.Format(time.DateOnly)
	}
	return m
}

// BreadcrumbItem maps name and absolute item URL.
type BreadcrumbItem struct {
	Name string
	Item string
}

// BreadcrumbList builds schema.org BreadcrumbList.
func BreadcrumbList(items []BreadcrumbItem) map[string]any {
	el := make([]map[string]any, 0, len(items))
	for i, it := range items {
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     it.Name,
			"item":     it.Item,
		})
	}
	return map[string]any{
		"@context":        schemaContext,
		"@type":           "BreadcrumbList",
		"itemListElement": el,
	}
}

// FAQPage builds a FAQPage schema from the same items the accordion shows.
// It returns nil for an empty list so no block is emitted.
func FAQPage(items []cms.FAQ) map[string]any {
	if len(items) == 0 {
		return nil
	}
	entities := make([]map[string]any, 0, len(items))
	for _, it := range items {
		entities = append(entities, map[string]any{
			"@type": "Question",
			"name":  it.Question,
			"acceptedAnswer": map[string]any{
				"@type": "Answer",
				"text":  it.Answer,
			},
		})
	}
	return map[string]any{
		"@context":   schemaContext,
		"@type":      "FAQPage",
		"mainEntity": entities,
	}
}
