package seo

import "strings"

type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	URL         string
	SiteName    string
}

type Twitter struct {
	Card  string
	Site  string
	Image string
}

type Meta struct {
	Title       string
	Description string
	Keywords    []string
	Canonical   string
	OG          OpenGraph
	Twitter     Twitter
}

// KeywordsContent joins keywords for the meta keywords tag.
func (m Meta) KeywordsContent() string {
	return strings.Join(m.Keywords, ", ")
}

// NewMeta fills the OpenGraph and Twitter cards from the page basics.
// ogType is "website" unless the caller passes something else.
func NewMeta(title, description string, keywords []string, canonical, image, siteName, ogType string) Meta {
	if ogType == "" {
		ogType = "website"
	}
	card := "summary"
	if image != "" {
		card = "summary_large_image"
	}
	return Meta{
		Title:       title,
		Description: description,
		Keywords:    keywords,
		Canonical:   canonical,
		OG: OpenGraph{
			Title:       title,
			Description: description,
			Image:       image,
			Type:        ogType,
			URL:         canonical,
			SiteName:    siteName,
		},
		Twitter: Twitter{Card: card, Image: image},
	}
}
