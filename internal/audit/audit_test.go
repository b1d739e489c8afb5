package audit

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"bayshorebuild.com/site-web/content"
	"bayshorebuild.com/site-web/internal/cms"
	"bayshorebuild.com/site-web/internal/render"
	"bayshorebuild.com/site-web/public"
	"bayshorebuild.com/site-web/templates"
)

func TestBundledSitePassesAudit(t *testing.T) {
	site, err := cms.Load(content.FS())
	require.NoError(t, err)
	r, err := render.New(render.Options{Templates: templates.FS()})
	require.NoError(t, err)

	static, err := public.StaticFS()
	require.NoError(t, err)

	a := New(site.Routes()).WithAssets(static)
	for _, p := range site.Pages() {
		var buf bytes.Buffer
		require.NoError(t, r.Page(&buf, site, p))
		findings, err := a.Check(p.Route, &buf)
		require.NoError(t, err)
		require.Empty(t, findings, "route %s", p.Route)
	}
}

const brokenPage = `<!doctype html>
<html><head>
<title> </title>
<script type="application/ld+json">{"@context":"https://schema.org","@type":"BreadcrumbList","itemListElement":[{"@type":"ListItem","position":1,"item":"https://example.com/other/"}]}</script>
<script type="application/ld+json">{"@context":"https://schema.org","@type":"FAQPage","mainEntity":[{"@type":"Question","name":"One?"},{"@type":"Question","name":"Two?"}]}</script>
<script type="application/ld+json">{"@type":</script>
<script type="application/ld+json">{"@type":"Thing"}</script>
</head><body>
<nav data-breadcrumbs><ol><li><a href="/">Home</a></li><li><a href="/other/">Other</a></li></ol></nav>
<h1>One</h1><h1>Two</h1>
<details><summary data-faq-question>One?</summary></details>
<aside data-link-widget="locations"><a href="/page">Self</a><a href="/missing/">Missing</a></aside>
<a href="/assets/css/site.css">css</a>
</body></html>`

func TestCheckReportsEveryRule(t *testing.T) {
	a := New([]string{"/", "/page/", "/other/"})
	findings, err := a.Check("/page/", strings.NewReader(brokenPage))
	require.NoError(t, err)

	rules := make(map[string]int)
	for _, f := range findings {
		require.Equal(t, "/page/", f.Route)
		rules[f.Rule]++
	}
	for _, rule := range []string{
		RuleSingleH1, RuleTitle, RuleDescription, RuleBreadcrumbEnd,
		RuleFAQParity, RuleSelfLink, RuleJSONLD, RuleDeadLink,
	} {
		require.Contains(t, rules, rule)
	}
	require.Equal(t, 2, rules[RuleBreadcrumbEnd], "visible trail and schema both end elsewhere")
	require.Equal(t, 2, rules[RuleJSONLD], "invalid JSON and missing @context")
	require.Equal(t, 1, rules[RuleDeadLink], "assets are not pages")
}

func TestFAQParityDetectsReordering(t *testing.T) {
	page := `<html><head><title>T</title><meta name="description" content="D">
<script type="application/ld+json">{"@context":"https://schema.org","@type":"BreadcrumbList","itemListElement":[{"item":"https://example.com/x/"}]}</script>
<script type="application/ld+json">{"@context":"https://schema.org","@type":"FAQPage","mainEntity":[{"name":"B?"},{"name":"A?"}]}</script>
</head><body><nav data-breadcrumbs><a href="/x/">X</a></nav><h1>X</h1>
<summary data-faq-question>A?</summary><summary data-faq-question>B?</summary></body></html>`

	findings, err := New(nil).Check("/x", strings.NewReader(page))
	require.NoError(t, err)
	require.Len(t, findings, 2)
	for _, f := range findings {
		require.Equal(t, RuleFAQParity, f.Rule)
	}
	require.Contains(t, findings[0].String(), "/x/ [faq-parity]")
}

func TestBreadcrumbSchemaMustEndAtHome(t *testing.T) {
	page := `<html><head><title>Home</title><meta name="description" content="D">
<script type="application/ld+json">{"@context":"https://schema.org","@type":"BreadcrumbList","itemListElement":[{"item":"https://example.com/"},{"item":"https://example.com/services/"}]}</script>
</head><body><nav data-breadcrumbs><a href="/">Home</a></nav><h1>Home</h1></body></html>`

	findings, err := New(nil).Check("/", strings.NewReader(page))
	require.NoError(t, err)
	require.Len(t, findings, 1)
	require.Equal(t, RuleBreadcrumbEnd, findings[0].Rule)
	require.Contains(t, findings[0].Message, "https://example.com/services/")
}

func TestMissingAssets(t *testing.T) {
	page := `<html><head><title>T</title><meta name="description" content="D">
<link rel="canonical" href="https://example.com/x/">
<link rel="stylesheet" href="/assets/css/site.css">
<meta property="og:image" content="https://example.com/assets/img/hero.png">
<meta name="twitter:image" content="https://cdn.other.com/assets/img/remote.png">
<script type="application/ld+json">{"@context":"https://schema.org","@type":"BreadcrumbList","itemListElement":[{"item":"https://example.com/x/"}]}</script>
<script type="application/ld+json">{"@context":"https://schema.org","@type":"Organization","logo":{"@type":"ImageObject","url":"https://example.com/assets/img/logo.png"}}</script>
</head><body><nav data-breadcrumbs><a href="/x/">X</a></nav><h1>X</h1>
<img src="/assets/img/hero.png" alt=""></body></html>`

	assets := fstest.MapFS{"css/site.css": {Data: []byte("body{}")}}
	findings, err := New(nil).WithAssets(assets).Check("/x/", strings.NewReader(page))
	require.NoError(t, err)

	var missing []string
	for _, f := range findings {
		require.Equal(t, RuleMissingAsset, f.Rule)
		missing = append(missing, f.Message)
	}
	require.ElementsMatch(t, []string{
		"asset /assets/img/hero.png does not exist",
		"asset /assets/img/logo.png does not exist",
	}, missing)

	withoutAssets, err := New(nil).Check("/x/", strings.NewReader(page))
	require.NoError(t, err)
	require.Empty(t, withoutAssets)
}
