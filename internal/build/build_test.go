package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"bayshorebuild.com/site-web/content"
	"bayshorebuild.com/site-web/internal/cms"
	"bayshorebuild.com/site-web/internal/render"
	"bayshorebuild.com/site-web/internal/sitemap"
	"bayshorebuild.com/site-web/public"
	"bayshorebuild.com/site-web/templates"
)

func testOptions(t *testing.T) Options {
	t.Helper()
	site, err := cms.Load(content.FS())
	require.NoError(t, err)
	r, err := render.New(render.Options{Templates: templates.FS()})
	require.NoError(t, err)
	static, err := public.StaticFS()
	require.NoError(t, err)
	return Options{
		Site:        site,
		Renderer:    r,
		Static:      static,
		OutputDir:   filepath.Join(t.TempDir(), "dist"),
		BaseURL:     "https://www.bayshorebuild.com",
		Concurrency: 3,
		Strict:      true,
	}
}

func TestRunWritesSite(t *testing.T) {
	opts := testOptions(t)
	core, logs := observer.New(zapcore.InfoLevel)
	opts.Logger = zap.New(core)

	stale := filepath.Join(opts.OutputDir, "stale.html")
	require.NoError(t, os.MkdirAll(opts.OutputDir, 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	res, err := Run(context.Background(), opts)
	require.NoError(t, err)
	require.Equal(t, len(opts.Site.Pages()), res.Pages)
	require.Empty(t, res.Findings)
	require.Positive(t, res.Assets)

	require.NoFileExists(t, stale)
	for _, route := range opts.Site.Routes() {
		require.FileExists(t, filepath.Join(opts.OutputDir, routeFile(route)), route)
	}
	for _, name := range []string{"index.html", "404.html", "sitemap.xml", "robots.txt", "assets/css/site.css"} {
		require.FileExists(t, filepath.Join(opts.OutputDir, filepath.FromSlash(name)))
	}

	page, err := os.ReadFile(filepath.Join(opts.OutputDir, "balcony-reconstruction-lakeland", "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(page), "Balcony Reconstruction in Lakeland, FL")

	sm, err := os.ReadFile(filepath.Join(opts.OutputDir, "sitemap.xml"))
	require.NoError(t, err)
	require.Equal(t, len(opts.Site.Pages()), strings.Count(string(sm), "<loc>"))
	require.Contains(t, string(sm), "<loc>https://www.bayshorebuild.com/balcony-reconstruction-lakeland/</loc>")

	robots, err := os.ReadFile(filepath.Join(opts.OutputDir, "robots.txt"))
	require.NoError(t, err)
	blocked, err := sitemap.Blocked(string(robots), opts.Site.Routes())
	require.NoError(t, err)
	require.Empty(t, blocked)

	entries := logs.FilterMessage("build complete").All()
	require.Len(t, entries, 1)
	require.EqualValues(t, res.Pages, entries[0].ContextMap()["pages"])
}

func TestRunStrictFailsOnFindings(t *testing.T) {
	opts := testOptions(t)
	broken, err := render.New(render.Options{Templates: fstest.MapFS{
		"base.tmpl": {Data: []byte(`{{define "base"}}<html><head><title>{{.SEO.Title}}</title></head><body>{{with .Page}}<p>{{.Heading}}</p>{{end}}</body></html>{{end}}`)},
	}})
	require.NoError(t, err)
	opts.Renderer = broken

	res, err := Run(context.Background(), opts)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrAuditFailed))
	require.NotEmpty(t, res.Findings)
	for i := 1; i < len(res.Findings); i++ {
		require.LessOrEqual(t, res.Findings[i-1].Route, res.Findings[i].Route)
	}

	opts.Strict = false
	opts.OutputDir = filepath.Join(t.TempDir(), "lenient")
	res, err = Run(context.Background(), opts)
	require.NoError(t, err)
	require.NotEmpty(t, res.Findings)
}

func TestRunHonoursCancellation(t *testing.T) {
	opts := testOptions(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, opts)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunRejectsUnsafeOutputDir(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	src := t.TempDir()
	contentDir := filepath.Join(src, "content")
	marker := filepath.Join(contentDir, "site.yaml")
	require.NoError(t, os.MkdirAll(contentDir, 0o755))
	require.NoError(t, os.WriteFile(marker, []byte("business: {}"), 0o644))

	tests := []struct {
		name string
		dir  string
	}{
		{name: "empty", dir: ""},
		{name: "working directory", dir: "."},
		{name: "root", dir: "/"},
		{name: "parent", dir: ".."},
		{name: "grandparent", dir: "../.."},
		{name: "absolute parent", dir: filepath.Dir(wd)},
		{name: "source directory", dir: contentDir},
		{name: "parent of source directory", dir: src},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions(t)
			opts.OutputDir = tt.dir
			opts.Protect = []string{contentDir}
			_, err := Run(context.Background(), opts)
			require.Error(t, err)
			require.Contains(t, err.Error(), "output directory")
		})
	}
	require.FileExists(t, marker)
	require.DirExists(t, wd)
}

func TestRunFailsWhenRobotsHidesPages(t *testing.T) {
	opts := testOptions(t)
	previous := filepath.Join(opts.OutputDir, "index.html")
	require.NoError(t, os.MkdirAll(opts.OutputDir, 0o755))
	require.NoError(t, os.WriteFile(previous, []byte("previous build"), 0o644))

	opts.Disallow = []string{"/faq/"}
	_, err := Run(context.Background(), opts)
	require.ErrorIs(t, err, ErrRobotsBlocksPages)
	require.Contains(t, err.Error(), "/faq/")
	require.FileExists(t, previous, "a rejected build leaves the old output alone")

	opts.Disallow = []string{"/drafts/"}
	_, err = Run(context.Background(), opts)
	require.NoError(t, err)
	robots, err := os.ReadFile(filepath.Join(opts.OutputDir, "robots.txt"))
	require.NoError(t, err)
	require.Contains(t, string(robots), "Disallow: /drafts/")
}

func TestRouteFile(t *testing.T) {
	require.Equal(t, "index.html", routeFile("/"))
	require.Equal(t, filepath.Join("blog", "first-post", "index.html"), routeFile("/blog/first-post/"))
}
