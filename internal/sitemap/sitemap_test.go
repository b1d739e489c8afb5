package sitemap

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bayshorebuild.com/site-web/internal/cms"
)

func TestBuildAndEncode(t *testing.T) {
	pages := []*cms.Page{
		{Route: "/", Kind: cms.KindHome},
		{Route: "/balcony-reconstruction-lakeland/", Kind: cms.KindLocation},
		{Route: "/blog/checklist/", Kind: cms.KindArticle, Article: &cms.ArticleInfo{
			Published: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
			Updated:   time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		}},
	}
	set := Build("https://www.bayshorebuild.com/", pages)
	require.Len(t, set.URLs, 3)
	require.Equal(t, "https://www.bayshorebuild.com/", set.URLs[0].Loc)
	require.Equal(t, "1.0", set.URLs[0].Priority)
	require.Empty(t, set.URLs[1].LastMod)
	require.Equal(t, "2025-06-02", set.URLs[2].LastMod)

	var buf bytes.Buffer
	require.NoError(t, set.Encode(&buf))
	require.True(t, strings.HasPrefix(buf.String(), xml.Header))
	require.Contains(t, buf.String(), `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	require.NotContains(t, buf.String(), "<lastmod></lastmod>")

	var decoded URLSet
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, set.URLs, decoded.URLs)
}

func TestRobots(t *testing.T) {
	robots := Robots("https://www.bayshorebuild.com")
	require.Contains(t, robots, "Sitemap: https://www.bayshorebuild.com/sitemap.xml")

	blocked, err := Blocked(robots, []string{"/", "/faq/"})
	require.NoError(t, err)
	require.Empty(t, blocked)

	strict := Robots("https://www.bayshorebuild.com", "/blog/")
	blocked, err = Blocked(strict, []string{"/", "/blog/concrete-spalling-causes/", "/faq/"})
	require.NoError(t, err)
	require.Equal(t, []string{"/blog/concrete-spalling-causes/"}, blocked)
}
