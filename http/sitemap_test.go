package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/pagemark/pagemark"
	pagemarkhttp "github.com/pagemark/pagemark/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSitemapFixture serves the given path->content mapping. Content may
// contain {{BASE}} which is replaced with the fixture's URL.
func newSitemapFixture(t *testing.T, content map[string]string) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := content[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		body = strings.ReplaceAll(body, "{{BASE}}", srv.URL)

		if r.URL.Path == "/robots.txt" {
			w.Header().Set("Content-Type", "text/plain")
		} else {
			w.Header().Set("Content-Type", "application/xml")
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestSitemapService_DiscoverURLs(t *testing.T) {
	t.Parallel()

	urlset := func(paths ...string) string {
		var sb strings.Builder
		sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
		sb.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
		for _, p := range paths {
			sb.WriteString("  <url><loc>{{BASE}}" + p + "</loc></url>\n")
		}
		sb.WriteString("</urlset>")
		return sb.String()
	}

	t.Run("FromRobotsTxt", func(t *testing.T) {
		t.Parallel()

		srv := newSitemapFixture(t, map[string]string{
			"/robots.txt":  "User-agent: *\nDisallow: /private/\nSitemap: {{BASE}}/sitemap.xml\n",
			"/sitemap.xml": urlset("/guide/install", "/guide/usage"),
		})

		svc := pagemarkhttp.NewSitemapService(srv.Client())
		urls, err := svc.DiscoverURLs(context.Background(), srv.URL, nil)

		require.NoError(t, err)
		assert.ElementsMatch(t, []string{srv.URL + "/guide/install", srv.URL + "/guide/usage"}, urls)
	})

	t.Run("FallbackToSitemapXML", func(t *testing.T) {
		t.Parallel()

		srv := newSitemapFixture(t, map[string]string{
			"/sitemap.xml": urlset("/page"),
		})

		svc := pagemarkhttp.NewSitemapService(srv.Client())
		urls, err := svc.DiscoverURLs(context.Background(), srv.URL, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{srv.URL + "/page"}, urls)
	})

	t.Run("SitemapIndexRecursion", func(t *testing.T) {
		t.Parallel()

		index := `<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>{{BASE}}/sitemap-guide.xml</loc></sitemap>
  <sitemap><loc>{{BASE}}/sitemap-blog.xml</loc></sitemap>
</sitemapindex>`

		srv := newSitemapFixture(t, map[string]string{
			"/sitemap.xml":       index,
			"/sitemap-guide.xml": urlset("/guide/install"),
			"/sitemap-blog.xml":  urlset("/blog/launch"),
		})

		svc := pagemarkhttp.NewSitemapService(srv.Client())
		urls, err := svc.DiscoverURLs(context.Background(), srv.URL, nil)

		require.NoError(t, err)
		assert.ElementsMatch(t, []string{srv.URL + "/guide/install", srv.URL + "/blog/launch"}, urls)
	})

	t.Run("DeduplicatesAcrossSitemaps", func(t *testing.T) {
		t.Parallel()

		srv := newSitemapFixture(t, map[string]string{
			"/robots.txt":   "Sitemap: {{BASE}}/sitemap1.xml\nSitemap: {{BASE}}/sitemap2.xml\n",
			"/sitemap1.xml": urlset("/page", "/other"),
			"/sitemap2.xml": urlset("/page"),
		})

		svc := pagemarkhttp.NewSitemapService(srv.Client())
		urls, err := svc.DiscoverURLs(context.Background(), srv.URL, nil)

		require.NoError(t, err)
		assert.ElementsMatch(t, []string{srv.URL + "/page", srv.URL + "/other"}, urls)
	})

	t.Run("PathPrefixFiltering", func(t *testing.T) {
		t.Parallel()

		srv := newSitemapFixture(t, map[string]string{
			"/sitemap.xml": urlset("/docs/intro", "/docs/guide", "/documentation/old", "/blog/post"),
		})

		svc := pagemarkhttp.NewSitemapService(srv.Client())
		urls, err := svc.DiscoverURLs(context.Background(), srv.URL+"/docs/", nil)

		require.NoError(t, err)
		assert.ElementsMatch(t, []string{srv.URL + "/docs/intro", srv.URL + "/docs/guide"}, urls)
	})

	t.Run("IncludeFilter", func(t *testing.T) {
		t.Parallel()

		srv := newSitemapFixture(t, map[string]string{
			"/sitemap.xml": urlset("/docs/intro", "/blog/post", "/docs/guide"),
		})

		filter := &pagemark.URLFilter{
			Include: []*regexp.Regexp{regexp.MustCompile(`/docs/`)},
		}

		svc := pagemarkhttp.NewSitemapService(srv.Client())
		urls, err := svc.DiscoverURLs(context.Background(), srv.URL, filter)

		require.NoError(t, err)
		assert.Len(t, urls, 2)
	})

	t.Run("ExcludeFilter", func(t *testing.T) {
		t.Parallel()

		srv := newSitemapFixture(t, map[string]string{
			"/sitemap.xml": urlset("/docs/intro", "/docs/internal/debug", "/docs/guide"),
		})

		filter := &pagemark.URLFilter{
			Exclude: []*regexp.Regexp{regexp.MustCompile(`/internal/`)},
		}

		svc := pagemarkhttp.NewSitemapService(srv.Client())
		urls, err := svc.DiscoverURLs(context.Background(), srv.URL, filter)

		require.NoError(t, err)
		assert.NotContains(t, urls, srv.URL+"/docs/internal/debug")
		assert.Len(t, urls, 2)
	})

	t.Run("NoSitemapFound", func(t *testing.T) {
		t.Parallel()

		srv := newSitemapFixture(t, map[string]string{})

		svc := pagemarkhttp.NewSitemapService(srv.Client())
		urls, err := svc.DiscoverURLs(context.Background(), srv.URL, nil)

		require.NoError(t, err)
		assert.Empty(t, urls)
		assert.NotNil(t, urls)
	})

	t.Run("ContextCancellation", func(t *testing.T) {
		t.Parallel()

		srv := newSitemapFixture(t, map[string]string{
			"/sitemap.xml": urlset("/page"),
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		svc := pagemarkhttp.NewSitemapService(srv.Client())
		_, err := svc.DiscoverURLs(ctx, srv.URL, nil)

		require.ErrorIs(t, err, context.Canceled)
	})
}
