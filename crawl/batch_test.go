package crawl_test

import (
	"context"
	"sync"
	"testing"

	"github.com/pagemark/pagemark"
	"github.com/pagemark/pagemark/crawl"
	"github.com/pagemark/pagemark/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newCrawler wires a Crawler from permissive mocks. The written pages
// are collected into the returned slice, guarded by the returned mutex.
func newCrawler(urls []string) (*crawl.Crawler, *[]pagemark.ConvertedPage, *sync.Mutex) {
	var (
		mu    sync.Mutex
		pages []pagemark.ConvertedPage
	)

	c := &crawl.Crawler{
		Sitemaps: &mock.SitemapService{
			DiscoverURLsFn: func(ctx context.Context, baseURL string, filter *pagemark.URLFilter) ([]string, error) {
				return urls, nil
			},
		},
		Validator: &mock.URLValidator{
			ValidateFn: func(ctx context.Context, rawURL string) (*pagemark.Verdict, error) {
				return &pagemark.Verdict{Allowed: true}, nil
			},
		},
		Renderer: &mock.Renderer{
			RenderFn: func(ctx context.Context, url string) (*pagemark.RenderedPage, error) {
				return &pagemark.RenderedPage{
					HTML:     "<h1>Page</h1>",
					FinalURL: url,
					Title:    "Page",
				}, nil
			},
		},
		Converter: &pagemark.DocumentConverter{
			Converter: &mock.Converter{
				ConvertFn: func(html string) (string, error) {
					return "# Page", nil
				},
			},
		},
		Writer: &mock.PageWriter{
			WritePageFn: func(ctx context.Context, page *pagemark.ConvertedPage) error {
				mu.Lock()
				defer mu.Unlock()
				pages = append(pages, *page)
				return nil
			},
		},
	}
	return c, &pages, &mu
}

func TestCrawler_CrawlSite(t *testing.T) {
	t.Parallel()

	t.Run("ConvertsAllDiscoveredPages", func(t *testing.T) {
		t.Parallel()

		c, pages, _ := newCrawler([]string{
			"https://example.com/a",
			"https://example.com/b",
			"https://example.com/c",
		})

		result, err := c.CrawlSite(context.Background(), "https://example.com", nil, nil)

		require.NoError(t, err)
		assert.Equal(t, 3, result.Converted)
		assert.Zero(t, result.Failed)
		assert.Len(t, *pages, 3)
		// Each page is "# Page\n" after normalization.
		assert.Equal(t, 3*len("# Page\n"), result.Bytes)
	})

	t.Run("EmptyDiscovery", func(t *testing.T) {
		t.Parallel()

		c, pages, _ := newCrawler(nil)

		result, err := c.CrawlSite(context.Background(), "https://example.com", nil, nil)

		require.NoError(t, err)
		assert.Zero(t, result.Converted)
		assert.Empty(t, *pages)
	})

	t.Run("DeduplicatesURLs", func(t *testing.T) {
		t.Parallel()

		c, pages, _ := newCrawler([]string{
			"https://example.com/a",
			"https://example.com/a",
			"https://example.com/a#section",
		})

		result, err := c.CrawlSite(context.Background(), "https://example.com", nil, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Converted)
		assert.Len(t, *pages, 1)
	})

	t.Run("DeniedURLsAreCountedNotConverted", func(t *testing.T) {
		t.Parallel()

		c, pages, _ := newCrawler([]string{
			"https://example.com/ok",
			"https://blocked.example.com/page",
		})
		c.Validator = &mock.URLValidator{
			ValidateFn: func(ctx context.Context, rawURL string) (*pagemark.Verdict, error) {
				if rawURL == "https://blocked.example.com/page" {
					return &pagemark.Verdict{Denial: pagemark.DenialDomainBlocked},
						pagemark.Errorf(pagemark.EFORBIDDEN, "Domain 'blocked.example.com' is blocked")
				}
				return &pagemark.Verdict{Allowed: true}, nil
			},
		}

		result, err := c.CrawlSite(context.Background(), "https://example.com", nil, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Converted)
		assert.Equal(t, 1, result.Denied)
		assert.Len(t, *pages, 1)
		assert.Equal(t, "https://example.com/ok", (*pages)[0].SourceURL)
	})

	t.Run("RenderFailureDoesNotAbortCrawl", func(t *testing.T) {
		t.Parallel()

		c, pages, _ := newCrawler([]string{
			"https://example.com/good",
			"https://example.com/bad",
		})
		c.Renderer = &mock.Renderer{
			RenderFn: func(ctx context.Context, url string) (*pagemark.RenderedPage, error) {
				if url == "https://example.com/bad" {
					return nil, pagemark.Errorf(pagemark.EUNAVAILABLE, "navigation failed")
				}
				return &pagemark.RenderedPage{HTML: "<p>ok</p>", FinalURL: url}, nil
			},
		}

		result, err := c.CrawlSite(context.Background(), "https://example.com", nil, nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Converted)
		assert.Equal(t, 1, result.Failed)
		assert.Len(t, *pages, 1)
	})

	t.Run("WaitsOnDomainLimiter", func(t *testing.T) {
		t.Parallel()

		var (
			mu      sync.Mutex
			domains []string
		)
		c, _, _ := newCrawler([]string{"https://a.example.com/x", "https://b.example.com/y"})
		c.Limiter = &mock.DomainLimiter{
			WaitFn: func(ctx context.Context, domain string) error {
				mu.Lock()
				defer mu.Unlock()
				domains = append(domains, domain)
				return nil
			},
		}

		_, err := c.CrawlSite(context.Background(), "https://example.com", nil, nil)

		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"a.example.com", "b.example.com"}, domains)
	})

	t.Run("ReportsProgress", func(t *testing.T) {
		t.Parallel()

		c, _, _ := newCrawler([]string{"https://example.com/a", "https://example.com/b"})
		c.Concurrency = 1

		var (
			mu     sync.Mutex
			events []crawl.ProgressEvent
		)
		_, err := c.CrawlSite(context.Background(), "https://example.com", nil, func(e crawl.ProgressEvent) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, e)
		})

		require.NoError(t, err)
		require.Len(t, events, 4)
		assert.Equal(t, crawl.ProgressStarted, events[0].Type)
		assert.Equal(t, 2, events[0].Total)
		assert.Equal(t, crawl.ProgressConverted, events[1].Type)
		assert.Equal(t, crawl.ProgressFinished, events[3].Type)
	})

	t.Run("DiscoveryErrorAborts", func(t *testing.T) {
		t.Parallel()

		c, _, _ := newCrawler(nil)
		c.Sitemaps = &mock.SitemapService{
			DiscoverURLsFn: func(ctx context.Context, baseURL string, filter *pagemark.URLFilter) ([]string, error) {
				return nil, assert.AnError
			},
		}

		_, err := c.CrawlSite(context.Background(), "https://example.com", nil, nil)
		require.Error(t, err)
	})

	t.Run("CancellationStopsCrawl", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		c, _, _ := newCrawler([]string{"https://example.com/a"})

		_, err := c.CrawlSite(ctx, "https://example.com", nil, nil)
		require.Error(t, err)
	})
}
