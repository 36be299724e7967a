// Package crawl orchestrates batch site conversion: sitemap discovery,
// URL safety gating, concurrent rendering, Markdown conversion, and
// page storage.
package crawl

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pagemark/pagemark"
	"github.com/pagemark/pagemark/bloom"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of pages converted in parallel when
// Crawler.Concurrency is unset.
const DefaultConcurrency = 4

// Crawler converts every page of a site to Markdown. URLs are
// discovered from sitemaps, deduplicated with a Bloom filter, gated
// through the safety validator, and converted concurrently. Failed
// pages are counted and skipped; there are no retries.
type Crawler struct {
	Sitemaps  pagemark.SitemapService
	Validator pagemark.URLValidator
	Renderer  pagemark.Renderer
	Converter *pagemark.DocumentConverter
	Writer    pagemark.PageWriter
	Limiter   pagemark.DomainLimiter

	// Concurrency is the number of pages processed in parallel.
	// Zero means DefaultConcurrency.
	Concurrency int
}

// Result holds the outcome of a crawl operation.
type Result struct {
	Converted int
	Denied    int
	Failed    int
	Bytes     int
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressConverted
	ProgressDenied
	ProgressFailed
	ProgressFinished
)

// ProgressEvent reports progress during a crawl operation.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// CrawlSite discovers, converts, and stores every page under baseURL.
// The progress callback, if provided, receives events as the crawl
// proceeds. Per-page failures are recorded in the result rather than
// aborting the crawl; only discovery failures and context cancellation
// return an error.
func (c *Crawler) CrawlSite(ctx context.Context, baseURL string, filter *pagemark.URLFilter, progress ProgressFunc) (*Result, error) {
	urls, err := c.Sitemaps.DiscoverURLs(ctx, baseURL, filter)
	if err != nil {
		return nil, fmt.Errorf("sitemap discovery: %w", err)
	}
	urls = dedupe(urls)

	notify := progress
	if notify == nil {
		notify = func(ProgressEvent) {}
	}

	total := len(urls)
	notify(ProgressEvent{Type: ProgressStarted, Total: total})

	if total == 0 {
		notify(ProgressEvent{Type: ProgressFinished, Total: 0})
		return &Result{}, nil
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var (
		converted atomic.Int64
		denied    atomic.Int64
		failed    atomic.Int64
		bytes     atomic.Int64
		completed atomic.Int64
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, pageURL := range urls {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			n, err := c.convertPage(ctx, pageURL)
			done := int(completed.Add(1))

			switch {
			case err == nil:
				converted.Add(1)
				bytes.Add(int64(n))
				notify(ProgressEvent{Type: ProgressConverted, Completed: done, Total: total, URL: pageURL})
			case pagemark.ErrorCode(err) == pagemark.EFORBIDDEN:
				denied.Add(1)
				notify(ProgressEvent{Type: ProgressDenied, Completed: done, Total: total, URL: pageURL, Error: err})
			default:
				failed.Add(1)
				notify(ProgressEvent{Type: ProgressFailed, Completed: done, Total: total, URL: pageURL, Error: err})
			}

			// Cancellation is the only per-page error that stops the crawl.
			return ctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{
		Converted: int(converted.Load()),
		Denied:    int(denied.Load()),
		Failed:    int(failed.Load()),
		Bytes:     int(bytes.Load()),
	}
	notify(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	return result, nil
}

// convertPage runs the full pipeline for one URL and returns the number
// of Markdown bytes written.
func (c *Crawler) convertPage(ctx context.Context, pageURL string) (int, error) {
	if _, err := c.Validator.Validate(ctx, pageURL); err != nil {
		return 0, err
	}

	if c.Limiter != nil {
		domain, err := hostOf(pageURL)
		if err != nil {
			return 0, err
		}
		if err := c.Limiter.Wait(ctx, domain); err != nil {
			return 0, err
		}
	}

	page, err := c.Renderer.Render(ctx, pageURL)
	if err != nil {
		return 0, err
	}
	if page.HTML == "" {
		return 0, pagemark.Errorf(pagemark.ENOTFOUND, "no content rendered for %s", pageURL)
	}

	base := page.FinalURL
	if base == "" {
		base = pageURL
	}
	result, err := c.Converter.Convert(page.HTML, base)
	if err != nil {
		return 0, err
	}

	err = c.Writer.WritePage(ctx, &pagemark.ConvertedPage{
		SourceURL:   pageURL,
		Title:       page.Title,
		Markdown:    result.Markdown,
		Stats:       result.Stats,
		ConvertedAt: time.Now().UTC(),
	})
	if err != nil {
		return 0, err
	}

	return len(result.Markdown), nil
}

// dedupe drops repeated URLs while preserving order, using a Bloom
// filter as the seen set. URL fragments are stripped before
// deduplication - URLs differing only by fragment are considered
// duplicates. A false positive drops a URL from the crawl, which is an
// acceptable trade for constant memory on large sitemaps.
func dedupe(urls []string) []string {
	seen := bloom.NewFilter(uint(max(len(urls), 1)), 0.001)

	out := urls[:0]
	for _, u := range urls {
		if idx := strings.Index(u, "#"); idx != -1 {
			u = u[:idx]
		}
		if seen.Test(u) {
			continue
		}
		seen.Add(u)
		out = append(out, u)
	}
	return out
}

func hostOf(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", pagemark.Errorf(pagemark.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	return parsed.Hostname(), nil
}
