package pagemark

import (
	"context"
	"regexp"
)

// SitemapService discovers page URLs for a site.
type SitemapService interface {
	// DiscoverURLs returns the URLs listed in the site's sitemaps.
	// Implementations consult robots.txt for Sitemap directives before
	// falling back to /sitemap.xml, and resolve sitemap indexes
	// recursively. A nil filter returns every URL.
	DiscoverURLs(ctx context.Context, baseURL string, filter *URLFilter) ([]string, error)
}

// URLFilter selects URLs by regular expression. Include is applied
// first; when non-empty, a URL must match at least one include pattern.
// Exclude then removes any URL matching one of its patterns.
type URLFilter struct {
	Include []*regexp.Regexp
	Exclude []*regexp.Regexp
}

// Match reports whether the URL passes the filter. A nil filter passes
// everything.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}

	if len(f.Include) > 0 && !matchesAny(f.Include, url) {
		return false
	}
	return !matchesAny(f.Exclude, url)
}

func matchesAny(patterns []*regexp.Regexp, url string) bool {
	for _, re := range patterns {
		if re.MatchString(url) {
			return true
		}
	}
	return false
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
