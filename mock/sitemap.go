package mock

import (
	"context"

	"github.com/pagemark/pagemark"
)

var _ pagemark.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of pagemark.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *pagemark.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *pagemark.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}

var _ pagemark.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of pagemark.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	if d.WaitFn == nil {
		return nil
	}
	return d.WaitFn(ctx, domain)
}
