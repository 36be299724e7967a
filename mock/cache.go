package mock

import (
	"context"

	"github.com/pagemark/pagemark"
)

var _ pagemark.ConversionCache = (*ConversionCache)(nil)

// ConversionCache is a mock implementation of pagemark.ConversionCache.
type ConversionCache struct {
	GetFn func(ctx context.Context, url string) (*pagemark.CachedConversion, error)
	PutFn func(ctx context.Context, url string, result *pagemark.ConversionResult) error
}

func (c *ConversionCache) Get(ctx context.Context, url string) (*pagemark.CachedConversion, error) {
	return c.GetFn(ctx, url)
}

func (c *ConversionCache) Put(ctx context.Context, url string, result *pagemark.ConversionResult) error {
	return c.PutFn(ctx, url, result)
}
