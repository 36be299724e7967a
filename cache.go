package pagemark

import (
	"context"
	"time"
)

// CachedConversion is a stored conversion result with its source URL and
// creation time.
type CachedConversion struct {
	URL       string
	Result    ConversionResult
	CreatedAt time.Time
}

// ConversionCache stores conversion results keyed by URL.
type ConversionCache interface {
	// Get returns the cached conversion for a URL.
	// Returns ENOTFOUND on a cache miss.
	Get(ctx context.Context, url string) (*CachedConversion, error)

	// Put stores a conversion result, replacing any previous entry
	// for the same URL.
	Put(ctx context.Context, url string, result *ConversionResult) error
}
