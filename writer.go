package pagemark

import (
	"context"
	"time"
)

// ConvertedPage is a converted page destined for storage during batch
// site conversion.
type ConvertedPage struct {
	SourceURL   string
	Title       string
	Markdown    string
	Stats       ConversionStats
	ConvertedAt time.Time
}

// Validate returns an error if the page contains invalid fields.
func (p *ConvertedPage) Validate() error {
	if p.SourceURL == "" {
		return Errorf(EINVALID, "page source URL required")
	}
	if p.Markdown == "" {
		return Errorf(EINVALID, "page markdown required")
	}
	return nil
}

// PageWriter persists converted pages.
type PageWriter interface {
	WritePage(ctx context.Context, page *ConvertedPage) error
}
