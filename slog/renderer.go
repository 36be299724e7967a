package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/pagemark/pagemark"
)

// Ensure LoggingRenderer implements pagemark.Renderer.
var _ pagemark.Renderer = (*LoggingRenderer)(nil)

// LoggingRenderer wraps a Renderer with render timing logs.
type LoggingRenderer struct {
	next   pagemark.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next pagemark.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// Render delegates to the wrapped renderer and logs the operation.
func (r *LoggingRenderer) Render(ctx context.Context, url string) (page *pagemark.RenderedPage, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		}
		if page != nil {
			attrs = append(attrs, "status", page.StatusCode, "bytes", len(page.HTML))
		}
		r.logger.Info("page render", attrs...)
	}(time.Now())
	return r.next.Render(ctx, url)
}

// Close delegates to the wrapped renderer.
func (r *LoggingRenderer) Close() error {
	return r.next.Close()
}
