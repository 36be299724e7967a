package mock

import (
	"context"

	"github.com/pagemark/pagemark"
)

var _ pagemark.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of pagemark.Renderer.
type Renderer struct {
	RenderFn func(ctx context.Context, url string) (*pagemark.RenderedPage, error)
	CloseFn  func() error
}

func (r *Renderer) Render(ctx context.Context, url string) (*pagemark.RenderedPage, error) {
	return r.RenderFn(ctx, url)
}

func (r *Renderer) Close() error {
	if r.CloseFn == nil {
		return nil
	}
	return r.CloseFn()
}
