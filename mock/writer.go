package mock

import (
	"context"

	"github.com/pagemark/pagemark"
)

var _ pagemark.PageWriter = (*PageWriter)(nil)

// PageWriter is a mock implementation of pagemark.PageWriter.
type PageWriter struct {
	WritePageFn func(ctx context.Context, page *pagemark.ConvertedPage) error
}

func (w *PageWriter) WritePage(ctx context.Context, page *pagemark.ConvertedPage) error {
	return w.WritePageFn(ctx, page)
}
