package mock

import (
	"context"

	"github.com/pagemark/pagemark"
)

var _ pagemark.URLValidator = (*URLValidator)(nil)

// URLValidator is a mock implementation of pagemark.URLValidator.
type URLValidator struct {
	ValidateFn func(ctx context.Context, rawURL string) (*pagemark.Verdict, error)
}

func (v *URLValidator) Validate(ctx context.Context, rawURL string) (*pagemark.Verdict, error) {
	return v.ValidateFn(ctx, rawURL)
}
