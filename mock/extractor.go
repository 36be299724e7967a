package mock

import "github.com/pagemark/pagemark"

var _ pagemark.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of pagemark.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*pagemark.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*pagemark.ExtractResult, error) {
	return e.ExtractFn(html)
}
