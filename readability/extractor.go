// Package readability provides a go-readability based implementation of
// pagemark.Extractor.
package readability

import (
	"strings"

	"github.com/go-shiori/go-readability"
	"github.com/pagemark/pagemark"
)

// Ensure Extractor implements pagemark.Extractor at compile time.
var _ pagemark.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*pagemark.ExtractResult, error) {
	if rawHTML == "" {
		return nil, pagemark.Errorf(pagemark.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &pagemark.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
