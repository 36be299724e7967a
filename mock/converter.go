package mock

import "github.com/pagemark/pagemark"

var _ pagemark.Converter = (*Converter)(nil)

// Converter is a mock implementation of pagemark.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ pagemark.Rewriter = (*Rewriter)(nil)

// Rewriter is a mock implementation of pagemark.Rewriter.
type Rewriter struct {
	AbsolutizeFn func(html string, baseURL string) (string, error)
}

func (r *Rewriter) Absolutize(html string, baseURL string) (string, error) {
	return r.AbsolutizeFn(html, baseURL)
}

var _ pagemark.StatsCollector = (*StatsCollector)(nil)

// StatsCollector is a mock implementation of pagemark.StatsCollector.
type StatsCollector struct {
	ComputeStatsFn func(html string, markdown string) pagemark.ConversionStats
}

func (s *StatsCollector) ComputeStats(html string, markdown string) pagemark.ConversionStats {
	return s.ComputeStatsFn(html, markdown)
}
