package mock

import (
	"context"

	"github.com/pagemark/pagemark"
)

var _ pagemark.ThreatAnalyzer = (*ThreatAnalyzer)(nil)

// ThreatAnalyzer is a mock implementation of pagemark.ThreatAnalyzer.
type ThreatAnalyzer struct {
	AnalyzeFn func(ctx context.Context, indicator string) (*pagemark.ThreatReport, error)
}

func (a *ThreatAnalyzer) Analyze(ctx context.Context, indicator string) (*pagemark.ThreatReport, error) {
	return a.AnalyzeFn(ctx, indicator)
}
