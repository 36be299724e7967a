package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/pagemark/pagemark"
)

// Ensure LoggingAnalyzer implements pagemark.ThreatAnalyzer.
var _ pagemark.ThreatAnalyzer = (*LoggingAnalyzer)(nil)

// LoggingAnalyzer wraps a ThreatAnalyzer with lookup logging.
type LoggingAnalyzer struct {
	next   pagemark.ThreatAnalyzer
	logger *slog.Logger
}

// NewLoggingAnalyzer creates a new LoggingAnalyzer.
func NewLoggingAnalyzer(next pagemark.ThreatAnalyzer, logger *slog.Logger) *LoggingAnalyzer {
	return &LoggingAnalyzer{next: next, logger: logger}
}

// Analyze delegates to the wrapped analyzer and logs the lookup.
func (a *LoggingAnalyzer) Analyze(ctx context.Context, indicator string) (report *pagemark.ThreatReport, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"indicator", indicator,
			"duration", time.Since(begin),
			"err", err,
		}
		if report != nil {
			attrs = append(attrs, "risk", string(report.Risk), "source", report.Source)
		}
		a.logger.Info("threat lookup", attrs...)
	}(time.Now())
	return a.next.Analyze(ctx, indicator)
}
