// Package slog provides log/slog logging decorators for pagemark
// services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/pagemark/pagemark"
)

// Ensure LoggingValidator implements pagemark.URLValidator.
var _ pagemark.URLValidator = (*LoggingValidator)(nil)

// LoggingValidator wraps a URLValidator and logs every verdict.
type LoggingValidator struct {
	next   pagemark.URLValidator
	logger *slog.Logger
}

// NewLoggingValidator creates a new LoggingValidator.
func NewLoggingValidator(next pagemark.URLValidator, logger *slog.Logger) *LoggingValidator {
	return &LoggingValidator{next: next, logger: logger}
}

// Validate delegates to the wrapped validator and logs the outcome.
func (v *LoggingValidator) Validate(ctx context.Context, rawURL string) (verdict *pagemark.Verdict, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", rawURL,
			"duration", time.Since(begin),
			"err", err,
		}
		if verdict != nil {
			attrs = append(attrs, "allowed", verdict.Allowed)
			if verdict.Denial != "" {
				attrs = append(attrs, "denial_reason", string(verdict.Denial))
			}
		}
		v.logger.Info("url validation", attrs...)
	}(time.Now())
	return v.next.Validate(ctx, rawURL)
}
