// Package slog decorates priem services with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"
)

// logDone writes one record for a finished call. Failures are logged at
// WARN with the error; successes at level.
func logDone(ctx context.Context, logger *slog.Logger, level slog.Level, msg string, begin time.Time, err error, attrs ...any) {
	attrs = append(attrs, "duration", time.Since(begin))
	if err != nil {
		logger.WarnContext(ctx, msg, append(attrs, "err", err)...)
		return
	}
	logger.Log(ctx, level, msg, attrs...)
}
