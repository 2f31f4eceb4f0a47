package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/stankin-rag/priem"
)

// Ensure LoggingFetcher implements priem.Fetcher.
var _ priem.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher logs every page fetch with its size and latency.
type LoggingFetcher struct {
	next   priem.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher wraps next.
func NewLoggingFetcher(next priem.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		logDone(ctx, f.logger, slog.LevelDebug, "fetch", begin, err, "url", url, "bytes", len(html))
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
