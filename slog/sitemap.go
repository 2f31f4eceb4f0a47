package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/stankin-rag/priem"
)

// Ensure LoggingSitemapService implements priem.SitemapService.
var _ priem.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService reports how many URLs each discovery found.
type LoggingSitemapService struct {
	next   priem.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService wraps next.
func NewLoggingSitemapService(next priem.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *priem.URLFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		logDone(ctx, s.logger, slog.LevelInfo, "sitemap discovery", begin, err, "url", baseURL, "count", len(urls))
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, filter)
}
