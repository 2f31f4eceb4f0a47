package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/stankin-rag/priem"
)

// DefaultRetryDelays returns the backoff between fetch attempts: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetry fetches url, retrying after each delay in turn. A page the
// server reports missing is not retried.
func FetchWithRetry(ctx context.Context, fetcher priem.Fetcher, url string, delays []time.Duration, logger *slog.Logger) (string, error) {
	logger = orDiscard(logger)

	var err error
	for attempt := 0; ; attempt++ {
		var html string
		if html, err = fetcher.Fetch(ctx, url); err == nil {
			return html, nil
		}
		if attempt >= len(delays) || priem.ErrorCode(err) == priem.ENOTFOUND || ctx.Err() != nil {
			return "", err
		}

		logger.Debug("fetch retry", "url", url, "attempt", attempt+2, "err", err)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}
}
