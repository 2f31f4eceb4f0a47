package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/stankin-rag/priem"
)

// Ensure LoggingNormalizer implements priem.Normalizer.
var _ priem.Normalizer = (*LoggingNormalizer)(nil)

// LoggingNormalizer records how much text survives normalization.
type LoggingNormalizer struct {
	next   priem.Normalizer
	logger *slog.Logger
}

// NewLoggingNormalizer wraps next.
func NewLoggingNormalizer(next priem.Normalizer, logger *slog.Logger) *LoggingNormalizer {
	return &LoggingNormalizer{next: next, logger: logger}
}

func (n *LoggingNormalizer) Normalize(page *priem.RawPage) (text *priem.NormalizedText, err error) {
	defer func(begin time.Time) {
		chars := 0
		if text != nil {
			chars = len([]rune(text.Text))
		}
		logDone(context.Background(), n.logger, slog.LevelDebug, "normalize", begin, err,
			"url", page.URL, "html_bytes", len(page.HTML), "chars", chars)
	}(time.Now())
	return n.next.Normalize(page)
}
