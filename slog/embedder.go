package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/stankin-rag/priem"
)

// Ensure LoggingEmbedder implements priem.Embedder.
var _ priem.Embedder = (*LoggingEmbedder)(nil)

// LoggingEmbedder logs embedding batches.
type LoggingEmbedder struct {
	next   priem.Embedder
	logger *slog.Logger
}

// NewLoggingEmbedder wraps next.
func NewLoggingEmbedder(next priem.Embedder, logger *slog.Logger) *LoggingEmbedder {
	return &LoggingEmbedder{next: next, logger: logger}
}

func (e *LoggingEmbedder) Embed(ctx context.Context, texts []string) (vectors [][]float32, err error) {
	defer func(begin time.Time) {
		logDone(ctx, e.logger, slog.LevelDebug, "embed", begin, err, "texts", len(texts), "vectors", len(vectors))
	}(time.Now())
	return e.next.Embed(ctx, texts)
}
