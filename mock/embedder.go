package mock

import (
	"context"

	"github.com/stankin-rag/priem"
)

var (
	_ priem.Embedder = (*Embedder)(nil)
	_ priem.Chunker  = (*Chunker)(nil)
)

// Embedder is a mock implementation of priem.Embedder.
type Embedder struct {
	EmbedFn func(ctx context.Context, texts []string) ([][]float32, error)
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return e.EmbedFn(ctx, texts)
}

// Chunker is a mock implementation of priem.Chunker.
type Chunker struct {
	SplitFn func(text string) []string
}

func (c *Chunker) Split(text string) []string {
	return c.SplitFn(text)
}
