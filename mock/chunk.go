package mock

import (
	"context"

	"github.com/stankin-rag/priem"
)

var _ priem.ChunkService = (*ChunkService)(nil)

// ChunkService is a mock implementation of priem.ChunkService.
type ChunkService struct {
	CreateChunksFn             func(ctx context.Context, chunks []*priem.Chunk) error
	SearchFn                   func(ctx context.Context, embedding []float32, opts priem.SearchOptions) ([]priem.SearchResult, error)
	DeleteChunksBySourceTypeFn func(ctx context.Context, sourceType string) error
	ReplaceChunksFn            func(ctx context.Context, sourceType string, chunks []*priem.Chunk) error
	CountChunksFn              func(ctx context.Context) (map[string]int, error)
}

func (s *ChunkService) CreateChunks(ctx context.Context, chunks []*priem.Chunk) error {
	return s.CreateChunksFn(ctx, chunks)
}

func (s *ChunkService) Search(ctx context.Context, embedding []float32, opts priem.SearchOptions) ([]priem.SearchResult, error) {
	return s.SearchFn(ctx, embedding, opts)
}

func (s *ChunkService) DeleteChunksBySourceType(ctx context.Context, sourceType string) error {
	return s.DeleteChunksBySourceTypeFn(ctx, sourceType)
}

func (s *ChunkService) ReplaceChunks(ctx context.Context, sourceType string, chunks []*priem.Chunk) error {
	return s.ReplaceChunksFn(ctx, sourceType, chunks)
}

func (s *ChunkService) CountChunks(ctx context.Context) (map[string]int, error) {
	return s.CountChunksFn(ctx)
}
