package index_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stankin-rag/priem"
	"github.com/stankin-rag/priem/index"
	"github.com/stankin-rag/priem/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// store is an in-memory ChunkService.
type store struct {
	mu       sync.Mutex
	chunks   []*priem.Chunk
	batches  []int
	replaced []string
}

func (s *store) service() *mock.ChunkService {
	return &mock.ChunkService{
		CreateChunksFn: func(ctx context.Context, chunks []*priem.Chunk) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.chunks = append(s.chunks, chunks...)
			s.batches = append(s.batches, len(chunks))
			return nil
		},
		ReplaceChunksFn: func(ctx context.Context, sourceType string, chunks []*priem.Chunk) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.replaced = append(s.replaced, sourceType)
			s.chunks = append(s.chunks, chunks...)
			return nil
		},
	}
}

// lengthEmbedder embeds each text as its length.
func lengthEmbedder(calls *int) *mock.Embedder {
	var mu sync.Mutex
	return &mock.Embedder{
		EmbedFn: func(ctx context.Context, texts []string) ([][]float32, error) {
			mu.Lock()
			*calls++
			mu.Unlock()
			out := make([][]float32, len(texts))
			for i, t := range texts {
				out[i] = []float32{float32(len(t))}
			}
			return out, nil
		},
	}
}

func lineChunker() *mock.Chunker {
	return &mock.Chunker{
		SplitFn: func(text string) []string {
			return strings.Split(text, "\n")
		},
	}
}

func TestIndexer_Index(t *testing.T) {
	t.Parallel()

	t.Run("splits web pages and keeps other documents whole", func(t *testing.T) {
		t.Parallel()

		var s store
		calls := 0
		ix := &index.Indexer{Chunks: s.service(), Embedder: lengthEmbedder(&calls), Chunker: lineChunker()}

		result, err := ix.Index(context.Background(), []*priem.Document{
			{SourceURL: "https://stankin.ru/dorm", SourceType: priem.SourceWeb, Content: "a\nbb\nccc"},
			{SourceURL: "https://stankin.ru/priem", SourceType: priem.SourceTable, Content: "line one\nline two"},
		})

		require.NoError(t, err)
		assert.Equal(t, &index.Result{Documents: 2, Chunks: 4}, result)
		require.Len(t, s.chunks, 4)
		assert.Equal(t, "bb", s.chunks[1].Content)
		assert.Equal(t, 1, s.chunks[1].Position)
		assert.Equal(t, []float32{2}, s.chunks[1].Embedding)
		assert.Equal(t, "line one\nline two", s.chunks[3].Content)
		assert.Equal(t, 1, calls)
	})

	t.Run("links chunks to their document", func(t *testing.T) {
		t.Parallel()

		var s store
		calls := 0
		ix := &index.Indexer{
			Chunks:   s.service(),
			Embedder: lengthEmbedder(&calls),
			Now:      func() time.Time { return time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC) },
		}
		doc := &priem.Document{
			SourceURL:  "https://stankin.ru/priem",
			SourceType: priem.SourceTable,
			Content:    "Направление: 09.03.01",
			Metadata:   priem.Metadata{"program_code": "09.03.01"},
		}

		_, err := ix.Index(context.Background(), []*priem.Document{doc})

		require.NoError(t, err)
		assert.NotEmpty(t, doc.ID)
		assert.Len(t, doc.ContentHash, 16)
		assert.Equal(t, 2025, doc.CreatedAt.Year())
		require.Len(t, s.chunks, 1)
		c := s.chunks[0]
		assert.Equal(t, doc.ID, c.DocumentID)
		assert.Equal(t, doc.ContentHash, c.ContentHash)
		assert.Equal(t, "09.03.01", c.Metadata.String("program_code"))
		assert.Equal(t, doc.SourceURL, c.SourceURL)
	})

	t.Run("skips repeated chunk content", func(t *testing.T) {
		t.Parallel()

		var s store
		calls := 0
		ix := &index.Indexer{Chunks: s.service(), Embedder: lengthEmbedder(&calls), Chunker: lineChunker()}

		result, err := ix.Index(context.Background(), []*priem.Document{
			{SourceURL: "a", SourceType: priem.SourceWeb, Content: "Меню сайта\nПервая страница"},
			{SourceURL: "b", SourceType: priem.SourceWeb, Content: "Меню сайта\nВторая страница"},
		})

		require.NoError(t, err)
		assert.Equal(t, 3, result.Chunks)
		assert.Equal(t, 1, result.Duplicates)
	})

	t.Run("embeds and stores in batches", func(t *testing.T) {
		t.Parallel()

		var s store
		calls := 0
		ix := &index.Indexer{Chunks: s.service(), Embedder: lengthEmbedder(&calls), Chunker: lineChunker(), BatchSize: 2, Concurrency: 2}

		result, err := ix.Index(context.Background(), []*priem.Document{
			{SourceURL: "a", SourceType: priem.SourceWeb, Content: "1\n22\n333\n4444\n55555"},
		})

		require.NoError(t, err)
		assert.Equal(t, 5, result.Chunks)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []int{2, 2, 1}, s.batches)
		for _, c := range s.chunks {
			assert.Equal(t, []float32{float32(len(c.Content))}, c.Embedding)
		}
	})

	t.Run("rejects invalid documents", func(t *testing.T) {
		t.Parallel()

		var s store
		calls := 0
		ix := &index.Indexer{Chunks: s.service(), Embedder: lengthEmbedder(&calls)}

		_, err := ix.Index(context.Background(), []*priem.Document{{SourceType: priem.SourceWeb}})

		assert.Equal(t, priem.EINVALID, priem.ErrorCode(err))
		assert.Zero(t, calls)
	})

	t.Run("stores nothing when embedding fails", func(t *testing.T) {
		t.Parallel()

		var s store
		ix := &index.Indexer{
			Chunks: s.service(),
			Embedder: &mock.Embedder{
				EmbedFn: func(ctx context.Context, texts []string) ([][]float32, error) {
					return nil, errors.New("quota exceeded")
				},
			},
		}

		_, err := ix.Index(context.Background(), []*priem.Document{{SourceURL: "a", SourceType: priem.SourceTable, Content: "x"}})

		require.ErrorContains(t, err, "quota exceeded")
		assert.Empty(t, s.chunks)
	})

	t.Run("rejects a short embedding response", func(t *testing.T) {
		t.Parallel()

		var s store
		ix := &index.Indexer{
			Chunks: s.service(),
			Embedder: &mock.Embedder{
				EmbedFn: func(ctx context.Context, texts []string) ([][]float32, error) {
					return [][]float32{}, nil
				},
			},
		}

		_, err := ix.Index(context.Background(), []*priem.Document{{SourceURL: "a", SourceType: priem.SourceTable, Content: "x"}})

		assert.Error(t, err)
	})
}

func TestIndexer_Reindex(t *testing.T) {
	t.Parallel()

	t.Run("replaces the source type with embedded chunks", func(t *testing.T) {
		t.Parallel()

		var s store
		calls := 0
		ix := &index.Indexer{Chunks: s.service(), Embedder: lengthEmbedder(&calls), BatchSize: 1}

		result, err := ix.Reindex(context.Background(), priem.SourcePodcast, []*priem.Document{
			{SourceURL: "p", SourceType: priem.SourcePodcast, Content: "Интервью с деканом"},
			{SourceURL: "p", SourceType: priem.SourcePodcast, Content: "Интервью с ректором"},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{priem.SourcePodcast}, s.replaced)
		assert.Equal(t, &index.Result{Documents: 2, Chunks: 2}, result)
		assert.Equal(t, 2, calls)
		require.Len(t, s.chunks, 2)
		for _, c := range s.chunks {
			assert.NotEmpty(t, c.Embedding)
		}
	})

	t.Run("leaves the stored collection alone when embedding fails", func(t *testing.T) {
		t.Parallel()

		deleted := false
		ix := &index.Indexer{
			Chunks: &mock.ChunkService{
				DeleteChunksBySourceTypeFn: func(ctx context.Context, sourceType string) error {
					deleted = true
					return nil
				},
				ReplaceChunksFn: func(ctx context.Context, sourceType string, chunks []*priem.Chunk) error {
					deleted = true
					return nil
				},
			},
			Embedder: &mock.Embedder{
				EmbedFn: func(ctx context.Context, texts []string) ([][]float32, error) {
					return nil, errors.New("quota exceeded")
				},
			},
		}

		_, err := ix.Reindex(context.Background(), priem.SourceTable, []*priem.Document{
			{SourceURL: "a", SourceType: priem.SourceTable, Content: "Направление: 09.03.01"},
		})

		require.ErrorContains(t, err, "quota exceeded")
		assert.False(t, deleted)
	})

	t.Run("refuses documents of another source type", func(t *testing.T) {
		t.Parallel()

		var s store
		calls := 0
		ix := &index.Indexer{Chunks: s.service(), Embedder: lengthEmbedder(&calls)}

		_, err := ix.Reindex(context.Background(), priem.SourcePodcast, []*priem.Document{
			{SourceURL: "p", SourceType: priem.SourceWeb, Content: "x"},
		})

		assert.Equal(t, priem.EINVALID, priem.ErrorCode(err))
		assert.Empty(t, s.replaced)
	})
}
