// Package index embeds documents and writes them to the vector store.
package index

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/stankin-rag/priem"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchSize is the number of texts sent per embedding request.
const DefaultBatchSize = 100

// Indexer splits documents into chunks, embeds them in batches and
// stores them. Only web pages are split; a record or podcast segment is
// already one self-contained chunk.
type Indexer struct {
	Chunks   priem.ChunkService
	Embedder priem.Embedder
	Chunker  priem.Chunker

	BatchSize   int
	Concurrency int
	Logger      *slog.Logger

	// Now is overridable for tests.
	Now func() time.Time
}

// Result counts what an indexing run stored.
type Result struct {
	Documents  int
	Chunks     int
	Duplicates int
}

// Reindex replaces every stored chunk of sourceType with the chunks of
// docs. Stored chunks are only touched once every embedding succeeded.
func (ix *Indexer) Reindex(ctx context.Context, sourceType string, docs []*priem.Document) (*Result, error) {
	for _, doc := range docs {
		if doc.SourceType != sourceType {
			return nil, priem.Errorf(priem.EINVALID, "document %s has source type %q, want %q", doc.SourceURL, doc.SourceType, sourceType)
		}
	}

	chunks, result, err := ix.prepare(docs)
	if err != nil {
		return nil, err
	}
	if err := ix.embed(ctx, chunks); err != nil {
		return nil, err
	}
	if err := ix.Chunks.ReplaceChunks(ctx, sourceType, chunks); err != nil {
		return nil, fmt.Errorf("replacing %s chunks: %w", sourceType, err)
	}
	result.Chunks = len(chunks)
	ix.logger().Info("collection replaced", "source_type", sourceType, "chunks", len(chunks))
	ix.logDuplicates(result)
	return result, nil
}

// Index stores the chunks of docs. Chunks whose content repeats an earlier
// chunk of the same run are skipped.
func (ix *Indexer) Index(ctx context.Context, docs []*priem.Document) (*Result, error) {
	chunks, result, err := ix.prepare(docs)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return result, nil
	}
	if err := ix.embed(ctx, chunks); err != nil {
		return nil, err
	}

	logger := ix.logger()
	size := ix.batchSize()
	for start := 0; start < len(chunks); start += size {
		batch := chunks[start:min(start+size, len(chunks))]
		if err := ix.Chunks.CreateChunks(ctx, batch); err != nil {
			return nil, fmt.Errorf("storing chunks %d-%d: %w", start, start+len(batch), err)
		}
		result.Chunks += len(batch)
		logger.Info("batch indexed", "from", start, "to", start+len(batch), "total", len(chunks))
	}
	ix.logDuplicates(result)
	return result, nil
}

// prepare validates docs, fills in their IDs and hashes and cuts them
// into unique chunks without embeddings.
func (ix *Indexer) prepare(docs []*priem.Document) ([]*priem.Chunk, *Result, error) {
	now := time.Now
	if ix.Now != nil {
		now = ix.Now
	}

	result := &Result{}
	seen := make(map[string]bool)
	var chunks []*priem.Chunk
	for _, doc := range docs {
		if err := doc.Validate(); err != nil {
			return nil, nil, err
		}
		if doc.ID == "" {
			doc.ID = uuid.New().String()
		}
		if doc.CreatedAt.IsZero() {
			doc.CreatedAt = now().UTC()
		}
		doc.ContentHash = hashContent(doc.Content)
		result.Documents++

		for i, text := range ix.split(doc) {
			hash := hashContent(text)
			if seen[hash] {
				result.Duplicates++
				continue
			}
			seen[hash] = true
			chunks = append(chunks, &priem.Chunk{
				ID:          uuid.New().String(),
				DocumentID:  doc.ID,
				SourceURL:   doc.SourceURL,
				SourceType:  doc.SourceType,
				Position:    i,
				Content:     text,
				ContentHash: hash,
				Metadata:    doc.Metadata,
			})
		}
	}
	return chunks, result, nil
}

func (ix *Indexer) logDuplicates(result *Result) {
	if result.Duplicates > 0 {
		ix.logger().Debug("duplicate chunks skipped", "count", result.Duplicates)
	}
}

func (ix *Indexer) split(doc *priem.Document) []string {
	if doc.SourceType != priem.SourceWeb || ix.Chunker == nil {
		return []string{doc.Content}
	}
	return ix.Chunker.Split(doc.Content)
}

// embed fills in every chunk's embedding, one request per batch.
func (ix *Indexer) embed(ctx context.Context, chunks []*priem.Chunk) error {
	size := ix.batchSize()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(ix.Concurrency, 1))
	for start := 0; start < len(chunks); start += size {
		batch := chunks[start:min(start+size, len(chunks))]
		g.Go(func() error {
			texts := make([]string, len(batch))
			for i, c := range batch {
				texts[i] = c.Content
			}
			vectors, err := ix.Embedder.Embed(gctx, texts)
			if err != nil {
				return fmt.Errorf("embedding chunks %d-%d: %w", start, start+len(batch), err)
			}
			if len(vectors) != len(batch) {
				return fmt.Errorf("embedding chunks %d-%d: got %d vectors for %d texts", start, start+len(batch), len(vectors), len(batch))
			}
			for i, c := range batch {
				c.Embedding = vectors[i]
			}
			return nil
		})
	}
	return g.Wait()
}

func (ix *Indexer) batchSize() int {
	if ix.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return ix.BatchSize
}

func (ix *Indexer) logger() *slog.Logger {
	if ix.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return ix.Logger
}

func hashContent(s string) string {
	h := xxhash.Sum64String(s)
	return hex.EncodeToString([]byte{
		byte(h >> 56), byte(h >> 48), byte(h >> 40), byte(h >> 32),
		byte(h >> 24), byte(h >> 16), byte(h >> 8), byte(h),
	})
}
