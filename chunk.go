package priem

import (
	"context"
)

// Chunk is a piece of a document with its embedding.
type Chunk struct {
	ID          string    `json:"id"`
	DocumentID  string    `json:"documentId"`
	SourceURL   string    `json:"sourceUrl"`
	SourceType  string    `json:"sourceType"` // Denormalized for filtering
	Position    int       `json:"position"`
	Content     string    `json:"content"`
	ContentHash string    `json:"contentHash"`
	Embedding   []float32 `json:"embedding,omitempty"`
	Metadata    Metadata  `json:"metadata"`
}

// Validate returns an error if the chunk contains invalid fields.
func (c *Chunk) Validate() error {
	if c.DocumentID == "" {
		return Errorf(EINVALID, "chunk document ID required")
	}
	if c.SourceType == "" {
		return Errorf(EINVALID, "chunk source type required")
	}
	if c.Content == "" {
		return Errorf(EINVALID, "chunk content required")
	}
	if len(c.Embedding) == 0 {
		return Errorf(EINVALID, "chunk embedding required")
	}
	return c.Metadata.Validate()
}

// ChunkService is the vector store.
type ChunkService interface {
	// CreateChunks stores chunks in one transaction.
	CreateChunks(ctx context.Context, chunks []*Chunk) error

	// Search returns the chunks nearest to the query embedding,
	// most similar first.
	Search(ctx context.Context, embedding []float32, opts SearchOptions) ([]SearchResult, error)

	// DeleteChunksBySourceType removes every chunk of a source type.
	DeleteChunksBySourceType(ctx context.Context, sourceType string) error

	// ReplaceChunks removes every chunk of sourceType and stores chunks
	// in one transaction.
	ReplaceChunks(ctx context.Context, sourceType string, chunks []*Chunk) error

	// CountChunks returns the number of chunks per source type.
	CountChunks(ctx context.Context) (map[string]int, error)
}

// SearchOptions configures search behavior.
type SearchOptions struct {
	// Restrict results to these source types. Empty means all.
	SourceTypes []string `json:"sourceTypes,omitempty"`

	// Maximum number of results to return
	Limit int `json:"limit,omitempty"`

	// Minimum cosine similarity (-1..1)
	MinScore float32 `json:"minScore,omitempty"`
}

// SearchResult represents a search match.
type SearchResult struct {
	Chunk *Chunk  `json:"chunk"`
	Score float32 `json:"score"`
}

// Chunker splits long text into pieces sized for embedding.
type Chunker interface {
	Split(text string) []string
}

// Embedder turns texts into vectors, one per text, in order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
