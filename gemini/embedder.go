// Package gemini embeds text and answers questions with Google Gemini.
package gemini

import (
	"context"
	"fmt"

	"github.com/stankin-rag/priem"
	"google.golang.org/genai"
)

// Embedding defaults.
const (
	DefaultEmbeddingModel = "gemini-embedding-001"
	DefaultDimensions     = 768

	// maxEmbedBatch is the API's limit of texts per embedding request.
	maxEmbedBatch = 100
)

// Embedding task types. Documents and queries are embedded differently so
// that short questions land near the passages that answer them.
const (
	TaskDocument = "RETRIEVAL_DOCUMENT"
	TaskQuery    = "RETRIEVAL_QUERY"
)

// Ensure Embedder implements priem.Embedder at compile time.
var _ priem.Embedder = (*Embedder)(nil)

// EmbedderOption configures an Embedder.
type EmbedderOption func(*Embedder)

// WithEmbeddingModel overrides the embedding model.
func WithEmbeddingModel(model string) EmbedderOption {
	return func(e *Embedder) {
		e.model = model
	}
}

// WithDimensions sets the output vector size.
func WithDimensions(n int32) EmbedderOption {
	return func(e *Embedder) {
		e.dims = n
	}
}

// Embedder implements priem.Embedder using the Gemini embedding API.
type Embedder struct {
	client   *genai.Client
	taskType string
	model    string
	dims     int32
}

// NewEmbedder creates an Embedder for taskType, TaskDocument when indexing
// and TaskQuery when searching.
func NewEmbedder(client *genai.Client, taskType string, opts ...EmbedderOption) *Embedder {
	e := &Embedder{
		client:   client,
		taskType: taskType,
		model:    DefaultEmbeddingModel,
		dims:     DefaultDimensions,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Embed returns one vector per text, in order. Long inputs are sent in
// several requests.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	for i, t := range texts {
		if t == "" {
			return nil, priem.Errorf(priem.EINVALID, "text %d is empty", i)
		}
	}

	config := &genai.EmbedContentConfig{TaskType: e.taskType}
	if e.dims > 0 {
		config.OutputDimensionality = &e.dims
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxEmbedBatch {
		batch := texts[start:min(start+maxEmbedBatch, len(texts))]
		contents := make([]*genai.Content, len(batch))
		for i, t := range batch {
			contents[i] = genai.NewContentFromText(t, genai.RoleUser)
		}

		resp, err := e.client.Models.EmbedContent(ctx, e.model, contents, config)
		if err != nil {
			return nil, fmt.Errorf("embedding texts %d-%d: %w", start, start+len(batch), err)
		}
		if resp == nil || len(resp.Embeddings) != len(batch) {
			return nil, priem.Errorf(priem.EINTERNAL, "gemini returned a wrong number of embeddings")
		}
		for _, emb := range resp.Embeddings {
			vectors = append(vectors, emb.Values)
		}
	}
	return vectors, nil
}
