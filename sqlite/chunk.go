package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stankin-rag/priem"
)

// Compile-time interface verification.
var _ priem.ChunkService = (*ChunkService)(nil)

// DefaultSearchLimit is used when SearchOptions.Limit is zero.
const DefaultSearchLimit = 5

// ChunkService implements priem.ChunkService using SQLite. Embeddings are
// stored as float32 blobs and searched by brute-force cosine similarity,
// which is plenty for a single university site.
type ChunkService struct {
	db *DB
}

// NewChunkService creates a new ChunkService.
func NewChunkService(db *DB) *ChunkService {
	return &ChunkService{db: db}
}

// CreateChunks stores chunks in one transaction, assigning IDs and
// content hashes where missing.
func (s *ChunkService) CreateChunks(ctx context.Context, chunks []*priem.Chunk) error {
	if err := validateChunks(chunks); err != nil {
		return err
	}
	return s.db.withTx(ctx, func(tx *sql.Tx) error {
		return insertChunks(ctx, tx, chunks)
	})
}

// ReplaceChunks swaps every chunk of sourceType for chunks. On error the
// stored chunks are left as they were.
func (s *ChunkService) ReplaceChunks(ctx context.Context, sourceType string, chunks []*priem.Chunk) error {
	if err := validateChunks(chunks); err != nil {
		return err
	}
	for _, c := range chunks {
		if c.SourceType != sourceType {
			return priem.Errorf(priem.EINVALID, "chunk of %s has source type %q, want %q", c.SourceURL, c.SourceType, sourceType)
		}
	}
	return s.db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE source_type = ?", sourceType); err != nil {
			return err
		}
		return insertChunks(ctx, tx, chunks)
	})
}

func validateChunks(chunks []*priem.Chunk) error {
	for _, c := range chunks {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func insertChunks(ctx context.Context, tx *sql.Tx, chunks []*priem.Chunk) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, source_url, source_type, position, content, content_hash, embedding, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, c := range chunks {
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		if c.ContentHash == "" {
			c.ContentHash = hashContent(c.Content)
		}
		metadata, err := json.Marshal(c.Metadata)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, c.ID, c.DocumentID, c.SourceURL, c.SourceType, c.Position,
			c.Content, c.ContentHash, encodeEmbedding(c.Embedding), string(metadata), now); err != nil {
			if isUniqueViolation(err) {
				return priem.Errorf(priem.ECONFLICT, "chunk %s already exists", c.ID)
			}
			return err
		}
	}
	return nil
}

// Search scores every stored chunk of the requested source types against
// embedding and returns the best matches, most similar first.
func (s *ChunkService) Search(ctx context.Context, embedding []float32, opts priem.SearchOptions) ([]priem.SearchResult, error) {
	if len(embedding) == 0 {
		return nil, priem.Errorf(priem.EINVALID, "query embedding required")
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	var query strings.Builder
	var args []any
	query.WriteString("SELECT id, document_id, source_url, source_type, position, content, content_hash, embedding, metadata FROM chunks")
	if len(opts.SourceTypes) > 0 {
		query.WriteString(" WHERE source_type IN (?" + strings.Repeat(", ?", len(opts.SourceTypes)-1) + ")")
		for _, t := range opts.SourceTypes {
			args = append(args, t)
		}
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []priem.SearchResult
	for rows.Next() {
		var (
			c        priem.Chunk
			blob     []byte
			metadata string
		)
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.SourceURL, &c.SourceType, &c.Position,
			&c.Content, &c.ContentHash, &blob, &metadata); err != nil {
			return nil, err
		}
		if c.Embedding, err = decodeEmbedding(blob); err != nil {
			return nil, fmt.Errorf("chunk %s: %w", c.ID, err)
		}
		score := cosine(embedding, c.Embedding)
		if score < opts.MinScore {
			continue
		}
		if err := json.Unmarshal([]byte(metadata), &c.Metadata); err != nil {
			return nil, fmt.Errorf("chunk %s metadata: %w", c.ID, err)
		}
		results = append(results, priem.SearchResult{Chunk: &c, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// DeleteChunksBySourceType removes every chunk of a source type.
func (s *ChunkService) DeleteChunksBySourceType(ctx context.Context, sourceType string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE source_type = ?", sourceType)
	return err
}

// CountChunks returns the number of chunks per source type.
func (s *ChunkService) CountChunks(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT source_type, COUNT(*) FROM chunks GROUP BY source_type")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			sourceType string
			n          int
		)
		if err := rows.Scan(&sourceType, &n); err != nil {
			return nil, err
		}
		counts[sourceType] = n
	}
	return counts, rows.Err()
}
