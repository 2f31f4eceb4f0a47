package sqlite_test

import (
	"context"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/stankin-rag/priem"
	"github.com/stankin-rag/priem/sqlite"
	"github.com/stretchr/testify/require"
)

const benchDims = 768

func randomVector(r *rand.Rand) []float32 {
	v := make([]float32, benchDims)
	for i := range v {
		v[i] = r.Float32()*2 - 1
	}
	return v
}

func benchChunks(r *rand.Rand, n int) []*priem.Chunk {
	chunks := make([]*priem.Chunk, n)
	for i := range chunks {
		chunks[i] = &priem.Chunk{
			DocumentID: fmt.Sprintf("doc-%d", i/4),
			SourceURL:  fmt.Sprintf("https://stankin.ru/page/%d", i/4),
			SourceType: priem.SourceWeb,
			Position:   i % 4,
			Content:    fmt.Sprintf("Фрагмент %d страницы сайта приёмной комиссии.", i),
			Embedding:  randomVector(r),
		}
	}
	return chunks
}

// BenchmarkCreateChunks measures indexing one crawl's worth of chunks into
// a file database.
func BenchmarkCreateChunks(b *testing.B) {
	r := rand.New(rand.NewPCG(1, 2))
	ctx := context.Background()

	for i := 0; i < b.N; i++ {
		b.StopTimer()
		db := sqlite.NewDB(filepath.Join(b.TempDir(), fmt.Sprintf("bench%d.db", i)))
		require.NoError(b, db.Open())
		chunks := benchChunks(r, 400)
		b.StartTimer()

		if err := sqlite.NewChunkService(db).CreateChunks(ctx, chunks); err != nil {
			b.Fatal(err)
		}

		b.StopTimer()
		db.Close()
	}
}

// BenchmarkSearch measures a brute-force query over a site-sized index.
func BenchmarkSearch(b *testing.B) {
	for _, n := range []int{1000, 5000} {
		b.Run(fmt.Sprintf("chunks=%d", n), func(b *testing.B) {
			r := rand.New(rand.NewPCG(3, 4))
			ctx := context.Background()
			db := sqlite.NewDB(":memory:")
			require.NoError(b, db.Open())
			defer db.Close()

			svc := sqlite.NewChunkService(db)
			require.NoError(b, svc.CreateChunks(ctx, benchChunks(r, n)))
			query := randomVector(r)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := svc.Search(ctx, query, priem.SearchOptions{Limit: 5}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
