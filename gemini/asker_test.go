package gemini_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stankin-rag/priem"
	"github.com/stankin-rag/priem/gemini"
	"github.com/stankin-rag/priem/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func questionEmbedder() *mock.Embedder {
	return &mock.Embedder{
		EmbedFn: func(ctx context.Context, texts []string) ([][]float32, error) {
			return [][]float32{{1, 0}}, nil
		},
	}
}

func TestAsker_Ask(t *testing.T) {
	t.Parallel()

	t.Run("requires a question", func(t *testing.T) {
		t.Parallel()

		asker := gemini.NewAsker(nil, nil, nil, priem.SearchOptions{})

		_, err := asker.Ask(context.Background(), "  ")

		assert.Equal(t, priem.EINVALID, priem.ErrorCode(err))
		assert.Contains(t, priem.ErrorMessage(err), "question required")
	})

	t.Run("returns ENOTFOUND when nothing matches", func(t *testing.T) {
		t.Parallel()

		var got priem.SearchOptions
		chunks := &mock.ChunkService{
			SearchFn: func(ctx context.Context, embedding []float32, opts priem.SearchOptions) ([]priem.SearchResult, error) {
				got = opts
				return nil, nil
			},
		}
		asker := gemini.NewAsker(nil, questionEmbedder(), chunks, priem.SearchOptions{MinScore: 0.3})

		_, err := asker.Ask(context.Background(), "Сколько бюджетных мест?")

		assert.Equal(t, priem.ENOTFOUND, priem.ErrorCode(err))
		assert.Equal(t, priem.SearchOptions{Limit: gemini.DefaultContextChunks, MinScore: 0.3}, got)
	})

	t.Run("propagates search errors", func(t *testing.T) {
		t.Parallel()

		chunks := &mock.ChunkService{
			SearchFn: func(ctx context.Context, embedding []float32, opts priem.SearchOptions) ([]priem.SearchResult, error) {
				return nil, priem.Errorf(priem.EINTERNAL, "database error")
			},
		}
		asker := gemini.NewAsker(nil, questionEmbedder(), chunks, priem.SearchOptions{})

		_, err := asker.Ask(context.Background(), "Когда начинается приём?")

		assert.Equal(t, priem.EINTERNAL, priem.ErrorCode(err))
		assert.Contains(t, priem.ErrorMessage(err), "database error")
	})

	t.Run("wraps embedding errors", func(t *testing.T) {
		t.Parallel()

		embedder := &mock.Embedder{
			EmbedFn: func(ctx context.Context, texts []string) ([][]float32, error) {
				return nil, errors.New("quota exceeded")
			},
		}
		asker := gemini.NewAsker(nil, embedder, &mock.ChunkService{}, priem.SearchOptions{})

		_, err := asker.Ask(context.Background(), "Есть ли общежитие?")

		require.ErrorContains(t, err, "embedding question: quota exceeded")
	})
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	config := gemini.BuildConfig()

	require.NotNil(t, config.SystemInstruction)
	require.Len(t, config.SystemInstruction.Parts, 1)
	assert.Contains(t, config.SystemInstruction.Parts[0].Text, "приёмной комиссии")
	require.NotNil(t, config.Temperature)
	assert.InDelta(t, 0.2, *config.Temperature, 0.001)
}

func TestBuildUserPrompt(t *testing.T) {
	t.Parallel()

	results := []priem.SearchResult{
		{Chunk: &priem.Chunk{SourceURL: "https://stankin.ru/priem", Content: "Бюджетных мест: 50"}, Score: 0.9},
		{Chunk: &priem.Chunk{SourceType: priem.SourcePodcast, Content: "Декан о кафедре"}, Score: 0.7},
	}

	prompt := gemini.BuildUserPrompt(results, "Сколько мест?")

	assert.Contains(t, prompt, "<context>\n## Источник: https://stankin.ru/priem\nБюджетных мест: 50")
	assert.Contains(t, prompt, "## Источник: podcast\nДекан о кафедре\n</context>")
	assert.True(t, strings.HasSuffix(prompt, "Вопрос: Сколько мест?"))
	assert.NotContains(t, prompt, "Ты консультант")
}
