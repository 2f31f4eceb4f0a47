package trafilatura_test

import (
	"errors"
	"testing"

	"github.com/stankin-rag/priem"
	"github.com/stankin-rag/priem/mock"
	"github.com/stankin-rag/priem/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dormitoryPage = `<!DOCTYPE html>
<html>
<head>
<title>Общежитие - СТАНКИН</title>
<meta property="og:title" content="Общежитие для иногородних студентов">
</head>
<body>
<nav><a href="/">Главная</a><a href="/priem">Поступающим</a></nav>
<main>
<h1>Общежитие</h1>
<p>Иногородним студентам очной формы обучения предоставляется место в общежитии на весь срок обучения.</p>
<p>Заявление на заселение подаётся в приёмную комиссию вместе с оригиналом документа об образовании.</p>
</main>
<footer>Все права защищены</footer>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("returns title and main content", func(t *testing.T) {
		t.Parallel()

		result, err := trafilatura.NewExtractor().Extract(dormitoryPage)

		require.NoError(t, err)
		assert.NotEmpty(t, result.Title)
		assert.Contains(t, result.ContentHTML, "место в общежитии")
	})

	t.Run("drops navigation and footer", func(t *testing.T) {
		t.Parallel()

		result, err := trafilatura.NewExtractor().Extract(dormitoryPage)

		require.NoError(t, err)
		assert.NotContains(t, result.ContentHTML, "Поступающим")
		assert.NotContains(t, result.ContentHTML, "Все права защищены")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := trafilatura.NewExtractor().Extract("")

		assert.Equal(t, priem.EINVALID, priem.ErrorCode(err))
	})

	t.Run("uses the fallback when nothing is extracted", func(t *testing.T) {
		t.Parallel()

		fallback := &mock.Extractor{
			ExtractFn: func(html string) (*priem.ExtractResult, error) {
				return &priem.ExtractResult{Title: "Запасной", ContentHTML: "<p>fallback</p>"}, nil
			},
		}

		result, err := trafilatura.NewExtractor(trafilatura.WithFallback(fallback)).Extract("<html><body></body></html>")

		require.NoError(t, err)
		assert.Equal(t, "<p>fallback</p>", result.ContentHTML)
	})

	t.Run("skips the fallback when content is found", func(t *testing.T) {
		t.Parallel()

		called := false
		fallback := &mock.Extractor{
			ExtractFn: func(html string) (*priem.ExtractResult, error) {
				called = true
				return nil, errors.New("no article")
			},
		}

		result, err := trafilatura.NewExtractor(trafilatura.WithFallback(fallback)).Extract(dormitoryPage)

		require.NoError(t, err)
		assert.False(t, called)
		assert.Contains(t, result.ContentHTML, "место в общежитии")
	})
}
