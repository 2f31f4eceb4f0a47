package extract_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stankin-rag/priem"
	"github.com/stankin-rag/priem/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	blockCS     = "09.03.01 Информатика и вычислительная техника Форма обучения: очная Предметы: Р+М+И Количество мест: 50 10 5"
	blockMech   = "15.03.05 Конструкторско-технологическое обеспечение Форма обучения: очная Предметы: Р+М+Ф Количество мест: 40 8 2"
	blockNoForm = "27.03.04 Управление в технических системах Предметы: Р+М+Ф Количество мест: 30 5 1"
)

func segment(t *testing.T, text string) []*priem.ProgramBlock {
	t.Helper()
	s := extract.NewSegmenter(extract.DefaultConfig(), nil)
	return s.Segment(&priem.NormalizedText{URL: "https://priem.example.ru/bachelor", Text: text})
}

func codes(blocks []*priem.ProgramBlock) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.Code
	}
	return out
}

func TestSegmenter_Segment(t *testing.T) {
	t.Parallel()

	t.Run("splits text at program codes", func(t *testing.T) {
		t.Parallel()

		blocks := segment(t, "Приём 2026 года "+blockCS+" "+blockMech)

		require.Len(t, blocks, 2)
		assert.Equal(t, []string{"09.03.01", "15.03.05"}, codes(blocks))
		assert.True(t, strings.HasPrefix(blocks[0].Text, " Информатика и вычислительная техника"))
		assert.NotContains(t, blocks[0].Text, "Конструкторско")
		assert.Equal(t, "https://priem.example.ru/bachelor", blocks[1].SourceURL)
	})

	t.Run("every block has a valid code and the study form marker", func(t *testing.T) {
		t.Parallel()

		for _, b := range segment(t, blockCS+" "+blockNoForm+" "+blockMech) {
			assert.True(t, priem.ValidCode(b.Code))
			assert.Contains(t, b.Text, "Форма обучения")
		}
	})

	t.Run("drops a block without the study form marker", func(t *testing.T) {
		t.Parallel()

		with := segment(t, blockCS+" "+blockMech)
		without := segment(t, blockCS+" "+blockNoForm+" "+blockMech)

		require.Len(t, with, 2)
		assert.Len(t, without, len(with))
		assert.Empty(t, segment(t, blockNoForm))
	})

	t.Run("drops a block shorter than the minimum length", func(t *testing.T) {
		t.Parallel()

		blocks := segment(t, "01.03.02 Форма обучения: очная "+blockCS)

		assert.Equal(t, []string{"09.03.01"}, codes(blocks))
	})

	t.Run("ignores everything after the footer anchor", func(t *testing.T) {
		t.Parallel()

		blocks := segment(t, blockCS+" Наименование направления подготовки "+blockMech)

		assert.Equal(t, []string{"09.03.01"}, codes(blocks))
		assert.NotContains(t, blocks[0].Text, "Наименование")
	})

	t.Run("returns nothing for text without codes", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, segment(t, "Форма обучения: очная, но без кода направления подготовки."))
	})

	t.Run("logs discarded blocks at debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		s := extract.NewSegmenter(extract.DefaultConfig(), logger)

		s.Segment(&priem.NormalizedText{URL: "https://priem.example.ru/", Text: blockNoForm})

		output := buf.String()
		assert.Contains(t, output, "level=DEBUG")
		assert.Contains(t, output, "code=27.03.04")
		assert.Contains(t, output, "no study form marker")
	})
}
