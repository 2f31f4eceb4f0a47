package yaml_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stankin-rag/priem"
	"github.com/stankin-rag/priem/extract"
	"github.com/stankin-rag/priem/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("returns defaults for an empty path", func(t *testing.T) {
		t.Parallel()

		cfg, err := yaml.LoadConfig("")

		require.NoError(t, err)
		assert.Equal(t, extract.DefaultConfig(), cfg)
	})

	t.Run("overlays the file on the defaults", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "priem.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
anchors:
  scores: Минимальные баллы
footer_anchor: ""
latest_score_year: 2026
currency_words: [руб, ₽]
subject_abbreviations:
  Л: Литература
`), 0644))

		cfg, err := yaml.LoadConfig(path)

		require.NoError(t, err)
		want := extract.DefaultConfig()
		want.Anchors.Scores = "Минимальные баллы"
		want.FooterAnchor = ""
		want.LatestScoreYear = 2026
		want.CurrencyWords = []string{"руб", "₽"}
		want.SubjectAbbreviations["Л"] = "Литература"
		assert.Equal(t, want, cfg)
	})

	t.Run("returns ENOTFOUND for a missing file", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.LoadConfig(filepath.Join(t.TempDir(), "none.yaml"))

		assert.Equal(t, priem.ENOTFOUND, priem.ErrorCode(err))
	})
}

func TestParseConfig(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name string
		data string
		msg  string
	}{
		{"rejects malformed YAML", "anchors: [", "invalid config"},
		{"rejects an empty study form anchor", "anchors:\n  study_form: \"\"", "study_form"},
		{"rejects an inverted score range", "min_score: 400", "exceeds max_score"},
		{"rejects a negative block length", "min_block_length: -1", "min_block_length"},
		{"rejects an empty abbreviation", "subject_abbreviations:\n  Г: \"\"", "subject abbreviation"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := yaml.ParseConfig([]byte(tc.data))

			assert.Equal(t, priem.EINVALID, priem.ErrorCode(err))
			assert.Contains(t, priem.ErrorMessage(err), tc.msg)
		})
	}
}
