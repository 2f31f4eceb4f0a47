// Package extract recovers admission records from normalized page text.
// Text is cut into program blocks at program codes, each block is
// tokenized, and fields are read off the token stream by position
// relative to fixed anchor phrases.
package extract

import (
	"sort"
	"strings"
)

// Anchors are the label phrases that locate fields inside a block.
type Anchors struct {
	StudyForm     string
	Subjects      string
	Seats         string
	Tuition       string
	SeparateQuota string
	SpecialQuota  string
	TargetQuota   string
	Scores        string
}

// Config holds every site-specific constant of the extraction.
type Config struct {
	Anchors Anchors

	// FooterAnchor truncates the page text at its first occurrence.
	// Empty disables truncation.
	FooterAnchor string

	// MinBlockLength is the minimum block length in runes.
	MinBlockLength int

	// CurrencyWords mark the end of a price. Matched as a word prefix.
	CurrencyWords []string

	// Dashes are the runes the site uses for "no value".
	Dashes string

	// SubjectAbbreviations maps exam shorthand to subject names.
	SubjectAbbreviations map[string]string

	DefaultStudyForm string

	// MinScore and MaxScore bound a plausible passing score.
	MinScore int
	MaxScore int

	// LatestScoreYear labels the first score slot when the page has no year header.
	LatestScoreYear int
}

// DefaultConfig returns the configuration for the university admissions site.
func DefaultConfig() Config {
	return Config{
		Anchors: Anchors{
			StudyForm:     "Форма обучения",
			Subjects:      "Предметы",
			Seats:         "Количество мест",
			Tuition:       "Стоимость обучения",
			SeparateQuota: "Отдельная квота",
			SpecialQuota:  "Особая квота",
			TargetQuota:   "Целевая квота",
			Scores:        "Проходные баллы",
		},
		FooterAnchor:   "Наименование направления подготовки",
		MinBlockLength: 50,
		CurrencyWords:  []string{"руб"},
		Dashes:         "—",
		SubjectAbbreviations: map[string]string{
			"Р":  "Русский",
			"М":  "Математика",
			"И":  "Информатика",
			"Ф":  "Физика",
			"Х":  "Химия",
			"О":  "Обществознание",
			"ИЯ": "Иностранный",
			"Б":  "Биология",
		},
		DefaultStudyForm: "очная",
		MinScore:         110,
		MaxScore:         310,
		LatestScoreYear:  2025,
	}
}

// labels returns the configured anchor phrases, longest first.
func (c Config) labels() []string {
	a := c.Anchors
	var out []string
	for _, s := range []string{
		a.StudyForm, a.Subjects, a.Seats, a.Tuition,
		a.SeparateQuota, a.SpecialQuota, a.TargetQuota, a.Scores,
	} {
		if s != "" {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}

// isCurrency reports whether word starts with a currency word.
func (c Config) isCurrency(word string) bool {
	word = strings.ToLower(word)
	for _, cw := range c.CurrencyWords {
		if cw != "" && strings.HasPrefix(word, strings.ToLower(cw)) {
			return true
		}
	}
	return false
}
