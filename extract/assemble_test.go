package extract_test

import (
	"testing"

	"github.com/stankin-rag/priem"
	"github.com/stankin-rag/priem/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assemble(t *testing.T, code, text string) *priem.AdmissionRecord {
	t.Helper()
	return extract.NewAssembler().Assemble(extractFields(t, code, text))
}

func TestAssembler_Assemble(t *testing.T) {
	t.Parallel()

	t.Run("builds the record of a complete block", func(t *testing.T) {
		t.Parallel()

		r := assemble(t, "09.03.01", " Информатика и вычислительная техника Форма обучения: очная "+
			"Предметы: Р+М+И Количество мест: 50 10 5 Отдельная квота: 3 мест "+
			"Проходные баллы: 2025 2024 2023 2022 2021 250 240 — 220 210")

		assert.Equal(t, "09.03.01", r.Code)
		assert.Equal(t, "Информатика и вычислительная техника", r.Name)
		assert.Equal(t, priem.LevelBachelor, r.Level)
		assert.Equal(t, "очная", r.StudyForm)
		assert.ElementsMatch(t, []string{"Русский", "Математика", "Информатика"}, r.Subjects)
		assert.Equal(t, "Р+М+И", r.SubjectsRaw)
		assert.Equal(t, 50, r.SeatsBudget)
		assert.Equal(t, 10, r.SeatsPaidDomestic)
		assert.Equal(t, 5, r.SeatsPaidForeign)
		assert.Equal(t, 3, r.QuotaSeparate)
		assert.Equal(t, []priem.YearScore{
			{Year: 2025, Score: priem.NewScore(250)},
			{Year: 2024, Score: priem.NewScore(240)},
			{Year: 2023},
			{Year: 2022, Score: priem.NewScore(220)},
			{Year: 2021, Score: priem.NewScore(210)},
		}, r.HistoricalScores)
		assert.Equal(t, "https://priem.example.ru/bachelor", r.SourceURL)
		assert.NoError(t, r.Validate())
	})

	t.Run("converts grouped prices to integers", func(t *testing.T) {
		t.Parallel()

		r := assemble(t, "09.03.01", " Информатика Форма обучения: очная Стоимость обучения: 182 100 руб. в год, "+
			"для иностранных граждан 210 000 руб.")

		assert.Equal(t, 182100, r.TuitionDomestic)
		assert.Equal(t, 210000, r.TuitionForeign)
	})

	t.Run("uses sentinels for everything missing", func(t *testing.T) {
		t.Parallel()

		r := assemble(t, "24.05.02", " ... ")

		assert.Equal(t, priem.NotAvailable, r.Name)
		assert.Equal(t, priem.NotAvailable, r.SubjectsRaw)
		assert.Equal(t, "очная", r.StudyForm)
		assert.Equal(t, priem.LevelSpecialist, r.Level)
		assert.Empty(t, r.Subjects)
		assert.Zero(t, r.SeatsBudget)
		assert.Zero(t, r.TuitionDomestic)
		assert.Zero(t, r.QuotaTarget)
		require.Len(t, r.HistoricalScores, priem.ScoreSlots)
		for _, ys := range r.HistoricalScores {
			assert.False(t, ys.Score.Valid)
		}
		assert.NoError(t, r.Validate())
	})

	t.Run("does not share the subject slice with the raw fields", func(t *testing.T) {
		t.Parallel()

		f := extractFields(t, "09.03.01", " Информатика Форма обучения: очная Предметы: Р+М Количество мест: 1")
		r := extract.NewAssembler().Assemble(f)

		f.Subjects[0] = "changed"

		assert.Equal(t, []string{"Математика", "Русский"}, r.Subjects)
	})
}

func TestParseCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int
	}{
		{"50", 50},
		{"182 100", 182100},
		{"182\u00a0100", 182100},
		{"1\u2009234", 1234},
		{" 7 ", 7},
		{"", 0},
		{"—", 0},
		{"N/A", 0},
		{"-5", 0},
		{"12abc", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, extract.ParseCount(tt.in))
		})
	}
}
