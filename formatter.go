package priem

import (
	"fmt"
	"strings"
)

// FormatRecord renders the narrative description of a program that is
// embedded for retrieval. The text is derived from the record alone.
func FormatRecord(r *AdmissionRecord) string {
	subjects := r.SubjectsRaw
	if subjects == "" || subjects == NotAvailable {
		subjects = "Нет данных"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Направление: %s %s\n", r.Code, r.Name)
	fmt.Fprintf(&b, "Уровень образования: %s\n", r.Level)
	fmt.Fprintf(&b, "Форма обучения: %s\n", r.StudyForm)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Вступительные экзамены (ЕГЭ): %s\n", subjects)
	b.WriteString("\n")
	b.WriteString("Количество мест:\n")
	fmt.Fprintf(&b, "- Бюджетных мест: %d\n", r.SeatsBudget)
	fmt.Fprintf(&b, "- Платных мест (для РФ): %d\n", r.SeatsPaidDomestic)
	fmt.Fprintf(&b, "- Платных мест (для иностранцев): %d\n", r.SeatsPaidForeign)
	b.WriteString("\n")
	b.WriteString("Квоты:\n")
	fmt.Fprintf(&b, "- Отдельная квота: %d\n", r.QuotaSeparate)
	fmt.Fprintf(&b, "- Особая квота: %d\n", r.QuotaSpecial)
	fmt.Fprintf(&b, "- Целевая квота: %d\n", r.QuotaTarget)
	b.WriteString("\n")
	b.WriteString("Стоимость обучения (за семестр):\n")
	fmt.Fprintf(&b, "- Для граждан РФ: %d руб.\n", r.TuitionDomestic)
	fmt.Fprintf(&b, "- Для иностранных граждан: %d руб.\n", r.TuitionForeign)
	b.WriteString("\n")
	b.WriteString("Проходные баллы прошлых лет (Бюджет):")
	for _, ys := range r.HistoricalScores {
		fmt.Fprintf(&b, "\n%d год: %s", ys.Year, ys.Score)
	}
	return b.String()
}

// NewRecordDocument converts a record into an indexable document.
// Subjects are flattened into one comma separated string and only the most
// recent score is kept in metadata.
func NewRecordDocument(r *AdmissionRecord) *Document {
	scoreLast := 0
	if len(r.HistoricalScores) > 0 && r.HistoricalScores[0].Score.Valid {
		scoreLast = r.HistoricalScores[0].Score.Value
	}

	return &Document{
		SourceURL:  r.SourceURL,
		SourceType: SourceTable,
		Title:      strings.TrimSpace(r.Code + " " + r.Name),
		Content:    FormatRecord(r),
		Metadata: Metadata{
			"source_type":    SourceTable,
			"program_code":   r.Code,
			"form":           r.StudyForm,
			"level":          string(r.Level),
			"subjects":       strings.Join(r.Subjects, ", "),
			"b_places":       r.SeatsBudget,
			"p_rf_places":    r.SeatsPaidDomestic,
			"p_in_places":    r.SeatsPaidForeign,
			"price_rf":       r.TuitionDomestic,
			"price_in":       r.TuitionForeign,
			"quota_separate": r.QuotaSeparate,
			"quota_special":  r.QuotaSpecial,
			"quota_target":   r.QuotaTarget,
			"score_last":     scoreLast,
			"source_url":     r.SourceURL,
		},
	}
}

// FormatResults formats search results as LLM context.
// Each result is headed by its source URL, or its source type when the URL is unknown.
func FormatResults(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	parts := make([]string, 0, len(results))
	for _, r := range results {
		header := r.Chunk.SourceURL
		if header == "" {
			header = r.Chunk.SourceType
		}
		parts = append(parts, "## Источник: "+header+"\n"+r.Chunk.Content)
	}

	return strings.Join(parts, "\n\n")
}
