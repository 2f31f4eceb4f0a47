package extract

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/stankin-rag/priem"
)

// Assembler converts raw field values into records.
type Assembler struct{}

// NewAssembler returns an assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble builds the record for one block. It cannot fail: absent or
// unparseable counts become 0 and scores become unknown.
func (a *Assembler) Assemble(f *RawFields) *priem.AdmissionRecord {
	name := priem.NotAvailable
	if v := f.Get(FieldName); v.Present {
		name = v.Text
	}
	subjectsRaw := priem.NotAvailable
	if v := f.Get(FieldSubjects); v.Present {
		subjectsRaw = v.Text
	}
	subjects := make([]string, len(f.Subjects))
	copy(subjects, f.Subjects)

	scores := make([]priem.YearScore, priem.ScoreSlots)
	for i := range scores {
		if i < len(f.ScoreYears) {
			scores[i].Year = f.ScoreYears[i]
		}
		if i < len(f.Scores) && f.Scores[i].Present {
			scores[i].Score = priem.ParseScore(f.Scores[i].Text)
		}
	}

	return &priem.AdmissionRecord{
		Code:              f.Code,
		Name:              name,
		StudyForm:         f.Get(FieldStudyForm).Text,
		Level:             priem.LevelFromCode(f.Code),
		Subjects:          subjects,
		SubjectsRaw:       subjectsRaw,
		TuitionDomestic:   count(f, FieldTuitionDomestic),
		TuitionForeign:    count(f, FieldTuitionForeign),
		SeatsBudget:       count(f, FieldSeatsBudget),
		SeatsPaidDomestic: count(f, FieldSeatsPaidDomestic),
		SeatsPaidForeign:  count(f, FieldSeatsPaidForeign),
		QuotaSeparate:     count(f, FieldQuotaSeparate),
		QuotaSpecial:      count(f, FieldQuotaSpecial),
		QuotaTarget:       count(f, FieldQuotaTarget),
		HistoricalScores:  scores,
		SourceURL:         f.SourceURL,
	}
}

func count(f *RawFields, field Field) int {
	v := f.Get(field)
	if !v.Present {
		return 0
	}
	return ParseCount(v.Text)
}

// ParseCount parses a count written with grouping spaces, such as
// "182 100" or "182 100". Anything unparseable or negative is 0.
func ParseCount(s string) int {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
