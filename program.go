package priem

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// NotAvailable is the sentinel text for a value that could not be recovered.
const NotAvailable = "N/A"

// ScoreSlots is the number of historical passing scores kept per program.
const ScoreSlots = 5

// codePattern matches a program code such as 09.03.01 or 09.03.01.01.
var codePattern = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{2}(\.\d{2})?$`)

// ValidCode reports whether code is a well-formed program code.
func ValidCode(code string) bool {
	return codePattern.MatchString(code)
}

// Level is the education level of a program.
type Level string

// Education levels.
const (
	LevelBachelor   Level = "Бакалавриат"
	LevelSpecialist Level = "Специалитет"
	LevelOther      Level = "Другое"
)

// LevelFromCode derives the education level from a program code.
func LevelFromCode(code string) Level {
	switch {
	case strings.Contains(code, ".03."):
		return LevelBachelor
	case strings.Contains(code, ".05."):
		return LevelSpecialist
	default:
		return LevelOther
	}
}

// Study forms as they appear on the site. Other values pass through unchanged.
const (
	StudyFormFullTime = "очная"
	StudyFormPartTime = "заочная"
	StudyFormEvening  = "очно-заочная"
)

// ProgramBlock is the contiguous stretch of page text describing one program.
type ProgramBlock struct {
	Code      string
	Text      string
	SourceURL string
}

// Score is a passing score that may be unknown.
// It marshals to a JSON number, or to "N/A" when unknown.
type Score struct {
	Value int
	Valid bool
}

// NewScore returns a known score.
func NewScore(v int) Score {
	return Score{Value: v, Valid: true}
}

// ParseScore parses a digit string. Anything else is an unknown score.
func ParseScore(s string) Score {
	s = strings.TrimSpace(s)
	if s == "" {
		return Score{}
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return Score{}
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return Score{}
	}
	return NewScore(v)
}

// String returns the score digits or "N/A".
func (s Score) String() string {
	if !s.Valid {
		return NotAvailable
	}
	return strconv.Itoa(s.Value)
}

// MarshalJSON implements json.Marshaler.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return json.Marshal(NotAvailable)
	}
	return []byte(strconv.Itoa(s.Value)), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Score) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*s = ParseScore(text)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*s = Score{}
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return Errorf(EINVALID, "invalid score %s", data)
	}
	*s = NewScore(v)
	return nil
}

// YearScore is the passing score of one admission year.
type YearScore struct {
	Year  int   `json:"year"`
	Score Score `json:"score"`
}

// AdmissionRecord is the structured description of one study program.
// Counts and prices are never negative; unrecovered ones are 0.
type AdmissionRecord struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	StudyForm   string   `json:"study_form"`
	Level       Level    `json:"level"`
	Subjects    []string `json:"subjects"`
	SubjectsRaw string   `json:"subjects_raw"`

	TuitionDomestic int `json:"tuition_domestic"`
	TuitionForeign  int `json:"tuition_foreign"`

	SeatsBudget       int `json:"seats_budget"`
	SeatsPaidDomestic int `json:"seats_paid_domestic"`
	SeatsPaidForeign  int `json:"seats_paid_foreign"`

	QuotaSeparate int `json:"quota_separate"`
	QuotaSpecial  int `json:"quota_special"`
	QuotaTarget   int `json:"quota_target"`

	// HistoricalScores always holds ScoreSlots entries, most recent year first.
	HistoricalScores []YearScore `json:"historical_scores"`

	SourceURL string `json:"source_url,omitempty"`
}

// Validate returns an error if the record contains invalid fields.
func (r *AdmissionRecord) Validate() error {
	if !ValidCode(r.Code) {
		return Errorf(EINVALID, "invalid program code %q", r.Code)
	}
	if len(r.HistoricalScores) != ScoreSlots {
		return Errorf(EINVALID, "program %s: expected %d historical scores, got %d", r.Code, ScoreSlots, len(r.HistoricalScores))
	}
	for _, n := range []int{
		r.TuitionDomestic, r.TuitionForeign,
		r.SeatsBudget, r.SeatsPaidDomestic, r.SeatsPaidForeign,
		r.QuotaSeparate, r.QuotaSpecial, r.QuotaTarget,
	} {
		if n < 0 {
			return Errorf(EINVALID, "program %s: negative count", r.Code)
		}
	}
	return nil
}
