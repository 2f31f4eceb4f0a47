package extract

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/stankin-rag/priem"
)

// Field names a scalar value recovered from a block.
type Field string

// Scalar fields.
const (
	FieldName              Field = "name"
	FieldStudyForm         Field = "study_form"
	FieldSubjects          Field = "subjects"
	FieldTuitionDomestic   Field = "tuition_domestic"
	FieldTuitionForeign    Field = "tuition_foreign"
	FieldSeatsBudget       Field = "seats_budget"
	FieldSeatsPaidDomestic Field = "seats_paid_domestic"
	FieldSeatsPaidForeign  Field = "seats_paid_foreign"
	FieldQuotaSeparate     Field = "quota_separate"
	FieldQuotaSpecial      Field = "quota_special"
	FieldQuotaTarget       Field = "quota_target"
	FieldScores            Field = "scores"
)

// RawValue is a field value as it appears in the text.
// Present is false when the field could not be located.
type RawValue struct {
	Text    string
	Present bool
}

func present(s string) RawValue {
	return RawValue{Text: s, Present: true}
}

// RawFields are the values recovered from one block.
type RawFields struct {
	Code      string
	SourceURL string
	Values    map[Field]RawValue

	// Subjects is the normalized subject set.
	Subjects []string

	// Scores and ScoreYears hold priem.ScoreSlots entries, most recent first.
	Scores     []RawValue
	ScoreYears []int
}

// Get returns the value of a field. Unknown fields are absent.
func (f *RawFields) Get(field Field) RawValue {
	return f.Values[field]
}

// FieldExtractor recovers field values from program blocks.
type FieldExtractor struct {
	cfg    Config
	tok    *Tokenizer
	logger *slog.Logger
}

// NewFieldExtractor returns an extractor. A nil logger discards output.
func NewFieldExtractor(cfg Config, logger *slog.Logger) *FieldExtractor {
	return &FieldExtractor{
		cfg:    cfg,
		tok:    NewTokenizer(cfg),
		logger: orDiscard(logger),
	}
}

// Extract recovers every field of block. It never fails: a field that
// cannot be located is absent and logged, and the rest are still read.
func (e *FieldExtractor) Extract(block *priem.ProgramBlock) *RawFields {
	s := newScan(block.Text, e.tok)
	a := e.cfg.Anchors
	f := &RawFields{
		Code:      block.Code,
		SourceURL: block.SourceURL,
		Values:    make(map[Field]RawValue),
	}
	var missing []Field
	set := func(field Field, v RawValue) {
		if !v.Present {
			missing = append(missing, field)
			return
		}
		f.Values[field] = v
	}

	set(FieldName, e.name(s))
	if form := e.studyForm(s); form.Present {
		f.Values[FieldStudyForm] = form
	} else {
		missing = append(missing, FieldStudyForm)
		f.Values[FieldStudyForm] = present(e.cfg.DefaultStudyForm)
	}
	subjects := e.subjectsRaw(s)
	set(FieldSubjects, subjects)
	if subjects.Present {
		f.Subjects = NormalizeSubjects(subjects.Text, e.cfg.SubjectAbbreviations)
	}

	// Prices go first: their digits must not be read as seats or scores.
	prices := e.prices(s)
	for i, field := range []Field{FieldTuitionDomestic, FieldTuitionForeign} {
		if i < len(prices) {
			f.Values[field] = present(prices[i])
		} else {
			missing = append(missing, field)
		}
	}

	seats := e.seats(s)
	for i, field := range []Field{FieldSeatsBudget, FieldSeatsPaidDomestic, FieldSeatsPaidForeign} {
		if i < len(seats) && seats[i].Present {
			f.Values[field] = seats[i]
		} else if i == 0 {
			missing = append(missing, field)
		}
	}

	for field, anchor := range map[Field]string{
		FieldQuotaSeparate: a.SeparateQuota,
		FieldQuotaSpecial:  a.SpecialQuota,
		FieldQuotaTarget:   a.TargetQuota,
	} {
		if v := e.quota(s, anchor); v.Present {
			f.Values[field] = v
		}
	}

	var found bool
	f.Scores, f.ScoreYears, found = e.scores(s)
	if !found {
		missing = append(missing, FieldScores)
	}

	for _, field := range missing {
		e.logger.Warn("field missing", "url", block.SourceURL, "code", block.Code, "field", string(field))
	}
	return f
}

// name is the text before the study form label.
func (e *FieldExtractor) name(s *scan) RawValue {
	i := s.label(e.cfg.Anchors.StudyForm)
	if i < 0 {
		return RawValue{}
	}
	name := strings.TrimLeftFunc(s.text[:s.tokens[i].Start], func(r rune) bool {
		return unicode.IsSpace(r) || r == '.' || r == '-' || r == '|'
	})
	name = strings.TrimRightFunc(name, func(r rune) bool {
		return unicode.IsSpace(r) || r == '|'
	})
	if name == "" {
		return RawValue{}
	}
	return present(name)
}

// studyForm is the first word after the study form label.
// Hyphenated words such as "очно-заочная" are kept whole.
func (e *FieldExtractor) studyForm(s *scan) RawValue {
	i := s.label(e.cfg.Anchors.StudyForm)
	if i < 0 {
		return RawValue{}
	}
	k := i + 1
	for k < len(s.tokens) && s.tokens[k].Kind == TokenText && !isWord(s.tokens[k]) {
		k++
	}
	if k >= len(s.tokens) || !isWord(s.tokens[k]) {
		return RawValue{}
	}
	start, end := s.tokens[k].Start, s.tokens[k].End
	for k+2 < len(s.tokens) &&
		s.tokens[k+1].Text == "-" && s.tokens[k+1].Start == end &&
		isWord(s.tokens[k+2]) && s.tokens[k+2].Start == s.tokens[k+1].End {
		end = s.tokens[k+2].End
		k += 2
	}
	return present(strings.ToLower(s.text[start:end]))
}

// subjectsRaw is the text between the subjects label and the seats or
// tuition label.
func (e *FieldExtractor) subjectsRaw(s *scan) RawValue {
	a := e.cfg.Anchors
	lo, hi, ok := s.span(a.Subjects, a.Seats, a.Tuition)
	if !ok {
		return RawValue{}
	}
	raw := strings.Trim(s.textOf(lo, hi), " :|")
	if raw == "" {
		return RawValue{}
	}
	return present(raw)
}

// prices returns the digit groups written directly before a currency word,
// in text order. Groups separated only by whitespace form one amount
// ("182 100 руб." is 182100); a trailing group must have three digits.
// The digits used are marked consumed.
func (e *FieldExtractor) prices(s *scan) []string {
	var out []string
	for i, tok := range s.tokens {
		if !isWord(tok) || !e.cfg.isCurrency(tok.Text) {
			continue
		}
		j := i
		for j > 0 {
			prev := s.tokens[j-1]
			if prev.Kind != TokenNumber || s.consumed[j-1] || !blank(s.text[prev.End:s.tokens[j].Start]) {
				break
			}
			if j < i && (len(s.tokens[j].Text) != 3 || len(prev.Text) > 3) {
				break
			}
			j--
		}
		if j == i {
			continue
		}
		var digits strings.Builder
		for k := j; k < i; k++ {
			digits.WriteString(s.tokens[k].Text)
			s.consumed[k] = true
		}
		out = append(out, digits.String())
	}
	return out
}

// seats reads the seat counts. With three or more values in the seats
// span the last three are budget, paid domestic and paid foreign; with
// fewer, the first is budget.
func (e *FieldExtractor) seats(s *scan) []RawValue {
	a := e.cfg.Anchors
	lo, hi, ok := s.span(a.Seats, a.SeparateQuota, a.Scores)
	if !ok {
		return nil
	}
	var values []Token
	for k := lo; k < hi; k++ {
		tok := s.tokens[k]
		if s.consumed[k] {
			continue
		}
		if tok.Kind == TokenDash || (tok.Kind == TokenNumber && len(tok.Text) <= 3) {
			values = append(values, tok)
		}
	}

	var picked []Token
	switch {
	case len(values) >= 3:
		picked = slots(values, 3, true)
	case len(values) > 0:
		picked = slots(values, 1, false)
	}
	out := make([]RawValue, len(picked))
	for i, tok := range picked {
		out[i] = countValue(tok)
	}
	return out
}

// quota is the first count after a quota label, ignoring punctuation.
func (e *FieldExtractor) quota(s *scan, anchor string) RawValue {
	if anchor == "" {
		return RawValue{}
	}
	i := s.label(anchor)
	if i < 0 {
		return RawValue{}
	}
	for k := i + 1; k < len(s.tokens); k++ {
		tok := s.tokens[k]
		switch {
		case s.consumed[k]:
			return RawValue{}
		case tok.Kind == TokenNumber || tok.Kind == TokenDash:
			return countValue(tok)
		case tok.Kind == TokenText && !isWord(tok):
			continue
		default:
			return RawValue{}
		}
	}
	return RawValue{}
}

// scores reads the historical passing scores and their years.
//
// With a scores label, values are read inside its span after skipping a
// header of year numbers; a dash holds a slot with an unknown score. Dashes
// belong to the header only before its first year.
// Without the label, every plausible score in the block counts.
// The bool result reports whether any slot was found.
func (e *FieldExtractor) scores(s *scan) ([]RawValue, []int, bool) {
	latest := e.cfg.LatestScoreYear
	var picked []Token

	if lo, hi, ok := s.span(e.cfg.Anchors.Scores); ok {
		var values []Token
		for k := lo; k < hi; k++ {
			tok := s.tokens[k]
			if !s.consumed[k] && (tok.Kind == TokenNumber || tok.Kind == TokenDash) {
				values = append(values, tok)
			}
		}

		header, firstYear := 0, -1
		for header < len(values) && header < priem.ScoreSlots &&
			(isYear(values[header]) || (firstYear < 0 && values[header].Kind == TokenDash)) {
			if firstYear < 0 && isYear(values[header]) {
				firstYear = header
			}
			header++
		}
		if firstYear >= 0 {
			year, _ := strconv.Atoi(values[firstYear].Text)
			latest = year + firstYear
			values = values[header:]
		}

		for _, tok := range values {
			if tok.Kind == TokenDash || e.isScore(tok) {
				picked = append(picked, tok)
			}
		}
	} else {
		for k, tok := range s.tokens {
			if !s.consumed[k] && e.isScore(tok) {
				picked = append(picked, tok)
			}
		}
	}

	picked = slots(picked, priem.ScoreSlots, false)
	scores := make([]RawValue, priem.ScoreSlots)
	years := make([]int, priem.ScoreSlots)
	for k := range scores {
		years[k] = latest - k
		if k < len(picked) && picked[k].Kind == TokenNumber {
			scores[k] = present(picked[k].Text)
		}
	}
	return scores, years, len(picked) > 0
}

// isScore reports whether tok is a three digit number in the score range.
func (e *FieldExtractor) isScore(tok Token) bool {
	if tok.Kind != TokenNumber || len(tok.Text) != 3 {
		return false
	}
	n, err := strconv.Atoi(tok.Text)
	return err == nil && n >= e.cfg.MinScore && n <= e.cfg.MaxScore
}

func isYear(tok Token) bool {
	if tok.Kind != TokenNumber || len(tok.Text) != 4 {
		return false
	}
	n, _ := strconv.Atoi(tok.Text)
	return n >= 1900 && n <= 2100
}

// countValue reads a seat or quota token; a dash means zero.
func countValue(tok Token) RawValue {
	if tok.Kind == TokenDash {
		return present("0")
	}
	return present(tok.Text)
}

// slots assigns values to n positional slots: the first n values, or the
// last n when fromEnd is set. Fewer values leave trailing slots empty.
func slots(values []Token, n int, fromEnd bool) []Token {
	if fromEnd && len(values) > n {
		return values[len(values)-n:]
	}
	if len(values) > n {
		return values[:n]
	}
	return values
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// scan is a tokenized block with the tokens already claimed by a field.
type scan struct {
	text     string
	tokens   []Token
	consumed []bool
}

func newScan(text string, tok *Tokenizer) *scan {
	tokens := tok.Tokenize(text)
	return &scan{
		text:     text,
		tokens:   tokens,
		consumed: make([]bool, len(tokens)),
	}
}

// label returns the index of the first label token named name, or -1.
func (s *scan) label(name string) int {
	for i, tok := range s.tokens {
		if tok.Kind == TokenLabel && tok.Text == name {
			return i
		}
	}
	return -1
}

// span returns the token range [lo, hi) after the first from label. The
// range ends at the first following label listed in until; when none of
// them occurs, at the next label of any kind, or the end of the block.
func (s *scan) span(from string, until ...string) (lo, hi int, ok bool) {
	if from == "" {
		return 0, 0, false
	}
	i := s.label(from)
	if i < 0 {
		return 0, 0, false
	}
	lo, next := i+1, -1
	for j := lo; j < len(s.tokens); j++ {
		if s.tokens[j].Kind != TokenLabel {
			continue
		}
		if slices.Contains(until, s.tokens[j].Text) {
			return lo, j, true
		}
		if next < 0 {
			next = j
		}
	}
	if next >= 0 {
		return lo, next, true
	}
	return lo, len(s.tokens), true
}

// textOf returns the source text covered by tokens [lo, hi).
func (s *scan) textOf(lo, hi int) string {
	if lo >= hi {
		return ""
	}
	return s.text[s.tokens[lo].Start:s.tokens[hi-1].End]
}
