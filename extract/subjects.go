package extract

import (
	"sort"
	"strings"
)

// NormalizeSubjects turns an exam expression such as "Р+М+И/Ф (профиль)"
// into a sorted set of subject names. Parenthesized notes are dropped,
// "+" and "/" both separate subjects, and shorthand is expanded through
// abbreviations (matched case-insensitively). Unknown shorthand is kept
// in upper case.
func NormalizeSubjects(raw string, abbreviations map[string]string) []string {
	names := make(map[string]string, len(abbreviations))
	for k, v := range abbreviations {
		names[strings.ToUpper(k)] = v
	}

	set := make(map[string]struct{})
	for _, part := range strings.FieldsFunc(stripParens(raw), func(r rune) bool {
		return r == '+' || r == '/'
	}) {
		key := strings.ToUpper(strings.TrimSpace(part))
		if key == "" {
			continue
		}
		if name, ok := names[key]; ok {
			key = name
		}
		set[key] = struct{}{}
	}

	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// stripParens removes every "(...)" group. An unclosed "(" is kept.
func stripParens(s string) string {
	var b strings.Builder
	for {
		open := strings.IndexByte(s, '(')
		if open < 0 {
			break
		}
		closing := strings.IndexByte(s[open:], ')')
		if closing < 0 {
			break
		}
		b.WriteString(s[:open])
		s = s[open+closing+1:]
	}
	b.WriteString(s)
	return b.String()
}
