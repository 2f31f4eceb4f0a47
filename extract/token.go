package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenKind classifies a token.
type TokenKind int

// Token kinds.
const (
	TokenText TokenKind = iota
	TokenNumber
	TokenDash
	TokenCode
	TokenLabel
)

// String returns the kind name.
func (k TokenKind) String() string {
	switch k {
	case TokenNumber:
		return "NUMBER"
	case TokenDash:
		return "DASH"
	case TokenCode:
		return "CODE"
	case TokenLabel:
		return "LABEL"
	default:
		return "TEXT"
	}
}

// Token is a typed slice of text. Start and End are byte offsets.
// For labels, Text is the configured anchor phrase, not the source spelling.
type Token struct {
	Kind  TokenKind
	Text  string
	Start int
	End   int
}

// Tokenizer splits block text into tokens.
type Tokenizer struct {
	labels []string
	dashes string
}

// NewTokenizer returns a tokenizer recognizing the labels and dashes of cfg.
func NewTokenizer(cfg Config) *Tokenizer {
	return &Tokenizer{
		labels: cfg.labels(),
		dashes: cfg.Dashes,
	}
}

// Tokenize is a convenience for NewTokenizer(cfg).Tokenize(text).
func Tokenize(text string, cfg Config) []Token {
	return NewTokenizer(cfg).Tokenize(text)
}

// Tokenize splits text into tokens, skipping whitespace.
//
// A program code is recognized only at the start of a digit run, so digits
// directly before a code never let it match. Labels are matched
// case-insensitively at word starts, longest phrase first.
func (t *Tokenizer) Tokenize(text string) []Token {
	var tokens []Token
	emit := func(kind TokenKind, s string, start, end int) {
		tokens = append(tokens, Token{Kind: kind, Text: s, Start: start, End: end})
	}

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case unicode.IsSpace(r):
			i += size

		case t.dashes != "" && strings.ContainsRune(t.dashes, r):
			emit(TokenDash, text[i:i+size], i, i+size)
			i += size

		case isDigit(text[i]):
			if n := matchCode(text[i:]); n > 0 {
				emit(TokenCode, text[i:i+n], i, i+n)
				i += n
				continue
			}
			j := i
			for j < len(text) && isDigit(text[j]) {
				j++
			}
			emit(TokenNumber, text[i:j], i, j)
			i = j

		case unicode.IsLetter(r):
			if label, n := t.matchLabel(text[i:]); n > 0 {
				emit(TokenLabel, label, i, i+n)
				i += n
				continue
			}
			j := i
			for j < len(text) {
				r, size := utf8.DecodeRuneInString(text[j:])
				if !unicode.IsLetter(r) && !unicode.IsMark(r) {
					break
				}
				j += size
			}
			emit(TokenText, text[i:j], i, j)
			i = j

		default:
			emit(TokenText, text[i:i+size], i, i+size)
			i += size
		}
	}
	return tokens
}

// matchLabel returns the anchor phrase s starts with and its byte length in s.
func (t *Tokenizer) matchLabel(s string) (string, int) {
	for _, label := range t.labels {
		if len(s) >= len(label) && strings.EqualFold(s[:len(label)], label) {
			return label, len(label)
		}
	}
	return "", 0
}

// matchCode returns the length of the program code s starts with, or 0.
// Codes are DD.DD.DD with an optional .DD suffix.
func matchCode(s string) int {
	if !digitsAt(s, 0) || !dotAt(s, 2) || !digitsAt(s, 3) || !dotAt(s, 5) || !digitsAt(s, 6) {
		return 0
	}
	if dotAt(s, 8) && digitsAt(s, 9) {
		return 11
	}
	return 8
}

func digitsAt(s string, i int) bool {
	return i+2 <= len(s) && isDigit(s[i]) && isDigit(s[i+1])
}

func dotAt(s string, i int) bool {
	return i < len(s) && s[i] == '.'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// isWord reports whether tok is a run of letters.
func isWord(tok Token) bool {
	if tok.Kind != TokenText {
		return false
	}
	r, _ := utf8.DecodeRuneInString(tok.Text)
	return unicode.IsLetter(r)
}
