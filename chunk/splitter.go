// Package chunk cuts page text into overlapping pieces sized for embedding.
package chunk

import (
	"io"
	"log/slog"
	"regexp"
	"unicode/utf8"

	"github.com/stankin-rag/priem"
	"github.com/tmc/langchaingo/textsplitter"
)

// Ensure Splitter implements priem.Chunker at compile time.
var _ priem.Chunker = (*Splitter)(nil)

// Splitter defaults. Lengths are in characters.
const (
	DefaultSize      = 1000
	DefaultOverlap   = 100
	DefaultMinLength = 50
	DefaultMaxLength = 3000
)

// DefaultSeparators are tried in order: paragraphs, lines, words, characters.
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// DefaultGarbage matches chunks not worth indexing: inline images, web
// counters and chunks that are nothing but a link.
var DefaultGarbage = []*regexp.Regexp{
	regexp.MustCompile(`data:image/[a-zA-Z0-9+/=;,-]+`),
	regexp.MustCompile(`\[Top\.Mail\.Ru\]|Yandex\.Metrika`),
	regexp.MustCompile(`^\s*https?://\S+\s*$`),
}

// Splitter cuts text with a recursive character splitter and drops the
// chunks that fall outside the length bounds or match a garbage pattern.
type Splitter struct {
	Size       int
	Overlap    int
	MinLength  int
	MaxLength  int
	Separators []string
	Garbage    []*regexp.Regexp
	Logger     *slog.Logger
}

// NewSplitter returns a Splitter with the default settings.
func NewSplitter(logger *slog.Logger) *Splitter {
	return &Splitter{
		Size:       DefaultSize,
		Overlap:    DefaultOverlap,
		MinLength:  DefaultMinLength,
		MaxLength:  DefaultMaxLength,
		Separators: DefaultSeparators,
		Garbage:    DefaultGarbage,
		Logger:     logger,
	}
}

// Split returns the chunks of text that pass the length and garbage
// filters.
func (s *Splitter) Split(text string) []string {
	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	chunks, err := s.splitter().SplitText(text)
	if err != nil {
		logger.Warn("text split failed", "error", err)
		return nil
	}

	var out []string
	for i, c := range chunks {
		n := utf8.RuneCountInString(c)
		if n < s.MinLength || (s.MaxLength > 0 && n > s.MaxLength) {
			logger.Debug("chunk dropped", "index", i, "reason", "length", "chars", n)
			continue
		}
		if re := s.garbage(c); re != nil {
			logger.Debug("chunk dropped", "index", i, "reason", "garbage", "pattern", re.String())
			continue
		}
		out = append(out, c)
	}
	return out
}

func (s *Splitter) splitter() textsplitter.RecursiveCharacter {
	size := s.Size
	if size <= 0 {
		size = DefaultSize
	}
	seps := s.Separators
	if len(seps) == 0 {
		seps = DefaultSeparators
	}
	return textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(size),
		textsplitter.WithChunkOverlap(max(min(s.Overlap, size-1), 0)),
		textsplitter.WithSeparators(seps),
		textsplitter.WithLenFunc(utf8.RuneCountInString),
	)
}

func (s *Splitter) garbage(c string) *regexp.Regexp {
	for _, re := range s.Garbage {
		if re.MatchString(c) {
			return re
		}
	}
	return nil
}
