package extract

import (
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/stankin-rag/priem"
)

// Segmenter cuts page text into program blocks.
type Segmenter struct {
	cfg    Config
	tok    *Tokenizer
	logger *slog.Logger
}

// NewSegmenter returns a segmenter. A nil logger discards output.
func NewSegmenter(cfg Config, logger *slog.Logger) *Segmenter {
	return &Segmenter{
		cfg:    cfg,
		tok:    NewTokenizer(cfg),
		logger: orDiscard(logger),
	}
}

// Segment returns the valid program blocks of text in page order.
// Each block starts at a program code and runs to the next code or the end
// of the text. Text before the first code is not part of any block.
func (s *Segmenter) Segment(text *priem.NormalizedText) []*priem.ProgramBlock {
	body := text.Text
	if s.cfg.FooterAnchor != "" {
		if i := strings.Index(body, s.cfg.FooterAnchor); i >= 0 {
			body = body[:i]
		}
	}

	var codes []Token
	for _, tok := range s.tok.Tokenize(body) {
		if tok.Kind == TokenCode {
			codes = append(codes, tok)
		}
	}

	var blocks []*priem.ProgramBlock
	for i, code := range codes {
		end := len(body)
		if i+1 < len(codes) {
			end = codes[i+1].Start
		}
		block := &priem.ProgramBlock{
			Code:      code.Text,
			Text:      body[code.End:end],
			SourceURL: text.URL,
		}
		if reason := s.reject(block); reason != "" {
			s.logger.Debug("block discarded", "url", text.URL, "code", block.Code, "reason", reason)
			continue
		}
		blocks = append(blocks, block)
	}
	return blocks
}

// reject returns why a block is not a program description, or "".
func (s *Segmenter) reject(block *priem.ProgramBlock) string {
	if marker := s.cfg.Anchors.StudyForm; marker != "" && !containsFold(block.Text, marker) {
		return "no study form marker"
	}
	if utf8.RuneCountInString(block.Text) < s.cfg.MinBlockLength {
		return "too short"
	}
	return ""
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return logger
}
