// Package readability extracts article content with Mozilla's Readability
// algorithm. It backs up the trafilatura extractor on pages trafilatura
// finds empty.
package readability

import (
	"strings"

	"github.com/go-shiori/go-readability"
	"github.com/stankin-rag/priem"
)

// Ensure Extractor implements priem.Extractor at compile time.
var _ priem.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the article title and its cleaned content HTML.
// Pages without a readable article yield ENOTFOUND.
func (e *Extractor) Extract(rawHTML string) (*priem.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, priem.Errorf(priem.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, priem.Errorf(priem.ENOTFOUND, "no readable content: %v", err)
	}

	return &priem.ExtractResult{
		Title:       strings.TrimSpace(article.Title),
		ContentHTML: article.Content,
	}, nil
}
