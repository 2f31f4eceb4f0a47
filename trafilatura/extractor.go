// Package trafilatura reduces ordinary site pages to their main content.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"github.com/stankin-rag/priem"
	"golang.org/x/net/html"
)

// Ensure Extractor implements priem.Extractor at compile time.
var _ priem.Extractor = (*Extractor)(nil)

// Option configures an Extractor.
type Option func(*Extractor)

// WithFallback sets the extractor consulted when trafilatura finds no
// content or fails outright.
func WithFallback(fallback priem.Extractor) Option {
	return func(e *Extractor) {
		e.fallback = fallback
	}
}

// Extractor wraps go-trafilatura. Comments sections are dropped.
type Extractor struct {
	fallback priem.Extractor
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the page title and its main content as HTML.
func (e *Extractor) Extract(rawHTML string) (*priem.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, priem.Errorf(priem.EINVALID, "empty HTML input")
	}

	result, err := e.extract(rawHTML)
	if e.fallback != nil && (err != nil || result.ContentHTML == "") {
		fallback, ferr := e.fallback.Extract(rawHTML)
		if ferr == nil && fallback.ContentHTML != "" {
			if fallback.Title == "" && result != nil {
				fallback.Title = result.Title
			}
			return fallback, nil
		}
	}
	return result, err
}

func (e *Extractor) extract(rawHTML string) (*priem.ExtractResult, error) {
	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
	}
	out, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	result := &priem.ExtractResult{Title: out.Metadata.Title}
	if out.ContentNode != nil {
		var buf bytes.Buffer
		if err := html.Render(&buf, out.ContentNode); err != nil {
			return nil, err
		}
		result.ContentHTML = buf.String()
	}
	return result, nil
}
