package mock

import "github.com/stankin-rag/priem"

var _ priem.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of priem.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*priem.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*priem.ExtractResult, error) {
	return e.ExtractFn(html)
}
