package mock

import "github.com/stankin-rag/priem"

var _ priem.Normalizer = (*Normalizer)(nil)

// Normalizer is a mock implementation of priem.Normalizer.
type Normalizer struct {
	NormalizeFn func(page *priem.RawPage) (*priem.NormalizedText, error)
}

func (n *Normalizer) Normalize(page *priem.RawPage) (*priem.NormalizedText, error) {
	return n.NormalizeFn(page)
}
