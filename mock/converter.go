package mock

import "github.com/stankin-rag/priem"

var _ priem.Converter = (*Converter)(nil)

// Converter is a mock implementation of priem.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
