package htmltomarkdown

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/stankin-rag/priem"
)

// Ensure Converter implements priem.Converter at compile time.
var _ priem.Converter = (*Converter)(nil)

// escaped matches a markdown backslash escape of ASCII punctuation.
var escaped = regexp.MustCompile("\\\\([!-/:-@\\[-`{-~])")

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv     *converter.Converter
	unescape bool
}

// Option configures a Converter.
type Option func(*Converter)

// WithoutEscapes removes the backslash escapes markdown adds before
// punctuation, so the output reads as plain text.
func WithoutEscapes() Option {
	return func(c *Converter) {
		c.unescape = true
	}
}

// NewConverter creates a new Converter. Tables are rendered as markdown
// tables with cells in reading order.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", priem.Errorf(priem.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", err
	}

	if c.unescape {
		result = escaped.ReplaceAllString(result, "$1")
	}
	return result, nil
}
