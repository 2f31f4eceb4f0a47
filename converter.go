package priem

// Converter converts HTML to Markdown.
// The normalizer uses it to linearize tables so cells keep their
// left-to-right reading order.
type Converter interface {
	Convert(html string) (string, error)
}
