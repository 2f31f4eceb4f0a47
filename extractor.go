package priem

// ExtractResult holds the main content of a generic site page.
type ExtractResult struct {
	// Title comes from page metadata.
	Title string

	// ContentHTML is the main content with boilerplate removed.
	ContentHTML string
}

// Extractor pulls the main content out of an ordinary (non-table) page.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}
