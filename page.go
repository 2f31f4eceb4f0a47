package priem

// RawPage is a fetched page exactly as the server returned it.
type RawPage struct {
	URL  string `json:"url"`
	HTML string `json:"html"`
}

// NormalizedText is the linear text of one page. Tokens appear in the
// same order as in the source document; every later stage relies on it.
type NormalizedText struct {
	URL  string
	Text string
}

// Normalizer turns raw HTML into linear text.
type Normalizer interface {
	// Normalize returns EINVALID for empty input. Any other HTML, however
	// malformed, yields text.
	Normalize(page *RawPage) (*NormalizedText, error)
}

// Page is an ordinary site page reduced to its main content.
type Page struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text"` // Markdown
}

// NewPageDocument converts an ordinary site page into a document.
func NewPageDocument(p *Page) *Document {
	return &Document{
		SourceURL:  p.URL,
		SourceType: SourceWeb,
		Title:      p.Title,
		Content:    p.Text,
		Metadata: Metadata{
			"source_type": SourceWeb,
			"title":       p.Title,
			"url":         p.URL,
		},
	}
}
