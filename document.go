package priem

import (
	"fmt"
	"sort"
	"time"
)

// Source types of indexed documents.
const (
	SourceTable   = "table"
	SourceWeb     = "web"
	SourcePodcast = "podcast"
)

// Metadata is the flat attribute set stored next to a document.
// Values are scalars only; vector stores cannot filter on lists or maps.
type Metadata map[string]any

// Validate returns an error if any value is not a scalar.
func (m Metadata) Validate() error {
	for _, k := range m.Keys() {
		switch m[k].(type) {
		case string, bool, int, int32, int64, float32, float64:
		default:
			return Errorf(EINVALID, "metadata %q: unsupported value type %T", k, m[k])
		}
	}
	return nil
}

// Keys returns the metadata keys in sorted order.
func (m Metadata) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String returns the value of key formatted as text, or "" when missing.
func (m Metadata) String(key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Document is one indexable unit of text.
type Document struct {
	ID          string    `json:"id"`
	SourceURL   string    `json:"sourceUrl"`
	SourceType  string    `json:"sourceType"`
	Title       string    `json:"title,omitempty"`
	Content     string    `json:"content"`
	ContentHash string    `json:"contentHash"`
	Metadata    Metadata  `json:"metadata"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.SourceType == "" {
		return Errorf(EINVALID, "document source type required")
	}
	if d.Content == "" {
		return Errorf(EINVALID, "document content required")
	}
	return d.Metadata.Validate()
}
