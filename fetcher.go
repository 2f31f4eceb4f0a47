package priem

import "context"

// Fetcher retrieves HTML from URLs.
// Implementations may use a plain HTTP client or browser automation for
// JavaScript-rendered pages.
type Fetcher interface {
	// Fetch retrieves the URL and returns its HTML decoded to UTF-8.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases underlying resources.
	Close() error
}
