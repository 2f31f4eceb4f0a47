package priem

import (
	"context"
	"regexp"
)

// SitemapService discovers URLs from website sitemaps.
type SitemapService interface {
	// DiscoverURLs finds the URLs listed in a site's sitemaps.
	// Sitemaps come from robots.txt, falling back to /sitemap.xml.
	DiscoverURLs(ctx context.Context, baseURL string, filter *URLFilter) ([]string, error)
}

// URLFilter selects which site URLs are worth ingesting.
type URLFilter struct {
	// When set, a URL must match one of these.
	Include []*regexp.Regexp

	// A URL matching any of these is dropped, even if included.
	Exclude []*regexp.Regexp
}

// Match reports whether url passes the filter. A nil filter passes everything.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}
	if len(f.Include) > 0 && !matchAny(f.Include, url) {
		return false
	}
	return !matchAny(f.Exclude, url)
}

func matchAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
