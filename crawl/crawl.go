// Package crawl walks an admissions site breadth-first and turns its pages
// into raw HTML for the program pipeline or extracted text for the index.
package crawl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/stankin-rag/priem"
	"golang.org/x/sync/errgroup"
)

// Crawl defaults.
const (
	DefaultMaxDepth    = 4
	DefaultMaxPages    = 1000
	DefaultConcurrency = 4

	frontierExpectedURLs      = 10000
	frontierFalsePositiveRate = 0.01
)

// LinkFunc lists the links of a page, resolved against its URL.
type LinkFunc func(html, pageURL string) ([]string, error)

// VisitFunc receives each fetched page. Returning an error stops the crawl.
type VisitFunc func(ctx context.Context, page *priem.RawPage) error

// Crawler fetches pages reachable from a start URL on the same host.
type Crawler struct {
	Fetcher priem.Fetcher
	Links   LinkFunc

	// Optional. Sitemap URLs are queued one link away from the start page.
	Sitemaps priem.SitemapService

	// Used by Crawl to reduce pages to their main content.
	Extractor priem.Extractor
	Converter priem.Converter

	RateLimiter *DomainLimiter
	Filter      *priem.URLFilter
	MaxDepth    int
	MaxPages    int
	Concurrency int
	RetryDelays []time.Duration
	Logger      *slog.Logger
}

// Result counts the outcome of a crawl.
type Result struct {
	Visited int
	Failed  int
	Skipped int
}

// fetched is one target's outcome within a level.
type fetched struct {
	target Target
	html   string
	links  []string
	err    error
}

// Walk visits startURL and every page linked from it, level by level, up
// to MaxDepth links away. Pages within a level are fetched concurrently
// but visited in the order they were discovered. Fetch failures are logged
// and counted, never returned.
func (c *Crawler) Walk(ctx context.Context, startURL string, visit VisitFunc) (*Result, error) {
	start, err := url.Parse(startURL)
	if err != nil || start.Host == "" || (start.Scheme != "http" && start.Scheme != "https") {
		return nil, priem.Errorf(priem.EINVALID, "invalid start URL %q", startURL)
	}
	logger := orDiscard(c.Logger)
	maxDepth := withDefault(c.MaxDepth, DefaultMaxDepth)
	maxPages := withDefault(c.MaxPages, DefaultMaxPages)

	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	frontier.Push(startURL, 0)
	if c.Sitemaps != nil && maxDepth > 0 {
		urls, err := c.Sitemaps.DiscoverURLs(ctx, startURL, c.Filter)
		if err != nil {
			logger.Warn("sitemap discovery failed", "url", startURL, "err", err)
		}
		for _, u := range urls {
			if c.inScope(start, u) {
				frontier.Push(u, 1)
			}
		}
	}

	var result Result
	for level := frontier.PopLevel(); len(level) > 0; level = frontier.PopLevel() {
		if budget := maxPages - result.Visited - result.Failed; len(level) > budget {
			result.Skipped += len(level) - budget
			level = level[:budget]
		}
		if len(level) == 0 {
			break
		}

		outcomes, err := c.fetchLevel(ctx, level)
		if err != nil {
			return &result, err
		}

		for _, o := range outcomes {
			if o.err != nil {
				result.Failed++
				logger.Warn("page skipped", "url", o.target.URL, "err", o.err)
				continue
			}
			result.Visited++
			if err := visit(ctx, &priem.RawPage{URL: o.target.URL, HTML: o.html}); err != nil {
				return &result, err
			}
			if o.target.Depth >= maxDepth {
				continue
			}
			for _, link := range o.links {
				if c.inScope(start, link) {
					frontier.Push(link, o.target.Depth+1)
				}
			}
		}
		logger.Info("crawl level done", "depth", level[0].Depth, "pages", len(level), "queued", frontier.Len())
	}
	result.Skipped += frontier.Len()
	return &result, nil
}

// Crawl walks the site and returns each page's main content as Markdown.
// Pages whose content cannot be extracted are counted as failed.
func (c *Crawler) Crawl(ctx context.Context, startURL string) ([]*priem.Page, *Result, error) {
	logger := orDiscard(c.Logger)

	var pages []*priem.Page
	var failed int
	result, err := c.Walk(ctx, startURL, func(ctx context.Context, raw *priem.RawPage) error {
		page, err := c.extractPage(raw)
		if err != nil {
			failed++
			logger.Warn("extraction failed", "url", raw.URL, "err", err)
			return nil
		}
		if page.Text == "" {
			logger.Debug("empty page", "url", raw.URL)
			return nil
		}
		pages = append(pages, page)
		return nil
	})
	if result != nil {
		result.Failed += failed
		result.Visited -= failed
	}
	return pages, result, err
}

func (c *Crawler) extractPage(raw *priem.RawPage) (*priem.Page, error) {
	extracted, err := c.Extractor.Extract(raw.HTML)
	if err != nil {
		return nil, err
	}
	text, err := c.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		return nil, err
	}
	return &priem.Page{
		URL:   raw.URL,
		Title: extracted.Title,
		Text:  strings.TrimSpace(text),
	}, nil
}

// fetchLevel fetches a level's targets concurrently. Outcomes keep the
// order of level; only context cancellation is returned as an error.
func (c *Crawler) fetchLevel(ctx context.Context, level []Target) ([]fetched, error) {
	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	out := make([]fetched, len(level))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(withDefault(c.Concurrency, DefaultConcurrency))
	for i, target := range level {
		g.Go(func() error {
			out[i].target = target
			if c.RateLimiter != nil {
				if err := c.RateLimiter.Wait(gctx, target.URL); err != nil {
					return err
				}
			}
			html, err := FetchWithRetry(gctx, c.Fetcher, target.URL, delays, c.Logger)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				out[i].err = err
				return nil
			}
			out[i].html = html
			if c.Links != nil {
				links, err := c.Links(html, target.URL)
				if err != nil {
					return fmt.Errorf("links of %s: %w", target.URL, err)
				}
				out[i].links = links
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// inScope reports whether rawURL is an http(s) URL on start's host that
// passes the crawler's filter.
func (c *Crawler) inScope(start *url.URL, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host != start.Host {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return c.Filter.Match(rawURL)
}

func withDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return logger
}
