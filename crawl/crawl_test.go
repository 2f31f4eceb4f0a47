package crawl_test

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stankin-rag/priem"
	"github.com/stankin-rag/priem/crawl"
	"github.com/stankin-rag/priem/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// site is an in-memory web: each URL maps to the links on that page.
type site map[string][]string

func (s site) fetcher() *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (string, error) {
			if _, ok := s[url]; !ok {
				return "", priem.Errorf(priem.ENOTFOUND, "page not found")
			}
			return "<html>" + url + "</html>", nil
		},
	}
}

func (s site) links(html, pageURL string) ([]string, error) {
	return s[pageURL], nil
}

func newCrawler(s site) *crawl.Crawler {
	return &crawl.Crawler{
		Fetcher:     s.fetcher(),
		Links:       s.links,
		RetryDelays: []time.Duration{},
		Concurrency: 2,
	}
}

func walkURLs(t *testing.T, c *crawl.Crawler, start string) ([]string, *crawl.Result) {
	t.Helper()
	var urls []string
	result, err := c.Walk(context.Background(), start, func(ctx context.Context, page *priem.RawPage) error {
		urls = append(urls, page.URL)
		return nil
	})
	require.NoError(t, err)
	return urls, result
}

func TestCrawler_Walk(t *testing.T) {
	t.Parallel()

	t.Run("visits pages breadth first in discovery order", func(t *testing.T) {
		t.Parallel()

		s := site{
			"https://stankin.ru/priem":             {"https://stankin.ru/priem/bachelor", "https://stankin.ru/priem/master"},
			"https://stankin.ru/priem/bachelor":    {"https://stankin.ru/priem/bachelor/it", "https://stankin.ru/priem"},
			"https://stankin.ru/priem/master":      {},
			"https://stankin.ru/priem/bachelor/it": {},
		}

		urls, result := walkURLs(t, newCrawler(s), "https://stankin.ru/priem")

		assert.Equal(t, []string{
			"https://stankin.ru/priem",
			"https://stankin.ru/priem/bachelor",
			"https://stankin.ru/priem/master",
			"https://stankin.ru/priem/bachelor/it",
		}, urls)
		assert.Equal(t, 4, result.Visited)
	})

	t.Run("stays on the start host", func(t *testing.T) {
		t.Parallel()

		s := site{
			"https://stankin.ru/":      {"https://vk.com/stankin", "mailto:priem@stankin.ru", "https://stankin.ru/about"},
			"https://stankin.ru/about": {},
			"https://vk.com/stankin":   {},
		}

		urls, _ := walkURLs(t, newCrawler(s), "https://stankin.ru/")

		assert.Equal(t, []string{"https://stankin.ru/", "https://stankin.ru/about"}, urls)
	})

	t.Run("stops following links at max depth", func(t *testing.T) {
		t.Parallel()

		s := site{
			"https://stankin.ru/0": {"https://stankin.ru/1"},
			"https://stankin.ru/1": {"https://stankin.ru/2"},
			"https://stankin.ru/2": {"https://stankin.ru/3"},
			"https://stankin.ru/3": {},
		}
		c := newCrawler(s)
		c.MaxDepth = 2

		urls, _ := walkURLs(t, c, "https://stankin.ru/0")

		assert.Equal(t, []string{"https://stankin.ru/0", "https://stankin.ru/1", "https://stankin.ru/2"}, urls)
	})

	t.Run("caps the number of pages", func(t *testing.T) {
		t.Parallel()

		s := site{
			"https://stankin.ru/":  {"https://stankin.ru/a", "https://stankin.ru/b", "https://stankin.ru/c"},
			"https://stankin.ru/a": {},
			"https://stankin.ru/b": {},
			"https://stankin.ru/c": {},
		}
		c := newCrawler(s)
		c.MaxPages = 2

		urls, result := walkURLs(t, c, "https://stankin.ru/")

		assert.Equal(t, []string{"https://stankin.ru/", "https://stankin.ru/a"}, urls)
		assert.Equal(t, 2, result.Skipped)
	})

	t.Run("applies the URL filter to links", func(t *testing.T) {
		t.Parallel()

		s := site{
			"https://stankin.ru/":               {"https://stankin.ru/priem", "https://stankin.ru/files/plan.pdf"},
			"https://stankin.ru/priem":          {},
			"https://stankin.ru/files/plan.pdf": {},
		}
		c := newCrawler(s)
		c.Filter = &priem.URLFilter{Exclude: []*regexp.Regexp{regexp.MustCompile(`\.pdf$`)}}

		urls, _ := walkURLs(t, c, "https://stankin.ru/")

		assert.Equal(t, []string{"https://stankin.ru/", "https://stankin.ru/priem"}, urls)
	})

	t.Run("counts failed fetches and carries on", func(t *testing.T) {
		t.Parallel()

		s := site{
			"https://stankin.ru/":   {"https://stankin.ru/gone", "https://stankin.ru/ok"},
			"https://stankin.ru/ok": {},
		}

		urls, result := walkURLs(t, newCrawler(s), "https://stankin.ru/")

		assert.Equal(t, []string{"https://stankin.ru/", "https://stankin.ru/ok"}, urls)
		assert.Equal(t, 1, result.Failed)
	})

	t.Run("seeds the second level from sitemaps", func(t *testing.T) {
		t.Parallel()

		s := site{
			"https://stankin.ru/":       {},
			"https://stankin.ru/hidden": {},
		}
		c := newCrawler(s)
		c.Sitemaps = &mock.SitemapService{
			DiscoverURLsFn: func(ctx context.Context, baseURL string, filter *priem.URLFilter) ([]string, error) {
				return []string{"https://stankin.ru/hidden", "https://other.ru/x"}, nil
			},
		}

		urls, _ := walkURLs(t, c, "https://stankin.ru/")

		assert.Equal(t, []string{"https://stankin.ru/", "https://stankin.ru/hidden"}, urls)
	})

	t.Run("returns the visitor's error", func(t *testing.T) {
		t.Parallel()

		s := site{"https://stankin.ru/": {}}
		errStop := errors.New("stop")

		_, err := newCrawler(s).Walk(context.Background(), "https://stankin.ru/", func(ctx context.Context, page *priem.RawPage) error {
			return errStop
		})

		assert.ErrorIs(t, err, errStop)
	})

	t.Run("rejects a relative start URL", func(t *testing.T) {
		t.Parallel()

		_, err := newCrawler(site{}).Walk(context.Background(), "/priem", nil)

		assert.Equal(t, priem.EINVALID, priem.ErrorCode(err))
	})

	t.Run("returns context error when cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		c := newCrawler(site{"https://stankin.ru/": {}})
		c.RateLimiter = crawl.NewDomainLimiter(1)

		_, err := c.Walk(ctx, "https://stankin.ru/", func(ctx context.Context, page *priem.RawPage) error { return nil })

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("fetches a level concurrently", func(t *testing.T) {
		t.Parallel()

		var (
			mu      sync.Mutex
			active  int
			maxSeen int
		)
		release := make(chan struct{})
		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (string, error) {
					mu.Lock()
					active++
					maxSeen = max(maxSeen, active)
					if active == 2 {
						close(release)
					}
					mu.Unlock()
					if url != "https://stankin.ru/" {
						<-release
					}
					mu.Lock()
					active--
					mu.Unlock()
					return "", nil
				},
			},
			Links: func(html, pageURL string) ([]string, error) {
				if pageURL == "https://stankin.ru/" {
					return []string{"https://stankin.ru/a", "https://stankin.ru/b"}, nil
				}
				return nil, nil
			},
			Concurrency: 2,
		}

		urls, _ := walkURLs(t, c, "https://stankin.ru/")

		assert.Len(t, urls, 3)
		assert.Equal(t, 2, maxSeen)
	})
}

func TestCrawler_Crawl(t *testing.T) {
	t.Parallel()

	t.Run("extracts main content of each page", func(t *testing.T) {
		t.Parallel()

		s := site{
			"https://stankin.ru/":      {"https://stankin.ru/priem"},
			"https://stankin.ru/priem": {},
		}
		c := newCrawler(s)
		c.Extractor = &mock.Extractor{
			ExtractFn: func(html string) (*priem.ExtractResult, error) {
				return &priem.ExtractResult{Title: "Приём", ContentHTML: html}, nil
			},
		}
		c.Converter = &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				return "  text of " + html + "\n", nil
			},
		}

		pages, result, err := c.Crawl(context.Background(), "https://stankin.ru/")

		require.NoError(t, err)
		require.Len(t, pages, 2)
		assert.Equal(t, &priem.Page{
			URL:   "https://stankin.ru/priem",
			Title: "Приём",
			Text:  "text of <html>https://stankin.ru/priem</html>",
		}, pages[1])
		assert.Equal(t, 2, result.Visited)
	})

	t.Run("counts extraction failures and drops empty pages", func(t *testing.T) {
		t.Parallel()

		s := site{
			"https://stankin.ru/":      {"https://stankin.ru/bad", "https://stankin.ru/empty"},
			"https://stankin.ru/bad":   {},
			"https://stankin.ru/empty": {},
		}
		c := newCrawler(s)
		c.Extractor = &mock.Extractor{
			ExtractFn: func(html string) (*priem.ExtractResult, error) {
				if html == "<html>https://stankin.ru/bad</html>" {
					return nil, errors.New("no content")
				}
				return &priem.ExtractResult{ContentHTML: html}, nil
			},
		}
		c.Converter = &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				if html == "<html>https://stankin.ru/empty</html>" {
					return " ", nil
				}
				return "content", nil
			},
		}

		pages, result, err := c.Crawl(context.Background(), "https://stankin.ru/")

		require.NoError(t, err)
		require.Len(t, pages, 1)
		assert.Equal(t, "https://stankin.ru/", pages[0].URL)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, 2, result.Visited)
	})
}
