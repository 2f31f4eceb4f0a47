package http

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/stankin-rag/priem"
)

// maxSitemaps bounds how many sitemap files one discovery reads.
const maxSitemaps = 50

// Ensure SitemapService implements priem.SitemapService.
var _ priem.SitemapService = (*SitemapService)(nil)

// SitemapService lists a site's pages from its sitemaps. The crawler uses
// them as extra seeds next to the start page.
type SitemapService struct {
	client    *http.Client
	userAgent string
}

// NewSitemapService creates a SitemapService. A nil client uses
// http.DefaultClient.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client, userAgent: DefaultUserAgent}
}

// DiscoverURLs returns the page URLs of baseURL's site that lie under
// baseURL's path and pass filter. A site without sitemaps yields an
// empty list.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *priem.URLFilter) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, priem.Errorf(priem.EINVALID, "invalid base URL %q", baseURL)
	}

	queue, err := s.sitemapLocations(ctx, base)
	if err != nil {
		return nil, err
	}

	urls := []string{}
	seenURL := make(map[string]bool)
	seenSitemap := make(map[string]bool)
	for len(queue) > 0 && len(seenSitemap) < maxSitemaps {
		loc := queue[0]
		queue = queue[1:]
		if seenSitemap[loc] {
			continue
		}
		seenSitemap[loc] = true

		root, err := s.readSitemap(ctx, loc)
		if err != nil {
			return nil, err
		}
		if root.Tag == "sitemapindex" {
			queue = append(queue, locs(root, "sitemap")...)
			continue
		}
		for _, u := range locs(root, "url") {
			if seenURL[u] || !underPath(u, base) || !filter.Match(u) {
				continue
			}
			seenURL[u] = true
			urls = append(urls, u)
		}
	}
	return urls, nil
}

// sitemapLocations reads Sitemap directives from robots.txt and falls
// back to /sitemap.xml when there are none.
func (s *SitemapService) sitemapLocations(ctx context.Context, base *url.URL) ([]string, error) {
	root := &url.URL{Scheme: base.Scheme, Host: base.Host}

	var found []string
	body, err := s.get(ctx, root.JoinPath("robots.txt").String())
	if err == nil {
		defer body.Close()
		scanner := bufio.NewScanner(body)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if len(line) > len("sitemap:") && strings.EqualFold(line[:len("sitemap:")], "sitemap:") {
				found = append(found, strings.TrimSpace(line[len("sitemap:"):]))
			}
		}
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if len(found) > 0 {
		return found, nil
	}

	fallback := root.JoinPath("sitemap.xml").String()
	if body, err := s.get(ctx, fallback); err == nil {
		body.Close()
		return []string{fallback}, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return nil, nil
}

func (s *SitemapService) readSitemap(ctx context.Context, loc string) (*etree.Element, error) {
	body, err := s.get(ctx, loc)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, fmt.Errorf("parsing sitemap %s: %w", loc, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("empty sitemap %s", loc)
	}
	return root, nil
}

func (s *SitemapService) get(ctx context.Context, target string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, target)
	}
	return resp.Body, nil
}

// locs returns the <loc> texts of root's child elements named tag.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		if loc := el.SelectElement("loc"); loc != nil {
			if u := strings.TrimSpace(loc.Text()); u != "" {
				out = append(out, u)
			}
		}
	}
	return out
}

// underPath reports whether rawURL lies below base's path, respecting
// segment boundaries: /bachelor matches /bachelor/it but not /bachelors.
func underPath(rawURL string, base *url.URL) bool {
	prefix := strings.TrimSuffix(base.Path, "/")
	if prefix == "" {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Path == prefix || strings.HasPrefix(u.Path, prefix+"/")
}
