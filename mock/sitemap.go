package mock

import (
	"context"

	"github.com/stankin-rag/priem"
)

var _ priem.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of priem.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *priem.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *priem.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
