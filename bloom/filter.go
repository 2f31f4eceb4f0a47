// Package bloom remembers which crawl URLs were already scheduled.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter is a concurrency-safe set of URLs backed by a Bloom filter.
// Membership may report false positives at roughly the configured rate,
// so a crawl can skip a page it never saw but never revisits one.
type Filter struct {
	mu sync.Mutex
	f  *bloom.BloomFilter
}

// NewFilter sizes a filter for n URLs at false positive rate fp.
func NewFilter(n uint, fp float64) *Filter {
	return &Filter{f: bloom.NewWithEstimates(n, fp)}
}

// Insert adds url and reports whether it was absent before.
func (f *Filter) Insert(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.f.TestAndAddString(url)
}

// Contains reports whether url may have been inserted.
func (f *Filter) Contains(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.TestString(url)
}

// Count estimates how many distinct URLs were inserted.
func (f *Filter) Count() uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint(f.f.ApproximatedSize())
}
