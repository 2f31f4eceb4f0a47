package crawl

import (
	"strings"
	"sync"

	"github.com/stankin-rag/priem/bloom"
)

// Target is a URL scheduled for fetching at a link distance from the start.
type Target struct {
	URL   string
	Depth int
}

// Frontier is a breadth-first queue of crawl targets. Each URL is admitted
// once; fragments are ignored when comparing URLs.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Filter
	queue []Target
}

// NewFrontier sizes the frontier's dedup filter for n URLs at false
// positive rate fp.
func NewFrontier(n uint, fp float64) *Frontier {
	return &Frontier{seen: bloom.NewFilter(n, fp)}
}

// Push schedules rawURL at depth and reports whether it was new.
func (f *Frontier) Push(rawURL string, depth int) bool {
	u := stripFragment(rawURL)

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.seen.Insert(u) {
		return false
	}
	f.queue = append(f.queue, Target{URL: u, Depth: depth})
	return true
}

// PopLevel removes and returns every queued target sharing the depth of
// the head of the queue.
func (f *Frontier) PopLevel() []Target {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queue) == 0 {
		return nil
	}
	depth := f.queue[0].Depth
	n := 0
	for n < len(f.queue) && f.queue[n].Depth == depth {
		n++
	}
	level := f.queue[:n:n]
	f.queue = f.queue[n:]
	return level
}

// Len returns the number of queued targets.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen reports whether rawURL was ever pushed.
func (f *Frontier) Seen(rawURL string) bool {
	return f.seen.Contains(stripFragment(rawURL))
}

func stripFragment(rawURL string) string {
	if i := strings.IndexByte(rawURL, '#'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}
