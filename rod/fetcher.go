// Package rod fetches pages through headless Chrome, for admissions pages
// whose program tables are rendered by JavaScript.
package rod

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/stankin-rag/priem"
)

// Ensure Fetcher implements priem.Fetcher at compile time.
var _ priem.Fetcher = (*Fetcher)(nil)

// Defaults for a Fetcher.
const (
	DefaultRecycleAfter = 75
	DefaultTimeout      = 30 * time.Second
)

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithRecycleAfter restarts Chrome after n pages. Chrome's memory grows
// with every page and is never returned.
func WithRecycleAfter(n int) Option {
	return func(f *Fetcher) {
		f.recycleAfter = n
	}
}

// WithWaitSelector makes Fetch wait until an element matching selector
// is present, in addition to the load event.
func WithWaitSelector(selector string) Option {
	return func(f *Fetcher) {
		f.waitSelector = selector
	}
}

// WithTimeout bounds each page load.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// Fetcher renders pages in headless Chrome. It is safe for concurrent use.
type Fetcher struct {
	recycleAfter int
	waitSelector string
	timeout      time.Duration

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	pages    int
	active   sync.WaitGroup
}

// NewFetcher launches Chrome, downloading it when none is installed.
// Close must be called to stop the browser.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		recycleAfter: DefaultRecycleAfter,
		timeout:      DefaultTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if err := f.launch(); err != nil {
		return nil, err
	}
	return f, nil
}

// Fetch navigates to url and returns the HTML after rendering.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browser, err := f.acquire()
	if err != nil {
		return "", err
	}
	defer f.active.Done()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("opening page: %w", err)
	}
	defer page.Close()

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", fmt.Errorf("navigating to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("loading %s: %w", url, err)
	}
	if f.waitSelector != "" {
		if _, err := page.Element(f.waitSelector); err != nil {
			return "", fmt.Errorf("waiting for %q on %s: %w", f.waitSelector, url, err)
		}
	}
	return page.HTML()
}

// Close stops the browser.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active.Wait()
	return f.shutdown()
}

// acquire returns the current browser, restarting it first when it has
// served recycleAfter pages. The caller must call f.active.Done.
func (f *Fetcher) acquire() (*rod.Browser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.browser == nil {
		return nil, priem.Errorf(priem.EINVALID, "fetcher is closed")
	}
	if f.recycleAfter > 0 && f.pages >= f.recycleAfter {
		f.active.Wait()
		if err := f.shutdown(); err != nil {
			return nil, err
		}
		if err := f.launch(); err != nil {
			return nil, err
		}
	}
	f.pages++
	f.active.Add(1)
	return f.browser, nil
}

// launch starts Chrome. Must be called with mu held or before f is shared.
func (f *Fetcher) launch() error {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	f.browser = browser
	f.launcher = l
	f.pages = 0
	return nil
}

// shutdown stops Chrome. Must be called with mu held.
func (f *Fetcher) shutdown() error {
	var err error
	if f.browser != nil {
		err = f.browser.Close()
		f.browser = nil
	}
	if f.launcher != nil {
		f.launcher.Kill()
		f.launcher = nil
	}
	return err
}
