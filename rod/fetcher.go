// Package rod renders pages in headless Chrome for blogs that build their
// post listings with JavaScript.
package rod

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Fetcher implements harvest.PageFetcher at compile time.
var _ harvest.PageFetcher = (*Fetcher)(nil)

// DefaultFetchTimeout bounds a single navigation when the caller's context
// carries no deadline.
const DefaultFetchTimeout = 30 * time.Second

// Fetcher retrieves rendered HTML using Chrome browser automation. The
// browser is recycled periodically by a BrowserManager.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager  *BrowserManager
	timeout  time.Duration
	maxPages int64
	closed   atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the navigation timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRecycleAfter sets how many pages the browser renders before it is
// replaced.
func WithRecycleAfter(n int64) Option {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// NewFetcher launches a headless Chrome browser. Close must be called when
// the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:  DefaultFetchTimeout,
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(WithMaxPages(f.maxPages))
	if err != nil {
		return nil, err
	}
	f.manager = manager
	return f, nil
}

// FetchPage navigates to url and returns the rendered HTML. Navigation
// failures are reported as limited retries; context errors are returned
// unchanged.
func (f *Fetcher) FetchPage(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", harvest.Errorf(harvest.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if _, ok := ctx.Deadline(); !ok && f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	browser := f.manager.Browser()
	if browser == nil {
		return "", harvest.Errorf(harvest.EINVALID, "fetcher is closed")
	}
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", &harvest.ClassError{Class: harvest.ClassLimitedRetry, Err: err}
	}
	defer page.Close()

	page = page.Context(ctx)

	html, err := func() (string, error) {
		if err := page.Navigate(url); err != nil {
			return "", err
		}
		if err := page.WaitLoad(); err != nil {
			return "", err
		}
		return page.HTML()
	}()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", &harvest.ClassError{Class: harvest.ClassLimitedRetry, Err: err}
	}

	f.manager.IncrementPageCount()
	return html, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// Recycled reports how many times the browser has been replaced.
func (f *Fetcher) Recycled() int64 {
	return f.manager.Recycled()
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}
