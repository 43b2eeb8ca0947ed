// Package http provides an HTTP-based implementation of harvest.PageFetcher
// and harvest.FileFetcher.
package http

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/harvest"
)

// DefaultUserAgent identifies harvest requests.
const DefaultUserAgent = "harvest/1.0 (+https://github.com/fwojciec/harvest)"

// Ensure Fetcher implements the fetcher interfaces at compile time.
var (
	_ harvest.PageFetcher = (*Fetcher)(nil)
	_ harvest.FileFetcher = (*Fetcher)(nil)
)

// Fetcher retrieves pages and files using plain HTTP requests.
// It is safe for concurrent use.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets an overall timeout for each HTTP request, including
// reading the body. By default requests are bounded only by their context.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithClient replaces the underlying HTTP client.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{
			Timeout: f.timeout,
		}
	}

	return f
}

// FetchPage retrieves the body of the page at url.
// Non-success responses are reported as *harvest.StatusError.
func (f *Fetcher) FetchPage(ctx context.Context, url string) (string, error) {
	resp, err := f.get(ctx, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// FetchFile streams the resource at url into dest, creating parent
// directories as needed. The body is written to a temporary file that is
// renamed into place once complete, so a failed download leaves nothing at dest.
func (f *Fetcher) FetchFile(ctx context.Context, url, dest string) (n int64, err error) {
	resp, err := f.get(ctx, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return 0, err
	}

	tmp := dest + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	n, err = io.Copy(out, resp.Body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return n, err
	}

	if err := os.Rename(tmp, dest); err != nil {
		return n, err
	}
	return n, nil
}

// get issues a GET request and checks the response status.
func (f *Fetcher) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &harvest.ClassError{Class: harvest.ClassMoveOn, Err: err}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		se := &harvest.StatusError{URL: url, StatusCode: resp.StatusCode}
		if final := resp.Request.URL.String(); final != url {
			se.FinalURL = final
		}
		return nil, se
	}

	return resp, nil
}
