package harvest

import (
	"context"
	"fmt"
	"time"
)

// DefaultRetryLimit is the number of attempts allowed for failures that
// are worth retrying only a few times, such as HTTP error statuses.
const DefaultRetryLimit = 3

// DefaultPageTimeout bounds a single page fetch attempt.
const DefaultPageTimeout = 6 * time.Second

// FetchKind identifies what a FetchAction retrieves.
type FetchKind int

const (
	// FetchPage retrieves a page and yields its markup.
	FetchPage FetchKind = iota
	// FetchFile streams a remote file to a local destination.
	FetchFile
)

// String returns the lowercase name of the kind.
func (k FetchKind) String() string {
	switch k {
	case FetchPage:
		return "page"
	case FetchFile:
		return "file"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ErrorClass is the retry policy assigned to a failed fetch attempt.
type ErrorClass int

const (
	// ClassRetry retries immediately with no attempt limit.
	ClassRetry ErrorClass = iota
	// ClassLimitedRetry retries until the action's retry limit is reached.
	ClassLimitedRetry
	// ClassMoveOn abandons the action and reports a terminal failure.
	ClassMoveOn
	// ClassFatal aborts the whole harvest.
	ClassFatal
)

// String returns the policy name.
func (c ErrorClass) String() string {
	switch c {
	case ClassRetry:
		return "retry"
	case ClassLimitedRetry:
		return "limited-retry"
	case ClassMoveOn:
		return "move-on"
	case ClassFatal:
		return "fatal"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// StatusError is returned by fetchers when the server answers with a
// non-success HTTP status.
type StatusError struct {
	URL        string
	StatusCode int

	// FinalURL is the URL that answered when the request was redirected.
	FinalURL string
}

func (e *StatusError) Error() string {
	if e.FinalURL != "" && e.FinalURL != e.URL {
		return fmt.Sprintf("HTTP %d for %s (redirected to %s)", e.StatusCode, e.URL, e.FinalURL)
	}
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// ClassError lets a fetcher attach a retry policy to an error it produced.
type ClassError struct {
	Class ErrorClass
	Err   error
}

func (e *ClassError) Error() string {
	return e.Err.Error()
}

func (e *ClassError) Unwrap() error {
	return e.Err
}

// FetchAction describes one unit of robust fetching. It is a value type:
// repairing the URL of a failing action produces a new action through
// WithURL rather than mutating the original.
type FetchAction struct {
	Kind FetchKind
	URL  string

	// Dest is the local path written by FetchFile actions.
	Dest string

	// Timeout bounds each individual attempt. Zero means no per-attempt timeout.
	Timeout time.Duration

	// RetryLimit caps attempts for ClassLimitedRetry failures.
	// Values below 1 mean DefaultRetryLimit.
	RetryLimit int

	// OnSuccess, if set, is called once after a successful attempt.
	OnSuccess func(result FetchResult)

	// OnError, if set, is called after every failed attempt with the class
	// that will be applied. Returning true abandons the action.
	OnError func(err error, class ErrorClass, attempt int) (stop bool)
}

// NewPageFetch returns an action fetching the page at url.
func NewPageFetch(url string, timeout time.Duration) FetchAction {
	return FetchAction{Kind: FetchPage, URL: url, Timeout: timeout}
}

// NewFileFetch returns an action downloading url to dest.
func NewFileFetch(url, dest string) FetchAction {
	return FetchAction{Kind: FetchFile, URL: url, Dest: dest}
}

// WithURL returns a copy of the action pointing at url. Kind, destination,
// timeout, retry limit and hooks are carried over unchanged.
func (a FetchAction) WithURL(url string) FetchAction {
	a.URL = url
	return a
}

// Limit returns the effective limited-retry budget.
func (a FetchAction) Limit() int {
	if a.RetryLimit < 1 {
		return DefaultRetryLimit
	}
	return a.RetryLimit
}

// FetchResult is the outcome of executing a FetchAction.
type FetchResult struct {
	// URL is the address of the final attempt, which differs from the
	// action's URL when a malformed redirect was repaired.
	URL string

	// Content holds the page markup for FetchPage actions.
	Content string

	// Bytes is the number of bytes written for FetchFile actions.
	Bytes int64

	Attempts int

	// MovedOn reports that the action was abandoned after a terminal failure.
	MovedOn bool
}

// OK reports whether the action succeeded.
func (r FetchResult) OK() bool {
	return !r.MovedOn
}

// PageFetcher retrieves page markup.
type PageFetcher interface {
	// FetchPage returns the body of the page at url.
	// The context controls timeout and cancellation.
	FetchPage(ctx context.Context, url string) (string, error)
}

// FileFetcher downloads remote files.
type FileFetcher interface {
	// FetchFile streams the resource at url into dest and returns the
	// number of bytes written. A failed download must not leave a file at dest.
	FetchFile(ctx context.Context, url, dest string) (int64, error)
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
