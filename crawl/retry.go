package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/harvest"
)

// FatalError reports a failure that no retry policy covers. It aborts the harvest.
type FatalError struct {
	URL string
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal error fetching %s: %v", e.URL, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Retrier executes FetchActions, retrying failures according to their class.
// It is safe for concurrent use; retry state lives in each Execute call.
type Retrier struct {
	Pages harvest.PageFetcher
	Files harvest.FileFetcher

	// Limiter, if set, is waited on for the URL's host before every attempt.
	Limiter harvest.DomainLimiter

	// RetryDelay is slept between attempts. Zero retries immediately.
	RetryDelay time.Duration

	Observer harvest.Observer
	Logger   *slog.Logger
}

// Execute runs action until it succeeds, is abandoned, or fails fatally.
// Abandoned actions return a result with MovedOn set and a nil error.
// Fatal failures return a *FatalError; context cancellation returns ctx.Err().
func (r *Retrier) Execute(ctx context.Context, action harvest.FetchAction) (harvest.FetchResult, error) {
	var (
		attempts int
		limited  int
	)

	for {
		if err := ctx.Err(); err != nil {
			return harvest.FetchResult{URL: action.URL, Attempts: attempts}, err
		}

		attempts++
		content, n, err := r.attempt(ctx, action)
		if err == nil {
			result := harvest.FetchResult{
				URL:      action.URL,
				Content:  content,
				Bytes:    n,
				Attempts: attempts,
			}
			r.finished(action.Kind, true, attempts)
			if action.OnSuccess != nil {
				action.OnSuccess(result)
			}
			return result, nil
		}

		// Cancellation surfaces through the fetcher as an ordinary error.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return harvest.FetchResult{URL: action.URL, Attempts: attempts}, ctxErr
		}

		class := Classify(err)
		next := action
		if target, ok := RedirectTarget(err, action.URL); ok {
			if repaired := RepairURL(target); repaired != target {
				next = action.WithURL(repaired)
			}
			class = harvest.ClassLimitedRetry
		}
		if class == harvest.ClassLimitedRetry {
			limited++
			if limited >= action.Limit() {
				class = harvest.ClassMoveOn
			}
		}

		if r.Observer != nil {
			r.Observer.AttemptFailed(action.Kind, class)
		}
		if action.OnError != nil && action.OnError(err, class, attempts) && class != harvest.ClassMoveOn {
			class = harvest.ClassMoveOn
		}

		switch class {
		case harvest.ClassFatal:
			r.finished(action.Kind, false, attempts)
			return harvest.FetchResult{URL: action.URL, Attempts: attempts}, &FatalError{URL: action.URL, Err: err}
		case harvest.ClassMoveOn:
			r.logger().Error("fetch failed",
				"kind", action.Kind.String(),
				"url", action.URL,
				"attempts", attempts,
				"err", err,
			)
			r.finished(action.Kind, false, attempts)
			return harvest.FetchResult{URL: action.URL, Attempts: attempts, MovedOn: true}, nil
		}

		if next.URL != action.URL {
			r.logger().Warn("repaired redirect url", "from", action.URL, "to", next.URL)
		}
		r.logger().Debug("retrying fetch",
			"url", next.URL,
			"attempt", attempts+1,
			"class", class.String(),
			"err", err,
		)
		action = next

		if r.RetryDelay > 0 {
			select {
			case <-ctx.Done():
				return harvest.FetchResult{URL: action.URL, Attempts: attempts}, ctx.Err()
			case <-time.After(r.RetryDelay):
			}
		}
	}
}

// attempt performs a single fetch of action, dispatching on its kind.
func (r *Retrier) attempt(ctx context.Context, action harvest.FetchAction) (string, int64, error) {
	if r.Limiter != nil {
		if u, err := url.Parse(action.URL); err == nil && u.Host != "" {
			if err := r.Limiter.Wait(ctx, u.Host); err != nil {
				return "", 0, err
			}
		}
	}

	if action.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, action.Timeout)
		defer cancel()
	}

	switch action.Kind {
	case harvest.FetchPage:
		content, err := r.Pages.FetchPage(ctx, action.URL)
		return content, int64(len(content)), err
	case harvest.FetchFile:
		n, err := r.Files.FetchFile(ctx, action.URL, action.Dest)
		return "", n, err
	default:
		return "", 0, harvest.Errorf(harvest.EINVALID, "unknown fetch kind %d", int(action.Kind))
	}
}

func (r *Retrier) finished(kind harvest.FetchKind, ok bool, attempts int) {
	if r.Observer != nil {
		r.Observer.FetchFinished(kind, ok, attempts)
	}
}

func (r *Retrier) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}
