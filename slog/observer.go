package slog

import (
	"log/slog"

	"github.com/fwojciec/harvest"
)

var _ harvest.Observer = (*LoggingObserver)(nil)

// LoggingObserver forwards measurements to another observer and logs the
// failures and page summaries among them.
type LoggingObserver struct {
	next   harvest.Observer
	logger *slog.Logger
}

// NewLoggingObserver creates a new LoggingObserver. A nil next observer is
// allowed.
func NewLoggingObserver(next harvest.Observer, logger *slog.Logger) *LoggingObserver {
	return &LoggingObserver{next: next, logger: logger}
}

func (o *LoggingObserver) AttemptFailed(kind harvest.FetchKind, class harvest.ErrorClass) {
	o.logger.Debug("attempt failed", "kind", kind, "class", class)
	if o.next != nil {
		o.next.AttemptFailed(kind, class)
	}
}

func (o *LoggingObserver) FetchFinished(kind harvest.FetchKind, ok bool, attempts int) {
	if !ok {
		o.logger.Debug("fetch gave up", "kind", kind, "attempts", attempts)
	}
	if o.next != nil {
		o.next.FetchFinished(kind, ok, attempts)
	}
}

func (o *LoggingObserver) PageCrawled(posts, queued int) {
	o.logger.Info("page crawled", "posts", posts, "queued", queued)
	if o.next != nil {
		o.next.PageCrawled(posts, queued)
	}
}

func (o *LoggingObserver) QueueDepth(n int) {
	if o.next != nil {
		o.next.QueueDepth(n)
	}
}
