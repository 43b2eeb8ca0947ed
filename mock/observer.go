package mock

import "github.com/fwojciec/harvest"

var _ harvest.Observer = (*Observer)(nil)

// Observer is a mock implementation of harvest.Observer.
// Nil function fields are ignored.
type Observer struct {
	AttemptFailedFn func(kind harvest.FetchKind, class harvest.ErrorClass)
	FetchFinishedFn func(kind harvest.FetchKind, ok bool, attempts int)
	PageCrawledFn   func(posts, queued int)
	QueueDepthFn    func(n int)
}

func (o *Observer) AttemptFailed(kind harvest.FetchKind, class harvest.ErrorClass) {
	if o.AttemptFailedFn != nil {
		o.AttemptFailedFn(kind, class)
	}
}

func (o *Observer) FetchFinished(kind harvest.FetchKind, ok bool, attempts int) {
	if o.FetchFinishedFn != nil {
		o.FetchFinishedFn(kind, ok, attempts)
	}
}

func (o *Observer) PageCrawled(posts, queued int) {
	if o.PageCrawledFn != nil {
		o.PageCrawledFn(posts, queued)
	}
}

func (o *Observer) QueueDepth(n int) {
	if o.QueueDepthFn != nil {
		o.QueueDepthFn(n)
	}
}
