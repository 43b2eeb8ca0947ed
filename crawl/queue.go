package crawl

import (
	"errors"
	"sync"
)

// ErrQueueClosed is returned when pushing to a closed or aborted Queue.
var ErrQueueClosed = errors.New("queue closed")

// Queue is an unbounded FIFO of media URLs shared by the crawl and the
// download workers. It is safe for concurrent use.
type Queue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	items   []string
	closed  bool
	aborted bool
	dropped int
}

// NewQueue returns an empty Queue.
func NewQueue() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends urls to the back of the queue.
func (q *Queue) Push(urls ...string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed || q.aborted {
		return ErrQueueClosed
	}
	q.items = append(q.items, urls...)
	for range urls {
		q.cond.Signal()
	}
	return nil
}

// Pop removes and returns the URL at the front of the queue, blocking while
// the queue is empty. The bool result is false once the queue is closed and
// drained, or as soon as it is aborted.
func (q *Queue) Pop() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed && !q.aborted {
		q.cond.Wait()
	}
	if q.aborted || len(q.items) == 0 {
		return "", false
	}

	url := q.items[0]
	q.items[0] = ""
	q.items = q.items[1:]
	return url, true
}

// Len returns the number of queued URLs.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close stops accepting new URLs. Queued URLs are still handed out, after
// which Pop reports that the queue is done.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

// Abort stops the queue immediately. Pending URLs are discarded and all
// blocked and future Pop calls return false.
func (q *Queue) Abort() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.aborted = true
	q.dropped += len(q.items)
	q.items = nil
	q.cond.Broadcast()
}

// Dropped returns how many pending URLs Abort discarded.
func (q *Queue) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

// Aborted reports whether Abort has been called.
func (q *Queue) Aborted() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.aborted
}
