package crawl

import "sync"

// Tally counts downloads across the crawl and the worker pool. The crawl
// counts downloads when it enqueues them and workers roll the count back
// for downloads that fail permanently, so Expected is optimistic while
// downloads are in flight and exact once the queue has drained.
type Tally struct {
	mu        sync.Mutex
	expected  int
	completed int
	failed    int
}

// TallySnapshot is a point-in-time copy of a Tally.
type TallySnapshot struct {
	Expected  int
	Completed int
	Failed    int
}

// Expect counts n newly enqueued downloads. A negative n retracts
// downloads that could not be enqueued.
func (t *Tally) Expect(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.expected += n
}

// Complete records a finished download.
func (t *Tally) Complete() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.completed++
}

// Fail rolls back one expected download that failed permanently.
func (t *Tally) Fail() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.expected--
	t.failed++
}

// Snapshot returns the current counts.
func (t *Tally) Snapshot() TallySnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TallySnapshot{
		Expected:  t.expected,
		Completed: t.completed,
		Failed:    t.failed,
	}
}
