package crawl

// ProgressEvent reports progress during a harvest.
type ProgressEvent struct {
	Type ProgressType
	Page int

	// Posts is the number of posts found on the page.
	Posts int

	// Queued is the number of downloads added by the page.
	Queued int

	// Pending is the number of downloads waiting in the queue.
	Pending int

	Tally TallySnapshot
	URL   string
	Path  string

	// Bytes is the size of a downloaded file.
	Bytes int64
	Error error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressPageStarted ProgressType = iota
	ProgressPagePosts
	ProgressPageQueued
	ProgressDownloaded
	ProgressDownloadFailed
	ProgressDraining
	ProgressFinished
)

// ProgressFunc is a callback for reporting harvest progress.
// It is called from the crawl goroutine and from download workers,
// so implementations must be safe for concurrent use.
type ProgressFunc func(event ProgressEvent)
