package harvest

// Observer receives measurements from the harvest pipeline.
// Implementations must be safe for concurrent use.
type Observer interface {
	// AttemptFailed is called for every failed fetch attempt.
	AttemptFailed(kind FetchKind, class ErrorClass)

	// FetchFinished is called once per executed action.
	FetchFinished(kind FetchKind, ok bool, attempts int)

	// PageCrawled is called after each listing page is processed.
	PageCrawled(posts, queued int)

	// QueueDepth reports the number of downloads waiting in the queue.
	QueueDepth(n int)
}
