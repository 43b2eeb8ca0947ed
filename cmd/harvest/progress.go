package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/fwojciec/harvest/crawl"
)

// printer writes harvest progress to the console. Download events arrive
// from worker goroutines, so writes are serialized.
type printer struct {
	mu sync.Mutex
	w  io.Writer
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w}
}

func (p *printer) handle(e crawl.ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch e.Type {
	case crawl.ProgressPageStarted:
		fmt.Fprintf(p.w, "------ P A G E %d ------\n", e.Page)
	case crawl.ProgressPagePosts:
		fmt.Fprintf(p.w, "%d posts found\n", e.Posts)
	case crawl.ProgressPageQueued:
		fmt.Fprintf(p.w, "%d new files queued\n", e.Queued)
		fmt.Fprintf(p.w, "downloaded: %d, in queue: %d\n", e.Tally.Completed, e.Tally.Expected-e.Tally.Completed)
	case crawl.ProgressDownloaded:
		fmt.Fprintf(p.w, "downloaded %s (%s)\n", e.Path, formatBytes(e.Bytes))
	case crawl.ProgressDownloadFailed:
		fmt.Fprintf(p.w, "failed %s: %v\n", shorten(e.URL, 80), e.Error)
	case crawl.ProgressDraining:
		fmt.Fprintf(p.w, "%d files left in queue\n", e.Pending)
	case crawl.ProgressFinished:
		fmt.Fprintf(p.w, "done: %d downloaded, %d failed\n", e.Tally.Completed, e.Tally.Failed)
	}
}

func (p *printer) summary(r *crawl.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.w, "%d pages, %d posts, %d files queued (%s)\n", r.Pages, r.Posts, r.Queued, r.Reason)
}
