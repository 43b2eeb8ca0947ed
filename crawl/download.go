package crawl

import (
	"time"

	"github.com/fwojciec/harvest"
)

// Downloader builds the FetchActions executed by download workers.
type Downloader struct {
	// Dest returns the local path a media URL is saved to.
	Dest func(mediaURL string) string

	Index harvest.MediaIndex
	Tally *Tally

	Timeout    time.Duration
	RetryLimit int
	Progress   ProgressFunc
}

// Action returns the file fetch for mediaURL. A successful download is
// recorded in the index; a permanent failure rolls back the tally.
func (d *Downloader) Action(mediaURL string) harvest.FetchAction {
	dest := d.Dest(mediaURL)
	action := harvest.NewFileFetch(mediaURL, dest)
	action.Timeout = d.Timeout
	action.RetryLimit = d.RetryLimit

	action.OnSuccess = func(result harvest.FetchResult) {
		d.Index.Add(harvest.FileName(mediaURL), dest)
		d.Tally.Complete()
		d.report(ProgressEvent{Type: ProgressDownloaded, URL: result.URL, Path: dest, Bytes: result.Bytes})
	}
	action.OnError = func(err error, class harvest.ErrorClass, _ int) bool {
		if class == harvest.ClassMoveOn {
			d.Tally.Fail()
			d.report(ProgressEvent{Type: ProgressDownloadFailed, URL: mediaURL, Path: dest, Error: err})
		}
		return false
	}
	return action
}

// Discard retracts n expected downloads that will never run, either because
// an abort dropped them from the queue or because they were interrupted.
func (d *Downloader) Discard(n int) {
	if d.Tally != nil && n > 0 {
		d.Tally.Expect(-n)
	}
}

func (d *Downloader) report(event ProgressEvent) {
	if d.Progress != nil {
		event.Tally = d.Tally.Snapshot()
		d.Progress(event)
	}
}
