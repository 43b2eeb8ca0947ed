// Package crawl harvests media from paginated blog sites. It enumerates
// listing pages, analyzes their posts concurrently, and feeds discovered
// media to a pool of download workers, retrying failed fetches according
// to the class of error they hit.
package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/bloom"
	"golang.org/x/sync/errgroup"
)

// DefaultExpectedMedia sizes the filter of media queued during a run.
const DefaultExpectedMedia = 100_000

// Harvester enumerates the listing pages of a site and queues the media
// found on their posts for download.
type Harvester struct {
	Executor Executor
	Links    harvest.LinkExtractor
	Analyzer *Analyzer
	Pool     *Pool
	Index    harvest.MediaIndex
	Tally    *Tally
	Limits   Limits

	// Timeout bounds each listing page fetch attempt.
	Timeout time.Duration

	// ExpectedMedia sizes the filter of media queued during the run.
	ExpectedMedia uint

	Observer harvest.Observer
	Logger   *slog.Logger
}

// Result holds the outcome of a harvest.
type Result struct {
	Pages      int
	Posts      int
	Queued     int
	Downloaded int
	Failed     int
	Reason     StopReason
}

// Run harvests the site at startURL. It returns after every queued download
// has finished, or as soon as the context is canceled or a fatal error
// occurs, in which case pending downloads are discarded.
// The progress callback, if provided, receives events as harvesting proceeds.
func (h *Harvester) Run(ctx context.Context, startURL string, progress ProgressFunc) (*Result, error) {
	start, err := ParseStart(startURL)
	if err != nil {
		return nil, err
	}

	expected := h.ExpectedMedia
	if expected == 0 {
		expected = DefaultExpectedMedia
	}
	seen := bloom.NewFilter(expected, 0.0001)

	if h.Pool.Downloader.Progress == nil {
		h.Pool.Downloader.Progress = progress
	}
	h.Pool.Start(ctx)

	state := &State{Limits: h.Limits}
	reason, err := h.crawl(ctx, start, state, seen, progress)
	result := &Result{
		Pages:  state.Pages,
		Posts:  state.Posts,
		Queued: state.Queued,
		Reason: reason,
	}
	if err == nil {
		err = h.Pool.Err()
	}
	if err != nil {
		result.Reason = StopAborted
		_ = h.Pool.Abort()
		h.settle(result)
		if poolErr := h.Pool.Err(); poolErr != nil {
			return result, poolErr
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
		return result, err
	}

	h.report(progress, ProgressEvent{Type: ProgressDraining, Pending: h.Pool.Queue.Len()})
	err = h.Pool.Drain()
	h.settle(result)
	h.report(progress, ProgressEvent{Type: ProgressFinished, Tally: h.Tally.Snapshot()})
	if err != nil {
		result.Reason = StopAborted
		return result, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		result.Reason = StopAborted
		return result, ctxErr
	}
	return result, nil
}

// crawl enumerates listing pages until a stop condition is met.
func (h *Harvester) crawl(ctx context.Context, start Start, state *State, seen *bloom.Filter, progress ProgressFunc) (StopReason, error) {
	if start.Post != "" {
		media, err := h.analyze(ctx, []string{start.Post})
		if err != nil {
			return StopNone, err
		}
		fresh, _, err := h.enqueue(media, seen)
		if err != nil {
			return StopNone, err
		}
		state.Pages++
		state.Posts++
		state.Queued += fresh
		h.report(progress, ProgressEvent{
			Type:    ProgressPageQueued,
			Posts:   1,
			Queued:  fresh,
			Pending: h.Pool.Queue.Len(),
			Tally:   h.Tally.Snapshot(),
		})
		return StopSinglePost, nil
	}

	for page := start.Page; ; page++ {
		if err := ctx.Err(); err != nil {
			return StopNone, err
		}
		if err := h.Pool.Err(); err != nil {
			return StopNone, err
		}

		state.Page = page
		out, err := h.crawlPage(ctx, start, page, seen, progress)
		if err != nil {
			return StopNone, err
		}
		if reason := state.Observe(out); reason != StopNone {
			return reason, nil
		}
	}
}

// crawlPage processes a single listing page.
func (h *Harvester) crawlPage(ctx context.Context, start Start, page int, seen *bloom.Filter, progress ProgressFunc) (PageOutcome, error) {
	pageURL := start.PageURL(page)
	h.report(progress, ProgressEvent{Type: ProgressPageStarted, Page: page, URL: pageURL})

	result, err := h.Executor.Execute(ctx, harvest.NewPageFetch(pageURL, h.Timeout))
	if err != nil {
		return PageOutcome{}, err
	}

	var posts []string
	if result.OK() {
		posts, err = h.Links.PostURLs(result.Content, pageURL)
		if err != nil {
			h.logger().Warn("post extraction failed", "url", pageURL, "err", err)
			posts = nil
		}
	}
	h.report(progress, ProgressEvent{Type: ProgressPagePosts, Page: page, URL: pageURL, Posts: len(posts)})
	if len(posts) == 0 {
		return PageOutcome{}, nil
	}

	media, err := h.analyze(ctx, posts)
	if err != nil {
		return PageOutcome{}, err
	}
	fresh, known, err := h.enqueue(media, seen)
	if err != nil {
		return PageOutcome{}, err
	}

	pending := h.Pool.Queue.Len()
	if h.Observer != nil {
		h.Observer.PageCrawled(len(posts), fresh)
		h.Observer.QueueDepth(pending)
	}
	h.report(progress, ProgressEvent{
		Type:    ProgressPageQueued,
		Page:    page,
		URL:     pageURL,
		Posts:   len(posts),
		Queued:  fresh,
		Pending: pending,
		Tally:   h.Tally.Snapshot(),
	})

	return PageOutcome{Posts: len(posts), Fresh: fresh, Known: known}, nil
}

// analyze runs one Analyzer per post concurrently and merges their media
// in post order, dropping duplicates.
func (h *Harvester) analyze(ctx context.Context, posts []string) ([]string, error) {
	found := make([][]string, len(posts))

	g, gctx := errgroup.WithContext(ctx)
	for i, post := range posts {
		g.Go(func() error {
			links, err := h.Analyzer.Analyze(gctx, post)
			found[i] = links
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var media []string
	dup := make(map[string]struct{})
	for _, links := range found {
		for _, link := range links {
			if _, ok := dup[link]; ok {
				continue
			}
			dup[link] = struct{}{}
			media = append(media, link)
		}
	}
	return media, nil
}

// enqueue queues the media not yet harvested or queued and counts them as
// expected downloads before any worker can take them.
func (h *Harvester) enqueue(media []string, seen *bloom.Filter) (fresh, known int, err error) {
	var urls []string
	for _, link := range media {
		name := harvest.FileName(link)
		if name == "" {
			continue
		}
		if h.Index.Contains(name) || seen.TestAndAdd(name) {
			known++
			continue
		}
		urls = append(urls, link)
	}
	if len(urls) == 0 {
		return 0, known, nil
	}

	h.Tally.Expect(len(urls))
	if err := h.Pool.Queue.Push(urls...); err != nil {
		h.Tally.Expect(-len(urls))
		return 0, known, err
	}
	return len(urls), known, nil
}

// settle copies the final download counts into result.
func (h *Harvester) settle(result *Result) {
	snap := h.Tally.Snapshot()
	result.Downloaded = snap.Completed
	result.Failed = snap.Failed
}

func (h *Harvester) report(progress ProgressFunc, event ProgressEvent) {
	if progress != nil {
		progress(event)
	}
}

func (h *Harvester) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return h.Logger
}
