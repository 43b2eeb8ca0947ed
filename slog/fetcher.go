// Package slog decorates harvest services with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/harvest"
)

var (
	_ harvest.PageFetcher = (*LoggingPageFetcher)(nil)
	_ harvest.FileFetcher = (*LoggingFileFetcher)(nil)
)

// LoggingPageFetcher wraps a PageFetcher with debug logging.
type LoggingPageFetcher struct {
	next   harvest.PageFetcher
	logger *slog.Logger
}

// NewLoggingPageFetcher creates a new LoggingPageFetcher.
func NewLoggingPageFetcher(next harvest.PageFetcher, logger *slog.Logger) *LoggingPageFetcher {
	return &LoggingPageFetcher{next: next, logger: logger}
}

// FetchPage logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingPageFetcher) FetchPage(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Debug("fetch page",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FetchPage(ctx, url)
}

// LoggingFileFetcher wraps a FileFetcher with debug logging.
type LoggingFileFetcher struct {
	next   harvest.FileFetcher
	logger *slog.Logger
}

// NewLoggingFileFetcher creates a new LoggingFileFetcher.
func NewLoggingFileFetcher(next harvest.FileFetcher, logger *slog.Logger) *LoggingFileFetcher {
	return &LoggingFileFetcher{next: next, logger: logger}
}

// FetchFile logs the download and delegates to the wrapped fetcher.
func (f *LoggingFileFetcher) FetchFile(ctx context.Context, url, dest string) (n int64, err error) {
	defer func(begin time.Time) {
		f.logger.Debug("fetch file",
			"url", url,
			"dest", dest,
			"bytes", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FetchFile(ctx, url, dest)
}
