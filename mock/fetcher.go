package mock

import (
	"context"

	"github.com/fwojciec/harvest"
)

var (
	_ harvest.PageFetcher   = (*PageFetcher)(nil)
	_ harvest.FileFetcher   = (*FileFetcher)(nil)
	_ harvest.DomainLimiter = (*DomainLimiter)(nil)
)

// PageFetcher is a mock implementation of harvest.PageFetcher.
type PageFetcher struct {
	FetchPageFn func(ctx context.Context, url string) (string, error)
}

func (f *PageFetcher) FetchPage(ctx context.Context, url string) (string, error) {
	return f.FetchPageFn(ctx, url)
}

// FileFetcher is a mock implementation of harvest.FileFetcher.
type FileFetcher struct {
	FetchFileFn func(ctx context.Context, url, dest string) (int64, error)
}

func (f *FileFetcher) FetchFile(ctx context.Context, url, dest string) (int64, error) {
	return f.FetchFileFn(ctx, url, dest)
}

// DomainLimiter is a mock implementation of harvest.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
