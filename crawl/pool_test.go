package crawl_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/crawl"
	"github.com/fwojciec/harvest/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPool(files harvest.FileFetcher, workers int) (*crawl.Pool, *crawl.Index, *crawl.Tally) {
	index := crawl.NewIndex()
	tally := &crawl.Tally{}
	pool := &crawl.Pool{
		Queue:    crawl.NewQueue(),
		Executor: &crawl.Retrier{Files: files},
		Downloader: &crawl.Downloader{
			Dest:  func(u string) string { return "blogs/" + harvest.FileName(u) },
			Index: index,
			Tally: tally,
		},
		Workers: workers,
	}
	return pool, index, tally
}

func TestPool(t *testing.T) {
	t.Parallel()

	t.Run("drains every queued download before exiting", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		pool, index, tally := newPool(&mock.FileFetcher{
			FetchFileFn: func(context.Context, string, string) (int64, error) {
				calls.Add(1)
				return 10, nil
			},
		}, 4)

		pool.Start(context.Background())
		for i := range 25 {
			tally.Expect(1)
			require.NoError(t, pool.Queue.Push(fmt.Sprintf("https://media.example.com/%d.jpg", i)))
		}
		err := pool.Drain()

		require.NoError(t, err)
		assert.Equal(t, int32(25), calls.Load())
		assert.Equal(t, 25, index.Len())
		assert.Equal(t, crawl.TallySnapshot{Expected: 25, Completed: 25}, tally.Snapshot())
		path, ok := index.Lookup("7.jpg")
		assert.True(t, ok)
		assert.Equal(t, "blogs/7.jpg", path)
	})

	t.Run("rolls back the tally for permanent failures", func(t *testing.T) {
		t.Parallel()

		pool, index, tally := newPool(&mock.FileFetcher{
			FetchFileFn: func(_ context.Context, url, _ string) (int64, error) {
				if strings.Contains(url, "missing") {
					return 0, &harvest.StatusError{URL: url, StatusCode: 404}
				}
				return 1, nil
			},
		}, 2)

		pool.Start(context.Background())
		tally.Expect(5)
		require.NoError(t, pool.Queue.Push(
			"https://media.example.com/1.jpg",
			"https://media.example.com/2.jpg",
			"https://media.example.com/missing.jpg",
			"https://media.example.com/3.jpg",
			"https://media.example.com/4.jpg",
		))

		require.NoError(t, pool.Drain())
		assert.Equal(t, crawl.TallySnapshot{Expected: 4, Completed: 4, Failed: 1}, tally.Snapshot())
		assert.False(t, index.Contains("missing.jpg"))
	})

	t.Run("fatal error aborts the queue", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("disk full")
		pool, _, _ := newPool(&mock.FileFetcher{
			FetchFileFn: func(context.Context, string, string) (int64, error) {
				return 0, cause
			},
		}, 2)

		pool.Start(context.Background())
		require.NoError(t, pool.Queue.Push("https://media.example.com/1.jpg"))
		err := pool.Wait()

		var fatal *crawl.FatalError
		require.ErrorAs(t, err, &fatal)
		assert.ErrorIs(t, err, cause)
		assert.True(t, pool.Queue.Aborted())
		assert.Equal(t, err, pool.Err())
	})

	t.Run("abort leaves pending downloads untouched", func(t *testing.T) {
		t.Parallel()

		started := make(chan struct{})
		release := make(chan struct{})
		var once sync.Once
		var calls atomic.Int32
		pool, _, tally := newPool(&mock.FileFetcher{
			FetchFileFn: func(context.Context, string, string) (int64, error) {
				calls.Add(1)
				once.Do(func() { close(started) })
				<-release
				return 1, nil
			},
		}, 1)

		pool.Start(context.Background())
		tally.Expect(10)
		for i := range 10 {
			require.NoError(t, pool.Queue.Push(fmt.Sprintf("https://media.example.com/%d.jpg", i)))
		}
		<-started
		pool.Queue.Abort()
		close(release)

		require.NoError(t, pool.Wait())
		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, 9, pool.Queue.Dropped())
		assert.Equal(t, crawl.TallySnapshot{Expected: 1, Completed: 1}, tally.Snapshot())
	})

	t.Run("context cancellation stops workers", func(t *testing.T) {
		t.Parallel()

		pool, _, tally := newPool(&mock.FileFetcher{
			FetchFileFn: func(ctx context.Context, _, _ string) (int64, error) {
				<-ctx.Done()
				return 0, ctx.Err()
			},
		}, 3)

		ctx, cancel := context.WithCancel(context.Background())
		pool.Start(ctx)
		tally.Expect(1)
		require.NoError(t, pool.Queue.Push("https://media.example.com/1.jpg"))
		cancel()

		require.NoError(t, pool.Wait())
		assert.True(t, pool.Queue.Aborted())
		assert.Zero(t, tally.Snapshot().Expected)
	})
}
