package crawl_test

import (
	"testing"
	"time"

	"github.com/fwojciec/harvest/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue(t *testing.T) {
	t.Parallel()

	t.Run("pops in insertion order", func(t *testing.T) {
		t.Parallel()

		q := crawl.NewQueue()
		require.NoError(t, q.Push("a", "b"))
		require.NoError(t, q.Push("c"))
		q.Close()

		var got []string
		for {
			url, ok := q.Pop()
			if !ok {
				break
			}
			got = append(got, url)
		}
		assert.Equal(t, []string{"a", "b", "c"}, got)
	})

	t.Run("pop blocks until an item arrives", func(t *testing.T) {
		t.Parallel()

		q := crawl.NewQueue()
		got := make(chan string, 1)
		go func() {
			url, _ := q.Pop()
			got <- url
		}()

		select {
		case <-got:
			t.Fatal("pop returned before push")
		case <-time.After(20 * time.Millisecond):
		}

		require.NoError(t, q.Push("a.jpg"))
		select {
		case url := <-got:
			assert.Equal(t, "a.jpg", url)
		case <-time.After(time.Second):
			t.Fatal("pop did not wake up")
		}
	})

	t.Run("close hands out remaining items before reporting done", func(t *testing.T) {
		t.Parallel()

		q := crawl.NewQueue()
		require.NoError(t, q.Push("a", "b"))
		q.Close()

		url, ok := q.Pop()
		assert.True(t, ok)
		assert.Equal(t, "a", url)
		url, ok = q.Pop()
		assert.True(t, ok)
		assert.Equal(t, "b", url)
		_, ok = q.Pop()
		assert.False(t, ok)
	})

	t.Run("close wakes blocked pops", func(t *testing.T) {
		t.Parallel()

		q := crawl.NewQueue()
		done := make(chan bool, 1)
		go func() {
			_, ok := q.Pop()
			done <- ok
		}()

		time.Sleep(10 * time.Millisecond)
		q.Close()

		select {
		case ok := <-done:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("pop did not wake up")
		}
	})

	t.Run("push after close fails", func(t *testing.T) {
		t.Parallel()

		q := crawl.NewQueue()
		q.Close()

		assert.ErrorIs(t, q.Push("a"), crawl.ErrQueueClosed)
	})

	t.Run("abort discards pending items", func(t *testing.T) {
		t.Parallel()

		q := crawl.NewQueue()
		require.NoError(t, q.Push("a", "b", "c"))
		q.Abort()

		_, ok := q.Pop()
		assert.False(t, ok)
		assert.Zero(t, q.Len())
		assert.True(t, q.Aborted())
		assert.Equal(t, 3, q.Dropped())
		assert.ErrorIs(t, q.Push("d"), crawl.ErrQueueClosed)
	})

	t.Run("dropped accumulates across aborts", func(t *testing.T) {
		t.Parallel()

		q := crawl.NewQueue()
		assert.Zero(t, q.Dropped())
		require.NoError(t, q.Push("a", "b"))
		q.Abort()
		q.Abort()

		assert.Equal(t, 2, q.Dropped())
	})

	t.Run("len counts pending items", func(t *testing.T) {
		t.Parallel()

		q := crawl.NewQueue()
		require.NoError(t, q.Push("a", "b"))
		assert.Equal(t, 2, q.Len())

		_, _ = q.Pop()
		assert.Equal(t, 1, q.Len())
	})
}
