package crawl_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/url"
	"syscall"
	"testing"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/crawl"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want harvest.ErrorClass
	}{
		{
			name: "http error status",
			err:  &harvest.StatusError{URL: "https://example.com/x", StatusCode: 404},
			want: harvest.ClassLimitedRetry,
		},
		{
			name: "wrapped server error status",
			err:  fmt.Errorf("get: %w", &harvest.StatusError{URL: "https://example.com/x", StatusCode: 503}),
			want: harvest.ClassLimitedRetry,
		},
		{
			name: "per-attempt timeout",
			err:  context.DeadlineExceeded,
			want: harvest.ClassRetry,
		},
		{
			name: "client timeout",
			err:  &url.Error{Op: "Get", URL: "https://example.com", Err: context.DeadlineExceeded},
			want: harvest.ClassRetry,
		},
		{
			name: "dns timeout",
			err:  &net.DNSError{Err: "i/o timeout", Name: "example.com", IsTimeout: true},
			want: harvest.ClassRetry,
		},
		{
			name: "temporary dns failure",
			err:  &net.DNSError{Err: "server misbehaving", Name: "example.com", IsTemporary: true},
			want: harvest.ClassRetry,
		},
		{
			name: "unknown host",
			err:  &net.DNSError{Err: "no such host", Name: "nope.example", IsNotFound: true},
			want: harvest.ClassLimitedRetry,
		},
		{
			name: "connection refused",
			err:  &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED},
			want: harvest.ClassRetry,
		},
		{
			name: "connection reset",
			err:  fmt.Errorf("read body: %w", syscall.ECONNRESET),
			want: harvest.ClassRetry,
		},
		{
			name: "truncated body",
			err:  io.ErrUnexpectedEOF,
			want: harvest.ClassRetry,
		},
		{
			name: "self-classified error",
			err:  &harvest.ClassError{Class: harvest.ClassMoveOn, Err: errors.New("skip")},
			want: harvest.ClassMoveOn,
		},
		{
			name: "disk full",
			err:  &fs.PathError{Op: "write", Path: "out/a.jpg", Err: syscall.ENOSPC},
			want: harvest.ClassFatal,
		},
		{
			name: "unrecognized error",
			err:  errors.New("boom"),
			want: harvest.ClassFatal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, crawl.Classify(tt.err))
		})
	}
}

func TestIsRedirectDefect(t *testing.T) {
	t.Parallel()

	assert.True(t, crawl.IsRedirectDefect(&harvest.StatusError{StatusCode: 400}))
	assert.True(t, crawl.IsRedirectDefect(fmt.Errorf("x: %w", &harvest.StatusError{StatusCode: 502})))
	assert.False(t, crawl.IsRedirectDefect(&harvest.StatusError{StatusCode: 404}))
	assert.False(t, crawl.IsRedirectDefect(errors.New("400")))
}

func TestRedirectTarget(t *testing.T) {
	t.Parallel()

	const requested = "https://blog.example.com/post/12345678"

	t.Run("prefers the followed redirect", func(t *testing.T) {
		t.Parallel()

		err := &harvest.StatusError{URL: requested, StatusCode: 400, FinalURL: "https://blog.example.com/caf%C3%83%C2%A9"}

		target, ok := crawl.RedirectTarget(err, requested)

		assert.True(t, ok)
		assert.Equal(t, "https://blog.example.com/caf%C3%83%C2%A9", target)
		assert.Equal(t, "https://blog.example.com/caf%C3%A9", crawl.RepairURL(target))
	})

	t.Run("falls back to the requested url", func(t *testing.T) {
		t.Parallel()

		target, ok := crawl.RedirectTarget(&harvest.StatusError{URL: requested, StatusCode: 502}, requested)

		assert.True(t, ok)
		assert.Equal(t, requested, target)
	})

	t.Run("ignores other failures", func(t *testing.T) {
		t.Parallel()

		_, ok := crawl.RedirectTarget(&harvest.StatusError{URL: requested, StatusCode: 404, FinalURL: "https://x.example/"}, requested)

		assert.False(t, ok)
	})
}
