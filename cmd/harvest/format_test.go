package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShorten(t *testing.T) {
	t.Parallel()

	const u = "https://64.media.tumblr.com/abc/s1280x1920/photo.jpg"

	tests := []struct {
		name string
		max  int
		want string
	}{
		{name: "fits", max: 100, want: u},
		{name: "exact", max: len(u), want: u},
		{name: "keeps the end", max: 14, want: "...0/photo.jpg"},
		{name: "too small for ellipsis", max: 3, want: "htt"},
		{name: "zero", max: 0, want: ""},
		{name: "negative", max: -1, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := shorten(u, tt.max)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), max(tt.max, 0))
		})
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "2.0 MB", formatBytes(2*1024*1024))
	assert.Equal(t, "1.0 GB", formatBytes(1024*1024*1024))
}
