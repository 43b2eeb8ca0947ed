package harvest_test

import (
	"testing"

	"github.com/fwojciec/harvest"
	"github.com/stretchr/testify/assert"
)

func TestFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "image url", url: "https://64.media.tumblr.com/abc/tumblr_x1_1280.jpg", want: "tumblr_x1_1280.jpg"},
		{name: "ignores query", url: "https://example.com/v/clip.mp4?dl=1", want: "clip.mp4"},
		{name: "ignores fragment", url: "https://example.com/a.png#top", want: "a.png"},
		{name: "decodes escapes", url: "https://example.com/caf%C3%A9.jpg", want: "café.jpg"},
		{name: "root has no name", url: "https://example.com/", want: ""},
		{name: "host only has no name", url: "https://example.com", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, harvest.FileName(tt.url))
		})
	}
}
