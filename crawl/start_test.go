package crawl_test

import (
	"testing"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStart(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want crawl.Start
	}{
		{
			name: "blog root",
			url:  "https://blog.example.com",
			want: crawl.Start{Base: "https://blog.example.com", Page: 1},
		},
		{
			name: "strips trailing slash",
			url:  "https://blog.example.com/",
			want: crawl.Start{Base: "https://blog.example.com", Page: 1},
		},
		{
			name: "starts from page number",
			url:  "https://blog.example.com/page/12/",
			want: crawl.Start{Base: "https://blog.example.com", Page: 12},
		},
		{
			name: "adds missing scheme",
			url:  "blog.example.com/page/3",
			want: crawl.Start{Base: "https://blog.example.com", Page: 3},
		},
		{
			name: "tagged listing",
			url:  "https://blog.example.com/tagged/cute%20cats/page/2",
			want: crawl.Start{Base: "https://blog.example.com/tagged/cute%20cats", Page: 2, Tag: "cute cats"},
		},
		{
			name: "search listing",
			url:  "https://blog.example.com/search/sunsets",
			want: crawl.Start{Base: "https://blog.example.com/search/sunsets", Page: 1, Query: "sunsets"},
		},
		{
			name: "single post",
			url:  "https://blog.example.com/post/123456789/some-slug",
			want: crawl.Start{Base: "https://blog.example.com", Page: 1, Post: "https://blog.example.com/post/123456789/some-slug"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := crawl.ParseStart(tt.url)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStart_Invalid(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "ftp://blog.example.com", "https://blog.example.com/page/x", "https://blog.example.com/page/0"} {
		_, err := crawl.ParseStart(raw)
		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err), "url %q", raw)
	}
}

func TestStart_PageURL(t *testing.T) {
	t.Parallel()

	s := crawl.Start{Base: "https://blog.example.com/tagged/art"}

	assert.Equal(t, "https://blog.example.com/tagged/art/page/4", s.PageURL(4))
}
