package crawl_test

import (
	"testing"

	"github.com/fwojciec/harvest/crawl"
	"github.com/stretchr/testify/assert"
)

func TestRepairURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "restores latin-1 decoded utf-8",
			url:  "https://example.com/cafÃ©.jpg",
			want: "https://example.com/caf%C3%A9.jpg",
		},
		{
			name: "restores percent-encoded latin-1 decoded utf-8",
			url:  "https://example.com/caf%C3%83%C2%A9",
			want: "https://example.com/caf%C3%A9",
		},
		{
			name: "restores mojibake in an encoded query",
			url:  "https://example.com/search?q=caf%C3%83%C2%A9&page=2",
			want: "https://example.com/search?q=caf%C3%A9&page=2",
		},
		{
			name: "leaves correct percent-encoding alone",
			url:  "https://example.com/tagged/caf%C3%A9%20au%20lait",
			want: "https://example.com/tagged/caf%C3%A9%20au%20lait",
		},
		{
			name: "encodes raw utf-8 path",
			url:  "https://example.com/tagged/café",
			want: "https://example.com/tagged/caf%C3%A9",
		},
		{
			name: "encodes raw query",
			url:  "https://example.com/search?q=café",
			want: "https://example.com/search?q=caf%C3%A9",
		},
		{
			name: "converts internationalized host",
			url:  "https://bücher.example/page/1",
			want: "https://xn--bcher-kva.example/page/1",
		},
		{
			name: "leaves ascii url unchanged",
			url:  "https://example.com/a%20b/c.jpg",
			want: "https://example.com/a%20b/c.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := crawl.RepairURL(tt.url)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, crawl.RepairURL(got), "repair must be idempotent")
		})
	}
}
