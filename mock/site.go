package mock

import "github.com/fwojciec/harvest"

var (
	_ harvest.LinkExtractor    = (*LinkExtractor)(nil)
	_ harvest.OriginalDetector = (*OriginalDetector)(nil)
	_ harvest.TextExtractor    = (*TextExtractor)(nil)
	_ harvest.AuthorHasher     = (*AuthorHasher)(nil)
)

// LinkExtractor is a mock implementation of harvest.LinkExtractor.
// A nil EmbedURLsFn reports no embeds.
type LinkExtractor struct {
	PostURLsFn  func(html, pageURL string) ([]string, error)
	MediaURLsFn func(html string) ([]string, error)
	EmbedURLsFn func(html, postURL string) ([]string, error)
}

func (e *LinkExtractor) PostURLs(html, pageURL string) ([]string, error) {
	return e.PostURLsFn(html, pageURL)
}

func (e *LinkExtractor) MediaURLs(html string) ([]string, error) {
	return e.MediaURLsFn(html)
}

func (e *LinkExtractor) EmbedURLs(html, postURL string) ([]string, error) {
	if e.EmbedURLsFn == nil {
		return nil, nil
	}
	return e.EmbedURLsFn(html, postURL)
}

// OriginalDetector is a mock implementation of harvest.OriginalDetector.
type OriginalDetector struct {
	IsOriginalFn func(html, postURL string) (bool, error)
}

func (d *OriginalDetector) IsOriginal(html, postURL string) (bool, error) {
	return d.IsOriginalFn(html, postURL)
}

// TextExtractor is a mock implementation of harvest.TextExtractor.
type TextExtractor struct {
	TextFn func(html string) (string, error)
}

func (e *TextExtractor) Text(html string) (string, error) {
	return e.TextFn(html)
}

// AuthorHasher is a mock implementation of harvest.AuthorHasher.
type AuthorHasher struct {
	AuthorHashFn func(mediaURL string) string
}

func (h *AuthorHasher) AuthorHash(mediaURL string) string {
	return h.AuthorHashFn(mediaURL)
}
