package harvest

// LinkExtractor finds post and media links in page markup.
type LinkExtractor interface {
	// PostURLs returns the distinct post page URLs on the listing page at
	// pageURL, in document order.
	PostURLs(html, pageURL string) ([]string, error)

	// MediaURLs returns the distinct media file URLs referenced by a post page.
	MediaURLs(html string) ([]string, error)

	// EmbedURLs returns pages embedded in a post, such as video players,
	// whose own markup holds further media links.
	EmbedURLs(html, postURL string) ([]string, error)
}

// OriginalDetector decides whether a post was authored on the blog being
// harvested rather than reposted from elsewhere.
type OriginalDetector interface {
	IsOriginal(html, postURL string) (bool, error)
}

// TextExtractor returns the readable text of a page for search matching.
type TextExtractor interface {
	Text(html string) (string, error)
}

// AuthorHasher derives the uploader identifier embedded in a media URL.
// An empty result means the URL carries no identifier.
type AuthorHasher interface {
	AuthorHash(mediaURL string) string
}

// Filter narrows which posts and media are harvested.
type Filter struct {
	// OriginalsOnly skips reposted content.
	OriginalsOnly bool

	// Search keeps only posts whose text contains the query, ignoring case.
	Search string

	// AuthorHash keeps only media uploaded by the given author.
	AuthorHash string
}
