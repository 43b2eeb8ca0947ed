// Package goquery extracts posts, media and text from blog markup using
// goquery.
package goquery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/harvest"
)

// DefaultMediaPattern matches files served by the media hosts of
// Tumblr-style blogs.
var DefaultMediaPattern = regexp.MustCompile(`(?i)^https?://(?:[a-z0-9-]+\.)*(?:media\.tumblr\.com|vt\.tumblr\.com)/[^?#\s]+\.(?:jpe?g|png|gif|webp|mp4|mov|webm)(?:[?#].*)?$`)

var (
	rawURL     = regexp.MustCompile(`https?://[^\s"'<>\\()]+`)
	authorHash = regexp.MustCompile(`^[0-9a-f]{32}$`)
	idSuffix   = `/post/[0-9]{8,13}\b`
)

// Reblog markers found in common themes and the dashboard markup.
const repostSelector = ".reblog-header, .reblogged-from, .reblog_info, .reblog-source, a.tumblr_blog, [data-reblog-source]"

// Ensure Site implements the site heuristics at compile time.
var (
	_ harvest.LinkExtractor    = (*Site)(nil)
	_ harvest.OriginalDetector = (*Site)(nil)
	_ harvest.TextExtractor    = (*Site)(nil)
	_ harvest.AuthorHasher     = (*Site)(nil)
)

// Site reads the markup conventions of Tumblr-style blogs: numbered
// /post/<id> pages, media on dedicated hosts, and reblog markers.
// It is safe for concurrent use.
type Site struct {
	media *regexp.Regexp
}

// SiteOption configures a Site.
type SiteOption func(*Site)

// WithMediaPattern replaces the pattern a URL must match to count as media.
func WithMediaPattern(re *regexp.Regexp) SiteOption {
	return func(s *Site) {
		s.media = re
	}
}

// NewSite creates a new Site.
func NewSite(opts ...SiteOption) *Site {
	s := &Site{media: DefaultMediaPattern}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PostURLs returns the post pages linked from the listing page at pageURL.
// Post URLs are trimmed to scheme, host and numeric id.
func (s *Site) PostURLs(html, pageURL string) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil || base.Host == "" {
		return nil, harvest.Errorf(harvest.EINVALID, "invalid page URL %q", pageURL)
	}
	doc, err := parse(html)
	if err != nil {
		return nil, err
	}

	post := regexp.MustCompile(`(?i)https?://` + regexp.QuoteMeta(base.Host) + idSuffix)

	canonical := func(m string) string {
		i := strings.Index(strings.ToLower(m), "/post/")
		return base.Scheme + "://" + base.Host + m[i:]
	}

	var posts []string
	for _, link := range attrURLs(doc, base, "a[href]", "href") {
		if m := post.FindString(link); m != "" && strings.HasPrefix(link, m) {
			posts = append(posts, canonical(m))
		}
	}
	for _, m := range post.FindAllString(unescapeSlashes(html), -1) {
		posts = append(posts, canonical(m))
	}

	return dedupe(posts), nil
}

// MediaURLs returns the media files referenced by a post page, whether in
// element attributes or embedded in scripts.
func (s *Site) MediaURLs(html string) ([]string, error) {
	doc, err := parse(html)
	if err != nil {
		return nil, err
	}

	var candidates []string
	for _, src := range []struct{ selector, attr string }{
		{"img[src]", "src"},
		{"img[data-src]", "data-src"},
		{"img[srcset]", "srcset"},
		{"source[src]", "src"},
		{"source[srcset]", "srcset"},
		{"video[src]", "src"},
		{"a[href]", "href"},
		{`meta[property="og:image"]`, "content"},
	} {
		candidates = append(candidates, attrURLs(doc, nil, src.selector, src.attr)...)
	}
	candidates = append(candidates, rawURL.FindAllString(unescapeSlashes(html), -1)...)

	var media []string
	for _, c := range candidates {
		if s.media.MatchString(c) {
			media = append(media, c)
		}
	}
	return dedupe(media), nil
}

// EmbedURLs returns the video player pages embedded in a post.
func (s *Site) EmbedURLs(html, postURL string) ([]string, error) {
	base, err := url.Parse(postURL)
	if err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "invalid post URL %q", postURL)
	}
	doc, err := parse(html)
	if err != nil {
		return nil, err
	}

	var embeds []string
	for _, src := range attrURLs(doc, base, "iframe[src]", "src") {
		u, err := url.Parse(src)
		if err != nil {
			continue
		}
		if strings.Contains(u.Path, "/video/") || strings.Contains(u.Path, "/video_file/") {
			embeds = append(embeds, src)
		}
	}
	return dedupe(embeds), nil
}

// IsOriginal reports whether the post at postURL was created on its own
// blog. A post carrying reblog markers that point elsewhere is a repost.
func (s *Site) IsOriginal(html, postURL string) (bool, error) {
	base, err := url.Parse(postURL)
	if err != nil || base.Host == "" {
		return false, harvest.Errorf(harvest.EINVALID, "invalid post URL %q", postURL)
	}
	doc, err := parse(html)
	if err != nil {
		return false, err
	}

	original := true
	doc.Find(repostSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		links := sel.Find("a[href]").AddSelection(sel.Filter("a[href]"))
		if links.Length() == 0 {
			original = false
			return false
		}
		links.EachWithBreak(func(_ int, a *goquery.Selection) bool {
			href, _ := a.Attr("href")
			if resolved := resolveURL(base, href); resolved != "" && !isSameHost(base, resolved) {
				original = false
			}
			return original
		})
		return original
	})
	if !original {
		return false, nil
	}

	text := strings.ToLower(doc.Find("body").Text())
	return !strings.Contains(text, "reblogged from"), nil
}

// Text returns the visible body text with whitespace collapsed.
func (s *Site) Text(html string) (string, error) {
	doc, err := parse(html)
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript").Remove()
	return strings.Join(strings.Fields(doc.Find("body").Text()), " "), nil
}

// AuthorHash returns the uploader hash that leads the path of media URLs
// such as https://64.media.tumblr.com/<hash>/<file>, or "" when the URL
// carries none.
func (s *Site) AuthorHash(mediaURL string) string {
	u, err := url.Parse(mediaURL)
	if err != nil {
		return ""
	}
	first, _, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	if !authorHash.MatchString(first) {
		return ""
	}
	return first
}

// unescapeSlashes undoes the "\/" escaping used in inline JSON.
func unescapeSlashes(s string) string {
	return strings.ReplaceAll(s, `\/`, "/")
}
