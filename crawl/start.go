package crawl

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/fwojciec/harvest"
)

var postPath = regexp.MustCompile(`^/post/[0-9]{8,13}(?:/|$)`)

// Start describes where a harvest begins.
type Start struct {
	// Base is the listing URL without page suffix or trailing slash.
	Base string

	// Page is the first listing page to fetch.
	Page int

	// Post is set when the start URL is a single post.
	Post string

	// Tag is the tag of a /tagged/<tag> listing.
	Tag string

	// Query is the search query of a /search/<query> listing.
	Query string
}

// PageURL returns the URL of listing page n.
func (s Start) PageURL(n int) string {
	return fmt.Sprintf("%s/page/%d", s.Base, n)
}

// ParseStart interprets a start URL. A trailing /page/N selects the first
// page, and a scheme-less URL is assumed to be https.
func ParseStart(raw string) (Start, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Start{}, harvest.Errorf(harvest.EINVALID, "start URL required")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Start{}, harvest.Errorf(harvest.EINVALID, "invalid start URL %q: %v", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Start{}, harvest.Errorf(harvest.EINVALID, "unsupported URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return Start{}, harvest.Errorf(harvest.EINVALID, "start URL %q has no host", raw)
	}
	u.RawQuery = ""
	u.Fragment = ""

	if postPath.MatchString(u.Path) {
		return Start{Base: u.Scheme + "://" + u.Host, Page: 1, Post: u.String()}, nil
	}

	start := Start{Page: 1}
	p := strings.TrimSuffix(u.Path, "/")
	if i := strings.LastIndex(p, "/page/"); i != -1 {
		n, err := strconv.Atoi(p[i+len("/page/"):])
		if err != nil || n < 1 {
			return Start{}, harvest.Errorf(harvest.EINVALID, "invalid page number in %q", raw)
		}
		start.Page = n
		p = p[:i]
	}

	segments := strings.Split(strings.TrimPrefix(p, "/"), "/")
	for i := 0; i+1 < len(segments); i++ {
		value, err := url.PathUnescape(segments[i+1])
		if err != nil {
			value = segments[i+1]
		}
		switch segments[i] {
		case "tagged":
			start.Tag = value
		case "search":
			start.Query = value
		}
	}

	u.Path = p
	u.RawPath = ""
	start.Base = strings.TrimSuffix(u.String(), "/")
	return start, nil
}
