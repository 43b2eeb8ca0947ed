package harvest

import (
	"net/url"
	"path"
	"strings"
)

// FileName returns the name a media URL is stored under, which is the last
// segment of its path. It returns "" when the URL has no usable name.
func FileName(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	} else if i := strings.IndexAny(p, "?#"); i != -1 {
		p = p[:i]
	}
	name := path.Base(p)
	if name == "." || name == "/" || name == "" {
		return ""
	}
	return name
}
