package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/harvest"
)

// parse parses html into a document.
func parse(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "failed to parse HTML: %v", err)
	}
	return doc, nil
}

// attrURLs collects the URLs held by attr on every element matching
// selector, resolved against base and in document order. Attributes
// holding srcset candidate lists are split into their URLs.
func attrURLs(doc *goquery.Document, base *url.URL, selector, attr string) []string {
	var urls []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		value, exists := sel.Attr(attr)
		if !exists || value == "" {
			return
		}
		candidates := []string{value}
		if strings.HasSuffix(attr, "srcset") {
			candidates = splitSrcset(value)
		}
		for _, c := range candidates {
			if isNonHTTPLink(c) {
				continue
			}
			if resolved := resolveURL(base, c); resolved != "" {
				urls = append(urls, resolved)
			}
		}
	})
	return urls
}

// splitSrcset returns the URLs of a srcset attribute such as
// "a.jpg 500w, b.jpg 1280w".
func splitSrcset(srcset string) []string {
	var urls []string
	for _, candidate := range strings.Split(srcset, ",") {
		fields := strings.Fields(candidate)
		if len(fields) > 0 {
			urls = append(urls, fields[0])
		}
	}
	return urls
}

// resolveURL resolves a possibly relative URL against base.
// Returns empty string if the href cannot be parsed.
// Fragments are stripped from the resolved URL for deduplication purposes.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := ref
	if base != nil {
		resolved = base.ResolveReference(ref)
	}
	resolved.Fragment = ""
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

// isSameHost checks if the resolved URL has the same host as the base URL.
// This uses exact host matching - subdomains are considered different hosts.
func isSameHost(base *url.URL, resolved string) bool {
	u, err := url.Parse(resolved)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, base.Host)
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

// dedupe removes repeated entries, keeping first occurrences in order.
func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := items[:0:0]
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
