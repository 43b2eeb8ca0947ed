// Package readability extracts readable post text with go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/harvest"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements harvest.TextExtractor at compile time.
var _ harvest.TextExtractor = (*Extractor)(nil)

// Extractor wraps go-readability to pull the article text out of a post.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Text returns the title and article text of rawHTML with whitespace
// collapsed.
func (e *Extractor) Text(rawHTML string) (string, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return "", harvest.Errorf(harvest.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return "", err
	}

	text := strings.Join(strings.Fields(article.TextContent), " ")
	title := strings.Join(strings.Fields(article.Title), " ")
	if title == "" || strings.HasPrefix(text, title) {
		return text, nil
	}
	return title + " " + text, nil
}
