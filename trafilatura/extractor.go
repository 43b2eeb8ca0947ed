// Package trafilatura extracts readable post text with go-trafilatura.
package trafilatura

import (
	"strings"

	"github.com/fwojciec/harvest"
	"github.com/markusmobius/go-trafilatura"
)

// Ensure Extractor implements harvest.TextExtractor at compile time.
var _ harvest.TextExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to pull the searchable text out of a post
// page: its title, description, main content and tags.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Text returns the readable text of rawHTML.
func (e *Extractor) Text(rawHTML string) (string, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return "", harvest.Errorf(harvest.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return "", err
	}

	parts := []string{
		result.Metadata.Title,
		result.Metadata.Description,
		result.ContentText,
	}
	parts = append(parts, result.Metadata.Tags...)

	var b strings.Builder
	for _, p := range parts {
		p = strings.Join(strings.Fields(p), " ")
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p)
	}
	return b.String(), nil
}
