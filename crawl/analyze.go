package crawl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/harvest"
)

// Analyzer turns a post URL into the media URLs it references, applying
// the configured filter. Analyzers share only read-only configuration and
// may run concurrently.
type Analyzer struct {
	Executor  Executor
	Links     harvest.LinkExtractor
	Originals harvest.OriginalDetector
	Text      harvest.TextExtractor
	Authors   harvest.AuthorHasher
	Filter    harvest.Filter
	Timeout   time.Duration
	Logger    *slog.Logger
}

// Analyze fetches the post at postURL and returns the media it references.
// A post that cannot be fetched, or that the filter rejects, yields no
// media. The error is non-nil only for fatal failures.
func (a *Analyzer) Analyze(ctx context.Context, postURL string) ([]string, error) {
	html, ok, err := a.fetch(ctx, postURL)
	if err != nil || !ok {
		return nil, err
	}

	if a.Filter.OriginalsOnly && a.Originals != nil {
		original, err := a.Originals.IsOriginal(html, postURL)
		if err != nil {
			a.logger().Warn("original post check failed", "url", postURL, "err", err)
		} else if !original {
			return nil, nil
		}
	}

	if a.Filter.Search != "" {
		text, err := a.Text.Text(html)
		if err != nil {
			a.logger().Warn("text extraction failed", "url", postURL, "err", err)
			return nil, nil
		}
		if !strings.Contains(strings.ToLower(text), strings.ToLower(a.Filter.Search)) {
			return nil, nil
		}
	}

	links, err := a.Links.MediaURLs(html)
	if err != nil {
		a.logger().Warn("media extraction failed", "url", postURL, "err", err)
		return nil, nil
	}

	embeds, err := a.Links.EmbedURLs(html, postURL)
	if err != nil {
		a.logger().Warn("embed extraction failed", "url", postURL, "err", err)
	}
	for _, embed := range embeds {
		page, ok, err := a.fetch(ctx, embed)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		more, err := a.Links.MediaURLs(page)
		if err != nil {
			a.logger().Warn("media extraction failed", "url", embed, "err", err)
			continue
		}
		links = append(links, more...)
	}

	if a.Filter.AuthorHash != "" && a.Authors != nil {
		kept := links[:0:0]
		for _, link := range links {
			if a.Authors.AuthorHash(link) == a.Filter.AuthorHash {
				kept = append(kept, link)
			}
		}
		links = kept
	}

	return links, nil
}

func (a *Analyzer) fetch(ctx context.Context, url string) (string, bool, error) {
	result, err := a.Executor.Execute(ctx, harvest.NewPageFetch(url, a.Timeout))
	if err != nil {
		return "", false, err
	}
	return result.Content, result.OK(), nil
}

func (a *Analyzer) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.Logger
}
