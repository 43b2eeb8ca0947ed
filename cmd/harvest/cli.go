package main

import (
	"time"

	"github.com/fwojciec/harvest"
)

// CLI defines the command-line interface structure for Kong.
// Flags not given on the command line fall back to harvest.yaml and then
// to HARVEST_* environment variables.
type CLI struct {
	URL string `arg:"" required:"" help:"Blog URL, listing page or single post to harvest"`

	Output      string        `short:"o" default:"blogs" help:"Folder media are saved to"`
	Workers     int           `short:"w" default:"8" help:"Concurrent downloads"`
	RetryLimit  int           `name:"retry-limit" default:"3" help:"Attempts for errors that may not go away"`
	Timeout     time.Duration `short:"t" default:"6s" help:"Timeout per page fetch attempt"`
	FileTimeout time.Duration `name:"file-timeout" default:"0s" help:"Timeout per download attempt (0 = none)"`
	RetryDelay  time.Duration `name:"retry-delay" default:"0s" help:"Pause between attempts"`
	Rate        float64       `default:"0" help:"Requests per second per host (0 = unlimited)"`
	MaxPages    int           `name:"max-pages" default:"0" help:"Stop after this many listing pages (0 = no limit)"`
	UserAgent   string        `name:"user-agent" help:"User-Agent header for HTTP requests"`

	OriginalsOnly bool   `name:"originals-only" help:"Skip reposted content"`
	Search        string `help:"Only keep posts whose text contains this phrase"`
	MainContent   bool   `name:"main-content" help:"Search only the main post content"`
	Extractor     string `default:"trafilatura" enum:"trafilatura,readability" help:"Main content extractor used with --main-content"`
	TagDirs       bool   `name:"tag-dirs" help:"Save media in a folder named after the tag"`
	Tag           string `help:"Folder name used with --tag-dirs (default: tag from the URL)"`
	AuthorHash    string `name:"author-hash" help:"Only keep media uploaded by this author hash"`
	Updates       bool   `help:"Stop once pages only contain media already downloaded"`
	Browser       bool   `help:"Render listing pages in headless Chrome"`

	BrowserRecycle int64 `name:"browser-recycle" default:"0" help:"Pages rendered before the browser is restarted (0 = default)"`

	MetricsAddr string `name:"metrics-addr" help:"Serve Prometheus metrics on this address"`
	LogLevel    string `name:"log-level" default:"warn" enum:"debug,info,warn,error" help:"Log level"`
	LogFormat   string `name:"log-format" default:"text" enum:"text,json" help:"Log format"`
}

// Validate checks flag values Kong cannot check on its own.
func (c *CLI) Validate() error {
	if c.Workers < 1 {
		return harvest.Errorf(harvest.EINVALID, "workers must be at least 1")
	}
	if c.RetryLimit < 1 {
		return harvest.Errorf(harvest.EINVALID, "retry limit must be at least 1")
	}
	if c.Timeout <= 0 {
		return harvest.Errorf(harvest.EINVALID, "timeout must be positive")
	}
	if c.MaxPages < 0 {
		return harvest.Errorf(harvest.EINVALID, "max pages cannot be negative")
	}
	if c.BrowserRecycle < 0 {
		return harvest.Errorf(harvest.EINVALID, "browser recycle cannot be negative")
	}
	return nil
}
