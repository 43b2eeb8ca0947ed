package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/crawl"
	"github.com/fwojciec/harvest/fs"
	"github.com/fwojciec/harvest/goquery"
	hhttp "github.com/fwojciec/harvest/http"
	hprom "github.com/fwojciec/harvest/prometheus"
	"github.com/fwojciec/harvest/readability"
	"github.com/fwojciec/harvest/rod"
	hslog "github.com/fwojciec/harvest/slog"
	"github.com/fwojciec/harvest/trafilatura"
	"github.com/google/uuid"
	prom "github.com/prometheus/client_golang/prometheus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// ConfigDirs are searched in order for harvest.yaml.
	ConfigDirs []string
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "harvest"))
	}
	return &Main{ConfigDirs: dirs}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	resolver, err := newConfigResolver(m.ConfigDirs...)
	if err != nil {
		return err
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("harvest"),
		kong.Description("Download the images and videos posted on a blog"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Resolvers(resolver),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	return m.harvest(ctx, cli, stdout, stderr)
}

// harvest wires the services described by cli and runs one harvest.
func (m *Main) harvest(ctx context.Context, cli *CLI, stdout, stderr io.Writer) error {
	logger, err := newLogger(stderr, cli.LogLevel, cli.LogFormat)
	if err != nil {
		return err
	}
	logger = logger.With("run_id", uuid.NewString())

	start, err := crawl.ParseStart(cli.URL)
	if err != nil {
		return err
	}

	layout := fs.Layout{Root: cli.Output}
	if cli.TagDirs {
		layout.Tag = cli.Tag
		if layout.Tag == "" {
			layout.Tag = start.Tag
		}
	}
	layout.Query = cli.Search
	if layout.Query == "" {
		layout.Query = start.Query
	}
	if err := fs.EnsureDir(layout.Dir()); err != nil {
		return err
	}

	index := crawl.NewIndex()
	known, err := fs.ScanIndex(layout.Dir(), index)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", layout.Dir(), err)
	}
	logger.Info("output ready", "dir", layout.Dir(), "known", known)

	reg := prom.NewRegistry()
	metrics, err := hprom.NewObserver(reg)
	if err != nil {
		return err
	}
	observer := hslog.NewLoggingObserver(metrics, logger)

	if cli.MetricsAddr != "" {
		shutdown, err := serveMetrics(cli.MetricsAddr, reg, logger)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = cli.Workers
	httpOpts := []hhttp.Option{hhttp.WithClient(&http.Client{Transport: transport})}
	if cli.UserAgent != "" {
		httpOpts = append(httpOpts, hhttp.WithUserAgent(cli.UserAgent))
	}
	httpFetcher := hhttp.NewFetcher(httpOpts...)

	var pages harvest.PageFetcher = httpFetcher
	if cli.Browser {
		rodOpts := []rod.Option{rod.WithFetchTimeout(cli.Timeout)}
		if cli.BrowserRecycle > 0 {
			rodOpts = append(rodOpts, rod.WithRecycleAfter(cli.BrowserRecycle))
		}
		rodFetcher, err := rod.NewFetcher(rodOpts...)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		defer func() {
			logger.Info("browser closed", "recycled", rodFetcher.Recycled())
			_ = rodFetcher.Close()
		}()
		pages = rodFetcher
	}

	retrier := &crawl.Retrier{
		Pages:      hslog.NewLoggingPageFetcher(pages, logger),
		Files:      hslog.NewLoggingFileFetcher(httpFetcher, logger),
		Limiter:    crawl.NewDomainLimiter(cli.Rate),
		RetryDelay: cli.RetryDelay,
		Observer:   observer,
		Logger:     logger,
	}

	site := goquery.NewSite()
	var text harvest.TextExtractor = site
	if cli.MainContent {
		switch cli.Extractor {
		case "readability":
			text = readability.NewExtractor()
		default:
			text = trafilatura.NewExtractor()
		}
	}

	tally := &crawl.Tally{}
	limits := crawl.DefaultLimits()
	limits.OriginalsOnly = cli.OriginalsOnly
	limits.UpdatesOnly = cli.Updates
	limits.MaxPages = cli.MaxPages

	h := &crawl.Harvester{
		Executor: retrier,
		Links:    site,
		Analyzer: &crawl.Analyzer{
			Executor:  retrier,
			Links:     site,
			Originals: site,
			Text:      text,
			Authors:   site,
			Filter: harvest.Filter{
				OriginalsOnly: cli.OriginalsOnly,
				Search:        cli.Search,
				AuthorHash:    cli.AuthorHash,
			},
			Timeout: cli.Timeout,
			Logger:  logger,
		},
		Pool: &crawl.Pool{
			Queue:    crawl.NewQueue(),
			Executor: retrier,
			Downloader: &crawl.Downloader{
				Dest:       layout.Path,
				Index:      index,
				Tally:      tally,
				Timeout:    cli.FileTimeout,
				RetryLimit: cli.RetryLimit,
			},
			Workers:  cli.Workers,
			Observer: observer,
		},
		Index:    index,
		Tally:    tally,
		Limits:   limits,
		Timeout:  cli.Timeout,
		Observer: observer,
		Logger:   logger,
	}

	p := newPrinter(stdout)
	result, err := h.Run(ctx, cli.URL, p.handle)
	var fatal *crawl.FatalError
	if result != nil && !errors.As(err, &fatal) {
		p.summary(result)
	}
	return err
}

// serveMetrics starts the metrics server in the background and returns a
// function that stops it.
func serveMetrics(addr string, g prom.Gatherer, logger *slog.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           newRouter(g),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "err", err)
		}
	}()
	logger.Info("serving metrics", "addr", ln.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
