// Package scraper drives a headless browser to enumerate business listings
// from map search and convert the rendered results into structured,
// deduplicated records: scroll until the feed converges, extract and dedup
// listings, optionally enrich each from its detail view, optionally harvest
// contact emails from linked websites.
package scraper

import (
	"context"
	"log/slog"
	"sync"

	"github.com/FuturizeRush/google-maps-scraper-apify/retry"
	"github.com/FuturizeRush/google-maps-scraper-apify/scraper/internal/browser"
	"github.com/FuturizeRush/google-maps-scraper-apify/scraper/internal/detail"
	"github.com/FuturizeRush/google-maps-scraper-apify/scraper/internal/emailhunt"
	"github.com/FuturizeRush/google-maps-scraper-apify/scraper/internal/feed"
	"github.com/FuturizeRush/google-maps-scraper-apify/scraper/internal/listing"
	"github.com/FuturizeRush/google-maps-scraper-apify/scraper/record"
)

// Options configures a Scraper instance.
type Options struct {
	// RemoteURL attaches to an already-running browser over DevTools
	// protocol instead of launching one.
	RemoteURL string
	// Headless defaults to true; nil means the default.
	Headless *bool
	// Locale is the forced navigator locale for every page this scraper
	// opens. Default "en".
	Locale string
	// ViewportWidth and ViewportHeight fix the page viewport.
	ViewportWidth  int
	ViewportHeight int
	Logger         *slog.Logger
}

// Scraper owns one browser process and runs searches against it. Searches
// on one Scraper must not run concurrently with each other; the page is
// single-owner.
type Scraper struct {
	mgr *browser.Manager
	log *slog.Logger

	mu    sync.Mutex
	stats record.Stats
}

func New(opts Options) *Scraper {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Scraper{
		mgr: browser.NewManager(browser.Config{
			RemoteURL:      opts.RemoteURL,
			Headless:       opts.Headless,
			Locale:         opts.Locale,
			ViewportWidth:  opts.ViewportWidth,
			ViewportHeight: opts.ViewportHeight,
			Logger:         opts.Logger,
		}),
		log: opts.Logger,
	}
}

// Start launches the browser process. It fails if called twice without an
// intervening Close; a launch failure propagates, since a broken browser
// environment cannot self-heal.
func (s *Scraper) Start(ctx context.Context) error {
	return s.mgr.Start(ctx)
}

// Close releases all pages and the browser. Failures are logged, never
// propagated.
func (s *Scraper) Close() {
	s.mgr.Close()
}

// Stats returns a snapshot of the counters accumulated since Start.
func (s *Scraper) Stats() record.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Search runs the full pipeline for one query or URL: load until the feed
// converges, extract and dedup, then the enabled enrichment phases. The
// result is capped at cfg.MaxResults unique records. A query that renders
// zero listings returns an empty slice, not an error.
func (s *Scraper) Search(ctx context.Context, cfg Config) ([]record.Business, error) {
	cfg.defaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if s.mgr.Browser() == nil {
		return nil, ErrNotStarted
	}

	policy := retry.Policy{MaxAttempts: cfg.RetryAttempts, Logger: s.log}
	target := cfg.searchURL()

	s.log.Info("search starting", "query", cfg.Query, "url", target, "max_results", cfg.MaxResults)

	tab, err := retry.Do(ctx, policy, "search navigation", func(ctx context.Context) (*browser.Tab, error) {
		return browser.OpenTab(ctx, s.mgr, target, cfg.navTimeout())
	})
	if err != nil {
		return nil, err
	}
	defer tab.Close()

	browser.DismissConsent(ctx, tab.Page)

	sess := newSession(cfg)

	scroll, err := feed.Run(ctx, tab.Page, cfg.feedOptions(s.log))
	if err != nil {
		return nil, err
	}
	sess.stats.LoadedCount = scroll.LoadedCount
	sess.stats.ScrollAttempts = scroll.Iterations

	// Load and parse are separate phases: a parse failure is retried
	// without re-scrolling.
	raws, err := retry.Do(ctx, policy, "listing collection", func(ctx context.Context) ([]listing.Raw, error) {
		return listing.Collect(ctx, tab.Page)
	})
	if err != nil {
		return nil, err
	}

	out := sess.assemble(ctx, raws, s.enrichPhase(cfg), s.harvestPhase(cfg))

	s.mu.Lock()
	s.stats.LoadedCount += sess.stats.LoadedCount
	s.stats.ExtractedCount += sess.stats.ExtractedCount
	s.stats.ScrollAttempts += sess.stats.ScrollAttempts
	s.stats.EmailsExtracted += sess.stats.EmailsExtracted
	s.mu.Unlock()

	s.log.Info("search finished",
		"query", cfg.Query,
		"loaded", sess.stats.LoadedCount,
		"extracted", sess.stats.ExtractedCount,
		"returned", len(out))
	return out, nil
}

// enrichPhase returns the detail phase for this search, or nil when
// disabled.
func (s *Scraper) enrichPhase(cfg Config) enrichFunc {
	if !cfg.EnableDetail {
		return nil
	}
	enricher := detail.NewEnricher(s.mgr, detail.Options{
		Retry:  retry.Policy{MaxAttempts: cfg.RetryAttempts, Logger: s.log},
		Locale: cfg.Locale,
		Logger: s.log,
	})
	return func(ctx context.Context, businesses []record.Business) {
		results := enricher.Enrich(ctx, businesses)
		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
			}
		}
		if failed > 0 {
			s.log.Warn("detail enrichment partial", "failed", failed, "total", len(results))
		}
	}
}

// harvestPhase returns the email phase for this search, or nil when
// disabled.
func (s *Scraper) harvestPhase(cfg Config) harvestFunc {
	if !cfg.EnableEmail {
		return nil
	}
	h := emailhunt.NewHarvester(s.mgr, emailhunt.Options{
		VerifyMX: cfg.VerifyEmailMX,
		Logger:   s.log,
	})
	return h.Harvest
}
