package detail

import (
	"context"
	"log/slog"
	"time"

	"github.com/FuturizeRush/google-maps-scraper-apify/retry"
	"github.com/FuturizeRush/google-maps-scraper-apify/scraper/internal/browser"
	"github.com/FuturizeRush/google-maps-scraper-apify/scraper/record"
)

// Result reports the outcome of enriching one business. Err is nil on
// success; a failed business keeps its listing-level fields.
type Result struct {
	Identity string
	Err      error
}

// Options configures an Enricher.
type Options struct {
	// NavTimeout bounds one detail navigation. Zero means 30s.
	NavTimeout time.Duration
	// SettleDelay is the pause after the hours expansion click. Zero
	// means 800ms.
	SettleDelay time.Duration
	// Retry is used per detail navigation; zero value means the package
	// defaults (3 attempts).
	Retry retry.Policy
	// Locale drives postal-address formatting.
	Locale string
	Logger *slog.Logger
}

// Enricher navigates to each candidate's detail view and merges what it
// finds into the record via Apply.
type Enricher struct {
	mgr  *browser.Manager
	opts Options
}

func NewEnricher(mgr *browser.Manager, opts Options) *Enricher {
	if opts.NavTimeout <= 0 {
		opts.NavTimeout = 30 * time.Second
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = 800 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Enricher{mgr: mgr, opts: opts}
}

// Enrich processes the whole candidate set in place. Failures are
// per-business: the record keeps its listing-level fields and the failure
// is reported in the returned results, never as an error from Enrich
// itself. Only context cancellation stops the batch.
func (e *Enricher) Enrich(ctx context.Context, businesses []record.Business) []Result {
	results := make([]Result, 0, len(businesses))
	for i := range businesses {
		if ctx.Err() != nil {
			break
		}
		b := &businesses[i]
		if b.SourceURL == "" {
			continue
		}
		err := e.enrichOne(ctx, b)
		if err != nil {
			e.opts.Logger.Warn("detail enrichment failed, keeping listing fields",
				"identity", b.Identity, "name", b.Name, "error", err)
		}
		results = append(results, Result{Identity: b.Identity, Err: err})
	}
	return results
}

func (e *Enricher) enrichOne(ctx context.Context, b *record.Business) error {
	raw, err := retry.Do(ctx, e.opts.Retry, "detail "+b.Identity, func(ctx context.Context) (Raw, error) {
		return e.fetch(ctx, b.SourceURL)
	})
	if err != nil {
		return err
	}
	Apply(b, raw, e.opts.Locale)
	return nil
}

func (e *Enricher) fetch(ctx context.Context, pageURL string) (Raw, error) {
	tab, err := browser.OpenTab(ctx, e.mgr, pageURL, e.opts.NavTimeout)
	if err != nil {
		return Raw{}, err
	}
	defer tab.Close()

	if expandHours(ctx, tab.Page) {
		select {
		case <-time.After(e.opts.SettleDelay):
		case <-ctx.Done():
			return Raw{}, ctx.Err()
		}
	}
	return Collect(ctx, tab.Page)
}
