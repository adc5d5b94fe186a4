package feed

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
)

// Scroll scripts. Several independent triggers run each iteration because
// any single one can fail to register depending on the rendered layout.
const (
	countScript = `() => document.querySelectorAll('a[href*="/maps/place/"]').length`

	scrollFeedScript = `() => {
		const feed = document.querySelector('div[role="feed"]');
		if (feed) feed.scrollTop = feed.scrollHeight;
		window.scrollBy(0, 1000);
	}`

	scrollLastLinkScript = `() => {
		const links = document.querySelectorAll('a[href*="/maps/place/"]');
		if (links.length) links[links.length - 1].scrollIntoView({block: 'end'});
	}`

	clickShowMoreScript = `() => {
		const btn = document.querySelector('button[aria-label*="more" i], span[role="button"][aria-label*="more" i]');
		if (btn) { btn.click(); return true; }
		return false;
	}`

	scrollAlternateScript = `() => {
		const link = document.querySelector('a[href*="/maps/place/"]');
		let node = link ? link.parentElement : null;
		for (let i = 0; node && i < 6; i++) {
			if (node.scrollHeight > node.clientHeight) {
				node.scrollTop = node.scrollHeight;
				return true;
			}
			node = node.parentElement;
		}
		return false;
	}`
)

// Options tunes the scroll driver.
type Options struct {
	Thresholds Thresholds
	// BaseDelay is the settle wait after the first iteration's triggers.
	// Default: 1200ms.
	BaseDelay time.Duration
	// DelayStep is added per iteration: iteration i waits
	// BaseDelay + i*DelayStep. Later iterations need more settle time.
	// Default: 150ms.
	DelayStep time.Duration
	Logger    *slog.Logger
}

func (o *Options) defaults() {
	if o.BaseDelay <= 0 {
		o.BaseDelay = 1200 * time.Millisecond
	}
	if o.DelayStep <= 0 {
		o.DelayStep = 150 * time.Millisecond
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Result reports what the scroll loop achieved. The loop itself returns no
// listings; it only changes the rendered state that the extractor reads.
type Result struct {
	LoadedCount int
	Iterations  int
	Phase       Phase
}

// Run drives the feed until convergence, exhaustion, or context
// cancellation. Load and parse are deliberately separate phases: a parsing
// failure can be retried without re-scrolling.
func Run(ctx context.Context, page *rod.Page, opts Options) (Result, error) {
	opts.defaults()
	log := opts.Logger

	tr := NewTracker(opts.Thresholds)
	var last Step
	count := 0

	for {
		if err := ctx.Err(); err != nil {
			return Result{LoadedCount: count, Iterations: tr.Iterations(), Phase: last.Phase}, err
		}

		applyScrollTriggers(ctx, page, tr.Iterations(), log)

		wait := opts.BaseDelay + time.Duration(tr.Iterations())*opts.DelayStep
		select {
		case <-ctx.Done():
			return Result{LoadedCount: count, Iterations: tr.Iterations(), Phase: last.Phase}, ctx.Err()
		case <-time.After(wait):
		}

		count = countListings(ctx, page, log)
		last = tr.Observe(count)
		log.Debug("feed: iteration",
			"count", count, "iteration", tr.Iterations(), "phase", last.Phase.String())

		if last.Done {
			return Result{LoadedCount: count, Iterations: tr.Iterations(), Phase: last.Phase}, nil
		}
		if last.ClickShowMore {
			if _, err := page.Context(ctx).Eval(clickShowMoreScript); err != nil {
				log.Debug("feed: show-more click failed", "error", err)
			}
		}
		if last.ScrollAlternate {
			if _, err := page.Context(ctx).Eval(scrollAlternateScript); err != nil {
				log.Debug("feed: alternate scroll failed", "error", err)
			}
		}
	}
}

func applyScrollTriggers(ctx context.Context, page *rod.Page, iteration int, log *slog.Logger) {
	if _, err := page.Context(ctx).Eval(scrollFeedScript); err != nil {
		log.Debug("feed: feed scroll failed", "error", err)
	}
	if _, err := page.Context(ctx).Eval(scrollLastLinkScript); err != nil {
		log.Debug("feed: last-link scroll failed", "error", err)
	}
	// The End key occasionally reaches the feed when DOM-level scrolling
	// does not register.
	if iteration%3 == 0 {
		if err := page.Context(ctx).Keyboard.Press(input.End); err != nil {
			log.Debug("feed: end key failed", "error", err)
		}
	}
}

func countListings(ctx context.Context, page *rod.Page, log *slog.Logger) int {
	res, err := page.Context(ctx).Eval(countScript)
	if err != nil {
		log.Debug("feed: count failed", "error", err)
		return 0
	}
	return res.Value.Int()
}
