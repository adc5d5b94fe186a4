package emailhunt

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/FuturizeRush/google-maps-scraper-apify/scraper/internal/browser"
	"github.com/FuturizeRush/google-maps-scraper-apify/scraper/record"
)

// skipHostSuffixes are platform and social hosts: visiting them cannot
// yield the business's own contact address.
var skipHostSuffixes = []string{
	"google.com",
	"facebook.com",
	"instagram.com",
	"youtube.com",
	"linkedin.com",
	"twitter.com",
	"gstatic.com",
	"googleapis.com",
}

// Options configures a Harvester.
type Options struct {
	// BatchSize bounds in-flight fetches. Zero means 5.
	BatchSize int
	// NavTimeout bounds one site visit; tighter than listing/detail
	// navigation since external sites get no retries. Zero means 20s.
	NavTimeout time.Duration
	// BatchDelay separates batches to bound request rate. Zero means 2s.
	BatchDelay time.Duration
	// VerifyMX additionally requires the address domain to publish MX
	// records. Off by default; it costs a DNS round trip per domain.
	VerifyMX bool
	Logger   *slog.Logger
}

// Harvester visits external websites in bounded batches and attaches the
// emails it finds. Each visit uses a dedicated short-lived tab owned by the
// harvester alone and closed after use.
type Harvester struct {
	mgr  *browser.Manager
	opts Options

	mu    sync.Mutex
	cache map[string][]string
}

func NewHarvester(mgr *browser.Manager, opts Options) *Harvester {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 5
	}
	if opts.NavTimeout <= 0 {
		opts.NavTimeout = 20 * time.Second
	}
	if opts.BatchDelay <= 0 {
		opts.BatchDelay = 2 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Harvester{mgr: mgr, opts: opts, cache: make(map[string][]string)}
}

// Harvest fills Email/Emails for every business with an eligible external
// website, in place. A failure for one site yields an empty set for that
// business and never affects the rest of its batch. Returns the total
// number of emails attached.
func (h *Harvester) Harvest(ctx context.Context, businesses []record.Business) int {
	var eligible []int
	for i := range businesses {
		if eligibleHost(businesses[i].Website) != "" {
			eligible = append(eligible, i)
		}
	}

	total := 0
	for start := 0; start < len(eligible); start += h.opts.BatchSize {
		if ctx.Err() != nil {
			break
		}
		end := start + h.opts.BatchSize
		if end > len(eligible) {
			end = len(eligible)
		}

		var wg sync.WaitGroup
		for _, idx := range eligible[start:end] {
			wg.Add(1)
			go func(b *record.Business) {
				defer wg.Done()
				emails := h.fetchSite(ctx, b.Website)
				b.Emails = emails
				if len(emails) > 0 {
					b.Email = emails[0]
				}
			}(&businesses[idx])
		}
		wg.Wait()

		for _, idx := range eligible[start:end] {
			total += len(businesses[idx].Emails)
		}

		if end < len(eligible) {
			select {
			case <-time.After(h.opts.BatchDelay):
			case <-ctx.Done():
			}
		}
	}
	return total
}

// fetchSite returns the filtered email set for one website, consulting and
// feeding the per-host cache. Failed fetches cache an empty set so a host
// is visited at most once per run.
func (h *Harvester) fetchSite(ctx context.Context, site string) []string {
	host := eligibleHost(site)
	if host == "" {
		return nil
	}

	h.mu.Lock()
	if cached, ok := h.cache[host]; ok {
		h.mu.Unlock()
		return cached
	}
	h.mu.Unlock()

	emails := h.visit(ctx, site)

	h.mu.Lock()
	h.cache[host] = emails
	h.mu.Unlock()
	return emails
}

func (h *Harvester) visit(ctx context.Context, site string) []string {
	tab, err := browser.OpenTab(ctx, h.mgr, site, h.opts.NavTimeout)
	if err != nil {
		h.opts.Logger.Warn("email hunt: site visit failed", "site", site, "error", err)
		return nil
	}
	defer tab.Close()

	doc, err := tab.HTML(ctx)
	if err != nil {
		h.opts.Logger.Warn("email hunt: read page failed", "site", site, "error", err)
		return nil
	}

	emails := Filter(EmailsFromHTML(doc))
	if h.opts.VerifyMX {
		verified := emails[:0]
		for _, e := range emails {
			if hasMX(e) {
				verified = append(verified, e)
			}
		}
		emails = verified
	}
	return emails
}

// eligibleHost returns the site's host when it is an external business
// site, or "" for empty, unparsable, and platform/social URLs.
func eligibleHost(site string) string {
	site = strings.TrimSpace(site)
	if site == "" {
		return ""
	}
	u, err := url.Parse(site)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Host)
	for _, suffix := range skipHostSuffixes {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return ""
		}
	}
	return host
}
