package scraper

import (
	"log/slog"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/FuturizeRush/google-maps-scraper-apify/scraper/internal/feed"
)

const (
	searchBaseURL = "https://www.google.com/maps/search/"

	maxResultsCeiling = 200
	maxScrollsCeiling = 100
)

// Config is the immutable input of one search: constructed once per call
// and never mutated during extraction. Region variants are derived copies
// via withQuery, not in-place edits.
type Config struct {
	// Query is the search phrase. Ignored when URL is set.
	Query string `yaml:"query"`
	// URL is a direct search or place URL used instead of a query.
	URL string `yaml:"url"`

	// MaxResults caps the output record count: 1–200, default 100. The
	// cap is applied after dedup, so it always reflects unique listings.
	MaxResults int `yaml:"max_results"`
	// MaxScrolls bounds feed scroll iterations: 1–100, default 50.
	MaxScrolls int `yaml:"max_scrolls"`

	// Convergence tuning. The defaults are empirical against the live
	// source; they are configuration because their correct values cannot
	// be verified without it.

	// ShowMoreAfter is the stall count at which a "show more" control is
	// clicked. Default 3.
	ShowMoreAfter int `yaml:"show_more_after"`
	// AltScrollAfter is the stall count at which an alternate ancestor
	// container is scrolled. Default 5.
	AltScrollAfter int `yaml:"alt_scroll_after"`
	// GiveUpAfter is the consecutive-stall count that ends scrolling.
	// Default 8.
	GiveUpAfter int `yaml:"give_up_after"`
	// ListingCeiling is the rendered-listing count that ends scrolling
	// immediately; the source never renders more. Default 200.
	ListingCeiling int `yaml:"listing_ceiling"`
	// ScrollBaseDelay is the settle wait after the first scroll
	// iteration. Default 1200ms.
	ScrollBaseDelay time.Duration `yaml:"scroll_base_delay"`
	// ScrollDelayStep is added to the wait per iteration. Default 150ms.
	ScrollDelayStep time.Duration `yaml:"scroll_delay_step"`

	// Locale is the forced navigator locale, default "en".
	Locale string `yaml:"locale"`

	// EnableDetail turns on the per-business detail visit.
	EnableDetail bool `yaml:"enable_detail"`
	// EnableEmail turns on the website email hunt. Implies nothing about
	// detail: a listing-level website still qualifies.
	EnableEmail bool `yaml:"enable_email"`
	// VerifyEmailMX additionally checks MX records on found addresses.
	VerifyEmailMX bool `yaml:"verify_email_mx"`

	// MultiRegion appends region qualifiers to the query until
	// MaxResults unique records are merged or qualifiers run out.
	MultiRegion bool `yaml:"multi_region"`
	// Regions overrides the default qualifier set.
	Regions []string `yaml:"regions"`

	// RetryAttempts bounds navigation retries, default 3.
	RetryAttempts int `yaml:"retry_attempts"`
	// NavTimeout bounds the search-page navigation, default 60s. It is
	// doubled for non-ASCII queries, which render measurably slower.
	NavTimeout time.Duration `yaml:"nav_timeout"`
	// RegionDelay separates multi-region sub-searches, default 3s.
	RegionDelay time.Duration `yaml:"region_delay"`
}

func (c *Config) defaults() {
	if c.MaxResults <= 0 {
		c.MaxResults = 100
	}
	if c.MaxResults > maxResultsCeiling {
		c.MaxResults = maxResultsCeiling
	}
	if c.MaxScrolls <= 0 {
		c.MaxScrolls = 50
	}
	if c.MaxScrolls > maxScrollsCeiling {
		c.MaxScrolls = maxScrollsCeiling
	}
	if c.ShowMoreAfter <= 0 {
		c.ShowMoreAfter = 3
	}
	if c.AltScrollAfter <= 0 {
		c.AltScrollAfter = 5
	}
	if c.GiveUpAfter <= 0 {
		c.GiveUpAfter = 8
	}
	if c.ListingCeiling <= 0 {
		c.ListingCeiling = 200
	}
	if c.ScrollBaseDelay <= 0 {
		c.ScrollBaseDelay = 1200 * time.Millisecond
	}
	if c.ScrollDelayStep <= 0 {
		c.ScrollDelayStep = 150 * time.Millisecond
	}
	if c.Locale == "" {
		c.Locale = "en"
	}
	if c.RetryAttempts <= 0 {
		c.RetryAttempts = 3
	}
	if c.NavTimeout <= 0 {
		c.NavTimeout = 60 * time.Second
	}
	if c.RegionDelay <= 0 {
		c.RegionDelay = 3 * time.Second
	}
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Query) == "" && strings.TrimSpace(c.URL) == "" {
		return ErrNoQuery
	}
	return nil
}

// withQuery derives a copy for a region sub-search.
func (c Config) withQuery(query string) Config {
	c.Query = query
	c.URL = ""
	c.MultiRegion = false
	return c
}

// searchURL builds the navigation target.
func (c Config) searchURL() string {
	if u := strings.TrimSpace(c.URL); u != "" {
		return u
	}
	q := strings.ReplaceAll(strings.TrimSpace(c.Query), " ", "+")
	return searchBaseURL + url.PathEscape(q) + "?hl=" + c.Locale
}

// feedOptions maps the config's convergence tuning onto the scroll driver.
func (c Config) feedOptions(log *slog.Logger) feed.Options {
	return feed.Options{
		Thresholds: feed.Thresholds{
			ShowMoreAfter:  c.ShowMoreAfter,
			AltScrollAfter: c.AltScrollAfter,
			GiveUpAfter:    c.GiveUpAfter,
			Ceiling:        c.ListingCeiling,
			MaxScrolls:     c.MaxScrolls,
		},
		BaseDelay: c.ScrollBaseDelay,
		DelayStep: c.ScrollDelayStep,
		Logger:    log,
	}
}

// navTimeout returns the navigation timeout, scaled for non-ASCII queries.
func (c Config) navTimeout() time.Duration {
	for _, r := range c.Query {
		if r > unicode.MaxASCII {
			return 2 * c.NavTimeout
		}
	}
	return c.NavTimeout
}
