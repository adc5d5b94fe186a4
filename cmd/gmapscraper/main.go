// Command gmapscraper runs map-search business extraction for one or more
// queries and appends the results to an SQLite database.
//
// Usage:
//
//	gmapscraper -query "coffee shops berlin"        # single query
//	gmapscraper -config scraper.yaml                # queries from YAML
//	gmapscraper -query "cafes" -details -emails     # full enrichment
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/FuturizeRush/google-maps-scraper-apify/idgen"
	"github.com/FuturizeRush/google-maps-scraper-apify/scraper"
	"github.com/FuturizeRush/google-maps-scraper-apify/scraper/record"
	"github.com/FuturizeRush/google-maps-scraper-apify/store"
)

// fileConfig is the YAML shape consumed via -config.
type fileConfig struct {
	Queries []string       `yaml:"queries"`
	URLs    []string       `yaml:"urls"`
	DBPath  string         `yaml:"db_path"`
	Browser browserConfig  `yaml:"browser"`
	Search  scraper.Config `yaml:"search"`
}

type browserConfig struct {
	RemoteURL string `yaml:"remote_url"`
	Headless  *bool  `yaml:"headless"`
	Width     int    `yaml:"viewport_width"`
	Height    int    `yaml:"viewport_height"`
}

func main() {
	configPath := flag.String("config", "", "path to scraper.yaml config file")
	query := flag.String("query", "", "single search query")
	directURL := flag.String("url", "", "direct search URL instead of a query")
	maxResults := flag.Int("max", 0, "max results per query (1-200, default 100)")
	locale := flag.String("locale", "", "navigator locale, default en")
	details := flag.Bool("details", false, "visit each detail view")
	emails := flag.Bool("emails", false, "harvest emails from linked websites")
	multiRegion := flag.Bool("regions", false, "run region-qualified sub-searches")
	dbPath := flag.String("db", "", "SQLite output path, default records.db")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	// .env is optional; flags and YAML win over it.
	_ = godotenv.Load()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := buildConfig(*configPath, *query, *directURL, *maxResults, *locale, *details, *emails, *multiRegion, *dbPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(1)
	}

	if err := run(ctx, logger, cfg); err != nil {
		logger.Error("gmapscraper: fatal", "error", err)
		os.Exit(1)
	}
}

// buildConfig merges the inputs; precedence is flags, then YAML, then env,
// then the built-in defaults.
func buildConfig(configPath, query, directURL string, maxResults int, locale string, details, emails, multiRegion bool, dbPath string) (fileConfig, error) {
	var cfg fileConfig

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("GMAPS_REMOTE_URL"); v != "" && cfg.Browser.RemoteURL == "" {
		cfg.Browser.RemoteURL = v
	}
	if v := os.Getenv("GMAPS_DB"); v != "" && cfg.DBPath == "" {
		cfg.DBPath = v
	}

	if query != "" {
		cfg.Queries = append(cfg.Queries, query)
	}
	if directURL != "" {
		cfg.URLs = append(cfg.URLs, directURL)
	}
	if maxResults > 0 {
		cfg.Search.MaxResults = maxResults
	}
	if locale != "" {
		cfg.Search.Locale = locale
	}
	if details {
		cfg.Search.EnableDetail = true
	}
	if emails {
		cfg.Search.EnableEmail = true
	}
	if multiRegion {
		cfg.Search.MultiRegion = true
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "records.db"
	}

	if len(cfg.Queries) == 0 && len(cfg.URLs) == 0 {
		return cfg, fmt.Errorf("nothing to search: pass -query, -url, or a config with queries")
	}
	for _, q := range cfg.Queries {
		if strings.TrimSpace(q) == "" {
			return cfg, fmt.Errorf("empty query in input")
		}
	}
	return cfg, nil
}

func run(ctx context.Context, logger *slog.Logger, cfg fileConfig) error {
	runID := idgen.Prefixed("run_", idgen.Default)()
	logger.Info("run starting", "run_id", runID,
		"queries", len(cfg.Queries), "urls", len(cfg.URLs), "db", cfg.DBPath)

	sink, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer sink.Close()

	sc := scraper.New(scraper.Options{
		RemoteURL:      cfg.Browser.RemoteURL,
		Headless:       cfg.Browser.Headless,
		Locale:         cfg.Search.Locale,
		ViewportWidth:  cfg.Browser.Width,
		ViewportHeight: cfg.Browser.Height,
		Logger:         logger,
	})
	if err := sc.Start(ctx); err != nil {
		// A broken browser environment cannot self-heal; give up.
		return err
	}
	defer sc.Close()

	searches := make([]scraper.Config, 0, len(cfg.Queries)+len(cfg.URLs))
	for _, q := range cfg.Queries {
		search := cfg.Search
		search.Query = q
		searches = append(searches, search)
	}
	for _, u := range cfg.URLs {
		search := cfg.Search
		search.URL = u
		searches = append(searches, search)
	}

	failures := 0
	for _, search := range searches {
		if ctx.Err() != nil {
			break
		}
		label := search.Query
		if label == "" {
			label = search.URL
		}

		before := sc.Stats()
		results, err := runSearch(ctx, sc, search)
		if err != nil {
			// Per-query isolation: record the failure and move on.
			logger.Error("query failed", "query", label, "error", err)
			failures++
			continue
		}

		records := make([]record.Record, 0, len(results))
		now := time.Now().UTC()
		for _, b := range results {
			records = append(records, record.Record{
				Business:  b,
				Query:     search.Query,
				SearchURL: search.URL,
				ScrapedAt: now,
			})
		}
		if err := sink.SaveRecords(ctx, runID, records); err != nil {
			logger.Error("persist failed", "query", label, "error", err)
			failures++
			continue
		}
		if err := sink.SaveStats(ctx, runID, label, statsDelta(before, sc.Stats())); err != nil {
			logger.Warn("stats persist failed", "query", label, "error", err)
		}
		logger.Info("query done", "query", label, "records", len(records))
	}

	logger.Info("run finished", "run_id", runID, "failures", failures)
	if failures == len(searches) && len(searches) > 0 {
		return fmt.Errorf("all %d searches failed", failures)
	}
	return nil
}

func runSearch(ctx context.Context, sc *scraper.Scraper, search scraper.Config) ([]record.Business, error) {
	if search.MultiRegion {
		return sc.SearchRegions(ctx, search)
	}
	return sc.Search(ctx, search)
}

func statsDelta(before, after record.Stats) record.Stats {
	return record.Stats{
		LoadedCount:     after.LoadedCount - before.LoadedCount,
		ExtractedCount:  after.ExtractedCount - before.ExtractedCount,
		ScrollAttempts:  after.ScrollAttempts - before.ScrollAttempts,
		EmailsExtracted: after.EmailsExtracted - before.EmailsExtracted,
	}
}
