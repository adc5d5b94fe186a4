package scraper

import (
	"context"
	"strings"
	"time"

	"github.com/FuturizeRush/google-maps-scraper-apify/scraper/record"
)

// defaultRegions is the fixed qualifier set used when the config supplies
// none. Generic locality terms diversify results without assuming a
// particular city layout.
var defaultRegions = []string{
	"downtown",
	"city center",
	"north",
	"south",
	"east",
	"west",
}

// SearchRegions runs the pipeline once per region qualifier appended to the
// base query, merging results by identity until cfg.MaxResults unique
// records are collected or qualifiers run out. A sub-search failure is
// logged and skipped. The base query runs first, unqualified.
func (s *Scraper) SearchRegions(ctx context.Context, cfg Config) ([]record.Business, error) {
	cfg.defaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Query) == "" {
		// A direct URL cannot take region qualifiers.
		return s.Search(ctx, cfg)
	}

	regions := cfg.Regions
	if len(regions) == 0 {
		regions = defaultRegions
	}
	queries := make([]string, 0, len(regions)+1)
	queries = append(queries, cfg.Query)
	for _, r := range regions {
		queries = append(queries, cfg.Query+" "+r)
	}

	merged := make([]record.Business, 0, cfg.MaxResults)
	seen := make(map[string]struct{})

	for i, q := range queries {
		if len(merged) >= cfg.MaxResults || ctx.Err() != nil {
			break
		}
		if i > 0 {
			select {
			case <-time.After(cfg.RegionDelay):
			case <-ctx.Done():
				return merged, nil
			}
		}

		sub, err := s.Search(ctx, cfg.withQuery(q))
		if err != nil {
			s.log.Warn("region sub-search failed, continuing", "query", q, "error", err)
			continue
		}
		merged = mergeByIdentity(merged, sub, seen, cfg.MaxResults)
		s.log.Info("region sub-search merged", "query", q, "merged_total", len(merged))
	}
	return merged, nil
}

// mergeByIdentity appends records whose identity is unseen, up to cap.
// Order-independent across batches: the union is keyed by identity alone.
func mergeByIdentity(dst []record.Business, src []record.Business, seen map[string]struct{}, limit int) []record.Business {
	for _, b := range src {
		if len(dst) >= limit {
			break
		}
		if _, dup := seen[b.Identity]; dup {
			continue
		}
		seen[b.Identity] = struct{}{}
		dst = append(dst, b)
	}
	return dst
}
