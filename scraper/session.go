package scraper

import (
	"context"

	"github.com/FuturizeRush/google-maps-scraper-apify/scraper/internal/listing"
	"github.com/FuturizeRush/google-maps-scraper-apify/scraper/record"
)

// enrichFunc augments records in place with detail-view data.
type enrichFunc func(context.Context, []record.Business)

// harvestFunc attaches website emails in place and returns how many were
// found.
type harvestFunc func(context.Context, []record.Business) int

// session is one invocation of the pipeline: it owns the per-run dedup set
// (via its extractor) and the per-run counters. One session per query,
// never shared.
type session struct {
	cfg   Config
	ext   *listing.Extractor
	stats record.Stats
}

func newSession(cfg Config) *session {
	return &session{cfg: cfg, ext: listing.NewExtractor()}
}

// assemble turns raw listing snapshots into the final record set: extract
// and dedup, cap, then the optional enrichment phases in strict order.
// Pure apart from what the injected phases do, so scenarios run against it
// with fabricated raws and stubbed phases.
func (sess *session) assemble(ctx context.Context, raws []listing.Raw, enrich enrichFunc, harvest harvestFunc) []record.Business {
	businesses := sess.ext.Extract(raws)
	sess.stats.ExtractedCount += len(businesses)

	// Cap after dedup, never before.
	if len(businesses) > sess.cfg.MaxResults {
		businesses = businesses[:sess.cfg.MaxResults]
	}

	if enrich != nil && len(businesses) > 0 {
		enrich(ctx, businesses)
	}
	if harvest != nil && len(businesses) > 0 {
		sess.stats.EmailsExtracted += harvest(ctx, businesses)
	}
	return businesses
}
