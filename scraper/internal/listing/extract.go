package listing

import (
	"strings"

	"github.com/FuturizeRush/google-maps-scraper-apify/normalize"
	"github.com/FuturizeRush/google-maps-scraper-apify/scraper/record"
)

// Extractor converts raw listing snapshots into deduplicated records. The
// seen set is owned by the extractor, which is owned by one search session;
// it is never process-global, so concurrent sessions cannot contaminate
// each other.
type Extractor struct {
	seen map[string]struct{}
	seq  int
}

// NewExtractor creates an Extractor with an empty per-run dedup set.
func NewExtractor() *Extractor {
	return &Extractor{seen: make(map[string]struct{})}
}

// Extract resolves every raw listing into a Business, silently dropping
// links without a resolvable container or name and records whose identity
// was already seen in this run. The caller applies the result cap — after
// extraction and dedup, never before, so the cap always reflects unique
// listings.
func (e *Extractor) Extract(raws []Raw) []record.Business {
	out := make([]record.Business, 0, len(raws))
	for _, raw := range raws {
		if !raw.HasContainer {
			continue
		}
		b, ok := e.extractOne(raw)
		if !ok {
			continue
		}
		if _, dup := e.seen[b.Identity]; dup {
			continue
		}
		e.seen[b.Identity] = struct{}{}
		out = append(out, b)
	}
	return out
}

func (e *Extractor) extractOne(raw Raw) (record.Business, bool) {
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		name = strings.TrimSpace(raw.Heading)
	}
	if name == "" {
		// Records without a resolvable name are discarded.
		return record.Business{}, false
	}

	b := record.Business{
		Name:        name,
		Identity:    resolveIdentity(raw, e.nextSeq),
		Coordinates: parseCoordinates(raw.Href),
		SourceURL:   strings.TrimSpace(raw.Href),
	}

	b.Rating = firstRating(raw.RatingLabel, raw.RatingText)
	b.ReviewCount = firstReviewCount(raw.ReviewsText, raw.RatingLabel)
	b.BusinessType = typeFromSpans(raw.Spans)
	b.Address = addressFromSpans(raw.Spans)
	b.PriceLevel = priceFromSpans(raw.Spans)
	b.Phone = normalize.Phone(raw.Text)

	return b, true
}

func (e *Extractor) nextSeq() int {
	e.seq++
	return e.seq
}
