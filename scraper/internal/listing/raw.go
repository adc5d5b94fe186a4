// Package listing converts the currently rendered result feed into
// deduplicated business records.
//
// The split is deliberate: a JS collector takes one cheap snapshot of every
// rendered listing link (Raw), and all interpretation — identity
// resolution, field fallback chains, dedup — happens in pure Go over those
// snapshots, so the heuristics are testable without a browser.
package listing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-rod/rod"
)

// Raw is the uninterpreted snapshot of one rendered listing link and its
// enclosing container.
type Raw struct {
	// Href is the listing's canonical detail link.
	Href string `json:"href"`
	// Name is the link's accessible label, usually the business name.
	Name string `json:"name"`
	// Heading is heading-styled text found inside the container.
	Heading string `json:"heading"`
	// RatingLabel is the aria-label of an ARIA-labelled rating element.
	RatingLabel string `json:"ratingLabel"`
	// RatingText is visible rating text ("4.6").
	RatingText string `json:"ratingText"`
	// ReviewsText is the parenthetical review count ("(120)").
	ReviewsText string `json:"reviewsText"`
	// DataPid is an identifier exposed via a data attribute on the link or
	// an ancestor, when present.
	DataPid string `json:"dataPid"`
	// Spans are the container's detail spans in document order.
	Spans []string `json:"spans"`
	// Text is the container's flattened text.
	Text string `json:"text"`
	// HasContainer is false when no enclosing container could be resolved;
	// such links are skipped rather than failing the pass.
	HasContainer bool `json:"hasContainer"`
}

// collectScript snapshots every rendered listing link. Container resolution
// tries, in order: the mouse-interaction container, the data-attribute
// container, any action container, then the structural parent.
const collectScript = `() => {
	const links = Array.from(document.querySelectorAll('a[href*="/maps/place/"]'));
	const out = links.map(link => {
		const container =
			link.closest('div[jsaction*="mouseover"]') ||
			link.closest('div[data-result-index], div[data-cid]') ||
			link.closest('div[jsaction]') ||
			link.parentElement;
		const entry = {
			href: link.href || link.getAttribute('href') || '',
			name: (link.getAttribute('aria-label') || '').trim(),
			heading: '',
			ratingLabel: '',
			ratingText: '',
			reviewsText: '',
			dataPid: link.dataset.pid || link.dataset.cid || '',
			spans: [],
			text: '',
			hasContainer: !!container
		};
		if (!container) return entry;
		if (!entry.dataPid) {
			const holder = link.closest('[data-pid], [data-cid]');
			if (holder) entry.dataPid = holder.dataset.pid || holder.dataset.cid || '';
		}
		const heading = container.querySelector('div[class*="fontHeadline"], .qBF1Pd');
		if (heading) entry.heading = heading.textContent.trim();
		const rating = container.querySelector('span[role="img"][aria-label], span[aria-label*="star"]');
		if (rating) entry.ratingLabel = (rating.getAttribute('aria-label') || '').trim();
		const ratingText = container.querySelector('span.MW4etd');
		if (ratingText) entry.ratingText = ratingText.textContent.trim();
		const reviews = container.querySelector('span.UY7F9');
		if (reviews) entry.reviewsText = reviews.textContent.trim();
		entry.spans = Array.from(container.querySelectorAll('div[class*="fontBody"] > span, .W4Efsd span'))
			.map(s => s.textContent.trim())
			.filter(s => s.length > 0);
		entry.text = container.innerText || '';
		return entry;
	});
	return JSON.stringify(out);
}`

// Collect snapshots the rendered listing set from the page.
func Collect(ctx context.Context, page *rod.Page) ([]Raw, error) {
	res, err := page.Context(ctx).Eval(collectScript)
	if err != nil {
		return nil, fmt.Errorf("listing: collect: %w", err)
	}
	var raws []Raw
	if err := json.Unmarshal([]byte(res.Value.Str()), &raws); err != nil {
		return nil, fmt.Errorf("listing: decode snapshot: %w", err)
	}
	return raws, nil
}
