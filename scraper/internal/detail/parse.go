package detail

import (
	"net/url"
	"strings"

	"github.com/FuturizeRush/google-maps-scraper-apify/normalize"
	"github.com/FuturizeRush/google-maps-scraper-apify/scraper/record"
)

// Apply merges a detail snapshot into a listing-level record. Detail values
// win over listing values when present; a miss leaves the listing value in
// place. Pure, no I/O.
func Apply(b *record.Business, raw Raw, locale string) {
	if addr := addressFrom(raw, locale); addr != "" {
		b.Address = addr
	}
	if phone := normalize.Phone(raw.Phone); phone != "" {
		b.Phone = phone
	}
	if site := websiteFrom(raw.Website); site != "" {
		b.Website = site
	}
	if price := priceFrom(raw.PriceText, raw.PriceContext); price != "" {
		b.PriceLevel = price
	}
	if cat := normalize.BusinessType(raw.Category); cat != "" {
		b.BusinessType = cat
	}
	applyHours(b, raw)
}

// addressFrom prefers the control's accessible label over its visible text,
// then applies locale postal rules before the generic cleaner.
func addressFrom(raw Raw, locale string) string {
	addr := stripLabelPrefix(raw.AddressLabel)
	if addr == "" {
		addr = raw.Address
	}
	return normalize.PostalAddress(addr, locale)
}

// stripLabelPrefix removes an "Address: " style label prefix from an
// accessible description.
func stripLabelPrefix(label string) string {
	label = strings.TrimSpace(label)
	if i := strings.Index(label, ": "); i >= 0 {
		return strings.TrimSpace(label[i+2:])
	}
	return label
}

// websiteFrom unwraps platform redirect links and drops in-platform URLs;
// the harvester only ever visits external sites.
func websiteFrom(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if strings.HasSuffix(u.Host, "google.com") {
		if q := u.Query().Get("q"); q != "" {
			return q
		}
		return ""
	}
	return href
}

// priceFrom resolves a price level only from a genuine repeated-symbol run.
// Literal amounts ("$10–20") never match the pure-run pattern, so scanning
// tokens of the label and its surrounding context is safe.
func priceFrom(priceText, contextText string) string {
	for _, source := range []string{stripLabelPrefix(priceText), priceText, contextText} {
		for _, tok := range strings.Fields(source) {
			tok = strings.Trim(tok, ".,;:()")
			if p := normalize.PriceLevel(tok); p != "" {
				return p
			}
		}
	}
	return ""
}

// applyHours prefers the structured weekly table; when expansion failed or
// the table is absent, whatever compact text was visible is kept for
// diagnostics without fabricating per-day entries.
func applyHours(b *record.Business, raw Raw) {
	if len(raw.HoursRows) > 0 {
		if hours := normalize.Hours(raw.HoursRows); len(hours) > 0 {
			b.Hours = hours
			b.HoursRaw = raw.HoursRows
			return
		}
	}
	if compact := strings.TrimSpace(raw.HoursCompact); compact != "" {
		if b.HoursRaw == nil {
			b.HoursRaw = make(map[string]string, 1)
		}
		b.HoursRaw["compact"] = compact
	}
}
