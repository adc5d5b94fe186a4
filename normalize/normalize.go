// Package normalize provides locale-aware cleaning of business fields
// scraped from rendered map listings: ratings, review counts, addresses,
// phone numbers, opening hours, price levels, and business types.
//
// All functions are pure. Inputs are whatever text the extraction layer
// found; outputs are either a cleaned value or the zero value when the
// input is noise. The exclusion patterns here are the single source of
// truth for "rating/price/status text must never leak into an address or
// category".
package normalize

import (
	"regexp"
	"strings"
)

// Exclusion patterns. A span matching one of these is rating, review-count,
// price, or open/closed status noise and never an address or category.
var (
	ratingShapeRe  = regexp.MustCompile(`^[\d.]+\s*\(\d[\d,.]*\)$`)
	decimalRe      = regexp.MustCompile(`^\d\.\d$`)
	reviewParenRe  = regexp.MustCompile(`^\([\d,.]+\)$`)
	currencyRe     = regexp.MustCompile(`^[$€£¥₩]{1}\s?[\d,.]+([\s–-][$€£¥₩]?[\d,.]+)?$`)
	priceLevelRe   = regexp.MustCompile(`^(?:\${1,4}|€{1,4}|£{1,4}|¥{1,4}|₩{1,4})$`)
	openStatusRe   = regexp.MustCompile(`(?i)^(open|opens|closed|closes|temporarily closed|permanently closed)\b`)
	wsRe           = regexp.MustCompile(`\s+`)
	leadingSepRe   = regexp.MustCompile(`^[·•\-–|\s]+`)
)

// chromeLabels are interface strings that share styling with category
// labels on the detail view and must never be mistaken for one.
var chromeLabels = map[string]bool{
	"collapse side panel": true,
	"expand side panel":   true,
	"back":                true,
	"share":               true,
	"save":                true,
	"nearby":              true,
	"send to phone":       true,
	"directions":          true,
	"overview":            true,
	"reviews":             true,
	"about":               true,
}

// IsNoise reports whether a span is rating, review, price, or status text.
func IsNoise(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	return ratingShapeRe.MatchString(s) ||
		decimalRe.MatchString(s) ||
		reviewParenRe.MatchString(s) ||
		currencyRe.MatchString(s) ||
		priceLevelRe.MatchString(s) ||
		openStatusRe.MatchString(s)
}

// Address cleans a candidate address span. Rating-shaped, price-shaped and
// open/closed text yields an empty string; otherwise separators and
// duplicate whitespace are stripped.
func Address(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || IsNoise(s) {
		return ""
	}
	s = leadingSepRe.ReplaceAllString(s, "")
	s = wsRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// BusinessType cleans a candidate category span. Long text, noise spans and
// interface chrome labels are rejected.
func BusinessType(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || IsNoise(s) {
		return ""
	}
	if chromeLabels[strings.ToLower(s)] {
		return ""
	}
	// Categories are short labels; anything longer is a description or an
	// address fragment that slipped through.
	if len([]rune(s)) > 40 || strings.ContainsAny(s, ",\n") {
		return ""
	}
	s = leadingSepRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// PriceLevel accepts only genuinely repeated single-symbol sequences
// ("$", "$$", "¥¥¥") and rejects literal prices like "$12" or "$10–20".
func PriceLevel(s string) string {
	s = strings.TrimSpace(s)
	if priceLevelRe.MatchString(s) {
		return s
	}
	return ""
}
