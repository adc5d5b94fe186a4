package listing

import (
	"regexp"
	"strings"

	"github.com/FuturizeRush/google-maps-scraper-apify/normalize"
)

var reviewParenRe = regexp.MustCompile(`\(([\d,.]+)\)`)

// firstRating resolves the rating across candidate locations in order:
// the ARIA-labelled rating element, then visible rating text.
func firstRating(candidates ...string) float64 {
	for _, c := range candidates {
		if v := normalize.Rating(c); v > 0 {
			return v
		}
	}
	return 0
}

// firstReviewCount resolves the review count from the first candidate
// containing a parenthetical count pattern.
func firstReviewCount(candidates ...string) int {
	for _, c := range candidates {
		if m := reviewParenRe.FindStringSubmatch(c); m != nil {
			if n := normalize.ReviewCount(m[1]); n > 0 {
				return n
			}
		}
	}
	return 0
}

// typeFromSpans walks the detail spans front-to-back: the business type
// renders before the address in the container.
func typeFromSpans(spans []string) string {
	for _, s := range spans {
		if t := normalize.BusinessType(s); t != "" {
			return t
		}
	}
	return ""
}

// addressFromSpans walks back-to-front: the address renders last among the
// detail spans, after type and price.
func addressFromSpans(spans []string) string {
	for i := len(spans) - 1; i >= 0; i-- {
		s := spans[i]
		// Hours text sits near the address; a span that leads with an
		// open/closed status is never the address.
		if a := normalize.Address(s); a != "" && !looksLikeHours(a) {
			return a
		}
	}
	return ""
}

var hoursExtraRe = regexp.MustCompile(`(?i)\b(am|pm|hours|24/7)\b`)

func looksLikeHours(s string) bool {
	return hoursExtraRe.MatchString(s) && strings.ContainsAny(s, "0123456789")
}

// priceFromSpans picks the first span that is a genuine repeated-symbol
// price level.
func priceFromSpans(spans []string) string {
	for _, s := range spans {
		if p := normalize.PriceLevel(s); p != "" {
			return p
		}
	}
	return ""
}
