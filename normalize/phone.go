package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// phonePatterns are tried in order: parenthesized area codes first, then
// the general separator-tolerant form.
var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\(\d{1,4}\)[-.\s]?\d{1,4}(?:[-.\s]?\d{1,4}){1,3}`),
	regexp.MustCompile(`\+?\d{1,4}(?:[-.\s]?\d{1,4}){1,5}`),
}

// priceRangeRe matches digit ranges that look like prices ("10–20",
// "100-200") which the general pattern would otherwise accept.
var priceRangeRe = regexp.MustCompile(`^\d{1,4}\s*[–-]\s*\d{1,4}$`)

// Phone extracts the first plausible phone number from flattened container
// text. Candidates whose digit count falls outside 7–15, that resemble
// price ranges or years, or that are a single repeated digit are rejected.
func Phone(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if lower := strings.ToLower(text); strings.HasPrefix(lower, "tel:") {
		text = text[4:]
	}
	for _, re := range phonePatterns {
		for _, m := range re.FindAllString(text, -1) {
			m = strings.TrimSpace(m)
			if priceRangeRe.MatchString(m) {
				continue
			}
			digits := nonDigitRe.ReplaceAllString(m, "")
			if len(digits) < 7 || len(digits) > 15 {
				continue
			}
			if looksLikeYear(digits) || allSameDigit(digits) {
				continue
			}
			return m
		}
	}
	return ""
}

func looksLikeYear(digits string) bool {
	if len(digits) != 8 {
		return false
	}
	year, err := strconv.Atoi(digits[:4])
	if err != nil {
		return false
	}
	return year >= 1900 && year <= 2100
}

func allSameDigit(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}
