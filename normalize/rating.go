package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	ratingNumRe = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
	nonDigitRe  = regexp.MustCompile(`\D`)
)

// Rating parses a rating from rendered text ("4.6", "4,6 stars",
// "4.6 stars 120 reviews") and normalizes it into [0.0, 5.0] rounded to one
// decimal place. Absent or unparsable input yields 0.
func Rating(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	num := ratingNumRe.FindString(text)
	if num == "" {
		return 0
	}
	num = strings.ReplaceAll(num, ",", ".")
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	return RatingValue(v)
}

// RatingValue clamps a rating into [0.0, 5.0] and rounds to one decimal
// place. It is idempotent: RatingValue(RatingValue(x)) == RatingValue(x).
func RatingValue(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 5 {
		return 5
	}
	return math.Round(v*10) / 10
}

// ReviewCount parses a review count, stripping comma and parenthesis
// formatting ("(1,234)" → 1234). Negative or unparsable input yields 0.
func ReviewCount(text string) int {
	cleaned := nonDigitRe.ReplaceAllString(text, "")
	if cleaned == "" {
		return 0
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
