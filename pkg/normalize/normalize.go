// Package normalize turns the display text of a search result into numbers
// for sorting and catalog views. The search result itself keeps the raw text.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const DefaultRating = 4.0

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// leadingFloat parses the longest numeric prefix of s, so "4.5 out of 5"
// reads as 4.5.
func leadingFloat(s string) (float64, bool) {
	match := leadingNumber.FindString(strings.TrimSpace(s))
	if match == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(match, 64)
	if err != nil || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

// Price keeps digits and dots and parses the leading number of the rest, so
// "$1,299.00" becomes 1299. Anything unparsable is 0.
func Price(raw *string) float64 {
	if raw == nil || *raw == "" {
		return 0
	}

	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, *raw)

	val, ok := leadingFloat(cleaned)
	if !ok {
		return 0
	}
	return val
}

// Rating parses a rating on a 0-5 scale. Missing, unparsable and
// out-of-scale values fall back to DefaultRating.
func Rating(raw *string) float64 {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return DefaultRating
	}

	val, ok := leadingFloat(*raw)
	if !ok || val > 5 {
		return DefaultRating
	}
	return val
}
