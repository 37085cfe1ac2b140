package searchperf

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Exports are read the way spreadsheet formulas and browsers read them: the
// longest numeric prefix wins and anything after it is ignored ("12abc" is 12).
var (
	floatPrefix = regexp.MustCompile(`^[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`)
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
)

// maxPosition caps absurd positions so they stay retained but never charted.
const maxPosition = math.MaxInt32

func trimLeadingSpace(value string) string {
	return strings.TrimLeftFunc(value, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}

// parseFloatPrefix reports false when value has no numeric prefix.
func parseFloatPrefix(value string) (float64, bool) {
	match := floatPrefix.FindString(trimLeadingSpace(value))
	if match == "" {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(match, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return parsed, true
}

// parseIntPrefix reports false when value has no integer prefix or overflows int64.
func parseIntPrefix(value string) (int64, bool) {
	match := intPrefix.FindString(trimLeadingSpace(value))
	if match == "" {
		return 0, false
	}
	parsed, err := strconv.ParseInt(match, 10, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

// ParseCTR reads a percentage such as "12,5%" or "3.2 %". Unparsable values are 0.
func ParseCTR(value string) float64 {
	cleaned := strings.ReplaceAll(value, "%", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	parsed, ok := parseFloatPrefix(cleaned)
	if !ok || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0
	}
	return parsed
}

// ParsePosition reads an average position such as "3,7" and floors it.
// Unparsable values are 0, which the retention filter drops.
func ParsePosition(value string) int {
	parsed, ok := parseFloatPrefix(strings.ReplaceAll(value, ",", "."))
	if !ok || math.IsNaN(parsed) {
		return 0
	}
	floored := math.Floor(parsed)
	switch {
	case floored >= maxPosition:
		return maxPosition
	case floored <= -maxPosition:
		return -maxPosition
	}
	return int(floored)
}

// ParseCount reads clicks or impressions. Both "." and "," are thousands
// separators, so "1.234" and "1,234" are both 1234. Unparsable, empty and
// negative values are 0.
func ParseCount(value string) int {
	cleaned := strings.ReplaceAll(value, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	parsed, ok := parseIntPrefix(cleaned)
	if !ok || parsed < 0 || parsed > math.MaxInt {
		return 0
	}
	return int(parsed)
}
