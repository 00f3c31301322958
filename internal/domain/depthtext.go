package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// Depth legend patterns, checked in priority order. The bounded range must
// win over the single-magnitude fallback, which would otherwise match the
// first number of any legend.
var (
	// "tussen 0,5 en 1,0 meter" / "0,5 tot 1,0 m" / "0,5 - 1,0 m"
	depthBetweenRe = regexp.MustCompile(`(?i)tussen\s+(\d+(?:[.,]\d+)?)\s+en\s+(\d+(?:[.,]\d+)?)`)
	depthRangeRe   = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(?:tot|-)\s*(\d+(?:[.,]\d+)?)\s*m`)

	// "meer dan 2,0 meter" / "dieper dan 2 m"
	// The leading \b keeps "ondieper dan" out of the lower-bound branch.
	depthMoreThanRe = regexp.MustCompile(`(?i)\b(?:meer|groter|dieper)\s+dan\s+(\d+(?:[.,]\d+)?)`)

	// "minder dan 0,5 meter" / "ondieper dan 0,5 m"
	depthLessThanRe = regexp.MustCompile(`(?i)(?:minder|kleiner|ondieper)\s+dan\s+(\d+(?:[.,]\d+)?)`)

	// bare magnitude with a meter unit: "1,5 m" / "2 meter"
	depthBareRe = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*m(?:eter)?\b`)
)

// moreThanSpan is the assumed width in meters of an open-ended
// "meer dan X" legend when deriving its upper bound.
const moreThanSpan = 2.0

// ParseDepth extracts a depth range in meters from a Dutch legend string.
// It returns nil when no pattern matches; callers treat nil as unknown
// depth risk, never as an error, because legend wording varies upstream.
func ParseDepth(text string) *DepthRange {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if m := depthBetweenRe.FindStringSubmatch(text); m != nil {
		return boundedRange(m[1], m[2])
	}
	if m := depthRangeRe.FindStringSubmatch(text); m != nil {
		return boundedRange(m[1], m[2])
	}
	if m := depthMoreThanRe.FindStringSubmatch(text); m != nil {
		v, ok := parseLocaleFloat(m[1])
		if !ok {
			return nil
		}
		return &DepthRange{Min: v, Max: v + moreThanSpan}
	}
	if m := depthLessThanRe.FindStringSubmatch(text); m != nil {
		v, ok := parseLocaleFloat(m[1])
		if !ok {
			return nil
		}
		return &DepthRange{Min: 0, Max: v}
	}
	if m := depthBareRe.FindStringSubmatch(text); m != nil {
		v, ok := parseLocaleFloat(m[1])
		if !ok {
			return nil
		}
		return &DepthRange{Min: v, Max: v}
	}

	return nil
}

// boundedRange builds a range from two locale-formatted numbers, swapping
// reversed bounds so Min ≤ Max always holds.
func boundedRange(lo, hi string) *DepthRange {
	a, aok := parseLocaleFloat(lo)
	b, bok := parseLocaleFloat(hi)
	if !aok || !bok {
		return nil
	}
	if a > b {
		a, b = b, a
	}
	return &DepthRange{Min: a, Max: b}
}

// parseLocaleFloat parses a number that may use the Dutch comma decimal
// separator.
func parseLocaleFloat(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
