package utils

import (
	"strconv"
	"strings"
)

// unit multipliers for Japanese financial notation. Detection happens on the
// raw text before glyphs are stripped.
var unitMultipliers = []struct {
	unit       string
	multiplier float64
}{
	{"億", 1e8},
	{"百万円", 1e6},
	{"万円", 1e4},
	{"万株", 1e4},
}

// NormalizeNumber parses a locale-formatted numeric string as scraped from a
// Japanese ranking page: thousands separators and currency/unit glyphs are
// stripped, then the multiplier implied by the original unit glyph is applied.
// Unparsable input yields 0.
func NormalizeNumber(raw string) float64 {
	raw = ToHalfWidth(strings.TrimSpace(raw))
	if raw == "" {
		return 0
	}

	multiplier := 1.0
	for _, u := range unitMultipliers {
		if strings.Contains(raw, u.unit) {
			multiplier = u.multiplier
			break
		}
	}

	cleaned := raw
	for _, glyph := range []string{",", "円", "株", "％", "%", "億", "百万", "万", "+", " "} {
		cleaned = strings.ReplaceAll(cleaned, glyph, "")
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return f * multiplier
}
