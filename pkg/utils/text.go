package utils

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ToHalfWidth converts full-width Latin letters, digits, colon and spaces to
// their half-width (ASCII) equivalents. Other runes pass through unchanged.
func ToHalfWidth(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '　': // full-width space (U+3000)
			b.WriteRune(' ')
		case r >= '！' && r <= '～': // full-width ASCII block (U+FF01..U+FF5E)
			b.WriteRune(r - 0xFEE0)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// isJapaneseRune reports whether r belongs to the Japanese script ranges kept
// by NormalizeQuery: hiragana, katakana, CJK ideographs and half/full-width forms.
func isJapaneseRune(r rune) bool {
	return (r >= 0x3040 && r <= 0x309F) || // hiragana
		(r >= 0x30A0 && r <= 0x30FF) || // katakana
		(r >= 0x4E00 && r <= 0x9FFF) || // CJK unified ideographs
		(r >= 0xFF00 && r <= 0xFFEF) // half/full-width forms
}

// NormalizeQuery sanitizes a user search query so it is safe to pass to a
// provider ticker parameter: width-normalized, whitespace removed, and limited
// to alphanumerics, colon and Japanese script characters.
func NormalizeQuery(s string) string {
	s = ToHalfWidth(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == ':' || isJapaneseRune(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// toFloat coerces numeric and numeric-string input into a float64.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		trimmed := strings.TrimSpace(n)
		if trimmed == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.ReplaceAll(trimmed, ",", ""), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// FormatNumber formats a number or numeric string for display. With compact
// enabled, values collapse to K/M/B/T suffixes. Anything non-numeric yields "N/A".
func FormatNumber(v interface{}, compact bool) string {
	f, ok := toFloat(v)
	if !ok {
		return "N/A"
	}
	if compact {
		abs := f
		if abs < 0 {
			abs = -abs
		}
		switch {
		case abs >= 1e12:
			return trimZero(f/1e12) + "T"
		case abs >= 1e9:
			return trimZero(f/1e9) + "B"
		case abs >= 1e6:
			return trimZero(f/1e6) + "M"
		case abs >= 1e3:
			return trimZero(f/1e3) + "K"
		}
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func trimZero(f float64) string {
	s := fmt.Sprintf("%.1f", f)
	s = strings.TrimSuffix(s, ".0")
	return s
}

// FormatPercentage formats a number as a fixed two-decimal percentage string.
func FormatPercentage(v interface{}) string {
	f, ok := toFloat(v)
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", f)
}

// FormatMarketCap formats a market capitalization value compactly.
func FormatMarketCap(v interface{}) string {
	return FormatNumber(v, true)
}
