package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHalfWidth(t *testing.T) {
	assert.Equal(t, "7203", ToHalfWidth("７２０３"))
	assert.Equal(t, "AB CD", ToHalfWidth("ＡＢ　ＣＤ"))
	assert.Equal(t, "トヨタ", ToHalfWidth("トヨタ"))
	assert.Equal(t, "", ToHalfWidth(""))
}

func TestNormalizeQuery(t *testing.T) {
	assert.Equal(t, "7203", NormalizeQuery("  ７２０３  "))
	assert.Equal(t, "トヨタ自動車", NormalizeQuery("トヨタ 自動車"))
	assert.Equal(t, "AAPL:NASDAQ", NormalizeQuery("AAPL:NASDAQ"))
	assert.Equal(t, "abc123", NormalizeQuery("abc@#$123!"))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1234", FormatNumber(1234.0, false))
	assert.Equal(t, "1.2K", FormatNumber(1234.0, true))
	assert.Equal(t, "2.5M", FormatNumber(2500000.0, true))
	assert.Equal(t, "3B", FormatNumber(3e9, true))
	assert.Equal(t, "1.5T", FormatNumber(1.5e12, true))
	assert.Equal(t, "1234", FormatNumber("1,234", false))
	assert.Equal(t, "N/A", FormatNumber("not a number", false))
	assert.Equal(t, "N/A", FormatNumber(nil, true))
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "1.23%", FormatPercentage(1.234))
	assert.Equal(t, "-0.50%", FormatPercentage(-0.5))
	assert.Equal(t, "N/A", FormatPercentage("x"))
}
