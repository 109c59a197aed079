package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeNumber(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"plain integer", "1234", 1234},
		{"thousands separators", "1,234,567", 1234567},
		{"oku yen", "1.2億円", 120000000},
		{"million yen", "5百万円", 5000000},
		{"man yen", "3万円", 30000},
		{"man shares", "2.5万株", 25000},
		{"shares with separator", "3,500株", 3500},
		{"percent sign", "1.85%", 1.85},
		{"full width percent", "２．５％", 2.5},
		{"signed positive", "+120", 120},
		{"signed negative", "-45.5", -45.5},
		{"full width digits", "７２０３", 7203},
		{"empty", "", 0},
		{"garbage", "abc", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, NormalizeNumber(tt.in), 1e-9)
		})
	}
}
