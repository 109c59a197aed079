package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"stock-research-api/internal/api/config"
	"stock-research-api/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinanceTicker(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"7203", "7203:TYO"},
		{"9984", "9984:TYO"},
		{"AAPL", "AAPL:NASDAQ"},
		{"MSFT", "MSFT:NASDAQ"},
		{"720", "720:NASDAQ"},
		{"72030", "72030:NASDAQ"},
		{"7203:TYO", "7203:TYO"},
		{"GOOGL:NASDAQ", "GOOGL:NASDAQ"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, financeTicker(tt.in), "query %q", tt.in)
	}
}

func TestIsAllDigits(t *testing.T) {
	assert.True(t, isAllDigits("7203"))
	assert.False(t, isAllDigits("72a3"))
	assert.False(t, isAllDigits(""))
}

func TestGetHitsSearchEndpointForBaseURLVariants(t *testing.T) {
	for _, suffix := range []string{"", "/", "/search.json"} {
		var gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.Write([]byte(`{"summary": {"title": "Toyota", "stock": "7203", "extracted_price": 2500}}`))
		}))

		cfg := &config.Config{}
		cfg.SerpAPI.APIKey = "test-key"
		cfg.SerpAPI.BaseURL = srv.URL + suffix
		repo := NewSerpAPIRepository(cfg, logger.NewNop())

		info, err := repo.GetCompanyInfo(context.Background(), "7203")
		srv.Close()

		require.NoError(t, err, "base url suffix %q", suffix)
		require.NotNil(t, info)
		assert.Equal(t, "/search.json", gotPath, "base url suffix %q", suffix)
		assert.Equal(t, "Toyota", info.Name)
	}
}
