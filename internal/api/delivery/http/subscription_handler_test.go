package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"stock-research-api/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCheckRequest(target, bearer string) (*httptest.ResponseRecorder, echo.Context) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	return rec, e.NewContext(req, rec)
}

func TestCheckAcceptsQueryParamToken(t *testing.T) {
	subs := &fakeSubscriptionService{}
	handler := NewSubscriptionHandler(subs, logger.NewNop())

	rec, c := newCheckRequest("/api/subscription/check?idToken=valid-token", "")

	require.NoError(t, handler.Check(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, subs.checked, 1)
	assert.Equal(t, "valid-token", subs.checked[0])
}

func TestCheckFallsBackToBearerHeader(t *testing.T) {
	subs := &fakeSubscriptionService{}
	handler := NewSubscriptionHandler(subs, logger.NewNop())

	rec, c := newCheckRequest("/api/subscription/check", "header-token")

	require.NoError(t, handler.Check(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, subs.checked, 1)
	assert.Equal(t, "header-token", subs.checked[0])
}

func TestCheckRejectsMissingToken(t *testing.T) {
	subs := &fakeSubscriptionService{}
	handler := NewSubscriptionHandler(subs, logger.NewNop())

	rec, c := newCheckRequest("/api/subscription/check", "")

	require.NoError(t, handler.Check(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, subs.checked)
}
