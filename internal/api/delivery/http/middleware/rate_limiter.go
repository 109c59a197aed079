package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"stock-research-api/pkg/ratelimit"

	"github.com/labstack/echo/v4"
)

// ClientIP resolves the caller address for rate limiting. Proxy headers take
// precedence over the socket address; the first X-Forwarded-For entry is the
// original client.
func ClientIP(c echo.Context) string {
	if fwd := c.Request().Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.Index(fwd, ","); idx >= 0 {
			fwd = fwd[:idx]
		}
		if ip := strings.TrimSpace(fwd); ip != "" {
			return ip
		}
	}
	if ip := c.Request().Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if ip := c.RealIP(); ip != "" {
		return ip
	}
	return "unknown"
}

// RateLimit rejects requests beyond the per-IP window cap with 429 and a
// Retry-After header.
func RateLimit(limiter *ratelimit.WindowLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			result := limiter.Allow(ClientIP(c))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			if !result.Allowed {
				retryAfter := int(result.RetryAfter.Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error": "Too many requests, please try again later",
				})
			}
			return next(c)
		}
	}
}
