package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"authcore/internal/cache"
	"authcore/internal/errors"
)

// RateLimit applies a fixed-window counter per client IP and route, backed by
// Redis. The cache client fails open, so an unreachable Redis disables
// throttling instead of rejecting requests. Intended for the credential
// endpoints (login, forgot-password) to slow down guessing.
func RateLimit(store *cache.Client, limit int64, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := "ratelimit:" + c.Path() + ":" + c.RealIP()

			count, err := store.Incr(c.Request().Context(), key, window)
			if err != nil || count == 0 {
				return next(c)
			}
			if count > limit {
				return errors.New(http.StatusTooManyRequests, "Too many requests, please try again later")
			}
			return next(c)
		}
	}
}
