package server

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	apperrors "github.com/saisujan42/Live-Polling-System/internal/platform/errors"
	"golang.org/x/time/rate"
)

// Idle visitors are dropped from the store after this long.
const loginLimiterExpiry = 5 * time.Minute

// newLoginLimiter throttles presenter logins per client IP. Denials surface as
// rate_limited errors so they share the JSON error shape of every other route.
func newLoginLimiter(ratePerSecond float64, burst int) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(ratePerSecond),
		Burst:     burst,
		ExpiresIn: loginLimiterExpiry,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return apperrors.ValidationError("client address unavailable")
		},
		DenyHandler: func(c echo.Context, ip string, err error) error {
			slog.WarnContext(c.Request().Context(), "Login rate limit exceeded", "ip", ip, "route", c.Path())
			return apperrors.RateLimitedError("too many login attempts").WithField("ip", ip)
		},
	})
}
