package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/sanosuguru/go-event-summary-service/internal/config"
)

// RateLimiter はクライアントIPごとに TTL あたり Max リクエストまでに制限する
// Max が 0 以下なら制限しない
func RateLimiter(cfg config.RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Max <= 0 || cfg.TTL <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(cfg.Max) / cfg.TTL.Seconds()),
		Burst:     cfg.Max,
		ExpiresIn: max(cfg.TTL, 3*time.Minute),
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == MetricsPath
		},
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests")
		},
	})
}
