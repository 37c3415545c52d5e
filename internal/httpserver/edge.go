package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/Skotchmaster/artshop/internal/apperr"
	"github.com/Skotchmaster/artshop/pkg/logging"
)

// CORS admits requests without an Origin header and any origin that contains
// one of the configured fragments. Everything else gets 403.
func CORS(fragments []string) echo.MiddlewareFunc {
	return echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOriginFunc: func(origin string) (bool, error) {
			if origin == "" {
				return true, nil
			}
			for _, f := range fragments {
				if f != "" && strings.Contains(origin, f) {
					return true, nil
				}
			}
			return false, apperr.New(apperr.Forbidden, "request denied")
		},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	})
}

// RateLimit allows limit requests per client IP, refilling over window.
// A non-positive limit disables it.
func RateLimit(limit int, window time.Duration) echo.MiddlewareFunc {
	if limit <= 0 || window <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Every(window / time.Duration(limit)),
		Burst:     limit,
		ExpiresIn: window,
	})

	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			logging.FromContext(c.Request().Context()).Warn("rate_limited", "ip", identifier)
			return echo.NewHTTPError(http.StatusTooManyRequests)
		},
	})
}
