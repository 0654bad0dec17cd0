package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// TimeoutConfig configures RequestTimeout.
type TimeoutConfig struct {
	Timeout time.Duration
	// Skipper exempts routes that bound their own work, such as /health/db.
	Skipper func(echo.Context) bool
}

// RequestTimeout puts a deadline on each request context. A handler still
// running at the deadline gets a 504; the handler keeps its goroutine until
// it notices the cancelled context. A zero Timeout disables the middleware.
func RequestTimeout(cfg TimeoutConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if cfg.Timeout <= 0 {
			return next
		}
		return func(c echo.Context) error {
			if cfg.Skipper != nil && cfg.Skipper(c) {
				return next(c)
			}
			ctx, cancel := context.WithTimeout(c.Request().Context(), cfg.Timeout)
			defer cancel()
			c.SetRequest(c.Request().WithContext(ctx))

			done := make(chan error, 1)
			go func() {
				done <- next(c)
			}()

			select {
			case err := <-done:
				return err
			case <-ctx.Done():
				if errors.Is(ctx.Err(), context.DeadlineExceeded) {
					return echo.NewHTTPError(http.StatusGatewayTimeout, "request timed out")
				}
				// client went away
				return ctx.Err()
			}
		}
	}
}
