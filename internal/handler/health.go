package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Pinger is implemented by repository.Store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports whether the service can reach its store.  Load balancers
// and monitoring poll it; it returns "ok" with 200, or 503 when the ping
// fails.
func Health(store Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := store.Ping(c.Request().Context()); err != nil {
			c.Logger().Warnf("health: store ping failed: %v", err)
			return c.String(http.StatusServiceUnavailable, "store unavailable")
		}
		return c.String(http.StatusOK, "ok")
	}
}
