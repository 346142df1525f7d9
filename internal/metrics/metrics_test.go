package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-records/internal/queue"
)

func TestMiddlewareAndMutations(t *testing.T) {
	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/venues/:vn_id", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	for _, path := range []string{"/venues/1", "/venues/2"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}
	if err := m.Notify(context.Background(), queue.RecordChangedEvent{Collection: "venue", Action: queue.ActionCreated}); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{
		`http_requests_total{method="GET",route="/venues/:vn_id",status="200"} 2`,
		`record_mutations_total{action="created",collection="venue"} 1`,
		`http_request_duration_seconds_count{method="GET",route="/venues/:vn_id"} 2`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output lacks %q", want)
		}
	}
}
