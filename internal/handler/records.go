package handler // handler package contains the HTTP handlers for every record collection

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-records/internal/repository"
)

// Records is the service surface a RecordHandler needs.  It is satisfied
// by *service.Resource for every entity.
type Records[R any] interface {
	Table() *repository.Table
	List(ctx context.Context) ([]R, error)
	ListBy(ctx context.Context, filter repository.Row) ([]R, error)
	Get(ctx context.Context, key repository.Row) (R, error)
	Create(ctx context.Context, body []byte) (R, error)
	Update(ctx context.Context, key repository.Row, body []byte) (R, error)
	Delete(ctx context.Context, key repository.Row) error
}

// RecordHandler exposes list, get, create, update and delete for one
// collection.  Items are addressed by their primary key columns in path
// order, e.g. /purchases/:att_id/:tic_id.
type RecordHandler[R any] struct {
	svc Records[R]
}

// NewRecordHandler wraps a service resource.
func NewRecordHandler[R any](svc Records[R]) *RecordHandler[R] {
	return &RecordHandler[R]{svc: svc}
}

// ItemPath returns the route suffix addressing a single record.
func (h *RecordHandler[R]) ItemPath() string {
	return "/:" + strings.Join(h.svc.Table().Key, "/:")
}

// List handles GET /{collection}.
func (h *RecordHandler[R]) List(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// ListBy returns a handler listing the records whose column equals the
// path parameter of the same name.
func (h *RecordHandler[R]) ListBy(column string) echo.HandlerFunc {
	return func(c echo.Context) error {
		v, err := strconv.ParseInt(c.Param(column), 10, 64) // lookups only match integer columns
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid " + column})
		}
		items, err := h.svc.ListBy(c.Request().Context(), repository.Row{column: v})
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, items)
	}
}

// Get handles GET /{collection}/{key}.
func (h *RecordHandler[R]) Get(c echo.Context) error {
	key, err := h.key(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	item, err := h.svc.Get(c.Request().Context(), key)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// Create handles POST /{collection}.
func (h *RecordHandler[R]) Create(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	item, err := h.svc.Create(c.Request().Context(), body)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

// Update handles PUT and PATCH /{collection}/{key}.  Both apply only the
// fields present in the body.
func (h *RecordHandler[R]) Update(c echo.Context) error {
	key, err := h.key(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	item, err := h.svc.Update(c.Request().Context(), key, body)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// Delete handles DELETE /{collection}/{key}.
func (h *RecordHandler[R]) Delete(c echo.Context) error {
	key, err := h.key(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if err := h.svc.Delete(c.Request().Context(), key); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": h.svc.Table().Label + " deleted"})
}

// key parses the primary key columns from the path.
func (h *RecordHandler[R]) key(c echo.Context) (repository.Row, error) {
	t := h.svc.Table()
	key := make(repository.Row, len(t.Key))
	for _, col := range t.Key {
		v, err := strconv.ParseInt(c.Param(col), 10, 64)
		if err != nil {
			return nil, &paramError{name: col}
		}
		key[col] = v
	}
	return key, nil
}

type paramError struct{ name string }

func (e *paramError) Error() string { return "invalid " + e.name }
