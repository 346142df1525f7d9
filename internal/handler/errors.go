package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-records/internal/service"
)

// writeError maps service errors onto HTTP responses.  Anything that is not
// a client error is logged and reported as a 500 without details.
func writeError(c echo.Context, err error) error {
	var (
		verr     *service.ValidationError
		notFound *service.NotFoundError
		conflict *service.ConflictError
	)
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "Invalid data", "details": verr.Fields})
	case errors.As(err, &notFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": notFound.Error()})
	case errors.As(err, &conflict):
		return c.JSON(http.StatusConflict, map[string]string{"error": conflict.Message})
	}
	c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}
