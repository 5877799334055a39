package handler // handler defines http handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/activity-journal/internal/engine"
	"github.com/iliyamo/activity-journal/internal/repository"
	"github.com/iliyamo/activity-journal/internal/store"
)

// getUserID extracts the authenticated user id placed in context by
// the JWT middleware.
func getUserID(c echo.Context) (string, error) {
	if s, ok := c.Get("user_id").(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("missing user_id in context")
}

// writeError maps the error taxonomy onto HTTP statuses. NotFound and
// DuplicateOwnership are expected, actionable user errors and keep
// their human-readable messages; everything else (store failures,
// transaction conflicts that exhausted their retries) is a 500 with a
// generic body.
func writeError(c echo.Context, err error) error {
	var dup *engine.DuplicateOwnershipError
	switch {
	case errors.As(err, &dup):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": dup.Error()})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, store.ErrTxConflict):
		c.Logger().Errorf("store conflict: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store busy, try again"})
	default:
		c.Logger().Errorf("internal error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
