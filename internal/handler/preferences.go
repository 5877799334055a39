package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/activity-journal/internal/model"
	"github.com/iliyamo/activity-journal/internal/repository"
)

// PreferencesHandler serves the per-user preferences document.
type PreferencesHandler struct {
	Preferences *repository.PreferenceRepo
}

// NewPreferencesHandler constructs a PreferencesHandler.
func NewPreferencesHandler(p *repository.PreferenceRepo) *PreferencesHandler {
	if p == nil {
		panic("nil repository passed to NewPreferencesHandler")
	}
	return &PreferencesHandler{Preferences: p}
}

// Get returns the user's preferences with defaults applied.
func (h *PreferencesHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	p, err := h.Preferences.Get(c.Request().Context(), uid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Put replaces the user's preferences.
func (h *PreferencesHandler) Put(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var p model.Preferences
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Preferences.Set(c.Request().Context(), uid, p); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
