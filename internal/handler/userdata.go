package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/activity-journal/internal/model"
	"github.com/iliyamo/activity-journal/internal/queue"
	"github.com/iliyamo/activity-journal/internal/repository"
)

// UserDataHandler serves the export/import aggregate.
type UserDataHandler struct {
	UserData *repository.UserDataRepo
	Events   *queue.Publisher // nil when the broker is absent
}

// NewUserDataHandler constructs a UserDataHandler. Events may be nil.
func NewUserDataHandler(r *repository.UserDataRepo, ev *queue.Publisher) *UserDataHandler {
	if r == nil {
		panic("nil repository passed to NewUserDataHandler")
	}
	return &UserDataHandler{UserData: r, Events: ev}
}

// Get exports the user's complete data set.
func (h *UserDataHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	data, err := h.UserData.GetUserData(c.Request().Context(), uid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, data)
}

// Put replaces the user's complete data set with the supplied import.
// The facade does not re-run the enrichment join or repair ownership;
// the importer owns the consistency of what it uploads.
func (h *UserDataHandler) Put(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var data model.UserData
	if err := c.Bind(&data); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx := c.Request().Context()
	if err := h.UserData.SetUserData(ctx, uid, data); err != nil {
		return writeError(c, err)
	}
	h.Events.PublishBulkOperation(ctx, queue.BulkOperationEvent{
		UserID: uid,
		Op:     queue.OpImport,
		Detail: fmt.Sprintf("%d activities, %d categories", len(data.Activities), len(data.Categories)),
		Count:  len(data.Activities),
	})
	return c.NoContent(http.StatusNoContent)
}
