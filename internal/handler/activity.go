package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/activity-journal/internal/engine"
	"github.com/iliyamo/activity-journal/internal/model"
	"github.com/iliyamo/activity-journal/internal/queue"
	"github.com/iliyamo/activity-journal/internal/repository"
)

// ActivityHandler bundles the dependencies for activity endpoints.
type ActivityHandler struct {
	Activities *repository.ActivityRepo
	Engine     *engine.Engine
	Events     *queue.Publisher // nil when the broker is absent
}

// NewActivityHandler constructs an ActivityHandler and panics if a
// required dependency is nil. Events may be nil.
func NewActivityHandler(a *repository.ActivityRepo, e *engine.Engine, ev *queue.Publisher) *ActivityHandler {
	if a == nil || e == nil {
		panic("nil dependency passed to NewActivityHandler")
	}
	return &ActivityHandler{Activities: a, Engine: e, Events: ev}
}

type renameReq struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

type batchCreateReq struct {
	Activities []model.Activity `json:"activities"`
}

// List returns the user's activities after the enrichment join. The
// optional ?limit=N query keeps only the last N entries by date. The
// body is JSON null (not an empty object) when the user has no
// activity records, so clients can tell "no data" from "no matches".
func (h *ActivityHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	limit := 0
	if q := c.QueryParam("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "limit must be a non-negative integer"})
		}
		limit = n
	}
	enriched, err := h.Engine.GetActivities(c.Request().Context(), uid, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, enriched)
}

// Get returns one activity as stored. The derived category fields are
// a read-path projection of the collection listing; a single record
// fetch returns the raw document.
func (h *ActivityHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	a, err := h.Activities.Get(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// Create stores one activity and returns its generated id.
func (h *ActivityHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var a model.Activity
	if err := c.Bind(&a); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := a.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	id, err := h.Activities.Create(c.Request().Context(), uid, a)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// CreateBatch stores several activities in one atomic write and
// returns the generated ids in input order.
func (h *ActivityHandler) CreateBatch(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req batchCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.Activities) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "activities must not be empty"})
	}
	for i, a := range req.Activities {
		if err := a.Validate(); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": fmt.Sprintf("activity %d: %v", i, err)})
		}
	}
	ids, err := h.Activities.CreateBatch(c.Request().Context(), uid, req.Activities)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"ids": ids})
}

// Update fully replaces one activity.
func (h *ActivityHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var a model.Activity
	if err := c.Bind(&a); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := a.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Activities.Update(c.Request().Context(), uid, c.Param("id"), a); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes one activity.
func (h *ActivityHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.Activities.Delete(c.Request().Context(), uid, c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteAll removes every activity of the user.
func (h *ActivityHandler) DeleteAll(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	n, err := h.Activities.DeleteAll(c.Request().Context(), uid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": n})
}

// Rename renames every activity with the old name, then updates the
// category membership lists to match. The two writes are independent
// single-collection updates; a crash in between leaves activities
// renamed and lists stale, and re-running the rename converges.
func (h *ActivityHandler) Rename(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req renameReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.OldName == "" || req.NewName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "old_name and new_name are required"})
	}
	if len(req.NewName) > model.MaxNameLen {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": fmt.Sprintf("new_name exceeds %d characters", model.MaxNameLen)})
	}
	ctx := c.Request().Context()
	n, err := h.Engine.BulkRenameActivities(ctx, uid, req.OldName, req.NewName)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.Engine.RenameInCategoryLists(ctx, uid, req.OldName, req.NewName); err != nil {
		return writeError(c, err)
	}
	h.Events.PublishBulkOperation(ctx, queue.BulkOperationEvent{
		UserID: uid,
		Op:     queue.OpRename,
		Detail: fmt.Sprintf("%q -> %q", req.OldName, req.NewName),
		Count:  n,
	})
	return c.JSON(http.StatusOK, echo.Map{"renamed": n})
}
