package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/activity-journal/internal/engine"
	"github.com/iliyamo/activity-journal/internal/model"
	"github.com/iliyamo/activity-journal/internal/queue"
	"github.com/iliyamo/activity-journal/internal/repository"
)

// CategoryHandler bundles the dependencies for category endpoints,
// including the bulk operations that keep the membership lists and the
// activity records consistent.
type CategoryHandler struct {
	Categories *repository.CategoryRepo
	Engine     *engine.Engine
	Events     *queue.Publisher // nil when the broker is absent
}

// NewCategoryHandler constructs a CategoryHandler and panics if a
// required dependency is nil. Events may be nil.
func NewCategoryHandler(r *repository.CategoryRepo, e *engine.Engine, ev *queue.Publisher) *CategoryHandler {
	if r == nil || e == nil {
		panic("nil dependency passed to NewCategoryHandler")
	}
	return &CategoryHandler{Categories: r, Engine: e, Events: ev}
}

type addNameReq struct {
	Name string `json:"name"`
}

type assignReq struct {
	ActivityName string `json:"activity_name"`
}

type reassignReq struct {
	ToCategoryID string `json:"to_category_id"`
}

// List returns every category keyed by id.
func (h *CategoryHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	cats, err := h.Categories.List(c.Request().Context(), uid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cats)
}

// Get returns one category.
func (h *CategoryHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	cat, err := h.Categories.Get(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cat)
}

// Create stores a new category and returns its generated id.
func (h *CategoryHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var cat model.Category
	if err := c.Bind(&cat); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := cat.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	id, err := h.Categories.Create(c.Request().Context(), uid, cat)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Update fully replaces one category, membership list included. This
// is the direct-edit path that can introduce duplicate ownership; the
// read join tolerates duplicates, so no repair happens here.
func (h *CategoryHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var cat model.Category
	if err := c.Bind(&cat); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := cat.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Categories.Update(c.Request().Context(), uid, c.Param("id"), cat); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes a category. The optional cascade query parameter
// controls what happens to its activities first:
//
//	cascade=delete         – delete every member activity
//	cascade=reassign:<id>  – move the membership list to category <id>
//	(absent)               – delete the record only; member activities
//	                         become orphans (visible, uncategorized)
//
// The cascade step and the record delete are independent atomic
// writes; a failure in between leaves the cascade applied and the
// category present, and retrying the delete converges.
func (h *CategoryHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	id := c.Param("id")
	if _, err := h.Categories.Get(ctx, uid, id); err != nil {
		return writeError(c, err)
	}

	cascade := c.QueryParam("cascade")
	switch {
	case cascade == "":
	case cascade == "delete":
		n, err := h.Engine.DeleteActivitiesByCategory(ctx, uid, id)
		if err != nil {
			return writeError(c, err)
		}
		h.Events.PublishBulkOperation(ctx, queue.BulkOperationEvent{
			UserID: uid,
			Op:     queue.OpDeleteByCategory,
			Detail: fmt.Sprintf("category %s", id),
			Count:  n,
		})
	case strings.HasPrefix(cascade, "reassign:"):
		to := strings.TrimPrefix(cascade, "reassign:")
		n, err := h.Engine.BulkReassignCategory(ctx, uid, id, to)
		if err != nil {
			return writeError(c, err)
		}
		h.Events.PublishBulkOperation(ctx, queue.BulkOperationEvent{
			UserID: uid,
			Op:     queue.OpReassign,
			Detail: fmt.Sprintf("category %s -> %s", id, to),
			Count:  n,
		})
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cascade must be \"delete\" or \"reassign:<categoryId>\""})
	}

	if err := h.Categories.Delete(ctx, uid, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AddActivityName appends one activity name to the category's
// membership list, enforcing single ownership across categories.
func (h *CategoryHandler) AddActivityName(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req addNameReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if err := h.Engine.AddActivityNameToCategory(c.Request().Context(), uid, c.Param("id"), req.Name); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Assign moves an activity name into this category's membership list,
// clearing it from whichever category listed it before. Responds with
// the number of activities whose derived category changed.
func (h *CategoryHandler) Assign(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req assignReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ActivityName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "activity_name is required"})
	}
	ctx := c.Request().Context()
	n, err := h.Engine.BulkAssignCategory(ctx, uid, req.ActivityName, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	h.Events.PublishBulkOperation(ctx, queue.BulkOperationEvent{
		UserID: uid,
		Op:     queue.OpAssign,
		Detail: fmt.Sprintf("%q -> category %s", req.ActivityName, c.Param("id")),
		Count:  n,
	})
	return c.JSON(http.StatusOK, echo.Map{"affected": n})
}

// Reassign moves the entire membership list of this category to
// another one and responds with the number of affected activities.
func (h *CategoryHandler) Reassign(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req reassignReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ToCategoryID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "to_category_id is required"})
	}
	ctx := c.Request().Context()
	n, err := h.Engine.BulkReassignCategory(ctx, uid, c.Param("id"), req.ToCategoryID)
	if err != nil {
		return writeError(c, err)
	}
	h.Events.PublishBulkOperation(ctx, queue.BulkOperationEvent{
		UserID: uid,
		Op:     queue.OpReassign,
		Detail: fmt.Sprintf("category %s -> %s", c.Param("id"), req.ToCategoryID),
		Count:  n,
	})
	return c.JSON(http.StatusOK, echo.Map{"affected": n})
}
