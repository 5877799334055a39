// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/activity-journal/internal/handler"
	"github.com/iliyamo/activity-journal/internal/middleware"
	"github.com/iliyamo/activity-journal/internal/ratelimit"
)

// RegisterRoutes registers routes that do not require authentication
// on the provided Echo instance. Currently it exposes only a health
// check, used by load balancers and monitoring to verify the service
// is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAPI registers every authenticated endpoint under /v1. The
// JWTAuth middleware resolves the bearer token to a user id, then the
// rate limiter counts the request against that user's window; both run
// before any handler, so every operation below is authorized and
// rate-limited in that order.
func RegisterAPI(
	e *echo.Echo,
	jwtSecret string,
	limiter *ratelimit.Limiter,
	a *handler.ActivityHandler,
	cat *handler.CategoryHandler,
	p *handler.PreferencesHandler,
	u *handler.UserDataHandler,
) {
	v1 := e.Group("/v1")
	v1.Use(middleware.JWTAuth(jwtSecret))
	v1.Use(middleware.RateLimit(limiter))

	// Activities: CRUD plus the bulk operations that ride on the
	// consistency engine. The rename route sits before /:id in source
	// order; echo routes static segments ahead of params regardless.
	v1.GET("/activities", a.List)
	v1.POST("/activities", a.Create)
	v1.POST("/activities/batch", a.CreateBatch)
	v1.POST("/activities/rename", a.Rename)
	v1.DELETE("/activities", a.DeleteAll)
	v1.GET("/activities/:id", a.Get)
	v1.PUT("/activities/:id", a.Update)
	v1.DELETE("/activities/:id", a.Delete)

	// Categories: CRUD plus membership-list operations.
	v1.GET("/categories", cat.List)
	v1.POST("/categories", cat.Create)
	v1.GET("/categories/:id", cat.Get)
	v1.PUT("/categories/:id", cat.Update)
	v1.DELETE("/categories/:id", cat.Delete)
	v1.POST("/categories/:id/activities", cat.AddActivityName)
	v1.POST("/categories/:id/assign", cat.Assign)
	v1.POST("/categories/:id/reassign", cat.Reassign)

	// Preferences and the export/import facade.
	v1.GET("/preferences", p.Get)
	v1.PUT("/preferences", p.Put)
	v1.GET("/user-data", u.Get)
	v1.PUT("/user-data", u.Put)
}
