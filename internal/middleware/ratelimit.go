package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/activity-journal/internal/ratelimit"
)

// RateLimit returns an Echo middleware enforcing the per-user fixed
// window limiter. It must run after JWTAuth so the user id is in
// context. Unlike limiters that degrade open when their backing store
// misbehaves, a failed check here is a 500: the counter lives in the
// same store as the data, so a broken store means the request was
// going to fail anyway, and silently skipping the limiter would make
// denial unenforceable.
func RateLimit(l *ratelimit.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, _ := c.Get("user_id").(string)
			if uid == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing user identity"})
			}

			res, err := l.Check(c.Request().Context(), uid)
			if err != nil {
				c.Logger().Errorf("ratelimit: %v", err)
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "rate limit check failed"})
			}

			remaining := l.Limit() - res.Count
			if remaining < 0 {
				remaining = 0
			}
			c.Response().Header().Set("X-RateLimit-Limit", strconv.FormatInt(l.Limit(), 10))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if !res.Allowed {
				secs := int(math.Ceil(res.RetryAfter.Seconds()))
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too_many_requests",
					"message":     "rate limit exceeded",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}
