package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/activity-journal/internal/config"
	"github.com/iliyamo/activity-journal/internal/ratelimit"
	"github.com/iliyamo/activity-journal/internal/store"
)

func limitedHandler(l *ratelimit.Limiter, uid string) echo.HandlerFunc {
	inner := RateLimit(l)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return func(c echo.Context) error {
		if uid != "" {
			c.Set("user_id", uid)
		}
		return inner(c)
	}
}

func doRequest(t *testing.T, h echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/activities", nil)
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestRateLimitAllowsThenDenies(t *testing.T) {
	cfg := config.RateLimitConfig{RequestsPerMinute: 2, Window: time.Minute, Prefix: "rateLimit"}
	l := ratelimit.New(store.NewMemoryStore(), cfg)
	h := limitedHandler(l, "u1")

	for i := 0; i < 2; i++ {
		rec := doRequest(t, h)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, rec.Code)
		}
		if rec.Header().Get("X-RateLimit-Limit") != "2" {
			t.Errorf("X-RateLimit-Limit = %q, want 2", rec.Header().Get("X-RateLimit-Limit"))
		}
	}

	rec := doRequest(t, h)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("429 response missing Retry-After header")
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("X-RateLimit-Remaining = %q, want 0", rec.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestRateLimitMissingIdentity(t *testing.T) {
	cfg := config.RateLimitConfig{RequestsPerMinute: 2, Window: time.Minute, Prefix: "rateLimit"}
	l := ratelimit.New(store.NewMemoryStore(), cfg)

	rec := doRequest(t, limitedHandler(l, ""))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d without user_id in context, want 401", rec.Code)
	}
}

// brokenStore fails every transaction, simulating an unavailable store.
type brokenStore struct {
	store.Store
}

func (b *brokenStore) Transaction(context.Context, string, store.TransitionFunc) (json.RawMessage, error) {
	return nil, errors.New("store down")
}

func TestRateLimitStoreFailureIsServerError(t *testing.T) {
	cfg := config.RateLimitConfig{RequestsPerMinute: 2, Window: time.Minute, Prefix: "rateLimit"}
	l := ratelimit.New(&brokenStore{Store: store.NewMemoryStore()}, cfg)

	rec := doRequest(t, limitedHandler(l, "u1"))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d when the store is down, want 500 (never fail open)", rec.Code)
	}
}
