// Package ratelimit implements the per-user fixed-window request
// counter. All serialization is delegated to the store's single-path
// atomic transaction: concurrent requests from one user race on
// `rateLimit/{userId}` and the store linearizes their increments, so
// the limiter itself holds no locks and no in-process state.
package ratelimit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iliyamo/activity-journal/internal/config"
	"github.com/iliyamo/activity-journal/internal/model"
	"github.com/iliyamo/activity-journal/internal/store"
)

// Result is the outcome of one check. Count is the committed counter
// value including this request; RetryAfter is only set when denied and
// is never below one second to avoid degenerate near-zero hints.
type Result struct {
	Allowed    bool
	Count      int64
	RetryAfter time.Duration
}

// Limiter checks requests against a fixed window counter.
type Limiter struct {
	store store.Store
	cfg   config.RateLimitConfig
	now   func() time.Time
}

// New builds a limiter on the given store.
func New(st store.Store, cfg config.RateLimitConfig) *Limiter {
	return &Limiter{store: st, cfg: cfg, now: time.Now}
}

// Limit reports the configured requests-per-window ceiling, for
// response headers.
func (l *Limiter) Limit() int64 { return l.cfg.RequestsPerMinute }

// Check records one request for userID and reports whether it is
// allowed. Every checked request increments the counter, including
// requests that end up denied: denial does not roll back the
// increment, so load during the penalty window is still recorded (it
// does not extend the window). A store failure is returned as an
// error and must surface as a server error, never as a silent allow.
func (l *Limiter) Check(ctx context.Context, userID string) (Result, error) {
	now := l.now().UnixMilli()
	windowMs := l.cfg.Window.Milliseconds()
	path := store.Join(l.cfg.Prefix, userID)

	committed, err := l.store.Transaction(ctx, path, func(old json.RawMessage) (any, error) {
		var rec model.RateLimitRecord
		exists := old != nil
		if exists {
			if err := json.Unmarshal(old, &rec); err != nil {
				exists = false // unreadable record starts a fresh window
			}
		}
		if !exists || now-rec.WindowStart >= windowMs {
			return model.RateLimitRecord{Count: 1, WindowStart: now}, nil
		}
		return model.RateLimitRecord{Count: rec.Count + 1, WindowStart: rec.WindowStart}, nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("ratelimit: check %s: %w", userID, err)
	}

	var rec model.RateLimitRecord
	if err := json.Unmarshal(committed, &rec); err != nil {
		return Result{}, fmt.Errorf("ratelimit: decode committed record: %w", err)
	}
	if rec.Count > l.cfg.RequestsPerMinute {
		retry := time.Duration(windowMs-(now-rec.WindowStart)) * time.Millisecond
		if retry < time.Second {
			retry = time.Second
		}
		return Result{Allowed: false, Count: rec.Count, RetryAfter: retry}, nil
	}
	return Result{Allowed: true, Count: rec.Count}, nil
}
