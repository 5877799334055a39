package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/activity-journal/internal/config"
	"github.com/iliyamo/activity-journal/internal/store"
)

func testConfig(limit int64, window time.Duration) config.RateLimitConfig {
	return config.RateLimitConfig{RequestsPerMinute: limit, Window: window, Prefix: "rateLimit"}
}

// fixedClock lets tests move the limiter's notion of now.
type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) get() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(limit int64, window time.Duration) (*Limiter, *fixedClock) {
	clk := &fixedClock{now: time.UnixMilli(1_700_000_000_000)}
	l := New(store.NewMemoryStore(), testConfig(limit, window))
	l.now = clk.get
	return l, clk
}

func TestCheckAllowsUpToLimitThenDenies(t *testing.T) {
	const limit = 5
	l, _ := newTestLimiter(limit, time.Minute)
	ctx := context.Background()

	for i := 1; i <= limit; i++ {
		res, err := l.Check(ctx, "u1")
		if err != nil {
			t.Fatalf("Check %d failed: %v", i, err)
		}
		if !res.Allowed {
			t.Fatalf("request %d denied, want allowed (limit %d)", i, limit)
		}
		if res.Count != int64(i) {
			t.Errorf("request %d committed count = %d, want %d", i, res.Count, i)
		}
	}

	res, err := l.Check(ctx, "u1")
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if res.Allowed {
		t.Fatalf("request %d allowed, want denied", limit+1)
	}
	if res.RetryAfter <= 0 || res.RetryAfter > time.Minute {
		t.Errorf("RetryAfter = %v, want in (0, 1m]", res.RetryAfter)
	}
}

func TestCheckDeniedRequestsKeepIncrementing(t *testing.T) {
	l, _ := newTestLimiter(2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := l.Check(ctx, "u1"); err != nil {
			t.Fatal(err)
		}
	}
	res, err := l.Check(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if res.Count != 6 {
		t.Errorf("count = %d after 6 checks, want 6; denial must not roll back increments", res.Count)
	}
}

func TestCheckNewWindowResetsCount(t *testing.T) {
	l, clk := newTestLimiter(2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if _, err := l.Check(ctx, "u1"); err != nil {
			t.Fatal(err)
		}
	}
	clk.advance(time.Minute) // exactly WINDOW elapsed starts a new window

	res, err := l.Check(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Allowed {
		t.Error("first request of a fresh window denied")
	}
	if res.Count != 1 {
		t.Errorf("count = %d in fresh window, want 1", res.Count)
	}
}

func TestCheckRetryAfterHasOneSecondFloor(t *testing.T) {
	l, clk := newTestLimiter(1, time.Minute)
	ctx := context.Background()

	if _, err := l.Check(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	// Almost at the window edge: the remaining time is below a second,
	// so the hint is floored rather than reporting a degenerate value.
	clk.advance(time.Minute - 10*time.Millisecond)

	res, err := l.Check(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if res.Allowed {
		t.Fatal("request allowed inside exhausted window")
	}
	if res.RetryAfter != time.Second {
		t.Errorf("RetryAfter = %v, want the 1s floor", res.RetryAfter)
	}
}

func TestCheckUsersAreIsolated(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)
	ctx := context.Background()

	if _, err := l.Check(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	if res, _ := l.Check(ctx, "u1"); res.Allowed {
		t.Error("u1 second request allowed, want denied")
	}
	res, err := l.Check(ctx, "u2")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Allowed {
		t.Error("u2 first request denied; counters must be per user")
	}
}

func TestCheckConcurrentRequestsAreSerialized(t *testing.T) {
	const requests = 40
	l, _ := newTestLimiter(10, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := l.Check(ctx, "u1")
			if err != nil {
				t.Errorf("Check failed: %v", err)
				return
			}
			if res.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 10 {
		t.Errorf("allowed = %d of %d concurrent requests, want exactly the limit 10", allowed, requests)
	}
}

// failingStore simulates an unavailable backing store.
type failingStore struct {
	store.Store
	err error
}

func (f *failingStore) Transaction(context.Context, string, store.TransitionFunc) (json.RawMessage, error) {
	return nil, f.err
}

func TestCheckSurfacesStoreFailure(t *testing.T) {
	boom := errors.New("store down")
	l := New(&failingStore{Store: store.NewMemoryStore(), err: boom}, testConfig(5, time.Minute))

	_, err := l.Check(context.Background(), "u1")
	if err == nil {
		t.Fatal("Check succeeded against a failing store; must never silently allow")
	}
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped store error", err)
	}
}
