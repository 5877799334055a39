package config

import (
	"os"
	"strconv"
	"time"
)

// RateLimitConfig drives the per-user fixed-window limiter. The
// limiter counts every checked request inside a window of Window
// duration; once the count passes RequestsPerMinute the remainder of
// the window is denied (denied requests still count).
type RateLimitConfig struct {
	RequestsPerMinute int64
	Window            time.Duration
	Prefix            string
}

// LoadRateLimitConfig reads the limiter settings from environment
// variables, falling back to a 60 req / 1 min window.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		RequestsPerMinute: int64(envInt("RATE_LIMIT_REQUESTS_PER_MINUTE", 60)),
		Window:            envDur("RATE_LIMIT_WINDOW", time.Minute),
		Prefix:            envStr("RATE_LIMIT_PREFIX", "rateLimit"),
	}
	if cfg.RequestsPerMinute < 1 {
		cfg.RequestsPerMinute = 1
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	return cfg
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}
func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
