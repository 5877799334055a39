package model

// RateLimitRecord is the per-user fixed-window counter stored at
// `rateLimit/{userId}`. Count is monotonically non-decreasing within a
// window; a new window resets it to 1. The record is created lazily on
// first request and never physically deleted.
//
// WindowStart is unix milliseconds so the record round-trips through
// JSON without timezone concerns.
type RateLimitRecord struct {
	Count       int64 `json:"count"`
	WindowStart int64 `json:"windowStart"`
}
