package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/redis/go-redis/v9"
)

// maxTxAttempts bounds the optimistic retry loop in Transaction.
// Contention on a single user's counter is short-lived, so a small
// budget with backoff is enough; hitting it means the path is hot
// beyond anything a single client should produce.
const maxTxAttempts = 16

// RedisStore implements Store on a redis client. Each document lives
// at its full path as the redis key. UpdateMany uses MULTI/EXEC, which
// gives the atomic multi-path write the engine relies on; Transaction
// uses WATCH for the single-path read-modify-write.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore wraps an existing client. The client must be non-nil;
// callers that allow redis to be absent must check before constructing.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	if rdb == nil {
		panic("nil redis client passed to NewRedisStore")
	}
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Get(ctx context.Context, path string) (json.RawMessage, error) {
	b, err := s.rdb.Get(ctx, path).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get %s: %w", path, err)
	}
	return b, nil
}

func (s *RedisStore) Set(ctx context.Context, path string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: marshal %s: %w", path, err)
	}
	if err := s.rdb.Set(ctx, path, b, 0).Err(); err != nil {
		return fmt.Errorf("store: set %s: %w", path, err)
	}
	return nil
}

func (s *RedisStore) UpdateMany(ctx context.Context, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	pipe := s.rdb.TxPipeline()
	for path, value := range updates {
		if value == nil {
			pipe.Del(ctx, path)
			continue
		}
		b, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("store: marshal %s: %w", path, err)
		}
		pipe.Set(ctx, path, b, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store: update: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, path string) error {
	if err := s.rdb.Del(ctx, path).Err(); err != nil {
		return fmt.Errorf("store: delete %s: %w", path, err)
	}
	return nil
}

// Transaction runs fn against the current value under WATCH and
// commits the result. When a concurrent writer invalidates the watch,
// the whole read-modify-write is retried with backoff until it commits
// or the attempt budget is spent.
func (s *RedisStore) Transaction(ctx context.Context, path string, fn TransitionFunc) (json.RawMessage, error) {
	var committed json.RawMessage

	txf := func(tx *redis.Tx) error {
		old, err := tx.Get(ctx, path).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		var oldRaw json.RawMessage
		if err == nil {
			oldRaw = old
		}
		next, err := fn(oldRaw)
		if err != nil {
			return err
		}
		b, err := json.Marshal(next)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, path, b, 0)
			return nil
		})
		if err == nil {
			committed = b
		}
		return err
	}

	err := retry.Do(
		func() error { return s.rdb.Watch(ctx, txf, path) },
		retry.RetryIf(func(err error) bool { return errors.Is(err, redis.TxFailedErr) }),
		retry.Attempts(maxTxAttempts),
		retry.Delay(time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
	if errors.Is(err, redis.TxFailedErr) {
		return nil, ErrTxConflict
	}
	if err != nil {
		return nil, fmt.Errorf("store: transaction %s: %w", path, err)
	}
	return committed, nil
}

// GetCollection scans for the direct children of prefix. Grandchildren
// (paths with a further slash after the child id) are skipped, so a
// collection read never picks up nested records. The scan plus MGET is
// not a consistent snapshot; the engine tolerates that the same way it
// tolerates readers between its two collection writes.
func (s *RedisStore) GetCollection(ctx context.Context, prefix string) (map[string]json.RawMessage, error) {
	pattern := prefix + "/*"
	var keys []string
	iter := s.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("store: scan %s: %w", prefix, err)
	}
	out := make(map[string]json.RawMessage, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("store: mget %s: %w", prefix, err)
	}
	for i, key := range keys {
		id := strings.TrimPrefix(key, prefix+"/")
		if strings.Contains(id, "/") {
			continue
		}
		sv, ok := vals[i].(string)
		if !ok {
			continue // deleted between SCAN and MGET
		}
		out[id] = json.RawMessage(sv)
	}
	return out, nil
}
