// Package store provides the hierarchical document store the journal
// persists into. Records are JSON documents addressed by slash
// separated paths ("users/{uid}/activity/{id}"). The store offers
// plain get/set/delete, an atomic multi-path write within one call,
// and an atomic read-modify-write transaction scoped to exactly one
// path. There is no atomicity across two separate calls; the
// consistency engine is written against exactly that contract.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// ErrTxConflict is returned by Transaction when the optimistic
// read-modify-write kept colliding with concurrent writers and the
// retry budget ran out. Callers surface it as a transient server
// error; it never means the transition function failed.
var ErrTxConflict = errors.New("store: transaction conflict")

// TransitionFunc computes the next value of a document from its
// current value. old is nil when the document does not exist. The
// returned value is marshalled to JSON and committed; the function may
// run more than once when the commit races a concurrent writer, so it
// must be side-effect free.
type TransitionFunc func(old json.RawMessage) (any, error)

// Store is the persistence contract. A nil value in the UpdateMany map
// deletes that path; everything else is marshalled to JSON.
type Store interface {
	// Get returns the document at path, or (nil, nil) when absent.
	Get(ctx context.Context, path string) (json.RawMessage, error)
	// Set writes the document at path, replacing any previous value.
	Set(ctx context.Context, path string, value any) error
	// UpdateMany applies every entry of updates in one atomic call.
	UpdateMany(ctx context.Context, updates map[string]any) error
	// Delete removes the document at path. Absent paths are a no-op.
	Delete(ctx context.Context, path string) error
	// Transaction atomically applies fn to the document at path and
	// returns the committed JSON.
	Transaction(ctx context.Context, path string, fn TransitionFunc) (json.RawMessage, error)
	// GetCollection returns the direct children of a collection path,
	// keyed by child id.
	GetCollection(ctx context.Context, prefix string) (map[string]json.RawMessage, error)
}

// Join builds a slash separated path from its segments.
func Join(parts ...string) string {
	return strings.Join(parts, "/")
}
