// Package repository provides per-user CRUD over the document store.
// Each repository owns one collection under the user's namespace and
// never reads or writes another user's paths. Cross-collection
// consistency is not this layer's job; that lives in internal/engine.
package repository

import "errors"

// ErrNotFound is returned when an operation targets an id that does
// not exist in the user's namespace. Handlers translate this into an
// HTTP 404 response with the wrapped context as the message.
var ErrNotFound = errors.New("not found")
