package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/iliyamo/activity-journal/internal/model"
	"github.com/iliyamo/activity-journal/internal/store"
)

// ActivityRepo provides data access to a user's activity records.
// Records are written whole; partial updates are expressed as a full
// replace by the caller. Bulk mutations that must stay consistent with
// the category lists live in the engine, not here.
type ActivityRepo struct {
	store store.Store
}

// NewActivityRepo returns a new ActivityRepo bound to the provided store.
func NewActivityRepo(st store.Store) *ActivityRepo { return &ActivityRepo{store: st} }

// Create stores a new activity under a server-generated key and
// returns the key.
func (r *ActivityRepo) Create(ctx context.Context, userID string, a model.Activity) (string, error) {
	id := uuid.NewString()
	if err := r.store.Set(ctx, ActivityPath(userID, id), a); err != nil {
		return "", err
	}
	return id, nil
}

// CreateBatch stores several activities in one atomic multi-path
// write and returns the generated keys in input order.
func (r *ActivityRepo) CreateBatch(ctx context.Context, userID string, list []model.Activity) ([]string, error) {
	if len(list) == 0 {
		return nil, nil
	}
	ids := make([]string, len(list))
	updates := make(map[string]any, len(list))
	for i, a := range list {
		ids[i] = uuid.NewString()
		updates[ActivityPath(userID, ids[i])] = a
	}
	if err := r.store.UpdateMany(ctx, updates); err != nil {
		return nil, err
	}
	return ids, nil
}

// Get fetches one activity as stored, without enrichment.
func (r *ActivityRepo) Get(ctx context.Context, userID, id string) (model.Activity, error) {
	raw, err := r.store.Get(ctx, ActivityPath(userID, id))
	if err != nil {
		return model.Activity{}, err
	}
	if raw == nil {
		return model.Activity{}, fmt.Errorf("activity %s: %w", id, ErrNotFound)
	}
	var a model.Activity
	if err := json.Unmarshal(raw, &a); err != nil {
		return model.Activity{}, fmt.Errorf("decode activity %s: %w", id, err)
	}
	return a, nil
}

// Update replaces an existing activity. It fails with ErrNotFound when
// the id has never been written (or was deleted) so a typo cannot
// silently create a record under a client-chosen key.
func (r *ActivityRepo) Update(ctx context.Context, userID, id string, a model.Activity) error {
	raw, err := r.store.Get(ctx, ActivityPath(userID, id))
	if err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("activity %s: %w", id, ErrNotFound)
	}
	return r.store.Set(ctx, ActivityPath(userID, id), a)
}

// Delete removes one activity. Deleting an absent id is a no-op.
func (r *ActivityRepo) Delete(ctx context.Context, userID, id string) error {
	return r.store.Delete(ctx, ActivityPath(userID, id))
}

// DeleteAll removes every activity of the user in one atomic
// multi-path delete and returns the number removed.
func (r *ActivityRepo) DeleteAll(ctx context.Context, userID string) (int, error) {
	docs, err := r.store.GetCollection(ctx, ActivityCollectionPath(userID))
	if err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		return 0, nil
	}
	updates := make(map[string]any, len(docs))
	for id := range docs {
		updates[ActivityPath(userID, id)] = nil
	}
	if err := r.store.UpdateMany(ctx, updates); err != nil {
		return 0, err
	}
	return len(docs), nil
}

// List returns every stored activity keyed by id, without enrichment.
func (r *ActivityRepo) List(ctx context.Context, userID string) (map[string]model.Activity, error) {
	docs, err := r.store.GetCollection(ctx, ActivityCollectionPath(userID))
	if err != nil {
		return nil, err
	}
	out := make(map[string]model.Activity, len(docs))
	for id, raw := range docs {
		var a model.Activity
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("decode activity %s: %w", id, err)
		}
		out[id] = a
	}
	return out, nil
}
