package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/iliyamo/activity-journal/internal/model"
	"github.com/iliyamo/activity-journal/internal/store"
)

// CategoryRepo provides data access to a user's category records. The
// membership-list invariants (one owner per name, order-preserving
// moves) are enforced by the engine; this layer only reads and writes
// whole records.
type CategoryRepo struct {
	store store.Store
}

// NewCategoryRepo returns a new CategoryRepo bound to the provided store.
func NewCategoryRepo(st store.Store) *CategoryRepo { return &CategoryRepo{store: st} }

// Create stores a new category under a server-generated key and
// returns the key. A nil ActivityNames is normalized to an empty list
// so stored records always carry the field.
func (r *CategoryRepo) Create(ctx context.Context, userID string, c model.Category) (string, error) {
	if c.ActivityNames == nil {
		c.ActivityNames = []string{}
	}
	id := uuid.NewString()
	if err := r.store.Set(ctx, CategoryPath(userID, id), c); err != nil {
		return "", err
	}
	return id, nil
}

// Get fetches one category.
func (r *CategoryRepo) Get(ctx context.Context, userID, id string) (model.Category, error) {
	raw, err := r.store.Get(ctx, CategoryPath(userID, id))
	if err != nil {
		return model.Category{}, err
	}
	if raw == nil {
		return model.Category{}, fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	var c model.Category
	if err := json.Unmarshal(raw, &c); err != nil {
		return model.Category{}, fmt.Errorf("decode category %s: %w", id, err)
	}
	return c, nil
}

// List returns every category keyed by id.
func (r *CategoryRepo) List(ctx context.Context, userID string) (map[string]model.Category, error) {
	docs, err := r.store.GetCollection(ctx, CategoryCollectionPath(userID))
	if err != nil {
		return nil, err
	}
	out := make(map[string]model.Category, len(docs))
	for id, raw := range docs {
		var c model.Category
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode category %s: %w", id, err)
		}
		out[id] = c
	}
	return out, nil
}

// Update replaces an existing category. ErrNotFound when the id does
// not exist.
func (r *CategoryRepo) Update(ctx context.Context, userID, id string, c model.Category) error {
	raw, err := r.store.Get(ctx, CategoryPath(userID, id))
	if err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	if c.ActivityNames == nil {
		c.ActivityNames = []string{}
	}
	return r.store.Set(ctx, CategoryPath(userID, id), c)
}

// Delete removes one category record. It does not touch activities;
// callers that want a cascade run the engine's delete-by-category or
// reassignment first.
func (r *CategoryRepo) Delete(ctx context.Context, userID, id string) error {
	return r.store.Delete(ctx, CategoryPath(userID, id))
}
