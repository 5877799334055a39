package repository

import (
	"context"

	"github.com/iliyamo/activity-journal/internal/model"
	"github.com/iliyamo/activity-journal/internal/store"
)

// UserDataRepo is the export/import facade: a straight aggregate
// read/replace of everything under one user path. It enforces no
// cross-collection invariant and does not run the enrichment join on
// import; callers are responsible for supplying internally consistent
// data.
type UserDataRepo struct {
	store       store.Store
	activities  *ActivityRepo
	categories  *CategoryRepo
	preferences *PreferenceRepo
}

// NewUserDataRepo returns a facade over the three per-collection repositories.
func NewUserDataRepo(st store.Store, a *ActivityRepo, c *CategoryRepo, p *PreferenceRepo) *UserDataRepo {
	if a == nil || c == nil || p == nil {
		panic("nil repository passed to NewUserDataRepo")
	}
	return &UserDataRepo{store: st, activities: a, categories: c, preferences: p}
}

// GetUserData snapshots the user's activities, categories and
// preferences. Preferences come back with defaults merged in, same as
// a direct preferences read.
func (r *UserDataRepo) GetUserData(ctx context.Context, userID string) (model.UserData, error) {
	acts, err := r.activities.List(ctx, userID)
	if err != nil {
		return model.UserData{}, err
	}
	cats, err := r.categories.List(ctx, userID)
	if err != nil {
		return model.UserData{}, err
	}
	prefs, err := r.preferences.Get(ctx, userID)
	if err != nil {
		return model.UserData{}, err
	}
	return model.UserData{Activities: acts, Categories: cats, Preferences: prefs}, nil
}

// SetUserData replaces the user's data with the supplied aggregate.
// Each collection is replaced in one atomic multi-path write: stale
// records are mapped to nil (deleted) and incoming records written in
// the same call. The two collections and the preferences document are
// three independent writes; a failure in between leaves the earlier
// collections imported, and re-running the import converges.
func (r *UserDataRepo) SetUserData(ctx context.Context, userID string, data model.UserData) error {
	existing, err := r.store.GetCollection(ctx, ActivityCollectionPath(userID))
	if err != nil {
		return err
	}
	updates := make(map[string]any, len(existing)+len(data.Activities))
	for id := range existing {
		updates[ActivityPath(userID, id)] = nil
	}
	for id, a := range data.Activities {
		updates[ActivityPath(userID, id)] = a
	}
	if err := r.store.UpdateMany(ctx, updates); err != nil {
		return err
	}

	existing, err = r.store.GetCollection(ctx, CategoryCollectionPath(userID))
	if err != nil {
		return err
	}
	updates = make(map[string]any, len(existing)+len(data.Categories))
	for id := range existing {
		updates[CategoryPath(userID, id)] = nil
	}
	for id, c := range data.Categories {
		if c.ActivityNames == nil {
			c.ActivityNames = []string{}
		}
		updates[CategoryPath(userID, id)] = c
	}
	if err := r.store.UpdateMany(ctx, updates); err != nil {
		return err
	}

	return r.preferences.Set(ctx, userID, data.Preferences)
}
