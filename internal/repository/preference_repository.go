package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/iliyamo/activity-journal/internal/model"
	"github.com/iliyamo/activity-journal/internal/store"
)

// PreferenceRepo reads and writes the per-user preferences document.
type PreferenceRepo struct {
	store store.Store
}

// NewPreferenceRepo returns a new PreferenceRepo bound to the provided store.
func NewPreferenceRepo(st store.Store) *PreferenceRepo { return &PreferenceRepo{store: st} }

// Get returns the user's preferences with defaults applied: an absent
// document yields the defaults, and a stored record is unmarshalled
// over the defaults so fields added after the record was written keep
// their default values.
func (r *PreferenceRepo) Get(ctx context.Context, userID string) (model.Preferences, error) {
	p := model.DefaultPreferences()
	raw, err := r.store.Get(ctx, PreferencesPath(userID))
	if err != nil {
		return model.Preferences{}, err
	}
	if raw == nil {
		return p, nil
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return model.Preferences{}, fmt.Errorf("decode preferences: %w", err)
	}
	return p, nil
}

// Set replaces the user's preferences document.
func (r *PreferenceRepo) Set(ctx context.Context, userID string, p model.Preferences) error {
	return r.store.Set(ctx, PreferencesPath(userID), p)
}
