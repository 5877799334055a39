// Package engine is the consistency layer over the two per-user
// collections. The store offers no cross-collection transaction, so
// every bulk operation here follows the same shape: snapshot the
// collections it needs, compute the new state in memory, then issue at
// most one atomic multi-path write per collection touched. Each
// mutator is idempotent with respect to its own final state, so a
// retry after a partial failure converges instead of compounding.
//
// The read path never trusts a stored category assignment: an
// activity's effective category and active flag are recomputed on
// every read from the category membership lists (the enrichment join).
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/iliyamo/activity-journal/internal/model"
	"github.com/iliyamo/activity-journal/internal/repository"
	"github.com/iliyamo/activity-journal/internal/store"
)

// DuplicateOwnershipError reports that an activity name is already
// claimed by another category. The owning category's name is carried
// so the message is actionable for the user.
type DuplicateOwnershipError struct {
	ActivityName string
	CategoryName string
}

func (e *DuplicateOwnershipError) Error() string {
	return fmt.Sprintf("activity name %q already belongs to category %q", e.ActivityName, e.CategoryName)
}

// Engine bundles the store for the bulk operations and the read join.
type Engine struct {
	store store.Store
}

// New returns an Engine bound to the provided store.
func New(st store.Store) *Engine {
	if st == nil {
		panic("nil store passed to engine.New")
	}
	return &Engine{store: st}
}

// GetActivities returns the user's activities with the derived
// category assignment, keyed by activity id. When limit is positive,
// only the last limit entries ordered by date are returned. It returns
// nil (not an empty map) when the user has no activity records at all,
// so callers can tell "no data" from "no matches".
//
// An activity matches the category whose name, or one of whose
// activityNames entries, equals the activity's name case-insensitively.
// Categories are scanned in ascending key order, first match wins;
// that order is the documented tie-break when a name is claimed twice.
// Unmatched activities come back with an empty categoryId and
// active=true, so orphans stay visible.
func (e *Engine) GetActivities(ctx context.Context, userID string, limit int) (map[string]model.EnrichedActivity, error) {
	acts, err := e.loadActivities(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(acts) == 0 {
		return nil, nil
	}
	cats, err := e.loadCategories(ctx, userID)
	if err != nil {
		return nil, err
	}
	catIDs := sortedKeys(cats)

	ids := sortedKeys(acts)
	if limit > 0 && limit < len(ids) {
		sort.Slice(ids, func(i, j int) bool {
			if acts[ids[i]].Date != acts[ids[j]].Date {
				return acts[ids[i]].Date < acts[ids[j]].Date
			}
			return ids[i] < ids[j]
		})
		ids = ids[len(ids)-limit:]
	}

	out := make(map[string]model.EnrichedActivity, len(ids))
	for _, id := range ids {
		a := acts[id]
		enriched := model.EnrichedActivity{
			Date:        a.Date,
			Name:        a.Name,
			Description: a.Description,
			Intensity:   a.Intensity,
			TimeSpent:   a.TimeSpent,
			CategoryID:  "",
			Active:      true,
		}
		if catID, ok := matchCategory(a.Name, catIDs, cats); ok {
			enriched.CategoryID = catID
			enriched.Active = cats[catID].Active
		}
		out[id] = enriched
	}
	return out, nil
}

// matchCategory finds the first category, in the given id order, that
// claims name via its own name or its membership list.
func matchCategory(name string, catIDs []string, cats map[string]model.Category) (string, bool) {
	for _, id := range catIDs {
		c := cats[id]
		if strings.EqualFold(c.Name, name) {
			return id, true
		}
		for _, n := range c.ActivityNames {
			if strings.EqualFold(n, name) {
				return id, true
			}
		}
	}
	return "", false
}

func (e *Engine) loadActivities(ctx context.Context, userID string) (map[string]model.Activity, error) {
	docs, err := e.store.GetCollection(ctx, repository.ActivityCollectionPath(userID))
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

func (e *Engine) loadCategories(ctx context.Context, userID string) (map[string]model.Category, error) {
	docs, err := e.store.GetCollection(ctx, repository.CategoryCollectionPath(userID))
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

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
