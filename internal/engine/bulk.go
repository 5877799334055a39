package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/iliyamo/activity-journal/internal/repository"
)

// BulkRenameActivities rewrites the name of every activity whose name
// equals oldName (exact match; this rewrites stored values) and
// returns the number changed. All staged records go out in one atomic
// multi-path write. Only the activity collection is touched here; the
// caller pairs it with RenameInCategoryLists, accepting that the two
// writes are independent and a crash between them leaves the category
// lists stale until the rename is retried.
func (e *Engine) BulkRenameActivities(ctx context.Context, userID, oldName, newName string) (int, error) {
	acts, err := e.loadActivities(ctx, userID)
	if err != nil {
		return 0, err
	}
	updates := make(map[string]any)
	for id, a := range acts {
		if a.Name != oldName {
			continue
		}
		a.Name = newName
		updates[repository.ActivityPath(userID, id)] = a
	}
	if len(updates) == 0 {
		return 0, nil
	}
	if err := e.store.UpdateMany(ctx, updates); err != nil {
		return 0, err
	}
	return len(updates), nil
}

// RenameInCategoryLists is the category-side companion of
// BulkRenameActivities: every activityNames entry equal to oldName is
// replaced in place (order preserved) across all categories, in one
// atomic write. Re-running after a partial rename is a no-op for
// already-updated lists.
func (e *Engine) RenameInCategoryLists(ctx context.Context, userID, oldName, newName string) error {
	cats, err := e.loadCategories(ctx, userID)
	if err != nil {
		return err
	}
	updates := make(map[string]any)
	for id, c := range cats {
		changed := false
		names := make([]string, len(c.ActivityNames))
		for i, n := range c.ActivityNames {
			if n == oldName {
				names[i] = newName
				changed = true
				continue
			}
			names[i] = n
		}
		if !changed {
			continue
		}
		c.ActivityNames = names
		updates[repository.CategoryPath(userID, id)] = c
	}
	return e.store.UpdateMany(ctx, updates)
}

// BulkAssignCategory moves activityName into the target category's
// membership list. It operates purely on the derived view: no activity
// record is written. The move runs as two sequential atomic writes on
// the category collection, a remove pass clearing the name from every
// other category's list and an add pass appending it to the target.
// Assigning a name the target already lists is a no-op. The returned
// count is the number of activities whose name matches
// case-insensitively, computed from the activity snapshot.
func (e *Engine) BulkAssignCategory(ctx context.Context, userID, activityName, categoryID string) (int, error) {
	cats, err := e.loadCategories(ctx, userID)
	if err != nil {
		return 0, err
	}
	target, ok := cats[categoryID]
	if !ok {
		return 0, fmt.Errorf("category %s: %w", categoryID, repository.ErrNotFound)
	}

	acts, err := e.loadActivities(ctx, userID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, a := range acts {
		if strings.EqualFold(a.Name, activityName) {
			count++
		}
	}

	// Remove pass: clear the name from every other category's list.
	removals := make(map[string]any)
	for id, c := range cats {
		if id == categoryID {
			continue
		}
		filtered := removeName(c.ActivityNames, activityName)
		if len(filtered) == len(c.ActivityNames) {
			continue
		}
		c.ActivityNames = filtered
		removals[repository.CategoryPath(userID, id)] = c
	}
	if len(removals) > 0 {
		if err := e.store.UpdateMany(ctx, removals); err != nil {
			return 0, err
		}
	}

	// Add pass: append to the target unless it is already listed.
	if containsFold(target.ActivityNames, activityName) {
		return count, nil
	}
	target.ActivityNames = append(target.ActivityNames, activityName)
	if err := e.store.UpdateMany(ctx, map[string]any{
		repository.CategoryPath(userID, categoryID): target,
	}); err != nil {
		return 0, err
	}
	return count, nil
}

// BulkReassignCategory moves the entire membership list from one
// category to another in a single atomic write touching both category
// paths: the target keeps its existing entries with the source's
// appended after them, and the source list is emptied. The returned
// count is the number of activities whose derived category was the
// source at the time of the call, computed from the activity snapshot.
func (e *Engine) BulkReassignCategory(ctx context.Context, userID, fromCategoryID, toCategoryID string) (int, error) {
	cats, err := e.loadCategories(ctx, userID)
	if err != nil {
		return 0, err
	}
	from, ok := cats[fromCategoryID]
	if !ok {
		return 0, fmt.Errorf("category %s: %w", fromCategoryID, repository.ErrNotFound)
	}
	to, ok := cats[toCategoryID]
	if !ok {
		return 0, fmt.Errorf("category %s: %w", toCategoryID, repository.ErrNotFound)
	}

	acts, err := e.loadActivities(ctx, userID)
	if err != nil {
		return 0, err
	}
	catIDs := sortedKeys(cats)
	count := 0
	for _, a := range acts {
		if catID, ok := matchCategory(a.Name, catIDs, cats); ok && catID == fromCategoryID {
			count++
		}
	}

	if fromCategoryID == toCategoryID {
		return count, nil
	}

	to.ActivityNames = append(to.ActivityNames, from.ActivityNames...)
	from.ActivityNames = []string{}
	err = e.store.UpdateMany(ctx, map[string]any{
		repository.CategoryPath(userID, fromCategoryID): from,
		repository.CategoryPath(userID, toCategoryID):   to,
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteActivitiesByCategory deletes every activity whose name is in
// the category's current membership list, via one atomic multi-path
// delete. The category record itself is untouched. Returns the number
// of activities deleted.
func (e *Engine) DeleteActivitiesByCategory(ctx context.Context, userID, categoryID string) (int, error) {
	cats, err := e.loadCategories(ctx, userID)
	if err != nil {
		return 0, err
	}
	cat, ok := cats[categoryID]
	if !ok {
		return 0, fmt.Errorf("category %s: %w", categoryID, repository.ErrNotFound)
	}
	member := make(map[string]bool, len(cat.ActivityNames))
	for _, n := range cat.ActivityNames {
		member[strings.ToLower(n)] = true
	}

	acts, err := e.loadActivities(ctx, userID)
	if err != nil {
		return 0, err
	}
	updates := make(map[string]any)
	for id, a := range acts {
		if member[strings.ToLower(a.Name)] {
			updates[repository.ActivityPath(userID, id)] = nil
		}
	}
	if len(updates) == 0 {
		return 0, nil
	}
	if err := e.store.UpdateMany(ctx, updates); err != nil {
		return 0, err
	}
	return len(updates), nil
}

// AddActivityNameToCategory appends activityName to the category's
// membership list. It fails with DuplicateOwnershipError when another
// category already claims the name (the error carries that category's
// name), no-ops when the target already lists it, and fails with
// ErrNotFound when the category does not exist.
func (e *Engine) AddActivityNameToCategory(ctx context.Context, userID, categoryID, activityName string) error {
	cats, err := e.loadCategories(ctx, userID)
	if err != nil {
		return err
	}
	target, ok := cats[categoryID]
	if !ok {
		return fmt.Errorf("category %s: %w", categoryID, repository.ErrNotFound)
	}
	for _, id := range sortedKeys(cats) {
		if id == categoryID {
			continue
		}
		if containsFold(cats[id].ActivityNames, activityName) {
			return &DuplicateOwnershipError{ActivityName: activityName, CategoryName: cats[id].Name}
		}
	}
	if containsFold(target.ActivityNames, activityName) {
		return nil
	}
	target.ActivityNames = append(target.ActivityNames, activityName)
	return e.store.Set(ctx, repository.CategoryPath(userID, categoryID), target)
}

// removeName filters every case-insensitive match of name out of list,
// preserving the order of the survivors. Removing an absent name
// returns the list unchanged, so repeated removals are no-ops.
func removeName(list []string, name string) []string {
	out := make([]string, 0, len(list))
	for _, n := range list {
		if strings.EqualFold(n, name) {
			continue
		}
		out = append(out, n)
	}
	return out
}

func containsFold(list []string, name string) bool {
	for _, n := range list {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}
