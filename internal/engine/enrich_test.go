package engine

import (
	"context"
	"testing"

	"github.com/iliyamo/activity-journal/internal/model"
	"github.com/iliyamo/activity-journal/internal/repository"
	"github.com/iliyamo/activity-journal/internal/store"
)

const testUser = "u1"

func seedStore(t *testing.T, acts map[string]model.Activity, cats map[string]model.Category) *store.MemoryStore {
	t.Helper()
	ctx := context.Background()
	st := store.NewMemoryStore()
	for id, a := range acts {
		if err := st.Set(ctx, repository.ActivityPath(testUser, id), a); err != nil {
			t.Fatalf("seed activity %s: %v", id, err)
		}
	}
	for id, c := range cats {
		if c.ActivityNames == nil {
			c.ActivityNames = []string{}
		}
		if err := st.Set(ctx, repository.CategoryPath(testUser, id), c); err != nil {
			t.Fatalf("seed category %s: %v", id, err)
		}
	}
	return st
}

func activity(name, date string) model.Activity {
	return model.Activity{Date: date, Name: name, Intensity: model.IntensityMedium, TimeSpent: 30}
}

func TestGetActivitiesReturnsNilWhenNoRecords(t *testing.T) {
	e := New(seedStore(t, nil, map[string]model.Category{
		"cat-a": {Name: "Sports", Active: true, ActivityNames: []string{"Running"}},
	}))
	got, err := e.GetActivities(context.Background(), testUser, 0)
	if err != nil {
		t.Fatalf("GetActivities failed: %v", err)
	}
	if got != nil {
		t.Errorf("GetActivities with no records = %v, want nil (not empty map)", got)
	}
}

func TestGetActivitiesDerivesCategoryAndActive(t *testing.T) {
	st := seedStore(t,
		map[string]model.Activity{
			"a1": activity("Running", "2026-01-10"),
			"a2": activity("swimming", "2026-01-11"), // case differs from list entry
			"a3": activity("Chess", "2026-01-12"),    // matches category *name*
			"a4": activity("Reading", "2026-01-13"),  // orphan
		},
		map[string]model.Category{
			"cat-a": {Name: "Sports", Active: true, ActivityNames: []string{"Running", "Swimming"}},
			"cat-b": {Name: "chess", Active: false, ActivityNames: []string{}},
		},
	)
	got, err := New(st).GetActivities(context.Background(), testUser, 0)
	if err != nil {
		t.Fatalf("GetActivities failed: %v", err)
	}
	want := map[string]struct {
		catID  string
		active bool
	}{
		"a1": {"cat-a", true},
		"a2": {"cat-a", true},
		"a3": {"cat-b", false},
		"a4": {"", true}, // orphans default to active/visible
	}
	if len(got) != len(want) {
		t.Fatalf("got %d activities, want %d", len(got), len(want))
	}
	for id, w := range want {
		en, ok := got[id]
		if !ok {
			t.Errorf("missing activity %s", id)
			continue
		}
		if en.CategoryID != w.catID || en.Active != w.active {
			t.Errorf("%s: (categoryId, active) = (%q, %v), want (%q, %v)", id, en.CategoryID, en.Active, w.catID, w.active)
		}
	}
}

func TestGetActivitiesDuplicateOwnershipFirstKeyWins(t *testing.T) {
	// Duplicate claims can exist via direct category edits. The join
	// resolves them by ascending category key order.
	st := seedStore(t,
		map[string]model.Activity{"a1": activity("Running", "2026-01-10")},
		map[string]model.Category{
			"cat-b": {Name: "Later", Active: false, ActivityNames: []string{"Running"}},
			"cat-a": {Name: "Earlier", Active: true, ActivityNames: []string{"Running"}},
		},
	)
	got, err := New(st).GetActivities(context.Background(), testUser, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got["a1"].CategoryID != "cat-a" {
		t.Errorf("categoryId = %q, want cat-a (lowest key wins)", got["a1"].CategoryID)
	}
}

func TestGetActivitiesLimitKeepsLastByDate(t *testing.T) {
	st := seedStore(t,
		map[string]model.Activity{
			"a1": activity("One", "2026-01-01"),
			"a2": activity("Two", "2026-01-02"),
			"a3": activity("Three", "2026-01-03"),
		},
		nil,
	)
	got, err := New(st).GetActivities(context.Background(), testUser, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d activities with limit 2, want 2", len(got))
	}
	if _, ok := got["a1"]; ok {
		t.Error("oldest activity returned despite limit")
	}
	for _, id := range []string{"a2", "a3"} {
		if _, ok := got[id]; !ok {
			t.Errorf("missing %s, the last entries by date", id)
		}
	}
}
