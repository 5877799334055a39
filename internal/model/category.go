package model

import (
	"errors"
	"fmt"
)

// Category groups activities by name. ActivityNames is the canonical
// membership list: an activity belongs to the category whose list (or
// name) matches its own name, case-insensitively. The engine enforces
// "at most one owner" when names are added through it; duplicates
// created by direct edits are tolerated and resolved at read time by
// iterating categories in ascending key order.
//
// Fields:
//
//	Name          – display name, required, unique in spirit but not
//	                enforced by the store.
//	Active        – whether activities in this category count as
//	                active; propagated to activities at read time.
//	Description   – optional free text.
//	ActivityNames – ordered list of claimed activity names. Order is
//	                preserved by every list mutation; appends go last.
type Category struct {
	Name          string   `json:"name"`
	Active        bool     `json:"active"`
	Description   string   `json:"description,omitempty"`
	ActivityNames []string `json:"activityNames"`
}

// Validate checks the record before it is written.
func (c Category) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	if len(c.Name) > MaxNameLen {
		return fmt.Errorf("name exceeds %d characters", MaxNameLen)
	}
	if len(c.Description) > MaxDescriptionLen {
		return fmt.Errorf("description exceeds %d characters", MaxDescriptionLen)
	}
	return nil
}
