package model

import (
	"errors"
	"fmt"
	"time"
)

// Intensity describes how strenuous an activity was. Only the three
// values below are accepted by Validate; the zero value is invalid so
// that callers cannot silently persist an unset field.
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// Field length limits shared by activities and categories. The store
// itself is schemaless, so these are the only size checks that exist.
const (
	MaxNameLen        = 100
	MaxDescriptionLen = 500
)

// Activity is a single dated journal entry as stored under
// `activity/{id}`. The CategoryID and Active fields may be present in
// a stored record (older writers persisted them) but they are never
// authoritative: the effective category assignment is recomputed on
// every read from the category membership lists. See EnrichedActivity.
//
// Fields:
//
//	Date        – calendar date in YYYY-MM-DD form.
//	Name        – activity name; matching against category lists is
//	              case-insensitive but the stored value keeps its case.
//	Description – optional free text.
//	Intensity   – low | medium | high.
//	TimeSpent   – minutes spent, non-negative.
type Activity struct {
	Date        string    `json:"date"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Intensity   Intensity `json:"intensity"`
	TimeSpent   float64   `json:"timeSpent"`
	CategoryID  string    `json:"categoryId,omitempty"`
	Active      *bool     `json:"active,omitempty"`
}

// EnrichedActivity is the read-side projection of an Activity: the
// stored record plus the derived category assignment. CategoryID is
// empty and Active is true when no category claims the name.
type EnrichedActivity struct {
	Date        string    `json:"date"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Intensity   Intensity `json:"intensity"`
	TimeSpent   float64   `json:"timeSpent"`
	CategoryID  string    `json:"categoryId"`
	Active      bool      `json:"active"`
}

// Validate checks the record before it is written. It returns the
// first problem found so handlers can echo a single actionable message.
func (a Activity) Validate() error {
	if a.Name == "" {
		return errors.New("name is required")
	}
	if len(a.Name) > MaxNameLen {
		return fmt.Errorf("name exceeds %d characters", MaxNameLen)
	}
	if len(a.Description) > MaxDescriptionLen {
		return fmt.Errorf("description exceeds %d characters", MaxDescriptionLen)
	}
	if _, err := time.Parse("2006-01-02", a.Date); err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD: %q", a.Date)
	}
	switch a.Intensity {
	case IntensityLow, IntensityMedium, IntensityHigh:
	default:
		return fmt.Errorf("intensity must be low, medium or high: %q", a.Intensity)
	}
	if a.TimeSpent < 0 {
		return errors.New("timeSpent must be non-negative")
	}
	return nil
}
