package repository

import "github.com/iliyamo/activity-journal/internal/store"

// Storage layout, relative to the store root:
//
//	users/{uid}/activity/{id}   – activity records
//	users/{uid}/categories/{id} – category records
//	users/{uid}/preferences     – preferences document
//
// The rate-limit counters live outside the user tree (see the
// ratelimit package) because they are infrastructure, not user data,
// and must not travel with export/import.
const (
	usersRoot          = "users"
	activityCollection = "activity"
	categoryCollection = "categories"
	preferencesDoc     = "preferences"
)

// ActivityCollectionPath returns the collection path of a user's activities.
func ActivityCollectionPath(userID string) string {
	return store.Join(usersRoot, userID, activityCollection)
}

// ActivityPath returns the document path of one activity.
func ActivityPath(userID, id string) string {
	return store.Join(usersRoot, userID, activityCollection, id)
}

// CategoryCollectionPath returns the collection path of a user's categories.
func CategoryCollectionPath(userID string) string {
	return store.Join(usersRoot, userID, categoryCollection)
}

// CategoryPath returns the document path of one category.
func CategoryPath(userID, id string) string {
	return store.Join(usersRoot, userID, categoryCollection, id)
}

// PreferencesPath returns the document path of a user's preferences.
func PreferencesPath(userID string) string {
	return store.Join(usersRoot, userID, preferencesDoc)
}
