package model

// UserData is the aggregate used by export and import. It is a
// straight snapshot of everything under one user's namespace; no
// cross-collection invariant is enforced on import, the caller is
// responsible for supplying internally consistent data.
type UserData struct {
	Activities  map[string]Activity `json:"activities"`
	Categories  map[string]Category `json:"categories"`
	Preferences Preferences         `json:"preferences"`
}
