package model

// Preferences is the per-user flat settings record stored at
// `preferences`. All fields are plain flags; nothing here is
// concurrency-sensitive, so reads and writes go through plain get/set
// rather than transactions.
type Preferences struct {
	DarkMode          bool `json:"darkMode"`
	ShowInactive      bool `json:"showInactive"`
	WeekStartsMonday  bool `json:"weekStartsMonday"`
	ChartsStacked     bool `json:"chartsStacked"`
	ConfirmBulkDelete bool `json:"confirmBulkDelete"`
}

// DefaultPreferences returns the record applied when a user has no
// stored preferences, and the base that stored partial records are
// merged over.
func DefaultPreferences() Preferences {
	return Preferences{
		ShowInactive:      true,
		WeekStartsMonday:  true,
		ConfirmBulkDelete: true,
	}
}
