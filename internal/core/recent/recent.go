// Package recent defines the recently-opened record types and the store
// interface behind them.
package recent

import (
	"context"
	"time"
)

// Entry is a record the user opened or copied from a search view.
type Entry struct {
	View     string    `json:"view"`
	Model    string    `json:"model"`
	RecordID int64     `json:"record_id"`
	Name     string    `json:"name"`
	URL      string    `json:"url,omitempty"`
	OpenedAt time.Time `json:"opened_at"`
}

// Same reports whether e and other refer to the same record.
func (e Entry) Same(other Entry) bool {
	return e.Model == other.Model && e.RecordID == other.RecordID
}

// Store defines persistence operations for recently opened records.
type Store interface {
	// List returns all entries, most recent first.
	List(ctx context.Context) ([]Entry, error)
	// Save records entry as the most recent, replacing an older entry for the
	// same record and pruning the oldest beyond the configured maximum.
	Save(ctx context.Context, entry Entry) error
	// Clear removes all entries.
	Clear(ctx context.Context) error
}
