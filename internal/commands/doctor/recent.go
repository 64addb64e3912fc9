package doctor

import (
	"context"
	"fmt"

	"github.com/hay-kot/scout/internal/core/recent"
)

// RecentCheck verifies the recent records file can be read. With fix set a
// corrupted file is reset.
type RecentCheck struct {
	store recent.Store
	fix   bool
}

// NewRecentCheck creates a new recent store check.
func NewRecentCheck(store recent.Store, fix bool) *RecentCheck {
	return &RecentCheck{store: store, fix: fix}
}

func (c *RecentCheck) Name() string {
	return "Recent Records"
}

func (c *RecentCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	entries, err := c.store.List(ctx)
	if err == nil {
		result.add(StatusPass, "Readable", fmt.Sprintf("%d entries", len(entries)))
		return result
	}

	if !c.fix {
		result.Items = append(result.Items, CheckItem{
			Label:   "Readable",
			Status:  StatusFail,
			Detail:  err.Error(),
			Fixable: true,
		})
		return result
	}

	if err := c.store.Clear(ctx); err != nil {
		result.add(StatusFail, "Reset", fmt.Sprintf("failed to reset: %v", err))
		return result
	}
	result.add(StatusPass, "Reset", "cleared unreadable recent records")
	return result
}
