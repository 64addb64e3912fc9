package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/scout/internal/core/record"
	"github.com/hay-kot/scout/internal/query"
)

// RecordItem wraps a record for the list component.
type RecordItem struct {
	Record query.Record
	label  string
	desc   string
}

// NewRecordItem prepares rec for display in view.
func NewRecordItem(view record.View, rec query.Record) RecordItem {
	return RecordItem{
		Record: rec,
		label:  view.Label(rec),
		desc:   view.Description(rec),
	}
}

// FilterValue returns the value used for filtering.
func (i RecordItem) FilterValue() string {
	return i.label
}

func toItems(view record.View, records []query.Record) []list.Item {
	items := make([]list.Item, 0, len(records))
	for _, rec := range records {
		items = append(items, NewRecordItem(view, rec))
	}
	return items
}

// RecordDelegate handles rendering of record items in the list.
type RecordDelegate struct {
	Styles RecordDelegateStyles
}

// RecordDelegateStyles defines the styles for the delegate.
type RecordDelegateStyles struct {
	Normal      lipgloss.Style
	Selected    lipgloss.Style
	Description lipgloss.Style
}

// NewRecordDelegate creates a new record delegate with default styles.
func NewRecordDelegate() RecordDelegate {
	return RecordDelegate{
		Styles: RecordDelegateStyles{
			Normal:      normalStyle,
			Selected:    selectedStyle,
			Description: descStyle,
		},
	}
}

// Height returns the height of each item.
func (d RecordDelegate) Height() int {
	return 2
}

// Spacing returns the spacing between items.
func (d RecordDelegate) Spacing() int {
	return 0
}

// Update handles item updates.
func (d RecordDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render renders a single item.
func (d RecordDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(RecordItem)
	if !ok {
		return
	}

	title := it.label
	var style lipgloss.Style
	if index == m.Index() {
		style = d.Styles.Selected
		title = "> " + title
	} else {
		style = d.Styles.Normal
		title = "  " + title
	}

	_, _ = fmt.Fprintf(w, "%s\n", style.Render(title))
	_, _ = fmt.Fprintf(w, "    %s", d.Styles.Description.Render(it.desc))
}
