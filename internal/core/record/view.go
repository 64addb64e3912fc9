// Package record binds configured views to fetched records: titles,
// descriptions, deep links and preview text.
package record

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/hay-kot/scout/internal/core/config"
	"github.com/hay-kot/scout/internal/core/recent"
	"github.com/hay-kot/scout/internal/query"
	"github.com/hay-kot/scout/internal/search"
	"github.com/hay-kot/scout/pkg/tmpl"
)

// ErrNoLink is returned by Link when the view has no url template.
var ErrNoLink = errors.New("view has no url template")

// View is a configured view bound to a backend base URL.
type View struct {
	Name    string
	BaseURL string
	config.View
}

// Views returns every configured view, sorted by name.
func Views(cfg *config.Config) []View {
	names := make([]string, 0, len(cfg.Views))
	for name := range cfg.Views {
		names = append(names, name)
	}
	sort.Strings(names)

	views := make([]View, 0, len(names))
	for _, name := range names {
		views = append(views, newView(cfg, name))
	}
	return views
}

// Lookup returns the named view.
func Lookup(cfg *config.Config, name string) (View, error) {
	if _, ok := cfg.Views[name]; !ok {
		return View{}, fmt.Errorf("unknown view %q (see `scout views`)", name)
	}
	return newView(cfg, name), nil
}

func newView(cfg *config.Config, name string) View {
	return View{
		Name:    name,
		BaseURL: strings.TrimRight(cfg.URL, "/"),
		View:    cfg.Views[name],
	}
}

// DisplayTitle is the view's heading, defaulting to its name.
func (v View) DisplayTitle() string {
	if v.View.Title != "" {
		return v.View.Title
	}
	return v.Name
}

// Target is what the search controller queries for this view.
func (v View) Target(limit int) search.Target {
	return search.Target{Model: v.Model, Fields: v.Fields, Limit: limit}
}

// Label is the record's list label.
func (v View) Label(r query.Record) string {
	if name := r.Name(); name != "" {
		return name
	}
	id, _ := r.ID()
	return fmt.Sprintf("%s #%d", v.Model, id)
}

// Description is the record's secondary line.
func (v View) Description(r query.Record) string {
	if v.DescriptionField == "" {
		return ""
	}
	return r.String(v.DescriptionField)
}

// Data returns the template data for r. The URL field is left empty.
func (v View) Data(r query.Record) config.RecordTemplateData {
	id, _ := r.ID()
	fields := make(map[string]string, len(v.Fields))
	for _, f := range v.Fields {
		fields[f] = r.String(f)
	}
	return config.RecordTemplateData{
		BaseURL: v.BaseURL,
		View:    v.Name,
		Model:   v.Model,
		ID:      id,
		Name:    r.Name(),
		Fields:  fields,
	}
}

// Link renders the record's deep link.
func (v View) Link(r query.Record) (string, error) {
	if v.URL == "" {
		return "", ErrNoLink
	}
	link, err := tmpl.Render(v.URL, v.Data(r))
	if err != nil {
		return "", fmt.Errorf("render %s url: %w", v.Name, err)
	}
	return strings.TrimSpace(link), nil
}

// ShellData is Data with the URL filled in when the view has one.
func (v View) ShellData(r query.Record) config.RecordTemplateData {
	data := v.Data(r)
	if link, err := v.Link(r); err == nil {
		data.URL = link
	}
	return data
}

// Field is a labelled value shown in the preview.
type Field struct {
	Name  string
	Value string
}

// Preview returns the fetched fields matching the view's preview patterns,
// in fetch order. The id field is never included.
func (v View) Preview(r query.Record) []Field {
	patterns := v.View.PreviewFields
	if len(patterns) == 0 {
		patterns = []string{"*"}
	}

	var out []Field
	for _, name := range v.Fields {
		if name == "id" || !matchAny(patterns, name) {
			continue
		}
		out = append(out, Field{Name: name, Value: r.String(name)})
	}
	return out
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}

// Markdown renders the record preview as markdown.
func (v View) Markdown(r query.Record) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", v.Label(r))

	id, _ := r.ID()
	fmt.Fprintf(&b, "`%s` #%d\n\n", v.Model, id)

	if fields := v.Preview(r); len(fields) > 0 {
		b.WriteString("| Field | Value |\n|---|---|\n")
		for _, f := range fields {
			value := f.Value
			if value == "" {
				value = "-"
			}
			fmt.Fprintf(&b, "| %s | %s |\n", f.Name, escapeCell(value))
		}
		b.WriteString("\n")
	}

	if link, err := v.Link(r); err == nil {
		fmt.Fprintf(&b, "<%s>\n", link)
	}

	return b.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// Entry builds the recent entry for r.
func (v View) Entry(r query.Record, now time.Time) recent.Entry {
	id, _ := r.ID()
	link, _ := v.Link(r)
	return recent.Entry{
		View:     v.Name,
		Model:    v.Model,
		RecordID: id,
		Name:     v.Label(r),
		URL:      link,
		OpenedAt: now,
	}
}
