package record

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/scout/internal/core/config"
	"github.com/hay-kot/scout/internal/query"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.URL = "https://erp.example.com/"
	cfg.Views = map[string]config.View{
		"projects": {
			Title:            "Projects",
			Model:            "project.project",
			Fields:           []string{"id", "name", "display_name", "partner_id", "user_id"},
			DescriptionField: "partner_id",
			URL:              "{{ .BaseURL }}/odoo/project/{{ .ID }}/tasks",
			PreviewFields:    []string{"*_id", "name"},
		},
		"bare": {
			Model:  "res.partner",
			Fields: []string{"id", "name"},
		},
	}
	return &cfg
}

func website() query.Record {
	return query.Record{
		"id":           float64(12),
		"name":         "Website Revamp",
		"display_name": "Acme / Website Revamp",
		"partner_id":   []any{float64(3), "Acme | Corp"},
		"user_id":      false,
	}
}

func TestViews_SortedAndBound(t *testing.T) {
	views := Views(testConfig())
	require.Len(t, views, 2)
	assert.Equal(t, "bare", views[0].Name)
	assert.Equal(t, "projects", views[1].Name)
	assert.Equal(t, "https://erp.example.com", views[1].BaseURL, "trailing slash trimmed")
}

func TestLookup(t *testing.T) {
	v, err := Lookup(testConfig(), "projects")
	require.NoError(t, err)
	assert.Equal(t, "Projects", v.DisplayTitle())

	bare, err := Lookup(testConfig(), "bare")
	require.NoError(t, err)
	assert.Equal(t, "bare", bare.DisplayTitle())

	_, err = Lookup(testConfig(), "nope")
	assert.ErrorContains(t, err, `unknown view "nope"`)
}

func TestView_Target(t *testing.T) {
	v, _ := Lookup(testConfig(), "projects")
	target := v.Target(25)
	assert.Equal(t, "project.project", target.Model)
	assert.Equal(t, 25, target.Limit)
	assert.Contains(t, target.Fields, "id")
}

func TestView_LabelAndDescription(t *testing.T) {
	v, _ := Lookup(testConfig(), "projects")

	assert.Equal(t, "Acme / Website Revamp", v.Label(website()))
	assert.Equal(t, "Acme | Corp", v.Description(website()))
	assert.Equal(t, "project.project #9", v.Label(query.Record{"id": float64(9)}))

	bare, _ := Lookup(testConfig(), "bare")
	assert.Empty(t, bare.Description(website()))
}

func TestView_Link(t *testing.T) {
	v, _ := Lookup(testConfig(), "projects")

	link, err := v.Link(website())
	require.NoError(t, err)
	assert.Equal(t, "https://erp.example.com/odoo/project/12/tasks", link)

	bare, _ := Lookup(testConfig(), "bare")
	_, err = bare.Link(website())
	assert.True(t, errors.Is(err, ErrNoLink))

	broken := v
	broken.URL = "{{ .Nope }}"
	_, err = broken.Link(website())
	assert.ErrorContains(t, err, "render projects url")
}

func TestView_ShellData(t *testing.T) {
	v, _ := Lookup(testConfig(), "projects")

	data := v.ShellData(website())
	assert.Equal(t, int64(12), data.ID)
	assert.Equal(t, "projects", data.View)
	assert.Equal(t, "https://erp.example.com/odoo/project/12/tasks", data.URL)
	assert.Equal(t, "Acme | Corp", data.Fields["partner_id"])
	assert.Equal(t, "", data.Fields["user_id"])
}

func TestView_Preview(t *testing.T) {
	v, _ := Lookup(testConfig(), "projects")

	got := v.Preview(website())
	assert.Equal(t, []Field{
		{Name: "name", Value: "Website Revamp"},
		{Name: "partner_id", Value: "Acme | Corp"},
		{Name: "user_id", Value: ""},
	}, got)

	bare, _ := Lookup(testConfig(), "bare")
	assert.Equal(t, []Field{{Name: "name", Value: "Website Revamp"}}, bare.Preview(website()),
		"no patterns shows every fetched field except id")
}

func TestView_Markdown(t *testing.T) {
	v, _ := Lookup(testConfig(), "projects")

	md := v.Markdown(website())
	assert.Contains(t, md, "# Acme / Website Revamp")
	assert.Contains(t, md, "`project.project` #12")
	assert.Contains(t, md, `| partner_id | Acme \| Corp |`)
	assert.Contains(t, md, "| user_id | - |")
	assert.Contains(t, md, "<https://erp.example.com/odoo/project/12/tasks>")
}

func TestView_Entry(t *testing.T) {
	v, _ := Lookup(testConfig(), "projects")
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	e := v.Entry(website(), now)
	assert.Equal(t, "projects", e.View)
	assert.Equal(t, "project.project", e.Model)
	assert.Equal(t, int64(12), e.RecordID)
	assert.Equal(t, "Acme / Website Revamp", e.Name)
	assert.Equal(t, "https://erp.example.com/odoo/project/12/tasks", e.URL)
	assert.Equal(t, now, e.OpenedAt)
}
