package search

import (
	"context"

	"github.com/hay-kot/scout/internal/query"
)

// Querier runs the two queries a dispatch can ask for. *query.Service
// implements it.
type Querier interface {
	SearchByName(ctx context.Context, model, text string, fields []string) []query.Record
	ListAll(ctx context.Context, model string, fields []string, limit int) []query.Record
}

// Target is the model and projection a view searches.
type Target struct {
	Model  string
	Fields []string
	Limit  int
}

// Run executes the dispatch against q. Failures have already been turned
// into an empty result by the querier.
func (d Dispatch) Run(ctx context.Context, q Querier, t Target) []query.Record {
	switch d.Kind {
	case KindSearch:
		return q.SearchByName(ctx, t.Model, d.Text, t.Fields)
	case KindList:
		return q.ListAll(ctx, t.Model, t.Fields, t.Limit)
	default:
		return []query.Record{}
	}
}
