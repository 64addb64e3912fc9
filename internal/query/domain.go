// Package query builds backend search predicates and exposes the search
// and list helpers views consume. It is the error boundary between the rpc
// layer and the user: failures become notifications plus empty results.
package query

import "encoding/json"

// Operators understood by the backend.
const (
	OpEqual    = "="
	OpNotEqual = "!="
	OpILike    = "ilike"
	OpLike     = "like"
	OpIn       = "in"
	OpNotIn    = "not in"
)

// Domain is a filter predicate evaluated by the backend. Build one with
// Cond, Or and And; MatchAll is the empty predicate.
type Domain interface {
	// terms appends the prefix-notation encoding of the domain.
	terms(dst []any) []any
	// leaves counts conditions; junctions without any are dropped.
	leaves() int
}

type condition struct {
	field string
	op    string
	value any
}

type junction struct {
	op       string // "|" or "&"
	children []Domain
}

type matchAll struct{}

// MatchAll matches every record.
var MatchAll Domain = matchAll{}

// Cond is a single field/operator/value triple.
func Cond(field, op string, value any) Domain {
	return condition{field: field, op: op, value: value}
}

// Or matches records satisfying any of the children.
func Or(children ...Domain) Domain {
	return newJunction("|", children)
}

// And matches records satisfying all of the children.
func And(children ...Domain) Domain {
	return newJunction("&", children)
}

func newJunction(op string, children []Domain) Domain {
	kept := make([]Domain, 0, len(children))
	for _, c := range children {
		if c == nil || c.leaves() == 0 {
			continue
		}
		kept = append(kept, c)
	}
	switch len(kept) {
	case 0:
		return MatchAll
	case 1:
		return kept[0]
	}
	return junction{op: op, children: kept}
}

// NameMatch is a case-insensitive substring match on either naming field.
func NameMatch(text string) Domain {
	return Or(
		Cond("name", OpILike, text),
		Cond("display_name", OpILike, text),
	)
}

func (c condition) terms(dst []any) []any {
	return append(dst, []any{c.field, c.op, c.value})
}

func (c condition) leaves() int { return 1 }

// terms emits n-1 prefix operators followed by the children, which is how
// the backend expresses an n-ary junction.
func (j junction) terms(dst []any) []any {
	for range len(j.children) - 1 {
		dst = append(dst, j.op)
	}
	for _, c := range j.children {
		dst = c.terms(dst)
	}
	return dst
}

func (j junction) leaves() int {
	n := 0
	for _, c := range j.children {
		n += c.leaves()
	}
	return n
}

func (matchAll) terms(dst []any) []any { return dst }
func (matchAll) leaves() int           { return 0 }

// Encode returns the prefix-notation list sent as the first positional
// argument of search_read. MatchAll encodes to an empty list.
func Encode(d Domain) []any {
	if d == nil {
		return []any{}
	}
	return d.terms([]any{})
}

// MarshalDomain is a convenience for logging and tests.
func MarshalDomain(d Domain) string {
	data, err := json.Marshal(Encode(d))
	if err != nil {
		return "[]"
	}
	return string(data)
}
