package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name   string
		domain Domain
		want   string
	}{
		{
			name:   "match all",
			domain: MatchAll,
			want:   `[]`,
		},
		{
			name:   "nil domain",
			domain: nil,
			want:   `[]`,
		},
		{
			name:   "single condition",
			domain: Cond("active", OpEqual, true),
			want:   `[["active","=",true]]`,
		},
		{
			name:   "name match",
			domain: NameMatch("web"),
			want:   `["|",["name","ilike","web"],["display_name","ilike","web"]]`,
		},
		{
			name:   "three way or",
			domain: Or(Cond("a", OpEqual, 1), Cond("b", OpEqual, 2), Cond("c", OpEqual, 3)),
			want:   `["|","|",["a","=",1],["b","=",2],["c","=",3]]`,
		},
		{
			name:   "and of or",
			domain: And(Cond("active", OpEqual, true), NameMatch("x")),
			want:   `["&",["active","=",true],"|",["name","ilike","x"],["display_name","ilike","x"]]`,
		},
		{
			name:   "single child collapses",
			domain: Or(Cond("a", OpEqual, 1)),
			want:   `[["a","=",1]]`,
		},
		{
			name:   "empty children are dropped",
			domain: And(MatchAll, Cond("a", OpEqual, 1), Or()),
			want:   `[["a","=",1]]`,
		},
		{
			name:   "empty junction matches all",
			domain: Or(),
			want:   `[]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.JSONEq(t, tt.want, MarshalDomain(tt.domain))
		})
	}
}
