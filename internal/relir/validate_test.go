package relir

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/sqlplan/internal/ir"
)

func TestValidate_ValidPlan(t *testing.T) {
	tbl := alltypes()
	plan := &Limit{
		Table: &Selection{
			Table:      tbl,
			Predicates: []Value{Gt(Col(tbl, "double_col"), Lit(0))},
		},
		N: 10,
	}

	result := Validate(plan)
	assert.True(t, result.IsValid, "warnings: %v", result.Warnings)
	assert.Empty(t, result.Warnings)
}

func TestValidate_Problems(t *testing.T) {
	tbl := alltypes()
	narrow := Table("narrow", F("id", ir.Int64Type))

	tests := []struct {
		name string
		plan Node
		want string
	}{
		{"nil root", nil, "nil plan root"},
		{"missing column", &Selection{Table: tbl, Selections: []Node{Col(tbl, "nope")}}, `column "nope"`},
		{"negative limit", &Limit{Table: tbl, N: -1}, "negative limit"},
		{"bad how", &DropNa{Table: tbl, How: "some"}, "DropNa: how"},
		{"set op schemas", &Union{SetOp{Left: tbl, Right: narrow}}, "operand schemas differ"},
		{"missing input", &Distinct{}, "Distinct: missing input"},
		{"fillna unknown column", &FillNa{Table: tbl, Mapping: map[string]ir.IRValue{"zzz": ir.IRInt(0)}}, `column "zzz"`},
		{"empty aggregation", &Aggregation{Table: tbl}, "no metrics"},
		{"nested nil", &Selection{Table: &Selection{}}, "Selection: missing input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.plan)
			assert.False(t, result.IsValid)
			found := slices.ContainsFunc(result.Warnings, func(w string) bool {
				return strings.Contains(w, tt.want)
			})
			assert.True(t, found, "expected warning containing %q, got %v", tt.want, result.Warnings)
		})
	}
}
