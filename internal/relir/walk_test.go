package relir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/sqlplan/internal/ir"
)

func TestArgs_Order(t *testing.T) {
	tbl := alltypes()
	id := Col(tbl, "id")
	pred := Gt(id, Lit(1))
	key := Asc(id)
	sel := &Selection{Table: tbl, Selections: []Node{id}, Predicates: []Value{pred}, SortKeys: []*SortKey{key}}

	assert.Equal(t, []Node{tbl, id, pred, key}, Args(sel))
	assert.Empty(t, Args(tbl))
	assert.Equal(t, []Node{id}, Args(&Reduction{Func: FuncSum, Arg: id}), "nil Where is skipped")
}

func TestWalk_VisitsSharedNodesOnce(t *testing.T) {
	tbl := alltypes()
	left := &Selection{Table: tbl, Predicates: []Value{Gt(Col(tbl, "id"), Lit(1))}}
	right := &Selection{Table: tbl, Predicates: []Value{Lt(Col(tbl, "id"), Lit(9))}}
	join := &Join{How: InnerJoin, Left: left, Right: right}

	counts := map[Node]int{}
	Walk(func(n Node) bool {
		counts[n]++
		return true
	}, join)

	assert.Equal(t, 1, counts[tbl])
	assert.Equal(t, 1, counts[left])
	assert.Equal(t, 1, counts[right])
}

func TestWalk_Prune(t *testing.T) {
	tbl := alltypes()
	sel := &Selection{Table: tbl}
	var seen []string
	Walk(func(n Node) bool {
		seen = append(seen, n.Kind())
		return false
	}, sel)
	assert.Equal(t, []string{"Selection"}, seen)
}

func TestDirectTables(t *testing.T) {
	tbl := alltypes()
	other := Table("other", F("id", ir.Int64Type))
	inner := &Selection{Table: other}

	sel := &Selection{
		Table:      tbl,
		Predicates: []Value{Eq(Col(tbl, "id"), Col(inner, "id"))},
	}
	assert.Equal(t, []TableNode{tbl, inner}, DirectTables(sel))

	v := Binary(OpAdd, Col(tbl, "id"), Col(tbl, "double_col"))
	assert.Equal(t, []TableNode{tbl}, RootTables(v))
	assert.Empty(t, RootTables(Lit(3)))
}
