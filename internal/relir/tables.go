package relir

import (
	"github.com/roach88/sqlplan/internal/ir"
)

// PhysicalTable is a named table stored in the backend.
type PhysicalTable struct {
	Name        string
	TableSchema Schema
}

func (*PhysicalTable) Kind() string     { return "PhysicalTable" }
func (*PhysicalTable) irNode()          {}
func (*PhysicalTable) tableNode()       {}
func (*PhysicalTable) leaf()            {}
func (t *PhysicalTable) Schema() Schema { return t.TableSchema }

// SQLQueryResult is the result of a raw SQL query supplied by the caller.
type SQLQueryResult struct {
	Query       string
	TableSchema Schema
}

func (*SQLQueryResult) Kind() string     { return "SQLQueryResult" }
func (*SQLQueryResult) irNode()          {}
func (*SQLQueryResult) tableNode()       {}
func (*SQLQueryResult) leaf()            {}
func (t *SQLQueryResult) Schema() Schema { return t.TableSchema }

// InMemoryTable is a literal table whose rows travel with the plan.
type InMemoryTable struct {
	Name        string
	TableSchema Schema
	Rows        [][]ir.IRValue
}

func (*InMemoryTable) Kind() string     { return "InMemoryTable" }
func (*InMemoryTable) irNode()          {}
func (*InMemoryTable) tableNode()       {}
func (*InMemoryTable) leaf()            {}
func (t *InMemoryTable) Schema() Schema { return t.TableSchema }

// SelfReference gives a table a distinct identity so it can be joined with
// itself.
type SelfReference struct {
	Table TableNode
}

func (*SelfReference) Kind() string     { return "SelfReference" }
func (*SelfReference) irNode()          {}
func (*SelfReference) tableNode()       {}
func (t *SelfReference) Schema() Schema { return t.Table.Schema() }

// JoinKind is the join flavor.
type JoinKind string

const (
	InnerJoin JoinKind = "inner"
	LeftJoin  JoinKind = "left"
	RightJoin JoinKind = "right"
	OuterJoin JoinKind = "outer"
	CrossJoin JoinKind = "cross"
	SemiJoin  JoinKind = "semi"
	AntiJoin  JoinKind = "anti"
)

// Join combines two relations. Joins of more than two relations are
// expressed by nesting: the left (or right) side is itself a Join.
type Join struct {
	How        JoinKind
	Left       TableNode
	Right      TableNode
	Predicates []Value
}

func (*Join) Kind() string { return "Join" }
func (*Join) irNode()      {}
func (*Join) tableNode()   {}

// Schema is the left schema followed by the right schema. Semi and anti joins
// only expose the left side.
func (j *Join) Schema() Schema {
	left := j.Left.Schema()
	if j.How == SemiJoin || j.How == AntiJoin {
		return left
	}
	out := make(Schema, 0, len(left)+len(j.Right.Schema()))
	out = append(out, left...)
	return append(out, j.Right.Schema()...)
}

// Selection projects, filters and sorts one relation.
//
// Semantics:
//
//	SELECT <selections> FROM <table> WHERE <predicates> ORDER BY <sort keys>
//
// Each selection is either a Value (one output column) or a TableNode (all
// columns of that relation). Empty Selections means every column of Table.
type Selection struct {
	Table      TableNode
	Selections []Node
	Predicates []Value
	SortKeys   []*SortKey
}

func (*Selection) Kind() string { return "Selection" }
func (*Selection) irNode()      {}
func (*Selection) tableNode()   {}

func (s *Selection) Schema() Schema {
	if len(s.Selections) == 0 {
		return s.Table.Schema()
	}
	var out Schema
	for _, sel := range s.Selections {
		switch n := sel.(type) {
		case TableNode:
			out = append(out, n.Schema()...)
		case Value:
			out = append(out, Field{Name: n.Name(), Type: n.Type()})
		}
	}
	return out
}

// Aggregation groups one relation.
//
// Semantics:
//
//	SELECT <by>, <metrics> FROM <table> WHERE <predicates>
//	GROUP BY <by> HAVING <having> ORDER BY <sort keys>
type Aggregation struct {
	Table      TableNode
	Metrics    []Value
	By         []Value
	Having     []Value
	Predicates []Value
	SortKeys   []*SortKey
}

func (*Aggregation) Kind() string { return "Aggregation" }
func (*Aggregation) irNode()      {}
func (*Aggregation) tableNode()   {}

func (a *Aggregation) Schema() Schema {
	out := make(Schema, 0, len(a.By)+len(a.Metrics))
	for _, v := range a.By {
		out = append(out, Field{Name: v.Name(), Type: v.Type()})
	}
	for _, v := range a.Metrics {
		out = append(out, Field{Name: v.Name(), Type: v.Type()})
	}
	return out
}

// Distinct removes duplicate rows.
type Distinct struct {
	Table TableNode
}

func (*Distinct) Kind() string     { return "Distinct" }
func (*Distinct) irNode()          {}
func (*Distinct) tableNode()       {}
func (d *Distinct) Schema() Schema { return d.Table.Schema() }

// DropNa how values.
const (
	HowAny = "any"
	HowAll = "all"
)

// DropNa removes rows containing NULLs.
//
// With How "any" a row is dropped when any column in Subset is NULL; with
// "all" only when every column is NULL. An empty Subset means every column
// of Table.
type DropNa struct {
	Table  TableNode
	How    string
	Subset []Value
}

func (*DropNa) Kind() string     { return "DropNa" }
func (*DropNa) irNode()          {}
func (*DropNa) tableNode()       {}
func (d *DropNa) Schema() Schema { return d.Table.Schema() }

// FillNa replaces NULLs.
//
// When Mapping is non-empty each named column is filled with its own value.
// Otherwise Scalar fills every nullable column.
type FillNa struct {
	Table   TableNode
	Mapping map[string]ir.IRValue
	Scalar  ir.IRValue
}

func (*FillNa) Kind() string     { return "FillNa" }
func (*FillNa) irNode()          {}
func (*FillNa) tableNode()       {}
func (f *FillNa) Schema() Schema { return f.Table.Schema() }

// Limit keeps at most N rows after skipping Offset rows.
type Limit struct {
	Table  TableNode
	N      int64
	Offset int64
}

func (*Limit) Kind() string     { return "Limit" }
func (*Limit) irNode()          {}
func (*Limit) tableNode()       {}
func (l *Limit) Schema() Schema { return l.Table.Schema() }

// SetOp is the shared shape of Union, Intersection and Difference.
type SetOp struct {
	Left     TableNode
	Right    TableNode
	Distinct bool
}

// Inputs returns both operands.
func (s *SetOp) Inputs() (TableNode, TableNode) { return s.Left, s.Right }

// Union is UNION (Distinct) or UNION ALL.
type Union struct{ SetOp }

func (*Union) Kind() string     { return "Union" }
func (*Union) irNode()          {}
func (*Union) tableNode()       {}
func (u *Union) Schema() Schema { return u.Left.Schema() }

// Intersection is INTERSECT.
type Intersection struct{ SetOp }

func (*Intersection) Kind() string     { return "Intersection" }
func (*Intersection) irNode()          {}
func (*Intersection) tableNode()       {}
func (i *Intersection) Schema() Schema { return i.Left.Schema() }

// Difference is EXCEPT.
type Difference struct{ SetOp }

func (*Difference) Kind() string     { return "Difference" }
func (*Difference) irNode()          {}
func (*Difference) tableNode()       {}
func (d *Difference) Schema() Schema { return d.Left.Schema() }
