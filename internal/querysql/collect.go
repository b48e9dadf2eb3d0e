package querysql

import (
	"fmt"

	"github.com/roach88/sqlplan/internal/analysis"
	"github.com/roach88/sqlplan/internal/ir"
	"github.com/roach88/sqlplan/internal/relir"
)

// LimitSpec is a LIMIT n OFFSET offset clause.
type LimitSpec struct {
	N      int64 `json:"n" msgpack:"n"`
	Offset int64 `json:"offset" msgpack:"offset"`
}

// Compose applies the limit inner to rows already limited by l, where l
// wraps inner: the tighter row cap wins and offsets add up.
func (l LimitSpec) Compose(inner LimitSpec) LimitSpec {
	return LimitSpec{N: min(l.N, inner.N), Offset: l.Offset + inner.Offset}
}

// ClauseState is the clause content accumulated while collecting one
// statement.
type ClauseState struct {
	TableSet  relir.TableNode
	SelectSet []relir.Node
	Filters   []relir.Value
	GroupBy   []int
	Having    []relir.Value
	Limit     *LimitSpec
	OrderBy   []*relir.SortKey
	Distinct  bool
}

// collect walks n and returns st updated with n's clauses. Only toplevel
// nodes set clause content; other nodes are visited to check that their
// kind is supported.
func collect(n relir.TableNode, toplevel bool, st ClauseState) (ClauseState, error) {
	switch n := n.(type) {
	case *relir.Distinct:
		if toplevel {
			st.Distinct = true
		}
		return collect(n.Table, toplevel, st)

	case *relir.DropNa:
		if toplevel {
			return collectDropNa(n, st), nil
		}
		return st, nil

	case *relir.FillNa:
		if toplevel {
			return collect(fillNaSelection(n), true, st)
		}
		return st, nil

	case *relir.Limit:
		if !toplevel {
			return st, nil
		}
		spec := LimitSpec{N: n.N, Offset: n.Offset}
		if st.Limit != nil {
			spec = st.Limit.Compose(spec)
		}
		st.Limit = &spec
		return collect(n.Table, true, st)

	case *relir.Union, *relir.Intersection, *relir.Difference:
		if toplevel {
			st.TableSet = n
			st.SelectSet = []relir.Node{n}
		}
		return st, nil

	case *relir.Aggregation:
		if !toplevel {
			return st, nil
		}
		sub := analysis.SubstituteParents(n).(*relir.Aggregation)
		st.GroupBy = positions(len(sub.By))
		st.SelectSet = make([]relir.Node, 0, len(sub.By)+len(sub.Metrics))
		for _, v := range sub.By {
			st.SelectSet = append(st.SelectSet, v)
		}
		for _, v := range sub.Metrics {
			st.SelectSet = append(st.SelectSet, v)
		}
		st.Having = sub.Having
		st.TableSet = sub.Table
		st.Filters = sub.Predicates
		st.OrderBy = sub.SortKeys
		return collect(n.Table, false, st)

	case *relir.Selection:
		if !toplevel {
			return st, nil
		}
		var err error
		if st, err = collect(n.Table, false, st); err != nil {
			return st, err
		}
		if len(n.Selections) == 0 {
			st.SelectSet = []relir.Node{n.Table}
		} else {
			st.SelectSet = n.Selections
		}
		st.OrderBy = n.SortKeys
		st.TableSet = n.Table
		st.Filters = n.Predicates
		return st, nil

	case relir.Leaf:
		if toplevel {
			st.SelectSet = []relir.Node{n}
			st.TableSet = n
		}
		return st, nil

	case *relir.Join:
		if toplevel {
			sub := analysis.SubstituteParents(n)
			st.TableSet = sub
			st.SelectSet = []relir.Node{sub}
			return st, nil
		}
		// Check every participant of a join nested in a FROM clause.
		var err error
		if st, err = collect(n.Left, false, st); err != nil {
			return st, err
		}
		return collect(n.Right, false, st)

	case *relir.SelfReference:
		return collect(n.Table, toplevel, st)

	default:
		if n == nil {
			return st, fmt.Errorf("collect: missing table: %w", ErrNotImplemented)
		}
		return st, fmt.Errorf("collect %s: %w", n.Kind(), ErrNotImplemented)
	}
}

// collectDropNa lowers DropNa to a filter over its input.
func collectDropNa(n *relir.DropNa, st ClauseState) ClauseState {
	columns := n.Subset
	if len(columns) == 0 {
		for _, f := range n.Table.Schema() {
			columns = append(columns, relir.Col(n.Table, f.Name))
		}
	}

	st.TableSet = n.Table
	st.SelectSet = []relir.Node{n.Table}
	st.Filters = nil

	if len(columns) == 0 {
		if n.How == relir.HowAll {
			st.Filters = []relir.Value{&relir.Literal{Value: ir.IRBool(false)}}
		}
		return st
	}

	preds := make([]relir.Value, len(columns))
	for i, c := range columns {
		preds[i] = &relir.NotNull{Arg: c}
	}
	if n.How == relir.HowAll {
		st.Filters = []relir.Value{relir.OrAll(preds[0], preds[1:]...)}
	} else {
		st.Filters = []relir.Value{relir.AndAll(preds[0], preds[1:]...)}
	}
	return st
}

// fillNaSelection lowers FillNa to a projection that coalesces each
// replaced column with its fill value. Columns keep their schema order.
func fillNaSelection(n *relir.FillNa) relir.TableNode {
	schema := n.Table.Schema()
	fills := make(map[string]ir.IRValue)
	if len(n.Mapping) > 0 {
		for _, f := range schema {
			if v, ok := n.Mapping[f.Name]; ok {
				fills[f.Name] = v
			}
		}
	} else if n.Scalar != nil {
		for _, f := range schema {
			if f.Type.Nullable() {
				fills[f.Name] = n.Scalar
			}
		}
	}
	if len(fills) == 0 {
		return n.Table
	}

	selections := make([]relir.Node, len(schema))
	for i, f := range schema {
		col := relir.Col(n.Table, f.Name)
		v, ok := fills[f.Name]
		if !ok {
			selections[i] = col
			continue
		}
		filled := &relir.Coalesce{Args: []relir.Value{col, &relir.Literal{Value: v}}}
		selections[i] = relir.As(filled, f.Name)
	}
	return &relir.Selection{Table: n.Table, Selections: selections}
}

// positions returns 1..n.
func positions(n int) []int {
	if n == 0 {
		return nil
	}
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
