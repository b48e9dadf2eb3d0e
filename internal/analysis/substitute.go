package analysis

import (
	"github.com/roach88/sqlplan/internal/relir"
)

// SubstituteParents resolves column references that point at a Selection
// which projects a physical table wholesale, replacing them with references
// to that physical table. Substitution does not descend into Selection
// inputs. Aggregation and Join nodes are rebuilt when any of their
// expressions change; every other node is returned unchanged.
//
// SubstituteParents is idempotent.
func SubstituteParents(n relir.TableNode) relir.TableNode {
	s := &substituter{memo: make(map[relir.Value]relir.Value)}
	return s.table(n)
}

type substituter struct {
	memo map[relir.Value]relir.Value
}

func (s *substituter) table(n relir.TableNode) relir.TableNode {
	switch t := n.(type) {
	case *relir.Aggregation:
		table := s.joinInput(t.Table)
		metrics, c1 := s.values(t.Metrics)
		by, c2 := s.values(t.By)
		having, c3 := s.values(t.Having)
		predicates, c4 := s.values(t.Predicates)
		sortKeys, c5 := s.sortKeys(t.SortKeys)
		if table == t.Table && !(c1 || c2 || c3 || c4 || c5) {
			return t
		}
		return &relir.Aggregation{
			Table:      table,
			Metrics:    metrics,
			By:         by,
			Having:     having,
			Predicates: predicates,
			SortKeys:   sortKeys,
		}
	case *relir.Join:
		left := s.joinInput(t.Left)
		right := s.joinInput(t.Right)
		predicates, changed := s.values(t.Predicates)
		if left == t.Left && right == t.Right && !changed {
			return t
		}
		return &relir.Join{How: t.How, Left: left, Right: right, Predicates: predicates}
	default:
		return n
	}
}

// joinInput substitutes inside nested joins and leaves other inputs alone.
func (s *substituter) joinInput(n relir.TableNode) relir.TableNode {
	if j, ok := n.(*relir.Join); ok {
		return s.table(j)
	}
	return n
}

func (s *substituter) values(vs []relir.Value) ([]relir.Value, bool) {
	if len(vs) == 0 {
		return vs, false
	}
	out := make([]relir.Value, len(vs))
	changed := false
	for i, v := range vs {
		out[i] = s.value(v)
		if out[i] != v {
			changed = true
		}
	}
	if !changed {
		return vs, false
	}
	return out, true
}

func (s *substituter) sortKeys(keys []*relir.SortKey) ([]*relir.SortKey, bool) {
	if len(keys) == 0 {
		return keys, false
	}
	out := make([]*relir.SortKey, len(keys))
	changed := false
	for i, k := range keys {
		out[i] = k
		if nk := s.value(k); nk != relir.Value(k) {
			out[i] = nk.(*relir.SortKey)
			changed = true
		}
	}
	if !changed {
		return keys, false
	}
	return out, true
}

func (s *substituter) value(v relir.Value) relir.Value {
	if v == nil {
		return nil
	}
	if done, ok := s.memo[v]; ok {
		return done
	}
	out := s.rewrite(v)
	s.memo[v] = out
	return out
}

func (s *substituter) rewrite(v relir.Value) relir.Value {
	switch n := v.(type) {
	case *relir.TableColumn:
		return liftColumn(n)
	case *relir.Alias:
		if arg := s.value(n.Arg); arg != n.Arg {
			return &relir.Alias{Arg: arg, As: n.As}
		}
	case *relir.BinaryOp:
		l, r := s.value(n.Left), s.value(n.Right)
		if l != n.Left || r != n.Right {
			return &relir.BinaryOp{Op: n.Op, Left: l, Right: r}
		}
	case *relir.Not:
		if arg := s.value(n.Arg); arg != n.Arg {
			return &relir.Not{Arg: arg}
		}
	case *relir.IsNull:
		if arg := s.value(n.Arg); arg != n.Arg {
			return &relir.IsNull{Arg: arg}
		}
	case *relir.NotNull:
		if arg := s.value(n.Arg); arg != n.Arg {
			return &relir.NotNull{Arg: arg}
		}
	case *relir.Coalesce:
		if args, changed := s.values(n.Args); changed {
			return &relir.Coalesce{Args: args}
		}
	case *relir.Reduction:
		arg, where := s.value(n.Arg), s.value(n.Where)
		if arg != n.Arg || where != n.Where {
			return &relir.Reduction{Func: n.Func, Arg: arg, Where: where}
		}
	case *relir.CountStar:
		if where := s.value(n.Where); where != n.Where {
			return &relir.CountStar{Table: n.Table, Where: where}
		}
	case *relir.ExistsSubquery:
		if preds, changed := s.values(n.Predicates); changed {
			return &relir.ExistsSubquery{Table: n.Table, Predicates: preds, Negated: n.Negated}
		}
	case *relir.InSubquery:
		arg := s.value(n.Arg)
		if arg != n.Arg {
			return &relir.InSubquery{Arg: arg, Options: n.Options, Negated: n.Negated}
		}
	case *relir.SortKey:
		if expr := s.value(n.Expr); expr != n.Expr {
			return &relir.SortKey{Expr: expr, Ascending: n.Ascending}
		}
	}
	return v
}

// liftColumn points c at the physical table a wholesale projection selected
// it from, when there is one.
func liftColumn(c *relir.TableColumn) relir.Value {
	sel, ok := c.Table.(*relir.Selection)
	if !ok {
		return c
	}
	for _, item := range sel.Selections {
		pt, ok := item.(*relir.PhysicalTable)
		if !ok {
			continue
		}
		if _, found := pt.Schema().Lookup(c.Column); found {
			return &relir.TableColumn{Table: pt, Column: c.Column}
		}
	}
	return c
}
