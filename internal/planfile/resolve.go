package planfile

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/sqlplan/internal/ir"
	"github.com/roach88/sqlplan/internal/relir"
)

const (
	visiting = iota + 1
	resolved
)

type resolver struct {
	doc   *Document
	nodes map[string]relir.TableNode
	state map[string]int
}

func newResolver(doc *Document) *resolver {
	return &resolver{
		doc:   doc,
		nodes: make(map[string]relir.TableNode, len(doc.Nodes)),
		state: make(map[string]int, len(doc.Nodes)),
	}
}

// all resolves every node in name order so errors are reported
// deterministically.
func (r *resolver) all() error {
	ids := make([]string, 0, len(r.doc.Nodes))
	for id := range r.doc.Nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if _, err := r.table(id, "nodes."+id); err != nil {
			return err
		}
	}
	return nil
}

// table resolves the node named id. path locates the reference for error
// reporting.
func (r *resolver) table(id, path string) (relir.TableNode, error) {
	switch r.state[id] {
	case resolved:
		return r.nodes[id], nil
	case visiting:
		return nil, &LoadError{Code: ErrCodeCycle, Path: path, Message: fmt.Sprintf("node %q depends on itself", id)}
	}
	def, ok := r.doc.Nodes[id]
	if !ok {
		return nil, &LoadError{Code: ErrCodeUnknownRef, Path: path, Message: fmt.Sprintf("undefined node %q", id)}
	}

	r.state[id] = visiting
	n, err := r.build(def, "nodes."+id)
	if err != nil {
		return nil, err
	}
	r.state[id] = resolved
	r.nodes[id] = n
	return n, nil
}

func (r *resolver) input(id, path string) (relir.TableNode, error) {
	if id == "" {
		return nil, invalidNode(path, "missing input node")
	}
	return r.table(id, path)
}

func (r *resolver) build(def NodeDef, path string) (relir.TableNode, error) {
	switch def.Kind {
	case "table":
		schema, err := r.schema(def.Schema, path)
		if err != nil {
			return nil, err
		}
		if def.Name == "" {
			return nil, invalidNode(path, "table needs a name")
		}
		return &relir.PhysicalTable{Name: def.Name, TableSchema: schema}, nil

	case "sql":
		schema, err := r.schema(def.Schema, path)
		if err != nil {
			return nil, err
		}
		if def.Query == "" {
			return nil, invalidNode(path, "sql needs a query")
		}
		return &relir.SQLQueryResult{Query: def.Query, TableSchema: schema}, nil

	case "memory":
		schema, err := r.schema(def.Schema, path)
		if err != nil {
			return nil, err
		}
		rows := make([][]ir.IRValue, len(def.Rows))
		for i, row := range def.Rows {
			if len(row) != len(schema) {
				return nil, invalidNode(fmt.Sprintf("%s.rows[%d]", path, i), "row has %d values, schema has %d columns", len(row), len(schema))
			}
			rows[i] = make([]ir.IRValue, len(row))
			for j, v := range row {
				if rows[i][j], err = ir.FromAny(v); err != nil {
					return nil, invalidNode(fmt.Sprintf("%s.rows[%d][%d]", path, i, j), "%v", err)
				}
			}
		}
		return &relir.InMemoryTable{Name: def.Name, TableSchema: schema, Rows: rows}, nil

	case "selection":
		table, err := r.input(def.Table, path+".table")
		if err != nil {
			return nil, err
		}
		sel := &relir.Selection{Table: table}
		for i, e := range def.Select {
			item, err := r.selectItem(e, fmt.Sprintf("%s.select[%d]", path, i))
			if err != nil {
				return nil, err
			}
			sel.Selections = append(sel.Selections, item)
		}
		if sel.Predicates, err = r.exprs(def.Predicates, path+".predicates"); err != nil {
			return nil, err
		}
		if sel.SortKeys, err = r.sortKeys(def.Sort, path+".sort"); err != nil {
			return nil, err
		}
		return sel, nil

	case "aggregation":
		table, err := r.input(def.Table, path+".table")
		if err != nil {
			return nil, err
		}
		agg := &relir.Aggregation{Table: table}
		if agg.By, err = r.exprs(def.By, path+".by"); err != nil {
			return nil, err
		}
		if agg.Metrics, err = r.exprs(def.Metrics, path+".metrics"); err != nil {
			return nil, err
		}
		if agg.Having, err = r.exprs(def.Having, path+".having"); err != nil {
			return nil, err
		}
		if agg.Predicates, err = r.exprs(def.Predicates, path+".predicates"); err != nil {
			return nil, err
		}
		if agg.SortKeys, err = r.sortKeys(def.Sort, path+".sort"); err != nil {
			return nil, err
		}
		return agg, nil

	case "join":
		how := relir.JoinKind(def.How)
		if how == "" {
			how = relir.InnerJoin
		}
		if !validJoinKinds[how] {
			return nil, invalidNode(path+".how", "unknown join kind %q", def.How)
		}
		left, right, err := r.pair(def, path)
		if err != nil {
			return nil, err
		}
		preds, err := r.exprs(def.Predicates, path+".predicates")
		if err != nil {
			return nil, err
		}
		return &relir.Join{How: how, Left: left, Right: right, Predicates: preds}, nil

	case "distinct":
		table, err := r.input(def.Table, path+".table")
		if err != nil {
			return nil, err
		}
		return &relir.Distinct{Table: table}, nil

	case "dropna":
		table, err := r.input(def.Table, path+".table")
		if err != nil {
			return nil, err
		}
		how := def.How
		if how == "" {
			how = relir.HowAny
		}
		if how != relir.HowAny && how != relir.HowAll {
			return nil, invalidNode(path+".how", "dropna how must be %q or %q, got %q", relir.HowAny, relir.HowAll, def.How)
		}
		subset, err := r.exprs(def.Subset, path+".subset")
		if err != nil {
			return nil, err
		}
		return &relir.DropNa{Table: table, How: how, Subset: subset}, nil

	case "fillna":
		table, err := r.input(def.Table, path+".table")
		if err != nil {
			return nil, err
		}
		fill := &relir.FillNa{Table: table}
		if len(def.Mapping) > 0 {
			fill.Mapping = make(map[string]ir.IRValue, len(def.Mapping))
			for name, v := range def.Mapping {
				if fill.Mapping[name], err = ir.FromAny(v); err != nil {
					return nil, invalidNode(path+".mapping."+name, "%v", err)
				}
			}
		} else if def.Fill != nil {
			if fill.Scalar, err = ir.FromAny(def.Fill); err != nil {
				return nil, invalidNode(path+".fill", "%v", err)
			}
		} else {
			return nil, invalidNode(path, "fillna needs mapping or fill")
		}
		return fill, nil

	case "limit":
		table, err := r.input(def.Table, path+".table")
		if err != nil {
			return nil, err
		}
		if def.N == nil {
			return nil, invalidNode(path, "limit needs n")
		}
		return &relir.Limit{Table: table, N: *def.N, Offset: def.Offset}, nil

	case "union", "intersection", "difference":
		left, right, err := r.pair(def, path)
		if err != nil {
			return nil, err
		}
		op := relir.SetOp{Left: left, Right: right, Distinct: def.Distinct}
		switch def.Kind {
		case "union":
			return &relir.Union{SetOp: op}, nil
		case "intersection":
			return &relir.Intersection{SetOp: op}, nil
		default:
			return &relir.Difference{SetOp: op}, nil
		}

	case "self_reference":
		table, err := r.input(def.Table, path+".table")
		if err != nil {
			return nil, err
		}
		return &relir.SelfReference{Table: table}, nil

	case "":
		return nil, invalidNode(path, "missing kind")
	default:
		return nil, invalidNode(path+".kind", "unknown node kind %q", def.Kind)
	}
}

var validJoinKinds = map[relir.JoinKind]bool{
	relir.InnerJoin: true, relir.LeftJoin: true, relir.RightJoin: true,
	relir.OuterJoin: true, relir.CrossJoin: true, relir.SemiJoin: true, relir.AntiJoin: true,
}

func (r *resolver) pair(def NodeDef, path string) (relir.TableNode, relir.TableNode, error) {
	if def.Left == "" || def.Right == "" {
		return nil, nil, invalidNode(path, "%s needs left and right", def.Kind)
	}
	left, err := r.table(def.Left, path+".left")
	if err != nil {
		return nil, nil, err
	}
	right, err := r.table(def.Right, path+".right")
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func (r *resolver) schema(fields []FieldDef, path string) (relir.Schema, error) {
	schema := make(relir.Schema, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			return nil, invalidNode(fmt.Sprintf("%s.schema[%d]", path, i), "field needs a name")
		}
		t, err := ir.ParseType(f.Type)
		if err != nil {
			return nil, invalidNode(fmt.Sprintf("%s.schema[%d]", path, i), "%v", err)
		}
		schema[i] = relir.F(f.Name, t)
	}
	return schema, nil
}

func (r *resolver) selectItem(e Expr, path string) (relir.Node, error) {
	if e.Table != "" && e.Fn == "" {
		return r.table(e.Table, path+".table")
	}
	return r.expr(e, path)
}

func (r *resolver) exprs(es []Expr, path string) ([]relir.Value, error) {
	if len(es) == 0 {
		return nil, nil
	}
	out := make([]relir.Value, len(es))
	for i, e := range es {
		v, err := r.expr(e, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (r *resolver) sortKeys(es []Expr, path string) ([]*relir.SortKey, error) {
	if len(es) == 0 {
		return nil, nil
	}
	out := make([]*relir.SortKey, len(es))
	for i, e := range es {
		v, err := r.expr(e, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out[i] = &relir.SortKey{Expr: v, Ascending: !e.Desc}
	}
	return out, nil
}

func (r *resolver) expr(e Expr, path string) (relir.Value, error) {
	v, err := r.bareExpr(e, path)
	if err != nil {
		return nil, err
	}
	if e.As != "" {
		return relir.As(v, e.As), nil
	}
	return v, nil
}

func (r *resolver) bareExpr(e Expr, path string) (relir.Value, error) {
	switch {
	case e.Col != "":
		return r.column(e.Col, path)

	case e.Null:
		lit := &relir.Literal{Value: ir.IRNull{}}
		if e.Type != "" {
			t, err := ir.ParseType(e.Type)
			if err != nil {
				return nil, invalidExpr(path+".type", "%v", err)
			}
			lit.DType = &t
		}
		return lit, nil

	case e.Lit != nil:
		val, err := ir.FromAny(e.Lit)
		if err != nil {
			return nil, invalidExpr(path+".lit", "%v", err)
		}
		lit := &relir.Literal{Value: val}
		if e.Type != "" {
			t, err := ir.ParseType(e.Type)
			if err != nil {
				return nil, invalidExpr(path+".type", "%v", err)
			}
			lit.DType = &t
		}
		return lit, nil

	case e.SQL != "":
		raw := &relir.RawSQL{SQL: e.SQL, OutName: e.As, OutShape: relir.ShapeScalar}
		switch e.Shape {
		case "", "scalar":
		case "columnar":
			raw.OutShape = relir.ShapeColumnar
		default:
			raw.OutShape = relir.ShapeUnknown
		}
		if e.Type != "" {
			t, err := ir.ParseType(e.Type)
			if err != nil {
				return nil, invalidExpr(path+".type", "%v", err)
			}
			raw.DType = t
		}
		return raw, nil

	case e.Fn != "":
		return r.call(e, path)

	case e.Table != "":
		return nil, invalidExpr(path, "whole-table reference %q is only allowed in select lists", e.Table)
	default:
		return nil, invalidExpr(path, "empty expression")
	}
}

// column resolves "node.column".
func (r *resolver) column(ref, path string) (relir.Value, error) {
	id, name, ok := strings.Cut(ref, ".")
	if !ok || id == "" || name == "" {
		return nil, invalidExpr(path+".col", "column reference %q must be node.column", ref)
	}
	table, err := r.table(id, path+".col")
	if err != nil {
		return nil, err
	}
	if _, found := table.Schema().Lookup(name); !found {
		return nil, &LoadError{Code: ErrCodeUnknownRef, Path: path + ".col", Message: fmt.Sprintf("node %q has no column %q", id, name)}
	}
	return relir.Col(table, name), nil
}

func (r *resolver) call(e Expr, path string) (relir.Value, error) {
	args, err := r.exprs(e.Args, path+".args")
	if err != nil {
		return nil, err
	}
	want := func(n int) error {
		if len(args) != n {
			return invalidExpr(path, "%s takes %d argument(s), got %d", e.Fn, n, len(args))
		}
		return nil
	}
	var where relir.Value
	if e.Where != nil {
		if where, err = r.expr(*e.Where, path+".where"); err != nil {
			return nil, err
		}
	}

	fn := strings.ToLower(e.Fn)
	if op, ok := relir.ParseBinaryOperator(fn); ok {
		if op == relir.OpAnd || op == relir.OpOr {
			if len(args) < 2 {
				return nil, invalidExpr(path, "%s takes at least 2 arguments, got %d", e.Fn, len(args))
			}
			if op == relir.OpAnd {
				return relir.AndAll(args[0], args[1:]...), nil
			}
			return relir.OrAll(args[0], args[1:]...), nil
		}
		if err := want(2); err != nil {
			return nil, err
		}
		return relir.Binary(op, args[0], args[1]), nil
	}
	if rf, ok := relir.ParseReductionFunc(fn); ok {
		if err := want(1); err != nil {
			return nil, err
		}
		return &relir.Reduction{Func: rf, Arg: args[0], Where: where}, nil
	}

	switch fn {
	case "not":
		if err := want(1); err != nil {
			return nil, err
		}
		return &relir.Not{Arg: args[0]}, nil
	case "isnull":
		if err := want(1); err != nil {
			return nil, err
		}
		return &relir.IsNull{Arg: args[0]}, nil
	case "notnull":
		if err := want(1); err != nil {
			return nil, err
		}
		return &relir.NotNull{Arg: args[0]}, nil
	case "coalesce":
		if len(args) == 0 {
			return nil, invalidExpr(path, "coalesce needs arguments")
		}
		return &relir.Coalesce{Args: args}, nil
	case "count_star":
		table, err := r.input(e.Table, path+".table")
		if err != nil {
			return nil, err
		}
		return &relir.CountStar{Table: table, Where: where}, nil
	case "exists", "not_exists":
		table, err := r.input(e.Table, path+".table")
		if err != nil {
			return nil, err
		}
		return &relir.ExistsSubquery{Table: table, Predicates: args, Negated: fn == "not_exists"}, nil
	case "in", "not_in":
		if err := want(2); err != nil {
			return nil, err
		}
		return &relir.InSubquery{Arg: args[0], Options: args[1], Negated: fn == "not_in"}, nil
	default:
		return nil, invalidExpr(path+".fn", "unknown function %q", e.Fn)
	}
}
