package querysql

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/roach88/sqlplan/internal/ir"
	"github.com/roach88/sqlplan/internal/relir"
)

// Explain is a serializable description of a compiled Select. Plan nodes
// are numbered in the order a pre-order walk over the statement's clauses
// first reaches them, and clauses refer to nodes by number.
type Explain struct {
	Nodes     []ExplainNode    `json:"nodes" msgpack:"nodes"`
	Statement ExplainStatement `json:"statement" msgpack:"statement"`
}

// ExplainNode describes one plan node.
type ExplainNode struct {
	ID    int            `json:"id" msgpack:"id"`
	Kind  string         `json:"kind" msgpack:"kind"`
	Name  string         `json:"name,omitempty" msgpack:"name,omitempty"`
	Alias string         `json:"alias,omitempty" msgpack:"alias,omitempty"`
	Attrs map[string]any `json:"attrs,omitempty" msgpack:"attrs,omitempty"`
	Args  []int          `json:"args,omitempty" msgpack:"args,omitempty"`
}

// ExplainStatement is a Select with nodes replaced by their ids.
type ExplainStatement struct {
	TableSet    *int          `json:"table_set,omitempty" msgpack:"table_set,omitempty"`
	SelectSet   []int         `json:"select_set" msgpack:"select_set"`
	Subqueries  []int         `json:"subqueries,omitempty" msgpack:"subqueries,omitempty"`
	Where       []int         `json:"where,omitempty" msgpack:"where,omitempty"`
	GroupBy     []int         `json:"group_by,omitempty" msgpack:"group_by,omitempty"`
	Having      []int         `json:"having,omitempty" msgpack:"having,omitempty"`
	Limit       *LimitSpec    `json:"limit,omitempty" msgpack:"limit,omitempty"`
	OrderBy     []int         `json:"order_by,omitempty" msgpack:"order_by,omitempty"`
	Distinct    bool          `json:"distinct" msgpack:"distinct"`
	NeedAliases bool          `json:"need_aliases" msgpack:"need_aliases"`
	Result      ResultHandler `json:"result" msgpack:"result"`
}

// Explain describes s.
func (s *Select) Explain() *Explain {
	var roots []relir.Node
	if s.TableSet != nil {
		roots = append(roots, s.TableSet)
	}
	roots = append(roots, s.SelectSet...)
	for _, n := range s.Subqueries {
		roots = append(roots, n)
	}
	for _, v := range s.Where {
		roots = append(roots, v)
	}
	for _, v := range s.Having {
		roots = append(roots, v)
	}
	for _, k := range s.OrderBy {
		roots = append(roots, k)
	}

	ids := make(map[relir.Node]int)
	var order []relir.Node
	relir.Walk(func(n relir.Node) bool {
		ids[n] = len(order)
		order = append(order, n)
		return true
	}, roots...)

	e := &Explain{Nodes: make([]ExplainNode, len(order))}
	for i, n := range order {
		node := ExplainNode{ID: i, Kind: n.Kind(), Attrs: attrs(n)}
		switch n := n.(type) {
		case relir.Value:
			node.Name = n.Name()
		case relir.TableNode:
			if s.Context != nil {
				node.Alias, _ = s.Context.Ref(n)
			}
		}
		for _, arg := range relir.Args(n) {
			node.Args = append(node.Args, ids[arg])
		}
		e.Nodes[i] = node
	}

	idsOf := func(n int, at func(int) relir.Node) []int {
		if n == 0 {
			return nil
		}
		out := make([]int, n)
		for i := range out {
			out[i] = ids[at(i)]
		}
		return out
	}

	st := ExplainStatement{
		SelectSet:  idsOf(len(s.SelectSet), func(i int) relir.Node { return s.SelectSet[i] }),
		Subqueries: idsOf(len(s.Subqueries), func(i int) relir.Node { return s.Subqueries[i] }),
		Where:      idsOf(len(s.Where), func(i int) relir.Node { return s.Where[i] }),
		GroupBy:    s.GroupBy,
		Having:     idsOf(len(s.Having), func(i int) relir.Node { return s.Having[i] }),
		Limit:      s.Limit,
		OrderBy:    idsOf(len(s.OrderBy), func(i int) relir.Node { return s.OrderBy[i] }),
		Distinct:   s.Distinct,
		Result:     s.Result,
	}
	if s.TableSet != nil {
		id := ids[s.TableSet]
		st.TableSet = &id
	}
	if s.Context != nil {
		st.NeedAliases = s.Context.NeedAliases()
	}
	e.Statement = st
	return e
}

func attrs(n relir.Node) map[string]any {
	switch n := n.(type) {
	case *relir.PhysicalTable:
		return map[string]any{"name": n.Name}
	case *relir.SQLQueryResult:
		return map[string]any{"query": n.Query}
	case *relir.InMemoryTable:
		return map[string]any{"name": n.Name, "rows": len(n.Rows)}
	case *relir.Join:
		return map[string]any{"how": string(n.How)}
	case *relir.DropNa:
		return map[string]any{"how": n.How}
	case *relir.FillNa:
		out := map[string]any{}
		if len(n.Mapping) > 0 {
			m := make(map[string]any, len(n.Mapping))
			for k, v := range n.Mapping {
				m[k] = ir.ToAny(v)
			}
			out["mapping"] = m
		}
		if n.Scalar != nil {
			out["scalar"] = ir.ToAny(n.Scalar)
		}
		return out
	case *relir.Limit:
		return map[string]any{"n": n.N, "offset": n.Offset}
	case *relir.Union:
		return map[string]any{"distinct": n.Distinct}
	case *relir.Intersection:
		return map[string]any{"distinct": n.Distinct}
	case *relir.Difference:
		return map[string]any{"distinct": n.Distinct}
	case *relir.TableColumn:
		return map[string]any{"column": n.Column}
	case *relir.Literal:
		return map[string]any{"value": ir.ToAny(n.Value)}
	case *relir.Alias:
		return map[string]any{"as": n.As}
	case *relir.BinaryOp:
		return map[string]any{"op": string(n.Op)}
	case *relir.Reduction:
		return map[string]any{"func": string(n.Func)}
	case *relir.ExistsSubquery:
		return map[string]any{"negated": n.Negated}
	case *relir.InSubquery:
		return map[string]any{"negated": n.Negated}
	case *relir.SortKey:
		return map[string]any{"ascending": n.Ascending}
	case *relir.RawSQL:
		return map[string]any{"sql": n.SQL, "shape": n.OutShape.String()}
	}
	return nil
}

// Fingerprint returns a stable hash of the statement's structure. Alias
// names are replaced by the order in which they first appear, so
// compilations of the same plan in fresh contexts hash identically.
func (s *Select) Fingerprint() (string, error) {
	e := s.Explain()
	renamed := make(map[string]string)
	for i := range e.Nodes {
		alias := e.Nodes[i].Alias
		if alias == "" {
			continue
		}
		if _, ok := renamed[alias]; !ok {
			renamed[alias] = fmt.Sprintf("a%d", len(renamed))
		}
		e.Nodes[i].Alias = renamed[alias]
	}

	// Round-trip through encoding/json to get the plain maps and slices
	// MarshalCanonical accepts.
	data, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("encode explain: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("decode explain: %w", err)
	}
	return ir.Fingerprint(ir.DomainSelect, doc)
}

// WriteText writes a human-readable rendering of e to w.
func (e *Explain) WriteText(w io.Writer) error {
	var b strings.Builder
	st := e.Statement

	line := func(label, value string) {
		fmt.Fprintf(&b, "%-9s %s\n", label+":", value)
	}
	list := func(ids []int) string {
		parts := make([]string, len(ids))
		for i, id := range ids {
			parts[i] = e.describe(id)
		}
		return strings.Join(parts, ", ")
	}

	line("result", st.Result.String())
	if len(st.Subqueries) > 0 {
		line("with", list(st.Subqueries))
	}
	line("select", list(st.SelectSet))
	if st.TableSet != nil {
		line("from", e.describe(*st.TableSet))
	}
	if len(st.Where) > 0 {
		line("where", list(st.Where))
	}
	if len(st.GroupBy) > 0 {
		positions := make([]string, len(st.GroupBy))
		for i, p := range st.GroupBy {
			positions[i] = fmt.Sprint(p)
		}
		line("group by", strings.Join(positions, ", "))
	}
	if len(st.Having) > 0 {
		line("having", list(st.Having))
	}
	if len(st.OrderBy) > 0 {
		line("order by", list(st.OrderBy))
	}
	if st.Limit != nil {
		line("limit", fmt.Sprintf("%d offset %d", st.Limit.N, st.Limit.Offset))
	}
	if st.Distinct {
		line("distinct", "true")
	}

	b.WriteString("nodes:\n")
	for _, n := range e.Nodes {
		fmt.Fprintf(&b, "  %s", e.describe(n.ID))
		if len(n.Attrs) > 0 {
			keys := make([]string, 0, len(n.Attrs))
			for k := range n.Attrs {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			pairs := make([]string, len(keys))
			for i, k := range keys {
				pairs[i] = fmt.Sprintf("%s=%v", k, n.Attrs[k])
			}
			fmt.Fprintf(&b, " {%s}", strings.Join(pairs, " "))
		}
		if len(n.Args) > 0 {
			args := make([]string, len(n.Args))
			for i, a := range n.Args {
				args[i] = fmt.Sprintf("#%d", a)
			}
			fmt.Fprintf(&b, " <- %s", strings.Join(args, " "))
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (e *Explain) describe(id int) string {
	n := e.Nodes[id]
	s := fmt.Sprintf("#%d %s", n.ID, n.Kind)
	if n.Name != "" {
		s += fmt.Sprintf(" %q", n.Name)
	}
	if n.Alias != "" {
		s += " AS " + n.Alias
	}
	return s
}
