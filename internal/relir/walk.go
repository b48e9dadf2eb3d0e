package relir

// Args returns the direct children of n in argument order. Nil children are
// skipped.
func Args(n Node) []Node {
	var out []Node
	add := func(children ...Node) {
		for _, c := range children {
			if !isNil(c) {
				out = append(out, c)
			}
		}
	}
	addValues := func(vs []Value) {
		for _, v := range vs {
			add(v)
		}
	}
	addSortKeys := func(ks []*SortKey) {
		for _, k := range ks {
			if k != nil {
				add(k)
			}
		}
	}

	switch n := n.(type) {
	case *PhysicalTable, *SQLQueryResult, *InMemoryTable, *Literal, *RawSQL:
	case *SelfReference:
		add(n.Table)
	case *Join:
		add(n.Left, n.Right)
		addValues(n.Predicates)
	case *Selection:
		add(n.Table)
		add(n.Selections...)
		addValues(n.Predicates)
		addSortKeys(n.SortKeys)
	case *Aggregation:
		add(n.Table)
		addValues(n.Metrics)
		addValues(n.By)
		addValues(n.Having)
		addValues(n.Predicates)
		addSortKeys(n.SortKeys)
	case *Distinct:
		add(n.Table)
	case *DropNa:
		add(n.Table)
		addValues(n.Subset)
	case *FillNa:
		add(n.Table)
	case *Limit:
		add(n.Table)
	case *Union:
		add(n.Left, n.Right)
	case *Intersection:
		add(n.Left, n.Right)
	case *Difference:
		add(n.Left, n.Right)
	case *TableColumn:
		add(n.Table)
	case *Alias:
		add(n.Arg)
	case *BinaryOp:
		add(n.Left, n.Right)
	case *Not:
		add(n.Arg)
	case *IsNull:
		add(n.Arg)
	case *NotNull:
		add(n.Arg)
	case *Coalesce:
		addValues(n.Args)
	case *Reduction:
		add(n.Arg, n.Where)
	case *CountStar:
		add(n.Table, n.Where)
	case *ExistsSubquery:
		add(n.Table)
		addValues(n.Predicates)
	case *InSubquery:
		add(n.Arg, n.Options)
	case *SortKey:
		add(n.Expr)
	}
	return out
}

// isNil catches both untyped nil and typed nil pointers stored in an
// interface.
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	switch v := n.(type) {
	case *SortKey:
		return v == nil
	case *TableColumn:
		return v == nil
	}
	return false
}

// Walk visits every node reachable from roots exactly once, depth-first,
// pre-order. Returning false from visit skips the children of that node.
func Walk(visit func(Node) bool, roots ...Node) {
	seen := make(map[Node]bool)
	var walk func(Node)
	walk = func(n Node) {
		if isNil(n) || seen[n] {
			return
		}
		seen[n] = true
		if !visit(n) {
			return
		}
		for _, c := range Args(n) {
			walk(c)
		}
	}
	for _, r := range roots {
		walk(r)
	}
}

// DirectTables returns the distinct table nodes referenced by n's arguments
// without passing through another table node, in first-seen order. For a
// table node these are its input relations plus the relations its
// expressions refer to; for a value they are the relations it reads from.
func DirectTables(n Node) []TableNode {
	var out []TableNode
	seen := make(map[Node]bool)
	var walk func(Node)
	walk = func(c Node) {
		if isNil(c) || seen[c] {
			return
		}
		seen[c] = true
		if t, ok := c.(TableNode); ok {
			out = append(out, t)
			return
		}
		for _, gc := range Args(c) {
			walk(gc)
		}
	}
	for _, c := range Args(n) {
		walk(c)
	}
	return out
}

// RootTables returns the relations a value reads from.
func RootTables(v Value) []TableNode {
	return DirectTables(v)
}
