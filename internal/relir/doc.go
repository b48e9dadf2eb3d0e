// Package relir provides the relational intermediate representation (IR)
// consumed by the select compiler.
//
// ARCHITECTURE:
//
// The IR sits between plan producers and the select compiler:
//
//	[plan documents / host API] → [relir DAG] → [querysql.Build] → [Select]
//
// Nodes come in two families:
//   - Table-shaped nodes (TableNode) denote relations: PhysicalTable, Join,
//     Selection, Aggregation, Distinct, DropNa, FillNa, Limit, SelfReference,
//     Union/Intersection/Difference, InMemoryTable, SQLQueryResult
//   - Value-shaped nodes (Value) denote scalars or columns and carry an output
//     Shape and a Name
//
// IDENTITY:
//
// Nodes are immutable once built and are always handled by pointer. Node
// identity is pointer identity: the same sub-tree may be reachable through
// several parents (the IR is a DAG, not a tree), and two structurally equal
// but distinct sub-trees are different nodes. Bookkeeping maps in the
// compiler are keyed by Node, never by value.
//
// SEALED INTERFACES:
//
// Node, TableNode, Value and Leaf are sealed with marker methods, so only
// types in this package implement them. Consumers switch exhaustively over
// the concrete types and fail loudly on anything else:
//
//	switch n := node.(type) {
//	case *Selection:
//	    // ...
//	case *Join:
//	    // ...
//	default:
//	    // coverage gap: report an error
//	}
//
// LEAF CAPABILITY:
//
// PhysicalTable, SQLQueryResult and InMemoryTable implement Leaf. Code that
// treats every opaque source relation alike checks for Leaf instead of
// matching type names.
package relir
