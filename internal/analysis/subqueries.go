package analysis

import (
	"github.com/roach88/sqlplan/internal/relir"
)

// statementRoot stands in for the statement being compiled when counting
// the dependents of the relations its roots reference directly.
type statementRoot struct{}

// FindSubqueries returns the table nodes reachable from roots that have at
// least minDependents distinct dependents. A dependent is a table node that
// reads the relation, either as an input or through one of its expressions;
// all of roots together count as a single dependent.
//
// Results are in discovery order: depth-first, inputs before the nodes that
// use them, left to right. Each node appears at most once.
func FindSubqueries(roots []relir.Node, minDependents int) []relir.TableNode {
	dependents := make(map[relir.TableNode]map[any]struct{})
	record := func(t relir.TableNode, owner any) {
		owners, ok := dependents[t]
		if !ok {
			owners = make(map[any]struct{})
			dependents[t] = owners
		}
		owners[owner] = struct{}{}
	}

	var order []relir.TableNode
	visited := make(map[relir.TableNode]bool)
	var visit func(t relir.TableNode)
	visit = func(t relir.TableNode) {
		if visited[t] {
			return
		}
		visited[t] = true
		for _, child := range relir.DirectTables(t) {
			record(child, t)
			visit(child)
		}
		order = append(order, t)
	}

	root := &statementRoot{}
	for _, r := range roots {
		if r == nil {
			continue
		}
		var direct []relir.TableNode
		if t, ok := r.(relir.TableNode); ok {
			direct = []relir.TableNode{t}
		} else {
			direct = relir.DirectTables(r)
		}
		for _, t := range direct {
			record(t, root)
			visit(t)
		}
	}

	var out []relir.TableNode
	for _, t := range order {
		if len(dependents[t]) >= minDependents {
			out = append(out, t)
		}
	}
	return out
}
