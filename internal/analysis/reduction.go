package analysis

import (
	"errors"
	"fmt"

	"github.com/roach88/sqlplan/internal/relir"
)

// ErrNoSingleRoot is returned when a value must be re-rooted on a table but
// does not read from exactly one.
var ErrNoSingleRoot = errors.New("value does not have exactly one root table")

// IsScalarReduction reports whether v is a scalar that aggregates over a
// relation, such as sum(t.x) or count(*) + 1. Reductions nested inside
// another table node do not count.
func IsScalarReduction(v relir.Value) bool {
	if v == nil || !v.Shape().IsScalar() {
		return false
	}
	return containsReduction(v)
}

func containsReduction(v relir.Value) bool {
	found := false
	relir.Walk(func(n relir.Node) bool {
		if found {
			return false
		}
		switch n.(type) {
		case *relir.Reduction, *relir.CountStar:
			found = true
			return false
		case relir.TableNode:
			return false
		}
		return true
	}, v)
	return found
}

// ReductionToAggregation wraps a scalar reduction as a one-metric Aggregation
// over its root table. The metric keeps the value's name.
func ReductionToAggregation(v relir.Value) (*relir.Aggregation, error) {
	root, err := singleRoot(v)
	if err != nil {
		return nil, err
	}
	metric := v
	if _, ok := v.(*relir.Alias); !ok {
		metric = relir.As(v, v.Name())
	}
	return &relir.Aggregation{Table: root, Metrics: []relir.Value{metric}}, nil
}

// AsTable wraps a derived column as a one-column Selection over its root
// table.
func AsTable(v relir.Value) (*relir.Selection, error) {
	root, err := singleRoot(v)
	if err != nil {
		return nil, err
	}
	return &relir.Selection{Table: root, Selections: []relir.Node{v}}, nil
}

func singleRoot(v relir.Value) (relir.TableNode, error) {
	roots := relir.RootTables(v)
	if len(roots) != 1 {
		return nil, fmt.Errorf("%w: %s reads from %d tables", ErrNoSingleRoot, v.Name(), len(roots))
	}
	return roots[0], nil
}
