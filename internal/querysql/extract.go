package querysql

import (
	"log/slog"

	"github.com/roach88/sqlplan/internal/analysis"
	"github.com/roach88/sqlplan/internal/relir"
)

// DefaultMinDependents is the number of dependents a relation needs before
// it is extracted as a common table expression.
const DefaultMinDependents = 2

// extractSubqueries returns the relations under the FROM clause and filters
// that should become common table expressions, in discovery order, and marks
// them extracted in ctx. Relations an enclosing context already extracted
// are skipped.
func extractSubqueries(st ClauseState, ctx *Context, minDependents int) []relir.TableNode {
	roots := make([]relir.Node, 0, 1+len(st.Filters))
	if st.TableSet != nil {
		roots = append(roots, st.TableSet)
	}
	for _, f := range st.Filters {
		roots = append(roots, f)
	}

	var out []relir.TableNode
	for _, n := range analysis.FindSubqueries(roots, minDependents) {
		if ctx.IsExtracted(n) {
			continue
		}
		alias := ctx.SetExtracted(n)
		slog.Debug("extracted subquery",
			"compilation", ctx.ID(),
			"kind", n.Kind(),
			"alias", alias)
		out = append(out, n)
	}
	return out
}
