package querysql

import (
	"github.com/roach88/sqlplan/internal/relir"
)

// assignAliases gives every relation in the FROM clause tree n an alias in
// ctx. Joins are flattened into their participants. Extracted relations
// keep the alias of the context that extracted them.
func assignAliases(n relir.TableNode, ctx *Context) {
	if j, ok := n.(*relir.Join); ok {
		assignAliases(j.Left, ctx)
		assignAliases(j.Right, ctx)
		return
	}
	if owner := ctx.extractor(n); owner != nil {
		ctx.SetRef(n, owner.refs[n])
		return
	}
	ctx.MakeAlias(n)
}
