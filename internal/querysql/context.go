package querysql

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/sqlplan/internal/relir"
)

// Context tracks the aliases and extracted subqueries of one compilation.
//
// A nested compilation, such as the body of an extracted subquery, runs in a
// Subcontext. Lookups walk outward through parent contexts and never inward.
//
// Context is not safe for concurrent use.
type Context struct {
	id     string
	parent *Context

	refs      map[relir.TableNode]string
	order     []relir.TableNode
	extracted map[relir.TableNode]bool

	alwaysAlias bool

	// compiled memoizes CompileSubquery. Only the top context's map is used.
	compiled map[relir.TableNode]*Select
}

// NewContext returns a top-level context with a fresh compilation id.
func NewContext() *Context {
	id := uuid.Must(uuid.NewV7()).String()
	return &Context{
		id:        id,
		refs:      make(map[relir.TableNode]string),
		extracted: make(map[relir.TableNode]bool),
		compiled:  make(map[relir.TableNode]*Select),
	}
}

// ID returns the compilation id shared by a context and all its
// subcontexts.
func (c *Context) ID() string { return c.id }

// Parent returns the enclosing context, or nil for a top-level context.
func (c *Context) Parent() *Context { return c.parent }

// Top returns the outermost context of the chain.
func (c *Context) Top() *Context {
	ctx := c
	for ctx.parent != nil {
		ctx = ctx.parent
	}
	return ctx
}

// Subcontext returns a child context for a nested statement.
func (c *Context) Subcontext() *Context {
	return &Context{
		id:        c.id,
		parent:    c,
		refs:      make(map[relir.TableNode]string),
		extracted: make(map[relir.TableNode]bool),
	}
}

// MakeAlias allocates an alias for n in this context and returns it.
//
// If n already has an alias here or in an enclosing context, that alias is
// reused. Otherwise the alias is t<i>, where i counts the aliases held by
// this context and every enclosing one, so aliases never collide along a
// chain.
func (c *Context) MakeAlias(n relir.TableNode) string {
	if alias, ok := c.refs[n]; ok {
		return alias
	}
	i := len(c.refs)
	for ctx := c.parent; ctx != nil; ctx = ctx.parent {
		if alias, ok := ctx.refs[n]; ok {
			c.SetRef(n, alias)
			return alias
		}
		i += len(ctx.refs)
	}
	alias := fmt.Sprintf("t%d", i)
	c.SetRef(n, alias)
	return alias
}

// SetRef records alias for n in this context.
func (c *Context) SetRef(n relir.TableNode, alias string) {
	if _, ok := c.refs[n]; !ok {
		c.order = append(c.order, n)
	}
	c.refs[n] = alias
}

// Ref returns the alias of n. Extracted nodes resolve to the alias of the
// context that extracted them; other nodes are looked up here first, then
// outward.
func (c *Context) Ref(n relir.TableNode) (string, bool) {
	if owner := c.extractor(n); owner != nil {
		alias, ok := owner.refs[n]
		return alias, ok
	}
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if alias, ok := ctx.refs[n]; ok {
			return alias, true
		}
	}
	return "", false
}

// HasRef reports whether n has an alias in this context, or in any
// enclosing context when searchParents is set.
func (c *Context) HasRef(n relir.TableNode, searchParents bool) bool {
	if _, ok := c.refs[n]; ok {
		return true
	}
	if searchParents && c.parent != nil {
		return c.parent.HasRef(n, true)
	}
	return false
}

// Refs returns the nodes aliased in this context, in allocation order.
func (c *Context) Refs() []relir.TableNode {
	return c.order
}

// IsExtracted reports whether n was extracted as a subquery by this context
// or an enclosing one.
func (c *Context) IsExtracted(n relir.TableNode) bool {
	return c.extractor(n) != nil
}

// SetExtracted marks n as an extracted subquery of this context and gives it
// an alias.
func (c *Context) SetExtracted(n relir.TableNode) string {
	c.extracted[n] = true
	return c.MakeAlias(n)
}

// extractor returns the outermost context along the chain that extracted n.
func (c *Context) extractor(n relir.TableNode) *Context {
	var owner *Context
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if ctx.extracted[n] {
			owner = ctx
		}
	}
	return owner
}

// SetAlwaysAlias forces column references to be qualified even when only
// one relation is in scope.
func (c *Context) SetAlwaysAlias() { c.alwaysAlias = true }

// NeedAliases reports whether a renderer must qualify column references in
// this scope.
func (c *Context) NeedAliases() bool {
	return c.alwaysAlias || len(c.refs) > 1
}

// CompileSubquery compiles n as a nested statement in a subcontext. Results
// are memoized by node identity across the whole context chain, so asking
// twice for the same subquery returns the same *Select.
func (c *Context) CompileSubquery(n relir.TableNode, opts ...Option) (*Select, error) {
	top := c.Top()
	if sel, ok := top.compiled[n]; ok {
		return sel, nil
	}
	sel, err := Build(n, c.Subcontext(), opts...)
	if err != nil {
		return nil, fmt.Errorf("compile subquery %s: %w", n.Kind(), err)
	}
	top.compiled[n] = sel
	return sel, nil
}
