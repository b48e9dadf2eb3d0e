package querysql

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/sqlplan/internal/relir"
	"github.com/roach88/sqlplan/internal/results"
)

// Translator renders scalar expressions for a SQL dialect. The compiler
// never calls it; it is carried on the Select for the renderer.
type Translator interface {
	Translate(v relir.Value, ctx *Context) (string, error)
}

// TableSetFormatter renders a FROM clause for a SQL dialect. Like
// Translator, it is passed through to the renderer untouched.
type TableSetFormatter interface {
	FormatTableSet(n relir.TableNode, ctx *Context) (string, error)
}

// Select is one compiled SELECT statement.
//
// A Select is not modified after Build returns it. Node slices share
// storage with the input plan and must not be mutated.
type Select struct {
	// TableSet is the FROM clause. It is nil for a statement that only
	// evaluates a scalar expression.
	TableSet relir.TableNode
	// SelectSet is the projection list. Table nodes in it stand for all of
	// their columns.
	SelectSet []relir.Node
	// Subqueries are the relations to render as common table expressions,
	// in WITH clause order.
	Subqueries []relir.TableNode
	Where      []relir.Value
	// GroupBy holds 1-based positions into SelectSet.
	GroupBy  []int
	Having   []relir.Value
	Limit    *LimitSpec
	OrderBy  []*relir.SortKey
	Distinct bool

	Result ResultHandler

	// Node is the plan node the statement was compiled from, after
	// adaptation.
	Node    relir.Node
	Context *Context

	Translator        Translator
	TableSetFormatter TableSetFormatter
}

// HandleResults extracts the originally requested result shape from r.
func (s *Select) HandleResults(r results.Records) (any, error) {
	return s.Result.Apply(r)
}

// Option configures Build.
type Option func(*builder)

// WithTranslator sets the expression translator carried by the statement.
func WithTranslator(t Translator) Option {
	return func(b *builder) {
		b.translator = t
	}
}

// WithTableSetFormatter sets the FROM clause formatter carried by the
// statement.
func WithTableSetFormatter(f TableSetFormatter) Option {
	return func(b *builder) {
		b.formatter = f
	}
}

// WithMinDependents sets how many dependents a relation needs to be
// extracted as a common table expression. Values below 1 are ignored.
func WithMinDependents(n int) Option {
	return func(b *builder) {
		if n >= 1 {
			b.minDependents = n
		}
	}
}

type builder struct {
	translator    Translator
	formatter     TableSetFormatter
	minDependents int
}

// Build compiles n into a Select. n may be a table node or a value; values
// are wrapped so that Select.HandleResults returns the scalar or column
// requested. A nil ctx starts a fresh compilation.
func Build(n relir.Node, ctx *Context, opts ...Option) (*Select, error) {
	b := &builder{minDependents: DefaultMinDependents}
	for _, opt := range opts {
		opt(b)
	}
	if ctx == nil {
		ctx = NewContext()
	}

	op, handler, err := adapt(n)
	if err != nil {
		return nil, err
	}
	slog.Debug("compiling select",
		"compilation", ctx.ID(),
		"kind", op.Kind(),
		"result", handler.String(),
		"nested", ctx.Parent() != nil)

	var st ClauseState
	switch op := op.(type) {
	case relir.TableNode:
		st, err = collect(op, true, st)
		if err != nil {
			return nil, err
		}
		if st.TableSet == nil {
			return nil, fmt.Errorf("collect %s: no FROM clause", op.Kind())
		}
	case relir.Value:
		st.SelectSet = []relir.Node{op}
	default:
		return nil, errors.New("adapt returned neither a table nor a value")
	}

	subqueries := extractSubqueries(st, ctx, b.minDependents)
	if st.TableSet != nil {
		assignAliases(st.TableSet, ctx)
	}

	sel := &Select{
		TableSet:          st.TableSet,
		SelectSet:         st.SelectSet,
		Subqueries:        subqueries,
		Where:             st.Filters,
		GroupBy:           st.GroupBy,
		Having:            st.Having,
		Limit:             st.Limit,
		OrderBy:           st.OrderBy,
		Distinct:          st.Distinct,
		Result:            handler,
		Node:              op,
		Context:           ctx,
		Translator:        b.translator,
		TableSetFormatter: b.formatter,
	}
	slog.Debug("compiled select",
		"compilation", ctx.ID(),
		"columns", len(sel.SelectSet),
		"subqueries", len(sel.Subqueries),
		"distinct", sel.Distinct,
		"limited", sel.Limit != nil)
	return sel, nil
}
