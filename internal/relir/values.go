package relir

import (
	"fmt"
	"strings"

	"github.com/roach88/sqlplan/internal/ir"
)

// TableColumn references one column of a relation.
type TableColumn struct {
	Table  TableNode
	Column string
}

func (*TableColumn) Kind() string       { return "TableColumn" }
func (*TableColumn) irNode()            {}
func (*TableColumn) valueNode()         {}
func (*TableColumn) Shape() Shape       { return ShapeColumnar }
func (c *TableColumn) Name() string     { return c.Column }
func (c *TableColumn) Type() ir.DataType {
	if f, ok := c.Table.Schema().Lookup(c.Column); ok {
		return f.Type
	}
	return ir.DataType{Kind: ir.KindUnknown}
}

// Literal is a constant.
type Literal struct {
	Value ir.IRValue
	// DType overrides the type inferred from Value when set.
	DType *ir.DataType
}

func (*Literal) Kind() string   { return "Literal" }
func (*Literal) irNode()        {}
func (*Literal) valueNode()     {}
func (*Literal) Shape() Shape   { return ShapeScalar }
func (l *Literal) Name() string { return ir.String(l.Value) }
func (l *Literal) Type() ir.DataType {
	if l.DType != nil {
		return *l.DType
	}
	return ir.TypeOf(l.Value)
}

// Alias renames a value.
type Alias struct {
	Arg Value
	As  string
}

func (*Alias) Kind() string          { return "Alias" }
func (*Alias) irNode()               {}
func (*Alias) valueNode()            {}
func (a *Alias) Shape() Shape        { return a.Arg.Shape() }
func (a *Alias) Name() string        { return a.As }
func (a *Alias) Type() ir.DataType   { return a.Arg.Type() }

// BinaryOperator names a binary operation.
type BinaryOperator string

const (
	OpEq  BinaryOperator = "Equals"
	OpNe  BinaryOperator = "NotEquals"
	OpLt  BinaryOperator = "Less"
	OpLe  BinaryOperator = "LessEqual"
	OpGt  BinaryOperator = "Greater"
	OpGe  BinaryOperator = "GreaterEqual"
	OpAnd BinaryOperator = "And"
	OpOr  BinaryOperator = "Or"
	OpAdd BinaryOperator = "Add"
	OpSub BinaryOperator = "Subtract"
	OpMul BinaryOperator = "Multiply"
	OpDiv BinaryOperator = "Divide"
)

var binaryOperators = map[string]BinaryOperator{
	"eq": OpEq, "ne": OpNe, "lt": OpLt, "le": OpLe, "gt": OpGt, "ge": OpGe,
	"and": OpAnd, "or": OpOr, "add": OpAdd, "sub": OpSub, "mul": OpMul, "div": OpDiv,
}

// ParseBinaryOperator maps short names ("eq", "and", ...) to operators.
func ParseBinaryOperator(s string) (BinaryOperator, bool) {
	op, ok := binaryOperators[strings.ToLower(s)]
	return op, ok
}

// IsPredicate reports whether the operator produces a boolean.
func (op BinaryOperator) IsPredicate() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv:
		return false
	}
	return true
}

// BinaryOp applies an operator to two values.
type BinaryOp struct {
	Op    BinaryOperator
	Left  Value
	Right Value
}

func (*BinaryOp) Kind() string    { return "BinaryOp" }
func (*BinaryOp) irNode()         {}
func (*BinaryOp) valueNode()      {}
func (b *BinaryOp) Shape() Shape  { return widest(b.Left, b.Right) }
func (b *BinaryOp) Name() string  { return callName(string(b.Op), b.Left, b.Right) }
func (b *BinaryOp) Type() ir.DataType {
	if b.Op.IsPredicate() {
		return ir.BooleanType
	}
	lt, rt := b.Left.Type(), b.Right.Type()
	if b.Op == OpDiv || lt.Kind == ir.KindFloat64 || rt.Kind == ir.KindFloat64 {
		return ir.Float64Type
	}
	return lt
}

// Not negates a boolean value.
type Not struct {
	Arg Value
}

func (*Not) Kind() string        { return "Not" }
func (*Not) irNode()             {}
func (*Not) valueNode()          {}
func (n *Not) Shape() Shape      { return n.Arg.Shape() }
func (n *Not) Name() string      { return callName("Not", n.Arg) }
func (*Not) Type() ir.DataType   { return ir.BooleanType }

// IsNull is true when Arg is NULL.
type IsNull struct {
	Arg Value
}

func (*IsNull) Kind() string       { return "IsNull" }
func (*IsNull) irNode()            {}
func (*IsNull) valueNode()         {}
func (n *IsNull) Shape() Shape     { return n.Arg.Shape() }
func (n *IsNull) Name() string     { return callName("IsNull", n.Arg) }
func (*IsNull) Type() ir.DataType  { return ir.DataType{Kind: ir.KindBoolean, NotNull: true} }

// NotNull is true when Arg is not NULL.
type NotNull struct {
	Arg Value
}

func (*NotNull) Kind() string      { return "NotNull" }
func (*NotNull) irNode()           {}
func (*NotNull) valueNode()        {}
func (n *NotNull) Shape() Shape    { return n.Arg.Shape() }
func (n *NotNull) Name() string    { return callName("NotNull", n.Arg) }
func (*NotNull) Type() ir.DataType { return ir.DataType{Kind: ir.KindBoolean, NotNull: true} }

// Coalesce returns its first non-NULL argument.
type Coalesce struct {
	Args []Value
}

func (*Coalesce) Kind() string     { return "Coalesce" }
func (*Coalesce) irNode()          {}
func (*Coalesce) valueNode()       {}
func (c *Coalesce) Shape() Shape   { return widest(c.Args...) }
func (c *Coalesce) Name() string   { return callName("Coalesce", c.Args...) }
func (c *Coalesce) Type() ir.DataType {
	var out ir.DataType
	for i, a := range c.Args {
		t := a.Type()
		if i == 0 {
			out = t
		}
		if !t.Nullable() {
			out.NotNull = true
		}
	}
	return out
}

// ReductionFunc names an aggregate function.
type ReductionFunc string

const (
	FuncCount         ReductionFunc = "Count"
	FuncCountDistinct ReductionFunc = "CountDistinct"
	FuncSum           ReductionFunc = "Sum"
	FuncMean          ReductionFunc = "Mean"
	FuncMin           ReductionFunc = "Min"
	FuncMax           ReductionFunc = "Max"
	FuncAny           ReductionFunc = "Any"
	FuncAll           ReductionFunc = "All"
)

var reductionFuncs = map[string]ReductionFunc{
	"count": FuncCount, "count_distinct": FuncCountDistinct, "sum": FuncSum,
	"mean": FuncMean, "min": FuncMin, "max": FuncMax, "any": FuncAny, "all": FuncAll,
}

// ParseReductionFunc maps short names ("sum", "count_distinct", ...) to
// reduction functions.
func ParseReductionFunc(s string) (ReductionFunc, bool) {
	fn, ok := reductionFuncs[strings.ToLower(s)]
	return fn, ok
}

// Reduction aggregates a column into a single value, optionally over the
// rows where Where holds.
type Reduction struct {
	Func  ReductionFunc
	Arg   Value
	Where Value
}

func (*Reduction) Kind() string    { return "Reduction" }
func (*Reduction) irNode()         {}
func (*Reduction) valueNode()      {}
func (*Reduction) Shape() Shape    { return ShapeScalar }
func (r *Reduction) Name() string  { return callName(string(r.Func), r.Arg) }
func (r *Reduction) Type() ir.DataType {
	switch r.Func {
	case FuncCount, FuncCountDistinct:
		return ir.DataType{Kind: ir.KindInt64, NotNull: true}
	case FuncMean:
		return ir.Float64Type
	case FuncAny, FuncAll:
		return ir.BooleanType
	}
	return r.Arg.Type()
}

// CountStar counts the rows of a relation.
type CountStar struct {
	Table TableNode
	Where Value
}

func (*CountStar) Kind() string      { return "CountStar" }
func (*CountStar) irNode()           {}
func (*CountStar) valueNode()        {}
func (*CountStar) Shape() Shape      { return ShapeScalar }
func (*CountStar) Name() string      { return "CountStar()" }
func (*CountStar) Type() ir.DataType { return ir.DataType{Kind: ir.KindInt64, NotNull: true} }

// ExistsSubquery is true for rows where Table has at least one row matching
// Predicates (or none, when Negated).
type ExistsSubquery struct {
	Table      TableNode
	Predicates []Value
	Negated    bool
}

func (*ExistsSubquery) Kind() string      { return "ExistsSubquery" }
func (*ExistsSubquery) irNode()           {}
func (*ExistsSubquery) valueNode()        {}
func (*ExistsSubquery) Shape() Shape      { return ShapeColumnar }
func (e *ExistsSubquery) Name() string {
	if e.Negated {
		return "NotExistsSubquery()"
	}
	return "ExistsSubquery()"
}
func (*ExistsSubquery) Type() ir.DataType { return ir.BooleanType }

// InSubquery is true when Arg appears among the values of Options, a column
// of another relation.
type InSubquery struct {
	Arg     Value
	Options Value
	Negated bool
}

func (*InSubquery) Kind() string      { return "InSubquery" }
func (*InSubquery) irNode()           {}
func (*InSubquery) valueNode()        {}
func (s *InSubquery) Shape() Shape    { return s.Arg.Shape() }
func (s *InSubquery) Name() string    { return callName("InSubquery", s.Arg) }
func (*InSubquery) Type() ir.DataType { return ir.BooleanType }

// SortKey orders rows by Expr.
type SortKey struct {
	Expr      Value
	Ascending bool
}

func (*SortKey) Kind() string         { return "SortKey" }
func (*SortKey) irNode()              {}
func (*SortKey) valueNode()           {}
func (k *SortKey) Shape() Shape       { return k.Expr.Shape() }
func (k *SortKey) Name() string       { return k.Expr.Name() }
func (k *SortKey) Type() ir.DataType  { return k.Expr.Type() }

// RawSQL is an opaque backend expression with a caller-declared shape.
type RawSQL struct {
	SQL      string
	OutName  string
	OutShape Shape
	DType    ir.DataType
}

func (*RawSQL) Kind() string        { return "RawSQL" }
func (*RawSQL) irNode()             {}
func (*RawSQL) valueNode()          {}
func (r *RawSQL) Shape() Shape      { return r.OutShape }
func (r *RawSQL) Name() string      { return r.OutName }
func (r *RawSQL) Type() ir.DataType { return r.DType }

func callName(fn string, args ...Value) string {
	names := make([]string, 0, len(args))
	for _, a := range args {
		if a == nil {
			continue
		}
		names = append(names, a.Name())
	}
	return fmt.Sprintf("%s(%s)", fn, strings.Join(names, ", "))
}
