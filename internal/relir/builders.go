package relir

import (
	"github.com/roach88/sqlplan/internal/ir"
)

// Table builds a PhysicalTable.
//
//	Table("t", F("a", ir.Int64Type), F("b", ir.StringType))
func Table(name string, fields ...Field) *PhysicalTable {
	return &PhysicalTable{Name: name, TableSchema: Schema(fields)}
}

// F builds a schema field.
func F(name string, t ir.DataType) Field {
	return Field{Name: name, Type: t}
}

// Col references column name of t.
func Col(t TableNode, name string) *TableColumn {
	return &TableColumn{Table: t, Column: name}
}

// Lit builds a literal from a Go value. It panics on unsupported types and
// is meant for tests and programmatic construction with constants.
func Lit(v any) *Literal {
	val, err := ir.FromAny(v)
	if err != nil {
		panic(err)
	}
	return &Literal{Value: val}
}

// As renames v.
func As(v Value, name string) *Alias {
	return &Alias{Arg: v, As: name}
}

// Binary builds a BinaryOp.
func Binary(op BinaryOperator, left, right Value) *BinaryOp {
	return &BinaryOp{Op: op, Left: left, Right: right}
}

func Eq(l, r Value) *BinaryOp { return Binary(OpEq, l, r) }
func Gt(l, r Value) *BinaryOp { return Binary(OpGt, l, r) }
func Lt(l, r Value) *BinaryOp { return Binary(OpLt, l, r) }

// AndAll folds values with AND, left to right.
func AndAll(first Value, rest ...Value) Value {
	return fold(OpAnd, first, rest)
}

// OrAll folds values with OR, left to right.
func OrAll(first Value, rest ...Value) Value {
	return fold(OpOr, first, rest)
}

func fold(op BinaryOperator, first Value, rest []Value) Value {
	acc := first
	for _, v := range rest {
		acc = Binary(op, acc, v)
	}
	return acc
}

// Reduce builds a Reduction.
func Reduce(fn ReductionFunc, arg Value) *Reduction {
	return &Reduction{Func: fn, Arg: arg}
}

// Asc and Desc build sort keys.
func Asc(v Value) *SortKey  { return &SortKey{Expr: v, Ascending: true} }
func Desc(v Value) *SortKey { return &SortKey{Expr: v} }
