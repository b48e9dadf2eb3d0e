package relir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/sqlplan/internal/ir"
)

func alltypes() *PhysicalTable {
	return Table("functional_alltypes",
		F("id", ir.DataType{Kind: ir.KindInt64, NotNull: true}),
		F("string_col", ir.StringType),
		F("double_col", ir.Float64Type),
	)
}

func TestSealedFamilies(t *testing.T) {
	tbl := alltypes()
	var _ TableNode = tbl
	var _ Leaf = tbl
	var _ Leaf = &SQLQueryResult{}
	var _ Leaf = &InMemoryTable{}
	var _ Value = Col(tbl, "id")
	var _ Value = Asc(Col(tbl, "id"))

	_, isLeaf := Node(&Selection{Table: tbl}).(Leaf)
	assert.False(t, isLeaf, "Selection must not carry the leaf capability")
}

func TestShapes(t *testing.T) {
	tbl := alltypes()
	col := Col(tbl, "double_col")

	assert.Equal(t, ShapeColumnar, col.Shape())
	assert.Equal(t, ShapeScalar, Lit(1).Shape())
	assert.Equal(t, ShapeColumnar, Gt(col, Lit(0)).Shape())
	assert.Equal(t, ShapeScalar, Reduce(FuncSum, col).Shape())
	assert.Equal(t, ShapeScalar, Binary(OpAdd, Reduce(FuncSum, col), Lit(1)).Shape())
	assert.Equal(t, ShapeUnknown, Binary(OpAdd, &RawSQL{SQL: "x"}, Lit(1)).Shape())
	assert.Equal(t, "columnar", ShapeColumnar.String())
}

func TestNames(t *testing.T) {
	tbl := alltypes()
	col := Col(tbl, "double_col")

	assert.Equal(t, "double_col", col.Name())
	assert.Equal(t, "Sum(double_col)", Reduce(FuncSum, col).Name())
	assert.Equal(t, "Greater(double_col, 0)", Gt(col, Lit(0)).Name())
	assert.Equal(t, "total", As(Reduce(FuncSum, col), "total").Name())
	assert.Equal(t, "double_col", Desc(col).Name())
}

func TestTypes(t *testing.T) {
	tbl := alltypes()
	assert.Equal(t, ir.KindInt64, Col(tbl, "id").Type().Kind)
	assert.Equal(t, ir.KindUnknown, Col(tbl, "missing").Type().Kind)
	assert.Equal(t, ir.KindBoolean, Gt(Col(tbl, "id"), Lit(1)).Type().Kind)
	assert.Equal(t, ir.KindFloat64, Binary(OpAdd, Col(tbl, "id"), Col(tbl, "double_col")).Type().Kind)
	assert.Equal(t, ir.KindFloat64, Reduce(FuncMean, Col(tbl, "id")).Type().Kind)
	assert.Equal(t, ir.KindInt64, Reduce(FuncCount, Col(tbl, "string_col")).Type().Kind)

	co := &Coalesce{Args: []Value{Col(tbl, "string_col"), Lit("x")}}
	assert.False(t, co.Type().Nullable())
}

func TestSchemas(t *testing.T) {
	tbl := alltypes()
	other := Table("other", F("k", ir.Int64Type))

	sel := &Selection{Table: tbl, Selections: []Node{Col(tbl, "id"), As(Col(tbl, "double_col"), "d")}}
	assert.Equal(t, []string{"id", "d"}, sel.Schema().Names())

	star := &Selection{Table: tbl}
	assert.Equal(t, tbl.Schema(), star.Schema())

	agg := &Aggregation{
		Table:   tbl,
		By:      []Value{Col(tbl, "string_col")},
		Metrics: []Value{As(Reduce(FuncSum, Col(tbl, "double_col")), "total")},
	}
	assert.Equal(t, []string{"string_col", "total"}, agg.Schema().Names())

	join := &Join{How: InnerJoin, Left: tbl, Right: other}
	assert.Equal(t, []string{"id", "string_col", "double_col", "k"}, join.Schema().Names())
	semi := &Join{How: SemiJoin, Left: tbl, Right: other}
	assert.Equal(t, tbl.Schema(), semi.Schema())

	assert.Equal(t, tbl.Schema(), (&SelfReference{Table: tbl}).Schema())
	assert.Equal(t, tbl.Schema(), (&Union{SetOp{Left: tbl, Right: tbl}}).Schema())
}

func TestParseOperators(t *testing.T) {
	op, ok := ParseBinaryOperator("GT")
	assert.True(t, ok)
	assert.Equal(t, OpGt, op)
	_, ok = ParseBinaryOperator("xor")
	assert.False(t, ok)

	fn, ok := ParseReductionFunc("count_distinct")
	assert.True(t, ok)
	assert.Equal(t, FuncCountDistinct, fn)
}
