package querysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sqlplan/internal/ir"
	"github.com/roach88/sqlplan/internal/relir"
	"github.com/roach88/sqlplan/internal/results"
)

func TestAdapt_TableIsUnchanged(t *testing.T) {
	tbl := alltypes()
	tables := []relir.TableNode{
		tbl,
		&relir.Selection{Table: tbl},
		&relir.Limit{Table: tbl, N: 1},
		&relir.Distinct{Table: tbl},
	}
	for _, n := range tables {
		t.Run(n.Kind(), func(t *testing.T) {
			got, handler, err := adapt(n)
			require.NoError(t, err)
			assert.Same(t, n, got)
			assert.Equal(t, ResultHandler{Kind: ResultTable}, handler)
		})
	}
}

func TestAdapt_ScalarReduction(t *testing.T) {
	tbl := alltypes()
	sum := relir.Reduce(relir.FuncSum, relir.Col(tbl, "double_col"))

	got, handler, err := adapt(sum)
	require.NoError(t, err)

	agg, ok := got.(*relir.Aggregation)
	require.True(t, ok, "got %T", got)
	assert.Same(t, tbl, agg.Table)
	require.Len(t, agg.Metrics, 1)
	assert.Equal(t, "Sum(double_col)", agg.Metrics[0].Name())
	assert.Equal(t, ResultHandler{Kind: ResultScalar, Field: "Sum(double_col)"}, handler)
}

func TestAdapt_PlainScalar(t *testing.T) {
	v := relir.Binary(relir.OpAdd, relir.Lit(1), relir.Lit(2))

	got, handler, err := adapt(v)
	require.NoError(t, err)
	assert.Same(t, v, got)
	assert.Equal(t, ResultHandler{Kind: ResultScalar, Field: "Add(1, 2)"}, handler)
}

func TestAdapt_ColumnReference(t *testing.T) {
	tbl := alltypes()
	col := relir.Col(tbl, "string_col")

	got, handler, err := adapt(col)
	require.NoError(t, err)

	sel, ok := got.(*relir.Selection)
	require.True(t, ok, "got %T", got)
	assert.Same(t, tbl, sel.Table)
	assert.Equal(t, []relir.Node{col}, sel.Selections)
	assert.Equal(t, ResultHandler{Kind: ResultColumn, Field: "string_col"}, handler)
}

func TestAdapt_DerivedColumn(t *testing.T) {
	tbl := alltypes()
	derived := relir.As(relir.Binary(relir.OpMul, relir.Col(tbl, "double_col"), relir.Lit(2)), "doubled")

	got, handler, err := adapt(derived)
	require.NoError(t, err)

	sel, ok := got.(*relir.Selection)
	require.True(t, ok, "got %T", got)
	assert.Same(t, tbl, sel.Table)
	assert.Equal(t, []string{"doubled"}, sel.Schema().Names())
	assert.Equal(t, ResultHandler{Kind: ResultColumn, Field: "doubled"}, handler)
}

func TestAdapt_Errors(t *testing.T) {
	a := alltypes()
	b := relir.Table("b", relir.F("x", ir.Float64Type))

	tests := []struct {
		name string
		node relir.Node
		code TranslationErrorCode
	}{
		{"nil node", nil, ErrCodeUnsupportedNode},
		{"unknown shape", &relir.RawSQL{SQL: "rand()", OutName: "r", OutShape: relir.ShapeUnknown}, ErrCodeUnexpectedShape},
		{"column over two tables", relir.Binary(relir.OpAdd, relir.Col(a, "double_col"), relir.Col(b, "x")), ErrCodeAmbiguousRoot},
		{"columnar raw sql", &relir.RawSQL{SQL: "x", OutName: "x", OutShape: relir.ShapeColumnar}, ErrCodeAmbiguousRoot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := adapt(tt.node)
			require.Error(t, err)
			assert.True(t, IsTranslationError(err))
			assert.True(t, IsTranslationErrorCode(err, tt.code), "got %v", err)
		})
	}
}

func TestResultHandler_Apply(t *testing.T) {
	recs, err := results.NewTable([]string{"id", "total"},
		[]any{int64(1), 10.5},
		[]any{int64(2), 3.0},
	)
	require.NoError(t, err)

	got, err := ResultHandler{Kind: ResultTable}.Apply(recs)
	require.NoError(t, err)
	assert.Same(t, recs, got)

	got, err = ResultHandler{Kind: ResultScalar, Field: "total"}.Apply(recs)
	require.NoError(t, err)
	assert.Equal(t, 10.5, got)

	got, err = ResultHandler{Kind: ResultColumn, Field: "id"}.Apply(recs)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(2)}, got)

	_, err = ResultHandler{Kind: ResultColumn, Field: "nope"}.Apply(recs)
	assert.ErrorIs(t, err, results.ErrNoColumn)
}

func TestResultHandler_ScalarFromNoRows(t *testing.T) {
	recs, err := results.NewTable([]string{"total"})
	require.NoError(t, err)

	_, err = ResultHandler{Kind: ResultScalar, Field: "total"}.Apply(recs)
	assert.ErrorIs(t, err, ErrEmptyResult)
}

func TestResultHandler_String(t *testing.T) {
	assert.Equal(t, "table", ResultHandler{Kind: ResultTable}.String())
	assert.Equal(t, "scalar(total)", ResultHandler{Kind: ResultScalar, Field: "total"}.String())
}
