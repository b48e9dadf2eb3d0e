package results

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromArrow(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.DefaultAllocator)
	defer mem.AssertSize(t, 0)

	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "string_col", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)

	builder := array.NewRecordBuilder(mem, schema)
	defer builder.Release()
	builder.Field(0).(*array.Int64Builder).AppendValues([]int64{1, 2, 3}, nil)
	builder.Field(1).(*array.StringBuilder).AppendValues([]string{"a", "", "c"}, []bool{true, false, true})
	record := builder.NewRecord()
	defer record.Release()

	recs := FromArrow(record)
	assert.Equal(t, []string{"id", "string_col"}, recs.Columns())
	assert.Equal(t, 3, recs.NumRows())

	ids, err := recs.Column("id")
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(2), int64(3)}, ids)

	strs, err := recs.Column("string_col")
	require.NoError(t, err)
	assert.Equal(t, []any{"a", nil, "c"}, strs)

	_, err = recs.Column("nope")
	assert.ErrorIs(t, err, ErrNoColumn)
}
