package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable(t *testing.T) {
	tbl, err := NewTable([]string{"id", "name"},
		[]any{int64(1), "a"},
		[]any{int64(2), nil},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name"}, tbl.Columns())
	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, []any{int64(2), nil}, tbl.Row(1))

	names, err := tbl.Column("name")
	require.NoError(t, err)
	assert.Equal(t, []any{"a", nil}, names)
}

func TestNewTable_RaggedRow(t *testing.T) {
	_, err := NewTable([]string{"id"}, []any{1, 2})
	assert.ErrorContains(t, err, "row 0 has 2 values, want 1")
}

func TestTable_MissingColumn(t *testing.T) {
	tbl, err := NewTable([]string{"id"})
	require.NoError(t, err)

	_, err = tbl.Column("nope")
	assert.ErrorIs(t, err, ErrNoColumn)
	assert.Equal(t, 0, tbl.NumRows())
}
