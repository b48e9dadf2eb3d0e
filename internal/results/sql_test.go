package results

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE alltypes (id INTEGER NOT NULL, string_col TEXT, double_col REAL);
		INSERT INTO alltypes VALUES (1, 'a', 1.5), (2, NULL, NULL), (3, 'c', 4.0);
	`)
	require.NoError(t, err)
	return db
}

func TestFromRows(t *testing.T) {
	db := openDB(t)
	rows, err := db.Query(`SELECT id, string_col, double_col FROM alltypes ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	tbl, err := FromRows(rows)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "string_col", "double_col"}, tbl.Columns())
	assert.Equal(t, 3, tbl.NumRows())

	ids, err := tbl.Column("id")
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(2), int64(3)}, ids)

	doubles, err := tbl.Column("double_col")
	require.NoError(t, err)
	assert.Equal(t, []any{1.5, nil, 4.0}, doubles)

	strs, err := tbl.Column("string_col")
	require.NoError(t, err)
	require.Len(t, strs, 3)
	assert.EqualValues(t, "a", strs[0])
	assert.Nil(t, strs[1])
}

func TestFromRows_Aggregate(t *testing.T) {
	db := openDB(t)
	rows, err := db.Query(`SELECT sum(double_col) AS total FROM alltypes`)
	require.NoError(t, err)
	defer rows.Close()

	tbl, err := FromRows(rows)
	require.NoError(t, err)
	total, err := tbl.Column("total")
	require.NoError(t, err)
	assert.Equal(t, []any{5.5}, total)
}

func TestFromRows_Empty(t *testing.T) {
	db := openDB(t)
	rows, err := db.Query(`SELECT id FROM alltypes WHERE 0`)
	require.NoError(t, err)
	defer rows.Close()

	tbl, err := FromRows(rows)
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.NumRows())
	assert.Equal(t, []string{"id"}, tbl.Columns())
}
