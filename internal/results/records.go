package results

import (
	"errors"
	"fmt"
)

// ErrNoColumn is returned by Column when the container has no column with
// the requested name.
var ErrNoColumn = errors.New("no such column")

// Records is a rectangular query result.
type Records interface {
	// Columns returns the column names in result order.
	Columns() []string
	// NumRows returns the number of rows.
	NumRows() int
	// Column returns every value of the named column, top to bottom. NULLs
	// are nil.
	Column(name string) ([]any, error)
}

// Table is an in-memory Records.
type Table struct {
	columns []string
	rows    [][]any
}

// NewTable builds a Table. Every row must have one value per column.
func NewTable(columns []string, rows ...[]any) (*Table, error) {
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d values, want %d", i, len(row), len(columns))
		}
	}
	return &Table{columns: columns, rows: rows}, nil
}

func (t *Table) Columns() []string { return t.columns }
func (t *Table) NumRows() int      { return len(t.rows) }

// Row returns row i.
func (t *Table) Row(i int) []any { return t.rows[i] }

func (t *Table) Column(name string) ([]any, error) {
	idx := -1
	for i, c := range t.columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoColumn, name)
	}
	out := make([]any, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[idx]
	}
	return out, nil
}
