// Package table provides the columnar, row-indexed table the expression
// engine reads from. A table is a set of equal-length typed columns;
// elements are exchanged with the engine as bit-pattern words.
package table

import (
	"github.com/colexpr/colexpr/internal/errors"
	"github.com/colexpr/colexpr/internal/types"
)

// Table is a read-only set of equal-length columns.
type Table struct {
	cols []*Column
	rows int
}

// New builds a table from columns, which must all have the same length.
func New(cols ...*Column) (*Table, error) {
	rows := 0
	if len(cols) > 0 {
		rows = cols[0].Len()
	}
	for i, c := range cols {
		if c.Len() != rows {
			return nil, errors.Newf(errors.TableMismatch,
				"column %d has %d rows, expected %d", i, c.Len(), rows)
		}
	}
	return &Table{cols: cols, rows: rows}, nil
}

// NumRows returns the row count shared by all columns.
func (t *Table) NumRows() int { return t.rows }

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int { return len(t.cols) }

// Column returns the column at index i.
func (t *Table) Column(i int) *Column { return t.cols[i] }

// ColumnType returns the element type of column i.
func (t *Table) ColumnType(i int) types.ElementType { return t.cols[i].Type() }
