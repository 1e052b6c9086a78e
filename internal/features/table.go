package features

import (
	"errors"
	"fmt"

	"github.com/masmgr/gamerules/internal/tags"
)

// ErrMisaligned is returned when one-hot sub-tables do not cover the same game IDs.
var ErrMisaligned = errors.New("one-hot tables are not aligned by game ID")

// Table is a boolean one-hot table with one row per game and one column per item.
type Table struct {
	IDs     []int64
	Names   []string
	Columns []tags.Item
	Rows    [][]bool

	index map[int64]int
}

// NewTable creates an empty table with the given columns.
func NewTable(columns []tags.Item) *Table {
	return &Table{
		Columns: columns,
		index:   make(map[int64]int),
	}
}

// Append adds a row. Row length must match the column count and IDs must be unique.
func (t *Table) Append(id int64, name string, row []bool) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("row for game %d has %d values, expected %d", id, len(row), len(t.Columns))
	}
	if _, dup := t.index[id]; dup {
		return fmt.Errorf("duplicate game ID %d", id)
	}
	t.index[id] = len(t.IDs)
	t.IDs = append(t.IDs, id)
	t.Names = append(t.Names, name)
	t.Rows = append(t.Rows, row)
	return nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.IDs)
}

// Row returns the row for a game ID.
func (t *Table) Row(id int64) ([]bool, bool) {
	i, ok := t.index[id]
	if !ok {
		return nil, false
	}
	return t.Rows[i], true
}

// Transactions returns, per row, the indices of the columns that are set.
func (t *Table) Transactions() [][]int {
	txs := make([][]int, len(t.Rows))
	for i, row := range t.Rows {
		var items []int
		for j, set := range row {
			if set {
				items = append(items, j)
			}
		}
		txs[i] = items
	}
	return txs
}

// ColumnCounts returns the number of rows in which each column is set.
func (t *Table) ColumnCounts() []int {
	counts := make([]int, len(t.Columns))
	for _, row := range t.Rows {
		for j, set := range row {
			if set {
				counts[j]++
			}
		}
	}
	return counts
}

// Assemble joins sub-tables on game ID into one wide table. Row order follows the
// first table; columns are concatenated in argument order. Every table must hold
// exactly the same IDs, otherwise ErrMisaligned is returned.
func Assemble(parts ...*Table) (*Table, error) {
	if len(parts) == 0 {
		return NewTable(nil), nil
	}

	var columns []tags.Item
	for _, p := range parts {
		columns = append(columns, p.Columns...)
	}

	base := parts[0]
	for _, p := range parts[1:] {
		if p.Len() != base.Len() {
			return nil, fmt.Errorf("%w: %d rows and %d rows", ErrMisaligned, base.Len(), p.Len())
		}
	}

	out := NewTable(columns)
	for i, id := range base.IDs {
		row := make([]bool, 0, len(columns))
		for _, p := range parts {
			r, ok := p.Row(id)
			if !ok {
				return nil, fmt.Errorf("%w: game %d missing", ErrMisaligned, id)
			}
			row = append(row, r...)
		}
		if err := out.Append(id, base.Names[i], row); err != nil {
			return nil, err
		}
	}
	return out, nil
}
