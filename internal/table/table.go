// Package table implements the in-memory tabular structure passed between
// the extract, transform, and load stages. A Table is a header plus rows of
// string cells; an empty cell means the value is absent (CSV cannot tell the
// two apart, and the transformer treats them identically).
//
// Design goals:
//   - Column access by name, resolved once into an index map.
//   - Cheap cloning so transforms can stay pure (input table untouched).
//   - No typing at this layer; coercion happens in transform and domain.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Table is an ordered set of named columns and rows of string cells.
// All rows have exactly len(Columns()) cells.
type Table struct {
	cols []string
	idx  map[string]int
	rows [][]string
}

// New builds an empty Table with the given column names. Duplicate column
// names are rejected: downstream stages address cells by name and a duplicate
// would make that ambiguous.
func New(columns []string) (*Table, error) {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := idx[c]; dup {
			return nil, fmt.Errorf("table: duplicate column %q", c)
		}
		idx[c] = i
	}
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{cols: cols, idx: idx}, nil
}

// Columns returns the column names in order. Callers must not mutate the slice.
func (t *Table) Columns() []string { return t.cols }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.idx[name]
	return ok
}

// ColIndex returns the positional index of a column.
func (t *Table) ColIndex(name string) (int, bool) {
	i, ok := t.idx[name]
	return i, ok
}

// AppendRow adds a row, padding or truncating it to the header width so every
// row stays rectangular (ragged source lines are common in scraped catalogs).
func (t *Table) AppendRow(cells []string) {
	row := make([]string, len(t.cols))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Row returns the i-th row. Callers must not mutate the returned slice unless
// they own the table (the transformer mutates only its own clone).
func (t *Table) Row(i int) []string { return t.rows[i] }

// Cell returns the value at (row, column name); ok is false when the column
// does not exist. An absent value is the empty string.
func (t *Table) Cell(row int, col string) (string, bool) {
	i, ok := t.idx[col]
	if !ok {
		return "", false
	}
	return t.rows[row][i], true
}

// SetCell overwrites the value at (row, column name). Unknown columns are a
// no-op; the transformer applies each rule only when the column is present.
func (t *Table) SetCell(row int, col, val string) {
	if i, ok := t.idx[col]; ok {
		t.rows[row][i] = val
	}
}

// Clone returns a deep copy sharing nothing with the receiver.
func (t *Table) Clone() *Table {
	out, _ := New(t.cols)
	out.rows = make([][]string, 0, len(t.rows))
	for _, r := range t.rows {
		row := make([]string, len(r))
		copy(row, r)
		out.rows = append(out.rows, row)
	}
	return out
}

// Filter returns a new table containing only rows for which keep returns true,
// preserving order. Used by the transformer's drop rules.
func (t *Table) Filter(keep func(row []string) bool) *Table {
	out, _ := New(t.cols)
	for _, r := range t.rows {
		if keep(r) {
			row := make([]string, len(r))
			copy(row, r)
			out.rows = append(out.rows, row)
		}
	}
	return out
}

// WriteCSV streams t to w as CSV, header row first.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.cols); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range t.rows {
		if err := cw.Write(r); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
