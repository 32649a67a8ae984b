package models

import (
	"fmt"
	"slices"
)

// Table is an ordered, immutable sequence of listings. Each row carries a
// label (its position at load time) that survives filtering, so positional
// and label addressing only agree until rows are dropped.
type Table struct {
	columns []string
	labels  []int
	rows    []Listing
}

// NewTable builds a table whose labels equal row positions.
func NewTable(columns []string, rows []Listing) Table {
	labels := make([]int, len(rows))
	for i := range labels {
		labels[i] = i
	}
	return Table{
		columns: slices.Clone(columns),
		labels:  labels,
		rows:    slices.Clone(rows),
	}
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.rows) }

// Columns returns the column names in positional order.
func (t Table) Columns() []string { return slices.Clone(t.columns) }

// HasColumn reports whether the named column is present.
func (t Table) HasColumn(name string) bool { return slices.Contains(t.columns, name) }

// Require returns a SchemaError for the first absent column.
func (t Table) Require(stage string, columns ...string) error {
	for _, c := range columns {
		if !t.HasColumn(c) {
			return &SchemaError{Stage: stage, Column: c}
		}
	}
	return nil
}

// Rows returns a copy of the rows in order.
func (t Table) Rows() []Listing { return slices.Clone(t.rows) }

// Labels returns a copy of the row labels in order.
func (t Table) Labels() []int { return slices.Clone(t.labels) }

// ILoc returns the row at a 0-based position.
func (t Table) ILoc(pos int) (Listing, error) {
	if pos < 0 || pos >= len(t.rows) {
		return Listing{}, fmt.Errorf("iloc: position %d out of range [0,%d)", pos, len(t.rows))
	}
	return t.rows[pos], nil
}

// Loc returns the row carrying the given label.
func (t Table) Loc(label int) (Listing, error) {
	pos := t.position(label)
	if pos < 0 {
		return Listing{}, fmt.Errorf("loc: label %d not found", label)
	}
	return t.rows[pos], nil
}

// LocRange returns the rows from label from through label to, inclusive.
func (t Table) LocRange(from, to int) (Table, error) {
	start, end := t.position(from), t.position(to)
	if start < 0 {
		return Table{}, fmt.Errorf("loc: label %d not found", from)
	}
	if end < 0 {
		return Table{}, fmt.Errorf("loc: label %d not found", to)
	}
	if end < start {
		return t.derive(nil, nil, t.columns), nil
	}
	return t.derive(t.rows[start:end+1], t.labels[start:end+1], t.columns), nil
}

// ColumnAt returns the name of the column at a 0-based position.
func (t Table) ColumnAt(pos int) (string, error) {
	if pos < 0 || pos >= len(t.columns) {
		return "", fmt.Errorf("iloc: column %d out of range [0,%d)", pos, len(t.columns))
	}
	return t.columns[pos], nil
}

// CellAt addresses a single value by row and column position.
func (t Table) CellAt(pos, colPos int) (any, error) {
	row, err := t.ILoc(pos)
	if err != nil {
		return nil, err
	}
	col, err := t.ColumnAt(colPos)
	if err != nil {
		return nil, err
	}
	v, _ := row.Value(col)
	return v, nil
}

// Cell addresses a single value by row label and column name.
func (t Table) Cell(label int, column string) (any, error) {
	if !t.HasColumn(column) {
		return nil, fmt.Errorf("loc: column %q not found", column)
	}
	row, err := t.Loc(label)
	if err != nil {
		return nil, err
	}
	v, _ := row.Value(column)
	return v, nil
}

// Filter returns the rows for which keep is true, labels preserved.
func (t Table) Filter(keep func(Listing) bool) Table {
	rows := make([]Listing, 0, len(t.rows))
	labels := make([]int, 0, len(t.rows))
	for i, r := range t.rows {
		if keep(r) {
			rows = append(rows, r)
			labels = append(labels, t.labels[i])
		}
	}
	return Table{columns: slices.Clone(t.columns), labels: labels, rows: rows}
}

// Map returns a table with f applied to every row. Columns named in add
// are appended to the column set if not already present.
func (t Table) Map(f func(Listing) Listing, add ...string) Table {
	columns := slices.Clone(t.columns)
	for _, c := range add {
		if !slices.Contains(columns, c) {
			columns = append(columns, c)
		}
	}
	rows := make([]Listing, len(t.rows))
	for i, r := range t.rows {
		rows[i] = f(r)
	}
	return Table{columns: columns, labels: slices.Clone(t.labels), rows: rows}
}

// Reorder returns the rows at the given positions, in that order.
func (t Table) Reorder(positions []int) Table {
	rows := make([]Listing, len(positions))
	labels := make([]int, len(positions))
	for i, p := range positions {
		rows[i] = t.rows[p]
		labels[i] = t.labels[p]
	}
	return Table{columns: slices.Clone(t.columns), labels: labels, rows: rows}
}

// ResetIndex relabels rows with their current positions.
func (t Table) ResetIndex() Table {
	return NewTable(t.columns, t.rows)
}

func (t Table) position(label int) int {
	return slices.Index(t.labels, label)
}

func (t Table) derive(rows []Listing, labels []int, columns []string) Table {
	return Table{columns: slices.Clone(columns), labels: slices.Clone(labels), rows: slices.Clone(rows)}
}
