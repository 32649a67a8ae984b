package models

import (
	"errors"
	"fmt"
)

// ErrEmptyTable is returned by stages that need at least one row.
var ErrEmptyTable = errors.New("table has no rows")

// SchemaError reports a required column absent from a table.
type SchemaError struct {
	Stage  string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing required column %q", e.Stage, e.Column)
}

// TypeError reports a cell whose text does not match the column type.
// Row is the listing id when known, otherwise the 1-based data line.
type TypeError struct {
	Stage  string
	Column string
	Row    string
	Value  string
	Err    error
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: column %q row %s: invalid value %q: %v", e.Stage, e.Column, e.Row, e.Value, e.Err)
}

func (e *TypeError) Unwrap() error { return e.Err }
