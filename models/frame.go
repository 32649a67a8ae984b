package models

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"time"
)

// Frame is a generic ordered view: named columns over rows of values.
// Projections, melts, pivots and summaries are all rendered as frames
// before they reach a writer.
type Frame struct {
	Columns []string
	Rows    [][]any
}

// NewFrame returns an empty frame with the given columns.
func NewFrame(columns ...string) *Frame {
	return &Frame{Columns: slices.Clone(columns)}
}

// Append adds one row. It panics if the arity does not match the columns.
func (f *Frame) Append(values ...any) {
	if len(values) != len(f.Columns) {
		panic(fmt.Sprintf("frame: row has %d values, want %d", len(values), len(f.Columns)))
	}
	f.Rows = append(f.Rows, values)
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.Rows) }

// Width returns the number of columns.
func (f *Frame) Width() int { return len(f.Columns) }

// Column returns the values of the named column, or nil if absent.
func (f *Frame) Column(name string) []any {
	idx := slices.Index(f.Columns, name)
	if idx < 0 {
		return nil
	}
	out := make([]any, len(f.Rows))
	for i, r := range f.Rows {
		out[i] = r[idx]
	}
	return out
}

// Records renders the frame as text records, header first.
func (f *Frame) Records() [][]string {
	out := make([][]string, 0, len(f.Rows)+1)
	out = append(out, slices.Clone(f.Columns))
	for _, r := range f.Rows {
		rec := make([]string, len(r))
		for i, v := range r {
			rec[i] = FormatValue(v)
		}
		out = append(out, rec)
	}
	return out
}

// FormatValue renders a cell as text. Missing values and NaN render empty.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		if math.IsNaN(t) {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format(ReviewDateLayout)
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprint(v)
}
