// Package table provides the in-memory tabular representation shared by all
// pipeline stages.
//
// A Table is an ordered set of named columns. Each column is a slice of
// scalar values (float64, string, or nil); nil marks a missing value. All
// columns of a table have the same length, and rows are positionally aligned
// across columns.
package table

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrColumnNotFound is returned when an operation references a column name
// that is not present in the table. It signals a configuration problem, not
// bad data.
var ErrColumnNotFound = errors.New("column not found")

// Table holds named columns in insertion order.
type Table struct {
	names   []string
	columns map[string][]any
}

// New creates an empty table.
func New() *Table {
	return &Table{columns: make(map[string][]any)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if len(t.names) == 0 {
		return 0
	}
	return len(t.columns[t.names[0]])
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Has reports whether a column with the given name exists.
func (t *Table) Has(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// Col returns the values of the named column. The returned slice is the
// table's backing storage; callers that mutate it mutate the table.
func (t *Table) Col(name string) ([]any, error) {
	values, ok := t.columns[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return values, nil
}

// AddColumn appends a new column. The column length must match the table's
// row count unless the table is empty.
func (t *Table) AddColumn(name string, values []any) error {
	if t.Has(name) {
		return fmt.Errorf("column %q already exists", name)
	}
	if len(t.names) > 0 && len(values) != t.Len() {
		return fmt.Errorf("column %q has %d values, table has %d rows", name, len(values), t.Len())
	}
	t.names = append(t.names, name)
	t.columns[name] = values
	return nil
}

// Put adds the column if absent, or replaces its values if present.
func (t *Table) Put(name string, values []any) error {
	if !t.Has(name) {
		return t.AddColumn(name, values)
	}
	if len(values) != t.Len() {
		return fmt.Errorf("column %q has %d values, table has %d rows", name, len(values), t.Len())
	}
	t.columns[name] = values
	return nil
}

// Drop removes the named column.
func (t *Table) Drop(name string) error {
	if !t.Has(name) {
		return fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	delete(t.columns, name)
	for i, n := range t.names {
		if n == name {
			t.names = append(t.names[:i], t.names[i+1:]...)
			break
		}
	}
	return nil
}

// SwapNames exchanges the data held under two column names. It is a true
// pairwise swap performed through a temporary buffer name that is guaranteed
// not to collide with an existing column, so no data is lost when the two
// names reference each other. Column positions are unchanged.
func (t *Table) SwapNames(a, b string) error {
	if !t.Has(a) {
		return fmt.Errorf("%w: %q", ErrColumnNotFound, a)
	}
	if !t.Has(b) {
		return fmt.Errorf("%w: %q", ErrColumnNotFound, b)
	}
	if a == b {
		return nil
	}

	temp := "__temp_name_for_swap__"
	for t.Has(temp) {
		temp += "_"
	}

	t.rename(a, temp)
	t.rename(b, a)
	t.rename(temp, b)
	return nil
}

// rename relabels a column in place, preserving its position.
func (t *Table) rename(from, to string) {
	t.columns[to] = t.columns[from]
	delete(t.columns, from)
	for i, n := range t.names {
		if n == from {
			t.names[i] = to
			break
		}
	}
}

// CoerceFloat converts every value of the named column to float64. Values
// that cannot be interpreted as numbers become nil rather than failing;
// residual text contamination in numeric columns is expected input.
func (t *Table) CoerceFloat(name string) error {
	values, err := t.Col(name)
	if err != nil {
		return err
	}
	for i, v := range values {
		f, ok := AsFloat(v)
		if ok {
			values[i] = f
		} else {
			values[i] = nil
		}
	}
	return nil
}

// AsFloat interprets a cell value as a float64.
func AsFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Row returns one row as a name-to-value map. Intended for tests and
// diagnostics, not hot paths.
func (t *Table) Row(i int) map[string]any {
	row := make(map[string]any, len(t.names))
	for _, n := range t.names {
		row[n] = t.columns[n][i]
	}
	return row
}
