// Package table holds the column-oriented working tables the report is
// composed in, and the schema step that completes and orders them.
package table

import (
	"fmt"
)

// Table is an ordered set of equally long named series
type Table struct {
	names  []string
	series map[string][]any
	rows   int
}

// New creates an empty table with a fixed number of rows
func New(rows int) *Table {
	return &Table{
		names:  make([]string, 0),
		series: make(map[string][]any),
		rows:   rows,
	}
}

// Len returns the number of rows
func (t *Table) Len() int {
	return t.rows
}

// Columns returns the column names in order
func (t *Table) Columns() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Has reports whether a column exists
func (t *Table) Has(name string) bool {
	_, ok := t.series[name]
	return ok
}

// Set adds or replaces a column. New columns are appended at the end.
func (t *Table) Set(name string, values []any) error {
	if len(values) != t.rows {
		return fmt.Errorf("column %q has %d values, table has %d rows", name, len(values), t.rows)
	}
	if _, exists := t.series[name]; !exists {
		t.names = append(t.names, name)
	}
	t.series[name] = values
	return nil
}

// Fill sets a column where every row holds the same value
func (t *Table) Fill(name string, value any) error {
	values := make([]any, t.rows)
	for i := range values {
		values[i] = value
	}
	return t.Set(name, values)
}

// Column returns the series of a column, nil when absent
func (t *Table) Column(name string) []any {
	return t.series[name]
}

// Value returns one cell, nil when the column is absent
func (t *Table) Value(row int, name string) any {
	values, ok := t.series[name]
	if !ok || row < 0 || row >= t.rows {
		return nil
	}
	return values[row]
}

// Rename changes a column name in place, keeping its position
func (t *Table) Rename(from, to string) error {
	if from == to {
		return nil
	}
	values, ok := t.series[from]
	if !ok {
		return fmt.Errorf("cannot rename missing column %q", from)
	}
	if _, exists := t.series[to]; exists {
		return fmt.Errorf("cannot rename %q: column %q already exists", from, to)
	}
	for i, name := range t.names {
		if name == from {
			t.names[i] = to
			break
		}
	}
	delete(t.series, from)
	t.series[to] = values
	return nil
}

// Select returns a table holding exactly the named columns in that order
func (t *Table) Select(names []string) (*Table, error) {
	out := New(t.rows)
	for _, name := range names {
		values, ok := t.series[name]
		if !ok {
			return nil, fmt.Errorf("column %q not present", name)
		}
		if err := out.Set(name, values); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Row returns the values of one row in column order
func (t *Table) Row(i int) []any {
	row := make([]any, len(t.names))
	for j, name := range t.names {
		row[j] = t.series[name][i]
	}
	return row
}
