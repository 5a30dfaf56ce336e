package table

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Default decides what a column holds when no source produced it
type Default int

const (
	// DefaultAuto follows the policy chosen for the deployment
	DefaultAuto Default = iota
	DefaultBlank
	DefaultZero
)

// String method for Default enum
func (d Default) String() string {
	switch d {
	case DefaultAuto:
		return "auto"
	case DefaultBlank:
		return "blank"
	case DefaultZero:
		return "zero"
	default:
		return "unknown"
	}
}

// ParseDefault reads a completion policy name
func ParseDefault(s string) (Default, error) {
	switch s {
	case "", "blank":
		return DefaultBlank, nil
	case "zero":
		return DefaultZero, nil
	default:
		return DefaultBlank, fmt.Errorf("invalid completion default: %s (expected: blank or zero)", s)
	}
}

// Value returns the placeholder for d, resolving DefaultAuto through fallback
func (d Default) Value(fallback Default) any {
	if d == DefaultAuto {
		d = fallback
	}
	if d == DefaultZero {
		return decimal.Zero
	}
	return ""
}

// ColumnSpec declares one column of a fixed layout
type ColumnSpec struct {
	Name    string
	Label   string // header written on export, Name when empty
	Default Default
}

// Header returns the exported column header
func (c ColumnSpec) Header() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Name
}

// Schema is a fixed, ordered column list
type Schema struct {
	Columns []ColumnSpec
}

// Names returns the internal column names in order
func (s Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Labels returns the exported headers in order. Two columns may share a label.
func (s Schema) Labels() []string {
	labels := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		labels[i] = c.Header()
	}
	return labels
}

// Index returns the zero-based position of a column, -1 when not declared
func (s Schema) Index(name string) int {
	for i, c := range s.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Validate rejects layouts with repeated internal names
func (s Schema) Validate() error {
	seen := make(map[string]bool, len(s.Columns))
	for _, c := range s.Columns {
		if c.Name == "" {
			return fmt.Errorf("schema has an unnamed column")
		}
		if seen[c.Name] {
			return fmt.Errorf("schema declares column %q twice", c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

// Reconcile materializes every declared column missing from t with its
// default and returns a table with exactly the declared columns in order.
// Undeclared columns are dropped.
func (s Schema) Reconcile(t *Table, fallback Default) (*Table, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	for _, c := range s.Columns {
		if t.Has(c.Name) {
			continue
		}
		if err := t.Fill(c.Name, c.Default.Value(fallback)); err != nil {
			return nil, fmt.Errorf("completing column %q: %w", c.Name, err)
		}
	}
	return t.Select(s.Names())
}
