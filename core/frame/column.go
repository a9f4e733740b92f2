package frame

import (
	"math"
	"strconv"
)

// Kind is the storage type of a Column.
type Kind int

const (
	// Categorical columns hold string labels with an explicit null mask.
	Categorical Kind = iota
	// Numeric columns hold float64 values; NaN marks a missing value.
	Numeric
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Categorical:
		return "categorical"
	case Numeric:
		return "numeric"
	default:
		return "unknown"
	}
}

// Column is a named, typed sequence of values. Columns are immutable once
// attached to a Frame.
type Column struct {
	name   string
	kind   Kind
	labels []string
	null   []bool
	values []float64
}

// NewCategorical creates a categorical column. The values are copied.
func NewCategorical(name string, values []string) *Column {
	labels := make([]string, len(values))
	copy(labels, values)
	return &Column{
		name:   name,
		kind:   Categorical,
		labels: labels,
		null:   make([]bool, len(values)),
	}
}

// NewNumeric creates a numeric column. The values are copied.
func NewNumeric(name string, values []float64) *Column {
	v := make([]float64, len(values))
	copy(v, values)
	return &Column{name: name, kind: Numeric, values: v}
}

// WithNulls marks the given row positions as missing and returns c.
func (c *Column) WithNulls(rows ...int) *Column {
	for _, r := range rows {
		if c.kind == Numeric {
			c.values[r] = math.NaN()
			continue
		}
		c.null[r] = true
		c.labels[r] = ""
	}
	return c
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Kind returns the storage kind.
func (c *Column) Kind() Kind { return c.kind }

// Len returns the number of values.
func (c *Column) Len() int {
	if c.kind == Numeric {
		return len(c.values)
	}
	return len(c.labels)
}

// IsNull reports whether row i is missing.
func (c *Column) IsNull(i int) bool {
	if c.kind == Numeric {
		return math.IsNaN(c.values[i])
	}
	return c.null[i]
}

// Label returns row i as a category label. Numeric values are formatted in
// their shortest form ("3", "2.5"). Missing values return ("", false).
func (c *Column) Label(i int) (string, bool) {
	if c.IsNull(i) {
		return "", false
	}
	if c.kind == Numeric {
		return strconv.FormatFloat(c.values[i], 'f', -1, 64), true
	}
	return c.labels[i], true
}

// Float returns row i as a number. Missing values and categorical columns
// return NaN.
func (c *Column) Float(i int) float64 {
	if c.kind != Numeric {
		return math.NaN()
	}
	return c.values[i]
}

// Floats returns a copy of a numeric column's values.
func (c *Column) Floats() []float64 {
	out := make([]float64, len(c.values))
	copy(out, c.values)
	return out
}

// take returns a new column holding the rows at the given positions.
func (c *Column) take(rows []int) *Column {
	if c.kind == Numeric {
		v := make([]float64, len(rows))
		for i, r := range rows {
			v[i] = c.values[r]
		}
		return &Column{name: c.name, kind: Numeric, values: v}
	}
	labels := make([]string, len(rows))
	null := make([]bool, len(rows))
	for i, r := range rows {
		labels[i] = c.labels[r]
		null[i] = c.null[r]
	}
	return &Column{name: c.name, kind: Categorical, labels: labels, null: null}
}
