// Package frame provides the in-memory table consumed and produced by the
// framekit transformers: ordered, uniquely named columns aligned on an integer
// row index.
//
// The row index carries row identity. Operations that reshape rows (Pivot)
// key their output by index label, and Concat realigns by label rather than
// by position.
package frame

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/framekit/pkg/errors"
)

// MissingLabel is the display name of the null placeholder returned by
// Unique. Nulls are tracked by position, never by this name.
const MissingLabel = "NaN"

// Frame is an ordered collection of named columns sharing a row index.
type Frame struct {
	index   []int
	columns []*Column
	byName  map[string]int
}

// New creates a frame with the default index 0..n-1.
func New(cols ...*Column) (*Frame, error) {
	n := 0
	if len(cols) > 0 {
		n = cols[0].Len()
	}
	return NewWithIndex(RangeIndex(n), cols...)
}

// NewWithIndex creates a frame with explicit row labels. Every column must
// have len(index) values and column names must be unique.
func NewWithIndex(index []int, cols ...*Column) (*Frame, error) {
	f := &Frame{
		index:   append([]int(nil), index...),
		columns: make([]*Column, 0, len(cols)),
		byName:  make(map[string]int, len(cols)),
	}
	for _, c := range cols {
		if c.Len() != len(index) {
			return nil, errors.NewDimensionError(fmt.Sprintf("frame.New(%s)", c.Name()), len(index), c.Len(), 0)
		}
		if _, dup := f.byName[c.Name()]; dup {
			return nil, errors.NewValidationError("columns", "duplicate column name", c.Name())
		}
		f.byName[c.Name()] = len(f.columns)
		f.columns = append(f.columns, c)
	}
	return f, nil
}

// FromMatrix creates a numeric frame from a matrix, one column per name.
func FromMatrix(index []int, names []string, m mat.Matrix) (*Frame, error) {
	r, c := m.Dims()
	if r != len(index) {
		return nil, errors.NewDimensionError("frame.FromMatrix", len(index), r, 0)
	}
	if c != len(names) {
		return nil, errors.NewDimensionError("frame.FromMatrix", len(names), c, 1)
	}
	cols := make([]*Column, c)
	for j := 0; j < c; j++ {
		cols[j] = NewNumeric(names[j], mat.Col(nil, j, m))
	}
	return NewWithIndex(index, cols...)
}

// RangeIndex returns the labels 0..n-1.
func RangeIndex(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// NRows returns the number of rows.
func (f *Frame) NRows() int { return len(f.index) }

// NCols returns the number of columns.
func (f *Frame) NCols() int { return len(f.columns) }

// Names returns the column names in order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.columns))
	for i, c := range f.columns {
		names[i] = c.Name()
	}
	return names
}

// Index returns a copy of the row labels.
func (f *Frame) Index() []int {
	return append([]int(nil), f.index...)
}

// HasColumn reports whether a column with the given name exists.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.byName[name]
	return ok
}

// Column returns the named column.
func (f *Frame) Column(name string) (*Column, error) {
	i, ok := f.byName[name]
	if !ok {
		return nil, errors.NewColumnNotFoundError("Frame.Column", name)
	}
	return f.columns[i], nil
}

// Float returns the numeric value at (column, row position).
func (f *Frame) Float(name string, row int) (float64, error) {
	c, err := f.Column(name)
	if err != nil {
		return 0, err
	}
	return c.Float(row), nil
}

// Select returns a frame holding only the named columns, in the given order.
func (f *Frame) Select(names ...string) (*Frame, error) {
	cols := make([]*Column, 0, len(names))
	for _, name := range names {
		c, err := f.Column(name)
		if err != nil {
			return nil, errors.Wrap(err, "Frame.Select")
		}
		cols = append(cols, c)
	}
	return NewWithIndex(f.index, cols...)
}

// Drop returns a frame without the named columns. Absent names are ignored.
func (f *Frame) Drop(names ...string) *Frame {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	keep := make([]*Column, 0, len(f.columns))
	for _, c := range f.columns {
		if _, ok := drop[c.Name()]; !ok {
			keep = append(keep, c)
		}
	}
	out, _ := NewWithIndex(f.index, keep...)
	return out
}

// Matrix copies the named numeric columns into a dense matrix
// (rows × len(names)). All columns are used when no names are given.
func (f *Frame) Matrix(names ...string) (*mat.Dense, error) {
	if len(names) == 0 {
		names = f.Names()
	}
	if f.NRows() == 0 || len(names) == 0 {
		return nil, errors.NewValueError("Frame.Matrix", errors.ErrEmptyData.Error())
	}
	m := mat.NewDense(f.NRows(), len(names), nil)
	for j, name := range names {
		c, err := f.Column(name)
		if err != nil {
			return nil, err
		}
		if c.Kind() != Numeric {
			return nil, errors.NewValidationError(name, "column must be numeric", c.Kind().String())
		}
		m.SetCol(j, c.values)
	}
	return m, nil
}

// Unique returns the distinct labels of a column in order of first
// appearance. A null is reported once as MissingLabel at position nullAt,
// which is -1 when the column has no nulls. A real "NaN" label is a separate
// entry from the null placeholder.
func (f *Frame) Unique(name string) (labels []string, nullAt int, err error) {
	c, err := f.Column(name)
	if err != nil {
		return nil, -1, err
	}
	nullAt = -1
	seen := make(map[string]struct{})
	for i := 0; i < c.Len(); i++ {
		v, ok := c.Label(i)
		if !ok {
			if nullAt < 0 {
				nullAt = len(labels)
				labels = append(labels, MissingLabel)
			}
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		labels = append(labels, v)
	}
	return labels, nullAt, nil
}

// String returns a short description of the frame shape.
func (f *Frame) String() string {
	return fmt.Sprintf("Frame(rows=%d, columns=%v)", f.NRows(), f.Names())
}
