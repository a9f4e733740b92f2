package frame

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/framekit/pkg/errors"
)

func sampleFrame(t *testing.T) *Frame {
	t.Helper()
	f, err := New(
		NewCategorical("dept", []string{"eng", "sales", "eng", ""}).WithNulls(3),
		NewNumeric("hc", []float64{5, 3, 2, 7}),
	)
	require.NoError(t, err)
	return f
}

func TestNewValidatesShape(t *testing.T) {
	tests := []struct {
		name    string
		cols    []*Column
		index   []int
		wantErr func(error) bool
	}{
		{
			name:  "length mismatch",
			index: []int{0, 1, 2},
			cols:  []*Column{NewNumeric("a", []float64{1, 2})},
			wantErr: func(err error) bool {
				var e *errors.DimensionError
				return errors.As(err, &e)
			},
		},
		{
			name:  "duplicate names",
			index: []int{0},
			cols:  []*Column{NewNumeric("a", []float64{1}), NewCategorical("a", []string{"x"})},
			wantErr: func(err error) bool {
				var e *errors.ValidationError
				return errors.As(err, &e)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWithIndex(tt.index, tt.cols...)
			require.Error(t, err)
			assert.True(t, tt.wantErr(err), "unexpected error type %T", err)
		})
	}
}

func TestFrameAccessors(t *testing.T) {
	f := sampleFrame(t)

	assert.Equal(t, 4, f.NRows())
	assert.Equal(t, 2, f.NCols())
	assert.Equal(t, []string{"dept", "hc"}, f.Names())
	assert.Equal(t, []int{0, 1, 2, 3}, f.Index())
	assert.True(t, f.HasColumn("hc"))
	assert.False(t, f.HasColumn("missing"))

	dept, err := f.Column("dept")
	require.NoError(t, err)
	assert.Equal(t, Categorical, dept.Kind())
	assert.True(t, dept.IsNull(3))
	label, ok := dept.Label(1)
	assert.True(t, ok)
	assert.Equal(t, "sales", label)

	_, err = f.Column("missing")
	var notFound *errors.ColumnNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "missing", notFound.Column)

	v, err := f.Float("hc", 2)
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)
	assert.True(t, math.IsNaN(dept.Float(0)))
}

func TestUnique(t *testing.T) {
	f := sampleFrame(t)

	got, nullAt, err := f.Unique("dept")
	require.NoError(t, err)
	assert.Equal(t, []string{"eng", "sales", MissingLabel}, got)
	assert.Equal(t, 2, nullAt)

	num, err := New(NewNumeric("n", []float64{3, 2.5, 3}))
	require.NoError(t, err)
	got, nullAt, err = num.Unique("n")
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "2.5"}, got)
	assert.Equal(t, -1, nullAt)
}

func TestUniqueKeepsRealNaNLabel(t *testing.T) {
	f, err := New(NewCategorical("grade", []string{"", "NaN", "A"}).WithNulls(0))
	require.NoError(t, err)

	got, nullAt, err := f.Unique("grade")
	require.NoError(t, err)
	assert.Equal(t, []string{MissingLabel, "NaN", "A"}, got)
	assert.Equal(t, 0, nullAt)
}

func TestSelectDropMatrix(t *testing.T) {
	f, err := New(
		NewNumeric("a", []float64{1, 2}),
		NewNumeric("b", []float64{3, 4}),
		NewCategorical("c", []string{"x", "y"}),
	)
	require.NoError(t, err)

	sel, err := f.Select("b", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, sel.Names())

	_, err = f.Select("a", "zzz")
	assert.Error(t, err)

	assert.Equal(t, []string{"a", "c"}, f.Drop("b", "not-there").Names())

	m, err := f.Matrix("a", "b")
	require.NoError(t, err)
	assert.True(t, mat.Equal(m, mat.NewDense(2, 2, []float64{1, 3, 2, 4})))

	_, err = f.Matrix("c")
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr))
}

func TestFromMatrix(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{1, 2, 3, 4})

	f, err := FromMatrix([]int{10, 20}, []string{"x", "y"}, m)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 20}, f.Index())
	y, err := f.Column("y")
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4}, y.Floats())

	_, err = FromMatrix([]int{1}, []string{"x", "y"}, m)
	assert.Error(t, err)
	_, err = FromMatrix([]int{1, 2}, []string{"x"}, m)
	assert.Error(t, err)
}
