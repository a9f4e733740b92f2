package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/framekit/pkg/errors"
)

func column(t *testing.T, f *Frame, name string) []float64 {
	t.Helper()
	c, err := f.Column(name)
	require.NoError(t, err)
	return c.Floats()
}

func TestDummiesPrefixed(t *testing.T) {
	f, err := New(
		NewCategorical("home", []string{"A", "B", "C"}),
		NewCategorical("away", []string{"B", "A", ""}).WithNulls(2),
	)
	require.NoError(t, err)

	d, err := Dummies(f, []string{"home", "away"}, true, "_")
	require.NoError(t, err)

	assert.Equal(t, []string{"home_A", "home_B", "home_C", "away_A", "away_B"}, d.Names())
	assert.Equal(t, []float64{1, 0, 0}, column(t, d, "home_A"))
	assert.Equal(t, []float64{0, 1, 0}, column(t, d, "away_A"))
	assert.Equal(t, []float64{1, 0, 0}, column(t, d, "away_B"))
	assert.Equal(t, f.Index(), d.Index())
}

func TestDummiesUnprefixedMergesCollisions(t *testing.T) {
	f, err := New(
		NewCategorical("a", []string{"x", "y"}),
		NewCategorical("b", []string{"x", "x"}),
	)
	require.NoError(t, err)

	d, err := Dummies(f, []string{"a", "b"}, false, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, d.Names())
	assert.Equal(t, []float64{2, 1}, column(t, d, "x"))
}

func TestDummiesMissingColumn(t *testing.T) {
	f, err := New(NewCategorical("a", []string{"x"}))
	require.NoError(t, err)

	_, err = Dummies(f, []string{"zzz"}, true, "_")
	var notFound *errors.ColumnNotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestPivot(t *testing.T) {
	f, err := New(
		NewCategorical("dept", []string{"sales", "eng", "eng", ""}).WithNulls(3),
		NewNumeric("hc", []float64{3, 5, 2, 9}),
	)
	require.NoError(t, err)

	p, err := Pivot(f, "dept", "hc")
	require.NoError(t, err)

	// the null row keeps its label but fills no cell
	assert.Equal(t, []string{"eng", "sales"}, p.Names())
	assert.Equal(t, []int{0, 1, 2, 3}, p.Index())
	assert.Equal(t, []float64{0, 5, 2, 0}, column(t, p, "eng"))
	assert.Equal(t, []float64{3, 0, 0, 0}, column(t, p, "sales"))
}

func TestPivotRealNaNCategory(t *testing.T) {
	f, err := New(
		NewCategorical("grade", []string{"NaN", "A", ""}).WithNulls(2),
		NewNumeric("n", []float64{4, 1, 9}),
	)
	require.NoError(t, err)

	p, err := Pivot(f, "grade", "n")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "NaN"}, p.Names())
	assert.Equal(t, []float64{4, 0, 0}, column(t, p, "NaN"))
}

func TestPivotGroupsRowsByIndexLabel(t *testing.T) {
	f, err := NewWithIndex([]int{5, 1, 5},
		NewCategorical("team", []string{"A", "B", "B"}),
		NewNumeric("score", []float64{10, 20, 30}),
	)
	require.NoError(t, err)

	p, err := Pivot(f, "team", "score")
	require.NoError(t, err)

	assert.Equal(t, []int{1, 5}, p.Index())
	assert.Equal(t, []float64{0, 10}, column(t, p, "A"))
	assert.Equal(t, []float64{20, 30}, column(t, p, "B"))
}

func TestPivotErrors(t *testing.T) {
	dup, err := NewWithIndex([]int{0, 0},
		NewCategorical("team", []string{"A", "A"}),
		NewNumeric("score", []float64{1, 2}),
	)
	require.NoError(t, err)
	_, err = Pivot(dup, "team", "score")
	assert.True(t, errors.Is(err, errors.ErrDuplicateIndex))

	nulls, err := NewWithIndex([]int{0, 0},
		NewCategorical("team", []string{"", ""}).WithNulls(0, 1),
		NewNumeric("score", []float64{1, 2}),
	)
	require.NoError(t, err)
	_, err = Pivot(nulls, "team", "score")
	assert.True(t, errors.Is(err, errors.ErrDuplicateIndex))

	bad, err := New(
		NewCategorical("team", []string{"A"}),
		NewCategorical("score", []string{"high"}),
	)
	require.NoError(t, err)
	_, err = Pivot(bad, "team", "score")
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr))

	_, err = Pivot(bad, "team", "nope")
	var notFound *errors.ColumnNotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestConcatAlignsByLabel(t *testing.T) {
	left, err := NewWithIndex([]int{10, 20, 30}, NewNumeric("a", []float64{1, 2, 3}))
	require.NoError(t, err)
	right, err := NewWithIndex([]int{30, 10, 20}, NewNumeric("b", []float64{300, 100, 200}))
	require.NoError(t, err)

	out, err := Concat(left, right)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, out.Names())
	assert.Equal(t, []int{10, 20, 30}, out.Index())
	assert.Equal(t, []float64{100, 200, 300}, column(t, out, "b"))
}

func TestConcatErrors(t *testing.T) {
	base, err := NewWithIndex([]int{0, 1}, NewNumeric("a", []float64{1, 2}))
	require.NoError(t, err)

	tests := []struct {
		name  string
		right *Frame
	}{
		{name: "row count", right: mustFrame(t, []int{0}, NewNumeric("b", []float64{1}))},
		{name: "foreign label", right: mustFrame(t, []int{0, 7}, NewNumeric("b", []float64{1, 2}))},
		{name: "duplicate label", right: mustFrame(t, []int{0, 0}, NewNumeric("b", []float64{1, 2}))},
		{name: "name collision", right: mustFrame(t, []int{0, 1}, NewNumeric("a", []float64{1, 2}))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Concat(base, tt.right)
			assert.Error(t, err)
		})
	}
}

func mustFrame(t *testing.T, index []int, cols ...*Column) *Frame {
	t.Helper()
	f, err := NewWithIndex(index, cols...)
	require.NoError(t, err)
	return f
}
