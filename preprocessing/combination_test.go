package preprocessing

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/framekit/core/frame"
	"github.com/YuminosukeSato/framekit/core/model"
	"github.com/YuminosukeSato/framekit/pkg/errors"
)

func matchFrame(t *testing.T) *frame.Frame {
	t.Helper()
	df, err := frame.New(
		frame.NewCategorical("home", []string{"A", "B", "C"}),
		frame.NewCategorical("away", []string{"B", "A", "D"}),
	)
	require.NoError(t, err)
	return df
}

func scoreFrame(t *testing.T, index []int, total []float64) *frame.Frame {
	t.Helper()
	df, err := frame.NewWithIndex(index,
		frame.NewCategorical("home", []string{"A", "B", "A"}),
		frame.NewCategorical("away", []string{"B", "C", "C"}),
		frame.NewNumeric("home_score", []float64{1, 2, 3}),
		frame.NewNumeric("away_score", []float64{4, 5, 6}),
		frame.NewNumeric("total", total),
	)
	require.NoError(t, err)
	return df
}

func floatsOf(t *testing.T, df *frame.Frame, name string) []float64 {
	t.Helper()
	col, err := df.Column(name)
	require.NoError(t, err)
	return col.Floats()
}

func TestCombinationOHEBinary(t *testing.T) {
	df := matchFrame(t)
	ohe := NewCombinationOHE("home", "away")

	out, err := ohe.FitTransform(df)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C", "D"}, out.Names())
	assert.Equal(t, df.Index(), out.Index())
	assert.Equal(t, []float64{1, 1, 0}, floatsOf(t, out, "A"))
	assert.Equal(t, []float64{1, 1, 0}, floatsOf(t, out, "B"))
	assert.Equal(t, []float64{0, 0, 1}, floatsOf(t, out, "C"))
	assert.Equal(t, []float64{0, 0, 1}, floatsOf(t, out, "D"))
	assert.Equal(t, model.RowsPreserved, ohe.TransformShape())
}

func TestCombinationOHEBinaryExactMatch(t *testing.T) {
	// "A" must not pick up the indicator of "AB"
	df, err := frame.New(
		frame.NewCategorical("home", []string{"AB", "A"}),
		frame.NewCategorical("away", []string{"C", "C"}),
	)
	require.NoError(t, err)

	out, err := NewCombinationOHE("home", "away").FitTransform(df)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, floatsOf(t, out, "A"))
	assert.Equal(t, []float64{1, 0}, floatsOf(t, out, "AB"))
}

func TestCombinationOHEBinaryPrefixCollision(t *testing.T) {
	// "a"+"x_y" and "a_x"+"y" would both be named a_x_y as indicators
	df, err := frame.New(
		frame.NewCategorical("a", []string{"x_y", "q"}),
		frame.NewCategorical("a_x", []string{"z", "y"}),
	)
	require.NoError(t, err)

	out, err := NewCombinationOHE("a", "a_x").FitTransform(df)
	require.NoError(t, err)
	assert.Equal(t, []string{"q", "x_y", "y", "z"}, out.Names())
	assert.Equal(t, []float64{1, 0}, floatsOf(t, out, "x_y"))
	assert.Equal(t, []float64{0, 1}, floatsOf(t, out, "y"))
	assert.Equal(t, []float64{0, 1}, floatsOf(t, out, "q"))
	assert.Equal(t, []float64{1, 0}, floatsOf(t, out, "z"))
}

func TestCombinationOHEUnseenCategoryAtTransform(t *testing.T) {
	ohe := NewCombinationOHE("home", "away")
	require.NoError(t, ohe.Fit(matchFrame(t)))

	test, err := frame.New(
		frame.NewCategorical("home", []string{"A", "Z"}),
		frame.NewCategorical("away", []string{"", "B"}).WithNulls(0),
	)
	require.NoError(t, err)

	out, err := ohe.Transform(test)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D"}, out.Names())
	assert.Equal(t, []float64{1, 0}, floatsOf(t, out, "A"))
	assert.Equal(t, []float64{0, 1}, floatsOf(t, out, "B"))
	assert.Equal(t, []float64{0, 0}, floatsOf(t, out, "C"))
}

func TestCombinationOHERemoval(t *testing.T) {
	tests := []struct {
		name    string
		opt     CombinationOption
		want    []string
		wantErr bool
	}{
		{name: "list ignores unknown names", opt: WithRemoved("D", "Z"), want: []string{"A", "B", "C"}},
		{name: "single present", opt: WithRemovedCategory("C"), want: []string{"A", "B", "D"}},
		{name: "single absent", opt: WithRemovedCategory("Z"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ohe := NewCombinationOHE("home", "away", tt.opt)
			err := ohe.Fit(matchFrame(t))
			if tt.wantErr {
				var valErr *errors.ValueError
				assert.True(t, errors.As(err, &valErr), "unexpected error %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ohe.Columns())
			assert.Equal(t, tt.want, ohe.Categories())
		})
	}
}

func TestCombinationOHECombination(t *testing.T) {
	ohe := NewCombinationOHE("home", "away", WithCombination([]string{"A", "B"}, "AB"))

	out, err := ohe.FitTransform(matchFrame(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"C", "D", "AB"}, out.Names())
	assert.Equal(t, []float64{1, 1, 0}, floatsOf(t, out, "AB"))
	assert.Equal(t, []float64{0, 0, 1}, floatsOf(t, out, "C"))
}

func TestCombinationOHECombinationErrors(t *testing.T) {
	tests := []struct {
		name string
		opt  CombinationOption
	}{
		{name: "unknown category", opt: WithCombination([]string{"A", "Z"}, "AZ")},
		{name: "empty target", opt: WithCombination([]string{"A"}, "")},
		{name: "target collides", opt: WithCombination([]string{"A", "B"}, "C")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewCombinationOHE("home", "away", tt.opt).Fit(matchFrame(t))
			var valErr *errors.ValidationError
			assert.True(t, errors.As(err, &valErr), "unexpected error %v", err)
		})
	}
}

func TestCombinationOHEAggregate(t *testing.T) {
	df := scoreFrame(t, []int{0, 1, 2}, []float64{2, 1, 3})
	ohe := NewCombinationOHE("home", "away",
		WithAggregate("home_score", "away_score"),
		WithProportion("total"),
	)

	out, err := ohe.FitTransform(df)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, out.Names())
	assert.Equal(t, []int{0, 1, 2}, out.Index())
	assert.Equal(t, []float64{0.5, 0, 1}, floatsOf(t, out, "A"))
	assert.Equal(t, []float64{2, 2, 0}, floatsOf(t, out, "B"))
	assert.Equal(t, []float64{0, 5, 2}, floatsOf(t, out, "C"))
	assert.Equal(t, model.RowsReshaped, ohe.TransformShape())
}

func TestCombinationOHEAggregateGroupsByIndexLabel(t *testing.T) {
	df := scoreFrame(t, []int{10, 10, 20}, []float64{2, 1, 3})
	ohe := NewCombinationOHE("home", "away",
		WithAggregate("home_score", "away_score"),
		WithProportion("total"),
	)

	out, err := ohe.FitTransform(df)
	require.NoError(t, err)

	assert.Equal(t, []int{10, 20}, out.Index())
	// label 10 is divided by the total of its first row
	assert.Equal(t, []float64{0.5, 1}, floatsOf(t, out, "A"))
	assert.Equal(t, []float64{3, 0}, floatsOf(t, out, "B"))
	assert.Equal(t, []float64{2.5, 2}, floatsOf(t, out, "C"))
}

func TestCombinationOHEAggregateRestrictsToDiscovered(t *testing.T) {
	df := scoreFrame(t, []int{0, 1, 2}, []float64{1, 1, 1})
	ohe := NewCombinationOHE("home", "away",
		WithAggregate("home_score", "away_score"),
		WithRemoved("B"),
	)

	out, err := ohe.FitTransform(df)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, out.Names())
	assert.Equal(t, []float64{1, 0, 3}, floatsOf(t, out, "A"))
}

func TestCombinationOHEZeroDivisor(t *testing.T) {
	tests := []struct {
		name    string
		home    []float64
		away    []float64
		total   []float64
		wantA   []float64
		wantB   []float64
		wantRow int
		wantErr bool
	}{
		{
			name:  "zero over zero fills 0",
			home:  []float64{2, 0},
			away:  []float64{4, 0},
			total: []float64{2, 0},
			wantA: []float64{1, 0},
			wantB: []float64{2, 0},
		},
		{
			name:  "missing divisor fills 0",
			home:  []float64{2, 3},
			away:  []float64{4, 1},
			total: []float64{2, math.NaN()},
			wantA: []float64{1, 0},
			wantB: []float64{2, 0},
		},
		{
			name:    "nonzero over zero fails",
			home:    []float64{2, 3},
			away:    []float64{4, 1},
			total:   []float64{2, 0},
			wantRow: 1,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			df, err := frame.New(
				frame.NewCategorical("home", []string{"A", "B"}),
				frame.NewCategorical("away", []string{"B", "A"}),
				frame.NewNumeric("home_score", tt.home),
				frame.NewNumeric("away_score", tt.away),
				frame.NewNumeric("total", tt.total),
			)
			require.NoError(t, err)
			ohe := NewCombinationOHE("home", "away",
				WithAggregate("home_score", "away_score"),
				WithProportion("total"),
			)

			out, err := ohe.FitTransform(df)
			if tt.wantErr {
				var numErr *errors.NumericalInstabilityError
				require.True(t, errors.As(err, &numErr), "unexpected error %v", err)
				assert.Equal(t, tt.wantRow, numErr.Row)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantA, floatsOf(t, out, "A"))
			assert.Equal(t, tt.wantB, floatsOf(t, out, "B"))
		})
	}
}

func TestCombinationOHEMissingColumns(t *testing.T) {
	df := scoreFrame(t, []int{0, 1, 2}, []float64{1, 1, 1})

	tests := []struct {
		name string
		ohe  *CombinationOHE
	}{
		{name: "source", ohe: NewCombinationOHE("home", "visitor")},
		{name: "aggregate", ohe: NewCombinationOHE("home", "away", WithAggregate("home_score", "nope"))},
		{name: "proportion", ohe: NewCombinationOHE("home", "away",
			WithAggregate("home_score", "away_score"), WithProportion("nope"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ohe.Fit(df)
			var notFound *errors.ColumnNotFoundError
			assert.True(t, errors.As(err, &notFound), "unexpected error %v", err)
		})
	}
}

func TestCombinationOHENotFitted(t *testing.T) {
	_, err := NewCombinationOHE("home", "away").Transform(matchFrame(t))
	var notFitted *errors.NotFittedError
	assert.True(t, errors.As(err, &notFitted))
}

func TestCombinationOHESetParams(t *testing.T) {
	tests := []struct {
		name    string
		params  map[string]interface{}
		check   func(t *testing.T, err error)
		columns []string
	}{
		{
			name:    "rem_cols string",
			params:  map[string]interface{}{"rem_cols": "A"},
			columns: []string{"B", "C", "D"},
		},
		{
			name:    "rem_cols list",
			params:  map[string]interface{}{"rem_cols": []interface{}{"A", "Q"}},
			columns: []string{"B", "C", "D"},
		},
		{
			name:   "rem_cols wrong type",
			params: map[string]interface{}{"rem_cols": 5},
			check: func(t *testing.T, err error) {
				var typeErr *errors.TypeError
				assert.True(t, errors.As(err, &typeErr), "unexpected error %v", err)
			},
		},
		{
			name:   "rem_cols list with non-string",
			params: map[string]interface{}{"rem_cols": []interface{}{"A", 3}},
			check: func(t *testing.T, err error) {
				var typeErr *errors.TypeError
				assert.True(t, errors.As(err, &typeErr), "unexpected error %v", err)
			},
		},
		{
			name:   "proportion constant other than 1",
			params: map[string]interface{}{"proportion": 2.0},
			check: func(t *testing.T, err error) {
				var valErr *errors.ValidationError
				assert.True(t, errors.As(err, &valErr), "unexpected error %v", err)
			},
		},
		{
			name:   "unknown key",
			params: map[string]interface{}{"columns_x": 1},
			check: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ohe := NewCombinationOHE("home", "away")
			err := ohe.SetParams(tt.params)
			if tt.check != nil {
				tt.check(t, err)
				// a failed SetParams leaves the instance untouched
				assert.Nil(t, ohe.GetParams()["rem_cols"])
				return
			}
			require.NoError(t, err)
			require.NoError(t, ohe.Fit(matchFrame(t)))
			assert.Equal(t, tt.columns, ohe.Columns())
		})
	}
}

func TestCombinationOHESetParamsAfterFit(t *testing.T) {
	ohe := NewCombinationOHE("home", "away")
	require.NoError(t, ohe.Fit(matchFrame(t)))

	err := ohe.SetParams(map[string]interface{}{"rem_cols": "A"})
	assert.Error(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D"}, ohe.Columns())
}

func TestCombinationOHEGetParams(t *testing.T) {
	ohe := NewCombinationOHE("home", "away",
		WithAggregate("hs", "as"),
		WithProportion("total"),
		WithRemovedCategory("X"),
	)
	params := ohe.GetParams()
	assert.Equal(t, "X", params["rem_cols"])
	assert.Equal(t, []string{"hs", "as"}, params["agg_cols"])
	assert.Equal(t, "total", params["proportion"])
	assert.True(t, ohe.Aggregate())
	assert.Contains(t, ohe.String(), "mode=aggregate")
}

func TestCombinationOHESnapshot(t *testing.T) {
	ohe := NewCombinationOHE("home", "away", WithRemoved("D"))
	require.NoError(t, ohe.Fit(matchFrame(t)))

	data, err := ohe.Snapshot().ToJSON()
	require.NoError(t, err)

	var snap model.Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	require.NoError(t, snap.Validate())
	assert.Equal(t, "CombinationOHE", snap.Transformer)
	assert.Equal(t, []string{"A", "B", "C"}, snap.State.Columns)
	assert.Equal(t, []interface{}{"A", "B", "C"}, snap.Metadata["categories"])
	assert.Equal(t, "binary", snap.Metadata["mode"])
}
