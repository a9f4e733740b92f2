package preprocessing

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/framekit/core/frame"
	"github.com/YuminosukeSato/framekit/core/model"
	"github.com/YuminosukeSato/framekit/pkg/errors"
	"github.com/YuminosukeSato/framekit/pkg/log"
)

// CategoryToValue はカテゴリ列と数値列から、カテゴリごとの列を作る変換器
// 各行は自分のカテゴリの列に数値を持ち、それ以外の列は0になる
//
// Fit と FitTransform は異なる経路でスキーマを学習する:
//   - Fit はカテゴリ列の出現順のユニーク値を学習し、欠損は frame.MissingLabel として含む
//   - FitTransform は Pivot の列（ソート済み）を学習し、欠損の枠を含まない
//
// 欠損の枠は名前ではなく位置で記録されるため、実在のカテゴリ "NaN" は通常の列として扱われる。
//
// FitTransform は行インデックスで Pivot するため行数が変わることがあり、値は整数に切り捨てられる。
// Transform は行を保持し、値をそのまま出力する。
type CategoryToValue struct {
	state *model.StateManager

	category string
	value    string

	// position of the null placeholder in the learned schema, -1 if none
	nullAt int
}

// NewCategoryToValue は新しいCategoryToValueを作成する
//
// 使用例:
//
//	ctv := preprocessing.NewCategoryToValue("dept", "headcount")
//	if err := ctv.Fit(train); err != nil {
//	    return err
//	}
//	out, err := ctv.Transform(test)
func NewCategoryToValue(category, value string) *CategoryToValue {
	return &CategoryToValue{
		state:    model.NewStateManager(),
		category: category,
		value:    value,
		nullAt:   -1,
	}
}

// Fit はカテゴリ列の出現順ユニーク値をスキーマとして学習する
func (c *CategoryToValue) Fit(df *frame.Frame) error {
	if err := c.checkInput("Fit", df); err != nil {
		return err
	}
	schema, nullAt, err := df.Unique(c.category)
	if err != nil {
		return err
	}
	c.nullAt = nullAt
	c.state.Learn(schema, df.NCols(), df.NRows())

	log.GetLoggerWithName("preprocessing.category_to_value").Debug("fit completed",
		log.ModelNameKey, "CategoryToValue",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, df.NRows(),
		log.CategoriesKey, len(schema),
	)
	return nil
}

// FitTransform はカテゴリ列を行インデックスで Pivot し、その列をスキーマとして学習する
//
// 小数を含む値は整数に切り捨てられ DataConversionWarning が発生する。
// 学習した列集合が Fit の学習結果と異なる場合は SchemaDriftWarning が発生する。
func (c *CategoryToValue) FitTransform(df *frame.Frame) (*frame.Frame, error) {
	if err := c.checkInput("FitTransform", df); err != nil {
		return nil, err
	}

	pivoted, err := frame.Pivot(df, c.category, c.value)
	if err != nil {
		return nil, errors.Wrap(err, "CategoryToValue.FitTransform")
	}

	names := pivoted.Names()
	cols := make([]*frame.Column, len(names))
	truncated := false
	for j, name := range names {
		col, _ := pivoted.Column(name)
		v := col.Floats()
		for i, x := range v {
			t := math.Trunc(x)
			if t != x {
				truncated = true
			}
			v[i] = t
		}
		cols[j] = frame.NewNumeric(name, v)
	}
	out, err := frame.NewWithIndex(pivoted.Index(), cols...)
	if err != nil {
		return nil, err
	}
	if truncated {
		errors.Warn(errors.NewDataConversionWarning("float64", "int",
			fmt.Sprintf("values of %q truncated toward zero", c.value)))
	}

	fitted, nullAt, err := df.Unique(c.category)
	if err != nil {
		return nil, err
	}
	if nullAt >= 0 || !sameMembers(fitted, names) {
		errors.Warn(errors.NewSchemaDriftWarning("CategoryToValue", fitted, names))
	}
	c.nullAt = -1
	c.state.Learn(names, df.NCols(), df.NRows())

	log.GetLoggerWithName("preprocessing.category_to_value").Debug("fit_transform completed",
		log.ModelNameKey, "CategoryToValue",
		log.OperationKey, log.OperationFitTransform,
		log.ShapeKey, c.FitTransformShape().String(),
		log.SamplesKey, df.NRows(),
		log.OutputSamplesKey, out.NRows(),
		log.OutputFeaturesKey, out.NCols(),
	)
	return out, nil
}

// Transform は学習済みの各カテゴリ列を行ごとに埋める
//
// 入力に現れないカテゴリの列は全て0になる。欠損の枠の列は出力しない。
// 欠損値は0として扱う。
func (c *CategoryToValue) Transform(df *frame.Frame) (*frame.Frame, error) {
	if err := c.state.RequireFitted("CategoryToValue", "Transform"); err != nil {
		return nil, err
	}
	if err := c.checkInput("Transform", df); err != nil {
		return nil, err
	}

	catCol, _ := df.Column(c.category)
	valCol, _ := df.Column(c.value)
	n := df.NRows()

	values := make(map[string][]float64)
	for i := 0; i < n; i++ {
		label, ok := catCol.Label(i)
		if !ok {
			continue
		}
		v, exists := values[label]
		if !exists {
			v = make([]float64, n)
			values[label] = v
		}
		if !valCol.IsNull(i) {
			v[i] = valCol.Float(i)
		}
	}

	schema := c.state.Schema()
	cols := make([]*frame.Column, 0, len(schema))
	for j, name := range schema {
		if j == c.nullAt {
			continue
		}
		v, ok := values[name]
		if !ok {
			v = make([]float64, n)
		}
		cols = append(cols, frame.NewNumeric(name, v))
	}
	out, err := frame.NewWithIndex(df.Index(), cols...)
	if err != nil {
		return nil, err
	}

	log.GetLoggerWithName("preprocessing.category_to_value").Debug("transform completed",
		log.ModelNameKey, "CategoryToValue",
		log.OperationKey, log.OperationTransform,
		log.SamplesKey, n,
		log.OutputFeaturesKey, out.NCols(),
	)
	return out, nil
}

// TransformShape implements model.ShapeReporter.
func (c *CategoryToValue) TransformShape() model.RowShape {
	return model.RowsPreserved
}

// FitTransformShape implements model.ShapeReporter.
func (c *CategoryToValue) FitTransformShape() model.RowShape {
	return model.RowsReshaped
}

// Columns は学習済みのスキーマを返す
func (c *CategoryToValue) Columns() []string {
	return c.state.Schema()
}

// Snapshot は学習状態のスナップショットを返す
func (c *CategoryToValue) Snapshot() *model.Snapshot {
	snap := model.NewSnapshot("CategoryToValue", c, c.state)
	snap.Metadata["null_position"] = c.nullAt
	return snap
}

func (c *CategoryToValue) checkInput(op string, df *frame.Frame) error {
	op = "CategoryToValue." + op
	if !df.HasColumn(c.category) {
		return errors.NewColumnNotFoundError(op, c.category)
	}
	col, err := df.Column(c.value)
	if err != nil {
		return errors.NewColumnNotFoundError(op, c.value)
	}
	if col.Kind() != frame.Numeric {
		return errors.NewValidationError(c.value, "column must be numeric", col.Kind().String())
	}
	return nil
}

// GetParams は変換器のパラメータを取得する
func (c *CategoryToValue) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"c_col": c.category,
		"v_col": c.value,
	}
}

// String は変換器の文字列表現を返す
func (c *CategoryToValue) String() string {
	if !c.state.IsFitted() {
		return fmt.Sprintf("CategoryToValue(c_col=%s, v_col=%s)", c.category, c.value)
	}
	return fmt.Sprintf("CategoryToValue(c_col=%s, v_col=%s, n_columns=%d)",
		c.category, c.value, len(c.state.Schema()))
}

// sameMembers reports whether a and b hold the same set of names.
func sameMembers(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}
	seen := make(map[string]struct{}, len(b))
	for _, s := range b {
		if _, ok := set[s]; !ok {
			return false
		}
		seen[s] = struct{}{}
	}
	return len(seen) == len(set)
}
