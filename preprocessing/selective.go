package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/framekit/core/frame"
	"github.com/YuminosukeSato/framekit/core/model"
	"github.com/YuminosukeSato/framekit/pkg/errors"
	"github.com/YuminosukeSato/framekit/pkg/log"
)

// SelectiveScaler は最大値が1を超える列だけをラップしたスケーラーで変換する
// 最大値が1以下の列（指標列や割合など）はそのまま出力される
//
// 出力列の順序はスケーリング対象列、その後にそれ以外の列。
// 行は行インデックスのラベルで突き合わされる。
type SelectiveScaler struct {
	state  *model.StateManager
	scaler Scaler

	eligible []string
}

// NewSelectiveScaler は scaler をラップする SelectiveScaler を作成する
//
// 使用例:
//
//	sel := preprocessing.NewSelectiveScaler(preprocessing.NewStandardScalerDefault())
//	out, err := sel.FitTransform(df)
func NewSelectiveScaler(scaler Scaler) *SelectiveScaler {
	return &SelectiveScaler{
		state:  model.NewStateManager(),
		scaler: scaler,
	}
}

// Fit は適格列（NaNを除いた最大値 > 1）を決定し、その列だけでスケーラーを学習する
// 適格列がない場合スケーラーは呼ばれない
func (s *SelectiveScaler) Fit(df *frame.Frame) error {
	if s.scaler == nil {
		return errors.NewValidationError("scaler", "a scaler is required", nil)
	}
	eligible, err := eligibleColumns(df)
	if err != nil {
		return err
	}

	if len(eligible) > 0 {
		X, err := df.Matrix(eligible...)
		if err != nil {
			return errors.Wrap(err, "SelectiveScaler.Fit")
		}
		err = errors.SafeExecute("SelectiveScaler.Fit", func() error {
			return s.scaler.Fit(X)
		})
		if err != nil {
			return errors.Wrap(err, "SelectiveScaler.Fit")
		}
	}

	s.eligible = eligible
	s.state.Learn(df.Names(), df.NCols(), df.NRows())

	log.GetLoggerWithName("preprocessing.selective_scaler").Debug("fit completed",
		log.ModelNameKey, "SelectiveScaler",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, df.NRows(),
		log.FeaturesKey, df.NCols(),
		log.ColumnsKey, eligible,
	)
	return nil
}

// Transform は適格列をスケーラーで変換し、残りの列と行ラベルで結合する
func (s *SelectiveScaler) Transform(df *frame.Frame) (*frame.Frame, error) {
	if err := s.state.RequireFitted("SelectiveScaler", "Transform"); err != nil {
		return nil, err
	}
	if len(s.eligible) == 0 {
		return df.Select(df.Names()...)
	}

	X, err := df.Matrix(s.eligible...)
	if err != nil {
		return nil, errors.Wrap(err, "SelectiveScaler.Transform")
	}

	var out *frame.Frame
	err = errors.SafeExecute("SelectiveScaler.Transform", func() error {
		m, err := s.scaler.Transform(X)
		if err != nil {
			return err
		}
		r, c := m.Dims()
		if r != df.NRows() {
			return errors.NewDimensionError("SelectiveScaler.Transform", df.NRows(), r, 0)
		}
		if c != len(s.eligible) {
			return errors.NewDimensionError("SelectiveScaler.Transform", len(s.eligible), c, 1)
		}
		scaledFrame, err := frame.FromMatrix(df.Index(), s.eligible, m)
		if err != nil {
			return err
		}
		out, err = frame.Concat(scaledFrame, df.Drop(s.eligible...))
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "SelectiveScaler.Transform")
	}

	log.GetLoggerWithName("preprocessing.selective_scaler").Debug("transform completed",
		log.ModelNameKey, "SelectiveScaler",
		log.OperationKey, log.OperationTransform,
		log.SamplesKey, df.NRows(),
		log.OutputFeaturesKey, out.NCols(),
	)
	return out, nil
}

// FitTransform は学習と変換を続けて行う
func (s *SelectiveScaler) FitTransform(df *frame.Frame) (*frame.Frame, error) {
	if err := s.Fit(df); err != nil {
		return nil, err
	}
	return s.Transform(df)
}

// TransformShape implements model.ShapeReporter.
func (s *SelectiveScaler) TransformShape() model.RowShape {
	return model.RowsPreserved
}

// FitTransformShape implements model.ShapeReporter.
func (s *SelectiveScaler) FitTransformShape() model.RowShape {
	return model.RowsPreserved
}

// ScaledColumns は学習済みのスケーリング対象列を返す
func (s *SelectiveScaler) ScaledColumns() []string {
	return append([]string(nil), s.eligible...)
}

// Columns は学習時の入力列を返す
func (s *SelectiveScaler) Columns() []string {
	return s.state.Schema()
}

// Snapshot は学習状態のスナップショットを返す
func (s *SelectiveScaler) Snapshot() *model.Snapshot {
	snap := model.NewSnapshot("SelectiveScaler", s, s.state)
	snap.Params["scaler"] = fmt.Sprint(s.scaler)
	snap.Metadata["scaled_columns"] = s.ScaledColumns()
	return snap
}

// GetParams は変換器のパラメータを取得する
func (s *SelectiveScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"scaler": s.scaler,
	}
}

// String は変換器の文字列表現を返す
func (s *SelectiveScaler) String() string {
	if !s.state.IsFitted() {
		return fmt.Sprintf("SelectiveScaler(scaler=%v)", s.scaler)
	}
	return fmt.Sprintf("SelectiveScaler(scaler=%v, scaled=%v)", s.scaler, s.eligible)
}

// eligibleColumns returns, in frame order, the columns whose maximum over
// non-missing values exceeds 1. All columns must be numeric.
func eligibleColumns(df *frame.Frame) ([]string, error) {
	var eligible []string
	for _, name := range df.Names() {
		col, _ := df.Column(name)
		if col.Kind() != frame.Numeric {
			return nil, errors.NewValidationError(name, "column must be numeric", col.Kind().String())
		}
		values := col.Floats()
		present := values[:0]
		for _, v := range values {
			if !math.IsNaN(v) {
				present = append(present, v)
			}
		}
		if len(present) > 0 && floats.Max(present) > 1 {
			eligible = append(eligible, name)
		}
	}
	return eligible, nil
}
