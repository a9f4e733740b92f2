// Package model defines the contracts shared by the framekit transformers and
// the state they learn during Fit.
package model

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/framekit/core/frame"
)

// FrameTransformer はフレームを入力とする変換器のインターフェース
type FrameTransformer interface {
	// Fit は変換に必要な列スキーマを学習する
	Fit(df *frame.Frame) error

	// Transform は学習済みスキーマでフレームを変換する
	Transform(df *frame.Frame) (*frame.Frame, error)

	// FitTransform はFitとTransformを同時に実行する
	FitTransform(df *frame.Frame) (*frame.Frame, error)
}

// RowShape describes how an operation relates output rows to input rows.
type RowShape int

const (
	// RowsPreserved means one output row per input row, carrying the same index labels.
	RowsPreserved RowShape = iota
	// RowsReshaped means output rows are keyed by distinct index labels of a
	// pivot; row count and order may differ from the input.
	RowsReshaped
)

// String returns the shape name used in logs.
func (s RowShape) String() string {
	if s == RowsReshaped {
		return "reshaped"
	}
	return "preserved"
}

// ShapeReporter is implemented by transformers so callers can tell a per-row
// rewrite from a reshape before relying on positional alignment.
type ShapeReporter interface {
	TransformShape() RowShape
	FitTransformShape() RowShape
}

// Schema exposes the learned output columns.
type Schema interface {
	Columns() []string
}

// Parameterized はscikit-learn互換のパラメータ取得インターフェース
type Parameterized interface {
	// GetParams はハイパーパラメータを sklearn の名前で返す
	GetParams() map[string]interface{}
}

// ParamSetter はパラメータの再設定をサポートする変換器
type ParamSetter interface {
	Parameterized

	// SetParams はハイパーパラメータを sklearn の名前で設定する
	SetParams(params map[string]interface{}) error
}

// InverseTransformer は逆変換可能な行列変換器のインターフェース
type InverseTransformer interface {
	Fit(X mat.Matrix) error
	Transform(X mat.Matrix) (mat.Matrix, error)
	FitTransform(X mat.Matrix) (mat.Matrix, error)

	// InverseTransform は変換を逆方向に適用する
	InverseTransform(X mat.Matrix) (mat.Matrix, error)
}
