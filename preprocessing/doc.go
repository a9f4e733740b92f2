// Package preprocessing provides frame transformers for categorical feature
// engineering and the matrix scalers they wrap.
//
// CombinationOHE, CategoryToValue and CategoryToDummies rewrite categorical
// columns into numeric indicator or value columns. SelectiveScaler applies a
// Scaler only to the columns whose maximum exceeds 1. Every frame transformer
// reports through model.ShapeReporter whether it keeps the input rows.
package preprocessing

import "github.com/YuminosukeSato/framekit/core/model"

var (
	_ model.FrameTransformer = (*CombinationOHE)(nil)
	_ model.FrameTransformer = (*CategoryToValue)(nil)
	_ model.FrameTransformer = (*CategoryToDummies)(nil)
	_ model.FrameTransformer = (*SelectiveScaler)(nil)

	_ model.ShapeReporter = (*CombinationOHE)(nil)
	_ model.ShapeReporter = (*CategoryToValue)(nil)
	_ model.ShapeReporter = (*CategoryToDummies)(nil)
	_ model.ShapeReporter = (*SelectiveScaler)(nil)

	_ model.Schema      = (*CombinationOHE)(nil)
	_ model.Schema      = (*CategoryToValue)(nil)
	_ model.Schema      = (*CategoryToDummies)(nil)
	_ model.ParamSetter = (*CombinationOHE)(nil)

	_ Scaler                   = (*StandardScaler)(nil)
	_ Scaler                   = (*MinMaxScaler)(nil)
	_ model.InverseTransformer = (*StandardScaler)(nil)
	_ model.InverseTransformer = (*MinMaxScaler)(nil)
)
