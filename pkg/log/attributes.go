// Package log defines standard attribute keys for frame transformations.
//
// Using these keys keeps log lines from different transformers comparable.
// Keys follow a hierarchical naming convention ("model.name", "data.samples").

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the transformer type.
	// Examples: "CombinationOHE", "CategoryToValue", "SelectiveScaler"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "transform", "fit_transform"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	ComponentKey = "ml.component"

	// ModeKey records the rewrite mode of a transformer ("binary", "aggregate").
	ModeKey = "ml.mode"

	// ShapeKey records whether an operation preserved or reshaped the rows.
	ShapeKey = "ml.row_shape"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of rows in the frame.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of columns in the frame.
	FeaturesKey = "data.features"

	// OutputSamplesKey indicates the number of rows produced.
	OutputSamplesKey = "data.output_samples"

	// OutputFeaturesKey indicates the number of columns produced.
	OutputFeaturesKey = "data.output_features"

	// CategoriesKey indicates the number of discovered categories.
	CategoriesKey = "data.categories"

	// ColumnsKey lists column names involved in an operation.
	ColumnsKey = "data.columns"
)

// Error and Warning Context
const (
	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"

	// StacktraceKey contains stack trace information for debugging.
	// Automatically populated when an error is logged.
	StacktraceKey = "error.stacktrace"
)

// Standard attribute value constants.
const (
	OperationFit          = "fit"
	OperationTransform    = "transform"
	OperationFitTransform = "fit_transform"

	ModeBinary    = "binary"
	ModeAggregate = "aggregate"
)
