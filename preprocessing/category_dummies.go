package preprocessing

import (
	"fmt"

	"github.com/YuminosukeSato/framekit/core/frame"
	"github.com/YuminosukeSato/framekit/core/model"
	"github.com/YuminosukeSato/framekit/pkg/errors"
	"github.com/YuminosukeSato/framekit/pkg/log"
)

// CategoryToDummies one-hot encodes a categorical column against a fixed
// whitelist. Values outside the whitelist, and nulls, go to the
// <column>_Other bucket.
//
// The output schema is fixed at construction: one column per whitelisted
// value in the given order, then the Other bucket. Whitelisted values that
// never occur still produce an all-zero column. Fit learns nothing from the
// data, so Transform works on an unfitted instance.
type CategoryToDummies struct {
	state *model.StateManager

	category   string
	categories []string
}

// NewCategoryToDummies creates a CategoryToDummies for column category and
// the whitelist categories.
func NewCategoryToDummies(category string, categories []string) *CategoryToDummies {
	return &CategoryToDummies{
		state:      model.NewStateManager(),
		category:   category,
		categories: append([]string(nil), categories...),
	}
}

// OtherLabel returns the name of the bucket for non-whitelisted values.
func (c *CategoryToDummies) OtherLabel() string {
	return c.category + "_Other"
}

// Fit validates the whitelist and records the fixed schema.
func (c *CategoryToDummies) Fit(df *frame.Frame) error {
	if err := c.validate("Fit", df); err != nil {
		return err
	}
	c.state.Learn(c.Columns(), df.NCols(), df.NRows())
	return nil
}

// Transform encodes df against the whitelist.
func (c *CategoryToDummies) Transform(df *frame.Frame) (*frame.Frame, error) {
	if err := c.validate("Transform", df); err != nil {
		return nil, err
	}
	return c.encode(df, log.OperationTransform)
}

// FitTransform records the schema and encodes df.
func (c *CategoryToDummies) FitTransform(df *frame.Frame) (*frame.Frame, error) {
	if err := c.Fit(df); err != nil {
		return nil, err
	}
	return c.encode(df, log.OperationFitTransform)
}

// encode picks the whitelisted indicators out of the column's dummies. A row
// with no whitelisted indicator lands in the Other bucket.
func (c *CategoryToDummies) encode(df *frame.Frame, op string) (*frame.Frame, error) {
	dummies, err := frame.Dummies(df, []string{c.category}, false, "")
	if err != nil {
		return nil, err
	}
	n := df.NRows()

	other := make([]float64, n)
	for i := range other {
		other[i] = 1
	}
	cols := make([]*frame.Column, 0, len(c.categories)+1)
	for _, cat := range c.categories {
		v := make([]float64, n)
		if ind, err := dummies.Column(cat); err == nil {
			v = ind.Floats()
			for i, x := range v {
				if x != 0 {
					other[i] = 0
				}
			}
		}
		cols = append(cols, frame.NewNumeric(cat, v))
	}
	cols = append(cols, frame.NewNumeric(c.OtherLabel(), other))

	out, err := frame.NewWithIndex(df.Index(), cols...)
	if err != nil {
		return nil, err
	}

	log.GetLoggerWithName("preprocessing.category_to_dummies").Debug("encoding completed",
		log.ModelNameKey, "CategoryToDummies",
		log.OperationKey, op,
		log.SamplesKey, n,
		log.OutputFeaturesKey, len(cols),
	)
	return out, nil
}

// validate checks the whitelist and the presence of the category column. An
// empty whitelist is allowed and sends every row to the Other bucket.
func (c *CategoryToDummies) validate(op string, df *frame.Frame) error {
	seen := make(map[string]struct{}, len(c.categories))
	for _, cat := range c.categories {
		if _, dup := seen[cat]; dup {
			return errors.NewValidationError("categories", "duplicate whitelist value", cat)
		}
		if cat == c.OtherLabel() {
			return errors.NewValidationError("categories", "collides with the Other bucket", cat)
		}
		seen[cat] = struct{}{}
	}
	if !df.HasColumn(c.category) {
		return errors.NewColumnNotFoundError("CategoryToDummies."+op, c.category)
	}
	return nil
}

// TransformShape implements model.ShapeReporter.
func (c *CategoryToDummies) TransformShape() model.RowShape {
	return model.RowsPreserved
}

// FitTransformShape implements model.ShapeReporter.
func (c *CategoryToDummies) FitTransformShape() model.RowShape {
	return model.RowsPreserved
}

// Columns returns the output columns: the whitelist, then the Other bucket.
func (c *CategoryToDummies) Columns() []string {
	return append(append([]string(nil), c.categories...), c.OtherLabel())
}

// Snapshot returns the parameters and learned state for inspection.
func (c *CategoryToDummies) Snapshot() *model.Snapshot {
	snap := model.NewSnapshot("CategoryToDummies", c, c.state)
	snap.Metadata["other_label"] = c.OtherLabel()
	return snap
}

// GetParams returns the transformer parameters.
func (c *CategoryToDummies) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"col":        c.category,
		"categories": append([]string(nil), c.categories...),
	}
}

// String returns a short description of the transformer.
func (c *CategoryToDummies) String() string {
	return fmt.Sprintf("CategoryToDummies(col=%s, categories=%v)", c.category, c.categories)
}
