package preprocessing

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/framekit/core/frame"
	"github.com/YuminosukeSato/framekit/core/model"
	"github.com/YuminosukeSato/framekit/pkg/errors"
	"github.com/YuminosukeSato/framekit/pkg/log"
)

// removalSpec mirrors the two accepted forms of the rem_cols parameter: a
// list (set difference) or a single name (must be present).
type removalSpec struct {
	names  []string
	single bool
	set    bool
}

// CombinationOHE turns two categorical columns that draw from the same
// categories into one set of category columns.
//
// In binary mode a cell is 1 when the row holds the category in either source
// column. In aggregate mode the cell holds the paired aggregate value(s),
// summed across both sources and divided by the proportion divisor; that mode
// pivots on the row index and therefore reshapes rows.
type CombinationOHE struct {
	state *model.StateManager

	columns    [2]string
	removal    removalSpec
	aggColumns []string
	comb       []string
	combColumn string
	proportion string

	// learned by Fit
	categories []string
}

// NewCombinationOHE creates a CombinationOHE over two source columns.
//
// 使用例:
//
//	ohe := preprocessing.NewCombinationOHE("home_team", "away_team",
//	    preprocessing.WithRemoved("unknown"),
//	    preprocessing.WithCombination([]string{"A", "B"}, "AB"),
//	)
//	out, err := ohe.FitTransform(df)
func NewCombinationOHE(first, second string, opts ...CombinationOption) *CombinationOHE {
	c := &CombinationOHE{
		state:   model.NewStateManager(),
		columns: [2]string{first, second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Aggregate reports whether the transformer runs in aggregate mode.
func (c *CombinationOHE) Aggregate() bool {
	return c.aggColumns != nil
}

// Fit discovers the category columns from the union of both source columns.
func (c *CombinationOHE) Fit(df *frame.Frame) error {
	logger := log.GetLoggerWithName("preprocessing.combination_ohe")

	if err := c.checkInput("Fit", df); err != nil {
		return err
	}

	discovered := make(map[string]struct{})
	for _, name := range c.columns {
		col, _ := df.Column(name)
		for i := 0; i < col.Len(); i++ {
			if v, ok := col.Label(i); ok {
				discovered[v] = struct{}{}
			}
		}
	}

	categories, err := c.applyRemoval(discovered)
	if err != nil {
		return err
	}

	if !c.Aggregate() && c.comb != nil {
		if err := c.checkCombination(categories); err != nil {
			return err
		}
	}

	c.categories = categories
	c.state.Learn(c.outputColumns(categories), df.NCols(), df.NRows())

	logger.Debug("fit completed",
		log.ModelNameKey, "CombinationOHE",
		log.OperationKey, log.OperationFit,
		log.ModeKey, c.mode(),
		log.SamplesKey, df.NRows(),
		log.CategoriesKey, len(categories),
	)
	return nil
}

// Transform rewrites df over the discovered category columns.
func (c *CombinationOHE) Transform(df *frame.Frame) (*frame.Frame, error) {
	if err := c.state.RequireFitted("CombinationOHE", "Transform"); err != nil {
		return nil, err
	}
	if err := c.checkInput("Transform", df); err != nil {
		return nil, err
	}

	var (
		out *frame.Frame
		err error
	)
	if c.Aggregate() {
		out, err = c.makeAggregate(df)
	} else {
		out, err = c.makeBinary(df)
	}
	if err != nil {
		return nil, errors.Wrap(err, "CombinationOHE.Transform")
	}

	log.GetLoggerWithName("preprocessing.combination_ohe").Debug("transform completed",
		log.ModelNameKey, "CombinationOHE",
		log.OperationKey, log.OperationTransform,
		log.ModeKey, c.mode(),
		log.ShapeKey, c.TransformShape().String(),
		log.SamplesKey, df.NRows(),
		log.OutputSamplesKey, out.NRows(),
		log.OutputFeaturesKey, out.NCols(),
	)
	return out, nil
}

// FitTransform fits on df and rewrites it.
func (c *CombinationOHE) FitTransform(df *frame.Frame) (*frame.Frame, error) {
	if err := c.Fit(df); err != nil {
		return nil, err
	}
	return c.Transform(df)
}

// TransformShape implements model.ShapeReporter.
func (c *CombinationOHE) TransformShape() model.RowShape {
	if c.Aggregate() {
		return model.RowsReshaped
	}
	return model.RowsPreserved
}

// FitTransformShape implements model.ShapeReporter.
func (c *CombinationOHE) FitTransformShape() model.RowShape {
	return c.TransformShape()
}

// Columns returns the learned output columns.
func (c *CombinationOHE) Columns() []string {
	return c.state.Schema()
}

// Snapshot returns the parameters and learned state for inspection.
func (c *CombinationOHE) Snapshot() *model.Snapshot {
	snap := model.NewSnapshot("CombinationOHE", c, c.state)
	snap.Metadata["categories"] = c.Categories()
	snap.Metadata["mode"] = c.mode()
	return snap
}

// Categories returns the discovered categories after removal.
func (c *CombinationOHE) Categories() []string {
	return append([]string(nil), c.categories...)
}

// makeBinary sets a category cell to 1 when either source column holds the
// category on that row. Cells are read from the source labels directly, so
// categories never match through generated column names.
func (c *CombinationOHE) makeBinary(df *frame.Frame) (*frame.Frame, error) {
	n := df.NRows()
	values := make(map[string][]float64, len(c.categories))
	for _, cat := range c.categories {
		values[cat] = make([]float64, n)
	}
	for _, name := range c.columns {
		col, err := df.Column(name)
		if err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			label, ok := col.Label(i)
			if !ok {
				continue
			}
			// removed or unseen categories have no column
			if v, known := values[label]; known {
				v[i] = 1
			}
		}
	}

	if c.comb != nil {
		combined := make([]float64, n)
		for _, name := range c.comb {
			for i, x := range values[name] {
				if x != 0 {
					combined[i] = 1
				}
			}
		}
		values[c.combColumn] = combined
	}

	names := c.state.Schema()
	cols := make([]*frame.Column, len(names))
	for j, name := range names {
		cols[j] = frame.NewNumeric(name, values[name])
	}
	return frame.NewWithIndex(df.Index(), cols...)
}

// makeAggregate pivots each source column against its aggregate column,
// overlays the second pivot onto the first and divides by the proportion.
func (c *CombinationOHE) makeAggregate(df *frame.Frame) (*frame.Frame, error) {
	first, err := frame.Pivot(df, c.columns[0], c.aggColumns[0])
	if err != nil {
		return nil, err
	}
	second, err := frame.Pivot(df, c.columns[1], c.aggColumns[1])
	if err != nil {
		return nil, err
	}

	// Both pivots are keyed by the same sorted labels of df's index.
	labels := first.Index()
	n := len(labels)
	overlay := make(map[string][]float64, first.NCols()+second.NCols())
	for _, p := range []*frame.Frame{first, second} {
		for _, name := range p.Names() {
			col, _ := p.Column(name)
			if acc, ok := overlay[name]; ok {
				floats.Add(acc, col.Floats())
				continue
			}
			overlay[name] = col.Floats()
		}
	}

	divisor, err := c.divisor(df, labels)
	if err != nil {
		return nil, err
	}

	if n == 0 || len(c.categories) == 0 {
		cols := make([]*frame.Column, len(c.categories))
		for j, name := range c.categories {
			cols[j] = frame.NewNumeric(name, make([]float64, n))
		}
		return frame.NewWithIndex(labels, cols...)
	}

	out := mat.NewDense(n, len(c.categories), nil)
	for j, cat := range c.categories {
		v, ok := overlay[cat]
		if !ok {
			// discovered at fit time but absent here
			continue
		}
		v = append([]float64(nil), v...)
		floats.Div(v, divisor)
		for i, x := range v {
			// 0/0 is a gap, filled like any other
			if math.IsNaN(x) {
				v[i] = 0
			}
		}
		out.SetCol(j, v)
	}
	// a nonzero value over a zero divisor is left as ±Inf and rejected
	if err := errors.CheckMatrix("proportion_divide", out, n, len(c.categories)); err != nil {
		return nil, err
	}
	return frame.FromMatrix(labels, c.categories, out)
}

// divisor returns one divisor per output label: 1, or the proportion column
// value of the first input row carrying the label.
func (c *CombinationOHE) divisor(df *frame.Frame, labels []int) ([]float64, error) {
	d := make([]float64, len(labels))
	if c.proportion == "" {
		for i := range d {
			d[i] = 1
		}
		return d, nil
	}
	first := make(map[int]int, len(labels))
	for pos, l := range df.Index() {
		if _, seen := first[l]; !seen {
			first[l] = pos
		}
	}
	for i, l := range labels {
		v, err := df.Float(c.proportion, first[l])
		if err != nil {
			return nil, err
		}
		d[i] = v
	}
	return d, nil
}

func (c *CombinationOHE) applyRemoval(discovered map[string]struct{}) ([]string, error) {
	if c.removal.set {
		if c.removal.single {
			name := c.removal.names[0]
			if _, ok := discovered[name]; !ok {
				return nil, errors.NewValueError("CombinationOHE.Fit",
					fmt.Sprintf("rem_cols %q is not a discovered category", name))
			}
		}
		for _, name := range c.removal.names {
			delete(discovered, name)
		}
	}
	categories := make([]string, 0, len(discovered))
	for cat := range discovered {
		categories = append(categories, cat)
	}
	sort.Strings(categories)
	return categories, nil
}

func (c *CombinationOHE) checkCombination(categories []string) error {
	if c.combColumn == "" {
		return errors.NewValidationError("comb_col", "combined column name is required with comb", c.combColumn)
	}
	known := make(map[string]struct{}, len(categories))
	for _, cat := range categories {
		known[cat] = struct{}{}
	}
	merged := make(map[string]struct{}, len(c.comb))
	for _, name := range c.comb {
		if _, ok := known[name]; !ok {
			return errors.NewValidationError("comb", "not a discovered category", name)
		}
		merged[name] = struct{}{}
	}
	if _, ok := known[c.combColumn]; ok {
		if _, replaced := merged[c.combColumn]; !replaced {
			return errors.NewValidationError("comb_col", "collides with a discovered category", c.combColumn)
		}
	}
	return nil
}

// checkInput fails fast on every column the configuration references.
func (c *CombinationOHE) checkInput(op string, df *frame.Frame) error {
	op = "CombinationOHE." + op
	for _, name := range c.columns {
		if !df.HasColumn(name) {
			return errors.NewColumnNotFoundError(op, name)
		}
	}
	numeric := append([]string(nil), c.aggColumns...)
	if c.Aggregate() && c.proportion != "" {
		numeric = append(numeric, c.proportion)
	}
	for _, name := range numeric {
		col, err := df.Column(name)
		if err != nil {
			return errors.NewColumnNotFoundError(op, name)
		}
		if col.Kind() != frame.Numeric {
			return errors.NewValidationError(name, "column must be numeric", col.Kind().String())
		}
	}
	return nil
}

func (c *CombinationOHE) outputColumns(categories []string) []string {
	if c.Aggregate() || c.comb == nil {
		return append([]string(nil), categories...)
	}
	merged := make(map[string]struct{}, len(c.comb))
	for _, name := range c.comb {
		merged[name] = struct{}{}
	}
	out := make([]string, 0, len(categories)+1)
	for _, cat := range categories {
		if _, ok := merged[cat]; !ok {
			out = append(out, cat)
		}
	}
	return append(out, c.combColumn)
}

func (c *CombinationOHE) mode() string {
	if c.Aggregate() {
		return log.ModeAggregate
	}
	return log.ModeBinary
}

// GetParams returns the hyperparameters under their sklearn-style names.
func (c *CombinationOHE) GetParams() map[string]interface{} {
	params := map[string]interface{}{
		"columns":    []string{c.columns[0], c.columns[1]},
		"rem_cols":   nil,
		"agg_cols":   nil,
		"comb":       nil,
		"comb_col":   c.combColumn,
		"proportion": interface{}(1),
	}
	if c.removal.set {
		if c.removal.single {
			params["rem_cols"] = c.removal.names[0]
		} else {
			params["rem_cols"] = append([]string(nil), c.removal.names...)
		}
	}
	if c.aggColumns != nil {
		params["agg_cols"] = append([]string(nil), c.aggColumns...)
	}
	if c.comb != nil {
		params["comb"] = append([]string(nil), c.comb...)
	}
	if c.proportion != "" {
		params["proportion"] = c.proportion
	}
	return params
}

// SetParams sets hyperparameters by their sklearn-style names. It fails on a
// fitted instance so that the learned schema never changes underneath
// Transform.
//
// rem_cols accepts a string or a list of strings; any other type is a
// TypeError. proportion accepts a column name or the number 1.
func (c *CombinationOHE) SetParams(params map[string]interface{}) error {
	if c.state.IsFitted() {
		return errors.NewValidationError("params", "cannot change parameters of a fitted transformer", params)
	}
	next := *c
	for key, value := range params {
		switch key {
		case "rem_cols":
			spec, err := parseRemoval(value)
			if err != nil {
				return err
			}
			next.removal = spec
		case "agg_cols":
			names, err := stringList(key, value)
			if err != nil {
				return err
			}
			if names != nil && len(names) != 2 {
				return errors.NewValidationError(key, "exactly two aggregate columns are required", value)
			}
			next.aggColumns = names
		case "comb":
			names, err := stringList(key, value)
			if err != nil {
				return err
			}
			next.comb = names
		case "comb_col":
			name, ok := value.(string)
			if !ok {
				return errors.NewTypeError(key, "a string", value)
			}
			next.combColumn = name
		case "proportion":
			name, err := parseProportion(value)
			if err != nil {
				return err
			}
			next.proportion = name
		default:
			return errors.NewValidationError(key, "unknown parameter", value)
		}
	}
	*c = next
	return nil
}

func parseRemoval(value interface{}) (removalSpec, error) {
	switch v := value.(type) {
	case nil:
		return removalSpec{}, nil
	case string:
		return removalSpec{names: []string{v}, single: true, set: true}, nil
	case []string, []interface{}:
		names, err := stringList("rem_cols", v)
		if err != nil {
			return removalSpec{}, err
		}
		return removalSpec{names: names, set: true}, nil
	default:
		return removalSpec{}, errors.NewTypeError("rem_cols", "a string or a list of strings", value)
	}
}

func stringList(key string, value interface{}) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []string:
		return append([]string(nil), v...), nil
	case []interface{}:
		out := make([]string, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, errors.NewTypeError(key, "a list of strings", item)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, errors.NewTypeError(key, "a list of strings", value)
	}
}

func parseProportion(value interface{}) (string, error) {
	var constant float64
	switch v := value.(type) {
	case string:
		return v, nil
	case int:
		constant = float64(v)
	case float64:
		constant = v
	default:
		return "", errors.NewTypeError("proportion", "a column name or 1", value)
	}
	if constant != 1 {
		return "", errors.NewValidationError("proportion", "only the constant 1 is supported", value)
	}
	return "", nil
}

// String はCombinationOHEの文字列表現を返す
func (c *CombinationOHE) String() string {
	if !c.state.IsFitted() {
		return fmt.Sprintf("CombinationOHE(columns=[%s %s], mode=%s)", c.columns[0], c.columns[1], c.mode())
	}
	return fmt.Sprintf("CombinationOHE(columns=[%s %s], mode=%s, n_categories=%d)",
		c.columns[0], c.columns[1], c.mode(), len(c.categories))
}
