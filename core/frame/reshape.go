package frame

import (
	"sort"

	"github.com/YuminosukeSato/framekit/pkg/errors"
)

// Dummies expands each listed column into one indicator column per distinct
// non-null value. With prefix the indicator is named <column><sep><value>,
// otherwise just <value>. Indicators of one source column are sorted by value.
// When two sources generate the same name the indicators are summed into a
// single column. Rows and index are preserved; source columns are not copied.
func Dummies(f *Frame, cols []string, prefix bool, sep string) (*Frame, error) {
	var names []string
	values := make(map[string][]float64)

	for _, name := range cols {
		c, err := f.Column(name)
		if err != nil {
			return nil, errors.Wrap(err, "Dummies")
		}
		uniq := make(map[string]struct{})
		for i := 0; i < c.Len(); i++ {
			if v, ok := c.Label(i); ok {
				uniq[v] = struct{}{}
			}
		}
		cats := make([]string, 0, len(uniq))
		for v := range uniq {
			cats = append(cats, v)
		}
		sort.Strings(cats)

		pos := make(map[string]string, len(cats))
		for _, v := range cats {
			out := v
			if prefix {
				out = name + sep + v
			}
			pos[v] = out
			if _, exists := values[out]; !exists {
				names = append(names, out)
				values[out] = make([]float64, f.NRows())
			}
		}
		for i := 0; i < c.Len(); i++ {
			if v, ok := c.Label(i); ok {
				values[pos[v]][i]++
			}
		}
	}

	out := make([]*Column, len(names))
	for j, name := range names {
		out[j] = &Column{name: name, kind: Numeric, values: values[name]}
	}
	return NewWithIndex(f.index, out...)
}

// Pivot reshapes a frame so that every distinct label of the columns column
// becomes an output column holding the matching entry of the values column.
//
// The output has one row per distinct index label (ascending) and one column
// per distinct non-null category (sorted). Rows with a null category keep
// their index label but fill no cell. Missing combinations and missing values
// are 0. Two rows sharing both an index label and a category, null included,
// cannot be placed and yield ErrDuplicateIndex.
func Pivot(f *Frame, columns, values string) (*Frame, error) {
	catCol, err := f.Column(columns)
	if err != nil {
		return nil, errors.Wrap(err, "Pivot")
	}
	valCol, err := f.Column(values)
	if err != nil {
		return nil, errors.Wrap(err, "Pivot")
	}
	if valCol.Kind() != Numeric {
		return nil, errors.NewValidationError(values, "pivot values must be numeric", valCol.Kind().String())
	}

	labels := sortedUniqueLabels(f.index)
	rowOf := make(map[int]int, len(labels))
	for i, l := range labels {
		rowOf[l] = i
	}

	var cats []string
	seenCat := make(map[string]struct{})
	for i := 0; i < catCol.Len(); i++ {
		v, ok := catCol.Label(i)
		if !ok {
			continue
		}
		if _, dup := seenCat[v]; !dup {
			seenCat[v] = struct{}{}
			cats = append(cats, v)
		}
	}
	sort.Strings(cats)

	cells := make(map[string][]float64, len(cats))
	for _, c := range cats {
		cells[c] = make([]float64, len(labels))
	}

	type key struct {
		label int
		cat   string
		null  bool
	}
	placed := make(map[key]struct{}, f.NRows())
	for i := 0; i < f.NRows(); i++ {
		cat, ok := catCol.Label(i)
		k := key{label: f.index[i], cat: cat, null: !ok}
		if _, dup := placed[k]; dup {
			return nil, errors.Wrapf(errors.ErrDuplicateIndex,
				"Pivot(columns=%s, values=%s): row label %d, category %q", columns, values, k.label, k.cat)
		}
		placed[k] = struct{}{}

		if ok && !valCol.IsNull(i) {
			cells[cat][rowOf[k.label]] = valCol.Float(i)
		}
	}

	out := make([]*Column, len(cats))
	for j, c := range cats {
		out[j] = &Column{name: c, kind: Numeric, values: cells[c]}
	}
	return NewWithIndex(labels, out...)
}

// Concat joins the columns of left and right side by side. Rows are matched
// by index label, not by position: the result follows left's row order and
// right's rows are reordered to match. Both frames must carry the same set of
// unique labels and disjoint column names.
func Concat(left, right *Frame) (*Frame, error) {
	if left.NRows() != right.NRows() {
		return nil, errors.NewDimensionError("Concat", left.NRows(), right.NRows(), 0)
	}
	rightPos := make(map[int]int, right.NRows())
	for i, l := range right.index {
		if _, dup := rightPos[l]; dup {
			return nil, errors.Wrapf(errors.ErrDuplicateIndex, "Concat: right row label %d", l)
		}
		rightPos[l] = i
	}

	order := make([]int, left.NRows())
	seen := make(map[int]struct{}, left.NRows())
	for i, l := range left.index {
		if _, dup := seen[l]; dup {
			return nil, errors.Wrapf(errors.ErrDuplicateIndex, "Concat: left row label %d", l)
		}
		seen[l] = struct{}{}
		p, ok := rightPos[l]
		if !ok {
			return nil, errors.NewValueError("Concat", "row label missing from right frame")
		}
		order[i] = p
	}

	cols := make([]*Column, 0, left.NCols()+right.NCols())
	cols = append(cols, left.columns...)
	for _, c := range right.columns {
		if left.HasColumn(c.Name()) {
			return nil, errors.NewValidationError("columns", "column present on both sides", c.Name())
		}
		cols = append(cols, c.take(order))
	}
	return NewWithIndex(left.index, cols...)
}

func sortedUniqueLabels(index []int) []int {
	seen := make(map[int]struct{}, len(index))
	out := make([]int, 0, len(index))
	for _, l := range index {
		if _, dup := seen[l]; !dup {
			seen[l] = struct{}{}
			out = append(out, l)
		}
	}
	sort.Ints(out)
	return out
}
