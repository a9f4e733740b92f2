package preprocessing

// CombinationOption is a function that configures CombinationOHE
type CombinationOption func(*CombinationOHE)

// WithRemoved excludes the given category names from the discovered columns.
// Names that are never discovered are ignored.
func WithRemoved(names ...string) CombinationOption {
	return func(c *CombinationOHE) {
		c.removal = removalSpec{names: append([]string(nil), names...), set: true}
	}
}

// WithRemovedCategory excludes a single category name. Unlike WithRemoved,
// Fit fails when the name is not among the discovered categories.
func WithRemovedCategory(name string) CombinationOption {
	return func(c *CombinationOHE) {
		c.removal = removalSpec{names: []string{name}, single: true, set: true}
	}
}

// WithAggregate switches to aggregate mode: cells carry the values of first
// (paired with the first source column) and second (paired with the second).
func WithAggregate(first, second string) CombinationOption {
	return func(c *CombinationOHE) {
		c.aggColumns = []string{first, second}
	}
}

// WithCombination merges the listed categories into one target column in
// binary mode.
func WithCombination(names []string, target string) CombinationOption {
	return func(c *CombinationOHE) {
		c.comb = append([]string(nil), names...)
		c.combColumn = target
	}
}

// WithProportion divides every aggregated cell by the row's value in column.
func WithProportion(column string) CombinationOption {
	return func(c *CombinationOHE) {
		c.proportion = column
	}
}
