package view

// ColumnFilters narrows table rows by per-column value sets, keyed by column
// index. A column with no entry (or an entry covering every value) does not
// constrain.
type ColumnFilters struct {
	active map[int]map[string]bool
}

// NewColumnFilters returns an empty filter set.
func NewColumnFilters() *ColumnFilters {
	return &ColumnFilters{active: map[int]map[string]bool{}}
}

// Set installs the selected values for a column. Selecting nothing or
// covering every distinct value present clears the column's filter, so the
// stored state only ever holds real constraints. Duplicates and values the
// column does not carry never widen the selection into a no-op.
func (c *ColumnFilters) Set(col int, selected []string, allValues []string) {
	sel := distinct(selected)
	if len(sel) == 0 {
		delete(c.active, col)
		return
	}
	set := make(map[string]bool, len(sel))
	for _, v := range sel {
		set[v] = true
	}
	all := distinct(allValues)
	covered := len(all) > 0
	for _, v := range all {
		if !set[v] {
			covered = false
			break
		}
	}
	if covered {
		delete(c.active, col)
		return
	}
	c.active[col] = set
}

// Clear removes the filter on one column.
func (c *ColumnFilters) Clear(col int) {
	delete(c.active, col)
}

// Reset removes every column filter.
func (c *ColumnFilters) Reset() {
	c.active = map[int]map[string]bool{}
}

// Active reports whether any column is constrained.
func (c *ColumnFilters) Active() bool {
	return len(c.active) > 0
}

// Visible reports whether a row with the given cell values passes every
// column constraint.
func (c *ColumnFilters) Visible(cells []string) bool {
	for col, set := range c.active {
		if col >= len(cells) {
			return false
		}
		if !set[Normalize(cells[col])] {
			return false
		}
	}
	return true
}

func distinct(values []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(values))
	for _, v := range values {
		n := Normalize(v)
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
