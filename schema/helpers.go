package schema

import "sort"

// F64 returns a pointer to v. Convenience for building ColumnStat literals.
func F64(v float64) *float64 {
	return &v
}

// Clamp01 clamps v to the [0,1] interval.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SortedColumnNames returns the column names of a summary in lexicographic
// order. A nil summary or nil column map yields an empty slice.
func SortedColumnNames(s *Summary) []string {
	if s == nil || len(s.Columns) == 0 {
		return nil
	}
	names := make([]string, 0, len(s.Columns))
	for name := range s.Columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CommonColumns returns the sorted intersection of column names between two
// summaries. Either side missing its column map contributes nothing.
func CommonColumns(old, new *Summary) []string {
	if old == nil || new == nil {
		return nil
	}
	common := make([]string, 0, len(old.Columns))
	for name := range old.Columns {
		if _, ok := new.Columns[name]; ok {
			common = append(common, name)
		}
	}
	sort.Strings(common)
	return common
}

// ValueSet returns the observed value set for a column, falling back to the
// keys of TopValues when UniqueValues is absent. Returns nil when neither is
// available, which callers must treat as "no categorical signal".
func (c ColumnStat) ValueSet() map[string]struct{} {
	if len(c.UniqueValues) > 0 {
		return c.UniqueValues
	}
	if len(c.TopValues) > 0 {
		set := make(map[string]struct{}, len(c.TopValues))
		for v := range c.TopValues {
			set[v] = struct{}{}
		}
		return set
	}
	return nil
}
