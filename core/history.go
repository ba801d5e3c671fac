package core

import (
	"math"

	"driftscan/schema"
)

// historyEpsilon floors the denominator when a column's spread is zero on
// both sides.
const historyEpsilon = 1e-6

// HistoryScore condenses the numeric drift between two summaries into one
// smooth [0,1] value suitable for trend charts over many stored snapshots.
//
// Per shared numeric column it measures mean and std movement in units of the
// larger std, squashes the average with 1-exp(-x), and averages across
// columns. Columns with unknown mean or std contribute nothing. Summaries
// with no shared numeric columns score exactly 0.
func HistoryScore(old, new *schema.Summary) float64 {
	oldVals := numericMoments(old)
	newVals := numericMoments(new)
	if len(oldVals) == 0 || len(newVals) == 0 {
		return 0.0
	}

	var sum float64
	var count int
	for col, o := range oldVals {
		n, ok := newVals[col]
		if !ok {
			continue
		}

		denom := math.Max(math.Max(o.std, n.std), historyEpsilon)
		meanShift := math.Abs(o.mean-n.mean) / denom
		stdShift := math.Abs(o.std-n.std) / denom
		raw := (meanShift + stdShift) / 2

		// squash into [0,1] smoothly
		sum += 1 - math.Exp(-raw)
		count++
	}
	if count == 0 {
		return 0.0
	}
	return math.Round(sum/float64(count)*10000) / 10000
}

type moments struct {
	mean, std float64
}

// numericMoments extracts the columns with both mean and std known, reading
// the Numeric mirror when present and falling back to Columns otherwise.
func numericMoments(s *schema.Summary) map[string]moments {
	if s == nil {
		return nil
	}
	cols := s.Numeric
	if len(cols) == 0 {
		cols = s.Columns
	}
	out := make(map[string]moments, len(cols))
	for name, stat := range cols {
		if stat.Mean == nil || stat.Std == nil {
			continue
		}
		out[name] = moments{mean: *stat.Mean, std: *stat.Std}
	}
	return out
}
