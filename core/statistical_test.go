package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"driftscan/schema"
)

func numericColumn(mean, std float64) schema.ColumnStat {
	return schema.ColumnStat{
		DType: schema.NumericType,
		Mean:  schema.F64(mean),
		Std:   schema.F64(std),
	}
}

// TestCheckMeanShift verifies relative mean change is measured against the
// old mean and only flagged above the threshold.
func TestCheckMeanShift(t *testing.T) {
	thresholds := schema.DefaultThresholds()

	t.Run("thirty to forty five is half", func(t *testing.T) {
		f, ok := checkMeanShift("amount", numericColumn(30, 5), numericColumn(45, 5), thresholds)
		assert.True(t, ok)
		assert.Equal(t, schema.NumericMeanShift, f.Kind)
		assert.Equal(t, "amount", f.Column)
		assert.InDelta(t, 0.5, f.Magnitude, 0.0001)
	})

	t.Run("below threshold is quiet", func(t *testing.T) {
		_, ok := checkMeanShift("amount", numericColumn(100, 5), numericColumn(105, 5), thresholds)
		assert.False(t, ok)
	})

	t.Run("zero baseline uses absolute change", func(t *testing.T) {
		f, ok := checkMeanShift("delta", numericColumn(0, 1), numericColumn(0.5, 1), thresholds)
		assert.True(t, ok)
		assert.InDelta(t, 0.5, f.Magnitude, 0.0001)
		assert.Contains(t, f.Detail, "absolute_from_zero")
	})

	t.Run("zero baseline small change is quiet", func(t *testing.T) {
		_, ok := checkMeanShift("delta", numericColumn(0, 1), numericColumn(0.05, 1), thresholds)
		assert.False(t, ok)
	})

	t.Run("missing moments are skipped", func(t *testing.T) {
		_, ok := checkMeanShift("c", schema.ColumnStat{}, numericColumn(1, 1), thresholds)
		assert.False(t, ok)
	})
}

// TestCheckMeanShiftSignSymmetry verifies that swapping old and new flips the
// denominator but never the boolean outcome when both means are nonzero.
func TestCheckMeanShiftSignSymmetry(t *testing.T) {
	thresholds := schema.DefaultThresholds()

	pairs := []struct {
		name    string
		oldMean float64
		newMean float64
	}{
		{name: "large shift", oldMean: 30, newMean: 45},
		{name: "small shift", oldMean: 100, newMean: 104},
		{name: "negative means", oldMean: -20, newMean: -35},
	}

	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			_, forward := checkMeanShift("m", numericColumn(tt.oldMean, 5), numericColumn(tt.newMean, 5), thresholds)
			_, reverse := checkMeanShift("m", numericColumn(tt.newMean, 5), numericColumn(tt.oldMean, 5), thresholds)
			assert.Equal(t, forward, reverse)
		})
	}
}

// TestCheckVarianceShift covers the zero-baseline guard: variance appearing
// from nothing is drift with magnitude exactly 1.
func TestCheckVarianceShift(t *testing.T) {
	thresholds := schema.DefaultThresholds()

	t.Run("variance appeared from zero", func(t *testing.T) {
		f, ok := checkVarianceShift("v", numericColumn(5, 0), numericColumn(5, 2), thresholds)
		assert.True(t, ok)
		assert.Equal(t, schema.NumericVarShift, f.Kind)
		assert.Equal(t, 1.0, f.Magnitude)
	})

	t.Run("both zero is quiet", func(t *testing.T) {
		_, ok := checkVarianceShift("v", numericColumn(5, 0), numericColumn(5, 0), thresholds)
		assert.False(t, ok)
	})

	t.Run("relative change above threshold", func(t *testing.T) {
		f, ok := checkVarianceShift("v", numericColumn(5, 2), numericColumn(5, 3), thresholds)
		assert.True(t, ok)
		assert.InDelta(t, 0.5, f.Magnitude, 0.0001)
	})

	t.Run("relative change below threshold", func(t *testing.T) {
		_, ok := checkVarianceShift("v", numericColumn(5, 2), numericColumn(5, 2.2), thresholds)
		assert.False(t, ok)
	})
}

func TestCheckDistributionShift(t *testing.T) {
	thresholds := schema.DefaultThresholds()

	t.Run("separated samples flagged", func(t *testing.T) {
		old := schema.ColumnStat{SampleValues: []string{"1", "2", "3", "4", "5", "6"}}
		new := schema.ColumnStat{SampleValues: []string{"101", "102", "103", "104", "105", "106"}}
		f, ok := checkDistributionShift("x", old, new, thresholds)
		assert.True(t, ok)
		assert.Equal(t, schema.NumericDistShift, f.Kind)
		assert.InDelta(t, 1.0, f.Magnitude, 0.001)
	})

	t.Run("identical samples quiet", func(t *testing.T) {
		col := schema.ColumnStat{SampleValues: []string{"1", "2", "3", "4", "5", "6"}}
		_, ok := checkDistributionShift("x", col, col, thresholds)
		assert.False(t, ok)
	})

	t.Run("synthetic fallback on distant moments", func(t *testing.T) {
		f, ok := checkDistributionShift("x", numericColumn(0, 1), numericColumn(100, 1), thresholds)
		assert.True(t, ok)
		assert.Contains(t, f.Detail, "synthetic")
	})

	t.Run("degenerate std opts out", func(t *testing.T) {
		_, ok := checkDistributionShift("x", numericColumn(0, 0), numericColumn(100, 1), thresholds)
		assert.False(t, ok)
	})

	t.Run("no samples and no moments opts out", func(t *testing.T) {
		_, ok := checkDistributionShift("x", schema.ColumnStat{}, schema.ColumnStat{}, thresholds)
		assert.False(t, ok)
	})
}

func TestCheckRangeExpansion(t *testing.T) {
	col := func(lo, hi float64) schema.ColumnStat {
		return schema.ColumnStat{Min: schema.F64(lo), Max: schema.F64(hi)}
	}

	t.Run("upper expansion", func(t *testing.T) {
		f, ok := checkRangeExpansion("x", col(0, 10), col(0, 25))
		assert.True(t, ok)
		assert.Equal(t, schema.OutlierExpansion, f.Kind)
		assert.InDelta(t, 15.0, f.Magnitude, 0.0001)
	})

	t.Run("lower expansion", func(t *testing.T) {
		f, ok := checkRangeExpansion("x", col(0, 10), col(-5, 10))
		assert.True(t, ok)
		assert.InDelta(t, 5.0, f.Magnitude, 0.0001)
	})

	t.Run("shrinking range is quiet", func(t *testing.T) {
		_, ok := checkRangeExpansion("x", col(0, 10), col(2, 8))
		assert.False(t, ok)
	})

	t.Run("unknown bounds are skipped", func(t *testing.T) {
		_, ok := checkRangeExpansion("x", schema.ColumnStat{}, col(0, 10))
		assert.False(t, ok)
	})
}

// TestCheckCategoricalShift covers the disjoint-set regression: completely
// disjoint top values must measure a Jaccard distance of exactly 1.
func TestCheckCategoricalShift(t *testing.T) {
	thresholds := schema.DefaultThresholds()

	t.Run("disjoint sets", func(t *testing.T) {
		old := schema.ColumnStat{TopValues: map[string]int{"red": 10, "blue": 5}}
		new := schema.ColumnStat{TopValues: map[string]int{"green": 8, "yellow": 3}}
		f, ok := checkCategoricalShift("color", old, new, thresholds)
		assert.True(t, ok)
		assert.Equal(t, schema.CategoricalShift, f.Kind)
		assert.Equal(t, 1.0, f.Magnitude)
		assert.Contains(t, f.Detail, "green")
		assert.Contains(t, f.Detail, "removed")
	})

	t.Run("identical sets quiet", func(t *testing.T) {
		col := schema.ColumnStat{TopValues: map[string]int{"red": 10, "blue": 5}}
		_, ok := checkCategoricalShift("color", col, col, thresholds)
		assert.False(t, ok)
	})

	t.Run("no value sets skipped", func(t *testing.T) {
		_, ok := checkCategoricalShift("color", schema.ColumnStat{}, schema.ColumnStat{}, thresholds)
		assert.False(t, ok)
	})
}

func TestCheckMissingRateShift(t *testing.T) {
	thresholds := schema.DefaultThresholds()

	t.Run("jump above threshold", func(t *testing.T) {
		f, ok := checkMissingRateShift("email",
			schema.ColumnStat{MissingPct: 0.02}, schema.ColumnStat{MissingPct: 0.35}, thresholds)
		assert.True(t, ok)
		assert.Equal(t, schema.MissingRateShift, f.Kind)
		assert.InDelta(t, 0.33, f.Magnitude, 0.0001)
	})

	t.Run("small change quiet", func(t *testing.T) {
		_, ok := checkMissingRateShift("email",
			schema.ColumnStat{MissingPct: 0.02}, schema.ColumnStat{MissingPct: 0.05}, thresholds)
		assert.False(t, ok)
	})
}

// TestDetectStatisticalDriftDeterministic verifies the worker pool reassembles
// findings in the same order regardless of parallelism.
func TestDetectStatisticalDriftDeterministic(t *testing.T) {
	oldA := numericColumn(30, 5)
	oldA.SampleValues = []string{"25", "28", "30", "32", "35", "30"}
	newA := numericColumn(45, 5)
	newA.SampleValues = []string{"40", "43", "45", "47", "50", "45"}

	old := &schema.Summary{Columns: map[string]schema.ColumnStat{
		"a": oldA,
		"b": {MissingPct: 0.0},
		"c": {TopValues: map[string]int{"x": 1, "y": 2}},
		"d": numericColumn(10, 0),
	}}
	new := &schema.Summary{Columns: map[string]schema.ColumnStat{
		"a": newA,
		"b": {MissingPct: 0.5},
		"c": {TopValues: map[string]int{"p": 1, "q": 2}},
		"d": numericColumn(10, 3),
	}}

	first := DetectStatisticalDrift(old, new, schema.DefaultThresholds(), 1)
	assert.NotEmpty(t, first)

	for _, workers := range []int{2, 8} {
		again := DetectStatisticalDrift(old, new, schema.DefaultThresholds(), workers)
		assert.Equal(t, first, again)
	}

	// Sorted by column, then kind.
	for i := 1; i < len(first); i++ {
		if first[i-1].Column == first[i].Column {
			assert.LessOrEqual(t, string(first[i-1].Kind), string(first[i].Kind))
		} else {
			assert.Less(t, first[i-1].Column, first[i].Column)
		}
	}
}

// TestDetectStatisticalDriftNoCommonColumns verifies an empty intersection
// produces an empty, non-nil result.
func TestDetectStatisticalDriftNoCommonColumns(t *testing.T) {
	old := &schema.Summary{Columns: map[string]schema.ColumnStat{"a": {}}}
	new := &schema.Summary{Columns: map[string]schema.ColumnStat{"b": {}}}

	findings := DetectStatisticalDrift(old, new, schema.DefaultThresholds(), 4)
	assert.NotNil(t, findings)
	assert.Empty(t, findings)
}

func TestNumericSample(t *testing.T) {
	assert.Nil(t, numericSample(nil))
	assert.Equal(t, []float64{1.5, -2}, numericSample([]string{" 1.5 ", "oops", "-2", "NaN"}))
}
