package core

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"driftscan/internal/contract"
	"driftscan/schema"
)

// categorySampleCap bounds how many added/removed category values a
// categorical shift finding lists.
const categorySampleCap = 5

// defaultStatWorkers is the column-analysis parallelism used when the caller
// does not specify one.
const defaultStatWorkers = 4

// DetectStatisticalDrift analyzes every column present in both summaries for
// numeric, categorical and missing-rate drift. Columns have no ordering
// dependency between them and are analyzed by a worker pool; findings are
// reassembled deterministically (lexicographic by column, then by kind) so
// identical inputs always produce identical output.
//
// A failure analyzing one column is isolated: that column's findings are
// dropped with a warning and every other column still reports.
func DetectStatisticalDrift(old, new *schema.Summary, thresholds schema.Thresholds, workers int) []schema.DriftFinding {
	t := thresholds.Sanitize()
	common := schema.CommonColumns(old, new)
	if len(common) == 0 {
		return []schema.DriftFinding{}
	}
	if workers <= 0 {
		workers = defaultStatWorkers
	}

	colCh := make(chan string, len(common))
	resultCh := make(chan []schema.DriftFinding, len(common))
	var wg sync.WaitGroup

	for range workers {
		wg.Go(func() {
			for name := range colCh {
				resultCh <- analyzeColumnSafe(name, old.Columns[name], new.Columns[name], t)
			}
		})
	}
	for _, name := range common {
		colCh <- name
	}
	close(colCh)
	wg.Wait()
	close(resultCh)

	findings := make([]schema.DriftFinding, 0, len(common))
	for fs := range resultCh {
		findings = append(findings, fs...)
	}
	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Column != findings[j].Column {
			return findings[i].Column < findings[j].Column
		}
		return findings[i].Kind < findings[j].Kind
	})
	return findings
}

// analyzeColumnSafe isolates per-column failures so one bad column never
// aborts the rest of the detector.
func analyzeColumnSafe(name string, old, new schema.ColumnStat, t schema.Thresholds) (findings []schema.DriftFinding) {
	defer func() {
		if r := recover(); r != nil {
			contract.LogWarn(fmt.Sprintf("Skipping column %q after analysis failure", name), fmt.Errorf("%v", r))
			findings = nil
		}
	}()
	return analyzeColumn(name, old, new, t)
}

// analyzeColumn runs every statistical check for a single column.
func analyzeColumn(name string, old, new schema.ColumnStat, t schema.Thresholds) []schema.DriftFinding {
	var findings []schema.DriftFinding

	if f, ok := checkMeanShift(name, old, new, t); ok {
		findings = append(findings, f)
	}
	if f, ok := checkVarianceShift(name, old, new, t); ok {
		findings = append(findings, f)
	}
	if f, ok := checkDistributionShift(name, old, new, t); ok {
		findings = append(findings, f)
	}
	if f, ok := checkRangeExpansion(name, old, new); ok {
		findings = append(findings, f)
	}
	if f, ok := checkCategoricalShift(name, old, new, t); ok {
		findings = append(findings, f)
	}
	if f, ok := checkMissingRateShift(name, old, new, t); ok {
		findings = append(findings, f)
	}
	return findings
}

// checkMeanShift flags relative mean changes above the threshold. A zero
// baseline makes relative change undefined, so the absolute new mean is
// compared against the threshold instead and flagged as such.
func checkMeanShift(name string, old, new schema.ColumnStat, t schema.Thresholds) (schema.DriftFinding, bool) {
	if old.Mean == nil || new.Mean == nil {
		return schema.DriftFinding{}, false
	}
	oldMean, newMean := *old.Mean, *new.Mean

	if oldMean == 0 {
		abs := math.Abs(newMean)
		if abs > t.NumericMean {
			return schema.DriftFinding{
				Kind:      schema.NumericMeanShift,
				Column:    name,
				Magnitude: abs,
				Detail:    fmt.Sprintf("mean moved from 0 to %s (absolute_from_zero)", formatFloat(newMean)),
			}, true
		}
		return schema.DriftFinding{}, false
	}

	relative := math.Abs(newMean-oldMean) / math.Max(math.Abs(oldMean), t.Epsilon)
	if relative > t.NumericMean {
		return schema.DriftFinding{
			Kind:      schema.NumericMeanShift,
			Column:    name,
			Magnitude: relative,
			Detail: fmt.Sprintf("mean moved from %s to %s (%.1f%% relative change)",
				formatFloat(oldMean), formatFloat(newMean), relative*100),
		}, true
	}
	return schema.DriftFinding{}, false
}

// checkVarianceShift flags relative std changes above the threshold. A zero
// baseline std means any nonzero new std is drift with magnitude capped at 1.
func checkVarianceShift(name string, old, new schema.ColumnStat, t schema.Thresholds) (schema.DriftFinding, bool) {
	if old.Std == nil || new.Std == nil {
		return schema.DriftFinding{}, false
	}
	oldStd, newStd := *old.Std, *new.Std

	if oldStd == 0 {
		if newStd > 0 {
			return schema.DriftFinding{
				Kind:      schema.NumericVarShift,
				Column:    name,
				Magnitude: 1.0,
				Detail:    fmt.Sprintf("variance appeared: std moved from 0 to %s", formatFloat(newStd)),
			}, true
		}
		return schema.DriftFinding{}, false
	}

	relative := math.Abs(newStd-oldStd) / math.Max(oldStd, t.Epsilon)
	if relative > t.Variance {
		return schema.DriftFinding{
			Kind:      schema.NumericVarShift,
			Column:    name,
			Magnitude: relative,
			Detail: fmt.Sprintf("std moved from %s to %s (%.1f%% relative change)",
				formatFloat(oldStd), formatFloat(newStd), relative*100),
		}, true
	}
	return schema.DriftFinding{}, false
}

// checkDistributionShift runs a two-sample KS test over retained sample
// values, or over synthetic normal draws when samples are absent but numeric
// moments are known. A non-positive std on either side short-circuits to
// "insufficient data".
func checkDistributionShift(name string, old, new schema.ColumnStat, t schema.Thresholds) (schema.DriftFinding, bool) {
	oldSample := numericSample(old.SampleValues)
	newSample := numericSample(new.SampleValues)
	synthetic := false

	if len(oldSample) < minSampleSize || len(newSample) < minSampleSize {
		if old.Mean == nil || old.Std == nil || new.Mean == nil || new.Std == nil {
			return schema.DriftFinding{}, false
		}
		if *old.Std <= 0 || *new.Std <= 0 {
			return schema.DriftFinding{}, false // degenerate, no test possible
		}
		if *old.Mean == *new.Mean && *old.Std == *new.Std {
			return schema.DriftFinding{}, false // synthetic draws carry no signal beyond the moments
		}
		oldSample = drawNormalSample(*old.Mean, *old.Std, syntheticSampleSize)
		newSample = drawNormalSample(*new.Mean, *new.Std, syntheticSampleSize)
		synthetic = true
	}

	res := ksTwoSample(oldSample, newSample)
	if !res.OK || res.PValue >= t.DistributionAlpha {
		return schema.DriftFinding{}, false
	}

	detail := fmt.Sprintf("distribution shift: KS statistic %.3f, p-value %.4f", res.Statistic, res.PValue)
	if synthetic {
		detail += " (synthetic samples from column moments)"
	}
	return schema.DriftFinding{
		Kind:      schema.NumericDistShift,
		Column:    name,
		Magnitude: res.Statistic,
		Detail:    detail,
	}, true
}

// checkRangeExpansion flags values falling outside the previously observed
// min/max range.
func checkRangeExpansion(name string, old, new schema.ColumnStat) (schema.DriftFinding, bool) {
	if old.Min == nil || old.Max == nil || new.Min == nil || new.Max == nil {
		return schema.DriftFinding{}, false
	}
	lowerGrowth := *old.Min - *new.Min
	upperGrowth := *new.Max - *old.Max
	if lowerGrowth <= 0 && upperGrowth <= 0 {
		return schema.DriftFinding{}, false
	}
	return schema.DriftFinding{
		Kind:      schema.OutlierExpansion,
		Column:    name,
		Magnitude: math.Max(math.Max(lowerGrowth, upperGrowth), 0),
		Detail: fmt.Sprintf("observed range grew from [%s, %s] to [%s, %s]",
			formatFloat(*old.Min), formatFloat(*old.Max), formatFloat(*new.Min), formatFloat(*new.Max)),
	}, true
}

// checkCategoricalShift measures Jaccard distance between observed value
// sets, falling back to top-value keys when full sets were not retained.
func checkCategoricalShift(name string, old, new schema.ColumnStat, t schema.Thresholds) (schema.DriftFinding, bool) {
	oldSet := old.ValueSet()
	newSet := new.ValueSet()
	if oldSet == nil || newSet == nil {
		return schema.DriftFinding{}, false
	}

	distance := jaccardDistance(oldSet, newSet)
	if distance <= t.Categorical {
		return schema.DriftFinding{}, false
	}

	added := setDiff(newSet, oldSet, categorySampleCap)
	removed := setDiff(oldSet, newSet, categorySampleCap)
	var b strings.Builder
	fmt.Fprintf(&b, "category set shifted (Jaccard distance %.3f)", distance)
	if len(added) > 0 {
		fmt.Fprintf(&b, "; new: %s", strings.Join(added, ", "))
	}
	if len(removed) > 0 {
		fmt.Fprintf(&b, "; removed: %s", strings.Join(removed, ", "))
	}
	return schema.DriftFinding{
		Kind:      schema.CategoricalShift,
		Column:    name,
		Magnitude: distance,
		Detail:    b.String(),
	}, true
}

// checkMissingRateShift applies to every column regardless of dtype.
func checkMissingRateShift(name string, old, new schema.ColumnStat, t schema.Thresholds) (schema.DriftFinding, bool) {
	delta := math.Abs(new.MissingPct - old.MissingPct)
	if delta <= t.MissingRate {
		return schema.DriftFinding{}, false
	}
	return schema.DriftFinding{
		Kind:      schema.MissingRateShift,
		Column:    name,
		Magnitude: delta,
		Detail: fmt.Sprintf("missing rate moved from %.1f%% to %.1f%%",
			old.MissingPct*100, new.MissingPct*100),
	}, true
}

// numericSample parses the retained raw values of a column into floats,
// silently skipping anything non-numeric.
func numericSample(values []string) []float64 {
	if len(values) == 0 {
		return nil
	}
	out := make([]float64, 0, len(values))
	for _, v := range values {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// formatFloat trims trailing zeros for readable detail strings.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
