// Package profiler turns raw CSV datasets into Summary profiles.
//
// The profiler is a collaborator of the drift core, not part of it: any
// producer of conforming Summary values is acceptable upstream. This one
// exists so the CLI can be used end to end against plain CSV files.
package profiler

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"driftscan/schema"
)

// Bounds on what a profile retains per column. They keep summaries small
// enough to store and ship regardless of dataset size.
const (
	sampleValuesCap = 100
	uniqueValuesCap = 1000
	textSampleCap   = 500
)

// Heuristics separating free text from categorical string columns.
const (
	textAvgLengthCutoff = 30  // average value length in characters
	textAvgTokensCutoff = 4.0 // average whitespace-separated tokens per value
)

// ProfileCSV reads a CSV file with a header row and produces a Summary.
// Ragged rows are tolerated: short rows count as missing values for the
// trailing columns.
func ProfileCSV(path string) (*schema.Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot parse CSV %q: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset %q is empty", path)
	}

	header := records[0]
	rows := records[1:]
	return Profile(header, rows), nil
}

// Profile builds a Summary from a header and data rows.
func Profile(header []string, rows [][]string) *schema.Summary {
	summary := &schema.Summary{
		Columns:  make(map[string]schema.ColumnStat, len(header)),
		Numeric:  make(map[string]schema.ColumnStat),
		RowCount: len(rows),
	}

	for idx, rawName := range header {
		name := strings.TrimSpace(rawName)
		if name == "" {
			name = fmt.Sprintf("column_%d", idx)
		}
		stat := profileColumn(columnValues(rows, idx))
		summary.Columns[name] = stat
		if stat.DType == schema.NumericType {
			summary.Numeric[name] = stat
		}
	}

	summary.TextSample = collectTextSample(summary.Columns)
	return summary
}

// columnValues extracts the idx-th field of every row; absent fields are
// missing values.
func columnValues(rows [][]string, idx int) []string {
	values := make([]string, len(rows))
	for i, row := range rows {
		if idx < len(row) {
			values[i] = strings.TrimSpace(row[idx])
		}
	}
	return values
}

// profileColumn computes the full ColumnStat for one column's raw values.
func profileColumn(values []string) schema.ColumnStat {
	present := make([]string, 0, len(values))
	missing := 0
	for _, v := range values {
		if v == "" {
			missing++
			continue
		}
		present = append(present, v)
	}

	stat := schema.ColumnStat{DType: schema.UnknownType}
	if len(values) > 0 {
		stat.MissingPct = float64(missing) / float64(len(values))
	}
	if len(present) == 0 {
		return stat
	}

	uniques := make(map[string]int, len(present))
	for _, v := range present {
		uniques[v]++
	}
	stat.UniqueCount = len(uniques)
	stat.SampleValues = sampleHead(present, sampleValuesCap)

	if nums, ok := parseAllNumeric(present); ok {
		stat.DType = schema.NumericType
		fillNumericStats(&stat, nums)
		return stat
	}

	stat.TopValues = topValues(uniques, schema.TopValuesCap)
	if len(uniques) <= uniqueValuesCap {
		set := make(map[string]struct{}, len(uniques))
		for v := range uniques {
			set[v] = struct{}{}
		}
		stat.UniqueValues = set
	}

	if looksLikeText(present) {
		stat.DType = schema.TextType
	} else {
		stat.DType = schema.CategoricalType
	}
	return stat
}

// parseAllNumeric succeeds only when every present value parses as a finite
// float. A single stray string demotes the whole column to categorical/text.
func parseAllNumeric(values []string) ([]float64, bool) {
	nums := make([]float64, 0, len(values))
	for _, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		nums = append(nums, f)
	}
	return nums, len(nums) > 0
}

// fillNumericStats computes mean, sample std, min and max. Std is left
// unknown for a single observation rather than coerced to zero.
func fillNumericStats(stat *schema.ColumnStat, nums []float64) {
	minV, maxV := nums[0], nums[0]
	var sum float64
	for _, n := range nums {
		sum += n
		if n < minV {
			minV = n
		}
		if n > maxV {
			maxV = n
		}
	}
	mean := sum / float64(len(nums))
	stat.Mean = schema.F64(mean)
	stat.Min = schema.F64(minV)
	stat.Max = schema.F64(maxV)

	if len(nums) > 1 {
		var ss float64
		for _, n := range nums {
			d := n - mean
			ss += d * d
		}
		stat.Std = schema.F64(math.Sqrt(ss / float64(len(nums)-1)))
	}
}

// looksLikeText decides between free text and categorical strings.
func looksLikeText(values []string) bool {
	var totalLen, totalTokens float64
	for _, v := range values {
		totalLen += float64(len(v))
		totalTokens += float64(len(strings.Fields(v)))
	}
	n := float64(len(values))
	return totalLen/n > textAvgLengthCutoff || totalTokens/n >= textAvgTokensCutoff
}

// topValues returns the cap most frequent values. Ties break
// lexicographically so profiles are stable across runs.
func topValues(counts map[string]int, limit int) map[string]int {
	type pair struct {
		value string
		count int
	}
	pairs := make([]pair, 0, len(counts))
	for v, c := range counts {
		pairs = append(pairs, pair{v, c})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].value < pairs[j].value
	})
	if len(pairs) > limit {
		pairs = pairs[:limit]
	}
	out := make(map[string]int, len(pairs))
	for _, p := range pairs {
		out[p.value] = p.count
	}
	return out
}

// collectTextSample gathers sample values from text columns first, then
// categorical ones, up to the global cap. Column order is lexicographic so
// the sample is deterministic.
func collectTextSample(columns map[string]schema.ColumnStat) []string {
	names := make([]string, 0, len(columns))
	for name := range columns {
		names = append(names, name)
	}
	sort.Strings(names)

	var sample []string
	for _, dtype := range []schema.DType{schema.TextType, schema.CategoricalType} {
		for _, name := range names {
			col := columns[name]
			if col.DType != dtype {
				continue
			}
			for _, v := range col.SampleValues {
				if len(sample) >= textSampleCap {
					return sample
				}
				sample = append(sample, v)
			}
		}
	}
	return sample
}

func sampleHead(values []string, n int) []string {
	if len(values) <= n {
		out := make([]string, len(values))
		copy(out, values)
		return out
	}
	out := make([]string, n)
	copy(out, values[:n])
	return out
}
