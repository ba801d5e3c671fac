package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driftscan/internal/contract"
	"driftscan/schema"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestCompareIdentical verifies a summary compared against itself comes back
// with severity none and a zero score.
func TestCompareIdentical(t *testing.T) {
	s := numericSummary(map[string][2]float64{"a": {10, 2}, "b": {5, 1}})

	report := Compare(context.Background(), s, s, schema.DefaultThresholds(), 4, nil)

	assert.Empty(t, report.Findings)
	assert.Equal(t, 0.0, report.CompositeScore)
	assert.Equal(t, schema.SeverityNone, report.Severity)
}

// TestCompareMixedDrift verifies schema and statistical findings both land in
// one report with a nonzero score.
func TestCompareMixedDrift(t *testing.T) {
	old := numericSummary(map[string][2]float64{"amount": {30, 5}})
	new := numericSummary(map[string][2]float64{"amount": {45, 5}})
	new.Columns["region"] = schema.ColumnStat{DType: schema.CategoricalType}

	report := Compare(context.Background(), old, new, schema.DefaultThresholds(), 4, nil)

	assert.NotEmpty(t, report.Findings)
	assert.Greater(t, report.CompositeScore, 0.0)
	assert.NotEqual(t, schema.SeverityNone, report.Severity)

	assert.Equal(t, 1, report.CountByKind(schema.SchemaAdded))
	assert.Equal(t, 1, report.CountByKind(schema.NumericMeanShift))
}

// TestGetCompareResultsFromFiles exercises the end-to-end path: two CSV files
// profiled on the fly and compared with no store involved.
func TestGetCompareResultsFromFiles(t *testing.T) {
	oldPath := writeCSV(t, "base.csv", "amount,city\n10,sf\n20,sf\n30,nyc\n")
	newPath := writeCSV(t, "target.csv", "amount,city\n110,la\n120,la\n130,sea\n")

	cfg := &contract.Config{
		Workers:    2,
		Thresholds: schema.DefaultThresholds(),
	}

	report, oldSnap, newSnap, err := GetCompareResults(context.Background(), cfg, nil, nil, oldPath, newPath)
	require.NoError(t, err)

	assert.Equal(t, "base", oldSnap.Name)
	assert.Equal(t, "target", newSnap.Name)
	assert.NotEqual(t, oldSnap.ID, newSnap.ID)
	assert.NotEmpty(t, report.Findings)
	assert.NotEqual(t, schema.SeverityNone, report.Severity)
}

// TestGetCompareResultsMissingInput verifies a bad path with no store fails
// with a resolution error.
func TestGetCompareResultsMissingInput(t *testing.T) {
	cfg := &contract.Config{Workers: 1, Thresholds: schema.DefaultThresholds()}

	_, _, _, err := GetCompareResults(context.Background(), cfg, nil, nil, "does-not-exist.csv", "also-missing.csv")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot resolve base dataset")
}

func TestGetProfileResult(t *testing.T) {
	path := writeCSV(t, "orders.csv", "id,total\n1,9.99\n2,19.99\n")
	cfg := &contract.Config{}

	snap, err := GetProfileResult(cfg, nil, path)
	require.NoError(t, err)

	assert.Equal(t, "orders", snap.Name)
	assert.Equal(t, path, snap.Source)
	assert.NotEmpty(t, snap.ID)
	assert.Len(t, snap.Summary.Columns, 2)
	assert.Equal(t, 2, snap.Summary.RowCount)
}

func TestExecuteHistoryWithoutStore(t *testing.T) {
	err := ExecuteHistory(context.Background(), &contract.Config{}, nil)
	assert.Error(t, err)
}
