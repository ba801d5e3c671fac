package core

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"driftscan/schema"
)

func numericSummary(cols map[string][2]float64) *schema.Summary {
	out := &schema.Summary{
		Columns: make(map[string]schema.ColumnStat, len(cols)),
		Numeric: make(map[string]schema.ColumnStat, len(cols)),
	}
	for name, ms := range cols {
		stat := schema.ColumnStat{
			DType: schema.NumericType,
			Mean:  schema.F64(ms[0]),
			Std:   schema.F64(ms[1]),
		}
		out.Columns[name] = stat
		out.Numeric[name] = stat
	}
	return out
}

// TestHistoryScoreIdentical verifies identical summaries score exactly zero.
func TestHistoryScoreIdentical(t *testing.T) {
	s := numericSummary(map[string][2]float64{"a": {10, 2}, "b": {-3, 0.5}})
	assert.Equal(t, 0.0, HistoryScore(s, s))
}

// TestHistoryScoreSingleColumn pins the squash formula for one column:
// raw = (|dMean| + |dStd|) / (2 * max(stdOld, stdNew)), score = 1 - exp(-raw).
func TestHistoryScoreSingleColumn(t *testing.T) {
	old := numericSummary(map[string][2]float64{"x": {10, 2}})
	new := numericSummary(map[string][2]float64{"x": {14, 2}})

	// meanShift = 4/2 = 2, stdShift = 0, raw = 1.
	expected := math.Round((1-math.Exp(-1))*10000) / 10000
	assert.Equal(t, expected, HistoryScore(old, new))
}

func TestHistoryScoreBounds(t *testing.T) {
	old := numericSummary(map[string][2]float64{"x": {0, 1}})
	new := numericSummary(map[string][2]float64{"x": {1e9, 1}})

	score := HistoryScore(old, new)
	assert.Greater(t, score, 0.99)
	assert.LessOrEqual(t, score, 1.0)
}

// TestHistoryScoreZeroSpread verifies the epsilon floor keeps a zero-std
// column from dividing by zero.
func TestHistoryScoreZeroSpread(t *testing.T) {
	old := numericSummary(map[string][2]float64{"x": {5, 0}})
	new := numericSummary(map[string][2]float64{"x": {6, 0}})

	score := HistoryScore(old, new)
	assert.False(t, math.IsNaN(score))
	assert.False(t, math.IsInf(score, 0))
	// A unit mean move over a zero spread is effectively total drift.
	assert.Greater(t, score, 0.99)
}

func TestHistoryScoreNoSharedNumericColumns(t *testing.T) {
	old := numericSummary(map[string][2]float64{"a": {1, 1}})
	new := numericSummary(map[string][2]float64{"b": {1, 1}})

	assert.Equal(t, 0.0, HistoryScore(old, new))
	assert.Equal(t, 0.0, HistoryScore(nil, new))
	assert.Equal(t, 0.0, HistoryScore(old, nil))
}

// TestHistoryScoreFallsBackToColumns verifies summaries without the Numeric
// mirror still score from Columns.
func TestHistoryScoreFallsBackToColumns(t *testing.T) {
	old := numericSummary(map[string][2]float64{"x": {10, 2}})
	old.Numeric = nil
	new := numericSummary(map[string][2]float64{"x": {14, 2}})
	new.Numeric = nil

	assert.Greater(t, HistoryScore(old, new), 0.0)
}

// memStore is an in-memory snapshot store for history enrichment tests.
type memStore struct {
	snaps map[string]*schema.Snapshot
}

func (m *memStore) SaveSnapshot(snap *schema.Snapshot) error {
	m.snaps[snap.ID] = snap
	return nil
}

func (m *memStore) GetSnapshot(id string) (*schema.Snapshot, error) {
	snap, ok := m.snaps[id]
	if !ok {
		return nil, fmt.Errorf("no snapshot %s", id)
	}
	return snap, nil
}

func (m *memStore) ListSnapshots(int) ([]schema.Snapshot, error) { return nil, nil }

func (m *memStore) SaveReport(string, string, *schema.DriftReport) error { return nil }

func (m *memStore) History(int) ([]schema.HistoryPoint, error) { return nil, nil }

func (m *memStore) GetStatus() (schema.StoreStatus, error) { return schema.StoreStatus{}, nil }

func (m *memStore) Clear() error { return nil }

func (m *memStore) Close() error { return nil }

// TestAttachMomentScores verifies the history view recomputes the trend
// score from stored snapshot pairs and leaves zero behind missing ones.
func TestAttachMomentScores(t *testing.T) {
	store := &memStore{snaps: map[string]*schema.Snapshot{
		"old": {ID: "old", Summary: *numericSummary(map[string][2]float64{"x": {10, 2}})},
		"new": {ID: "new", Summary: *numericSummary(map[string][2]float64{"x": {14, 2}})},
	}}

	points := []schema.HistoryPoint{
		{OldID: "old", NewID: "new", Score: 0.5},
		{OldID: "old", NewID: "gone", Score: 0.2},
	}
	attachMomentScores(store, points)

	// meanShift = 4/2 = 2, stdShift = 0, raw = 1.
	expected := math.Round((1-math.Exp(-1))*10000) / 10000
	assert.Equal(t, expected, points[0].MomentScore)
	assert.Equal(t, 0.0, points[1].MomentScore)
	// Composite scores are untouched.
	assert.Equal(t, 0.5, points[0].Score)
}
