package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"driftscan/schema"
)

func findingsOf(n int, kind schema.FindingKind) []schema.DriftFinding {
	out := make([]schema.DriftFinding, n)
	for i := range out {
		out[i] = schema.DriftFinding{Kind: kind, Column: "c", Magnitude: 1.0}
	}
	return out
}

// TestAggregateNoDrift verifies the quiet case scores exactly zero with
// severity none.
func TestAggregateNoDrift(t *testing.T) {
	report := Aggregate(nil, nil, nil, 0.0, "")

	assert.Empty(t, report.Findings)
	assert.Equal(t, 0.0, report.CompositeScore)
	assert.Equal(t, schema.SeverityNone, report.Severity)
	assert.Equal(t, 0.0, report.SemanticScore)
	assert.Empty(t, report.Explanation)
}

// TestAggregateWeights verifies the fixed 0.4/0.3/0.3 convex combination with
// finding counts saturating at their caps.
func TestAggregateWeights(t *testing.T) {
	tests := []struct {
		name          string
		schemaCount   int
		statCount     int
		semanticScore float64
		expected      float64
	}{
		{name: "schema only, below cap", schemaCount: 2, expected: 0.4 * (2.0 / 5.0)},
		{name: "schema saturates at five", schemaCount: 12, expected: 0.4},
		{name: "statistical only", statCount: 5, expected: 0.3 * (5.0 / 10.0)},
		{name: "statistical saturates at ten", statCount: 25, expected: 0.3},
		{name: "semantic only", semanticScore: 0.5, expected: 0.3 * 0.5},
		{name: "everything saturated", schemaCount: 5, statCount: 10, semanticScore: 1.0, expected: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Aggregate(
				findingsOf(tt.schemaCount, schema.SchemaAdded),
				findingsOf(tt.statCount, schema.NumericMeanShift),
				nil, tt.semanticScore, "")
			assert.InDelta(t, tt.expected, report.CompositeScore, 0.0001)
		})
	}
}

// TestAggregateSeverityTiers pins the cutoff behavior at 0.3 and 0.6.
func TestAggregateSeverityTiers(t *testing.T) {
	low := Aggregate(nil, nil, nil, 0.5, "")
	assert.Equal(t, schema.SeverityLow, low.Severity)

	medium := Aggregate(findingsOf(5, schema.SchemaAdded), nil, nil, 0.0, "")
	assert.Equal(t, schema.SeverityMedium, medium.Severity) // composite 0.4

	high := Aggregate(findingsOf(5, schema.SchemaAdded), findingsOf(10, schema.NumericMeanShift), nil, 0.5, "")
	assert.Equal(t, schema.SeverityHigh, high.Severity) // 0.4 + 0.3 + 0.15

	// Semantic signal alone keeps severity off "none" even without findings.
	quietSemantic := Aggregate(nil, nil, nil, 0.1, "")
	assert.Equal(t, schema.SeverityLow, quietSemantic.Severity)
	assert.NotEqual(t, schema.SeverityNone, quietSemantic.Severity)
}

// TestAggregateFindingOrder verifies detector order is preserved: schema,
// statistical, semantic.
func TestAggregateFindingOrder(t *testing.T) {
	report := Aggregate(
		findingsOf(1, schema.SchemaAdded),
		findingsOf(1, schema.NumericMeanShift),
		findingsOf(1, schema.SemanticShift),
		0.5, "explained")

	assert.Len(t, report.Findings, 3)
	assert.Equal(t, schema.SchemaAdded, report.Findings[0].Kind)
	assert.Equal(t, schema.NumericMeanShift, report.Findings[1].Kind)
	assert.Equal(t, schema.SemanticShift, report.Findings[2].Kind)
	assert.Equal(t, "explained", report.Explanation)
}

// TestAggregateClampsSemanticScore verifies out-of-range semantic scores are
// clamped rather than rejected.
func TestAggregateClampsSemanticScore(t *testing.T) {
	over := Aggregate(nil, nil, nil, 3.5, "")
	assert.Equal(t, 1.0, over.SemanticScore)
	assert.InDelta(t, 0.3, over.CompositeScore, 0.0001)

	under := Aggregate(nil, nil, nil, -2.0, "")
	assert.Equal(t, 0.0, under.SemanticScore)
	assert.Equal(t, schema.SeverityNone, under.Severity)
}
