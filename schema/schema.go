// Package schema has configs, models and shared constants for all parts of driftscan.
package schema

import "time"

// ColumnStat is the per-column profile of a dataset at one point in time.
//
// Numeric statistics are pointers on purpose: nil means "unknown", which is
// different from a measured zero. Detectors must check for nil before use and
// must never substitute zero for a missing value.
type ColumnStat struct {
	DType        DType              `json:"dtype"`                   // Declared column type
	MissingPct   float64            `json:"missing_pct"`             // Fraction of missing values, 0-1
	UniqueCount  int                `json:"unique_count"`            // Number of distinct observed values
	Mean         *float64           `json:"mean,omitempty"`          // Arithmetic mean (numeric columns)
	Std          *float64           `json:"std,omitempty"`           // Sample standard deviation (numeric columns)
	Min          *float64           `json:"min,omitempty"`           // Minimum observed value (numeric columns)
	Max          *float64           `json:"max,omitempty"`           // Maximum observed value (numeric columns)
	TopValues    map[string]int     `json:"top_values,omitempty"`    // Most frequent values, capped at TopValuesCap
	UniqueValues map[string]struct{} `json:"unique_values,omitempty"` // Observed value set (categorical/text columns)
	SampleValues []string           `json:"sample_values,omitempty"` // Bounded raw value sample, in row order
}

// Summary is the statistical and textual profile of one dataset snapshot.
//
// Summaries are immutable once produced; detectors read them but never write.
// Invariant: every key in Numeric also exists in Columns.
type Summary struct {
	Columns    map[string]ColumnStat `json:"columns"`
	Numeric    map[string]ColumnStat `json:"numeric,omitempty"` // Mirror of Columns restricted to numeric dtype
	TextSample []string              `json:"text_sample,omitempty"`
	RowCount   int                   `json:"row_count"`
}

// Snapshot wraps a Summary with storage identity and provenance.
// The drift core itself only ever consumes the embedded Summary.
type Snapshot struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Source    string    `json:"source"` // Path or URL the dataset was profiled from
	CreatedAt time.Time `json:"created_at"`
	Summary   Summary   `json:"summary"`
}

// HistoryPoint is one entry in the stored drift history between consecutive
// snapshots of the same dataset.
type HistoryPoint struct {
	OldID     string    `json:"old_id"`
	NewID     string    `json:"new_id"`
	CreatedAt time.Time `json:"created_at"`
	Score     float64   `json:"score"`
	Severity  Severity  `json:"severity"`

	// MomentScore is the smooth numeric-moment trend score recomputed from
	// the stored snapshot pair; zero when either snapshot is gone.
	MomentScore float64 `json:"moment_score"`
}
