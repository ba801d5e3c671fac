// Package parquet provides data structures and functions for exporting
// driftscan snapshots and drift history to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/parquet-go/parquet-go"

	"driftscan/schema"
)

// ColumnProfileRecord is one column of one stored snapshot.
// This struct maps to the driftscan_snapshots table, flattened per column.
type ColumnProfileRecord struct {
	// SnapshotID is the unique identifier of the parent snapshot
	SnapshotID string `parquet:"snapshot_id,snappy"`

	// SnapshotName is the human-friendly snapshot name
	SnapshotName string `parquet:"snapshot_name,snappy"`

	// CreatedAt is when the snapshot was profiled
	CreatedAt time.Time `parquet:"created_at,snappy"`

	// RowCount is the number of rows in the profiled dataset
	RowCount int32 `parquet:"row_count,snappy"`

	// ColumnName is the profiled column
	ColumnName string `parquet:"column_name,snappy"`

	// DType is the inferred column type
	DType string `parquet:"dtype,snappy"`

	// MissingPct is the fraction of missing values (0-1)
	MissingPct float64 `parquet:"missing_pct,snappy"`

	// UniqueCount is the number of distinct observed values
	UniqueCount int32 `parquet:"unique_count,snappy"`

	// Mean is the arithmetic mean (nullable, numeric columns only)
	Mean *float64 `parquet:"mean,optional,snappy"`

	// Std is the sample standard deviation (nullable)
	Std *float64 `parquet:"std,optional,snappy"`

	// Min is the minimum observed value (nullable)
	Min *float64 `parquet:"min,optional,snappy"`

	// Max is the maximum observed value (nullable)
	Max *float64 `parquet:"max,optional,snappy"`
}

// DriftHistoryRecord is one stored comparison outcome.
// This struct maps to the driftscan_reports table.
type DriftHistoryRecord struct {
	// OldID references the base snapshot
	OldID string `parquet:"old_id,snappy"`

	// NewID references the target snapshot
	NewID string `parquet:"new_id,snappy"`

	// CreatedAt is when the comparison ran
	CreatedAt time.Time `parquet:"created_at,snappy"`

	// CompositeScore is the weighted drift score (0-1)
	CompositeScore float64 `parquet:"composite_score,snappy"`

	// Severity is the drift verdict tier
	Severity string `parquet:"severity,snappy"`
}

// BuildColumnProfileRecords flattens snapshots into per-column records,
// ordered by snapshot then column name for stable output.
func BuildColumnProfileRecords(snaps []schema.Snapshot) []ColumnProfileRecord {
	var out []ColumnProfileRecord
	for _, snap := range snaps {
		names := make([]string, 0, len(snap.Summary.Columns))
		for name := range snap.Summary.Columns {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			col := snap.Summary.Columns[name]
			out = append(out, ColumnProfileRecord{
				SnapshotID:   snap.ID,
				SnapshotName: snap.Name,
				CreatedAt:    snap.CreatedAt,
				RowCount:     int32(snap.Summary.RowCount),
				ColumnName:   name,
				DType:        string(col.DType),
				MissingPct:   col.MissingPct,
				UniqueCount:  int32(col.UniqueCount),
				Mean:         col.Mean,
				Std:          col.Std,
				Min:          col.Min,
				Max:          col.Max,
			})
		}
	}
	return out
}

// BuildDriftHistoryRecords converts stored history points into records.
func BuildDriftHistoryRecords(points []schema.HistoryPoint) []DriftHistoryRecord {
	out := make([]DriftHistoryRecord, 0, len(points))
	for _, p := range points {
		out = append(out, DriftHistoryRecord{
			OldID:          p.OldID,
			NewID:          p.NewID,
			CreatedAt:      p.CreatedAt,
			CompositeScore: p.Score,
			Severity:       string(p.Severity),
		})
	}
	return out
}

// WriteColumnProfilesParquet writes column profile records to a Parquet file.
func WriteColumnProfilesParquet(data []ColumnProfileRecord, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteDriftHistoryParquet writes drift history records to a Parquet file.
func WriteDriftHistoryParquet(data []DriftHistoryRecord, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes records to outputPath using struct schema inference.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}
