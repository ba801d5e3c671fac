// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"driftscan/schema"
)

// Embedder is the external embedding/summarization capability consumed by the
// semantic drift detector. Implementations may fail or be unavailable; the
// detector degrades to a zero semantic signal rather than propagating errors.
type Embedder interface {
	// Embed returns one fixed-length vector per input text.
	Embed(ctx context.Context, texts []string) ([][]float64, error)

	// Summarize produces a short natural-language summary of text, bounded
	// by maxLen/minLen tokens.
	Summarize(ctx context.Context, text string, maxLen, minLen int) (string, error)
}

// SnapshotStore defines the persistence operations for dataset snapshots and
// drift reports. This allows the storage layer to be mocked for testing.
type SnapshotStore interface {
	// SaveSnapshot persists a profiled snapshot.
	SaveSnapshot(snap *schema.Snapshot) error

	// GetSnapshot loads one snapshot by its ID.
	GetSnapshot(id string) (*schema.Snapshot, error)

	// ListSnapshots returns the most recent snapshots, newest first.
	ListSnapshots(limit int) ([]schema.Snapshot, error)

	// SaveReport persists the drift report produced for a snapshot pair.
	SaveReport(oldID, newID string, report *schema.DriftReport) error

	// History returns stored comparison outcomes, newest first.
	History(limit int) ([]schema.HistoryPoint, error)

	// GetStatus returns status information about the store.
	GetStatus() (schema.StoreStatus, error)

	// Clear removes all stored snapshots and reports.
	Clear() error

	// Close closes the underlying connection.
	Close() error
}
