package parquet

import (
	"fmt"
	"os"
	"path/filepath"

	"driftscan/internal/contract"
	"driftscan/schema"
)

// ExportStore exports the most recent store contents to Parquet files under
// outputDir, creating the directory if needed.
func ExportStore(store contract.SnapshotStore, limit int, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	snaps, err := store.ListSnapshots(limit)
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}
	// The listing carries identity only; column stats live in the stored
	// summary, so each snapshot is loaded in full before flattening.
	full := make([]schema.Snapshot, 0, len(snaps))
	for _, snap := range snaps {
		loaded, err := store.GetSnapshot(snap.ID)
		if err != nil {
			return fmt.Errorf("failed to load snapshot %s: %w", snap.ID, err)
		}
		full = append(full, *loaded)
	}
	profiles := BuildColumnProfileRecords(full)
	profilePath := filepath.Join(outputDir, "column_profiles.parquet")
	if err := WriteColumnProfilesParquet(profiles, profilePath); err != nil {
		return err
	}
	fmt.Printf("💾 Wrote %d column profiles to %s\n", len(profiles), profilePath)

	points, err := store.History(limit)
	if err != nil {
		return fmt.Errorf("failed to load drift history: %w", err)
	}
	historyPath := filepath.Join(outputDir, "drift_history.parquet")
	if err := WriteDriftHistoryParquet(BuildDriftHistoryRecords(points), historyPath); err != nil {
		return err
	}
	fmt.Printf("💾 Wrote %d history rows to %s\n", len(points), historyPath)

	return nil
}
