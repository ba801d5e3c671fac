package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"driftscan/internal/contract"
	"driftscan/internal/outwriter"
	"driftscan/internal/profiler"
	"driftscan/schema"
)

// Compare runs the full detection pipeline over one snapshot pair and returns
// the aggregated report. It is safe to call concurrently for independent
// pairs; nothing is mutated and no state is shared.
func Compare(ctx context.Context, old, new *schema.Summary, thresholds schema.Thresholds, workers int, detector *SemanticDetector) schema.DriftReport {
	if detector == nil {
		detector = NewSemanticDetector(nil, 0, 0)
	}
	schemaFindings := DetectSchemaDrift(old, new)
	statFindings := DetectStatisticalDrift(old, new, thresholds, workers)
	semanticFindings, explanation, semanticScore := detector.Detect(ctx, old, new)
	return Aggregate(schemaFindings, statFindings, semanticFindings, semanticScore, explanation)
}

// GetCompareResults resolves the two arguments (CSV paths or stored snapshot
// IDs), runs the comparison, and optionally persists the outcome. It returns
// the report plus the resolved snapshot pair without printing anything, which
// is what the MCP handlers need.
func GetCompareResults(ctx context.Context, cfg *contract.Config, store contract.SnapshotStore, embedder contract.Embedder, oldArg, newArg string) (schema.DriftReport, *schema.Snapshot, *schema.Snapshot, error) {
	oldSnap, err := resolveSnapshot(cfg, store, oldArg)
	if err != nil {
		return schema.DriftReport{}, nil, nil, fmt.Errorf("cannot resolve base dataset %q: %w", oldArg, err)
	}
	newSnap, err := resolveSnapshot(cfg, store, newArg)
	if err != nil {
		return schema.DriftReport{}, nil, nil, fmt.Errorf("cannot resolve target dataset %q: %w", newArg, err)
	}

	detector := NewSemanticDetector(embedder, cfg.EmbedTimeout, cfg.MaxTextSamples)
	report := Compare(ctx, &oldSnap.Summary, &newSnap.Summary, cfg.Thresholds, cfg.Workers, detector)

	if cfg.StoreResults && store != nil {
		for _, snap := range []*schema.Snapshot{oldSnap, newSnap} {
			if err := store.SaveSnapshot(snap); err != nil {
				contract.LogWarn("Failed to persist snapshot", err)
			}
		}
		if err := store.SaveReport(oldSnap.ID, newSnap.ID, &report); err != nil {
			contract.LogWarn("Failed to persist drift report", err)
		}
	}
	return report, oldSnap, newSnap, nil
}

// ExecuteCompare runs the comparison and prints the report. It serves as the
// main entry point for the 'compare' command.
func ExecuteCompare(ctx context.Context, cfg *contract.Config, store contract.SnapshotStore, embedder contract.Embedder, oldArg, newArg string) error {
	start := time.Now()
	report, oldSnap, newSnap, err := GetCompareResults(ctx, cfg, store, embedder, oldArg, newArg)
	if err != nil {
		return err
	}
	return outwriter.PrintDriftReport(&report, oldSnap, newSnap, cfg, time.Since(start))
}

// GetProfileResult profiles a CSV dataset into a snapshot and optionally
// persists it, without printing.
func GetProfileResult(cfg *contract.Config, store contract.SnapshotStore, path string) (*schema.Snapshot, error) {
	snap, err := profileFile(path)
	if err != nil {
		return nil, err
	}
	if cfg.StoreResults && store != nil {
		if err := store.SaveSnapshot(snap); err != nil {
			contract.LogWarn("Failed to persist snapshot", err)
		}
	}
	return snap, nil
}

// ExecuteProfile profiles a CSV dataset and prints its summary. It serves as
// the main entry point for the 'profile' command.
func ExecuteProfile(_ context.Context, cfg *contract.Config, store contract.SnapshotStore, path string) error {
	start := time.Now()
	snap, err := GetProfileResult(cfg, store, path)
	if err != nil {
		return err
	}
	return outwriter.PrintSnapshotSummary(snap, cfg, time.Since(start))
}

// ExecuteHistory prints the stored drift history, newest first. It serves as
// the main entry point for the 'history' command.
func ExecuteHistory(_ context.Context, cfg *contract.Config, store contract.SnapshotStore) error {
	if store == nil {
		return fmt.Errorf("history requires a snapshot store backend (store-backend is none)")
	}
	points, err := store.History(cfg.ResultLimit)
	if err != nil {
		return fmt.Errorf("cannot load drift history: %w", err)
	}
	attachMomentScores(store, points)
	return outwriter.PrintHistory(points, cfg)
}

// attachMomentScores recomputes the numeric-moment trend score for every
// history point whose snapshot pair is still stored. Points referencing
// cleared snapshots keep a zero score rather than failing the view.
func attachMomentScores(store contract.SnapshotStore, points []schema.HistoryPoint) {
	for i := range points {
		oldSnap, err := store.GetSnapshot(points[i].OldID)
		if err != nil {
			continue
		}
		newSnap, err := store.GetSnapshot(points[i].NewID)
		if err != nil {
			continue
		}
		points[i].MomentScore = HistoryScore(&oldSnap.Summary, &newSnap.Summary)
	}
}

// resolveSnapshot interprets an argument as a CSV path when a readable file
// exists there, and as a stored snapshot ID otherwise.
func resolveSnapshot(cfg *contract.Config, store contract.SnapshotStore, arg string) (*schema.Snapshot, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		return profileFile(arg)
	}
	if store == nil {
		return nil, fmt.Errorf("no file at %q and no snapshot store configured", arg)
	}
	snap, err := store.GetSnapshot(arg)
	if err != nil {
		return nil, fmt.Errorf("no file at %q and no stored snapshot with that ID: %w", arg, err)
	}
	return snap, nil
}

// profileFile profiles a CSV file into a fresh snapshot with a new identity.
func profileFile(path string) (*schema.Snapshot, error) {
	summary, err := profiler.ProfileCSV(path)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &schema.Snapshot{
		ID:        uuid.NewString(),
		Name:      name,
		Source:    path,
		CreatedAt: time.Now().UTC(),
		Summary:   *summary,
	}, nil
}
