package cmd

import (
	"github.com/spf13/cobra"

	"driftscan/core"
	"driftscan/internal/contract"
)

// compareCmd runs full drift detection between two snapshots.
var compareCmd = &cobra.Command{
	Use:   "compare <base> <target>",
	Short: "Detect drift between two dataset snapshots.",
	Long: `Compare a base snapshot against a target snapshot and report schema,
statistical and semantic drift fused into one severity verdict.

Each argument is either a CSV file path (profiled on the fly) or the ID of a
previously stored snapshot. Detection covers:
- Schema drift: added, removed and type-changed columns
- Statistical drift: mean/variance shifts, distribution changes, range
  expansion, categorical and missing-rate shifts
- Semantic drift: embedding distance and vocabulary shift on text columns,
  when an embedding endpoint is configured

Examples:
  # Compare two CSV files directly
  driftscan compare baseline.csv current.csv

  # Compare a stored snapshot against a fresh file
  driftscan compare 1f6b0c9a-... current.csv

  # Tighten the mean-shift threshold and persist the report
  driftscan compare baseline.csv current.csv --mean-threshold 0.05 --store

  # Enable semantic analysis against a local embedding service
  driftscan compare baseline.csv current.csv --embed-endpoint http://localhost:8080`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteCompare(rootCtx, cfg, store, embedder, args[0], args[1]); err != nil {
			contract.LogFatal("Cannot compare snapshots", err)
		}
	},
}
