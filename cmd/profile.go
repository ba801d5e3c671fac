package cmd

import (
	"github.com/spf13/cobra"

	"driftscan/core"
	"driftscan/internal/contract"
)

// profileCmd summarizes a single CSV dataset.
var profileCmd = &cobra.Command{
	Use:   "profile <dataset.csv>",
	Short: "Profile a CSV dataset into a column-level snapshot.",
	Long: `Read a CSV dataset and summarize every column: inferred type, missing
rate, unique count, numeric moments and top categorical values.

The resulting snapshot is the unit that drift detection compares, helping you:
- Capture a baseline before a pipeline or schema change lands
- Inspect a dataset's shape without loading it into a notebook
- Build up snapshot history so drift can be tracked over time

Examples:
  # Print a column summary table
  driftscan profile data/orders.csv

  # Persist the snapshot for later comparison
  driftscan profile data/orders.csv --store

  # Machine-readable output for scripting
  driftscan profile data/orders.csv --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteProfile(rootCtx, cfg, store, args[0]); err != nil {
			contract.LogFatal("Cannot profile dataset", err)
		}
	},
}
