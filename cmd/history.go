package cmd

import (
	"github.com/spf13/cobra"

	"driftscan/core"
	"driftscan/internal/contract"
)

// historyCmd shows drift trends from stored reports.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show drift score trends from stored reports.",
	Long: `List stored drift reports newest first, with composite score, severity
and finding count per comparison.

Useful for spotting whether a dataset is drifting gradually or jumped after a
specific upstream change.

Examples:
  # Show the most recent comparisons
  driftscan history

  # Show more rows, as JSON
  driftscan history --limit 50 --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistory(rootCtx, cfg, store); err != nil {
			contract.LogFatal("Cannot show drift history", err)
		}
	},
}
