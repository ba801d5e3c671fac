package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"driftscan/internal/contract"
	"driftscan/internal/outwriter"
	"driftscan/internal/parquet"
)

// errStoreDisabled is returned when a snapshots subcommand runs with the
// store backend set to none.
var errStoreDisabled = errors.New("snapshot store is disabled (store backend is none)")

// snapshotsCmd focused on snapshot store management.
var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Manage stored dataset snapshots",
	Long: `Manage the snapshot store that holds profiled datasets and drift reports.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  list   - Show stored snapshots, newest first
  status - Show store statistics and connection info
  clear  - Remove all stored snapshots and reports
  export - Export stored data to Parquet files

Examples:
  # List recent snapshots
  driftscan snapshots list

  # Check store status
  driftscan snapshots status

  # Wipe the store after a schema migration
  driftscan snapshots clear`,
}

// snapshotsListCmd lists stored snapshots.
var snapshotsListCmd = &cobra.Command{
	Use:     "list",
	Short:   "Show stored snapshots, newest first",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if store == nil {
			contract.LogFatal("Cannot list snapshots", errStoreDisabled)
		}
		snaps, err := store.ListSnapshots(cfg.ResultLimit)
		if err != nil {
			contract.LogFatal("Cannot list snapshots", err)
		}
		if err := outwriter.PrintSnapshotList(snaps, cfg); err != nil {
			contract.LogFatal("Cannot print snapshot list", err)
		}
	},
}

// snapshotsStatusCmd shows store status.
var snapshotsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show detailed information about the snapshot store.

Displays:
- Backend type and location
- Number of stored snapshots
- Number of stored drift reports

Examples:
  # Check SQLite store (default)
  driftscan snapshots status

  # Check MySQL store
  DRIFTSCAN_STORE_BACKEND=mysql DRIFTSCAN_STORE_DB_CONNECT="..." driftscan snapshots status`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if store == nil {
			contract.LogFatal("Cannot show store status", errStoreDisabled)
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Cannot show store status", err)
		}
		outwriter.PrintStoreStatus(status)
	},
}

// snapshotsClearCmd clears the store.
var snapshotsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored snapshots and drift reports",
	Long: `Delete every snapshot and drift report from the configured backend.

Use this when:
- Stored baselines are stale after a planned schema change
- The store grew large with throwaway experiments
- Testing from a clean slate

Examples:
  # Clear SQLite store (default)
  driftscan snapshots clear`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if store == nil {
			contract.LogFatal("Cannot clear store", errStoreDisabled)
		}
		if err := store.Clear(); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Snapshot store cleared successfully.")
	},
}

// snapshotsExportCmd exports stored data to Parquet.
var snapshotsExportCmd = &cobra.Command{
	Use:   "export <output-dir>",
	Short: "Export stored snapshots and history to Parquet files",
	Long: `Write stored column profiles and drift history to Parquet files under
the given directory, for downstream analysis in warehouses or notebooks.

Produces:
  column_profiles.parquet - One row per snapshot column
  drift_history.parquet   - One row per stored comparison

Examples:
  # Export everything the store holds
  driftscan snapshots export ./exports

  # Export only the most recent entries
  driftscan snapshots export ./exports --limit 100`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, args []string) {
		if store == nil {
			contract.LogFatal("Cannot export store", errStoreDisabled)
		}
		if err := parquet.ExportStore(store, cfg.ResultLimit, args[0]); err != nil {
			contract.LogFatal("Failed to export store", err)
		}
	},
}

func init() {
	snapshotsCmd.AddCommand(snapshotsListCmd)
	snapshotsCmd.AddCommand(snapshotsStatusCmd)
	snapshotsCmd.AddCommand(snapshotsClearCmd)
	snapshotsCmd.AddCommand(snapshotsExportCmd)
}
