package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"driftscan/internal/contract"
	"driftscan/schema"
)

// PrintSnapshotSummary outputs a profiled snapshot, dispatching on the
// configured output format.
func PrintSnapshotSummary(snap *schema.Snapshot, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return printSnapshotJSON(snap, cfg)
	case schema.CSVOut:
		return printSnapshotCSV(snap, cfg)
	default:
		return printSnapshotTable(snap, cfg, duration)
	}
}

func printSnapshotJSON(snap *schema.Snapshot, cfg *contract.Config) error {
	file, err := selectOutputFile(cfg.OutputFile)
	if err != nil {
		return err
	}
	defer closeOutputFile(file, cfg, "JSON snapshot summary")

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

func printSnapshotCSV(snap *schema.Snapshot, cfg *contract.Config) error {
	file, err := selectOutputFile(cfg.OutputFile)
	if err != nil {
		return err
	}
	defer closeOutputFile(file, cfg, "CSV snapshot summary")

	w := csv.NewWriter(file)
	_ = w.Write([]string{"column", "dtype", "missing_pct", "unique_count", "mean", "std", "min", "max"})
	for _, name := range schema.SortedColumnNames(&snap.Summary) {
		col := snap.Summary.Columns[name]
		_ = w.Write([]string{
			name,
			string(col.DType),
			strconv.FormatFloat(col.MissingPct, 'f', 4, 64),
			strconv.Itoa(col.UniqueCount),
			optionalFloat(col.Mean, cfg.Precision),
			optionalFloat(col.Std, cfg.Precision),
			optionalFloat(col.Min, cfg.Precision),
			optionalFloat(col.Max, cfg.Precision),
		})
	}
	w.Flush()
	return w.Error()
}

func printSnapshotTable(snap *schema.Snapshot, cfg *contract.Config, duration time.Duration) error {
	fmt.Printf("🧾 Snapshot %s (%s)\n", snap.Name, snap.ID)
	fmt.Printf("📊 %d rows, %d columns, %d text samples\n\n",
		snap.Summary.RowCount, len(snap.Summary.Columns), len(snap.Summary.TextSample))

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Column", "Type", "Missing %", "Unique", "Mean", "Std", "Min", "Max"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, name := range schema.SortedColumnNames(&snap.Summary) {
		col := snap.Summary.Columns[name]
		data = append(data, []string{
			name,
			string(col.DType),
			fmt.Sprintf("%.1f", col.MissingPct*100),
			strconv.Itoa(col.UniqueCount),
			optionalFloat(col.Mean, cfg.Precision),
			optionalFloat(col.Std, cfg.Precision),
			optionalFloat(col.Min, cfg.Precision),
			optionalFloat(col.Max, cfg.Precision),
		})
	}
	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("error building snapshot table: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("error rendering snapshot table: %w", err)
	}

	fmt.Printf("\n⏱️  Profiled in %s\n", duration.Round(time.Millisecond))
	return nil
}

// PrintSnapshotList outputs stored snapshots, newest first.
func PrintSnapshotList(snaps []schema.Snapshot, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		file, err := selectOutputFile(cfg.OutputFile)
		if err != nil {
			return err
		}
		defer closeOutputFile(file, cfg, "JSON snapshot list")
		enc := json.NewEncoder(file)
		enc.SetIndent("", "  ")
		return enc.Encode(snaps)
	}

	if len(snaps) == 0 {
		fmt.Println("No stored snapshots.")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"ID", "Name", "Source", "Rows", "Created"})
	var data [][]string
	for _, s := range snaps {
		data = append(data, []string{
			s.ID,
			s.Name,
			truncate(s.Source, 40),
			strconv.Itoa(s.Summary.RowCount),
			s.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		})
	}
	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("error building snapshot list: %w", err)
	}
	return table.Render()
}

// PrintStoreStatus reports store counts and location.
func PrintStoreStatus(status schema.StoreStatus) {
	fmt.Printf("🗄️  Snapshot store (%s)\n", status.Backend)
	fmt.Printf("   Location:  %s\n", status.Location)
	fmt.Printf("   Snapshots: %d\n", status.SnapshotCount)
	fmt.Printf("   Reports:   %d\n", status.ReportCount)
}

// PrintHistory outputs stored comparison outcomes, newest first.
func PrintHistory(points []schema.HistoryPoint, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		file, err := selectOutputFile(cfg.OutputFile)
		if err != nil {
			return err
		}
		defer closeOutputFile(file, cfg, "JSON drift history")
		enc := json.NewEncoder(file)
		enc.SetIndent("", "  ")
		return enc.Encode(points)
	}

	if len(points) == 0 {
		fmt.Println("No stored drift reports.")
		return nil
	}

	// Stored history arrives newest first; keep the order stable even if the
	// store changes its mind.
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].CreatedAt.After(points[j].CreatedAt)
	})

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"When", "Base", "Target", "Score", "Trend", "Severity"})
	var data [][]string
	for _, p := range points {
		data = append(data, []string{
			p.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			p.OldID,
			p.NewID,
			fmt.Sprintf("%.*f", cfg.Precision, p.Score),
			fmt.Sprintf("%.*f", cfg.Precision, p.MomentScore),
			severityLabel(p.Severity, cfg.UseColor),
		})
	}
	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("error building history table: %w", err)
	}
	return table.Render()
}
