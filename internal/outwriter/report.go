package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"driftscan/internal/contract"
	"driftscan/schema"
)

// reportEnvelope is the JSON output shape for a comparison.
type reportEnvelope struct {
	Base     snapshotMeta       `json:"base"`
	Target   snapshotMeta       `json:"target"`
	Report   schema.DriftReport `json:"report"`
	Duration string             `json:"duration"`
}

type snapshotMeta struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Source   string `json:"source,omitempty"`
	RowCount int    `json:"row_count"`
}

// PrintDriftReport outputs a comparison report, dispatching on the configured
// output format.
func PrintDriftReport(report *schema.DriftReport, oldSnap, newSnap *schema.Snapshot, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return printReportJSON(report, oldSnap, newSnap, cfg, duration)
	case schema.CSVOut:
		return printReportCSV(report, cfg)
	default:
		return printReportTable(report, oldSnap, newSnap, cfg, duration)
	}
}

func printReportJSON(report *schema.DriftReport, oldSnap, newSnap *schema.Snapshot, cfg *contract.Config, duration time.Duration) error {
	file, err := selectOutputFile(cfg.OutputFile)
	if err != nil {
		return err
	}
	defer closeOutputFile(file, cfg, "JSON drift report")

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(reportEnvelope{
		Base:     snapshotMeta{ID: oldSnap.ID, Name: oldSnap.Name, Source: oldSnap.Source, RowCount: oldSnap.Summary.RowCount},
		Target:   snapshotMeta{ID: newSnap.ID, Name: newSnap.Name, Source: newSnap.Source, RowCount: newSnap.Summary.RowCount},
		Report:   *report,
		Duration: duration.Round(time.Millisecond).String(),
	})
}

func printReportCSV(report *schema.DriftReport, cfg *contract.Config) error {
	file, err := selectOutputFile(cfg.OutputFile)
	if err != nil {
		return err
	}
	defer closeOutputFile(file, cfg, "CSV drift report")

	w := csv.NewWriter(file)
	_ = w.Write([]string{"kind", "column", "magnitude", "detail"})
	for _, f := range report.Findings {
		_ = w.Write([]string{
			string(f.Kind),
			f.Column,
			strconv.FormatFloat(f.Magnitude, 'f', cfg.Precision, 64),
			f.Detail,
		})
	}
	w.Flush()
	return w.Error()
}

func printReportTable(report *schema.DriftReport, oldSnap, newSnap *schema.Snapshot, cfg *contract.Config, duration time.Duration) error {
	fmt.Printf("🔬 Drift analysis: %s → %s\n", oldSnap.Name, newSnap.Name)
	fmt.Printf("📊 Rows: %d → %d, columns: %d → %d\n\n",
		oldSnap.Summary.RowCount, newSnap.Summary.RowCount,
		len(oldSnap.Summary.Columns), len(newSnap.Summary.Columns))

	if len(report.Findings) == 0 {
		fmt.Println("✅ No drift findings.")
	} else {
		table := tablewriter.NewWriter(os.Stdout)
		table.Header([]string{"#", "Kind", "Column", "Magnitude", "Detail"})
		table.Configure(func(tc *tablewriter.Config) {
			tc.Row.Alignment.Global = tw.AlignLeft
		})

		detailWidth := GetMaxDetailWidth()
		data := make([][]string, 0, len(report.Findings))
		for i, f := range report.Findings {
			column := f.Column
			if column == "" {
				column = "(dataset)"
			}
			data = append(data, []string{
				strconv.Itoa(i + 1),
				string(f.Kind),
				column,
				fmt.Sprintf("%.*f", cfg.Precision, f.Magnitude),
				truncate(f.Detail, detailWidth),
			})
		}
		if err := table.Bulk(data); err != nil {
			return fmt.Errorf("error building findings table: %w", err)
		}
		if err := table.Render(); err != nil {
			return fmt.Errorf("error rendering findings table: %w", err)
		}
	}

	fmt.Printf("\n🧮 Composite score: %.*f  Severity: %s  Semantic score: %.*f\n",
		cfg.Precision, report.CompositeScore,
		severityLabel(report.Severity, cfg.UseColor),
		cfg.Precision, report.SemanticScore)
	if report.Explanation != "" {
		fmt.Printf("💬 %s\n", report.Explanation)
	}
	fmt.Printf("⏱️  Completed in %s\n", duration.Round(time.Millisecond))
	return nil
}
