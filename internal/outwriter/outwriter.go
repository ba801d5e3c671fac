// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"driftscan/internal/contract"
	"driftscan/schema"
)

// selectOutputFile returns the file handle for output, preferring the
// configured output file over stdout.
func selectOutputFile(path string) (*os.File, error) {
	if path == "" {
		return os.Stdout, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open output file %s: %w", path, err)
	}
	return file, nil
}

// closeOutputFile closes the file when it is not stdout and reports where
// output went.
func closeOutputFile(file *os.File, cfg *contract.Config, what string) {
	if file == os.Stdout {
		return
	}
	_ = file.Close()
	fmt.Fprintf(os.Stderr, "💾 Wrote %s to %s\n", what, cfg.OutputFile)
}

// severityLabel renders a severity tier, colored when enabled.
func severityLabel(s schema.Severity, useColor bool) string {
	label := string(s)
	if !useColor {
		return label
	}
	switch s {
	case schema.SeverityHigh:
		return color.New(color.FgRed, color.Bold).Sprint(label)
	case schema.SeverityMedium:
		return color.New(color.FgYellow).Sprint(label)
	case schema.SeverityLow:
		return color.New(color.FgGreen).Sprint(label)
	default:
		return color.New(color.FgHiBlack).Sprint(label)
	}
}

// truncate shortens s to max characters with an ellipsis.
func truncate(s string, max int) string {
	if max <= 3 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// optionalFloat renders a possibly-unknown statistic.
func optionalFloat(v *float64, precision int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.*f", precision, *v)
}
