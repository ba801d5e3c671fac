// Package core has the drift detection and scoring logic for driftscan.
package core

import (
	"fmt"
	"sort"

	"driftscan/schema"
)

// DetectSchemaDrift compares the column sets and declared types of two
// summaries. It is a pure function: no side effects, never fails. A nil
// summary or a missing column map is treated as an empty dataset.
//
// Findings are ordered: added columns first, then removed, then type changes,
// each group sorted lexicographically by column name.
func DetectSchemaDrift(old, new *schema.Summary) []schema.DriftFinding {
	oldCols := columnsOrEmpty(old)
	newCols := columnsOrEmpty(new)

	var added, removed []string
	for name := range newCols {
		if _, ok := oldCols[name]; !ok {
			added = append(added, name)
		}
	}
	for name := range oldCols {
		if _, ok := newCols[name]; !ok {
			removed = append(removed, name)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)

	findings := make([]schema.DriftFinding, 0, len(added)+len(removed))
	for _, name := range added {
		findings = append(findings, schema.DriftFinding{
			Kind:      schema.SchemaAdded,
			Column:    name,
			Magnitude: 1.0,
			Detail:    fmt.Sprintf("column %q added with type %s", name, newCols[name].DType),
		})
	}
	for _, name := range removed {
		findings = append(findings, schema.DriftFinding{
			Kind:      schema.SchemaRemoved,
			Column:    name,
			Magnitude: 1.0,
			Detail:    fmt.Sprintf("column %q removed (was type %s)", name, oldCols[name].DType),
		})
	}

	// Type changes for columns present in both snapshots.
	var shared []string
	for name := range oldCols {
		if _, ok := newCols[name]; ok {
			shared = append(shared, name)
		}
	}
	sort.Strings(shared)
	for _, name := range shared {
		oldType := oldCols[name].DType
		newType := newCols[name].DType
		if oldType != newType {
			findings = append(findings, schema.DriftFinding{
				Kind:      schema.TypeChanged,
				Column:    name,
				Magnitude: 1.0,
				Detail:    fmt.Sprintf("column %q changed type from %s to %s", name, oldType, newType),
			})
		}
	}

	return findings
}

// columnsOrEmpty defends against nil summaries and nil column maps.
func columnsOrEmpty(s *schema.Summary) map[string]schema.ColumnStat {
	if s == nil || s.Columns == nil {
		return map[string]schema.ColumnStat{}
	}
	return s.Columns
}
