package schema

// DriftFinding is one discrete, typed drift observation.
type DriftFinding struct {
	Kind      FindingKind `json:"kind"`
	Column    string      `json:"column,omitempty"` // Empty for dataset-level findings
	Magnitude float64     `json:"magnitude"`        // Detector-specific scale, always >= 0
	Detail    string      `json:"detail"`           // Explanatory text, never used for control flow
}

// DriftReport is the aggregated verdict for one snapshot comparison.
//
// Findings preserve detector execution order: schema first, then statistical,
// then semantic. Within one detector, order is deterministic for identical
// inputs (lexicographic by column, then by kind).
type DriftReport struct {
	Findings       []DriftFinding `json:"findings"`
	CompositeScore float64        `json:"composite_score"` // Weighted fusion, 0-1
	Severity       Severity       `json:"severity"`
	SemanticScore  float64        `json:"semantic_score"` // Embedding-distance score, 0-1
	Explanation    string         `json:"explanation,omitempty"`
}

// CountByKind returns how many findings of the given kind the report holds.
func (r *DriftReport) CountByKind(kind FindingKind) int {
	n := 0
	for _, f := range r.Findings {
		if f.Kind == kind {
			n++
		}
	}
	return n
}
