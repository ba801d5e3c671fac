package core

import (
	"driftscan/schema"
)

// Fixed convex combination weights for the composite score.
// They must always sum to 1.
const (
	weightSchema      = 0.4
	weightStatistical = 0.3
	weightSemantic    = 0.3
)

// Normalization caps: finding counts saturate at these values.
const (
	schemaFindingCap      = 5.0
	statisticalFindingCap = 10.0
)

// Severity cutoffs on the composite score.
const (
	severityHighCutoff   = 0.6
	severityMediumCutoff = 0.3
)

// Aggregate fuses the three detectors' outputs into a single DriftReport.
// Findings keep detector execution order: schema, then statistical, then
// semantic. Out-of-range semantic scores are clamped, never rejected; the
// aggregator does not fail for well-formed inputs.
func Aggregate(schemaFindings, statFindings, semanticFindings []schema.DriftFinding, semanticScore float64, explanation string) schema.DriftReport {
	findings := make([]schema.DriftFinding, 0, len(schemaFindings)+len(statFindings)+len(semanticFindings))
	findings = append(findings, schemaFindings...)
	findings = append(findings, statFindings...)
	findings = append(findings, semanticFindings...)

	schemaComponent := schema.Clamp01(float64(len(schemaFindings)) / schemaFindingCap)
	statComponent := schema.Clamp01(float64(len(statFindings)) / statisticalFindingCap)
	semanticComponent := schema.Clamp01(semanticScore)

	composite := weightSchema*schemaComponent +
		weightStatistical*statComponent +
		weightSemantic*semanticComponent
	composite = schema.Clamp01(composite)

	return schema.DriftReport{
		Findings:       findings,
		CompositeScore: composite,
		Severity:       classifySeverity(composite, len(findings), semanticComponent),
		SemanticScore:  semanticComponent,
		Explanation:    explanation,
	}
}

// classifySeverity maps a composite score to a severity tier. The mapping is
// monotone in the score; "none" is reserved for comparisons with no findings
// and no semantic signal at all, so the aggregator never invents drift.
func classifySeverity(composite float64, findingCount int, semanticScore float64) schema.Severity {
	if findingCount == 0 && semanticScore == 0 {
		return schema.SeverityNone
	}
	switch {
	case composite >= severityHighCutoff:
		return schema.SeverityHigh
	case composite >= severityMediumCutoff:
		return schema.SeverityMedium
	default:
		return schema.SeverityLow
	}
}
