package schema

// Custom string types for type safety.
type (
	// DType represents the declared type of a column.
	DType string

	// FindingKind represents the category of a drift finding.
	FindingKind string

	// Severity represents the ordinal drift verdict for a comparison.
	Severity string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for snapshot storage.
	DatabaseBackend string
)

// All column types supported.
const (
	NumericType     DType = "numeric"
	CategoricalType DType = "categorical"
	TextType        DType = "text"
	UnknownType     DType = "unknown"
)

// All drift finding kinds supported.
const (
	SchemaAdded       FindingKind = "schema_added"
	SchemaRemoved     FindingKind = "schema_removed"
	TypeChanged       FindingKind = "type_changed"
	NumericMeanShift  FindingKind = "numeric_mean_shift"
	NumericVarShift   FindingKind = "numeric_variance_shift"
	NumericDistShift  FindingKind = "numeric_distribution_shift"
	OutlierExpansion  FindingKind = "numeric_outlier_expansion"
	CategoricalShift  FindingKind = "categorical_shift"
	MissingRateShift  FindingKind = "missing_rate_shift"
	SemanticShift     FindingKind = "semantic_shift"
	VocabularyShift   FindingKind = "vocabulary_shift"
)

// Severity tiers, ordered from quietest to loudest.
const (
	SeverityNone   Severity = "none"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	CSVOut  OutputMode = "csv"
	JSONOut OutputMode = "json"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// TopValuesCap bounds the size of ColumnStat.TopValues.
const TopValuesCap = 5

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	CSVOut:  {},
	JSONOut: {},
}

// ValidStoreBackends lists all valid snapshot store backends.
var ValidStoreBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// severityRank orders severities for monotonicity checks and comparisons.
var severityRank = map[Severity]int{
	SeverityNone:   0,
	SeverityLow:    1,
	SeverityMedium: 2,
	SeverityHigh:   3,
}

// Rank returns the ordinal position of a severity tier.
// Unknown severities rank below none.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return -1
}
