package contract

import (
	"fmt"
	"strings"
	"time"

	"driftscan/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit  = 20
	MaxResultLimit      = 1000
	DefaultWorkers      = 4
	DefaultPrecision    = 2
	DefaultEmbedTimeout = 30 * time.Second
	DefaultTextSamples  = 500

	// Default model names for the embedding capability endpoint.
	DefaultEmbedModel   = "all-MiniLM-L6-v2"
	DefaultSummaryModel = "bart-large-cnn"
)

// Config holds the validated runtime configuration.
// Fields that require parsing (backend names, output modes, durations) are set
// by ProcessAndValidate from the raw flag/env/file inputs.
type Config struct {
	ResultLimit    int                    // Maximum rows shown in list outputs
	Workers        int                    // Concurrent workers for per-column analysis
	Precision      int                    // Decimal precision for numeric output columns
	Output         schema.OutputMode      // Output format
	OutputFile     string                 // Optional path to write output to
	UseColor       bool                   // Colored severity labels in table output
	StoreBackend   schema.DatabaseBackend // Snapshot store backend
	StoreDBConnect string                 // Connection string for mysql/postgresql backends
	Thresholds     schema.Thresholds      // Statistical detection thresholds
	EmbedEndpoint  string                 // Base URL of the embedding service; empty disables semantic analysis
	EmbedAPIKey    string                 // Bearer token for the embedding service
	EmbedModel     string                 // Embedding model name
	SummaryModel   string                 // Summarization model name
	EmbedTimeout   time.Duration          // Bound on each capability call
	MaxTextSamples int                    // Cap on text samples sent to the embedder per side
	StoreResults   bool                   // Persist profiled snapshots and reports
}

// ConfigRawInput holds the raw inputs from flags, env and config file.
// Viper unmarshals into this struct; ProcessAndValidate converts it into a Config.
type ConfigRawInput struct {
	Limit          int     `mapstructure:"limit"`
	Workers        int     `mapstructure:"workers"`
	Precision      int     `mapstructure:"precision"`
	Output         string  `mapstructure:"output"`
	OutputFile     string  `mapstructure:"output-file"`
	Color          string  `mapstructure:"color"`
	StoreBackend   string  `mapstructure:"store-backend"`
	StoreDBConnect string  `mapstructure:"store-db-connect"`
	EmbedEndpoint  string  `mapstructure:"embed-endpoint"`
	EmbedAPIKey    string  `mapstructure:"embed-api-key"`
	EmbedModel     string  `mapstructure:"embed-model"`
	SummaryModel   string  `mapstructure:"summary-model"`
	EmbedTimeout   string  `mapstructure:"embed-timeout"`
	MaxTextSamples int     `mapstructure:"max-text-samples"`
	Store          bool    `mapstructure:"store"`
	MeanThreshold  float64 `mapstructure:"mean-threshold"`
	VarThreshold   float64 `mapstructure:"variance-threshold"`
	MissThreshold  float64 `mapstructure:"missing-threshold"`
	CatThreshold   float64 `mapstructure:"categorical-threshold"`
	Alpha          float64 `mapstructure:"distribution-alpha"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and populates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 4 {
		return fmt.Errorf("precision must be between 1 and 4 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}
	cfg.OutputFile = input.OutputFile

	switch strings.ToLower(input.Color) {
	case "yes", "true", "1", "":
		cfg.UseColor = true
	case "no", "false", "0":
		cfg.UseColor = false
	default:
		return fmt.Errorf("invalid color setting '%s'. must be yes/no/true/false/1/0", input.Color)
	}

	// --- 4. Store Backend Validation ---
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if cfg.StoreBackend == "postgres" {
		cfg.StoreBackend = schema.PostgreSQLBackend
	}
	if _, ok := schema.ValidStoreBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, or none", input.StoreBackend)
	}
	if cfg.StoreBackend == schema.MySQLBackend || cfg.StoreBackend == schema.PostgreSQLBackend {
		if input.StoreDBConnect == "" {
			return fmt.Errorf("store backend %s requires --store-db-connect", cfg.StoreBackend)
		}
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	cfg.StoreResults = input.Store

	// --- 5. Thresholds ---
	cfg.Thresholds = schema.Thresholds{
		NumericMean:       input.MeanThreshold,
		Variance:          input.VarThreshold,
		MissingRate:       input.MissThreshold,
		Categorical:       input.CatThreshold,
		DistributionAlpha: input.Alpha,
	}.Sanitize()

	// --- 6. Embedding Capability ---
	cfg.EmbedEndpoint = strings.TrimRight(input.EmbedEndpoint, "/")
	cfg.EmbedAPIKey = input.EmbedAPIKey
	cfg.EmbedModel = input.EmbedModel
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = DefaultEmbedModel
	}
	cfg.SummaryModel = input.SummaryModel
	if cfg.SummaryModel == "" {
		cfg.SummaryModel = DefaultSummaryModel
	}
	cfg.EmbedTimeout = DefaultEmbedTimeout
	if input.EmbedTimeout != "" {
		d, err := time.ParseDuration(input.EmbedTimeout)
		if err != nil {
			return fmt.Errorf("invalid embed timeout '%s': %w", input.EmbedTimeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("embed timeout must be positive (received %s)", d)
		}
		cfg.EmbedTimeout = d
	}
	cfg.MaxTextSamples = input.MaxTextSamples
	if cfg.MaxTextSamples <= 0 {
		cfg.MaxTextSamples = DefaultTextSamples
	}

	return nil
}
