package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"driftscan/internal/contract"
	"driftscan/schema"
)

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()

	pf.String("config", "", "Config file (default is $HOME/.driftscan.yaml)")
	pf.IntP("limit", "l", contract.DefaultResultLimit, "Limit the number of results shown")
	pf.IntP("workers", "w", contract.DefaultWorkers, "Number of concurrent column workers")
	pf.IntP("precision", "p", contract.DefaultPrecision, "Decimal precision for displayed scores")
	pf.StringP("output", "o", string(schema.TextOut), "Output mode: text, csv or json")
	pf.String("output-file", "", "Write output to a file instead of stdout")
	pf.String("color", "yes", "Colorize text output: yes or no")
	pf.String("store-backend", string(schema.SQLiteBackend), "Snapshot store backend: sqlite, mysql, postgresql or none")
	pf.String("store-db-connect", "", "Connection string for mysql/postgresql snapshot stores")
	pf.Bool("store", false, "Persist profiled snapshots and drift reports")

	pf.Float64("mean-threshold", schema.DefaultNumericMeanThreshold, "Relative mean shift threshold")
	pf.Float64("variance-threshold", schema.DefaultVarianceThreshold, "Relative variance shift threshold")
	pf.Float64("missing-threshold", schema.DefaultMissingRateThreshold, "Missing-rate shift threshold")
	pf.Float64("categorical-threshold", schema.DefaultCategoricalThreshold, "Jaccard distance threshold for categorical drift")
	pf.Float64("distribution-alpha", schema.DefaultDistributionAlpha, "Significance level for the distribution test")

	pf.String("embed-endpoint", "", "Base URL of an OpenAI-compatible embedding service")
	pf.String("embed-api-key", "", "API key for the embedding service")
	pf.String("embed-model", contract.DefaultEmbedModel, "Embedding model name")
	pf.String("summary-model", contract.DefaultSummaryModel, "Summarization model name")
	pf.String("embed-timeout", contract.DefaultEmbedTimeout.String(), "Timeout for embedding service calls")
	pf.Int("max-text-samples", contract.DefaultTextSamples, "Maximum text samples sent for embedding")

	// Bind all flags to Viper keys. Flag names match the mapstructure tags
	// on ConfigRawInput so Unmarshal picks everything up.
	if err := viper.BindPFlags(pf); err != nil {
		contract.LogFatal("Failed to bind flags", err)
	}

	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(snapshotsCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}
