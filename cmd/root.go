package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"driftscan/internal/contract"
	"driftscan/internal/embed"
	"driftscan/internal/snapstore"
	"driftscan/schema"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// store is the snapshot store instance, nil when persistence is disabled.
var store contract.SnapshotStore

// embedder is the embedding capability client, nil when no endpoint is configured.
var embedder contract.Embedder

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "driftscan",
	Short:              "Detect schema, statistical and semantic drift between dataset snapshots.",
	Long:               `Driftscan profiles tabular datasets and compares snapshots over time to surface schema changes, distribution shifts and semantic drift in free-text columns, fused into one severity verdict.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".driftscan") // Name of config file (without extension)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")     // Look in the current directory
		viper.AddConfigPath("$HOME") // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("DRIFTSCAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Set defaults in Viper
	viper.SetDefault("limit", contract.DefaultResultLimit)
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", string(schema.TextOut))
	viper.SetDefault("color", "yes")
	viper.SetDefault("store-backend", string(schema.SQLiteBackend))
	viper.SetDefault("store-db-connect", "")
	viper.SetDefault("store", false)
	viper.SetDefault("mean-threshold", schema.DefaultNumericMeanThreshold)
	viper.SetDefault("variance-threshold", schema.DefaultVarianceThreshold)
	viper.SetDefault("missing-threshold", schema.DefaultMissingRateThreshold)
	viper.SetDefault("categorical-threshold", schema.DefaultCategoricalThreshold)
	viper.SetDefault("distribution-alpha", schema.DefaultDistributionAlpha)
	viper.SetDefault("max-text-samples", contract.DefaultTextSamples)
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ *cobra.Command, _ []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// 4. Initialize the persistence layer with validated config.
	var err error
	store, err = snapstore.NewStore(cfg.StoreBackend, cfg.StoreDBConnect)
	if err != nil {
		return fmt.Errorf("failed to initialize snapshot store: %w", err)
	}

	// 5. Build the embedding capability client, if configured.
	embedder = nil
	if client := embed.NewClient(cfg); client != nil {
		embedder = client
	}

	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		contract.LogFatal("Command failed", err)
	}
	if store != nil {
		_ = store.Close()
	}
}
