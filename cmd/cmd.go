// Package cmd defines the command-line interface for statsync.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"statsync/internal/contract"
	"statsync/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(retryCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(seriesCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(failuresCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runsCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("catalog", "px_catalog.json", "Path to the series catalog JSON file")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Bool("dry-run", false, "Fetch and compare without writing to the document store")
	rootCmd.PersistentFlags().Bool("resume", false, "Skip series that already exist in the document store")
	rootCmd.PersistentFlags().Bool("national-only", false, "Restrict the worklist to national-level series")
	rootCmd.PersistentFlags().String("strategy", string(schema.StrategyAuto), "Update strategy: incremental or full or auto")
	rootCmd.PersistentFlags().String("store-url", "", "Base URL of the document store")
	rootCmd.PersistentFlags().String("store-secret", "", "Auth secret for the document store (prefer STATSYNC_STORE_SECRET)")
	rootCmd.PersistentFlags().String("store-root", contract.DefaultStoreRoot, "Root path for series records in the document store")
	rootCmd.PersistentFlags().String("timeout", "120s", "HTTP timeout for provider and store requests")
	rootCmd.PersistentFlags().Float64("rate-limit", contract.DefaultRateLimit, "Maximum provider requests per second")
	rootCmd.PersistentFlags().String("artifacts-dir", contract.DefaultArtifactsDir, "Directory for failure logs and schedule results")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("run-backend", string(schema.SQLiteBackend), "Run tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("run-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("retry-lookback", "168h", "How far back a failure still counts for retries")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags: %v", err)
	}

	// Bind all flags of runsMigrateCmd to Viper
	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags: %v", err)
	}
}
