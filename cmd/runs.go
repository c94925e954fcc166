package cmd

import (
	"fmt"
	"strconv"

	"github.com/pharmakit/retroscreen/internal/contract"
	"github.com/pharmakit/retroscreen/internal/outwriter"
	"github.com/pharmakit/retroscreen/internal/runstore"
	"github.com/pharmakit/retroscreen/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runsMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize the store or create
// tables, allowing migrations to run on a fresh database.
func runsMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backendStr := viper.GetString("store-backend")
	connStr := viper.GetString("store-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = runstore.GetDBFilePath()
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr

	return nil
}

// runsMigrateSetupWrapper wraps runsMigrateSetup to provide PreRunE for the migrate command.
func runsMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsMigrateSetup()
}

// requireRunStore fetches the configured run store or fails with guidance.
func requireRunStore() contract.RunStore {
	store := storeManager.GetRunStore()
	if store == nil {
		contract.LogFatal("Run tracking is disabled", fmt.Errorf("set --store-backend to sqlite, mysql or postgresql"))
	}
	return store
}

// runsCmd focused on screening run history management.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage stored screening runs and their molecule scores",
	Long: `Manage the screening run history kept by the run store.

When enabled, Retroscreen tracks every screening, storing:
- Run metadata (timestamp, configuration, strategy)
- Summary metrics (molecule counts, threshold, AUC)
- Per-molecule scores and labels

This enables comparing pharmacophore models over time and exporting score
data for external analysis.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled)

Subcommands:
  list    - Show stored screening runs
  scores  - Show the molecule scores of one run
  status  - Show run tracking statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all tracking data
  migrate - Run database schema migrations

Examples:
  # Show recent runs
  retroscreen runs list --store-backend sqlite

  # Inspect one run's molecule scores
  retroscreen runs scores 3 --store-backend sqlite`,
}

// runsListCmd lists stored screening runs.
var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show stored screening runs, newest first",
	Long: `List the screening runs recorded in the run store.

Each row shows the run ID, start and end times, scoring strategy, molecule
count, and the final AUC with its quality label. Use --limit to restrict
the number of rows.

Examples:
  # Show all runs
  retroscreen runs list --store-backend sqlite

  # Show the five most recent runs as JSON
  retroscreen runs list --store-backend sqlite --limit 5 --output json`,
	PreRunE: baseSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runs, err := requireRunStore().ListRuns(viper.GetInt("limit"))
		if err != nil {
			contract.LogFatal("Failed to list runs", err)
		}
		if err := outwriter.WriteRunRecords(runs, cfg); err != nil {
			contract.LogFatal("Failed to write runs", err)
		}
	},
}

// runsScoresCmd shows the per-molecule scores of a stored run.
var runsScoresCmd = &cobra.Command{
	Use:   "scores <run-id>",
	Short: "Show the molecule scores recorded for one run",
	Long: `List the per-molecule scores of a stored screening run in scoring order.

Each row shows the molecule ID, its SMILES, the known activity label, and
the score the pharmacophore assigned.

Examples:
  # Inspect run 3
  retroscreen runs scores 3 --store-backend sqlite

  # Export one run's scores as CSV
  retroscreen runs scores 3 --store-backend sqlite --output csv --output-file run3.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: baseSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		runID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || runID <= 0 {
			contract.LogFatal("Invalid run ID", fmt.Errorf("expected a positive run ID, received %q", args[0]))
		}
		scores, err := requireRunStore().ListScores(runID)
		if err != nil {
			contract.LogFatal("Failed to list scores", err)
		}
		if err := outwriter.WriteScoreRecords(scores, cfg); err != nil {
			contract.LogFatal("Failed to write scores", err)
		}
	},
}

// runsStatusCmd shows run tracking status.
var runsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run tracking statistics and connection details",
	Long: `Show detailed information about screening run tracking.

Displays:
- Backend type and connection status
- Total number of screening runs stored
- Last run ID and timestamp
- Total molecule scores across all runs
- Database table sizes

Examples:
  # Check run tracking status
  retroscreen runs status --store-backend sqlite`,
	PreRunE: baseSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := requireRunStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get run store status", err)
		}
		runstore.PrintStatus(status)
	},
}

// runsExportCmd exports run history to Parquet files.
var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for BI tools and analytics",
	Long: `Export all stored run data to Parquet format for use with analytics tools.

Exports two datasets:
- Screening runs - metadata and summary metrics for each run
- Molecule scores - per-molecule scores and labels across all runs

Requires: --output-file parameter

Examples:
  # Export all data
  retroscreen runs export --store-backend sqlite --output-file retroscreen-data

  # Use with DuckDB for analysis
  duckdb -c "SELECT * FROM read_parquet('retroscreen-data.runs.parquet') LIMIT 10"`,
	PreRunE: baseSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runstore.ExecuteExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run data", err)
		}
	},
}

// runsClearCmd clears the run history.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored screening runs and molecule scores",
	Long: `Delete all stored screening runs and their per-molecule scores.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  retroscreen runs export --store-backend sqlite --output-file backup
  retroscreen runs clear --store-backend sqlite`,
	PreRunE: baseSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runstore.ClearStore(cfg.StoreBackend, runstore.GetDBFilePath(), cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear run data", err)
		}
		fmt.Println("Run data cleared successfully.")
	},
}

// runsMigrateCmd runs database migrations for the run store.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run tracking store.

By default, migrates to the latest version. Use --target-version for
specific versions.

Examples:
  # Migrate to latest version (default)
  retroscreen runs migrate --store-backend sqlite

  # Rollback to initial state
  retroscreen runs migrate --store-backend sqlite --target-version 0`,
	PreRunE: runsMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := runstore.Migrate(cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
