// Package cmd defines the command-line interface for retroscreen.
package cmd

import (
	"github.com/pharmakit/retroscreen/internal/contract"
	"github.com/pharmakit/retroscreen/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(screenCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runsCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsScoresCmd)
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent scoring workers")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("store-backend", string(schema.NoneBackend), "Run tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of screenCmd to Viper
	screenCmd.Flags().StringP("dataset", "d", "", "Path to a CSV file with SMILES and activity labels")
	screenCmd.Flags().StringP("model", "m", "", "Path to a mol2 pharmacophore model (3D alignment scoring)")
	screenCmd.Flags().String("ref-smiles", "", "Reference molecule SMILES (2D fingerprint scoring)")
	screenCmd.Flags().String("smiles-column", "smiles", "Name of the SMILES column in the dataset")
	screenCmd.Flags().String("label-column", "activity", "Name of the activity label column in the dataset")
	screenCmd.Flags().String("similarity", string(schema.TanimotoSimilarity), "Fingerprint similarity function: tanimoto or dice")
	screenCmd.Flags().StringP("threshold", "t", "", "Classification threshold in [0, 1]")
	screenCmd.Flags().Int("embed-count", contract.DefaultEmbedCount, "Number of conformers generated per molecule for 3D alignment")
	screenCmd.Flags().String("ef-percentages", "", "Comma-separated enrichment factor cutoffs (e.g., '1,5,10,25')")
	screenCmd.Flags().Bool("with-curves", false, "Include ROC and enrichment curve points in the report")
	screenCmd.Flags().String("target", "", "ChEMBL target ID to fetch molecules from (e.g., CHEMBL2095173)")
	screenCmd.Flags().String("assay", "", "PubChem bioassay ID to fetch molecules from")
	screenCmd.Flags().Float64("pic50-threshold", contract.DefaultPIC50Threshold, "pIC50 cutoff used to label ChEMBL molecules active")
	if err := viper.BindPFlags(screenCmd.Flags()); err != nil {
		contract.LogFatal("Error binding screen flags", err)
	}

	// Bind all flags of runsListCmd to Viper
	runsListCmd.Flags().IntP("limit", "l", 0, "Limit the number of runs displayed (0 = all)")
	if err := viper.BindPFlags(runsListCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs list flags", err)
	}

	// Bind all flags of runsMigrateCmd to Viper
	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}
}
