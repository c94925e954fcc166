package runstore

import (
	"errors"
	"fmt"

	"github.com/pharmakit/retroscreen/internal/parquet"
	"github.com/pharmakit/retroscreen/schema"
)

// ExecuteExport dumps all stored screening runs and molecule scores to Parquet files.
func ExecuteExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := Manager.GetRunStore()
	if store == nil {
		return errors.New("run tracking is disabled")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run store status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no screening runs found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total screening runs: %d\n", status.TotalRuns)
	fmt.Printf("Total molecule scores: %d\n", status.TableSizes[scoresTable])

	// Retrieve all runs, then gather each run's molecule scores
	runs, err := store.ListRuns(0)
	if err != nil {
		return fmt.Errorf("failed to retrieve screening runs: %w", err)
	}

	var scores []schema.MoleculeScoreRecord
	for _, run := range runs {
		rows, err := store.ListScores(run.RunID)
		if err != nil {
			return fmt.Errorf("failed to retrieve scores for run %d: %w", run.RunID, err)
		}
		scores = append(scores, rows...)
	}

	// Convert to Parquet format
	parquetRuns := parquet.ConvertRunRecords(runs)
	parquetScores := parquet.ConvertScoreRecords(scores)

	// Write runs to Parquet
	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteScreeningRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write screening runs: %w", err)
	}
	fmt.Printf("Exported %d screening runs to: %s\n", len(parquetRuns), runsFile)

	// Write molecule scores to Parquet
	scoresFile := outputFile + ".molecule_scores.parquet"
	if err := parquet.WriteMoleculeScoresParquet(parquetScores, scoresFile); err != nil {
		return fmt.Errorf("failed to write molecule scores: %w", err)
	}
	fmt.Printf("Exported %d molecule score records to: %s\n", len(parquetScores), scoresFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
