// Package parquet provides data structures and functions for exporting
// screening run data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/pharmakit/retroscreen/schema"
)

// ScreeningRun represents a single screening run with metadata.
// This struct maps to the retroscreen_runs database table.
type ScreeningRun struct {
	// RunID is the unique identifier for this screening run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the screening began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the screening completed (nullable, stored as TIMESTAMP with nanosecond precision)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// Strategy is the scoring strategy used (SSD or Similarity)
	Strategy string `parquet:"strategy,snappy"`

	// NMolecules is the number of molecules scored in this run
	NMolecules int32 `parquet:"n_molecules,snappy"`

	// NActives is the number of known actives in the screened set
	NActives int32 `parquet:"n_actives,snappy"`

	// NInactives is the number of known inactives in the screened set
	NInactives int32 `parquet:"n_inactives,snappy"`

	// Threshold is the classification threshold applied (nullable)
	Threshold *float64 `parquet:"threshold,optional,snappy"`

	// AUC is the area under the ROC curve for this run (nullable)
	AUC *float64 `parquet:"auc,optional,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// MoleculeScore represents one molecule's score within a screening run.
// This struct maps to the retroscreen_molecule_scores database table.
type MoleculeScore struct {
	// RunID references the parent screening run
	RunID int64 `parquet:"run_id,snappy"`

	// MoleculeID is the molecule identifier from the input dataset
	MoleculeID string `parquet:"molecule_id,snappy"`

	// SMILES is the molecule's SMILES string
	SMILES string `parquet:"smiles,snappy"`

	// Label is the known bioactivity label (1 active, 0 inactive)
	Label int32 `parquet:"label,snappy"`

	// Score is the screening score assigned to the molecule
	Score float64 `parquet:"score,snappy"`

	// ScoredAt is when this molecule was scored (stored as TIMESTAMP with nanosecond precision)
	ScoredAt time.Time `parquet:"scored_at,snappy"`
}

// CurveSample represents one point of a metric curve (ROC or enrichment).
type CurveSample struct {
	// Series names the curve this point belongs to ("roc" or "enrichment")
	Series string `parquet:"series,snappy"`

	// X is the horizontal coordinate of the point
	X float64 `parquet:"x,snappy"`

	// Y is the vertical coordinate of the point
	Y float64 `parquet:"y,snappy"`
}

// WriteScreeningRunsParquet writes a slice of ScreeningRun structs to a Parquet file.
func WriteScreeningRunsParquet(data []ScreeningRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteMoleculeScoresParquet writes a slice of MoleculeScore structs to a Parquet file.
func WriteMoleculeScoresParquet(data []MoleculeScore, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteCurveSamplesParquet writes a slice of CurveSample structs to a Parquet file.
func WriteCurveSamplesParquet(data []CurveSample, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes any record slice to a Parquet file with schema
// inference from struct tags.
func writeParquet[T any](data []T, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the struct tags
	writer := parquet.NewGenericWriter[T](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertRunRecords converts schema.RunRecord to ScreeningRun for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []ScreeningRun {
	result := make([]ScreeningRun, len(records))
	for i, record := range records {
		result[i] = ScreeningRun{
			RunID:        record.RunID,
			StartTime:    record.StartTime,
			EndTime:      record.EndTime,
			Strategy:     record.Strategy,
			NMolecules:   record.NMolecules,
			NActives:     record.NActives,
			NInactives:   record.NInactives,
			Threshold:    record.Threshold,
			AUC:          record.AUC,
			ConfigParams: record.ConfigJSON,
		}
	}
	return result
}

// ConvertScoreRecords converts schema.MoleculeScoreRecord to MoleculeScore for Parquet export.
func ConvertScoreRecords(records []schema.MoleculeScoreRecord) []MoleculeScore {
	result := make([]MoleculeScore, len(records))
	for i, record := range records {
		result[i] = MoleculeScore{
			RunID:      record.RunID,
			MoleculeID: record.MoleculeID,
			SMILES:     record.SMILES,
			Label:      record.Label,
			Score:      record.Score,
			ScoredAt:   record.ScoredAt,
		}
	}
	return result
}

// ConvertReportCurves flattens a screening report's ROC and enrichment
// curves into a single exportable sample slice.
func ConvertReportCurves(report *schema.ScreeningReport) []CurveSample {
	samples := make([]CurveSample, 0, len(report.ROC)+len(report.Enrichment))
	for _, p := range report.ROC {
		samples = append(samples, CurveSample{Series: "roc", X: p.X, Y: p.Y})
	}
	for _, p := range report.Enrichment {
		samples = append(samples, CurveSample{Series: "enrichment", X: p.X, Y: p.Y})
	}
	return samples
}
