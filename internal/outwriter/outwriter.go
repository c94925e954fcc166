// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/pharmakit/retroscreen/internal/contract"
	"github.com/pharmakit/retroscreen/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteReport prints a screening report using the configured output format.
func (ow *OutWriter) WriteReport(report *schema.ScreeningReport, cfg *contract.Config, duration time.Duration) error {
	return WriteScreeningReport(report, cfg, duration)
}

// WriteRuns prints stored run rows using the configured output format.
func (ow *OutWriter) WriteRuns(runs []schema.RunRecord, cfg *contract.Config) error {
	return WriteRunRecords(runs, cfg)
}

// WriteScores prints stored molecule score rows using the configured output format.
func (ow *OutWriter) WriteScores(scores []schema.MoleculeScoreRecord, cfg *contract.Config) error {
	return WriteScoreRecords(scores, cfg)
}

// WriteMetrics prints strategy and metric definitions using the configured output format.
func (ow *OutWriter) WriteMetrics(cfg *contract.Config) error {
	return PrintMetricsDefinitions(cfg)
}
