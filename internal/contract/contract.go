// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/pharmakit/retroscreen/internal/chem"
	"github.com/pharmakit/retroscreen/schema"
)

// Aligner defines the operations of the geometric screening collaborator.
// This allows the scoring core to be tested without a real conformer engine.
type Aligner interface {
	// Match reports whether the molecule can cover the model's features,
	// and with which atoms.
	Match(mol *chem.Molecule, model *chem.Pharmacophore) (bool, *chem.MatchInfo)

	// Embed generates up to count candidate placements for a matched molecule.
	Embed(mol *chem.Molecule, info *chem.MatchInfo, model *chem.Pharmacophore, count int) ([]chem.Embedding, error)

	// Score returns the sum-of-squared-deviations of one embedding; lower is better.
	Score(e chem.Embedding) float64
}

// Fingerprinter defines the operations of the 2D fingerprint collaborator.
type Fingerprinter interface {
	// Fingerprint computes the 2D pharmacophore fingerprint of a molecule.
	Fingerprint(mol *chem.Molecule) *chem.Fingerprint

	// Similarity compares two fingerprints with the given similarity kind.
	Similarity(a, b *chem.Fingerprint, kind schema.SimilarityKind) (float64, error)
}

// MoleculeInput is one labeled dataset entry before molecule construction.
type MoleculeInput struct {
	ID     string
	SMILES string
}

// BioactivitySource fetches labeled training data from an external
// bioactivity database.
type BioactivitySource interface {
	// FetchTargetData returns (id, smiles) pairs and binary labels for a
	// target, binarizing continuous potency at the pIC50 threshold.
	FetchTargetData(ctx context.Context, targetID string, pIC50Threshold float64) ([]MoleculeInput, []int, error)

	// FetchAssayData returns (id, smiles) pairs and binary labels for a bioassay.
	FetchAssayData(ctx context.Context, assayID int) ([]MoleculeInput, []int, error)
}

// RunStore defines the interface for tracking screening runs and storing
// per-molecule scores. This allows mocking the store for testing.
type RunStore interface {
	// BeginRun creates a new run row and returns its unique ID.
	BeginRun(startTime time.Time, strategy schema.ScoringStrategy, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data.
	EndRun(runID int64, endTime time.Time, report *schema.ScreeningReport) error

	// RecordScore stores one molecule's score within a run.
	RecordScore(runID int64, rec schema.MoleculeScoreRecord) error

	// ListRuns returns the stored run rows, newest first.
	ListRuns(limit int) ([]schema.RunRecord, error)

	// ListScores returns the score rows of a run in scoring order.
	ListScores(runID int64) ([]schema.MoleculeScoreRecord, error)

	// GetStatus returns status information about the run store.
	GetStatus() (schema.RunStatus, error)

	// Clear removes all stored runs and scores.
	Clear() error

	// Close closes the underlying connection.
	Close() error
}

// StoreManager defines the interface for managing run stores.
type StoreManager interface {
	GetRunStore() RunStore
}
