// Package core has core logic for screening sessions, scoring and metrics.
package core

import (
	"context"
	"errors"
	"time"

	"github.com/pharmakit/retroscreen/core/dataset"
	"github.com/pharmakit/retroscreen/internal/bioactivity"
	"github.com/pharmakit/retroscreen/internal/chem"
	"github.com/pharmakit/retroscreen/internal/contract"
	"github.com/pharmakit/retroscreen/internal/mol2"
	"github.com/pharmakit/retroscreen/internal/outwriter"
	"github.com/pharmakit/retroscreen/schema"
)

// ExecutorFunc defines the function signature for executing different screening modes.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecuteScreen runs a retrospective screening end to end and prints the
// metric report to stdout. It serves as the main entry point for the
// 'screen' mode.
func ExecuteScreen(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()

	report, err := GetScreeningReport(ctx, cfg, mgr)
	if err != nil {
		return err
	}

	duration := time.Since(start)
	return outwriter.WriteScreeningReport(report, cfg, duration)
}

// GetScreeningReport runs the full screening pipeline and returns the metric
// report without printing it. The MCP server consumes this directly.
func GetScreeningReport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*schema.ScreeningReport, error) {
	pharmacophore, err := loadPharmacophoreInput(cfg)
	if err != nil {
		return nil, err
	}

	session, err := NewScreeningSession(pharmacophore, cfg, chem.NewGeometricAligner(), chem.NewPharm2D())
	if err != nil {
		return nil, err
	}
	if err := populateSession(ctx, session, cfg); err != nil {
		return nil, err
	}

	// --- 0. Begin Run Tracking (if configured) ---
	var runID int64
	runStore := mgr.GetRunStore()
	if runStore != nil {
		configParams := map[string]any{
			"strategy":   string(session.Strategy()),
			"similarity": string(cfg.Similarity),
			"dataset":    cfg.DatasetPath,
			"model":      cfg.ModelFile,
			"ref_smiles": cfg.RefSMILES,
			"target":     cfg.TargetID,
			"assay":      cfg.AssayID,
			"workers":    cfg.Workers,
		}
		runID, err = runStore.BeginRun(time.Now(), session.Strategy(), configParams)
		if err != nil {
			contract.LogWarn("Run tracking initialization failed", err)
			runID = 0
		}
	}

	// --- 1. Core Screening ---
	if err := session.ScoreAll(); err != nil {
		return nil, err
	}

	// --- 2. Per-Molecule Score Tracking ---
	if runStore != nil && runID > 0 {
		scoredAt := time.Now()
		for _, row := range session.ScoreRows(runID, scoredAt) {
			if err := runStore.RecordScore(runID, row); err != nil {
				contract.LogWarn("Run tracking failed for molecule "+row.MoleculeID, err)
			}
		}
	}

	// --- 3. Metric Report ---
	report, err := session.Report()
	if err != nil {
		return nil, err
	}

	// --- 4. End Run Tracking ---
	if runStore != nil && runID > 0 {
		if err := runStore.EndRun(runID, time.Now(), report); err != nil {
			contract.LogWarn("Failed to finalize run tracking", err)
		}
	}

	return report, nil
}

// ExecuteMetrics displays the formal definitions of the scoring strategies
// and evaluation metrics. This is a static display that does not require a
// dataset or a pharmacophore.
func ExecuteMetrics(_ context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	return outwriter.PrintMetricsDefinitions(cfg)
}

// loadPharmacophoreInput builds the pharmacophore representation from the
// configured input mode: a mol2 model file for geometric alignment, or a
// reference SMILES fingerprint for similarity scoring.
func loadPharmacophoreInput(cfg *contract.Config) (any, error) {
	if cfg.ModelFile != "" {
		return mol2.ReadModelFile(cfg.ModelFile)
	}

	ref, err := chem.MoleculeFromSMILES("reference", cfg.RefSMILES)
	if err != nil {
		return nil, err
	}
	return chem.NewPharm2D().Fingerprint(ref), nil
}

// populateSession loads molecules and labels from the configured source:
// a local CSV dataset, a ChEMBL target or a PubChem bioassay.
func populateSession(ctx context.Context, session *ScreeningSession, cfg *contract.Config) error {
	switch {
	case cfg.TargetID != "":
		return session.FromTarget(ctx, bioactivity.NewClient(), cfg.TargetID, cfg.PIC50Threshold)
	case cfg.AssayID != 0:
		return session.FromAssay(ctx, bioactivity.NewClient(), cfg.AssayID)
	case cfg.DatasetPath != "":
		inputs, labels, err := dataset.Load(cfg.DatasetPath, cfg.SMILESColumn, cfg.LabelColumn)
		if err != nil {
			return err
		}
		return session.FromBioactivityData(inputs, labels)
	default:
		return errors.New("one of --dataset, --target or --assay is required")
	}
}
