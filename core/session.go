package core

import (
	"context"
	"fmt"
	"time"

	"github.com/pharmakit/retroscreen/core/algo"
	"github.com/pharmakit/retroscreen/internal/chem"
	"github.com/pharmakit/retroscreen/internal/contract"
	"github.com/pharmakit/retroscreen/schema"
)

// ScreeningSession owns the label array and the score record store for one
// screening run. A session is populated once, scored once, and read-only
// afterwards. One session instance corresponds to exactly one run.
type ScreeningSession struct {
	cfg      *contract.Config
	strategy Strategy

	molecules []*chem.Molecule
	labels    []int
	records   []schema.ScoreRecord
	scored    bool
}

// NewScreeningSession builds a session around the given pharmacophore
// representation. The scoring strategy is resolved here, once.
func NewScreeningSession(pharmacophore any, cfg *contract.Config, aligner contract.Aligner, fper contract.Fingerprinter) (*ScreeningSession, error) {
	strategy, err := NewStrategy(pharmacophore, cfg, aligner, fper)
	if err != nil {
		return nil, err
	}
	return &ScreeningSession{cfg: cfg, strategy: strategy}, nil
}

// Strategy returns the resolved scoring strategy label.
func (s *ScreeningSession) Strategy() schema.ScoringStrategy {
	return s.strategy.Kind()
}

// FromBioactivityData populates the session from parallel (id, smiles) and
// label slices. Labels must be binary and the slices must have equal length.
// A SMILES that fails to parse is fatal for the session, not skipped.
func (s *ScreeningSession) FromBioactivityData(inputs []contract.MoleculeInput, labels []int) error {
	if s.scored {
		return schema.ErrSessionSealed
	}
	if len(inputs) != len(labels) {
		return fmt.Errorf("%w (%d molecules, %d labels)", schema.ErrLengthMismatch, len(inputs), len(labels))
	}
	for i, label := range labels {
		if label != 0 && label != 1 {
			return fmt.Errorf("%w: label at index %d is %d, expected 0 or 1", schema.ErrBadShape, i, label)
		}
	}

	molecules := make([]*chem.Molecule, len(inputs))
	for i, in := range inputs {
		mol, err := chem.MoleculeFromSMILES(in.ID, in.SMILES)
		if err != nil {
			return fmt.Errorf("molecule %s: %w", in.ID, err)
		}
		molecules[i] = mol
	}

	s.molecules = molecules
	s.labels = append([]int(nil), labels...)
	return nil
}

// FromTarget populates the session from a bioactivity database fetch keyed
// by target identifier. Continuous potency is binarized at the pIC50
// threshold by the source.
func (s *ScreeningSession) FromTarget(ctx context.Context, source contract.BioactivitySource, targetID string, pIC50Threshold float64) error {
	if s.scored {
		return schema.ErrSessionSealed
	}
	inputs, labels, err := source.FetchTargetData(ctx, targetID, pIC50Threshold)
	if err != nil {
		return fmt.Errorf("fetching target %s: %w", targetID, err)
	}
	return s.FromBioactivityData(inputs, labels)
}

// FromAssay populates the session from a bioassay fetch. Assay records carry
// their own active/inactive outcome, so no potency threshold applies.
func (s *ScreeningSession) FromAssay(ctx context.Context, source contract.BioactivitySource, assayID int) error {
	if s.scored {
		return schema.ErrSessionSealed
	}
	inputs, labels, err := source.FetchAssayData(ctx, assayID)
	if err != nil {
		return fmt.Errorf("fetching assay %d: %w", assayID, err)
	}
	return s.FromBioactivityData(inputs, labels)
}

// ScoreAll scores every loaded molecule and seals the session. Molecules the
// geometric strategy excludes are dropped together with their labels, so the
// store and the label array stay aligned.
func (s *ScreeningSession) ScoreAll() error {
	if s.scored {
		return schema.ErrSessionSealed
	}
	if len(s.molecules) == 0 {
		return schema.ErrEmptyScreening
	}
	s.records, s.labels = scoreAll(s.strategy, s.molecules, s.labels, s.cfg.Workers)
	s.scored = true
	return nil
}

// Records returns the score record store in scoring order.
func (s *ScreeningSession) Records() []schema.ScoreRecord {
	return s.records
}

// Labels returns the label array aligned with the score record store.
func (s *ScreeningSession) Labels() []int {
	return s.labels
}

// NMolecules returns the number of scored molecules. This can be smaller
// than the number of loaded molecules when the geometric strategy excluded
// unembeddable structures.
func (s *ScreeningSession) NMolecules() int {
	return len(s.records)
}

// ScoreRows converts the record store into run-store rows for persistence.
// SMILES strings are recovered from the loaded molecules by identifier.
func (s *ScreeningSession) ScoreRows(runID int64, scoredAt time.Time) []schema.MoleculeScoreRecord {
	smilesByID := make(map[string]string, len(s.molecules))
	for _, mol := range s.molecules {
		smilesByID[mol.ID] = mol.SMILES
	}

	rows := make([]schema.MoleculeScoreRecord, len(s.records))
	for i, rec := range s.records {
		rows[i] = schema.MoleculeScoreRecord{
			RunID:      runID,
			MoleculeID: rec.ID,
			SMILES:     smilesByID[rec.ID],
			Label:      int32(s.labels[i]),
			Score:      rec.Score,
			ScoredAt:   scoredAt,
		}
	}
	return rows
}

// scores extracts the score column from the record store.
func (s *ScreeningSession) scores() []float64 {
	out := make([]float64, len(s.records))
	for i, r := range s.records {
		out[i] = r.Score
	}
	return out
}

// ensureScored guards every metric operation.
func (s *ScreeningSession) ensureScored() error {
	if !s.scored || len(s.records) == 0 {
		return schema.ErrEmptyScreening
	}
	return nil
}

// ConfusionMatrix classifies molecules at the given threshold. The geometric
// strategy pins the threshold at 0.0 regardless of the caller's value; the
// similarity strategy requires an explicit threshold.
func (s *ScreeningSession) ConfusionMatrix(threshold float64, hasThreshold bool) (schema.ConfusionMatrix, error) {
	if err := s.ensureScored(); err != nil {
		return schema.ConfusionMatrix{}, err
	}
	switch s.strategy.Kind() {
	case schema.SSDStrategy:
		threshold = 0.0
	default:
		if !hasThreshold {
			return schema.ConfusionMatrix{}, schema.ErrMissingThreshold
		}
	}
	return algo.ConfusionMatrix(s.scores(), s.labels, threshold), nil
}

// ROCCurve returns the receiver-operating-characteristic data series.
func (s *ScreeningSession) ROCCurve() ([]schema.CurvePoint, error) {
	if err := s.ensureScored(); err != nil {
		return nil, err
	}
	return algo.ROCCurve(s.scores(), s.labels)
}

// AUC returns the area under the ROC curve.
func (s *ScreeningSession) AUC() (float64, error) {
	if err := s.ensureScored(); err != nil {
		return 0, err
	}
	return algo.AUC(s.scores(), s.labels)
}

// EnrichmentData returns the enrichment curve data series.
func (s *ScreeningSession) EnrichmentData() ([]schema.CurvePoint, error) {
	if err := s.ensureScored(); err != nil {
		return nil, err
	}
	return algo.EnrichmentData(s.scores(), s.labels)
}

// EnrichmentFactor returns the observed enrichment factor at the given
// screened-database percentage.
func (s *ScreeningSession) EnrichmentFactor(percentage float64) (float64, error) {
	if err := s.ensureScored(); err != nil {
		return 0, err
	}
	return algo.EnrichmentFactor(s.scores(), s.labels, percentage)
}

// IdealEnrichmentFactor returns the best-possible enrichment factor at the
// given percentage for the session's active/inactive ratio. It depends only
// on the labels, never on the scores.
func (s *ScreeningSession) IdealEnrichmentFactor(percentage float64) (float64, error) {
	if err := s.ensureScored(); err != nil {
		return 0, err
	}
	return algo.IdealEnrichmentFactor(s.labels, percentage)
}

// Report assembles the full metric summary of the run: confusion matrix at
// the configured threshold, ROC/AUC, enrichment curve, and the observed and
// ideal enrichment factors at the configured percentage cutoffs.
func (s *ScreeningSession) Report() (*schema.ScreeningReport, error) {
	if err := s.ensureScored(); err != nil {
		return nil, err
	}

	confusion, err := s.ConfusionMatrix(s.cfg.Threshold, s.cfg.HasThreshold)
	if err != nil {
		return nil, err
	}
	roc, err := s.ROCCurve()
	if err != nil {
		return nil, err
	}
	auc, err := s.AUC()
	if err != nil {
		return nil, err
	}
	enrichment, err := s.EnrichmentData()
	if err != nil {
		return nil, err
	}

	factors := make([]schema.EnrichmentEntry, 0, len(s.cfg.EFPercentages))
	for _, p := range s.cfg.EFPercentages {
		observed, err := s.EnrichmentFactor(p)
		if err != nil {
			return nil, err
		}
		ideal, err := s.IdealEnrichmentFactor(p)
		if err != nil {
			return nil, err
		}
		factors = append(factors, schema.EnrichmentEntry{Percentage: p, Observed: observed, Ideal: ideal})
	}

	actives, inactives := algo.CountLabels(s.labels)
	threshold := s.cfg.Threshold
	if s.strategy.Kind() == schema.SSDStrategy {
		threshold = 0.0
	}

	report := &schema.ScreeningReport{
		Strategy:          s.strategy.Kind(),
		NMolecules:        len(s.records),
		NActives:          actives,
		NInactives:        inactives,
		Threshold:         threshold,
		Confusion:         confusion,
		AUC:               auc,
		ROC:               roc,
		Enrichment:        enrichment,
		EnrichmentFactors: factors,
	}
	if s.strategy.Kind() == schema.SimilarityStrategy {
		report.Similarity = s.cfg.Similarity
	}
	return report, nil
}
