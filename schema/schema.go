// Package schema has models, enums and errors for all parts of retroscreen.
package schema

// ScoreRecord pairs a molecule's screening score with its identifier.
// Higher scores indicate higher confidence that the molecule is active.
// Payload carries the scored artifact (an embedded conformer for geometric
// screening, the molecule handle for fingerprint screening); it is opaque to
// the metrics engine and only meaningful to consumers of the session.
type ScoreRecord struct {
	Score   float64 // Non-negative; 1/SSD for geometric, [0,1] for similarity
	ID      string  // Molecule identifier from the input dataset
	Payload any     // Embedding or molecule handle; never inspected by metrics
}

// CurvePoint is a single (x, y) coordinate of a plot data series.
type CurvePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ConfusionMatrix is the 2x2 classification outcome matrix at a threshold,
// laid out as [[TP, FP], [FN, TN]].
type ConfusionMatrix struct {
	TruePositives  int `json:"true_positives"`
	FalsePositives int `json:"false_positives"`
	FalseNegatives int `json:"false_negatives"`
	TrueNegatives  int `json:"true_negatives"`
}

// Total returns the sum of all four cells. It always equals the number of
// scored molecules.
func (m ConfusionMatrix) Total() int {
	return m.TruePositives + m.FalsePositives + m.FalseNegatives + m.TrueNegatives
}

// Accuracy returns the fraction of correct classifications, or 0 for an
// empty matrix.
func (m ConfusionMatrix) Accuracy() float64 {
	total := m.Total()
	if total == 0 {
		return 0
	}
	return float64(m.TruePositives+m.TrueNegatives) / float64(total)
}

// ScreeningReport is the full metric summary of one screening run.
type ScreeningReport struct {
	Strategy   ScoringStrategy `json:"strategy"`
	Similarity SimilarityKind  `json:"similarity,omitempty"` // Only for fingerprint runs
	NMolecules int             `json:"n_molecules"`          // Scored molecules (skips excluded)
	NActives   int             `json:"n_actives"`
	NInactives int             `json:"n_inactives"`
	Threshold  float64         `json:"threshold"`
	Confusion  ConfusionMatrix `json:"confusion"`
	AUC        float64         `json:"auc"`
	ROC        []CurvePoint    `json:"roc"`
	Enrichment []CurvePoint    `json:"enrichment"`

	// EnrichmentFactors maps a screened-database percentage to the observed
	// and ideal enrichment factors at that cutoff.
	EnrichmentFactors []EnrichmentEntry `json:"enrichment_factors"`
}

// EnrichmentEntry holds the observed and ideal enrichment factors at one
// percentile cutoff of the screened database.
type EnrichmentEntry struct {
	Percentage float64 `json:"percentage"`
	Observed   float64 `json:"observed"`
	Ideal      float64 `json:"ideal"`
}
