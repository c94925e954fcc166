package core

import (
	"fmt"
	"math"
	"sync"

	"github.com/pharmakit/retroscreen/internal/chem"
	"github.com/pharmakit/retroscreen/internal/contract"
	"github.com/pharmakit/retroscreen/schema"
)

// Strategy scores one molecule against a pharmacophore. The interface is
// sealed: the geometric and fingerprint scorers are the only two variants,
// and a session resolves its variant once at construction, not per call.
type Strategy interface {
	// ScoreMolecule returns the molecule's score record, or nil when the
	// molecule must be excluded from the run. The error carries the reason
	// for exclusion and is reported as a warning, never as a run failure.
	ScoreMolecule(mol *chem.Molecule) (*schema.ScoreRecord, error)

	// Kind returns the strategy label recorded in reports and run rows.
	Kind() schema.ScoringStrategy

	sealed()
}

// NewStrategy classifies the pharmacophore representation and returns the
// matching scoring strategy. A 3D feature model selects geometric alignment;
// a fingerprint bit vector selects similarity scoring. Anything else fails
// with schema.ErrUnsupportedPharmacophore.
func NewStrategy(pharmacophore any, cfg *contract.Config, aligner contract.Aligner, fper contract.Fingerprinter) (Strategy, error) {
	switch p := pharmacophore.(type) {
	case *chem.Pharmacophore:
		if err := p.Validate(); err != nil {
			return nil, err
		}
		return &geometricStrategy{
			aligner:    aligner,
			model:      p,
			embedCount: cfg.EmbedCount,
		}, nil
	case *chem.Fingerprint:
		if _, ok := schema.ValidSimilarityKinds[cfg.Similarity]; !ok {
			return nil, fmt.Errorf("invalid similarity function '%s'. must be tanimoto, dice", cfg.Similarity)
		}
		return &fingerprintStrategy{
			fper:       fper,
			reference:  p,
			similarity: cfg.Similarity,
		}, nil
	default:
		return nil, fmt.Errorf("%w (received %T)", schema.ErrUnsupportedPharmacophore, pharmacophore)
	}
}

// geometricStrategy scores molecules by 3D alignment against a feature model.
type geometricStrategy struct {
	aligner    contract.Aligner
	model      *chem.Pharmacophore
	embedCount int
}

func (s *geometricStrategy) Kind() schema.ScoringStrategy { return schema.SSDStrategy }

func (s *geometricStrategy) sealed() {}

// ScoreMolecule aligns the molecule against the model. A molecule that
// cannot cover the model's features keeps the sentinel score 0.0 with the
// bare molecule as payload, so thresholding treats it as minimally active
// rather than missing. A matched molecule whose embedding yields no
// conformers keeps the same sentinel; only an embedding error excludes the
// molecule from the run entirely.
func (s *geometricStrategy) ScoreMolecule(mol *chem.Molecule) (*schema.ScoreRecord, error) {
	ok, info := s.aligner.Match(mol, s.model)
	if !ok {
		return &schema.ScoreRecord{Score: 0.0, ID: mol.ID, Payload: mol}, nil
	}

	embeddings, err := s.aligner.Embed(mol, info, s.model, s.embedCount)
	if err != nil {
		return nil, fmt.Errorf("embedding %s: %w", mol.ID, err)
	}
	if len(embeddings) == 0 {
		// Matched but produced no conformers: same sentinel as no-match.
		// Only an embedding error excludes the molecule.
		return &schema.ScoreRecord{Score: 0.0, ID: mol.ID, Payload: mol}, nil
	}

	minSSD := math.Inf(1)
	best := embeddings[0]
	for _, e := range embeddings {
		if ssd := s.aligner.Score(e); ssd < minSSD {
			minSSD = ssd
			best = e
		}
	}

	// A zero SSD would make the reciprocal blow up. Cap it at the largest
	// finite score so a perfect fit still ranks first.
	score := math.MaxFloat64
	if minSSD > 0 {
		score = 1.0 / minSSD
	}
	return &schema.ScoreRecord{Score: score, ID: mol.ID, Payload: best}, nil
}

// fingerprintStrategy scores molecules by 2D fingerprint similarity against
// a reference fingerprint. Every molecule receives a score in [0, 1]; there
// is no unmatched case.
type fingerprintStrategy struct {
	fper       contract.Fingerprinter
	reference  *chem.Fingerprint
	similarity schema.SimilarityKind
}

func (s *fingerprintStrategy) Kind() schema.ScoringStrategy { return schema.SimilarityStrategy }

func (s *fingerprintStrategy) sealed() {}

func (s *fingerprintStrategy) ScoreMolecule(mol *chem.Molecule) (*schema.ScoreRecord, error) {
	fp := s.fper.Fingerprint(mol)
	sim, err := s.fper.Similarity(s.reference, fp, s.similarity)
	if err != nil {
		return nil, fmt.Errorf("similarity for %s: %w", mol.ID, err)
	}
	return &schema.ScoreRecord{Score: sim, ID: mol.ID, Payload: mol}, nil
}

// indexedResult couples a worker's outcome with the molecule's position in
// the input order, so records can be re-collected into that order.
type indexedResult struct {
	index  int
	record *schema.ScoreRecord
	err    error
}

// scoreAll scores every molecule via the strategy using a bounded worker
// pool. Output order matches input order; excluded molecules are dropped
// along with their labels at the same index, so the store and the label
// array stay positionally aligned.
func scoreAll(strategy Strategy, molecules []*chem.Molecule, labels []int, workers int) ([]schema.ScoreRecord, []int) {
	if workers < 1 {
		workers = 1
	}

	molCh := make(chan int, len(molecules))
	resultCh := make(chan indexedResult, len(molecules))
	var wg sync.WaitGroup

	// Start worker pool
	for range workers {
		wg.Go(func() {
			for i := range molCh {
				rec, err := strategy.ScoreMolecule(molecules[i])
				resultCh <- indexedResult{index: i, record: rec, err: err}
			}
		})
	}

	// Send molecule indices to worker channel
	for i := range molecules {
		molCh <- i
	}
	close(molCh)

	// Wait for all workers to finish processing
	wg.Wait()
	close(resultCh)

	// Re-collect into input order before metric computation; alignment
	// between records and labels is positional, not key-based.
	ordered := make([]*schema.ScoreRecord, len(molecules))
	for r := range resultCh {
		if r.err != nil {
			contract.LogWarn("Molecule excluded from screening", r.err)
			continue
		}
		ordered[r.index] = r.record
	}

	records := make([]schema.ScoreRecord, 0, len(molecules))
	kept := make([]int, 0, len(labels))
	for i, rec := range ordered {
		if rec == nil {
			continue
		}
		records = append(records, *rec)
		kept = append(kept, labels[i])
	}
	return records, kept
}
