package chem

import (
	"fmt"
	"hash/fnv"

	"github.com/pharmakit/retroscreen/schema"
)

// minAnchorAtoms is the smallest number of matched atoms that can pin a
// molecule into a 3D frame. Models with fewer matched features cannot be
// embedded even when they match.
const minAnchorAtoms = 3

// MatchInfo records which molecule atoms were assigned to which pharmacophore
// features. AtomIndices[i] is the atom matched to model feature i.
type MatchInfo struct {
	AtomIndices []int
}

// Embedding is one candidate 3D placement of a molecule's matched atoms
// against a pharmacophore model.
type Embedding struct {
	Molecule  *Molecule
	Model     *Pharmacophore
	Positions [][3]float64 // One position per model feature
}

// GeometricAligner matches molecules against 3D pharmacophore models and
// scores candidate embeddings by sum-of-squared-deviations. It is a
// self-contained surrogate for a full conformer generator: placements are
// derived deterministically from the molecule, so repeated runs produce
// identical scores.
type GeometricAligner struct{}

// NewGeometricAligner returns a ready-to-use aligner.
func NewGeometricAligner() *GeometricAligner {
	return &GeometricAligner{}
}

// Match checks whether the molecule can cover every feature of the model
// with a distinct atom of a compatible pharmacophoric type. It returns false
// when any feature has no remaining candidate; a false result is not an
// error, it means the molecule does not fit the model.
func (a *GeometricAligner) Match(mol *Molecule, model *Pharmacophore) (bool, *MatchInfo) {
	used := make(map[int]bool)
	info := &MatchInfo{AtomIndices: make([]int, 0, len(model.Features))}

	for _, feature := range model.Features {
		matched := -1
		for idx, atom := range mol.Atoms() {
			if used[idx] {
				continue
			}
			kind, ok := featureForAtom(atom)
			if ok && kind == feature.Kind {
				matched = idx
				break
			}
		}
		if matched < 0 {
			return false, nil
		}
		used[matched] = true
		info.AtomIndices = append(info.AtomIndices, matched)
	}
	return true, info
}

// Embed generates up to count candidate placements of the matched atoms
// inside the model's tolerance spheres. It fails when the match pins fewer
// atoms than a rigid frame needs; callers treat that failure by dropping the
// molecule from the run.
func (a *GeometricAligner) Embed(mol *Molecule, info *MatchInfo, model *Pharmacophore, count int) ([]Embedding, error) {
	if count <= 0 {
		return nil, fmt.Errorf("embedding count must be positive, got %d", count)
	}
	if len(info.AtomIndices) < minAnchorAtoms {
		return nil, fmt.Errorf("molecule %q: %d matched atoms cannot pin a 3D frame (need %d)",
			mol.ID, len(info.AtomIndices), minAnchorAtoms)
	}

	// Larger molecules strain more against a rigid model: scale the placement
	// spread by how many atoms sit outside the matched set.
	strain := 1.0 + float64(mol.HeavyAtomCount()-len(info.AtomIndices))/float64(mol.HeavyAtomCount())

	embeddings := make([]Embedding, 0, count)
	for c := 0; c < count; c++ {
		positions := make([][3]float64, len(model.Features))
		for i, feature := range model.Features {
			for axis := 0; axis < 3; axis++ {
				offset := deterministicUnit(mol.SMILES, c, i, axis) * feature.Radius * strain
				positions[i][axis] = feature.Center[axis] + offset
			}
		}
		embeddings = append(embeddings, Embedding{Molecule: mol, Model: model, Positions: positions})
	}
	return embeddings, nil
}

// Score returns the sum-of-squared-deviations of an embedding's feature
// placements from the model centers. Lower is a better geometric fit.
func (a *GeometricAligner) Score(e Embedding) float64 {
	var ssd float64
	for i, feature := range e.Model.Features {
		for axis := 0; axis < 3; axis++ {
			d := e.Positions[i][axis] - feature.Center[axis]
			ssd += d * d
		}
	}
	return ssd
}

// FeatureKindsOf reports the distinct feature kinds perceivable on the
// molecule. Exposed for diagnostics output.
func FeatureKindsOf(mol *Molecule) []schema.FeatureKind {
	seen := make(map[schema.FeatureKind]bool)
	var kinds []schema.FeatureKind
	for _, atom := range mol.Atoms() {
		if kind, ok := featureForAtom(atom); ok && !seen[kind] {
			seen[kind] = true
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

// deterministicUnit maps (smiles, conformer, feature, axis) to a stable
// pseudo-random value in [-1, 1).
func deterministicUnit(smiles string, conformer, feature, axis int) float64 {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%s|%d|%d|%d", smiles, conformer, feature, axis)
	return float64(h.Sum64()%2000)/1000.0 - 1.0
}
