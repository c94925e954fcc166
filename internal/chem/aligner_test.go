package chem

import (
	"testing"

	"github.com/pharmakit/retroscreen/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModel() *Pharmacophore {
	return &Pharmacophore{Features: []Feature{
		{Kind: schema.HBAcceptor, Center: [3]float64{0, 0, 0}, Radius: 1.0},
		{Kind: schema.HBDonor, Center: [3]float64{3, 0, 0}, Radius: 1.0},
		{Kind: schema.Hydrophobic, Center: [3]float64{0, 4, 0}, Radius: 1.5},
	}}
}

// TestAlignerMatch tests feature coverage with distinct atoms.
func TestAlignerMatch(t *testing.T) {
	aligner := NewGeometricAligner()
	model := testModel()

	t.Run("molecule covering all features matches", func(t *testing.T) {
		mol, err := MoleculeFromSMILES("m1", "OCCN") // acceptor, hydrophobics, donor
		require.NoError(t, err)
		ok, info := aligner.Match(mol, model)
		require.True(t, ok)
		require.NotNil(t, info)
		assert.Len(t, info.AtomIndices, len(model.Features))

		// Matched atoms must be distinct.
		seen := make(map[int]bool)
		for _, idx := range info.AtomIndices {
			assert.False(t, seen[idx])
			seen[idx] = true
		}
	})

	t.Run("molecule missing a feature does not match", func(t *testing.T) {
		mol, err := MoleculeFromSMILES("m2", "CCC") // no donor, no acceptor
		require.NoError(t, err)
		ok, info := aligner.Match(mol, model)
		assert.False(t, ok)
		assert.Nil(t, info)
	})
}

// TestAlignerEmbed tests conformer generation and its failure mode.
func TestAlignerEmbed(t *testing.T) {
	aligner := NewGeometricAligner()
	model := testModel()
	mol, err := MoleculeFromSMILES("m1", "OCCN")
	require.NoError(t, err)

	ok, info := aligner.Match(mol, model)
	require.True(t, ok)

	t.Run("produces requested count", func(t *testing.T) {
		embeddings, err := aligner.Embed(mol, info, model, 10)
		require.NoError(t, err)
		assert.Len(t, embeddings, 10)
		for _, e := range embeddings {
			assert.Len(t, e.Positions, len(model.Features))
		}
	})

	t.Run("deterministic across calls", func(t *testing.T) {
		a, err := aligner.Embed(mol, info, model, 3)
		require.NoError(t, err)
		b, err := aligner.Embed(mol, info, model, 3)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("too few anchors fails", func(t *testing.T) {
		small := &Pharmacophore{Features: model.Features[:2]}
		smallMol, err := MoleculeFromSMILES("m3", "ON")
		require.NoError(t, err)
		ok, smallInfo := aligner.Match(smallMol, small)
		require.True(t, ok)
		_, err = aligner.Embed(smallMol, smallInfo, small, 5)
		assert.Error(t, err)
	})

	t.Run("non-positive count fails", func(t *testing.T) {
		_, err := aligner.Embed(mol, info, model, 0)
		assert.Error(t, err)
	})
}

// TestAlignerScore tests SSD scoring of embeddings.
func TestAlignerScore(t *testing.T) {
	aligner := NewGeometricAligner()
	model := testModel()

	t.Run("perfect placement scores zero", func(t *testing.T) {
		mol, err := MoleculeFromSMILES("m1", "OCCN")
		require.NoError(t, err)
		positions := make([][3]float64, len(model.Features))
		for i, f := range model.Features {
			positions[i] = f.Center
		}
		ssd := aligner.Score(Embedding{Molecule: mol, Model: model, Positions: positions})
		assert.Equal(t, 0.0, ssd)
	})

	t.Run("deviation increases SSD", func(t *testing.T) {
		mol, err := MoleculeFromSMILES("m1", "OCCN")
		require.NoError(t, err)
		ok, info := aligner.Match(mol, model)
		require.True(t, ok)
		embeddings, err := aligner.Embed(mol, info, model, 5)
		require.NoError(t, err)
		for _, e := range embeddings {
			assert.Greater(t, aligner.Score(e), 0.0)
		}
	})
}

// TestPharmacophoreValidate tests model validation.
func TestPharmacophoreValidate(t *testing.T) {
	assert.NoError(t, testModel().Validate())
	assert.Error(t, (&Pharmacophore{}).Validate())
	assert.Error(t, (&Pharmacophore{Features: []Feature{
		{Kind: schema.HBDonor, Radius: 0},
	}}).Validate())
}
