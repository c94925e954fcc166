package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	input := strings.Join([]string{
		"id,smiles,activity",
		"aspirin,CC(=O)Oc1ccccc1C(=O)O,0",
		"paracetamol,CC(=O)Nc1ccc(O)cc1,1",
	}, "\n")

	inputs, labels, err := Read(strings.NewReader(input), "", "")
	require.NoError(t, err)
	require.Len(t, inputs, 2)
	assert.Equal(t, "aspirin", inputs[0].ID)
	assert.Equal(t, "CC(=O)Nc1ccc(O)cc1", inputs[1].SMILES)
	assert.Equal(t, []int{0, 1}, labels)
}

func TestReadWithoutIDColumn(t *testing.T) {
	input := "smiles,activity\nCCO,1\nCCC,0\n"

	inputs, _, err := Read(strings.NewReader(input), "", "")
	require.NoError(t, err)
	assert.Equal(t, "mol-1", inputs[0].ID)
	assert.Equal(t, "mol-2", inputs[1].ID)
}

func TestReadCustomColumns(t *testing.T) {
	input := "Canonical_Smiles,Active\nCCO,1\n"

	inputs, labels, err := Read(strings.NewReader(input), "canonical_smiles", "active")
	require.NoError(t, err)
	require.Len(t, inputs, 1)
	assert.Equal(t, []int{1}, labels)
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing smiles column", "name,activity\nfoo,1\n"},
		{"missing label column", "smiles,potency\nCCO,7.5\n"},
		{"non-integer label", "smiles,activity\nCCO,active\n"},
		{"non-binary label", "smiles,activity\nCCO,2\n"},
		{"empty smiles", "smiles,activity\n,1\n"},
		{"no rows", "smiles,activity\n"},
		{"empty stream", ""},
		{"ragged row", "smiles,activity\nCCO\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Read(strings.NewReader(tc.input), "", "")
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dataset.csv")
	content := "smiles,activity\nCCO,1\nc1ccccc1,0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	inputs, labels, err := Load(path, "", "")
	require.NoError(t, err)
	assert.Len(t, inputs, 2)
	assert.Equal(t, []int{1, 0}, labels)

	t.Run("missing file", func(t *testing.T) {
		_, _, err := Load(filepath.Join(dir, "nope.csv"), "", "")
		assert.Error(t, err)
	})
}
