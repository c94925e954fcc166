package contract

import (
	"testing"

	"github.com/pharmakit/retroscreen/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRawInput() *ConfigRawInput {
	return &ConfigRawInput{
		Workers:        4,
		Precision:      DefaultPrecision,
		Output:         "text",
		Color:          "yes",
		StoreBackend:   "sqlite",
		Dataset:        "testdata/actives.csv",
		RefSMILES:      "CC(=O)Nc1ccc(O)cc1",
		Similarity:     "tanimoto",
		Threshold:      "0.6",
		EmbedCount:     DefaultEmbedCount,
		PIC50Threshold: DefaultPIC50Threshold,
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{
			name:        "valid minimal config",
			mutate:      func(in *ConfigRawInput) {},
			expectError: false,
		},
		{
			name: "model file selects geometric scoring",
			mutate: func(in *ConfigRawInput) {
				in.RefSMILES = ""
				in.Model = "testdata/model.mol2"
			},
			expectError: false,
		},
		{
			name: "model and ref smiles are mutually exclusive",
			mutate: func(in *ConfigRawInput) {
				in.Model = "testdata/model.mol2"
			},
			expectError: true,
		},
		{
			name: "missing both model and ref smiles",
			mutate: func(in *ConfigRawInput) {
				in.RefSMILES = ""
			},
			expectError: true,
		},
		{
			name: "invalid similarity function",
			mutate: func(in *ConfigRawInput) {
				in.Similarity = "cosine"
			},
			expectError: true,
		},
		{
			name: "invalid output format",
			mutate: func(in *ConfigRawInput) {
				in.Output = "yaml"
			},
			expectError: true,
		},
		{
			name: "zero workers",
			mutate: func(in *ConfigRawInput) {
				in.Workers = 0
			},
			expectError: true,
		},
		{
			name: "precision out of range",
			mutate: func(in *ConfigRawInput) {
				in.Precision = 9
			},
			expectError: true,
		},
		{
			name: "threshold above one",
			mutate: func(in *ConfigRawInput) {
				in.Threshold = "1.5"
			},
			expectError: true,
		},
		{
			name: "threshold not a number",
			mutate: func(in *ConfigRawInput) {
				in.Threshold = "high"
			},
			expectError: true,
		},
		{
			name: "valid threshold",
			mutate: func(in *ConfigRawInput) {
				in.Threshold = "0.7"
			},
			expectError: false,
		},
		{
			name: "similarity without threshold",
			mutate: func(in *ConfigRawInput) {
				in.Threshold = ""
			},
			expectError: true,
		},
		{
			name: "geometric without threshold",
			mutate: func(in *ConfigRawInput) {
				in.RefSMILES = ""
				in.Model = "testdata/model.mol2"
				in.Threshold = ""
			},
			expectError: false,
		},
		{
			name: "zero embed count",
			mutate: func(in *ConfigRawInput) {
				in.EmbedCount = 0
			},
			expectError: true,
		},
		{
			name: "ef percentage above 100",
			mutate: func(in *ConfigRawInput) {
				in.EFPercentages = "5,150"
			},
			expectError: true,
		},
		{
			name: "invalid color flag",
			mutate: func(in *ConfigRawInput) {
				in.Color = "maybe"
			},
			expectError: true,
		},
		{
			name: "invalid store backend",
			mutate: func(in *ConfigRawInput) {
				in.StoreBackend = "redis"
			},
			expectError: true,
		},
		{
			name: "mysql backend without connection string",
			mutate: func(in *ConfigRawInput) {
				in.StoreBackend = "mysql"
			},
			expectError: true,
		},
		{
			name: "mysql backend with valid connection string",
			mutate: func(in *ConfigRawInput) {
				in.StoreBackend = "mysql"
				in.StoreDBConnect = "user:pass@tcp(localhost:3306)/retroscreen"
			},
			expectError: false,
		},
		{
			name: "postgresql backend with malformed connection string",
			mutate: func(in *ConfigRawInput) {
				in.StoreBackend = "postgresql"
				in.StoreDBConnect = "localhost:5432"
			},
			expectError: true,
		},
		{
			name: "target and assay are mutually exclusive",
			mutate: func(in *ConfigRawInput) {
				in.Target = "CHEMBL2095173"
				in.Assay = "504466"
			},
			expectError: true,
		},
		{
			name: "non-numeric assay id",
			mutate: func(in *ConfigRawInput) {
				in.Assay = "AID-504466"
			},
			expectError: true,
		},
		{
			name: "non-positive pic50 threshold",
			mutate: func(in *ConfigRawInput) {
				in.PIC50Threshold = 0
			},
			expectError: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := validRawInput()
			tc.mutate(input)

			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tc.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidateStrategyResolution(t *testing.T) {
	t.Run("ref smiles resolves to similarity strategy", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, validRawInput()))
		assert.Equal(t, schema.SimilarityStrategy, cfg.Strategy)
		assert.Equal(t, schema.TanimotoSimilarity, cfg.Similarity)
		assert.True(t, cfg.HasThreshold)
		assert.InDelta(t, 0.6, cfg.Threshold, 1e-9)
	})

	t.Run("model resolves to geometric strategy", func(t *testing.T) {
		input := validRawInput()
		input.RefSMILES = ""
		input.Model = "testdata/model.mol2"

		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, schema.SSDStrategy, cfg.Strategy)
		assert.Equal(t, "testdata/model.mol2", cfg.ModelFile)
	})

	t.Run("default ef percentages applied and sorted", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, validRawInput()))
		assert.Equal(t, DefaultEFPercentages, cfg.EFPercentages)
	})

	t.Run("custom ef percentages parsed and sorted", func(t *testing.T) {
		input := validRawInput()
		input.EFPercentages = "25, 1, 10"

		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.Equal(t, []float64{1, 10, 25}, cfg.EFPercentages)
	})

	t.Run("threshold parsed into config", func(t *testing.T) {
		input := validRawInput()
		input.Threshold = "0.6"

		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(cfg, input))
		assert.True(t, cfg.HasThreshold)
		assert.InDelta(t, 0.6, cfg.Threshold, 1e-9)
	})
}
