package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/pharmakit/retroscreen/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleScreeningRuns() []ScreeningRun {
	now := time.Now()
	startTime1 := now.Add(-2 * time.Hour)
	endTime1 := now.Add(-1 * time.Hour)
	threshold1 := 0.6
	auc1 := 0.87
	configParams1 := `{"strategy":"Similarity","similarity":"tanimoto","workers":4}`

	startTime2 := now.Add(-10 * time.Minute)
	// Note: endTime2, threshold2, auc2, configParams2 are nil to demonstrate nullable fields

	return []ScreeningRun{
		{
			RunID:        1,
			StartTime:    startTime1,
			EndTime:      &endTime1,
			Strategy:     string(schema.SimilarityStrategy),
			NMolecules:   150,
			NActives:     40,
			NInactives:   110,
			Threshold:    &threshold1,
			AUC:          &auc1,
			ConfigParams: &configParams1,
		},
		{
			RunID:      2,
			StartTime:  startTime2,
			Strategy:   string(schema.SSDStrategy),
			NMolecules: 0,
		},
	}
}

func sampleMoleculeScores() []MoleculeScore {
	now := time.Now()
	return []MoleculeScore{
		{RunID: 1, MoleculeID: "mol-1", SMILES: "CC(=O)Nc1ccc(O)cc1", Label: 1, Score: 0.92, ScoredAt: now},
		{RunID: 1, MoleculeID: "mol-2", SMILES: "CCO", Label: 0, Score: 0.11, ScoredAt: now},
	}
}

func TestScreeningRunStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	pqSchema := parquet.SchemaOf(new(ScreeningRun))
	require.NotNil(t, pqSchema)

	expectedColumns := []string{
		"run_id",
		"start_time",
		"end_time",
		"strategy",
		"n_molecules",
		"n_actives",
		"n_inactives",
		"threshold",
		"auc",
		"config_params",
	}

	for _, colName := range expectedColumns {
		col, ok := pqSchema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestMoleculeScoreStructTags(t *testing.T) {
	pqSchema := parquet.SchemaOf(new(MoleculeScore))
	require.NotNil(t, pqSchema)

	expectedColumns := []string{
		"run_id",
		"molecule_id",
		"smiles",
		"label",
		"score",
		"scored_at",
	}

	for _, colName := range expectedColumns {
		col, ok := pqSchema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestWriteScreeningRunsParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "screening_runs.parquet")

	data := sampleScreeningRuns()
	require.NotEmpty(t, data)

	err := WriteScreeningRunsParquet(data, outputPath)
	require.NoError(t, err, "Writing Parquet file should not produce error")

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")

	// Read back and verify data
	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[ScreeningRun](file)
	defer reader.Close()

	readData := make([]ScreeningRun, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	assert.Equal(t, len(data), n, "Should read all records")

	for i := 0; i < len(data); i++ {
		assert.Equal(t, data[i].RunID, readData[i].RunID, "RunID should match")
		assert.Equal(t, data[i].Strategy, readData[i].Strategy, "Strategy should match")
		assert.Equal(t, data[i].NMolecules, readData[i].NMolecules, "NMolecules should match")

		// Check nullable fields
		if data[i].EndTime == nil {
			assert.Nil(t, readData[i].EndTime, "EndTime should be nil")
		} else {
			require.NotNil(t, readData[i].EndTime, "EndTime should not be nil")
			assert.WithinDuration(t, *data[i].EndTime, *readData[i].EndTime, time.Nanosecond, "EndTime should match within nanosecond precision")
		}

		if data[i].AUC == nil {
			assert.Nil(t, readData[i].AUC, "AUC should be nil")
		} else {
			require.NotNil(t, readData[i].AUC, "AUC should not be nil")
			assert.InDelta(t, *data[i].AUC, *readData[i].AUC, 1e-9, "AUC should match")
		}

		if data[i].ConfigParams == nil {
			assert.Nil(t, readData[i].ConfigParams, "ConfigParams should be nil")
		} else {
			require.NotNil(t, readData[i].ConfigParams, "ConfigParams should not be nil")
			assert.Equal(t, *data[i].ConfigParams, *readData[i].ConfigParams, "ConfigParams should match")
		}
	}
}

func TestWriteMoleculeScoresParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "molecule_scores.parquet")

	data := sampleMoleculeScores()
	err := WriteMoleculeScoresParquet(data, outputPath)
	require.NoError(t, err, "Writing Parquet file should not produce error")

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[MoleculeScore](file)
	defer reader.Close()

	readData := make([]MoleculeScore, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	assert.Equal(t, len(data), n, "Should read all records")

	for i := 0; i < len(data); i++ {
		assert.Equal(t, data[i].MoleculeID, readData[i].MoleculeID, "MoleculeID should match")
		assert.Equal(t, data[i].SMILES, readData[i].SMILES, "SMILES should match")
		assert.Equal(t, data[i].Label, readData[i].Label, "Label should match")
		assert.InDelta(t, data[i].Score, readData[i].Score, 1e-9, "Score should match")
	}
}

func TestWriteScreeningRunsParquet_EmptyData(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "empty_runs.parquet")

	err := WriteScreeningRunsParquet([]ScreeningRun{}, outputPath)
	require.NoError(t, err, "Writing empty data should not produce error")

	_, err = os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
}

func TestConvertRunRecords(t *testing.T) {
	now := time.Now()
	end := now.Add(time.Minute)
	auc := 0.75
	configJSON := `{"workers":2}`

	records := []schema.RunRecord{
		{
			RunID:      7,
			StartTime:  now,
			EndTime:    &end,
			Strategy:   string(schema.SSDStrategy),
			NMolecules: 12,
			NActives:   4,
			NInactives: 8,
			AUC:        &auc,
			ConfigJSON: &configJSON,
		},
	}

	converted := ConvertRunRecords(records)
	require.Len(t, converted, 1)
	assert.Equal(t, int64(7), converted[0].RunID)
	assert.Equal(t, string(schema.SSDStrategy), converted[0].Strategy)
	assert.Equal(t, int32(12), converted[0].NMolecules)
	require.NotNil(t, converted[0].AUC)
	assert.InDelta(t, 0.75, *converted[0].AUC, 1e-9)
	assert.Equal(t, &configJSON, converted[0].ConfigParams)
}

func TestConvertReportCurves(t *testing.T) {
	report := &schema.ScreeningReport{
		ROC:        []schema.CurvePoint{{X: 0, Y: 0}, {X: 1, Y: 1}},
		Enrichment: []schema.CurvePoint{{X: 0, Y: 0}, {X: 50, Y: 100}, {X: 100, Y: 100}},
	}

	samples := ConvertReportCurves(report)
	require.Len(t, samples, 5)
	assert.Equal(t, "roc", samples[0].Series)
	assert.Equal(t, "enrichment", samples[2].Series)
	assert.Equal(t, 100.0, samples[4].Y)
}
