package algo

import (
	"testing"

	"github.com/pharmakit/retroscreen/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEnrichmentData tests the prefix series over the ranked database.
func TestEnrichmentData(t *testing.T) {
	t.Run("one point per prefix including origin", func(t *testing.T) {
		points, err := EnrichmentData([]float64{0.9, 0.8, 0.8, 0.1}, []int{1, 0, 1, 0})
		require.NoError(t, err)
		expected := []schema.CurvePoint{
			{X: 0, Y: 0},
			{X: 0.25, Y: 0.5},
			{X: 0.5, Y: 0.5},
			{X: 0.75, Y: 1},
			{X: 1, Y: 1},
		}
		assert.Equal(t, expected, points)
	})

	t.Run("ties are not collapsed", func(t *testing.T) {
		// Four tied scores still produce five points; the ROC curve would
		// collapse these into a single segment.
		points, err := EnrichmentData([]float64{0.5, 0.5, 0.5, 0.5}, []int{1, 0, 1, 0})
		require.NoError(t, err)
		assert.Len(t, points, 5)
	})

	t.Run("monotonically non-decreasing", func(t *testing.T) {
		points, err := EnrichmentData(
			[]float64{0.2, 0.9, 0.4, 0.6, 0.1},
			[]int{0, 1, 1, 0, 1})
		require.NoError(t, err)
		for i := 1; i < len(points); i++ {
			assert.GreaterOrEqual(t, points[i].X, points[i-1].X)
			assert.GreaterOrEqual(t, points[i].Y, points[i-1].Y)
		}
	})

	t.Run("no actives", func(t *testing.T) {
		_, err := EnrichmentData([]float64{0.9, 0.1}, []int{0, 0})
		assert.ErrorIs(t, err, schema.ErrDegenerateLabels)
	})
}

// TestEnrichmentFactor tests percentile-indexed lookups over the series.
func TestEnrichmentFactor(t *testing.T) {
	scores := []float64{0.9, 0.8, 0.8, 0.1}
	labels := []int{1, 0, 1, 0}

	tests := []struct {
		name       string
		percentage float64
		expected   float64
	}{
		{"full database finds all actives", 100, 100.0},
		{"half database", 50, 50.0},
		{"cutoff below first prefix", 10, 0.0},
		{"zero percent", 0, 0.0},
		{"cutoff between prefixes rounds down", 60, 50.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factor, err := EnrichmentFactor(scores, labels, tt.percentage)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, factor, 1e-12)
		})
	}

	t.Run("out of range", func(t *testing.T) {
		_, err := EnrichmentFactor(scores, labels, -1)
		assert.ErrorIs(t, err, schema.ErrOutOfRange)

		_, err = EnrichmentFactor(scores, labels, 100.5)
		assert.ErrorIs(t, err, schema.ErrOutOfRange)
	})
}

// TestIdealEnrichmentFactor tests the closed-form reference line.
func TestIdealEnrichmentFactor(t *testing.T) {
	// Ten molecules, two actives: the active ratio is 0.2.
	labels := []int{1, 1, 0, 0, 0, 0, 0, 0, 0, 0}

	tests := []struct {
		name       string
		percentage float64
		expected   float64
	}{
		{"below active ratio", 10, 50.0},
		{"at active ratio", 20, 100.0},
		{"above active ratio saturates", 50, 100.0},
		{"zero percent", 0, 0.0},
		{"full database", 100, 100.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factor, err := IdealEnrichmentFactor(labels, tt.percentage)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, factor, 1e-12)
		})
	}

	t.Run("independent of scores by construction", func(t *testing.T) {
		// Same labels, any ordering: the ideal factor only sees the ratio.
		shuffled := []int{0, 0, 1, 0, 0, 1, 0, 0, 0, 0}
		a, err := IdealEnrichmentFactor(labels, 15)
		require.NoError(t, err)
		b, err := IdealEnrichmentFactor(shuffled, 15)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := IdealEnrichmentFactor(labels, 101)
		assert.ErrorIs(t, err, schema.ErrOutOfRange)
	})

	t.Run("no actives", func(t *testing.T) {
		_, err := IdealEnrichmentFactor([]int{0, 0}, 10)
		assert.ErrorIs(t, err, schema.ErrDegenerateLabels)
	})
}
