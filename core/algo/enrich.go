package algo

import (
	"github.com/pharmakit/retroscreen/schema"
)

// EnrichmentData computes the enrichment curve: for each prefix of length k
// (k = 0..n) of the ranked list, the fraction of the database screened (k/n)
// against the fraction of actives found in that prefix. The result has n+1
// points, starting at (0, 0) and ending at (1, 1). Unlike the ROC curve,
// tied scores are NOT collapsed: enrichment measures screening order, not
// rank thresholds.
func EnrichmentData(scores []float64, labels []int) ([]schema.CurvePoint, error) {
	nActives, _ := CountLabels(labels)
	if nActives == 0 {
		return nil, schema.ErrDegenerateLabels
	}

	_, sortedLabels := rankDescending(scores, labels)
	n := len(sortedLabels)

	points := make([]schema.CurvePoint, 0, n+1)
	points = append(points, schema.CurvePoint{X: 0, Y: 0})

	activesFound := 0
	for k, label := range sortedLabels {
		if label == 1 {
			activesFound++
		}
		points = append(points, schema.CurvePoint{
			X: float64(k+1) / float64(n),
			Y: float64(activesFound) / float64(nActives),
		})
	}
	return points, nil
}

// EnrichmentFactor returns the percentage of actives found in the top
// percentage% of the ranked database. From the enrichment series it selects
// the entry with the largest screened fraction not exceeding percentage/100
// (the last qualifying entry, since the series is monotonic) and scales its
// actives fraction to percent.
func EnrichmentFactor(scores []float64, labels []int, percentage float64) (float64, error) {
	if percentage < 0 || percentage > 100 {
		return 0, schema.ErrOutOfRange
	}

	points, err := EnrichmentData(scores, labels)
	if err != nil {
		return 0, err
	}

	cutoff := percentage / 100
	best := points[0]
	for _, p := range points {
		if p.X <= cutoff {
			best = p
		}
	}
	return best.Y * 100, nil
}

// IdealEnrichmentFactor is the enrichment factor of a perfect ranking, a
// closed-form function of the percentage screened and the active ratio
// alone. It is the theoretical reference line for enrichment plots and does
// not depend on scores.
func IdealEnrichmentFactor(labels []int, percentage float64) (float64, error) {
	if percentage < 0 || percentage > 100 {
		return 0, schema.ErrOutOfRange
	}

	nActives, nInactives := CountLabels(labels)
	if nActives == 0 {
		return 0, schema.ErrDegenerateLabels
	}

	fraction := percentage / 100
	ratioActives := float64(nActives) / float64(nActives+nInactives)
	if fraction <= ratioActives {
		return (100 / ratioActives) * fraction, nil
	}
	return 100.0, nil
}
