// Package algo has the pure metric math for retrospective screening.
// All functions operate on a parallel pair of slices: scores[i] is the
// screening score of molecule i and labels[i] its ground-truth activity
// (1 = active, 0 = inactive). Inputs are never mutated.
package algo

import (
	"sort"

	"github.com/pharmakit/retroscreen/schema"
)

// CountLabels returns the number of active and inactive labels.
func CountLabels(labels []int) (actives, inactives int) {
	for _, l := range labels {
		if l == 1 {
			actives++
		} else {
			inactives++
		}
	}
	return actives, inactives
}

// rankDescending returns scores and labels reordered by score in descending
// order. The sort is stable so that molecules with tied scores keep their
// input order, which makes every downstream metric deterministic.
func rankDescending(scores []float64, labels []int) ([]float64, []int) {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return scores[idx[i]] > scores[idx[j]]
	})

	sortedScores := make([]float64, len(scores))
	sortedLabels := make([]int, len(labels))
	for i, j := range idx {
		sortedScores[i] = scores[j]
		sortedLabels[i] = labels[j]
	}
	return sortedScores, sortedLabels
}

// ConfusionMatrix classifies each molecule as predicted-active iff its score
// is strictly greater than the threshold, and tallies the outcomes against
// the ground-truth labels. The sum of all four cells equals len(scores).
func ConfusionMatrix(scores []float64, labels []int, threshold float64) schema.ConfusionMatrix {
	var m schema.ConfusionMatrix
	for i, score := range scores {
		switch {
		case labels[i] == 1 && score > threshold:
			m.TruePositives++
		case labels[i] == 1:
			m.FalseNegatives++
		case score > threshold:
			m.FalsePositives++
		default:
			m.TrueNegatives++
		}
	}
	return m
}

// ROCCurve computes the receiver-operating-characteristic curve as a series
// of (false positive rate, true positive rate) points. The ranked list is
// swept once and a point is emitted each time the score changes from the
// previous distinct value, which collapses tied-score regions into single
// vertices. The terminal point (1, 1) is always appended.
//
// Reference: Fawcett, T. An Introduction to ROC Analysis.
// Pattern Recognition Letters 2006, 27, 861-874.
func ROCCurve(scores []float64, labels []int) ([]schema.CurvePoint, error) {
	nPositives, nNegatives := CountLabels(labels)
	if nPositives == 0 || nNegatives == 0 {
		return nil, schema.ErrDegenerateLabels
	}

	sortedScores, sortedLabels := rankDescending(scores, labels)

	var truePositives, falsePositives int
	var points []schema.CurvePoint
	scorePrev := 0.0
	first := true

	for i, label := range sortedLabels {
		if first || sortedScores[i] != scorePrev {
			points = append(points, schema.CurvePoint{
				X: float64(falsePositives) / float64(nNegatives),
				Y: float64(truePositives) / float64(nPositives),
			})
			scorePrev = sortedScores[i]
			first = false
		}
		if label == 1 {
			truePositives++
		} else {
			falsePositives++
		}
	}

	// Terminal point: all molecules classified as active.
	points = append(points, schema.CurvePoint{
		X: float64(falsePositives) / float64(nNegatives),
		Y: float64(truePositives) / float64(nPositives),
	})
	return points, nil
}

// trapezoidArea is the area of a trapezoid with parallel sides y1, y2 and
// base |x1 - x2|.
func trapezoidArea(x1, x2, y1, y2 float64) float64 {
	base := x1 - x2
	if base < 0 {
		base = -base
	}
	height := (y1 + y2) / 2
	if height < 0 {
		height = -height
	}
	return base * height
}

// AUC numerically integrates the ROC step function with trapezoidal
// quadrature over the unnormalized count space, accumulating area only when
// the score changes. A final segment up to (nNegatives, nPositives) closes
// the curve, and the total is scaled onto the unit square. Because vertices
// are only emitted on score changes, tied ranks are integrated as single
// trapezoids, which is the textbook-correct treatment; summing per-sample
// trapezoids would overstate the area whenever ties mix labels.
func AUC(scores []float64, labels []int) (float64, error) {
	nPositives, nNegatives := CountLabels(labels)
	if nPositives == 0 || nNegatives == 0 {
		return 0, schema.ErrDegenerateLabels
	}

	sortedScores, sortedLabels := rankDescending(scores, labels)

	var truePositives, falsePositives int
	var truePosPrev, falsePosPrev int
	var area float64
	scorePrev := 0.0
	first := true

	for i, label := range sortedLabels {
		if first || sortedScores[i] != scorePrev {
			area += trapezoidArea(
				float64(falsePositives), float64(falsePosPrev),
				float64(truePositives), float64(truePosPrev))
			scorePrev = sortedScores[i]
			falsePosPrev = falsePositives
			truePosPrev = truePositives
			first = false
		}
		if label == 1 {
			truePositives++
		} else {
			falsePositives++
		}
	}

	area += trapezoidArea(
		float64(nNegatives), float64(falsePosPrev),
		float64(nPositives), float64(truePosPrev))

	// Scale the area from nNegatives x nPositives onto the unit square.
	area /= float64(nNegatives) * float64(nPositives)
	return area, nil
}
