package chem

import (
	"fmt"
	"math/bits"

	"github.com/pharmakit/retroscreen/schema"
)

// Tanimoto computes the Tanimoto (Jaccard) similarity between two bit-vector
// fingerprints: |A∩B| / |A∪B|. Two empty fingerprints have similarity 0.
func Tanimoto(a, b *Fingerprint) (float64, error) {
	if a.length != b.length {
		return 0, fmt.Errorf("fingerprints must have the same length: %d != %d", a.length, b.length)
	}
	intersection, union := 0, 0
	for i := range a.bits {
		intersection += bits.OnesCount8(a.bits[i] & b.bits[i])
		union += bits.OnesCount8(a.bits[i] | b.bits[i])
	}
	if union == 0 {
		return 0, nil
	}
	return float64(intersection) / float64(union), nil
}

// Dice computes the Dice similarity between two bit-vector fingerprints:
// 2|A∩B| / (|A| + |B|). Two empty fingerprints have similarity 0.
func Dice(a, b *Fingerprint) (float64, error) {
	if a.length != b.length {
		return 0, fmt.Errorf("fingerprints must have the same length: %d != %d", a.length, b.length)
	}
	intersection := 0
	for i := range a.bits {
		intersection += bits.OnesCount8(a.bits[i] & b.bits[i])
	}
	denominator := a.OnBits() + b.OnBits()
	if denominator == 0 {
		return 0, nil
	}
	return 2 * float64(intersection) / float64(denominator), nil
}

// Similarity dispatches to the configured similarity function.
func Similarity(a, b *Fingerprint, kind schema.SimilarityKind) (float64, error) {
	switch kind {
	case schema.TanimotoSimilarity:
		return Tanimoto(a, b)
	case schema.DiceSimilarity:
		return Dice(a, b)
	default:
		return 0, fmt.Errorf("unsupported similarity kind %q", kind)
	}
}
