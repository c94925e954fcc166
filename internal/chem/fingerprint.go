package chem

import (
	"fmt"
	"hash/fnv"
	"math/bits"

	"github.com/pharmakit/retroscreen/schema"
)

// DefaultFingerprintBits is the bit length of generated 2D pharmacophore
// fingerprints.
const DefaultFingerprintBits = 2048

// Fingerprint is a fixed-length bit vector encoding of a 2D pharmacophore
// pattern. Bit i is stored in byte i/8 at position i%8.
type Fingerprint struct {
	bits   []byte
	length int
}

// NewFingerprint returns an all-zero fingerprint with the given bit length.
func NewFingerprint(nBits int) *Fingerprint {
	if nBits <= 0 {
		nBits = DefaultFingerprintBits
	}
	return &Fingerprint{
		bits:   make([]byte, (nBits+7)/8),
		length: nBits,
	}
}

// Length returns the number of bits in the fingerprint.
func (fp *Fingerprint) Length() int {
	return fp.length
}

// GetBit returns true if the bit at the given index is set.
func (fp *Fingerprint) GetBit(index int) bool {
	if index < 0 || index >= fp.length {
		return false
	}
	return fp.bits[index/8]&(1<<uint(index%8)) != 0
}

// SetBit sets the bit at the given index.
func (fp *Fingerprint) SetBit(index int) {
	if index < 0 || index >= fp.length {
		return
	}
	fp.bits[index/8] |= 1 << uint(index%8)
}

// OnBits returns the popcount of the fingerprint.
func (fp *Fingerprint) OnBits() int {
	count := 0
	for _, b := range fp.bits {
		count += bits.OnesCount8(b)
	}
	return count
}

// Bytes returns the packed bit vector for storage.
func (fp *Fingerprint) Bytes() []byte {
	return fp.bits
}

// FingerprintFromBytes rebuilds a fingerprint from its packed representation.
func FingerprintFromBytes(data []byte, nBits int) *Fingerprint {
	fp := NewFingerprint(nBits)
	copy(fp.bits, data)
	return fp
}

// Pharm2D generates 2D pharmacophore fingerprints of a fixed bit length and
// compares them. It is the production fingerprinting collaborator of the
// screening session.
type Pharm2D struct {
	NBits int
}

// NewPharm2D returns a fingerprinter with the default bit length.
func NewPharm2D() *Pharm2D {
	return &Pharm2D{NBits: DefaultFingerprintBits}
}

// Fingerprint computes the molecule's 2D pharmacophore fingerprint.
func (p *Pharm2D) Fingerprint(mol *Molecule) *Fingerprint {
	return Pharm2DFingerprint(mol, p.NBits)
}

// Similarity compares two fingerprints with the given similarity kind.
func (p *Pharm2D) Similarity(a, b *Fingerprint, kind schema.SimilarityKind) (float64, error) {
	return Similarity(a, b, kind)
}

// Pharm2DFingerprint computes a 2D pharmacophore fingerprint for a molecule:
// each atom is assigned a pharmacophoric feature kind, and every feature
// pair together with its topological distance (bucketed atom separation
// along the parsed sequence) is hashed into the bit vector. This mirrors the
// feature-pair construction of the Gobbi-Poggio pharmacophore fingerprints.
func Pharm2DFingerprint(mol *Molecule, nBits int) *Fingerprint {
	fp := NewFingerprint(nBits)
	atoms := mol.Atoms()

	type typedAtom struct {
		kind schema.FeatureKind
		pos  int
	}
	var features []typedAtom
	for i, atom := range atoms {
		if kind, ok := featureForAtom(atom); ok {
			features = append(features, typedAtom{kind: kind, pos: i})
		}
	}

	for i := 0; i < len(features); i++ {
		for j := i + 1; j < len(features); j++ {
			a, b := features[i], features[j]
			// Canonical pair ordering keeps the hash symmetric.
			ka, kb := a.kind, b.kind
			if ka > kb {
				ka, kb = kb, ka
			}
			fp.SetBit(pairBit(ka, kb, distanceBucket(b.pos-a.pos), fp.length))
		}
	}
	return fp
}

// featureForAtom maps an element symbol (case-sensitive: lowercase means
// aromatic) to a pharmacophoric feature kind.
func featureForAtom(atom string) (schema.FeatureKind, bool) {
	switch atom {
	case "N":
		return schema.HBDonor, true
	case "n":
		return schema.AromaticRing, true
	case "O", "o":
		return schema.HBAcceptor, true
	case "c":
		return schema.AromaticRing, true
	case "C", "S", "s", "Cl", "Br", "F", "I":
		return schema.Hydrophobic, true
	case "P", "p":
		return schema.NegativeCharge, true
	default:
		return "", false
	}
}

// distanceBucket coarsens a topological distance into one of eight buckets,
// matching the short/medium/long binning of 2D pharmacophore pairs.
func distanceBucket(d int) int {
	if d < 0 {
		d = -d
	}
	if d > 7 {
		return 7
	}
	return d
}

// pairBit hashes a (feature, feature, distance) triple into a bit index.
func pairBit(a, b schema.FeatureKind, bucket, nBits int) int {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%s|%s|%d", a, b, bucket)
	return int(h.Sum64() % uint64(nBits))
}
