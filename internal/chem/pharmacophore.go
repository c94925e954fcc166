package chem

import (
	"fmt"

	"github.com/pharmakit/retroscreen/schema"
)

// Feature is one labeled spatial feature of a 3D pharmacophore model: a
// feature kind at a point in space with a tolerance radius in angstroms.
type Feature struct {
	Kind   schema.FeatureKind
	Center [3]float64
	Radius float64
}

// Pharmacophore is an ordered 3D pharmacophore model. Feature order is
// preserved from the source (file or builder) because geometric matching
// reports matched atoms per feature index.
type Pharmacophore struct {
	Features []Feature
}

// Validate checks the model is usable for geometric screening.
func (p *Pharmacophore) Validate() error {
	if len(p.Features) == 0 {
		return fmt.Errorf("pharmacophore has no features")
	}
	for i, f := range p.Features {
		if f.Radius <= 0 {
			return fmt.Errorf("feature %d (%s): tolerance radius must be positive", i, f.Kind)
		}
	}
	return nil
}
