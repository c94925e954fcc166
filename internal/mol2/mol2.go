// Package mol2 reads and writes 3D pharmacophore models in the pharmagist
// mol2 interchange format. A pharmacophore is stored as a TRIPOS molecule
// whose atom records carry feature codes instead of element symbols.
package mol2

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pharmakit/retroscreen/internal/chem"
	"github.com/pharmakit/retroscreen/schema"
)

// Section markers of the TRIPOS record stream.
const (
	moleculeMarker = "@<TRIPOS>MOLECULE"
	atomMarker     = "@<TRIPOS>ATOM"
	bondMarker     = "@<TRIPOS>BOND"
)

// DefaultRadius is the tolerance radius assigned to features read from a
// pharmagist file, which stores centers but no radii.
const DefaultRadius = 1.0

// featureByCode maps a pharmagist feature code to a feature kind.
var featureByCode = map[string]schema.FeatureKind{
	"AR":  schema.AromaticRing,
	"HYD": schema.Hydrophobic,
	"ACC": schema.HBAcceptor,
	"DON": schema.HBDonor,
	"CAT": schema.PositiveCharge,
	"ANI": schema.NegativeCharge,
}

// codeByFeature is the inverse of featureByCode, used when writing.
var codeByFeature = map[schema.FeatureKind]string{
	schema.AromaticRing:   "AR",
	schema.Hydrophobic:    "HYD",
	schema.HBAcceptor:     "ACC",
	schema.HBDonor:        "DON",
	schema.PositiveCharge: "CAT",
	schema.NegativeCharge: "ANI",
}

// specByFeature holds the atom-type column written for each feature kind.
// Donors and acceptors share "HB", charges share "CHG".
var specByFeature = map[schema.FeatureKind]string{
	schema.AromaticRing:   "AR",
	schema.Hydrophobic:    "HYD",
	schema.HBAcceptor:     "HB",
	schema.HBDonor:        "HB",
	schema.PositiveCharge: "CHG",
	schema.NegativeCharge: "CHG",
}

// Read parses every pharmacophore in the stream. A file can hold several
// models back to back; models with no features are dropped.
func Read(r io.Reader) ([]*chem.Pharmacophore, error) {
	var (
		pharmacophores []*chem.Pharmacophore
		features       []chem.Feature
		inAtoms        bool
		lineNo         int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		switch {
		case strings.HasPrefix(line, atomMarker):
			inAtoms = true
			features = nil
		case strings.HasPrefix(line, bondMarker):
			inAtoms = false
			if len(features) > 0 {
				pharmacophores = append(pharmacophores, &chem.Pharmacophore{Features: features})
			}
		case inAtoms && line != "":
			feature, err := parseFeatureLine(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			features = append(features, feature)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if inAtoms {
		return nil, fmt.Errorf("unterminated %s section", atomMarker)
	}
	return pharmacophores, nil
}

// ReadFile reads every pharmacophore in the named file.
func ReadFile(path string) ([]*chem.Pharmacophore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	pharmacophores, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return pharmacophores, nil
}

// ReadModelFile reads the first pharmacophore of the named file, which is
// the screening model for single-model files.
func ReadModelFile(path string) (*chem.Pharmacophore, error) {
	pharmacophores, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(pharmacophores) == 0 {
		return nil, fmt.Errorf("%s contains no pharmacophores", path)
	}
	return pharmacophores[0], nil
}

// parseFeatureLine decodes one atom record into a pharmacophoric feature.
// Layout: index, feature code, x, y, z, then atom-type columns.
func parseFeatureLine(line string) (chem.Feature, error) {
	fields := strings.Fields(line)
	if len(fields) < 5 {
		return chem.Feature{}, fmt.Errorf("malformed feature record %q", line)
	}

	kind, ok := featureByCode[fields[1]]
	if !ok {
		return chem.Feature{}, fmt.Errorf("unknown feature code %q", fields[1])
	}

	var center [3]float64
	for i := range 3 {
		v, err := strconv.ParseFloat(fields[2+i], 64)
		if err != nil {
			return chem.Feature{}, fmt.Errorf("bad coordinate %q: %w", fields[2+i], err)
		}
		center[i] = v
	}

	return chem.Feature{Kind: kind, Center: center, Radius: DefaultRadius}, nil
}

// Write encodes the pharmacophores to the stream, one TRIPOS molecule each.
func Write(w io.Writer, pharmacophores []*chem.Pharmacophore) error {
	bw := bufio.NewWriter(w)
	for _, p := range pharmacophores {
		if _, err := fmt.Fprintf(bw, "%s\n%s\n", moleculeMarker, atomMarker); err != nil {
			return err
		}
		for i, f := range p.Features {
			code, ok := codeByFeature[f.Kind]
			if !ok {
				return fmt.Errorf("feature %d: unsupported kind %q", i, f.Kind)
			}
			_, err := fmt.Fprintf(bw, "%7d %-3s%16.4f%10.4f%10.4f %5s%5d%6s%12s\n",
				i+1, code, f.Center[0], f.Center[1], f.Center[2],
				specByFeature[f.Kind], i, specByFeature[f.Kind], "0.0000")
			if err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(bw, "%s\n", bondMarker); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes the pharmacophores to the named file.
func WriteFile(path string, pharmacophores []*chem.Pharmacophore) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, pharmacophores); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
