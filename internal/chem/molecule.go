// Package chem has the chemistry primitives for retroscreen: molecule
// handles parsed from SMILES, 2D pharmacophore fingerprints with their
// similarity functions, 3D pharmacophore models and the geometric aligner.
package chem

import (
	"fmt"
	"strings"
)

// twoLetterElements lists the organic-subset elements written with two
// characters in SMILES. Checked before single-letter symbols during parsing.
var twoLetterElements = []string{"Cl", "Br", "Si", "Se"}

// Molecule is a lightweight handle for a screened compound. The atom list is
// the element sequence extracted from the SMILES string; it drives feature
// perception for both fingerprinting and geometric matching.
type Molecule struct {
	ID     string
	SMILES string

	atoms []string
}

// MoleculeFromSMILES parses a SMILES string into a molecule handle.
// A SMILES with no recognizable atoms is a hard error: the screening session
// treats malformed input as fatal, not per-molecule recoverable.
func MoleculeFromSMILES(id, smiles string) (*Molecule, error) {
	if strings.TrimSpace(smiles) == "" {
		return nil, fmt.Errorf("molecule %q: empty SMILES", id)
	}
	atoms := parseAtoms(smiles)
	if len(atoms) == 0 {
		return nil, fmt.Errorf("molecule %q: no atoms found in SMILES %q", id, smiles)
	}
	return &Molecule{ID: id, SMILES: smiles, atoms: atoms}, nil
}

// Atoms returns the element sequence of the molecule.
func (m *Molecule) Atoms() []string {
	return m.atoms
}

// HeavyAtomCount returns the number of non-hydrogen atoms.
func (m *Molecule) HeavyAtomCount() int {
	count := 0
	for _, a := range m.atoms {
		if a != "H" && a != "h" {
			count++
		}
	}
	return count
}

// parseAtoms extracts the element sequence from a SMILES string. Ring-bond
// digits, bond symbols, branch parentheses and bracket decoration are
// skipped; aromatic (lowercase) atoms keep their case so that feature
// perception can tell aromatic carbons from aliphatic ones.
func parseAtoms(smiles string) []string {
	var atoms []string
	i := 0
	for i < len(smiles) {
		rest := smiles[i:]

		matched := false
		for _, el := range twoLetterElements {
			if strings.HasPrefix(rest, el) {
				atoms = append(atoms, el)
				i += len(el)
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		ch := smiles[i]
		switch {
		case ch >= 'A' && ch <= 'Z', ch >= 'a' && ch <= 'z':
			atoms = append(atoms, string(ch))
		default:
			// Bond order, ring closure, branch or charge syntax.
		}
		i++
	}
	return atoms
}
