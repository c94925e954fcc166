// Package dataset loads labeled molecule sets from CSV files. A dataset row
// carries a SMILES string and a binary activity label, plus an optional
// molecule identifier.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pharmakit/retroscreen/internal/contract"
)

// Default column names for dataset files.
const (
	DefaultSMILESColumn = "smiles"
	DefaultLabelColumn  = "activity"
)

// idColumns lists the header names accepted for the molecule identifier,
// checked in order. Rows without one are named by their position.
var idColumns = []string{"id", "name", "molecule_id"}

// Read parses a labeled dataset from the stream. The first row must be a
// header containing the SMILES and label columns; lookup is case-insensitive.
func Read(r io.Reader, smilesColumn, labelColumn string) ([]contract.MoleculeInput, []int, error) {
	if smilesColumn == "" {
		smilesColumn = DefaultSMILESColumn
	}
	if labelColumn == "" {
		labelColumn = DefaultLabelColumn
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading header: %w", err)
	}

	smilesIdx, err := columnIndex(header, smilesColumn)
	if err != nil {
		return nil, nil, err
	}
	labelIdx, err := columnIndex(header, labelColumn)
	if err != nil {
		return nil, nil, err
	}
	idIdx := -1
	for _, candidate := range idColumns {
		if idx, err := columnIndex(header, candidate); err == nil {
			idIdx = idx
			break
		}
	}

	var (
		inputs []contract.MoleculeInput
		labels []int
		row    int
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", row+2, err)
		}
		row++

		smiles := strings.TrimSpace(record[smilesIdx])
		if smiles == "" {
			return nil, nil, fmt.Errorf("row %d: empty SMILES", row+1)
		}

		label, err := parseLabel(record[labelIdx])
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", row+1, err)
		}

		id := fmt.Sprintf("mol-%d", row)
		if idIdx >= 0 {
			if v := strings.TrimSpace(record[idIdx]); v != "" {
				id = v
			}
		}

		inputs = append(inputs, contract.MoleculeInput{ID: id, SMILES: smiles})
		labels = append(labels, label)
	}

	if len(inputs) == 0 {
		return nil, nil, fmt.Errorf("dataset contains no rows")
	}
	return inputs, labels, nil
}

// Load reads a labeled dataset from the named CSV file.
func Load(path, smilesColumn, labelColumn string) ([]contract.MoleculeInput, []int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = f.Close() }()

	inputs, labels, err := Read(f, smilesColumn, labelColumn)
	if err != nil {
		return nil, nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return inputs, labels, nil
}

// columnIndex finds a header column by case-insensitive name.
func columnIndex(header []string, name string) (int, error) {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("dataset is missing column %q", name)
}

// parseLabel converts a label cell into a binary activity label.
func parseLabel(cell string) (int, error) {
	label, err := strconv.Atoi(strings.TrimSpace(cell))
	if err != nil {
		return 0, fmt.Errorf("label %q is not an integer: %w", cell, err)
	}
	if label != 0 && label != 1 {
		return 0, fmt.Errorf("label %d is not binary, expected 0 or 1", label)
	}
	return label, nil
}
