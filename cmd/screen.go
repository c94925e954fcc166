package cmd

import (
	"github.com/pharmakit/retroscreen/core"
	"github.com/pharmakit/retroscreen/internal/contract"
	"github.com/spf13/cobra"
)

// screenCmd runs a full retrospective screening and prints the metric report.
var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Score a labeled molecule set against a pharmacophore and report metrics",
	Long: `Run a retrospective screening: score every molecule in a labeled set
against a pharmacophore, classify them with a threshold, and report how
well the model separates actives from inactives.

Two scoring strategies are available:
- 3D alignment  (--model):      generate conformers and align pharmacophoric
                                points to the model; score is 1/min(SSD)
- 2D similarity (--ref-smiles): compare 2D pharmacophore fingerprints against
                                a reference molecule (Tanimoto or Dice)

Molecules come from one of three sources:
- --dataset: a local CSV file with SMILES and binary activity labels
- --target:  bioactivity records fetched from ChEMBL, labeled by pIC50
- --assay:   active/inactive molecules fetched from a PubChem bioassay

The report includes the confusion matrix, accuracy, ROC AUC with a quality
label, and enrichment factors at the configured cutoffs.

Examples:
  # Screen a CSV dataset against a mol2 pharmacophore model
  retroscreen screen --dataset actives.csv --model model.mol2

  # Fingerprint screening against a known ligand
  retroscreen screen --dataset actives.csv --ref-smiles 'CC(=O)OC1=CC=CC=C1C(=O)O' --threshold 0.6

  # Pull molecules for a ChEMBL target and keep curve points
  retroscreen screen --target CHEMBL2095173 --model model.mol2 --with-curves

  # Track runs in SQLite for later inspection
  retroscreen screen --dataset actives.csv --model model.mol2 --store-backend sqlite`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteScreen(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Screening failed", err)
		}
	},
}
