package cmd

import (
	"github.com/pharmakit/retroscreen/core"
	"github.com/pharmakit/retroscreen/internal/contract"
	"github.com/spf13/cobra"
)

// metricsCmd displays the formal definitions of all scoring strategies.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display formulas and definitions for all scoring strategies",
	Long: `Show the formal definitions of the scoring strategies and evaluation metrics.

Provides complete transparency into how molecules are scored, including:
- Scoring strategy purpose and score range
- Mathematical formula for score calculation
- Threshold semantics per strategy
- Evaluation metric definitions (confusion matrix, ROC AUC, enrichment factor)

No screening is performed - this is purely informational.

Use this to:
- Understand what each scoring strategy measures
- Explain the classification rules to your team
- Document screening methodology

Examples:
  # Show scoring definitions
  retroscreen metrics

  # Machine-readable definitions
  retroscreen metrics --output json`,
	PreRunE: baseSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetrics(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot display metrics", err)
		}
	},
}
