package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pharmakit/retroscreen/internal/contract"
	"github.com/pharmakit/retroscreen/schema"
)

// getDisplayNameForStrategy returns the display name with emoji for a given strategy name.
func getDisplayNameForStrategy(name string) string {
	switch name {
	case string(schema.SSDStrategy):
		return "📐 SSD"
	case string(schema.SimilarityStrategy):
		return "🧬 SIMILARITY"
	default:
		return strings.ToUpper(name)
	}
}

// PrintMetricsDefinitions displays the formal definitions of the scoring
// strategies and evaluation metrics. This is a static display that does not
// require a dataset.
func PrintMetricsDefinitions(cfg *contract.Config) error {
	// Build the complete render model with all processed data
	renderModel := BuildMetricsRenderModel()

	switch cfg.Output {
	case schema.JSONOut:
		return printMetricsJSON(renderModel, cfg)
	case schema.CSVOut:
		return printMetricsCSV(renderModel, cfg)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return printMetricsText(w, renderModel)
		}, "Wrote text")
	}
}

// printMetricsText displays strategy and metric definitions in human-readable text format.
func printMetricsText(w io.Writer, renderModel *schema.MetricsRenderModel) error {
	if _, err := fmt.Fprintf(w, "🧪 %s\n", renderModel.Title); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n", strings.Repeat("=", len(renderModel.Title)+3)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\n%s\n\n", renderModel.Description); err != nil {
		return err
	}

	for _, strategy := range renderModel.Strategies {
		displayName := getDisplayNameForStrategy(strategy.Name)
		if _, err := fmt.Fprintf(w, "%s: %s\n", displayName, strategy.Purpose); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "   Score range: %s\n", strategy.ScoreRange); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "   Formula: %s\n", strategy.Formula); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "   Thresholds: %s\n", strategy.Thresholds); err != nil {
			return err
		}
		if strategy.Sentinel != "" {
			if _, err := fmt.Fprintf(w, "   Sentinel: %s\n", strategy.Sentinel); err != nil {
				return err
			}
		}
		if len(strategy.Similarity) > 0 {
			if _, err := fmt.Fprintf(w, "   Similarity: %s\n", strings.Join(strategy.Similarity, ", ")); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "\n"); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "📊 Evaluation Metrics\n"); err != nil {
		return err
	}
	names := make([]string, 0, len(renderModel.Metrics))
	for name := range renderModel.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "%s: %s\n", name, renderModel.Metrics[name]); err != nil {
			return err
		}
	}

	return nil
}

// printMetricsJSON displays metrics in JSON format.
func printMetricsJSON(renderModel *schema.MetricsRenderModel, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, renderModel)
	}, "Wrote JSON")
}

// printMetricsCSV displays metrics in CSV format.
func printMetricsCSV(renderModel *schema.MetricsRenderModel, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		writer := csv.NewWriter(w)
		defer writer.Flush()
		return writeCSVMetrics(writer, renderModel)
	}, "Wrote CSV")
}

// writeCSVMetrics writes the strategy definitions in CSV format.
func writeCSVMetrics(w *csv.Writer, renderModel *schema.MetricsRenderModel) error {
	header := []string{"Strategy", "Purpose", "ScoreRange", "Formula", "Thresholds"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, strategy := range renderModel.Strategies {
		record := []string{
			strategy.Name,
			strategy.Purpose,
			strategy.ScoreRange,
			strategy.Formula,
			strategy.Thresholds,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	return nil
}

// BuildMetricsRenderModel constructs the complete render model with all processed data.
func BuildMetricsRenderModel() *schema.MetricsRenderModel {
	strategies := []schema.MetricsStrategy{
		{
			Name:       string(schema.SSDStrategy),
			Purpose:    "Geometric fit - conformer alignment against a 3D feature model",
			ScoreRange: "[0, +inf), higher is a tighter fit",
			Sentinel:   "Unmatched molecules keep score 0.0 and stay in the run",
			Formula:    "Score = 1 / min(SSD over candidate embeddings)",
			Thresholds: "Pinned at 0.0 (any positive fit classifies as active)",
		},
		{
			Name:       string(schema.SimilarityStrategy),
			Purpose:    "2D pharmacophore fingerprint similarity against a reference molecule",
			ScoreRange: "[0, 1]",
			Formula:    "Tanimoto = c/(a+b-c), Dice = 2c/(a+b) over fingerprint bits",
			Thresholds: "Explicit value in [0, 1], required",
			Similarity: []string{string(schema.TanimotoSimilarity), string(schema.DiceSimilarity)},
		},
	}

	return &schema.MetricsRenderModel{
		Title:       "Retroscreen Scoring Strategies",
		Description: "Molecules scoring strictly above the threshold classify as active",
		Strategies:  strategies,
		Metrics: map[string]string{
			"confusion_matrix":  "2x2 outcome matrix [[TP, FP], [FN, TN]] at the classification threshold",
			"roc_auc":           "Area under the ROC curve; 0.5 is random ranking, 1.0 is perfect",
			"enrichment_factor": "Active hit rate in the top X% of ranked molecules over the overall rate",
		},
	}
}
