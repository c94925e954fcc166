package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/pharmakit/retroscreen/internal/contract"
	"github.com/pharmakit/retroscreen/internal/parquet"
	"github.com/pharmakit/retroscreen/schema"
)

// WriteScreeningReport outputs the screening report, dispatching based on the output format configured.
func WriteScreeningReport(report *schema.ScreeningReport, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeReportJSONResults(report, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeReportCSVResults(report, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeReportParquetResults(report, cfg); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable text
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportText(report, cfg, fmtFloat, duration, w)
		}, "Wrote report")
	}
	return nil
}

// writeReportJSONResults handles opening the file and calling the JSON writer.
func writeReportJSONResults(report *schema.ScreeningReport, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONReport(w, report)
	}, "Wrote JSON")
}

// writeReportCSVResults handles opening the file and calling the CSV writer.
func writeReportCSVResults(report *schema.ScreeningReport, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVReport(csvWriter, report, fmtFloat, intFmt)
	}, "Wrote CSV")
}

// writeReportParquetResults exports the report's curve samples to a Parquet file.
// Parquet is a binary columnar format, so an explicit output file is required.
func writeReportParquetResults(report *schema.ScreeningReport, cfg *contract.Config) error {
	if cfg.OutputFile == "" {
		return errors.New("parquet output requires --output-file")
	}
	samples := parquet.ConvertReportCurves(report)
	return parquet.WriteCurveSamplesParquet(samples, cfg.OutputFile)
}

// writeReportText generates and writes the human-readable report.
func writeReportText(report *schema.ScreeningReport, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	// 1. Run summary
	strategyLine := string(report.Strategy)
	if report.Strategy == schema.SimilarityStrategy {
		strategyLine = fmt.Sprintf("%s (%s)", report.Strategy, report.Similarity)
	}
	if _, err := fmt.Fprintf(writer, "🧪 Retrospective Screening Report\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Strategy: %s\n", strategyLine); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Molecules: %d (%d actives, %d inactives)\n",
		report.NMolecules, report.NActives, report.NInactives); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Threshold: %s\n\n", fmtFloat(report.Threshold)); err != nil {
		return err
	}

	// 2. Confusion matrix
	if err := writeConfusionTable(report.Confusion, writer); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Accuracy: %s\n", fmtFloat(report.Confusion.Accuracy())); err != nil {
		return err
	}
	label := contract.GetPlainLabel(report.AUC)
	if cfg.UseColors {
		label = contract.GetColorLabel(report.AUC)
	}
	if _, err := fmt.Fprintf(writer, "AUC: %s (%s)\n\n", fmtFloat(report.AUC), label); err != nil {
		return err
	}

	// 3. Enrichment factors
	if err := writeEnrichmentTable(report.EnrichmentFactors, fmtFloat, writer); err != nil {
		return err
	}

	// 4. Optional curve dumps
	if cfg.WithCurves {
		if err := writeCurveSeries(writer, "ROC curve (x=FPR, y=TPR)", report.ROC, fmtFloat); err != nil {
			return err
		}
		if err := writeCurveSeries(writer, "Enrichment curve (x=% screened, y=% actives found)", report.Enrichment, fmtFloat); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(writer, "Screening completed in %v with %d workers. Store backend: %s\n",
		duration, cfg.Workers, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}

// writeConfusionTable renders the 2x2 classification outcome matrix.
func writeConfusionTable(cm schema.ConfusionMatrix, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"", "Predicted +", "Predicted -"})

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := [][]string{
		{"Actual +", fmt.Sprintf("%d", cm.TruePositives), fmt.Sprintf("%d", cm.FalseNegatives)},
		{"Actual -", fmt.Sprintf("%d", cm.FalsePositives), fmt.Sprintf("%d", cm.TrueNegatives)},
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeEnrichmentTable renders the observed and ideal enrichment factors.
func writeEnrichmentTable(entries []schema.EnrichmentEntry, fmtFloat func(float64) string, writer io.Writer) error {
	if len(entries) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"% Screened", "EF", "Ideal EF"})

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, e := range entries {
		data = append(data, []string{
			fmt.Sprintf("%g%%", e.Percentage),
			fmtFloat(e.Observed),
			fmtFloat(e.Ideal),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeCurveSeries dumps one curve's points as x,y lines.
func writeCurveSeries(w io.Writer, title string, points []schema.CurvePoint, fmtFloat func(float64) string) error {
	if _, err := fmt.Fprintf(w, "%s:\n", title); err != nil {
		return err
	}
	for _, p := range points {
		if _, err := fmt.Fprintf(w, "  %s,%s\n", fmtFloat(p.X), fmtFloat(p.Y)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n")
	return err
}

// writeCSVReport writes the report in CSV format: one row per enrichment
// factor cutoff, with the run summary repeated on every row.
func writeCSVReport(w *csv.Writer, report *schema.ScreeningReport, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"strategy",
		"similarity",
		"n_molecules",
		"n_actives",
		"n_inactives",
		"threshold",
		"accuracy",
		"auc",
		"label",
		"ef_percentage",
		"ef_observed",
		"ef_ideal",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	summary := []string{
		string(report.Strategy),
		string(report.Similarity),
		fmt.Sprintf(intFmt, report.NMolecules),
		fmt.Sprintf(intFmt, report.NActives),
		fmt.Sprintf(intFmt, report.NInactives),
		fmtFloat(report.Threshold),
		fmtFloat(report.Confusion.Accuracy()),
		fmtFloat(report.AUC),
		contract.GetPlainLabel(report.AUC),
	}

	// A report without enrichment cutoffs still gets its summary row
	entries := report.EnrichmentFactors
	if len(entries) == 0 {
		rec := append(append([]string{}, summary...), "", "", "")
		return w.Write(rec)
	}

	for _, e := range entries {
		rec := append(append([]string{}, summary...),
			fmt.Sprintf("%g", e.Percentage),
			fmtFloat(e.Observed),
			fmtFloat(e.Ideal),
		)
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONReport writes the report in JSON format with the quality label added.
func writeJSONReport(w io.Writer, report *schema.ScreeningReport) error {
	// Prepare the data structure for JSON with label added
	type JSONScreeningReport struct {
		Label string `json:"label"`
		*schema.ScreeningReport
	}

	output := JSONScreeningReport{
		Label:           contract.GetPlainLabel(report.AUC),
		ScreeningReport: report,
	}

	// Use the generic JSON writer
	return writeJSON(w, output)
}
