package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/pharmakit/retroscreen/internal/contract"
	"github.com/pharmakit/retroscreen/internal/parquet"
	"github.com/pharmakit/retroscreen/schema"
)

// runTimeFormat is the display format for run timestamps.
const runTimeFormat = "2006-01-02 15:04:05"

// WriteRunRecords outputs stored run rows, dispatching based on the output format configured.
func WriteRunRecords(runs []schema.RunRecord, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, runs)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunsCSV(w, runs, fmtFloat, intFmt)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return errors.New("parquet output requires --output-file")
		}
		return parquet.WriteScreeningRunsParquet(parquet.ConvertRunRecords(runs), cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunsTable(w, runs, cfg, fmtFloat, intFmt)
		}, "Wrote table")
	}
}

// writeRunsTable generates and writes the human-readable run listing.
func writeRunsTable(writer io.Writer, runs []schema.RunRecord, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Run", "Started", "Ended", "Strategy", "Molecules", "AUC", "Label"})

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range runs {
		ended := "running"
		if r.EndTime != nil {
			ended = r.EndTime.Format(runTimeFormat)
		}
		auc := "-"
		label := "-"
		if r.AUC != nil {
			auc = fmtFloat(*r.AUC)
			if cfg.UseColors {
				label = contract.GetColorLabel(*r.AUC)
			} else {
				label = contract.GetPlainLabel(*r.AUC)
			}
		}
		data = append(data, []string{
			strconv.FormatInt(r.RunID, 10),
			r.StartTime.Format(runTimeFormat),
			ended,
			r.Strategy,
			fmt.Sprintf(intFmt, r.NMolecules),
			auc,
			label,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(writer, "Showing %d runs\n", len(runs))
	return err
}

// writeRunsCSV writes the run listing in CSV format.
func writeRunsCSV(w io.Writer, runs []schema.RunRecord, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"run_id",
		"start_time",
		"end_time",
		"strategy",
		"n_molecules",
		"n_actives",
		"n_inactives",
		"threshold",
		"auc",
		"label",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range runs {
			ended := ""
			if r.EndTime != nil {
				ended = r.EndTime.Format(time.RFC3339)
			}
			threshold := ""
			if r.Threshold != nil {
				threshold = fmtFloat(*r.Threshold)
			}
			auc := ""
			label := ""
			if r.AUC != nil {
				auc = fmtFloat(*r.AUC)
				label = contract.GetPlainLabel(*r.AUC)
			}
			rec := []string{
				strconv.FormatInt(r.RunID, 10),
				r.StartTime.Format(time.RFC3339),
				ended,
				r.Strategy,
				fmt.Sprintf(intFmt, r.NMolecules),
				fmt.Sprintf(intFmt, r.NActives),
				fmt.Sprintf(intFmt, r.NInactives),
				threshold,
				auc,
				label,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteScoreRecords outputs stored molecule score rows, dispatching based on the output format configured.
func WriteScoreRecords(scores []schema.MoleculeScoreRecord, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, scores)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScoresCSV(w, scores, fmtFloat, intFmt)
		}, "Wrote CSV")
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return errors.New("parquet output requires --output-file")
		}
		return parquet.WriteMoleculeScoresParquet(parquet.ConvertScoreRecords(scores), cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScoresTable(w, scores, cfg, fmtFloat, intFmt)
		}, "Wrote table")
	}
}

// writeScoresTable generates and writes the human-readable score listing.
func writeScoresTable(writer io.Writer, scores []schema.MoleculeScoreRecord, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Molecule", "SMILES", "Label", "Score"})

	table.Configure(func(tblCfg *tablewriter.Config) {
		tblCfg.Row.Alignment.Global = tw.AlignRight
	})

	maxWidth := getMaxSMILESWidth(cfg)
	var data [][]string
	for _, s := range scores {
		data = append(data, []string{
			s.MoleculeID,
			contract.TruncateSMILES(s.SMILES, maxWidth),
			fmt.Sprintf(intFmt, s.Label),
			fmtFloat(s.Score),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(writer, "Showing %d molecule scores\n", len(scores))
	return err
}

// writeScoresCSV writes the score listing in CSV format.
func writeScoresCSV(w io.Writer, scores []schema.MoleculeScoreRecord, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"run_id",
		"molecule_id",
		"smiles",
		"label",
		"score",
		"scored_at",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, s := range scores {
			rec := []string{
				strconv.FormatInt(s.RunID, 10),
				s.MoleculeID,
				s.SMILES,
				fmt.Sprintf(intFmt, s.Label),
				fmtFloat(s.Score),
				s.ScoredAt.Format(time.RFC3339),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
