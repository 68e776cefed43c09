package cli

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"yashubustudio/symptomcheck/internal/logging"
	"yashubustudio/symptomcheck/symptoms"
)

type batchOptions struct {
	input       string
	output      string
	outputDir   string
	textColumn  string
	indexColumn string
	toStdout    bool
}

// batchRow pairs an input record with its prediction or the input error
// that prevented one.
type batchRow struct {
	record symptoms.InputRecord
	result symptoms.PredictionResult
	err    error
}

func newBatchCmd(a *app) *cobra.Command {
	var opts batchOptions
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Predict every record of a CSV, TSV or text file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(opts.input) == "" {
				return errors.New("--input is required")
			}
			records, err := symptoms.ParseInputRecords(opts.input, symptoms.InputParseOptions{
				IndexColumn: opts.indexColumn,
				TextColumn:  opts.textColumn,
			})
			if err != nil {
				return fmt.Errorf("parse input: %w", err)
			}
			if len(records) == 0 {
				return errors.New("no records found in input")
			}
			p, err := a.openPredictor(cmd.Context())
			if err != nil {
				return err
			}
			defer p.Close()

			rows := make([]batchRow, 0, len(records))
			for _, rec := range records {
				res, err := p.PredictText(cmd.Context(), rec.Text)
				if err != nil && !symptoms.IsInputError(err) {
					return fmt.Errorf("record %s: %w", rec.Index, err)
				}
				if err != nil {
					a.logger.Warn("record skipped", logging.String("index", rec.Index), logging.Err(err))
				}
				rows = append(rows, batchRow{record: rec, result: res, err: err})
			}

			if opts.toStdout {
				return writeResultCSV(cmd.OutOrStdout(), rows)
			}
			path, err := resolveOutputPath(opts.output, opts.outputDir)
			if err != nil {
				return err
			}
			if err := writeResultFile(path, rows); err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), rows)
			fmt.Fprintf(cmd.OutOrStdout(), "\nresults written to %s\n", path)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.input, "input", "i", "", "CSV, TSV or text file with one record per row")
	f.StringVarP(&opts.output, "output", "o", "", "result CSV path (default: <output-dir>/result_<timestamp>.csv)")
	f.StringVar(&opts.outputDir, "output-dir", "results", "directory for generated result files")
	f.StringVar(&opts.textColumn, "text-column", "", "text column name or #N (1-based)")
	f.StringVar(&opts.indexColumn, "index-column", "", "index column name or #N (1-based)")
	f.BoolVar(&opts.toStdout, "stdout", false, "write the result CSV to stdout instead of a file")
	return cmd
}

// writeResultFile writes rows to path; a failed close is reported.
func writeResultFile(path string, rows []batchRow) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create result file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close result file: %w", cerr)
		}
	}()
	return writeResultCSV(f, rows)
}

func resolveOutputPath(path, dir string) (string, error) {
	if path != "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("resolve output path: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
			return "", fmt.Errorf("create output directory: %w", err)
		}
		return absPath, nil
	}
	if dir == "" {
		dir = "results"
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve output dir: %w", err)
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	return filepath.Join(absDir, fmt.Sprintf("result_%s.csv", time.Now().Format("20060102150405"))), nil
}

var resultHeader = []string{"index", "text", "recognized_symptoms", "primary_disease", "confidence", "alternatives", "error"}

func writeResultCSV(w io.Writer, rows []batchRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(resultHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		line := []string{row.record.Index, row.record.Text, "", "", "", "", ""}
		if row.err != nil {
			line[6] = row.err.Error()
		} else {
			line[2] = strings.Join(row.result.RecognizedSymptoms, ";")
			line[3] = row.result.PrimaryDisease
			line[4] = fmt.Sprintf("%.4f", row.result.Confidence)
			line[5] = strings.Join(row.result.AlternativeDiseases, ";")
		}
		if err := writer.Write(line); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush result: %w", err)
	}
	return nil
}

func printSummary(w io.Writer, rows []batchRow) {
	fmt.Fprintln(w, "==== predictions ====")
	for i, row := range rows {
		fmt.Fprintf(w, "%d. %s\n", i+1, summarizeRecord(row.record))
		switch {
		case row.err != nil:
			fmt.Fprintf(w, "    error: %v\n", row.err)
		case len(row.result.RecognizedSymptoms) == 0:
			fmt.Fprintf(w, "    %s (%.3f), no recognized symptoms\n", row.result.PrimaryDisease, row.result.Confidence)
		default:
			fmt.Fprintf(w, "    %s (%.3f) from %s\n", row.result.PrimaryDisease, row.result.Confidence,
				strings.Join(row.result.RecognizedSymptoms, ", "))
		}
	}
}

func summarizeRecord(rec symptoms.InputRecord) string {
	text := strings.TrimSpace(rec.Text)
	runes := []rune(text)
	if len(runes) > 60 {
		text = string(runes[:60]) + "…"
	}
	if idx := strings.TrimSpace(rec.Index); idx != "" {
		return "#" + idx + " " + text
	}
	return text
}
