package symptoms

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DatasetRow is one training example: a disease and the raw symptoms listed
// for it.
type DatasetRow struct {
	Disease  string
	Symptoms []string
}

// Dataset is the reference table the vocabulary is built from.
type Dataset struct {
	Rows []DatasetRow
}

// LoadDataset reads a CSV/TSV with a Disease column and any number of
// Symptom_N columns.
func LoadDataset(path string) (*Dataset, error) {
	header, rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	diseaseCol := findColumn(header, []string{"Disease", "prognosis", "label"})
	if diseaseCol < 0 {
		return nil, configErrorf("%s: no Disease column", filepath.Base(path))
	}
	var symptomCols []int
	for i, col := range header {
		if strings.HasPrefix(strings.ToLower(col), "symptom_") {
			symptomCols = append(symptomCols, i)
		}
	}
	if len(symptomCols) == 0 {
		return nil, configErrorf("%s: no Symptom_N columns", filepath.Base(path))
	}
	ds := &Dataset{Rows: make([]DatasetRow, 0, len(rows))}
	for _, row := range rows {
		disease := cellAt(row, diseaseCol)
		if disease == "" {
			continue
		}
		rec := DatasetRow{Disease: disease}
		for _, col := range symptomCols {
			if cell := cellAt(row, col); cell != "" {
				rec.Symptoms = append(rec.Symptoms, cell)
			}
		}
		ds.Rows = append(ds.Rows, rec)
	}
	if len(ds.Rows) == 0 {
		return nil, configErrorf("%s: no data rows", filepath.Base(path))
	}
	return ds, nil
}

// BuildVocabulary canonicalizes every symptom cell and collects the sorted,
// unique symptom and disease sets.
func BuildVocabulary(ds *Dataset) (*Vocabulary, error) {
	var syms, diseases []string
	for _, row := range ds.Rows {
		diseases = append(diseases, row.Disease)
		for _, s := range row.Symptoms {
			syms = append(syms, canonicalToken(s))
		}
	}
	return NewVocabulary(syms, diseases)
}

// TrainingMatrix applies builder to every dataset row and returns the
// feature rows with their disease labels.
func TrainingMatrix(ds *Dataset, builder *FeatureBuilder) ([][]float32, []string) {
	x := make([][]float32, 0, len(ds.Rows))
	y := make([]string, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		tokens := make([]string, len(row.Symptoms))
		for i, s := range row.Symptoms {
			tokens[i] = canonicalToken(s)
		}
		x = append(x, builder.Build(tokens))
		y = append(y, row.Disease)
	}
	return x, y
}

// readTable returns the cleaned header and data rows of a CSV or TSV file.
func readTable(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, configErrorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	reader := csv.NewReader(f)
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		reader.Comma = '\t'
	}
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, configErrorf("read %s: %w", filepath.Base(path), err)
	}
	if len(rows) == 0 {
		return nil, nil, configErrorf("%s is empty", filepath.Base(path))
	}
	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = cleanCell(cell)
	}
	return header, rows[1:], nil
}

func cleanCell(v string) string {
	v = strings.TrimPrefix(v, "\ufeff")
	return strings.TrimSpace(v)
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return cleanCell(row[idx])
}

func findColumn(header []string, candidates []string) int {
	for i, col := range header {
		for _, cand := range candidates {
			if strings.EqualFold(col, cand) {
				return i
			}
		}
	}
	return -1
}

// WriteTrainingMatrix writes x and y as CSV with the symptoms as header.
func WriteTrainingMatrix(path string, symptoms []string, x [][]float32, y []string) (err error) {
	if len(x) != len(y) {
		return fmt.Errorf("matrix/labels length mismatch: %d vs %d", len(x), len(y))
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create matrix file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close matrix file: %w", cerr)
		}
	}()
	return writeTrainingMatrix(f, symptoms, x, y)
}

func writeTrainingMatrix(out io.Writer, symptoms []string, x [][]float32, y []string) error {
	w := csv.NewWriter(out)
	if err := w.Write(append(append([]string{}, symptoms...), "Disease")); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range x {
		rec := make([]string, 0, len(row)+1)
		for _, v := range row {
			rec = append(rec, formatFeature(v))
		}
		rec = append(rec, y[i])
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush matrix: %w", err)
	}
	return nil
}

func formatFeature(v float32) string {
	if v == 0 || v == 1 {
		return fmt.Sprintf("%d", int(v))
	}
	return fmt.Sprintf("%g", v)
}
