package symptoms

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// InputRecord is one row of a batch input: an optional identifier and the
// symptom text to score.
type InputRecord struct {
	Index string `json:"index,omitempty"`
	Text  string `json:"text"`
}

// InputParseOptions selects columns by header name or 1-based "#N" index.
// Empty fields fall back to header auto-detection.
type InputParseOptions struct {
	IndexColumn string
	TextColumn  string
}

// ColumnCandidates lists header names tried during auto-detection.
type ColumnCandidates struct {
	Text  []string
	Index []string
}

// DefaultColumnCandidates returns the built-in header names.
func DefaultColumnCandidates() ColumnCandidates {
	return ColumnCandidates{
		Text:  []string{"symptoms", "text", "complaint", "description", "message"},
		Index: []string{"id", "index", "no", "patient", "case"},
	}
}

// ParseInputRecords reads a CSV, TSV or plain text file (one record per
// non-blank line).
func ParseInputRecords(path string, opts InputParseOptions) ([]InputRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return parseDelimitedRecords(path, ',', opts)
	case ".tsv":
		return parseDelimitedRecords(path, '\t', opts)
	default:
		return parsePlainTextRecords(path)
	}
}

func parsePlainTextRecords(path string) ([]InputRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open text file: %w", err)
	}
	defer f.Close()
	var out []InputRecord
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := cleanCell(scanner.Text())
		if text == "" {
			continue
		}
		out = append(out, InputRecord{Index: strconv.Itoa(line), Text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan text file: %w", err)
	}
	return out, nil
}

func parseDelimitedRecords(path string, comma rune, opts InputParseOptions) ([]InputRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	reader := csv.NewReader(f)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(rows) == 0 {
		return nil, errors.New("empty file")
	}
	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = cleanCell(cell)
	}
	candidates := DefaultColumnCandidates()
	indexCol, indexFromHeader, err := pickColumn(header, opts.IndexColumn, candidates.Index)
	if err != nil {
		return nil, err
	}
	textCol, textFromHeader, err := pickColumn(header, opts.TextColumn, candidates.Text)
	if err != nil {
		return nil, err
	}
	skipHeader := indexFromHeader || textFromHeader
	if !skipHeader && textCol < 0 {
		textCol = 0
	}
	start := 0
	if skipHeader {
		start = 1
	}
	records := make([]InputRecord, 0, len(rows)-start)
	for i, row := range rows[start:] {
		text := cellAt(row, textCol)
		if text == "" {
			continue
		}
		rec := InputRecord{Index: cellAt(row, indexCol), Text: text}
		if rec.Index == "" {
			rec.Index = strconv.Itoa(i + 1)
		}
		records = append(records, rec)
	}
	return records, nil
}

// pickColumn resolves an explicit selection or auto-detects from candidates.
// The bool reports whether the column was identified by a header name.
func pickColumn(header []string, explicit string, candidates []string) (int, bool, error) {
	trimmed := strings.TrimSpace(explicit)
	if trimmed == "" {
		idx := findColumn(header, candidates)
		return idx, idx >= 0, nil
	}
	if idx := findColumn(header, []string{trimmed}); idx >= 0 {
		return idx, true, nil
	}
	if strings.HasPrefix(trimmed, "#") {
		idx, err := parseColumnIndex(trimmed)
		if err != nil {
			return -1, false, err
		}
		if idx >= len(header) {
			return -1, false, fmt.Errorf("column index %s is out of range", trimmed)
		}
		return idx, false, nil
	}
	return -1, false, fmt.Errorf("column %q not found", explicit)
}

func parseColumnIndex(token string) (int, error) {
	idx, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(token, "#")))
	if err != nil {
		return -1, fmt.Errorf("invalid column index %q", token)
	}
	if idx <= 0 {
		return -1, fmt.Errorf("column indices are 1-based: %q", token)
	}
	return idx - 1, nil
}
