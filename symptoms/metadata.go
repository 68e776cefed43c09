package symptoms

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultDescription is returned for diseases without a description.
const DefaultDescription = "No description available."

// DefaultSeverity is returned for symptoms without a weight.
const DefaultSeverity = 1.0

// MetadataSource supplies the per-disease text attached to a prediction.
type MetadataSource interface {
	Description(disease string) string
	Precautions(disease string) []string
}

// MetadataStore holds descriptions, precautions and symptom severity weights.
// A zero store answers every lookup with the defaults.
type MetadataStore struct {
	descriptions map[string]string
	precautions  map[string][]string
	severity     map[string]float64
}

// MetadataPaths names the auxiliary CSV files. Empty paths are skipped.
type MetadataPaths struct {
	Descriptions string `mapstructure:"descriptions" yaml:"descriptions" json:"descriptions"`
	Precautions  string `mapstructure:"precautions" yaml:"precautions" json:"precautions"`
	Severity     string `mapstructure:"severity" yaml:"severity" json:"severity"`
}

// LoadMetadata reads the configured files. A configured file that cannot be
// read is a configuration error.
func LoadMetadata(paths MetadataPaths) (*MetadataStore, error) {
	m := &MetadataStore{
		descriptions: map[string]string{},
		precautions:  map[string][]string{},
		severity:     map[string]float64{},
	}
	if p := strings.TrimSpace(paths.Descriptions); p != "" {
		if err := m.loadDescriptions(p); err != nil {
			return nil, err
		}
	}
	if p := strings.TrimSpace(paths.Precautions); p != "" {
		if err := m.loadPrecautions(p); err != nil {
			return nil, err
		}
	}
	if p := strings.TrimSpace(paths.Severity); p != "" {
		if err := m.loadSeverity(p); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *MetadataStore) loadDescriptions(path string) error {
	header, rows, err := readTable(path)
	if err != nil {
		return err
	}
	nameCol := findColumn(header, []string{"Disease"})
	descCol := findColumn(header, []string{"Description"})
	if nameCol < 0 || descCol < 0 {
		return configErrorf("%s: expected Disease and Description columns", filepath.Base(path))
	}
	for _, row := range rows {
		name := cellAt(row, nameCol)
		if name == "" {
			continue
		}
		if _, dup := m.descriptions[name]; dup {
			continue
		}
		m.descriptions[name] = cellAt(row, descCol)
	}
	return nil
}

func (m *MetadataStore) loadPrecautions(path string) error {
	header, rows, err := readTable(path)
	if err != nil {
		return err
	}
	nameCol := findColumn(header, []string{"Disease"})
	if nameCol < 0 {
		return configErrorf("%s: expected a Disease column", filepath.Base(path))
	}
	var cols []int
	for i, col := range header {
		if strings.HasPrefix(strings.ToLower(col), "precaution_") {
			cols = append(cols, i)
		}
	}
	for _, row := range rows {
		name := cellAt(row, nameCol)
		if name == "" {
			continue
		}
		if _, dup := m.precautions[name]; dup {
			continue
		}
		items := []string{}
		for _, col := range cols {
			if v := cellAt(row, col); v != "" {
				items = append(items, v)
			}
		}
		m.precautions[name] = items
	}
	return nil
}

func (m *MetadataStore) loadSeverity(path string) error {
	header, rows, err := readTable(path)
	if err != nil {
		return err
	}
	nameCol := findColumn(header, []string{"Symptom"})
	weightCol := findColumn(header, []string{"weight", "severity"})
	if nameCol < 0 || weightCol < 0 {
		return configErrorf("%s: expected Symptom and weight columns", filepath.Base(path))
	}
	for i, row := range rows {
		token := canonicalToken(cellAt(row, nameCol))
		if token == "" {
			continue
		}
		w, err := strconv.ParseFloat(cellAt(row, weightCol), 64)
		if err != nil {
			return configErrorf("%s row %d: bad weight: %w", filepath.Base(path), i+2, err)
		}
		m.severity[token] = w
	}
	return nil
}

// Description returns the description of disease or DefaultDescription.
func (m *MetadataStore) Description(disease string) string {
	if m != nil {
		if d, ok := m.descriptions[strings.TrimSpace(disease)]; ok && d != "" {
			return d
		}
	}
	return DefaultDescription
}

// Precautions returns a copy of the precautions for disease, never nil.
func (m *MetadataStore) Precautions(disease string) []string {
	if m != nil {
		if p, ok := m.precautions[strings.TrimSpace(disease)]; ok {
			return append([]string{}, p...)
		}
	}
	return []string{}
}

// Severity returns the weight of symptom or DefaultSeverity.
func (m *MetadataStore) Severity(symptom string) float64 {
	if m != nil {
		if w, ok := m.severity[strings.TrimSpace(symptom)]; ok {
			return w
		}
	}
	return DefaultSeverity
}

// SeverityWeights returns a copy of the severity table.
func (m *MetadataStore) SeverityWeights() map[string]float64 {
	out := make(map[string]float64)
	if m == nil {
		return out
	}
	for k, v := range m.severity {
		out[k] = v
	}
	return out
}

func (m *MetadataStore) String() string {
	if m == nil {
		return "metadata(empty)"
	}
	return fmt.Sprintf("metadata(descriptions=%d precautions=%d severity=%d)",
		len(m.descriptions), len(m.precautions), len(m.severity))
}
