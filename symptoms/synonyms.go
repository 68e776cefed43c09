package symptoms

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// SynonymFile is the on-disk layout of a user synonym table.
//
//	terms:
//	  - phrase: "throwing up"
//	    symptom: vomiting
type SynonymFile struct {
	Terms []SynonymTerm `yaml:"terms"`
}

// SynonymTerm maps one layperson phrase to a canonical token.
type SynonymTerm struct {
	Phrase  string `yaml:"phrase"`
	Symptom string `yaml:"symptom"`
}

// DefaultSynonyms returns the built-in layperson phrase table.
func DefaultSynonyms() map[string]string {
	return map[string]string{
		"fever":           "high_fever",
		"feverish":        "high_fever",
		"temperature":     "high_fever",
		"back pain":       "back_pain",
		"backache":        "back_pain",
		"lower back pain": "back_pain",
		"stomach pain":    "abdominal_pain",
		"belly pain":      "abdominal_pain",
		"tummy pain":      "abdominal_pain",
		"head ache":       "headache",
		"vomit":           "vomiting",
		"vomiting":        "vomiting",
		"throwing up":     "vomiting",
		"nauseated":       "nausea",
		"coughing":        "cough",
		"sneeze":          "continuous_sneezing",
		"sneezing":        "continuous_sneezing",
		"tired":           "fatigue",
		"exhausted":       "fatigue",
		"itchy":           "itching",
		"dizzy":           "dizziness",
		"breathless":      "breathlessness",
		"short of breath": "breathlessness",
	}
}

// LoadSynonyms reads a YAML synonym file and merges it over the defaults.
// File entries win on conflicting phrases. An empty path yields the defaults.
func LoadSynonyms(path string) (map[string]string, error) {
	table := DefaultSynonyms()
	if strings.TrimSpace(path) == "" {
		return table, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, configErrorf("read synonyms: %w", err)
	}
	var file SynonymFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, configErrorf("parse synonyms yaml: %w", err)
	}
	for i, term := range file.Terms {
		phrase := normalizeProse(term.Phrase)
		symptom := canonicalToken(term.Symptom)
		if phrase == "" || symptom == "" {
			return nil, configErrorf("synonym entry %d is incomplete", i+1)
		}
		table[phrase] = symptom
	}
	return table, nil
}

// SaveSynonyms writes table to path in the SynonymFile layout, sorted by phrase.
func SaveSynonyms(path string, table map[string]string) error {
	phrases := make([]string, 0, len(table))
	for phrase := range table {
		phrases = append(phrases, phrase)
	}
	sort.Strings(phrases)
	file := SynonymFile{Terms: make([]SynonymTerm, 0, len(phrases))}
	for _, phrase := range phrases {
		file.Terms = append(file.Terms, SynonymTerm{Phrase: phrase, Symptom: table[phrase]})
	}
	data, err := yaml.Marshal(&file)
	if err != nil {
		return fmt.Errorf("marshal synonyms: %w", err)
	}
	return writeFileAtomic(path, data)
}
