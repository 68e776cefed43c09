package symptoms

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationResult partitions normalized input into known and unknown tokens.
type ValidationResult struct {
	Valid    []string `json:"valid"`
	Invalid  []string `json:"invalid"`
	AllValid bool     `json:"all_valid"`
}

// Validator checks symptom lists against a vocabulary.
type Validator struct {
	vocab *Vocabulary
}

// NewValidator binds a validator to vocab.
func NewValidator(vocab *Vocabulary) *Validator {
	return &Validator{vocab: vocab}
}

// Validate normalizes the input, drops blanks and duplicates, and splits the
// result into vocabulary members and the rest, preserving input order.
func (v *Validator) Validate(raws []string) ValidationResult {
	res := ValidationResult{Valid: []string{}, Invalid: []string{}}
	for _, token := range NormalizeList(raws) {
		if v.vocab.Contains(token) {
			res.Valid = append(res.Valid, token)
		} else {
			res.Invalid = append(res.Invalid, token)
		}
	}
	res.AllValid = len(res.Invalid) == 0
	return res
}

// Limits bound the size of caller supplied input.
type Limits struct {
	MaxSymptomLength int `mapstructure:"max_symptom_length" yaml:"max_symptom_length" json:"max_symptom_length"`
	MaxSymptoms      int `mapstructure:"max_symptoms" yaml:"max_symptoms" json:"max_symptoms"`
	MaxTextLength    int `mapstructure:"max_text_length" yaml:"max_text_length" json:"max_text_length"`
}

// ApplyDefaults fills zero values.
func (l *Limits) ApplyDefaults() {
	if l.MaxSymptomLength <= 0 {
		l.MaxSymptomLength = 100
	}
	if l.MaxSymptoms <= 0 {
		l.MaxSymptoms = 20
	}
	if l.MaxTextLength <= 0 {
		l.MaxTextLength = 1000
	}
}

var symptomChars = regexp.MustCompile(`^[a-zA-Z0-9_\s\-]+$`)

// SanitizeSymptoms enforces the limits on a raw symptom list. Oversized or
// malformed items are dropped; too many items is an error.
func (l Limits) SanitizeSymptoms(raws []string) ([]string, error) {
	l.ApplyDefaults()
	if len(raws) > l.MaxSymptoms {
		return nil, fmt.Errorf("%w: %d symptoms given, at most %d allowed", ErrInputTooLarge, len(raws), l.MaxSymptoms)
	}
	out := make([]string, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))
	for _, raw := range raws {
		raw = strings.TrimSpace(raw)
		if len(raw) > l.MaxSymptomLength || !symptomChars.MatchString(raw) {
			continue
		}
		token := canonicalToken(raw)
		if token == "" {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out, nil
}

// SanitizeText trims text and rejects it when longer than the limit.
func (l Limits) SanitizeText(text string) (string, error) {
	l.ApplyDefaults()
	text = strings.TrimSpace(text)
	if len(text) > l.MaxTextLength {
		return "", fmt.Errorf("%w: text is %d bytes, at most %d allowed", ErrInputTooLarge, len(text), l.MaxTextLength)
	}
	return text, nil
}
