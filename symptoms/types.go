// Package symptoms turns symptom lists and free text into ranked disease
// predictions against a fixed vocabulary.
package symptoms

// LabelProbability is one class of a classifier's output distribution.
type LabelProbability struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
}

// PredictionResult is the flat, JSON-ready outcome of one prediction.
// Slices are never nil so they encode as [] rather than null.
type PredictionResult struct {
	PrimaryDisease           string    `json:"primary_disease"`
	Confidence               float64   `json:"confidence"`
	AlternativeDiseases      []string  `json:"alternative_diseases"`
	AlternativeProbabilities []float64 `json:"alternative_probabilities"`
	Description              string    `json:"description"`
	Precautions              []string  `json:"precautions"`
	InputSymptoms            []string  `json:"input_symptoms"`
	RecognizedSymptoms       []string  `json:"recognized_symptoms"`
}
