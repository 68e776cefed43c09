// Package metrics holds the prometheus collectors of the prediction pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "symptomcheck"

// Outcome labels for the predictions counter.
const (
	OutcomeSuccess     = "success"
	OutcomeOracleError = "oracle_error"
	OutcomeInputError  = "input_error"
)

// Metrics groups the collectors. A nil *Metrics ignores every call.
type Metrics struct {
	registry *prometheus.Registry

	predictions *prometheus.CounterVec
	extracted   prometheus.Counter
	invalid     prometheus.Counter
	duration    prometheus.Histogram
	vocabSize   prometheus.Gauge
}

// New registers the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Predictions served, by outcome.",
		}, []string{"outcome"}),
		extracted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extracted_symptoms_total",
			Help:      "Symptoms recognized in free text.",
		}),
		invalid: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalid_symptoms_total",
			Help:      "Submitted symptoms not found in the vocabulary.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prediction_duration_seconds",
			Help:      "Time spent producing one prediction.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		vocabSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "vocabulary_symptoms",
			Help:      "Number of symptoms in the loaded vocabulary.",
		}),
	}
	m.registry.MustRegister(m.predictions, m.extracted, m.invalid, m.duration, m.vocabSize)
	return m
}

// Registry exposes the registry for exporters.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObservePrediction records one prediction outcome and its latency.
func (m *Metrics) ObservePrediction(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.predictions.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// AddExtracted counts symptoms recognized in free text.
func (m *Metrics) AddExtracted(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.extracted.Add(float64(n))
}

// AddInvalid counts rejected symptom tokens.
func (m *Metrics) AddInvalid(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.invalid.Add(float64(n))
}

// SetVocabularySize records the loaded vocabulary size.
func (m *Metrics) SetVocabularySize(n int) {
	if m == nil {
		return
	}
	m.vocabSize.Set(float64(n))
}

// WriteTextfile dumps the registry in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
