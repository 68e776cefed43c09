package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.ObservePrediction(OutcomeSuccess, 2*time.Millisecond)
	m.ObservePrediction(OutcomeSuccess, time.Millisecond)
	m.ObservePrediction(OutcomeOracleError, time.Millisecond)
	m.AddExtracted(3)
	m.AddExtracted(0)
	m.AddInvalid(2)
	m.SetVocabularySize(131)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.predictions.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.predictions.WithLabelValues(OutcomeOracleError)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.extracted))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.invalid))
	assert.Equal(t, 131.0, testutil.ToFloat64(m.vocabSize))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObservePrediction(OutcomeSuccess, time.Second)
		m.AddExtracted(1)
		m.AddInvalid(1)
		m.SetVocabularySize(1)
	})
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.WriteTextfile("ignored.prom"))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := New()
	m.SetVocabularySize(4)
	path := filepath.Join(t.TempDir(), "symptomcheck.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "symptomcheck_vocabulary_symptoms 4"))
}
