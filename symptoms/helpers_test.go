package symptoms

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var testDiseases = []string{"Cold", "Dengue", "Flu", "Malaria", "Typhoid"}

func newTestVocab(t *testing.T, symptoms ...string) *Vocabulary {
	t.Helper()
	if len(symptoms) == 0 {
		symptoms = []string{"high_fever", "cough", "fatigue", "headache"}
	}
	v, err := NewVocabulary(symptoms, testDiseases)
	require.NoError(t, err)
	return v
}

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// fakeClassifier returns a fixed distribution and records every call.
type fakeClassifier struct {
	mu     sync.Mutex
	size   int
	labels []string
	probs  []float64
	err    error
	calls  [][]float32
	closed int
}

func newFakeClassifier(size int) *fakeClassifier {
	return &fakeClassifier{
		size:   size,
		labels: []string{"Flu", "Cold", "Malaria", "Dengue", "Typhoid"},
		probs:  []float64{0.62, 0.30, 0.05, 0.02, 0.01},
	}
}

func (f *fakeClassifier) PredictProba(ctx context.Context, features []float32) ([]LabelProbability, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]float32{}, features...))
	if f.err != nil {
		return nil, f.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]LabelProbability, len(f.labels))
	for i, l := range f.labels {
		out[i] = LabelProbability{Label: l, Probability: f.probs[i]}
	}
	return out, nil
}

func (f *fakeClassifier) InputSize() int { return f.size }
func (f *fakeClassifier) Labels() []string { return append([]string{}, f.labels...) }

func (f *fakeClassifier) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeClassifier) lastCall() []float32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return nil
	}
	return f.calls[len(f.calls)-1]
}

var errBoom = errors.New("boom")
