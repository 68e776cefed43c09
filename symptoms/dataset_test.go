package symptoms

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDataset = "\ufeffDisease,Symptom_1,Symptom_2,Symptom_3\n" +
	"Flu, high_fever, cough,\n" +
	"Flu, high_fever, fatigue, headache\n" +
	"Cold, cough, continuous_sneezing,\n" +
	"Malaria, high_fever, sweating, headache\n" +
	",orphan,,\n"

func TestLoadDataset(t *testing.T) {
	ds, err := LoadDataset(writeTestFile(t, "dataset.csv", testDataset))
	require.NoError(t, err)
	require.Len(t, ds.Rows, 4)
	assert.Equal(t, DatasetRow{Disease: "Flu", Symptoms: []string{"high_fever", "cough"}}, ds.Rows[0])
	assert.Equal(t, "Malaria", ds.Rows[3].Disease)
}

func TestLoadDataset_TSVAndPrognosisHeader(t *testing.T) {
	path := writeTestFile(t, "train.tsv", "prognosis\tsymptom_a\nFlu\tcough\n")
	ds, err := LoadDataset(path)
	require.NoError(t, err)
	assert.Equal(t, []DatasetRow{{Disease: "Flu", Symptoms: []string{"cough"}}}, ds.Rows)
}

func TestLoadDataset_Errors(t *testing.T) {
	cases := map[string]string{
		"no disease column": "Name,Symptom_1\nFlu,cough\n",
		"no symptom column": "Disease,Other\nFlu,cough\n",
		"no rows":           "Disease,Symptom_1\n",
		"empty":             "",
	}
	for name, content := range cases {
		_, err := LoadDataset(writeTestFile(t, "d.csv", content))
		assert.ErrorIs(t, err, ErrConfiguration, name)
	}
	_, err := LoadDataset(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestBuildVocabulary(t *testing.T) {
	ds, err := LoadDataset(writeTestFile(t, "dataset.csv", testDataset))
	require.NoError(t, err)
	vocab, err := BuildVocabulary(ds)
	require.NoError(t, err)
	assert.Equal(t, []string{"continuous_sneezing", "cough", "fatigue", "headache", "high_fever", "sweating"}, vocab.Symptoms())
	assert.Equal(t, []string{"Cold", "Flu", "Malaria"}, vocab.Diseases())
}

func TestTrainingMatrix(t *testing.T) {
	ds, err := LoadDataset(writeTestFile(t, "dataset.csv", testDataset))
	require.NoError(t, err)
	vocab, err := BuildVocabulary(ds)
	require.NoError(t, err)

	x, y := TrainingMatrix(ds, NewFeatureBuilder(vocab))
	require.Len(t, x, 4)
	assert.Equal(t, []string{"Flu", "Flu", "Cold", "Malaria"}, y)
	assert.Equal(t, []float32{0, 1, 0, 0, 1, 0}, x[0])

	out := filepath.Join(t.TempDir(), "matrix.csv")
	require.NoError(t, WriteTrainingMatrix(out, vocab.Symptoms(), x, y))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "continuous_sneezing,cough,fatigue,headache,high_fever,sweating,Disease\n0,1,0,0,1,0,Flu\n")

	assert.Error(t, WriteTrainingMatrix(out, vocab.Symptoms(), x, y[:1]))
}

func TestFormatFeature(t *testing.T) {
	assert.Equal(t, "0", formatFeature(0))
	assert.Equal(t, "1", formatFeature(1))
	assert.Equal(t, "4.5", formatFeature(4.5))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteTrainingMatrix_ReportsWriteFailures(t *testing.T) {
	err := writeTrainingMatrix(failingWriter{}, []string{"cough"}, [][]float32{{1}}, []string{"Cold"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	assert.Error(t, WriteTrainingMatrix(t.TempDir(), []string{"cough"}, [][]float32{{1}}, []string{"Cold"}))
}
