package symptoms

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVocabulary(t *testing.T) {
	v, err := NewVocabulary([]string{"headache", "cough", " cough ", "high_fever"}, []string{"Flu", " Cold", "Flu"})
	require.NoError(t, err)
	assert.Equal(t, []string{"cough", "headache", "high_fever"}, v.Symptoms())
	assert.Equal(t, []string{"Cold", "Flu"}, v.Diseases())
	assert.Equal(t, 3, v.Size())
	assert.Equal(t, 1, v.Index("headache"))
	assert.Equal(t, -1, v.Index("fever"))
	assert.True(t, v.Contains("cough"))
	assert.False(t, v.Contains("Cough"))
	assert.True(t, v.HasDisease(" Flu "))
	assert.False(t, v.HasDisease("Malaria"))
}

func TestNewVocabulary_Rejects(t *testing.T) {
	_, err := NewVocabulary(nil, []string{"Flu"})
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = NewVocabulary([]string{"Back Pain"}, nil)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestVocabulary_ReturnsCopies(t *testing.T) {
	v := newTestVocab(t)
	s := v.Symptoms()
	s[0] = "mutated"
	assert.Equal(t, "cough", v.Symptoms()[0])
}

func TestSnapshot_RoundTrip(t *testing.T) {
	v := newTestVocab(t)
	path := filepath.Join(t.TempDir(), "nested", "vocab.json")
	require.NoError(t, SaveSnapshot(path, v))

	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, v.Symptoms(), loaded.Symptoms())
	assert.Equal(t, v.Diseases(), loaded.Diseases())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestSnapshot_ConcurrentSaves(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vocab.json")
	small, err := NewVocabulary([]string{"cough"}, []string{"Cold"})
	require.NoError(t, err)
	large := newTestVocab(t)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		v := small
		if i%2 == 0 {
			v = large
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- SaveSnapshot(path, v)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Contains(t, []int{small.Size(), large.Size()}, loaded.Size())
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLoadSnapshot_Rejects(t *testing.T) {
	cases := map[string]string{
		"unsorted symptoms": `{"symptoms":["fever","cough"],"diseases":["Flu"]}`,
		"duplicate symptom": `{"symptoms":["cough","cough"],"diseases":["Flu"]}`,
		"unsorted diseases": `{"symptoms":["cough"],"diseases":["Flu","Cold"]}`,
		"empty":             `{"symptoms":[],"diseases":[]}`,
		"not json":          `symptoms: [cough]`,
	}
	for name, content := range cases {
		_, err := LoadSnapshot(writeTestFile(t, "vocab.json", content))
		assert.ErrorIs(t, err, ErrConfiguration, name)
	}
}

func TestSynonyms_LoadMergesOverDefaults(t *testing.T) {
	path := writeTestFile(t, "synonyms.yaml", `
terms:
  - phrase: "Runny Nose"
    symptom: runny_nose
  - phrase: fever
    symptom: mild_fever
`)
	table, err := LoadSynonyms(path)
	require.NoError(t, err)
	assert.Equal(t, "runny_nose", table["runny nose"])
	assert.Equal(t, "mild_fever", table["fever"])
	assert.Equal(t, "vomiting", table["throwing up"])

	defaults, err := LoadSynonyms("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSynonyms(), defaults)
}

func TestSynonyms_Errors(t *testing.T) {
	_, err := LoadSynonyms(writeTestFile(t, "s.yaml", "terms:\n  - phrase: fever\n"))
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = LoadSynonyms(writeTestFile(t, "s.yaml", "terms: [\n"))
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = LoadSynonyms(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestSynonyms_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synonyms.yaml")
	table := map[string]string{"throwing up": "vomiting", "runny nose": "runny_nose"}
	require.NoError(t, SaveSynonyms(path, table))

	loaded, err := LoadSynonyms(path)
	require.NoError(t, err)
	for phrase, symptom := range table {
		assert.Equal(t, symptom, loaded[phrase])
	}
}
