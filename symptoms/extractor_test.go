package symptoms

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_SynonymAndPhrase(t *testing.T) {
	ex := NewExtractor(newTestVocab(t), DefaultSynonyms())
	assert.Equal(t, []string{"high_fever", "cough"}, ex.Extract("I have fever and cough"))
}

func TestExtractor_PhraseSuppressesTokenMatch(t *testing.T) {
	vocab := newTestVocab(t, "back_pain", "pain", "cough")
	ex := NewExtractor(vocab, DefaultSynonyms())
	assert.Equal(t, []string{"back_pain"}, ex.Extract("I have back pain"))
	assert.Equal(t, []string{"back_pain", "pain"}, ex.Extract("back pain, and pain elsewhere"))
}

func TestExtractor_OrderedByFirstOccurrence(t *testing.T) {
	ex := NewExtractor(newTestVocab(t), DefaultSynonyms())
	got := ex.Extract("Cough, cough and a headache with fever")
	assert.Equal(t, []string{"cough", "headache", "high_fever"}, got)
}

func TestExtractor_MultiWordSynonym(t *testing.T) {
	ex := NewExtractor(newTestVocab(t, "vomiting", "nausea"), DefaultSynonyms())
	assert.Equal(t, []string{"vomiting"}, ex.Extract("I've been THROWING-UP all night"))
}

func TestExtractor_IgnoresSynonymOutsideVocabulary(t *testing.T) {
	vocab := newTestVocab(t, "cough")
	ex := NewExtractor(vocab, map[string]string{"fever": "high_fever", "coughing": "cough"})
	assert.Equal(t, []string{"cough"}, ex.Extract("fever and coughing"))
}

func TestExtractor_WholeWordsOnly(t *testing.T) {
	ex := NewExtractor(newTestVocab(t, "pain"), nil)
	assert.Empty(t, ex.Extract("painful"))
	assert.Equal(t, []string{"pain"}, ex.Extract("pain."))
}

func TestExtractor_FuzzyTypo(t *testing.T) {
	ex := NewExtractor(newTestVocab(t, "constipation", "cough"), nil)
	matches := ex.Matches("bad constipaton today")
	require.Len(t, matches, 1)
	assert.Equal(t, "constipation", matches[0].Symptom)
	assert.Equal(t, StageFuzzy, matches[0].Stage)
	assert.Equal(t, "constipaton", matches[0].Text)
	assert.Equal(t, 4, matches[0].Offset)

	// "cogh" is too far from "cough" for the cutoff.
	assert.Empty(t, ex.Extract("cogh"))
}

func TestExtractor_EmptyInput(t *testing.T) {
	ex := NewExtractor(newTestVocab(t), DefaultSynonyms())
	for _, text := range []string{"", "   ", "?!", "nothing relevant here"} {
		got := ex.Extract(text)
		assert.NotNil(t, got, text)
		assert.Empty(t, got, text)
	}
}

func TestExtractor_MatchesJSON(t *testing.T) {
	ex := NewExtractor(newTestVocab(t), DefaultSynonyms())
	data, err := json.Marshal(ex.Matches("fever"))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"symptom":"high_fever","stage":"synonym","offset":0,"text":"fever"}]`, string(data))
}

func TestExtractor_OutputValidates(t *testing.T) {
	vocab := newTestVocab(t, "high_fever", "cough", "fatigue", "headache", "back_pain", "vomiting", "itching")
	ex := NewExtractor(vocab, DefaultSynonyms())
	v := NewValidator(vocab)
	for _, text := range []string{
		"I have fever and cough",
		"tired, itchy and throwing up",
		"backache with a headache",
		"feverish and exhausted, headache",
		"nothing at all",
	} {
		found := ex.Extract(text)
		for _, s := range found {
			assert.True(t, vocab.Contains(s), "%q from %q", s, text)
		}
		assert.True(t, v.Validate(found).AllValid, text)
	}
}

func TestExtractor_ConcurrentUse(t *testing.T) {
	ex := NewExtractor(newTestVocab(t, "high_fever", "cough", "constipation"), DefaultSynonyms())
	want := []string{"high_fever", "cough", "constipation"}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				assert.Equal(t, want, ex.Extract("fever, cough and constipaton"))
			}
		}()
	}
	wg.Wait()
}

func TestFuzzyMatcher_Closest(t *testing.T) {
	f := newFuzzyMatcher([]string{"constipation", "cough"}, FuzzyCutoff)
	got, ok := f.closest("constipaton")
	assert.True(t, ok)
	assert.Equal(t, "constipation", got)

	_, ok = f.closest("cogh")
	assert.False(t, ok)

	_, ok = newFuzzyMatcher(nil, FuzzyCutoff).closest("cough")
	assert.False(t, ok)
}

func TestStage_String(t *testing.T) {
	assert.Equal(t, "phrase", StagePhrase.String())
	assert.Equal(t, "synonym", StageSynonym.String())
	assert.Equal(t, "fuzzy", StageFuzzy.String())
	assert.Equal(t, "unknown", Stage(9).String())
}

func TestCoveredBy(t *testing.T) {
	assert.True(t, coveredBy("pain", []string{"back pain"}))
	assert.False(t, coveredBy("pains", []string{"back pain"}))
}
