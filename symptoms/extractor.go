package symptoms

import (
	"sort"
	"strings"
)

// Stage identifies which matching rule produced a symptom.
type Stage int

const (
	StagePhrase Stage = iota
	StageSynonym
	StageFuzzy
)

func (s Stage) String() string {
	switch s {
	case StagePhrase:
		return "phrase"
	case StageSynonym:
		return "synonym"
	case StageFuzzy:
		return "fuzzy"
	default:
		return "unknown"
	}
}

// MarshalText encodes the stage by name.
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Match is one symptom found in free text.
type Match struct {
	Symptom string `json:"symptom"`
	Stage   Stage  `json:"stage"`
	Offset  int    `json:"offset"`
	Text    string `json:"text"`
}

// FuzzyCutoff is the minimum similarity ratio accepted by the typo fallback.
const FuzzyCutoff = 0.95

type phraseRule struct {
	text    string
	symptom string
}

// Extractor maps prose onto vocabulary symptoms. It is read-only after
// construction and safe for concurrent use.
type Extractor struct {
	phrases    []phraseRule
	synonyms   []phraseRule
	lookup     map[string]string
	singleWord []string
	single     map[string]struct{}
	fuzzy      *fuzzyMatcher
}

// NewExtractor precomputes phrase, synonym and single-word tables for vocab.
// Synonyms whose target is not a vocabulary symptom are kept for lookup but
// never emitted.
func NewExtractor(vocab *Vocabulary, synonyms map[string]string) *Extractor {
	e := &Extractor{
		lookup: make(map[string]string, len(synonyms)),
		single: make(map[string]struct{}),
	}
	for _, s := range vocab.symptoms {
		e.phrases = append(e.phrases, phraseRule{text: strings.ReplaceAll(s, "_", " "), symptom: s})
		if !strings.Contains(s, "_") {
			e.singleWord = append(e.singleWord, s)
			e.single[s] = struct{}{}
		}
	}
	sort.SliceStable(e.phrases, func(i, j int) bool {
		return len(e.phrases[i].text) > len(e.phrases[j].text)
	})

	for phrase, target := range synonyms {
		phrase = normalizeProse(phrase)
		if phrase == "" {
			continue
		}
		e.lookup[phrase] = target
		if vocab.Contains(target) {
			e.synonyms = append(e.synonyms, phraseRule{text: phrase, symptom: target})
		}
	}
	sort.Slice(e.synonyms, func(i, j int) bool {
		a, b := e.synonyms[i], e.synonyms[j]
		if len(a.text) != len(b.text) {
			return len(a.text) > len(b.text)
		}
		return a.text < b.text
	})
	e.fuzzy = newFuzzyMatcher(e.singleWord, FuzzyCutoff)
	return e
}

// Extract returns the deduplicated symptoms found in text ordered by where
// they first occur. Unmatched or empty text yields an empty slice.
func (e *Extractor) Extract(text string) []string {
	matches := e.Matches(text)
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Symptom
	}
	return out
}

// Matches is Extract with the offset, stage and source text of each hit.
// Offsets refer to the normalized form of text.
func (e *Extractor) Matches(text string) []Match {
	working := []byte(normalizeProse(text))
	if len(working) == 0 {
		return []Match{}
	}
	var found []Match
	matched := make(map[string]struct{})

	stages := []struct {
		stage Stage
		rules []phraseRule
	}{
		{StagePhrase, e.phrases},
		{StageSynonym, e.synonyms},
	}
	for _, st := range stages {
		for _, rule := range st.rules {
			spans := wordSpans(string(working), rule.text)
			if len(spans) == 0 {
				continue
			}
			found = append(found, Match{Symptom: rule.symptom, Stage: st.stage, Offset: spans[0], Text: rule.text})
			matched[rule.symptom] = struct{}{}
			for _, at := range spans {
				blank(working, at, len(rule.text))
			}
		}
	}

	found = append(found, e.fuzzyStage(string(working), matched)...)

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].Offset != found[j].Offset {
			return found[i].Offset < found[j].Offset
		}
		return found[i].Stage < found[j].Stage
	})
	out := make([]Match, 0, len(found))
	seen := make(map[string]struct{}, len(found))
	for _, m := range found {
		if _, ok := seen[m.Symptom]; ok {
			continue
		}
		seen[m.Symptom] = struct{}{}
		out = append(out, m)
	}
	return out
}

func (e *Extractor) fuzzyStage(text string, matched map[string]struct{}) []Match {
	covered := make([]string, 0, len(matched))
	for symptom := range matched {
		covered = append(covered, strings.ReplaceAll(symptom, "_", " "))
	}
	var out []Match
	for _, w := range splitWords(text) {
		if len(w.text) <= 2 || coveredBy(w.text, covered) {
			continue
		}
		if symptom, ok := e.resolveWord(w.text); ok {
			out = append(out, Match{Symptom: symptom, Stage: StageFuzzy, Offset: w.offset, Text: w.text})
		}
	}
	return out
}

func (e *Extractor) resolveWord(word string) (string, bool) {
	if _, ok := e.single[word]; ok {
		return word, true
	}
	if target, ok := e.lookup[word]; ok {
		if _, single := e.single[target]; single {
			return target, true
		}
	}
	return e.fuzzy.closest(word)
}

func coveredBy(word string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(p, word) {
			return true
		}
	}
	return false
}

type textWord struct {
	text   string
	offset int
}

func splitWords(text string) []textWord {
	var out []textWord
	start := -1
	for i := 0; i <= len(text); i++ {
		if i == len(text) || text[i] == ' ' {
			if start >= 0 {
				out = append(out, textWord{text: text[start:i], offset: start})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	return out
}

// wordSpans returns the start offset of every whole-word occurrence of phrase
// in text, scanning left to right without overlaps.
func wordSpans(text, phrase string) []int {
	var spans []int
	start := 0
	for start+len(phrase) <= len(text) {
		idx := strings.Index(text[start:], phrase)
		if idx < 0 {
			break
		}
		idx += start
		end := idx + len(phrase)
		if isBoundary(text, idx-1) && isBoundary(text, end) {
			spans = append(spans, idx)
			start = end
			continue
		}
		start = idx + 1
	}
	return spans
}

func isBoundary(text string, i int) bool {
	if i < 0 || i >= len(text) {
		return true
	}
	c := text[i]
	return !((c >= 'a' && c <= 'z') || (c >= '0' && c <= '9'))
}

// blank overwrites a matched span with spaces so offsets stay stable.
func blank(buf []byte, at, n int) {
	for i := at; i < at+n; i++ {
		buf[i] = ' '
	}
}
