package symptoms

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// fuzzyMatcher finds the closest candidate by SequenceMatcher ratio. Only a
// candidate scoring at or above cutoff is returned; equal scores resolve to
// the lexicographically greatest candidate.
type fuzzyMatcher struct {
	candidates []string
	chars      [][]string
	cutoff     float64
}

func newFuzzyMatcher(candidates []string, cutoff float64) *fuzzyMatcher {
	f := &fuzzyMatcher{cutoff: cutoff}
	for _, c := range candidates {
		f.candidates = append(f.candidates, c)
		f.chars = append(f.chars, strings.Split(c, ""))
	}
	return f
}

func (f *fuzzyMatcher) closest(word string) (string, bool) {
	if word == "" || len(f.candidates) == 0 {
		return "", false
	}
	// A matcher per call keeps the extractor safe for concurrent use.
	m := difflib.NewMatcher(nil, strings.Split(word, ""))
	best, bestScore := "", -1.0
	for i, cand := range f.candidates {
		m.SetSeq1(f.chars[i])
		if m.RealQuickRatio() < f.cutoff || m.QuickRatio() < f.cutoff {
			continue
		}
		score := m.Ratio()
		if score < f.cutoff {
			continue
		}
		if score > bestScore || (score == bestScore && cand > best) {
			best, bestScore = cand, score
		}
	}
	return best, bestScore >= 0
}
