package symptoms

import (
	"regexp"
	"slices"
	"sort"
	"strings"
)

var tokenPattern = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*$`)

// Vocabulary is the immutable catalog of canonical symptom tokens and disease
// names. The position of a symptom is its feature vector coordinate.
type Vocabulary struct {
	symptoms []string
	diseases []string
	index    map[string]int
	disease  map[string]struct{}
}

// NewVocabulary sorts and dedupes the given lists. Every symptom must already
// be a canonical token.
func NewVocabulary(symptoms, diseases []string) (*Vocabulary, error) {
	syms := sortedUnique(symptoms, strings.TrimSpace)
	if len(syms) == 0 {
		return nil, configErrorf("vocabulary has no symptoms")
	}
	for _, s := range syms {
		if !tokenPattern.MatchString(s) {
			return nil, configErrorf("symptom %q is not a canonical token", s)
		}
	}
	dis := sortedUnique(diseases, strings.TrimSpace)
	v := &Vocabulary{
		symptoms: syms,
		diseases: dis,
		index:    make(map[string]int, len(syms)),
		disease:  make(map[string]struct{}, len(dis)),
	}
	for i, s := range syms {
		v.index[s] = i
	}
	for _, d := range dis {
		v.disease[d] = struct{}{}
	}
	return v, nil
}

// Symptoms returns a copy of the ordered symptom tokens.
func (v *Vocabulary) Symptoms() []string { return slices.Clone(v.symptoms) }

// Diseases returns a copy of the ordered disease names.
func (v *Vocabulary) Diseases() []string { return slices.Clone(v.diseases) }

// Size is the feature vector length.
func (v *Vocabulary) Size() int { return len(v.symptoms) }

// Contains reports whether token is a known symptom.
func (v *Vocabulary) Contains(token string) bool {
	_, ok := v.index[token]
	return ok
}

// Index returns the coordinate of token, or -1.
func (v *Vocabulary) Index(token string) int {
	if i, ok := v.index[token]; ok {
		return i
	}
	return -1
}

// HasDisease reports whether name is a known disease.
func (v *Vocabulary) HasDisease(name string) bool {
	_, ok := v.disease[strings.TrimSpace(name)]
	return ok
}

func sortedUnique(values []string, clean func(string) string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = clean(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	sort.Strings(out)
	return out
}
