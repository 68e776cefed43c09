package symptoms

// FeatureBuilder turns validated symptom lists into fixed-length vectors
// aligned to the vocabulary.
type FeatureBuilder struct {
	vocab   *Vocabulary
	weights map[string]float32
}

// NewFeatureBuilder returns the default builder. Its vectors only ever hold
// 0 or 1.
func NewFeatureBuilder(vocab *Vocabulary) *FeatureBuilder {
	return &FeatureBuilder{vocab: vocab}
}

// NewSeverityFeatureBuilder returns an opt-in builder that writes the
// severity weight of each present symptom instead of 1. Symptoms missing
// from weights, or with a non-positive weight, fall back to 1.
// Intended for training experiments, not the live prediction path.
func NewSeverityFeatureBuilder(vocab *Vocabulary, weights map[string]float64) *FeatureBuilder {
	w := make(map[string]float32, len(weights))
	for symptom, weight := range weights {
		if weight > 0 {
			w[symptom] = float32(weight)
		}
	}
	return &FeatureBuilder{vocab: vocab, weights: w}
}

// Binary reports whether the builder produces strictly {0,1} vectors.
func (b *FeatureBuilder) Binary() bool { return b.weights == nil }

// Len is the length of every vector produced.
func (b *FeatureBuilder) Len() int { return b.vocab.Size() }

// Build allocates a zero vector and marks each known symptom. Unknown tokens
// are ignored; order and repetition do not affect the result.
func (b *FeatureBuilder) Build(valid []string) []float32 {
	vec := make([]float32, b.vocab.Size())
	for _, token := range valid {
		idx := b.vocab.Index(token)
		if idx < 0 {
			continue
		}
		vec[idx] = b.value(token)
	}
	return vec
}

func (b *FeatureBuilder) value(token string) float32 {
	if b.weights != nil {
		if w, ok := b.weights[token]; ok {
			return w
		}
	}
	return 1
}
