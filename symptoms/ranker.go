package symptoms

import (
	"fmt"
	"math"
	"sort"
)

// RankConfig controls candidate selection.
type RankConfig struct {
	// PoolSize is how many top classes are considered at all.
	PoolSize int `mapstructure:"pool_size" yaml:"pool_size" json:"pool_size"`
	// MinResults is the number of diseases always returned when available.
	MinResults int `mapstructure:"min_results" yaml:"min_results" json:"min_results"`
	// Significance is the probability a candidate must exceed to be kept
	// once MinResults candidates are secured.
	Significance float64 `mapstructure:"significance" yaml:"significance" json:"significance"`
}

// ApplyDefaults fills zero values.
func (c *RankConfig) ApplyDefaults() {
	if c.PoolSize <= 0 {
		c.PoolSize = 5
	}
	if c.MinResults <= 0 {
		c.MinResults = 3
	}
	if c.Significance == 0 {
		c.Significance = 0.01
	}
}

// Validate rejects settings that cannot be honored.
func (c RankConfig) Validate() error {
	if c.MinResults > c.PoolSize {
		return fmt.Errorf("ranking: min_results %d exceeds pool_size %d", c.MinResults, c.PoolSize)
	}
	if c.Significance < 0 || c.Significance >= 1 {
		return fmt.Errorf("ranking: significance %.4f outside [0,1)", c.Significance)
	}
	return nil
}

// Ranker turns a probability distribution into a PredictionResult.
type Ranker struct {
	cfg  RankConfig
	meta MetadataSource
}

// NewRanker builds a ranker; meta may be nil.
func NewRanker(cfg RankConfig, meta MetadataSource) *Ranker {
	cfg.ApplyDefaults()
	if meta == nil {
		meta = (*MetadataStore)(nil)
	}
	return &Ranker{cfg: cfg, meta: meta}
}

// Rank selects the primary disease and alternatives from dist. Ties keep
// the order in which the classifier listed them. Probabilities outside [0,1]
// are rejected.
func (r *Ranker) Rank(dist []LabelProbability) (PredictionResult, error) {
	if len(dist) == 0 {
		return PredictionResult{}, ErrEmptyDistribution
	}
	for _, c := range dist {
		if math.IsNaN(c.Probability) || c.Probability < 0 || c.Probability > 1 {
			return PredictionResult{}, fmt.Errorf("probability %v for %q outside [0,1]", c.Probability, c.Label)
		}
	}
	sorted := make([]LabelProbability, len(dist))
	copy(sorted, dist)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Probability > sorted[j].Probability
	})
	pool := limitCandidates(sorted, r.cfg.PoolSize)

	kept := make([]LabelProbability, 0, r.cfg.MinResults)
	for _, c := range pool {
		if c.Probability > r.cfg.Significance || len(kept) < r.cfg.MinResults {
			kept = append(kept, c)
			if len(kept) >= r.cfg.MinResults {
				break
			}
		}
	}
	if len(kept) < r.cfg.MinResults {
		kept = limitCandidates(sorted, r.cfg.MinResults)
	}

	primary := kept[0]
	res := PredictionResult{
		PrimaryDisease:           primary.Label,
		Confidence:               primary.Probability,
		AlternativeDiseases:      make([]string, 0, len(kept)-1),
		AlternativeProbabilities: make([]float64, 0, len(kept)-1),
		Description:              r.meta.Description(primary.Label),
		Precautions:              r.meta.Precautions(primary.Label),
		InputSymptoms:            []string{},
		RecognizedSymptoms:       []string{},
	}
	for _, c := range kept[1:] {
		res.AlternativeDiseases = append(res.AlternativeDiseases, c.Label)
		res.AlternativeProbabilities = append(res.AlternativeProbabilities, c.Probability)
	}
	if res.Precautions == nil {
		res.Precautions = []string{}
	}
	return res, nil
}

func limitCandidates(c []LabelProbability, k int) []LabelProbability {
	if len(c) <= k {
		return c
	}
	return c[:k]
}
