package symptoms

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Classifier is the opaque model that scores a feature vector.
type Classifier interface {
	// PredictProba returns one entry per class in the classifier's own order.
	PredictProba(ctx context.Context, features []float32) ([]LabelProbability, error)
	// InputSize is the feature vector length the model was trained on.
	InputSize() int
	// Labels lists the classes in output order.
	Labels() []string
	Close() error
}

// Candidate is one way of obtaining a classifier, tried in order by
// OpenClassifier.
type Candidate struct {
	Name string
	Open func(ctx context.Context) (Classifier, error)
}

// probeTolerance bounds how far a probe distribution may stray from summing to 1.
const probeTolerance = 1e-3

// CheckCompatibility verifies that clf was trained against vocab: the input
// size matches, every label is a known disease, and an all-zero probe
// returns a distribution over exactly its labels.
func CheckCompatibility(ctx context.Context, clf Classifier, vocab *Vocabulary) error {
	if got, want := clf.InputSize(), vocab.Size(); got != want {
		return fmt.Errorf("%w: model expects %d features, vocabulary has %d symptoms", ErrIncompatibleModel, got, want)
	}
	labels := clf.Labels()
	if len(labels) == 0 {
		return fmt.Errorf("%w: model has no class labels", ErrIncompatibleModel)
	}
	for _, l := range labels {
		if !vocab.HasDisease(l) {
			return fmt.Errorf("%w: label %q is not a vocabulary disease", ErrIncompatibleModel, l)
		}
	}
	dist, err := clf.PredictProba(ctx, make([]float32, vocab.Size()))
	if err != nil {
		return fmt.Errorf("%w: probe failed: %w", ErrIncompatibleModel, err)
	}
	if len(dist) != len(labels) {
		return fmt.Errorf("%w: probe returned %d classes, model declares %d", ErrIncompatibleModel, len(dist), len(labels))
	}
	var sum float64
	for _, lp := range dist {
		sum += lp.Probability
	}
	if math.Abs(sum-1) > probeTolerance {
		return fmt.Errorf("%w: probe distribution sums to %.4f", ErrIncompatibleModel, sum)
	}
	return nil
}

// OpenClassifier tries candidates in order and returns the first one that
// opens and passes CheckCompatibility. Rejected classifiers are closed. When
// none qualifies the error joins every failure under ErrIncompatibleModel.
func OpenClassifier(ctx context.Context, vocab *Vocabulary, candidates ...Candidate) (Classifier, string, error) {
	if len(candidates) == 0 {
		return nil, "", fmt.Errorf("%w: no model candidates configured", ErrIncompatibleModel)
	}
	var errs []error
	for _, c := range candidates {
		clf, err := c.Open(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.Name, err))
			continue
		}
		if err := CheckCompatibility(ctx, clf, vocab); err != nil {
			_ = clf.Close()
			errs = append(errs, fmt.Errorf("%s: %w", c.Name, err))
			continue
		}
		return clf, c.Name, nil
	}
	return nil, "", fmt.Errorf("%w: all %d candidates rejected: %w", ErrIncompatibleModel, len(candidates), errors.Join(errs...))
}
