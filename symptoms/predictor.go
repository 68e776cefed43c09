package symptoms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"yashubustudio/symptomcheck/internal/logging"
	"yashubustudio/symptomcheck/internal/metrics"
)

// PredictorOptions carries the optional collaborators of a Predictor.
type PredictorOptions struct {
	// Synonyms defaults to DefaultSynonyms when nil.
	Synonyms map[string]string
	Metadata MetadataSource
	Ranking  RankConfig
	Limits   Limits
	Logger   logging.Logger
	Metrics  *metrics.Metrics
}

// Predictor bundles everything one prediction needs. It is built once and
// shared; none of its parts change after construction.
type Predictor struct {
	vocab      *Vocabulary
	extractor  *Extractor
	validator  *Validator
	features   *FeatureBuilder
	classifier Classifier
	ranker     *Ranker
	limits     Limits
	logger     logging.Logger
	metrics    *metrics.Metrics
}

// NewPredictor verifies clf against vocab and assembles the pipeline.
func NewPredictor(ctx context.Context, vocab *Vocabulary, clf Classifier, opts PredictorOptions) (*Predictor, error) {
	if vocab == nil {
		return nil, configErrorf("vocabulary is required")
	}
	if clf == nil {
		return nil, configErrorf("classifier is required")
	}
	if err := CheckCompatibility(ctx, clf, vocab); err != nil {
		return nil, err
	}
	if opts.Synonyms == nil {
		opts.Synonyms = DefaultSynonyms()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	opts.Ranking.ApplyDefaults()
	if err := opts.Ranking.Validate(); err != nil {
		return nil, configErrorf("%w", err)
	}
	opts.Limits.ApplyDefaults()
	opts.Metrics.SetVocabularySize(vocab.Size())
	return &Predictor{
		vocab:      vocab,
		extractor:  NewExtractor(vocab, opts.Synonyms),
		validator:  NewValidator(vocab),
		features:   NewFeatureBuilder(vocab),
		classifier: clf,
		ranker:     NewRanker(opts.Ranking, opts.Metadata),
		limits:     opts.Limits,
		logger:     opts.Logger.Named("predictor"),
		metrics:    opts.Metrics,
	}, nil
}

// Open loads the vocabulary, synonyms and metadata named by cfg and binds the
// first compatible model candidate. Any failure is a configuration error.
func Open(ctx context.Context, cfg Config, logger logging.Logger, m *metrics.Metrics) (*Predictor, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	vocab, err := LoadVocabulary(cfg.Data)
	if err != nil {
		return nil, err
	}
	synonyms, err := LoadSynonyms(cfg.Data.Synonyms)
	if err != nil {
		return nil, err
	}
	meta, err := LoadMetadata(cfg.Data.Metadata())
	if err != nil {
		return nil, err
	}
	clf, name, err := OpenClassifier(ctx, vocab, cfg.Candidates()...)
	if err != nil {
		return nil, err
	}
	p, err := NewPredictor(ctx, vocab, clf, PredictorOptions{
		Synonyms: synonyms,
		Metadata: meta,
		Ranking:  cfg.Ranking,
		Limits:   cfg.Limits,
		Logger:   logger,
		Metrics:  m,
	})
	if err != nil {
		_ = clf.Close()
		return nil, err
	}
	logger.Info("predictor ready",
		logging.String("model", name),
		logging.Int("symptoms", vocab.Size()),
		logging.Int("diseases", len(vocab.diseases)),
		logging.String("metadata", meta.String()))
	return p, nil
}

// LoadVocabulary reads the snapshot when configured, otherwise builds the
// vocabulary from the dataset.
func LoadVocabulary(data DataConfig) (*Vocabulary, error) {
	if strings.TrimSpace(data.Snapshot) != "" {
		return LoadSnapshot(data.Snapshot)
	}
	if strings.TrimSpace(data.Dataset) == "" {
		return nil, configErrorf("no vocabulary source configured")
	}
	ds, err := LoadDataset(data.Dataset)
	if err != nil {
		return nil, err
	}
	return BuildVocabulary(ds)
}

// Vocabulary returns the bound vocabulary.
func (p *Predictor) Vocabulary() *Vocabulary { return p.vocab }

// Extract runs the free text extractor.
func (p *Predictor) Extract(text string) []string {
	found := p.extractor.Extract(text)
	p.metrics.AddExtracted(len(found))
	return found
}

// Validate splits raws into known and unknown symptom tokens.
func (p *Predictor) Validate(raws []string) ValidationResult {
	return p.validator.Validate(raws)
}

// Predict scores a symptom list. Unknown symptoms are ignored for scoring
// and an empty recognized set is still sent to the classifier. Classifier
// failures are returned wrapped in ErrOracle.
func (p *Predictor) Predict(ctx context.Context, raws []string) (PredictionResult, error) {
	start := time.Now()
	log := p.logger.With(logging.String("prediction_id", uuid.NewString()))

	input, err := p.limits.SanitizeSymptoms(raws)
	if err != nil {
		p.metrics.ObservePrediction(metrics.OutcomeInputError, time.Since(start))
		return PredictionResult{}, err
	}
	check := p.validator.Validate(input)
	p.metrics.AddInvalid(len(check.Invalid))
	if len(check.Valid) == 0 {
		log.Warn("no recognized symptoms, prediction carries little information",
			logging.Strings("input", input))
	}

	dist, err := p.classifier.PredictProba(ctx, p.features.Build(check.Valid))
	if err != nil {
		return p.fail(log, start, err)
	}
	for _, c := range dist {
		if !p.vocab.HasDisease(c.Label) {
			return p.fail(log, start, fmt.Errorf("classifier returned unknown disease %q", c.Label))
		}
	}
	res, err := p.ranker.Rank(dist)
	if err != nil {
		return p.fail(log, start, err)
	}
	res.InputSymptoms = input
	res.RecognizedSymptoms = check.Valid

	elapsed := time.Since(start)
	p.metrics.ObservePrediction(metrics.OutcomeSuccess, elapsed)
	log.Debug("prediction",
		logging.Strings("recognized", check.Valid),
		logging.String("disease", res.PrimaryDisease),
		logging.Float64("confidence", res.Confidence),
		logging.Duration("elapsed", elapsed))
	return res, nil
}

func (p *Predictor) fail(log logging.Logger, start time.Time, err error) (PredictionResult, error) {
	p.metrics.ObservePrediction(metrics.OutcomeOracleError, time.Since(start))
	log.Error("prediction failed", logging.Err(err))
	return PredictionResult{}, fmt.Errorf("%w: %w", ErrOracle, err)
}

// PredictText extracts symptoms from prose and predicts. When nothing is
// recognized the text is treated as a comma separated symptom list, of which
// only the first MaxSymptoms items are kept.
func (p *Predictor) PredictText(ctx context.Context, text string) (PredictionResult, error) {
	text, err := p.limits.SanitizeText(text)
	if err != nil {
		p.metrics.ObservePrediction(metrics.OutcomeInputError, 0)
		return PredictionResult{}, err
	}
	found := p.Extract(text)
	if len(found) == 0 {
		found = strings.Split(text, ",")
		if len(found) > p.limits.MaxSymptoms {
			p.logger.Warn("symptom list truncated",
				logging.Int("items", len(found)),
				logging.Int("kept", p.limits.MaxSymptoms))
			found = found[:p.limits.MaxSymptoms]
		}
	}
	return p.Predict(ctx, found)
}

// Close releases the classifier.
func (p *Predictor) Close() error {
	if p == nil || p.classifier == nil {
		return nil
	}
	return p.classifier.Close()
}

// IsInputError reports whether err was caused by caller input rather than
// by the system.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInputTooLarge)
}
