// Package cli wires the symptomcheck command tree.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"yashubustudio/symptomcheck/internal/logging"
	"yashubustudio/symptomcheck/internal/metrics"
	"yashubustudio/symptomcheck/symptoms"
)

// Version is injected at build time.
var Version = "dev"

type rootOptions struct {
	configPath  string
	logLevel    string
	logFormat   string
	metricsFile string
}

// app carries what every subcommand shares.
type app struct {
	opts    rootOptions
	logger  logging.Logger
	metrics *metrics.Metrics

	// logFlags is set when the log level or format came from the command line,
	// which then takes precedence over the config file.
	logFlags bool
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{logger: logging.NewNop()}
	cmd := &cobra.Command{
		Use:           "symptomcheck",
		Short:         "Map symptom descriptions to a ranked differential diagnosis",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := logging.New(logging.Config{Level: a.opts.logLevel, Format: a.opts.logFormat})
			if err != nil {
				return err
			}
			a.logger = logger
			a.logFlags = cmd.Flags().Changed("log-level") || cmd.Flags().Changed("log-format")
			a.metrics = metrics.New()
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			_ = a.logger.Sync()
			if err := a.metrics.WriteTextfile(a.opts.metricsFile); err != nil {
				return fmt.Errorf("write metrics: %w", err)
			}
			return nil
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringVarP(&a.opts.configPath, "config", "c", "", "YAML config file (env SYMPTOMCHECK_* overrides)")
	pf.StringVar(&a.opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVar(&a.opts.logFormat, "log-format", "console", "log format (console, json)")
	pf.StringVar(&a.opts.metricsFile, "metrics-textfile", "", "write prometheus metrics to this file on exit")

	cmd.AddCommand(
		newPredictCmd(a),
		newExtractCmd(a),
		newValidateCmd(a),
		newBatchCmd(a),
		newVocabCmd(a),
		newFeaturesCmd(a),
		newConfigCmd(a),
	)
	return cmd
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "symptomcheck:", err)
		os.Exit(1)
	}
}

func (a *app) loadConfig() (symptoms.Config, error) {
	cfg, err := symptoms.LoadConfig(a.opts.configPath)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if !a.logFlags {
		logger, err := logging.New(cfg.Log)
		if err != nil {
			return cfg, err
		}
		a.logger = logger
	}
	return cfg, nil
}

func (a *app) openPredictor(ctx context.Context) (*symptoms.Predictor, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	p, err := symptoms.Open(ctx, cfg, a.logger, a.metrics)
	if err != nil {
		return nil, fmt.Errorf("init predictor: %w", err)
	}
	return p, nil
}

// openExtractor loads just what extraction and validation need, without a model.
func (a *app) openExtractor() (*symptoms.Vocabulary, *symptoms.Extractor, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	vocab, err := symptoms.LoadVocabulary(cfg.Data)
	if err != nil {
		return nil, nil, err
	}
	synonyms, err := symptoms.LoadSynonyms(cfg.Data.Synonyms)
	if err != nil {
		return nil, nil, err
	}
	return vocab, symptoms.NewExtractor(vocab, synonyms), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
