package symptoms

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"yashubustudio/symptomcheck/internal/logging"
)

const envPrefix = "SYMPTOMCHECK"

// Model candidate kinds.
const (
	KindONNX = "onnx"
	KindHTTP = "http"
)

// DataConfig locates the reference data.
type DataConfig struct {
	// Dataset is the training CSV the vocabulary is built from. Ignored when
	// Snapshot is set.
	Dataset  string `mapstructure:"dataset" yaml:"dataset" json:"dataset"`
	Snapshot string `mapstructure:"snapshot" yaml:"snapshot" json:"snapshot"`
	Synonyms string `mapstructure:"synonyms" yaml:"synonyms" json:"synonyms"`

	Descriptions string `mapstructure:"descriptions" yaml:"descriptions" json:"descriptions"`
	Precautions  string `mapstructure:"precautions" yaml:"precautions" json:"precautions"`
	Severity     string `mapstructure:"severity" yaml:"severity" json:"severity"`
}

// Metadata returns the metadata file paths.
func (d DataConfig) Metadata() MetadataPaths {
	return MetadataPaths{Descriptions: d.Descriptions, Precautions: d.Precautions, Severity: d.Severity}
}

// ModelCandidate is one entry of the ordered model fallback list.
type ModelCandidate struct {
	Name       string        `mapstructure:"name" yaml:"name" json:"name"`
	Kind       string        `mapstructure:"kind" yaml:"kind" json:"kind"`
	Path       string        `mapstructure:"path" yaml:"path,omitempty" json:"path,omitempty"`
	Labels     string        `mapstructure:"labels" yaml:"labels,omitempty" json:"labels,omitempty"`
	InputName  string        `mapstructure:"input_name" yaml:"input_name,omitempty" json:"input_name,omitempty"`
	OutputName string        `mapstructure:"output_name" yaml:"output_name,omitempty" json:"output_name,omitempty"`
	URL        string        `mapstructure:"url" yaml:"url,omitempty" json:"url,omitempty"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// ModelConfig lists model candidates in preference order.
type ModelConfig struct {
	OrtLibrary string           `mapstructure:"ort_library" yaml:"ort_library" json:"ort_library"`
	Candidates []ModelCandidate `mapstructure:"candidates" yaml:"candidates" json:"candidates"`
}

// Config aggregates runtime settings.
type Config struct {
	Data    DataConfig     `mapstructure:"data" yaml:"data" json:"data"`
	Model   ModelConfig    `mapstructure:"model" yaml:"model" json:"model"`
	Ranking RankConfig     `mapstructure:"ranking" yaml:"ranking" json:"ranking"`
	Limits  Limits         `mapstructure:"limits" yaml:"limits" json:"limits"`
	Log     logging.Config `mapstructure:"log" yaml:"log" json:"log"`
}

// ApplyDefaults populates zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	c.Ranking.ApplyDefaults()
	c.Limits.ApplyDefaults()
	c.Log.ApplyDefaults()
	for i := range c.Model.Candidates {
		mc := &c.Model.Candidates[i]
		mc.Kind = strings.ToLower(strings.TrimSpace(mc.Kind))
		if mc.Kind == "" {
			mc.Kind = KindONNX
		}
		if mc.Name == "" {
			mc.Name = fmt.Sprintf("%s#%d", mc.Kind, i+1)
		}
	}
}

// Validate checks the settings every command relies on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Data.Dataset) == "" && strings.TrimSpace(c.Data.Snapshot) == "" {
		return configErrorf("data.dataset or data.snapshot is required")
	}
	if err := c.Ranking.Validate(); err != nil {
		return configErrorf("%w", err)
	}
	for _, mc := range c.Model.Candidates {
		switch mc.Kind {
		case KindONNX:
			if mc.Path == "" || mc.Labels == "" {
				return configErrorf("model %s: onnx candidates need path and labels", mc.Name)
			}
		case KindHTTP:
			if mc.URL == "" {
				return configErrorf("model %s: http candidates need url", mc.Name)
			}
		default:
			return configErrorf("model %s: unknown kind %q", mc.Name, mc.Kind)
		}
	}
	return nil
}

// Candidates turns the configured model list into openers for OpenClassifier.
func (c *Config) Candidates() []Candidate {
	out := make([]Candidate, 0, len(c.Model.Candidates))
	for _, mc := range c.Model.Candidates {
		cand := Candidate{Name: mc.Name}
		switch mc.Kind {
		case KindHTTP:
			cand.Open = func(ctx context.Context) (Classifier, error) {
				return NewHTTPClassifier(ctx, HTTPConfig{BaseURL: mc.URL, Timeout: mc.Timeout})
			}
		default:
			ortLib := c.Model.OrtLibrary
			cand.Open = func(context.Context) (Classifier, error) {
				return NewOrtClassifier(OrtConfig{
					SharedLibrary: ortLib,
					ModelPath:     mc.Path,
					LabelsPath:    mc.Labels,
					InputName:     mc.InputName,
					OutputName:    mc.OutputName,
				})
			}
		}
		out = append(out, cand)
	}
	return out
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Registering every scalar key lets environment variables override
	// values that the file leaves out.
	for _, key := range []string{
		"data.dataset", "data.snapshot", "data.synonyms",
		"data.descriptions", "data.precautions", "data.severity",
		"model.ort_library",
		"ranking.pool_size", "ranking.min_results", "ranking.significance",
		"limits.max_symptom_length", "limits.max_symptoms", "limits.max_text_length",
		"log.level", "log.format",
	} {
		v.SetDefault(key, nil)
	}
	return v
}

// LoadConfig reads a YAML file, applies SYMPTOMCHECK_* environment overrides,
// fills defaults and validates. An empty path reads only the environment.
func LoadConfig(path string) (Config, error) {
	v := newViper()
	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, configErrorf("read config %q: %w", path, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, configErrorf("decode config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SaveConfig persists cfg as YAML.
func SaveConfig(path string, cfg Config) error {
	cfg.ApplyDefaults()
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return writeFileAtomic(path, data)
}
