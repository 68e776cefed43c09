package symptoms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// OrtConfig describes an ONNX export of the disease classifier.
type OrtConfig struct {
	SharedLibrary string
	ModelPath     string
	LabelsPath    string
	InputName     string
	OutputName    string
}

func (c *OrtConfig) applyDefaults() {
	if c.InputName == "" {
		c.InputName = "input"
	}
	if c.OutputName == "" {
		c.OutputName = "probabilities"
	}
}

var (
	ortInitOnce sync.Once
	ortInitErr  error
)

func initOrt(sharedLibrary string) error {
	ortInitOnce.Do(func() {
		if sharedLibrary != "" {
			ort.SetSharedLibraryPath(sharedLibrary)
		}
		ortInitErr = ort.InitializeEnvironment()
	})
	return ortInitErr
}

// OrtClassifier runs a single-row ONNX session. Run calls are serialized
// because the session owns its input and output tensors.
type OrtClassifier struct {
	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
	labels  []string
	size    int
}

// NewOrtClassifier loads the model and its labels and allocates the session.
func NewOrtClassifier(cfg OrtConfig) (*OrtClassifier, error) {
	cfg.applyDefaults()
	if cfg.ModelPath == "" {
		return nil, configErrorf("onnx model path is empty")
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, configErrorf("onnx model: %w", err)
	}
	labels, err := LoadLabels(cfg.LabelsPath)
	if err != nil {
		return nil, err
	}
	if err := initOrt(cfg.SharedLibrary); err != nil {
		return nil, fmt.Errorf("init onnxruntime: %w", err)
	}
	inputs, outputs, err := ort.GetInputOutputInfo(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("inspect onnx model: %w", err)
	}
	size, err := lastDim(inputs, cfg.InputName)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: input %q has no fixed feature dimension", ErrIncompatibleModel, cfg.InputName)
	}
	classes, err := lastDim(outputs, cfg.OutputName)
	if err != nil {
		return nil, err
	}
	if classes > 0 && classes != len(labels) {
		return nil, fmt.Errorf("%w: model outputs %d classes, labels file has %d", ErrIncompatibleModel, classes, len(labels))
	}

	in, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(size)))
	if err != nil {
		return nil, fmt.Errorf("allocate input tensor: %w", err)
	}
	out, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(len(labels))))
	if err != nil {
		_ = in.Destroy()
		return nil, fmt.Errorf("allocate output tensor: %w", err)
	}
	session, err := ort.NewAdvancedSession(cfg.ModelPath,
		[]string{cfg.InputName}, []string{cfg.OutputName},
		[]ort.Value{in}, []ort.Value{out}, nil)
	if err != nil {
		_ = in.Destroy()
		_ = out.Destroy()
		return nil, fmt.Errorf("create onnx session: %w", err)
	}
	return &OrtClassifier{session: session, input: in, output: out, labels: labels, size: size}, nil
}

func lastDim(infos []ort.InputOutputInfo, name string) (int, error) {
	for _, info := range infos {
		if info.Name != name {
			continue
		}
		dims := info.Dimensions
		if len(dims) == 0 {
			return 0, fmt.Errorf("%w: tensor %q has no dimensions", ErrIncompatibleModel, name)
		}
		return int(dims[len(dims)-1]), nil
	}
	return 0, fmt.Errorf("%w: model has no tensor named %q", ErrIncompatibleModel, name)
}

// PredictProba copies features into the input tensor and runs the session.
func (o *OrtClassifier) PredictProba(ctx context.Context, features []float32) ([]LabelProbability, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(features) != o.size {
		return nil, fmt.Errorf("feature vector has %d entries, model expects %d", len(features), o.size)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.session == nil {
		return nil, errors.New("onnx classifier is closed")
	}
	copy(o.input.GetData(), features)
	if err := o.session.Run(); err != nil {
		return nil, fmt.Errorf("run onnx session: %w", err)
	}
	probs := o.output.GetData()
	out := make([]LabelProbability, len(o.labels))
	for i, label := range o.labels {
		out[i] = LabelProbability{Label: label, Probability: float64(probs[i])}
	}
	return out, nil
}

// InputSize is the model's feature count.
func (o *OrtClassifier) InputSize() int { return o.size }

// Labels returns a copy of the class labels.
func (o *OrtClassifier) Labels() []string { return append([]string{}, o.labels...) }

// Close releases the session and tensors. It is safe to call twice.
func (o *OrtClassifier) Close() error {
	if o == nil {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	var errs []error
	if o.session != nil {
		errs = append(errs, o.session.Destroy())
		o.session = nil
	}
	if o.input != nil {
		errs = append(errs, o.input.Destroy())
		o.input = nil
	}
	if o.output != nil {
		errs = append(errs, o.output.Destroy())
		o.output = nil
	}
	return errors.Join(errs...)
}

// LoadLabels reads class labels from a JSON string array or, failing that,
// one label per line.
func LoadLabels(path string) ([]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, configErrorf("labels path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, configErrorf("read labels: %w", err)
	}
	var labels []string
	if err := json.Unmarshal(data, &labels); err != nil {
		labels = nil
		for _, line := range strings.Split(string(data), "\n") {
			if line = cleanCell(line); line != "" {
				labels = append(labels, line)
			}
		}
	}
	if len(labels) == 0 {
		return nil, configErrorf("labels file %s is empty", path)
	}
	return labels, nil
}
