package symptoms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"
)

// HTTPConfig points at a model service exposing GET /metadata and
// POST /predict.
type HTTPConfig struct {
	BaseURL string
	Timeout time.Duration
}

type httpMetadata struct {
	Labels    []string `json:"labels"`
	InputSize int      `json:"input_size"`
}

type httpPredictRequest struct {
	Features []float32 `json:"features"`
}

type httpPredictResponse struct {
	Labels        []string  `json:"labels"`
	Probabilities []float64 `json:"probabilities"`
}

// HTTPClassifier delegates scoring to a remote model service.
type HTTPClassifier struct {
	baseURL    string
	httpClient *http.Client
	labels     []string
	size       int
}

// NewHTTPClassifier fetches the service metadata and returns a client bound
// to it.
func NewHTTPClassifier(ctx context.Context, cfg HTTPConfig) (*HTTPClassifier, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, configErrorf("model service url is empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &HTTPClassifier{baseURL: base, httpClient: &http.Client{Timeout: timeout}}

	var meta httpMetadata
	if err := c.do(ctx, http.MethodGet, "/metadata", nil, &meta); err != nil {
		return nil, fmt.Errorf("fetch model metadata: %w", err)
	}
	if meta.InputSize <= 0 || len(meta.Labels) == 0 {
		return nil, fmt.Errorf("%w: model service metadata is incomplete", ErrIncompatibleModel)
	}
	c.labels = meta.Labels
	c.size = meta.InputSize
	return c, nil
}

// PredictProba posts features and maps the reply onto the declared labels.
// A reply that names its own labels must repeat the declared ones in order.
func (c *HTTPClassifier) PredictProba(ctx context.Context, features []float32) ([]LabelProbability, error) {
	if len(features) != c.size {
		return nil, fmt.Errorf("feature vector has %d entries, model expects %d", len(features), c.size)
	}
	var resp httpPredictResponse
	if err := c.do(ctx, http.MethodPost, "/predict", httpPredictRequest{Features: features}, &resp); err != nil {
		return nil, err
	}
	labels := c.labels
	if len(resp.Labels) > 0 && !slices.Equal(resp.Labels, c.labels) {
		return nil, fmt.Errorf("model service labels %v differ from declared %v", resp.Labels, c.labels)
	}
	if len(labels) != len(resp.Probabilities) {
		return nil, fmt.Errorf("model service returned %d labels and %d probabilities", len(labels), len(resp.Probabilities))
	}
	out := make([]LabelProbability, len(labels))
	for i, label := range labels {
		out[i] = LabelProbability{Label: label, Probability: resp.Probabilities[i]}
	}
	return out, nil
}

func (c *HTTPClassifier) do(ctx context.Context, method, path string, body, into any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call model service: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("model service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// InputSize is the feature count declared by the service.
func (c *HTTPClassifier) InputSize() int { return c.size }

// Labels returns a copy of the declared class labels.
func (c *HTTPClassifier) Labels() []string { return append([]string{}, c.labels...) }

// Close releases idle connections.
func (c *HTTPClassifier) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
