// Package inference provides the HTTP client for the external
// text-classification service that scores clinical reports.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/linnemanlabs/radalert/internal/classify"
)

const httpTimeout = 30 * time.Second

// Client implements classify.Classifier against an HTTP inference
// endpoint serving a text-classification model.
type Client struct {
	endpoint   string
	model      string
	httpClient *http.Client
}

// New creates a new inference client for the given endpoint and model name.
func New(endpoint, model string) *Client {
	return &Client{
		endpoint: endpoint,
		model:    model,
		httpClient: &http.Client{
			Timeout: httpTimeout,
		},
	}
}

// request is the payload sent to the inference service.
type request struct {
	Model      string     `json:"model,omitempty"`
	Inputs     string     `json:"inputs"`
	Parameters parameters `json:"parameters"`
}

type parameters struct {
	Truncation bool `json:"truncation"`
}

// prediction is a single label/score pair returned by the service.
type prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify sends the excerpt to the inference service and normalizes the
// top prediction to the pipeline's critical/routine labels.
func (c *Client) Classify(ctx context.Context, text string) (classify.Result, error) {
	body, err := json.Marshal(request{
		Model:      c.model,
		Inputs:     text,
		Parameters: parameters{Truncation: true},
	})
	if err != nil {
		return classify.Result{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return classify.Result{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return classify.Result{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return classify.Result{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return classify.Result{}, fmt.Errorf("inference error %d: %s", resp.StatusCode, string(respBody))
	}

	top, err := topPrediction(respBody)
	if err != nil {
		return classify.Result{}, err
	}

	return normalize(top), nil
}

// topPrediction decodes the service response, accepting both the flat
// ([{label,score}]) and nested ([[{label,score}]]) shapes the pipeline
// serving stack emits.
func topPrediction(body []byte) (prediction, error) {
	var flat []prediction
	if err := json.Unmarshal(body, &flat); err == nil && len(flat) > 0 {
		return flat[0], nil
	}

	var nested [][]prediction
	if err := json.Unmarshal(body, &nested); err == nil && len(nested) > 0 && len(nested[0]) > 0 {
		return nested[0][0], nil
	}

	return prediction{}, fmt.Errorf("inference response has no predictions: %s", string(body))
}

// normalize maps the model's raw label to the pipeline's labels. The
// clinical model emits "Crítico"/"No crítico"; anything that is not the
// critical label is routine.
func normalize(p prediction) classify.Result {
	label := strings.ToLower(p.Label)

	if strings.HasPrefix(label, "crítico") || strings.HasPrefix(label, "critico") ||
		label == classify.LabelCritical {
		return classify.Result{Label: classify.LabelCritical, Confidence: p.Score}
	}
	return classify.Result{Label: classify.LabelRoutine, Confidence: p.Score}
}
