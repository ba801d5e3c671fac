// Package embed provides the HTTP client for the external embedding and
// summarization capability consumed by the semantic drift detector.
package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"driftscan/internal/contract"
)

// Client speaks an OpenAI-style embeddings API plus a companion
// summarization endpoint. All failure modes surface as errors; the caller
// (the semantic detector) owns degradation policy.
type Client struct {
	endpoint     string
	apiKey       string
	embedModel   string
	summaryModel string
	httpClient   *http.Client
}

var _ contract.Embedder = (*Client)(nil) // Compile-time check

// NewClient builds an embedding client from validated configuration.
// Returns nil when no endpoint is configured, which disables semantic
// analysis without special-casing anywhere else.
func NewClient(cfg *contract.Config) *Client {
	if cfg.EmbedEndpoint == "" {
		return nil
	}
	timeout := cfg.EmbedTimeout
	if timeout <= 0 {
		timeout = contract.DefaultEmbedTimeout
	}
	return &Client{
		endpoint:     cfg.EmbedEndpoint,
		apiKey:       cfg.EmbedAPIKey,
		embedModel:   cfg.EmbedModel,
		summaryModel: cfg.SummaryModel,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

type embedRequest struct {
	Model string   `json:"model,omitempty"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Embed returns one vector per input text.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	var resp embedResponse
	if err := c.post(ctx, "/v1/embeddings", embedRequest{Model: c.embedModel, Input: texts}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding service returned %d vectors for %d texts", len(resp.Data), len(texts))
	}
	out := make([][]float64, len(resp.Data))
	for i, d := range resp.Data {
		out[i] = d.Embedding
	}
	return out, nil
}

type summarizeRequest struct {
	Model     string `json:"model,omitempty"`
	Input     string `json:"input"`
	MaxLength int    `json:"max_length"`
	MinLength int    `json:"min_length"`
}

type summarizeResponse struct {
	Summary string `json:"summary"`
}

// Summarize produces a short summary of text bounded by maxLen/minLen tokens.
func (c *Client) Summarize(ctx context.Context, text string, maxLen, minLen int) (string, error) {
	var resp summarizeResponse
	req := summarizeRequest{Model: c.summaryModel, Input: text, MaxLength: maxLen, MinLength: minLen}
	if err := c.post(ctx, "/v1/summarize", req, &resp); err != nil {
		return "", err
	}
	return resp.Summary, nil
}

// post sends a JSON request and decodes a JSON response.
func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("capability request to %s failed after %s: %w", path, time.Since(start).Round(time.Millisecond), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("capability request to %s failed: status=%d body=%s", path, resp.StatusCode, string(msg))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
