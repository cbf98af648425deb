// Package ollama implements the HTTP client for the model backend.
//
// The wire contract is the Ollama REST API: POST /api/generate with
// {"model","prompt","stream":false} returning a "response" text field, and
// POST /api/embeddings with {"model","prompt"} returning an "embedding"
// vector. Errors surface as transport or status failures; converting them
// into user-visible strings is the invoker's job, not the client's.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// Client talks to a single Ollama server.
// Safe for concurrent use; http.Client handles connection pooling.
type Client struct {
	baseURL    string
	model      string
	embedModel string
	httpClient *http.Client
	logger     *slog.Logger
}

// Config configures a Client.
type Config struct {
	// Host is the base URL of the Ollama server, e.g. "http://localhost:11434".
	Host string

	// Model is the completion model name, e.g. "llama3.2".
	Model string

	// EmbedModel is the embedding model name, e.g. "nomic-embed-text".
	EmbedModel string
}

// NewClient creates a Client. Per-call deadlines come from the caller's
// context; the underlying http.Client carries no global timeout.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.Host, "/"),
		model:      cfg.Model,
		embedModel: cfg.EmbedModel,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Model returns the configured completion model name.
func (c *Client) Model() string { return c.model }

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate sends a completion request and returns the trimmed response text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	payload := generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	}

	var resp generateResponse
	if err := c.post(ctx, "/api/generate", payload, &resp); err != nil {
		return "", err
	}

	c.logger.Debug("model response received", "model", c.model, "length", len(resp.Response))
	return strings.TrimSpace(resp.Response), nil
}

type embeddingsRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embeddingsResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Embed returns the embedding vector for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	payload := embeddingsRequest{
		Model:  c.embedModel,
		Prompt: text,
	}

	var resp embeddingsResponse
	if err := c.post(ctx, "/api/embeddings", payload, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("empty embedding returned by model %q", c.embedModel)
	}

	return resp.Embedding, nil
}

// post sends a JSON request and decodes a JSON response into out.
func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request to %s: %w", path, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Debug("closing response body", "error", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Include a bounded body snippet for diagnosis.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s returned status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", path, err)
	}

	return nil
}
