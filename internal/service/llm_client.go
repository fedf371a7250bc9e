package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// TextGenerator is the opaque text-generation collaborator: it accepts a
// prompt and returns unstructured text.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// LLMClientConfig configures the chat-completions client.
type LLMClientConfig struct {
	BaseURL string // e.g. "https://api.openai.com/v1"
	APIKey  string
	Model   string
	Timeout time.Duration // default 120s
}

// LLMClient calls an OpenAI-compatible chat completions API.
type LLMClient struct {
	cfg        LLMClientConfig
	httpClient *http.Client
	logger     *slog.Logger
}

// NewLLMClient creates a text-generation client.
func NewLLMClient(cfg LLMClientConfig, logger *slog.Logger) *LLMClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &LLMClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Complete sends the prompt and returns the raw completion text.
func (c *LLMClient) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]any{
		"model": c.cfg.Model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": 0.4,
		"max_tokens":  1024,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read completion response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("completion API returned non-200",
			"status", resp.StatusCode,
			"model", c.cfg.Model,
			"elapsed", time.Since(start).String(),
		)
		return "", fmt.Errorf("completion API status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion response has no choices")
	}

	c.logger.Debug("completion succeeded",
		"model", c.cfg.Model,
		"elapsed", time.Since(start).String(),
	)
	return parsed.Choices[0].Message.Content, nil
}
