// Package anthropic is a minimal client for the Anthropic Messages API used
// by the translation engine.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"wandlung/internal/services/llm"
)

const (
	providerName       = "anthropic"
	defaultBaseURL     = "https://api.anthropic.com/v1"
	defaultAPIVersion  = "2023-06-01"
	defaultHTTPTimeout = 120 * time.Second
)

// Config captures the static client settings. The API key is supplied per
// call through WithAPIKey because it lives in the settings row.
type Config struct {
	BaseURL           string
	Model             string
	APIVersion        string
	TimeoutSeconds    int
	RequestsPerMinute int
}

// Client issues Messages API requests.
type Client struct {
	cfg        Config
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New constructs a client. Requests are paced to RequestsPerMinute; zero or
// negative disables pacing.
func New(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.APIVersion = strings.TrimSpace(cfg.APIVersion)
	if cfg.APIVersion == "" {
		cfg.APIVersion = defaultAPIVersion
	}
	cfg.Model = strings.TrimSpace(cfg.Model)

	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
	}
	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// WithAPIKey returns a client that authenticates with key. The copy shares
// the rate limiter and HTTP client with c.
func (c *Client) WithAPIKey(key string) *Client {
	clone := *c
	clone.apiKey = strings.TrimSpace(key)
	return &clone
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.cfg.Model }

type messagesRequest struct {
	Model       string        `json:"model"`
	System      string        `json:"system,omitempty"`
	Messages    []llm.Message `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Error      *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the conversation and returns the text of the assistant reply.
func (c *Client) Complete(ctx context.Context, req llm.Completion) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("anthropic: api key required")
	}
	if len(req.Messages) == 0 {
		return "", errors.New("anthropic: at least one message required")
	}
	if req.MaxTokens <= 0 {
		return "", errors.New("anthropic: max tokens must be positive")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("anthropic: rate limiter: %w", err)
	}

	encoded, err := json.Marshal(messagesRequest{
		Model:       c.cfg.Model,
		System:      req.System,
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: encode body: %w", err)
	}
	endpoint, err := url.JoinPath(c.cfg.BaseURL, "messages")
	if err != nil {
		return "", fmt.Errorf("anthropic: build url: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("anthropic: new request: %w", err)
	}
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", c.cfg.APIVersion)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("anthropic: http error (timeout=%s): %w", c.httpClient.Timeout, err)
	}
	defer resp.Body.Close()
	if err := llm.CheckResponse(providerName, resp); err != nil {
		return "", err
	}

	var decoded messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("anthropic: decode response: %w", err)
	}
	if decoded.Error != nil {
		return "", fmt.Errorf("anthropic: api error %s: %s", decoded.Error.Type, strings.TrimSpace(decoded.Error.Message))
	}
	var text strings.Builder
	for _, block := range decoded.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("anthropic: empty content (stop_reason=%q)", decoded.StopReason)
	}
	return text.String(), nil
}
