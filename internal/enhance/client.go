// Package enhance asks a hosted language model to add structural markup
// to raw text without changing its wording.
package enhance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the Messages API endpoint.
	DefaultBaseURL = "https://api.anthropic.com/v1/messages"
	// DefaultModel is used when no model is configured.
	DefaultModel = "claude-3-sonnet-20240229"
	// APIVersion is sent as the anthropic-version header.
	APIVersion = "2023-06-01"
	// MaxTokens bounds the length of an enhanced document.
	MaxTokens = 4000

	maxResponseSize = 4 << 20
)

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MessagesRequest is the body sent upstream.
type MessagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []Message `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Request describes one enhancement.
type Request struct {
	Text         string
	Level        Level
	DocumentType DocumentType
}

// Client calls the Messages API.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	cache      Cache
	cacheTTL   time.Duration
	maxRetries int
	backoff    func(attempt int) time.Duration
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithModel selects the Claude model. An empty name keeps DefaultModel.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL points the client at another Messages API endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithCache serves repeated requests from cache for ttl.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// WithMaxRetries sets how often a retryable failure is repeated.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = max(0, n) }
}

// WithLogger sets the logger for retries and cache failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient returns a client authenticating with apiKey.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     strings.TrimSpace(apiKey),
		model:      DefaultModel,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		maxRetries: 2,
		backoff:    Backoff,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the configured model.
func (c *Client) Model() string { return c.model }

// Enhance returns req.Text with structural markup added.
func (c *Client) Enhance(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Text) == "" {
		return "", ErrEmptyContent
	}
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}
	level, doc := ParseLevel(string(req.Level)), ParseDocumentType(string(req.DocumentType))

	key := CacheKey(c.model, level, doc, req.Text)
	if c.cache != nil {
		if v, ok, err := c.cache.Get(ctx, key); err != nil {
			c.logger.Warn("enhancement cache read failed", "error", err)
		} else if ok {
			c.logger.Debug("enhancement served from cache", "level", level, "type", doc)
			return v, nil
		}
	}

	body := MessagesRequest{
		Model:     c.model,
		MaxTokens: MaxTokens,
		System:    SystemPrompt(level, doc),
		Messages:  []Message{{Role: "user", Content: req.Text}},
	}

	var out string
	var err error
	for attempt := 0; ; attempt++ {
		out, err = c.enhanceOnce(ctx, body)
		if err == nil || !IsRetryable(err) || attempt >= c.maxRetries {
			break
		}
		wait := c.backoff(attempt)
		c.logger.Warn("enhancement failed, retrying", "attempt", attempt+1, "wait", wait, "error", err)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(wait):
		}
	}
	if err != nil {
		return "", err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, out, c.cacheTTL); err != nil {
			c.logger.Warn("enhancement cache write failed", "error", err)
		}
	}
	return out, nil
}

func (c *Client) enhanceOnce(ctx context.Context, body MessagesRequest) (string, error) {
	status, raw, err := c.Send(ctx, c.apiKey, body)
	if err != nil {
		return "", err
	}

	var resp messagesResponse
	decodeErr := json.Unmarshal(raw, &resp)
	if status != http.StatusOK {
		msg := string(raw)
		if decodeErr == nil && resp.Error != nil && resp.Error.Message != "" {
			msg = resp.Error.Message
		}
		return "", &APIError{StatusCode: status, Message: msg}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, decodeErr)
	}
	if len(resp.Content) == 0 || strings.TrimSpace(resp.Content[0].Text) == "" {
		return "", ErrMalformedResponse
	}
	return resp.Content[0].Text, nil
}

// Send posts body upstream with apiKey and returns the status and raw
// body unchanged. A missing model defaults to the client's model and a zero
// max_tokens to MaxTokens.
func (c *Client) Send(ctx context.Context, apiKey string, body MessagesRequest) (int, []byte, error) {
	if body.Model == "" {
		body.Model = c.model
	}
	if body.MaxTokens <= 0 {
		body.MaxTokens = MaxTokens
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", apiKey)
	httpReq.Header.Set("anthropic-version", APIVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("enhancement api: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, raw, nil
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
