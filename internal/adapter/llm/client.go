package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xiaot623/gogo/council/internal/domain"
)

const (
	// DefaultHostedTimeout bounds a call to the hosted gateway.
	DefaultHostedTimeout = 600 * time.Second
	// DefaultLocalTimeout bounds a call to the local server.
	DefaultLocalTimeout = 120 * time.Second

	maxErrorBody = 400
)

// Client is an OpenAI-compatible chat completions client for one backend.
type Client struct {
	name       string
	kind       domain.BackendKind
	endpoint   string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for failure diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client that posts to endpoint, the full chat
// completions URL. A zero timeout falls back to the backend kind's default.
func NewClient(name string, kind domain.BackendKind, endpoint, apiKey string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout(kind)
	}
	c := &Client{
		name:       name,
		kind:       kind,
		endpoint:   strings.TrimSpace(endpoint),
		apiKey:     apiKey,
		timeout:    timeout,
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewHostedClient creates the client for the hosted multi-provider gateway.
func NewHostedClient(endpoint, apiKey string, timeout time.Duration, opts ...Option) *Client {
	return NewClient("openrouter", domain.BackendHosted, endpoint, apiKey, timeout, opts...)
}

// NewLocalClient creates the client for the local OpenAI-compatible server.
// The Authorization header is omitted when apiKey is empty.
func NewLocalClient(endpoint, apiKey string, timeout time.Duration, opts ...Option) *Client {
	return NewClient("local", domain.BackendLocal, endpoint, apiKey, timeout, opts...)
}

func defaultTimeout(kind domain.BackendKind) time.Duration {
	if kind == domain.BackendLocal {
		return DefaultLocalTimeout
	}
	return DefaultHostedTimeout
}

// Name returns the backend name used in logs.
func (c *Client) Name() string { return c.name }

// Kind returns the backend kind.
func (c *Client) Kind() domain.BackendKind { return c.kind }

// Timeout returns the default per-call timeout.
func (c *Client) Timeout() time.Duration { return c.timeout }

// ChatCompletionRequest is the request body sent to both backends.
type ChatCompletionRequest struct {
	Model    string           `json:"model"`
	Messages []domain.Message `json:"messages"`
}

// ChatCompletionResponse is the subset of the response the council reads.
type ChatCompletionResponse struct {
	Choices []Choice `json:"choices"`
}

// Choice is a completion choice.
type Choice struct {
	Message *ChatMessage `json:"message"`
}

// ChatMessage is the assistant message inside a choice.
type ChatMessage struct {
	Content          *string         `json:"content"`
	ReasoningDetails json.RawMessage `json:"reasoning_details,omitempty"`
}

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// APIError represents the error details.
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Query sends one chat completion request. It never returns an error: every
// failure is logged and reported through the Outcome with a nil Result.
func (c *Client) Query(ctx context.Context, model string, messages []domain.Message, timeout time.Duration) domain.Outcome {
	if timeout <= 0 {
		timeout = c.timeout
	}
	start := time.Now()
	result, err := c.complete(ctx, model, messages, timeout)
	out := domain.Outcome{
		Model:   model,
		Backend: c.kind,
		Result:  result,
		Err:     err,
		Latency: time.Since(start),
	}
	if err != nil {
		c.logger.Warn("backend query failed",
			zap.String("backend", c.name),
			zap.String("endpoint", c.endpoint),
			zap.String("model", model),
			zap.Duration("latency", out.Latency),
			zap.Error(err))
		return out
	}
	c.logger.Debug("backend query succeeded",
		zap.String("backend", c.name),
		zap.String("model", model),
		zap.Duration("latency", out.Latency))
	return out
}

func (c *Client) complete(ctx context.Context, model string, messages []domain.Message, timeout time.Duration) (*domain.QueryResult, error) {
	if messages == nil {
		messages = []domain.Message{}
	}
	body, err := json.Marshal(ChatCompletionRequest{Model: model, Messages: messages})
	if err != nil {
		return nil, c.fail(FailureTransport, model, fmt.Errorf("failed to marshal request: %w", err))
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, c.fail(FailureTransport, model, fmt.Errorf("failed to create request: %w", err))
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.fail(FailureTransport, model, fmt.Errorf("failed to send request: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(FailureTransport, model, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.fail(FailureProtocol, model, &StatusError{Code: resp.StatusCode, Message: errorMessage(respBody)})
	}

	var parsed ChatCompletionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, c.fail(FailureShape, model, fmt.Errorf("failed to unmarshal response: %w", err))
	}
	if len(parsed.Choices) == 0 {
		return nil, c.fail(FailureShape, model, ErrEmptyChoices)
	}
	msg := parsed.Choices[0].Message
	if msg == nil {
		return nil, c.fail(FailureShape, model, ErrMissingMessage)
	}

	return &domain.QueryResult{
		Content:          msg.Content,
		ReasoningDetails: normalizeRaw(msg.ReasoningDetails),
	}, nil
}

func (c *Client) fail(kind FailureKind, model string, err error) error {
	return &QueryError{Kind: kind, Backend: c.name, Model: model, Err: err}
}

// setHeaders sets common request headers.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func errorMessage(body []byte) string {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != nil && errResp.Error.Message != "" {
		if errResp.Error.Type != "" {
			return fmt.Sprintf("%s (type: %s)", errResp.Error.Message, errResp.Error.Type)
		}
		return errResp.Error.Message
	}
	return truncate(strings.TrimSpace(string(body)), maxErrorBody)
}

func normalizeRaw(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return raw
}

func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars]) + "..."
}
