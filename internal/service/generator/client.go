package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/osintsev/tweetgen/internal/logger"
)

const (
	CodeRetryAfter   = "retry-after"
	CodeUnauthorized = "unauthorized"
	CodeEmpty        = "empty"
	CodeUnknown      = "unknown"
)

const (
	defaultModel     = "gpt-4o-mini"
	defaultMaxTokens = 1000
	requestTimeout   = 60 * time.Second
)

type GeneratorError struct {
	Code string

	RetryAfter time.Duration
	Err        error
}

func (ge *GeneratorError) Error() string {
	return fmt.Sprintf("code: %s, retry_after: %d, error: %v", ge.Code, ge.RetryAfter, ge.Err)
}

func NewGeneratorError(code string, retryAfter int, err error) *GeneratorError {
	return &GeneratorError{
		Code:       code,
		RetryAfter: time.Duration(retryAfter) * time.Second,
		Err:        err,
	}
}

// Completion request and response in OpenAI chat completions format.
// Only the fields this client actually sends and reads.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type Config struct {
	// Base address of an OpenAI compatible completions API
	Addr string

	APIKey string

	// Model name to request. Default is used if empty
	Model string

	MaxTokens int
}

type Client struct {
	addr      string
	apiKey    string
	model     string
	maxTokens int

	client *http.Client
	logger logger.Logger
}

func NewClient(cfg Config, logger logger.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = defaultMaxTokens
	}

	return &Client{
		addr:      strings.TrimRight(cfg.Addr, "/"),
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		client:    &http.Client{},
		logger:    logger,
	}
}

// Complete sends one system+user message pair and returns the raw model text
func (c *Client) Complete(ctx context.Context, system string, user string, temperature float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", NewGeneratorError(CodeUnknown, 0, fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.addr+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", NewGeneratorError(CodeUnknown, 0, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", NewGeneratorError(CodeUnknown, 0, fmt.Errorf("failed to send request: %w", err))
	}
	defer resp.Body.Close() // nolint:errcheck

	switch resp.StatusCode {
	case http.StatusOK:
		return c.processSuccess(resp)
	case http.StatusTooManyRequests:
		return c.processTooManyRequests(resp)
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", NewGeneratorError(CodeUnauthorized, 0, fmt.Errorf("generator rejected credentials with status %d", resp.StatusCode))
	default:
		c.logger.Warn("Failed to complete request", "status_code", resp.StatusCode)
		return "", NewGeneratorError(CodeUnknown, 0, fmt.Errorf("unknown status code %d", resp.StatusCode))
	}
}

func (c *Client) processSuccess(resp *http.Response) (string, error) {
	var r chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		c.logger.Warn("Failed to decode response", "error", err)
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(r.Choices) == 0 {
		return "", NewGeneratorError(CodeEmpty, 0, fmt.Errorf("response has no choices"))
	}

	c.logger.Debug("Completion response", "length", len(r.Choices[0].Message.Content))
	return r.Choices[0].Message.Content, nil
}

func (c *Client) processTooManyRequests(resp *http.Response) (string, error) {
	header := resp.Header.Get("Retry-After")
	retryAfter, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil {
		retryAfter = 60 // default to 60 seconds if parsing fails
	}

	c.logger.Warn("Generator throttled", "retry_after", retryAfter)
	return "", NewGeneratorError(CodeRetryAfter, retryAfter, fmt.Errorf("retry after %d seconds", retryAfter))
}
