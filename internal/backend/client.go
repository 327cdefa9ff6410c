// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the chat service client.
type ClientError struct {
	Type    ErrorType
	Op      string
	Status  int
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeStatus
	ErrTypeDecode
	ErrTypeInvalid
	ErrTypeRateLimit
)

// String returns the error type name.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeConnection:
		return "connection"
	case ErrTypeStatus:
		return "status"
	case ErrTypeDecode:
		return "decode"
	case ErrTypeInvalid:
		return "invalid"
	case ErrTypeRateLimit:
		return "rate_limit"
	default:
		return "unknown"
	}
}

// IsConnectionError reports whether err means the service was unreachable.
func IsConnectionError(err error) bool {
	return isType(err, ErrTypeConnection)
}

// IsStatusError reports whether err is a non-2xx response.
func IsStatusError(err error) bool {
	return isType(err, ErrTypeStatus)
}

// IsDecodeError reports whether err is a malformed response body.
func IsDecodeError(err error) bool {
	return isType(err, ErrTypeDecode)
}

func isType(err error, t ErrorType) bool {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Type == t
	}
	return false
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// DefaultBaseURL is the listen address of a locally run chat service.
const DefaultBaseURL = "http://127.0.0.1:5000"

// ClientConfig holds configuration options for the chat service client.
type ClientConfig struct {
	// BaseURL is the service root (default: http://127.0.0.1:5000)
	BaseURL string

	// Timeout bounds each request. Zero means no client-side timeout.
	Timeout time.Duration

	// RequestsPerSecond paces outgoing requests. Zero disables pacing.
	RequestsPerSecond float64

	// Burst is the limiter bucket size (default: 1 when pacing is on)
	Burst int

	// HTTPClient overrides the underlying client, mostly for tests.
	HTTPClient *http.Client
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: DefaultBaseURL,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the support chat service.
//
// The Client is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.RequestsPerSecond > 0 && config.Burst <= 0 {
		config.Burst = 1
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	c := &Client{
		config:     config,
		httpClient: httpClient,
	}
	if config.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst)
	}
	return c
}

// BaseURL returns the configured service root.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Chat posts the user input and returns the bot reply.
func (c *Client) Chat(ctx context.Context, input string) (*ChatResponse, error) {
	const op = "chat"

	var result ChatResponse
	if err := c.post(ctx, op, "/chat", ChatRequest{UserInput: input}, &result); err != nil {
		return nil, err
	}
	if result.Response == nil {
		return nil, &ClientError{Type: ErrTypeInvalid, Op: op, Message: "response field missing"}
	}
	return &result, nil
}

// Feedback records a rating for one bot reply. Any 2xx counts as success;
// the response body is not read.
func (c *Client) Feedback(ctx context.Context, fb FeedbackRequest) error {
	return c.post(ctx, "feedback", "/feedback", fb, nil)
}

// Reset asks the service to drop its conversation history.
// The request has an empty body; the response must still be valid JSON.
func (c *Client) Reset(ctx context.Context) error {
	var result StatusResponse
	return c.post(ctx, "reset", "/reset", nil, &result)
}

// post sends body (nil for an empty body) as JSON and decodes the reply into
// out. A nil out discards the reply body.
func (c *Client) post(ctx context.Context, op, path string, body any, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &ClientError{Type: ErrTypeRateLimit, Op: op, Message: "rate limiter wait failed", Cause: err}
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &ClientError{Type: ErrTypeInvalid, Op: op, Message: "failed to marshal request", Cause: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, reader)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Op: op, Message: "failed to create request", Cause: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Op: op, Message: "service unreachable", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(op, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ClientError{Type: ErrTypeDecode, Op: op, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// statusError builds a ClientError for a non-2xx response, preferring the
// service's own {"error": ...} message when present.
func statusError(op string, resp *http.Response) error {
	ce := &ClientError{
		Type:    ErrTypeStatus,
		Op:      op,
		Status:  resp.StatusCode,
		Message: fmt.Sprintf("unexpected status %s", resp.Status),
	}

	var svcErr ServiceError
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &svcErr); err == nil && svcErr.Error != "" {
		ce.Message = fmt.Sprintf("%s (status %d)", svcErr.Error, resp.StatusCode)
	}
	return ce
}
