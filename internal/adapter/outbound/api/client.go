// Package api implements the HTTP client for the SmartFarmer REST
// backend. All portal traffic goes through the one doRequest path:
// bearer authorization, request ids, canonical envelope decoding, and
// the error taxonomy live here and nowhere else.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout is the default per-request timeout.
const DefaultTimeout = 15 * time.Second

// TokenSource supplies the current bearer token, or "" when anonymous.
type TokenSource func() string

// Client talks to the SmartFarmer backend. It is safe for concurrent
// use. The client knows nothing about caching; it only honors the wire
// contract and classifies failures.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	token      TokenSource

	// onAuthReject is invoked once per 401/403 response, before the
	// AuthError is returned, so the session and caches are already
	// cleared by the time callers branch on the error.
	onAuthReject func()

	logger *slog.Logger
}

// NewClient creates a Client for the given base URL.
func NewClient(baseURL string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
		token:   func() string { return "" },
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c
}

// errorEnvelope is the backend's failure body shape.
type errorEnvelope struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// doRequest performs an HTTP request against the backend and decodes
// the response into result when non-nil.
func (c *Client) doRequest(ctx context.Context, method, path string, body any, result any) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if tok := c.token(); tok != "" {
		httpReq.Header.Set("Authorization", "Bearer "+tok)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("X-Request-ID", requestID)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &UnreachableError{Cause: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return c.classifyFailure(httpResp.StatusCode, respBody, method, path, requestID)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}

// duplicateKeyRe extracts the field name from a Mongo duplicate-key
// message, e.g. `E11000 ... index: aadhaarNumber_1 dup key`.
var duplicateKeyRe = regexp.MustCompile(`index:\s*([A-Za-z0-9]+)_\d+`)

// classifyFailure maps a non-2xx response onto the error taxonomy.
func (c *Client) classifyFailure(status int, body []byte, method, path, requestID string) error {
	var env errorEnvelope
	_ = json.Unmarshal(body, &env)
	message := env.Message
	if message == "" {
		message = env.Error
	}
	if message == "" {
		message = strings.TrimSpace(string(body))
	}
	if message == "" {
		message = http.StatusText(status)
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		c.logger.Warn("authentication rejected",
			"method", method, "path", path, "status", status, "request_id", requestID)
		if c.onAuthReject != nil {
			c.onAuthReject()
		}
		return &AuthError{Status: status, Message: message}

	case isDuplicateKeyMessage(message):
		return &ConflictError{Field: duplicateField(message), Message: message}

	default:
		c.logger.Debug("request failed",
			"method", method, "path", path, "status", status, "request_id", requestID)
		return &APIError{Status: status, Message: message}
	}
}

// isDuplicateKeyMessage recognizes the backend's duplicate unique-index
// failure, which it reports as a 500 with a Mongo error message.
func isDuplicateKeyMessage(message string) bool {
	return strings.Contains(message, "E11000") || strings.Contains(message, "duplicate key")
}

func duplicateField(message string) string {
	if m := duplicateKeyRe.FindStringSubmatch(message); m != nil {
		return m[1]
	}
	return ""
}
