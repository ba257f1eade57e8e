// Package erp is the typed REST client for the ERP backend that owns all real
// business logic. Responses arrive wrapped in a {success, data, message}
// envelope; an unsuccessful envelope becomes an *APIError carrying the backend
// message verbatim.
package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

// APIError is a backend rejection: either an unsuccessful envelope or a bare
// non-2xx response. Error() is the backend's own message so the UI can show it
// unmodified.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// Client talks to one ERP backend. Session auth is injected as a bearer token
// by the (out-of-scope) session collaborator; the client only forwards it.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
	logger  *zap.Logger
}

// NewClient builds a client for the given base URL. A nil logger disables
// client-side logging.
func NewClient(baseURL, token string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpc:   &http.Client{Timeout: defaultTimeout},
		logger:  logger,
	}
}

// NewClientFromEnv builds a client from ERP_BASE_URL and (optionally)
// ERP_SESSION_TOKEN.
func NewClientFromEnv(logger *zap.Logger) (*Client, error) {
	baseURL := os.Getenv("ERP_BASE_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("ERP_BASE_URL environment variable not set")
	}
	return NewClient(baseURL, os.Getenv("ERP_SESSION_TOKEN"), logger), nil
}

// envelope is the uniform response wrapper used by every JSON endpoint.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// do issues one request and unwraps the response envelope into out. Transport
// errors are wrapped and returned as-is; the workflow treats them exactly like
// backend rejections. Requests are never retried here: the confirmation POSTs
// may have committed server-side even when the response was lost.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		// Not an envelope at all; fall back to the HTTP status.
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		c.logger.Debug("backend rejected request",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg),
		)
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data from %s: %w", path, err)
	}
	return nil
}
