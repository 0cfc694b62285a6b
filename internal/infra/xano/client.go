// Package xano talks to the hosted ClearLeads backend (a Xano workspace).
// Every call either yields decoded response data or an *APIError carrying the
// upstream message; transport failures collapse into a generic network error.
package xano

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/robertboulos/clearleads/internal/core/port"
	"github.com/robertboulos/clearleads/internal/infra/logger"
	"github.com/robertboulos/clearleads/internal/repository"
)

const maxResponseBytes = 10 << 20

// APIError is the normalized failure envelope for backend calls.
// A zero StatusCode means the request never reached the backend.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("backend: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("backend: %s", e.Message)
}

// IsNetwork reports whether the error represents a transport failure.
func (e *APIError) IsNetwork() bool {
	return e.StatusCode == 0
}

// NetworkErrorMessage is the fixed message used for transport failures.
const NetworkErrorMessage = "Network error occurred"

// Client dispatches all outbound requests to the backend. It attaches the
// stored bearer credential when one exists and invalidates it on any 401.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         port.TokenStore
	log            *zap.Logger
	onUnauthorized func()
}

// Option customises Client construction.
type Option func(*Client)

// WithUnauthorizedHook registers a callback fired after a 401 response has
// cleared the stored credential. The original error still propagates to the
// caller; the hook cannot suppress it.
func WithUnauthorizedHook(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithHTTPClient overrides the underlying HTTP client, mainly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// NewClient builds a backend client with a fixed request deadline.
func NewClient(baseURL string, timeout time.Duration, tokens port.TokenStore, log *zap.Logger, opts ...Option) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	return c.request(ctx, http.MethodGet, path, nil, params)
}

func (c *Client) post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.request(ctx, http.MethodPost, path, body, nil)
}

func (c *Client) patch(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.request(ctx, http.MethodPatch, path, body, nil)
}

func (c *Client) request(ctx context.Context, method, path string, body any, params url.Values) (json.RawMessage, error) {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	token, err := c.tokens.Token()
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("load token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, &APIError{Message: NetworkErrorMessage}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &APIError{Message: NetworkErrorMessage}
	}

	c.log.Debug("backend request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode == http.StatusUnauthorized {
		// Side effect on the shared session: the credential is gone for
		// every in-flight caller, not just this one.
		if clearErr := c.tokens.Clear(); clearErr != nil {
			c.log.Error("failed to clear token after 401", zap.Error(clearErr))
		}
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: upstreamMessage(data, "authentication required")}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: upstreamMessage(data, http.StatusText(resp.StatusCode))}
	}

	return json.RawMessage(data), nil
}

// upstreamMessage pulls a human readable message out of a Xano error body.
func upstreamMessage(data []byte, fallback string) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return fallback
}

func maskedEmailField(email string) zap.Field {
	return zap.String("email", logger.MaskEmail(email))
}

func maskedPhoneField(phone string) zap.Field {
	return zap.String("phone", logger.MaskPhone(phone))
}
