// Copyright (c) 2025 Carewell Health
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the Carewell service.
//
// The client attaches bearer credentials to user-scoped requests, carries
// the shared-secret admin key on admin requests, and normalizes every
// transport or server failure into a single human-readable message so the
// calling state machines never see a raw structured body.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/carewell-health/carewell-tui/internal/util"
)

// Configuration constants for the Carewell API.
const (
	// DefaultTimeout is the default per-request timeout.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// Response size limit prevents memory exhaustion on a hostile server.
	MaxResponseSize = 4 * 1024 * 1024 // 4MB

	// adminKeyHeader carries the shared admin secret. It is a separate
	// scheme from the bearer credential and the two are never conflated.
	adminKeyHeader = "X-ADMIN-KEY"

	// requestsPerSecond caps the client-side request rate.
	requestsPerSecond = 5
)

// Error variables for common failure classes.
var (
	// ErrNetwork indicates no usable response reached the client
	// (timeout, DNS failure, connection refused).
	ErrNetwork = errors.New("network error")

	// ErrUnauthorized indicates a 401/403 response on a gated endpoint.
	ErrUnauthorized = errors.New("unauthorized")
)

// networkErrorMessage is the guaranteed non-empty fallback display text.
const networkErrorMessage = "Network error"

// =============================================================================
// ERROR NORMALIZATION
// =============================================================================

// APIError represents a non-2xx response from the service. Message is the
// normalized human-readable text derived from the response body.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("carewell API error (HTTP %d): %s", e.Status, e.Message)
}

// Unwrap maps authorization failures onto ErrUnauthorized so callers can
// use errors.Is without inspecting status codes.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden {
		return ErrUnauthorized
	}
	return nil
}

// errorBody is the set of message fields recognized in error responses.
// Some endpoints return {message}, others {msg} or {error}.
type errorBody struct {
	Message string `json:"message"`
	Msg     string `json:"msg"`
	Err     string `json:"error"`
}

// normalizeBody derives a display message from an untyped error body,
// trying the recognized field names in priority order, then the stringified
// body, then a generic status fallback. Total: never returns "".
func normalizeBody(status int, body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed != "" {
		var eb errorBody
		if err := json.Unmarshal(body, &eb); err == nil {
			if msg := util.FirstNonEmpty(eb.Message, eb.Msg, eb.Err); msg != "" {
				return msg
			}
		}
		// A bare JSON string is its own message.
		var s string
		if err := json.Unmarshal(body, &s); err == nil && strings.TrimSpace(s) != "" {
			return s
		}
		return util.TruncateRunes(trimmed, 200)
	}
	return fmt.Sprintf("Request failed (HTTP %d)", status)
}

// Normalize converts any error from this package into a single
// human-readable message suitable for direct display. It never returns an
// empty string for a non-nil error.
func Normalize(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, ErrNetwork) {
		return networkErrorMessage
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return networkErrorMessage
}

// =============================================================================
// CLIENT
// =============================================================================

// TokenSource supplies the current bearer credential. The session store
// implements it; the client reads the credential but does not own it.
type TokenSource interface {
	Token() string
}

// Client is the HTTP client for the Carewell service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	limiter    *rate.Limiter
	logger     *log.Logger
}

// New creates a client for the service at baseURL. Requests time out after
// timeout; a timeout surfaces as ErrNetwork.
func New(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		logger:     log.Default(),
	}
}

// WithLogger sets the diagnostics logger.
func (c *Client) WithLogger(l *log.Logger) *Client {
	if l != nil {
		c.logger = l
	}
	return c
}

// BaseURL returns the configured service base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// logFailure records a failed request for diagnostics. Logging is
// best-effort and must never block the normalized error from propagating.
func (c *Client) logFailure(method, path string, status int, detail string) {
	defer func() { _ = recover() }()
	c.logger.Printf("API error: %s %s status=%d %s", method, path, status, util.TruncateRunes(detail, 300))
}

// do performs one request and returns the raw response body. All non-2xx
// responses become *APIError; all transport failures wrap ErrNetwork.
func (c *Client) do(ctx context.Context, method, path string, body any, extraHeaders map[string]string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	// Bearer credential is attached only when one is present.
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logFailure(method, path, 0, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		c.logFailure(method, path, resp.StatusCode, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logFailure(method, path, resp.StatusCode, string(raw))
		return nil, &APIError{Status: resp.StatusCode, Message: normalizeBody(resp.StatusCode, raw)}
	}

	return raw, nil
}

// adminHeaders builds the extra headers for admin endpoints. The key is a
// shared secret independent of the user credential.
func adminHeaders(key string) map[string]string {
	if key == "" {
		return nil
	}
	return map[string]string{adminKeyHeader: key}
}

// decode unmarshals a response body, tolerating empty bodies when out is nil.
func decode(raw []byte, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
