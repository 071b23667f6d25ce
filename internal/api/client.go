// Package api provides the HTTP client for the CareMate backend.
// All requests go through a single pipeline that injects the bearer token and
// tears the session down on a 401.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/caremate-dev/caremate/internal/log"
)

// Credentials supplies the bearer token for outgoing requests and clears the
// persisted session when the server reports it invalid. The session store
// implements this; the client never reaches into ambient storage itself.
type Credentials interface {
	Token() string
	Clear() error
}

// Client talks to the CareMate REST API.
type Client struct {
	baseURL string
	http    *http.Client
	creds   Credentials

	mu             sync.Mutex
	onUnauthorized func()
	events         *log.Logger
}

// New creates a Client for the given base URL (e.g. "http://localhost:5000/api").
// creds may be nil for unauthenticated use.
func New(baseURL string, creds Credentials) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// No client-side timeout: an unresponsive backend stalls the caller,
		// cancellation is the caller's job via ctx.
		http:  &http.Client{},
		creds: creds,
	}
}

// OnUnauthorized registers fn to run after a 401 has cleared the session.
// The TUI uses this to navigate back to the login view.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

// SetEventLog attaches an event logger for failed requests.
func (c *Client) SetEventLog(events *log.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = events
}

// Get issues a GET request and decodes the response into out (may be nil).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT request with a JSON body and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}

	requestID := uuid.New().String()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.creds != nil {
		if token := c.creds.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("api: read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.handleUnauthorized()
		return newError(resp.StatusCode, data, requestID)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newError(resp.StatusCode, data, requestID)
		c.logFailure(method, path, resp.StatusCode, requestID, apiErr.Message)
		return apiErr
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("api: decode response: %w", err)
		}
	}

	return nil
}

// handleUnauthorized clears the persisted session and notifies the registered
// callback. The 401 error is still returned to the caller afterwards.
func (c *Client) handleUnauthorized() {
	if c.creds != nil {
		_ = c.creds.Clear()
	}

	c.mu.Lock()
	fn := c.onUnauthorized
	events := c.events
	c.mu.Unlock()

	if events != nil {
		_ = events.Append(log.LogEvent{Event: log.EventSessionExpired})
	}
	if fn != nil {
		fn()
	}
}

func (c *Client) logFailure(method, path string, status int, requestID, msg string) {
	c.mu.Lock()
	events := c.events
	c.mu.Unlock()
	if events == nil {
		return
	}
	_ = events.Append(log.LogEvent{
		Event:     log.EventRequestFailed,
		Method:    method,
		Path:      path,
		Status:    status,
		RequestID: requestID,
		Error:     msg,
	})
}
