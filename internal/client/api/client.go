package api

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

	"github.com/rs/zerolog"
)

// TokenSource supplies the bearer token for outgoing requests. An empty
// token sends no Authorization header.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

// Token calls f.
func (f TokenFunc) Token() string { return f() }

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokenSource attaches a bearer token to every request that ts has one for.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// Client talks JSON to the clinic REST API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  zerolog.Logger
}

// maxErrorBody caps how much of a failed response is read for its message.
const maxErrorBody = 4096

// New returns a client for the API rooted at baseURL, e.g.
// http://localhost:8000/api.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Do sends body as JSON and decodes a 2xx response into out when both are
// non-nil. Non-2xx responses and transport failures return a
// *RequestFailedError; an undecodable 2xx body returns a
// *MalformedResponseError. The response headers are returned on success.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) (http.Header, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return nil, &RequestFailedError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &RequestFailedError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(raw),
		}
	}

	if out == nil {
		return resp.Header, nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestFailedError{Method: method, Path: path, StatusCode: resp.StatusCode, Err: err}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return resp.Header, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, &MalformedResponseError{Reason: fmt.Sprintf("decode %s %s", method, path), Err: err}
	}
	return resp.Header, nil
}

// errorMessage extracts detail or message from an error body, falling back
// to the trimmed body text.
func errorMessage(raw []byte) string {
	var body struct {
		Detail  json.RawMessage `json:"detail"`
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		for _, field := range []json.RawMessage{body.Detail, body.Message} {
			if len(field) == 0 {
				continue
			}
			var s string
			if json.Unmarshal(field, &s) == nil {
				return s
			}
			return string(field)
		}
	}
	return strings.TrimSpace(string(raw))
}

// IsStatus reports whether err is a RequestFailedError with the given status.
func IsStatus(err error, status int) bool {
	var rf *RequestFailedError
	return errors.As(err, &rf) && rf.StatusCode == status
}
