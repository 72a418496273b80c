// Package gateway is the single chokepoint for calls to the remote
// interview-scheduling backend. It resolves paths against one fixed origin,
// attaches the bearer token when the calling context carries one, and maps
// responses onto a small error taxonomy. It does not retry, cache, or impose
// its own timeout; cancellation and deadlines come from the caller's context.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrAuthExpired indicates the backend rejected the session's bearer token.
// The navigation guard reacts by clearing the session and sending the user
// back to the login view.
var ErrAuthExpired = errors.New("authentication expired")

// APIError is a non-2xx reply from the backend that is not an auth rejection.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d", e.Status)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

type tokenKey struct{}

// WithToken returns a context carrying the session's bearer token. Requests
// issued with that context are sent authenticated.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom extracts the bearer token from ctx, or "" when the request
// should go out unauthenticated.
func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// Client issues HTTP calls against the backend origin.
type Client struct {
	baseURL string
	httpc   *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{},
	}
}

// Do performs one backend call and decodes the JSON response into out when
// out is non-nil. A bearer header is attached iff the context carries a
// token. Transport errors surface unchanged.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	token := TokenFrom(ctx)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	// An auth rejection of a call we sent authenticated means the token is
	// no longer accepted. An unauthenticated 401 (e.g. bad login
	// credentials) stays an ordinary API error.
	if token != "" && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
		return ErrAuthExpired
	}

	return &APIError{Status: resp.StatusCode, Message: readErrorMessage(resp.Body)}
}

// readErrorMessage pulls a human-readable message out of an error body. The
// backend is inconsistent about its error shape, so try the common keys and
// fall back to the raw text.
func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(raw))
}
