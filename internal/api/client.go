// Package api is the HTTP client for the remote workout API. It attaches
// the session's bearer token and JSON headers, forwards requests verbatim,
// and never treats a non-2xx status as a transport error — callers inspect
// the status themselves.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client sends requests to the remote workout API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Response is the remote API's answer: status code plus raw body. Non-2xx
// statuses are passed through to the caller, not converted to errors.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the status code is in the 2xx range.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// NewClient creates a Client targeting the given base URL. A trailing slash
// on the base is stripped so paths join cleanly.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// BaseURL returns the resolved remote API address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do issues a request to {base}{path}. The path may omit its leading slash.
// Accept is always application/json; Content-Type is set only when a body
// is present; Authorization carries the bearer token only when one exists.
// Headers already present in hdr win.
func (c *Client) Do(ctx context.Context, method, path, token string, body []byte, hdr http.Header) (*Response, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("api: create request: %w", err)
	}

	for k, vs := range hdr {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" && req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("api: read body: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}

// Get issues a GET request with optional bearer token.
func (c *Client) Get(ctx context.Context, path, token string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, token, nil, nil)
}

// PostJSON marshals v and POSTs it.
func (c *Client) PostJSON(ctx context.Context, path, token string, v any) (*Response, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("api: marshal body: %w", err)
	}
	return c.Do(ctx, http.MethodPost, path, token, data, nil)
}

// PutJSON marshals v and PUTs it.
func (c *Client) PutJSON(ctx context.Context, path, token string, v any) (*Response, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("api: marshal body: %w", err)
	}
	return c.Do(ctx, http.MethodPut, path, token, data, nil)
}

// Delete issues a DELETE request with the bearer token.
func (c *Client) Delete(ctx context.Context, path, token string) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, token, nil, nil)
}

// DecodeInto unmarshals a remote body into v. A malformed body leaves v
// untouched, mirroring the empty-object fallback the pages rely on: the
// upstream status still decides success, the payload just comes up empty.
func DecodeInto(body []byte, v any) {
	_ = json.Unmarshal(body, v)
}

// ExtractAuthToken pulls the token out of a login response. The remote API
// has shipped both {"auth_token":"tok"} and {"auth_token":{"token":"tok"}},
// so both shapes are accepted.
func ExtractAuthToken(body []byte) (string, bool) {
	var env struct {
		AuthToken json.RawMessage `json:"auth_token"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env.AuthToken) == 0 {
		return "", false
	}

	var s string
	if err := json.Unmarshal(env.AuthToken, &s); err == nil {
		if s == "" {
			return "", false
		}
		return s, true
	}

	var nested struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.AuthToken, &nested); err == nil && nested.Token != "" {
		return nested.Token, true
	}

	return "", false
}
