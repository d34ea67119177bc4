// Package apiclient is a typed HTTP client for the umbrella dashboard API.
// Every call issues exactly one request; failures from the transport, a
// non-2xx status, or response decoding propagate to the caller unchanged
// in meaning. The client never retries and never stores tokens on its own
// beyond what the caller configures.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/umbrella-sec/umbrella/pkg/domain/model"
)

// Client calls the dashboard API
type Client struct {
	baseURL     string
	httpClient  *http.Client
	accessToken string
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithAccessToken sets the bearer token attached to authenticated calls
func WithAccessToken(token string) Option {
	return func(c *Client) {
		c.accessToken = token
	}
}

// New creates a client for the API at baseURL (e.g. "http://host:8080/api")
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetAccessToken replaces the bearer token for subsequent calls
func (c *Client) SetAccessToken(token string) {
	c.accessToken = token
}

// do issues a single request and decodes the JSON response into out.
// token overrides the configured access token when non-empty.
func (c *Client) do(ctx context.Context, method, path string, token string, reqBody, out any) error {
	var body io.Reader
	if reqBody != nil {
		raw, err := json.Marshal(reqBody)
		if err != nil {
			return goerr.Wrap(err, "failed to encode request body")
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return goerr.Wrap(err, "failed to build request", goerr.V("path", path))
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token == "" {
		token = c.accessToken
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "request failed", goerr.V("path", path))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return goerr.New("unexpected response status",
			goerr.V("path", path),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(raw)),
		)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return goerr.Wrap(err, "failed to decode response", goerr.V("path", path))
		}
	}

	return nil
}

// Login submits credentials and returns the session payload. The
// credentials are serialized verbatim as the request body.
func (c *Client) Login(ctx context.Context, creds *model.Credentials) (*model.TokenPair, error) {
	var pair model.TokenPair
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", creds, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

// RefreshToken exchanges the refresh token for a new session payload.
// The request has no body; the token travels in the Authorization header.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*model.TokenPair, error) {
	if refreshToken == "" {
		// Never fall back to the access token here
		return nil, goerr.New("refresh token is required")
	}

	var pair model.TokenPair
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", refreshToken, nil, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

// GetMe fetches the current user's profile
func (c *Client) GetMe(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", "", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetAlertStats fetches the aggregate alert statistics. The returned
// value is the parsed response body, unchanged.
func (c *Client) GetAlertStats(ctx context.Context) (*model.AlertStats, error) {
	var stats model.AlertStats
	if err := c.do(ctx, http.MethodGet, "/alerts/stats", "", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
