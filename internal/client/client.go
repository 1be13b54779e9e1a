// Package client is the HTTP transport for the inventory and AI APIs.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/liquorlocker/internal/apperr"
)

// APIKeyHeader carries the inventory API key.
const APIKeyHeader = "X-API-Key"

// DefaultBaseURL is where the inventory API listens by default.
const DefaultBaseURL = "http://localhost:8080"

// Config holds the client configuration.
type Config struct {
	// BaseURL of the inventory API (default: http://localhost:8080).
	BaseURL string
	// APIKey is sent as X-API-Key on every request when non-empty.
	APIKey string
	// HTTPClient overrides the transport. Its timeout, if any, is the only
	// timeout applied to requests.
	HTTPClient *http.Client
}

// Client performs JSON requests and classifies failures as apperr errors.
// It is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: cfg.HTTPClient,
	}
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, http.MethodPost, path, in, out)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, http.MethodPut, path, in, out)
}

// Delete issues a DELETE. Any response body is discarded.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Do performs the request. A non-2xx status yields a KindHTTP error whose
// message is the response body; network and decoding failures yield
// KindTransport. When out is a *string, the raw body is stored in it.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding %s %s request: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return apperr.Transport(err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(APIKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("request failed", "method", method, "path", path, "error", err)
		return apperr.Transport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, err := io.ReadAll(resp.Body)
		if err != nil {
			return apperr.Transport(err)
		}
		return apperr.HTTP(resp.StatusCode, string(text))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if s, ok := out.(*string); ok {
		text, err := io.ReadAll(resp.Body)
		if err != nil {
			return apperr.Transport(err)
		}
		*s = string(text)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Transport(fmt.Errorf("decoding %s %s response: %w", method, path, err))
	}
	return nil
}
