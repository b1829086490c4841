package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/imrfidelz/djk-sub001/internal/shared/apperr"
)

// TokenSource supplies the bearer token for authenticated calls.
// An empty token means the request goes out anonymous.
type TokenSource interface {
	Token() string
}

type StaticToken string

func (s StaticToken) Token() string { return string(s) }

// Client is the thin HTTP layer shared by every gateway. It owns the base
// URL, timeouts, auth header, and the mapping from API status codes to
// apperr kinds.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
}

func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
	}
}

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Do issues a request and decodes the JSON response into out (out may be
// nil). Non-2xx responses come back as *apperr.AppError.
func (c *Client) Do(ctx context.Context, method, path string, body any, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request payload: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := ""
		var ae apiError
		if err := json.NewDecoder(resp.Body).Decode(&ae); err == nil {
			if ae.Message != "" {
				msg = ae.Message
			} else {
				msg = ae.Error
			}
		}
		appErr := apperr.FromStatus(resp.StatusCode, msg)
		appErr.Err = fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
		return appErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response for %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}
