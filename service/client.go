package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trust2025gb/contractkit/config"
	"github.com/trust2025gb/contractkit/pkg/logger"
)

// Client is the low-level HTTP transport for the contract API. It shapes
// requests (auth header, request id, content type), decodes JSON responses
// and surfaces non-2xx responses as *APIError without retrying.
type Client struct {
	baseURL    string
	pathPrefix string
	tokens     TokenSource
	httpClient *http.Client
}

// NewClient creates a client from configuration. A static token from the
// config is used when no TokenSource is supplied.
func NewClient(cfg *config.APIConfig) *Client {
	var tokens TokenSource
	if cfg.Token != "" {
		tokens = StaticToken(cfg.Token)
	}
	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		pathPrefix: cfg.PathPrefix,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithTokenSource replaces the client's token source and returns the client.
func (c *Client) WithTokenSource(ts TokenSource) *Client {
	c.tokens = ts
	return c
}

type errorResponse struct {
	Error string `json:"error"`
}

// do executes one request. body may be nil; contentType is ignored when it
// is. A non-nil out receives the decoded JSON response.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	endpoint := c.baseURL + c.pathPrefix + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("failed to obtain token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	logCtx := context.WithValue(ctx, logger.RequestIDKey, requestID)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn(logCtx, "request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	logger.Debug(logCtx, "request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			RequestID:  resp.Header.Get("X-Request-ID"),
		}
		var parsed errorResponse
		if err := json.Unmarshal(respBody, &parsed); err == nil {
			apiErr.Message = parsed.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w, body: %s", err, string(respBody))
		}
	}

	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, "", out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, nil, bytes.NewReader(data), "application/json", out)
}

func (c *Client) putJSON(ctx context.Context, path string, in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPut, path, nil, bytes.NewReader(data), "application/json", out)
}

func (c *Client) postForm(ctx context.Context, path string, fields map[string]any, files []FilePart, out any) error {
	body, contentType, err := BuildForm(fields, files)
	if err != nil {
		return fmt.Errorf("failed to build form: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, nil, body, contentType, out)
}

func (c *Client) deleteJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, "", out)
}

// DownloadFile fetches a document's binary content from its file URL.
// Relative URLs are resolved against the client's base URL. The request
// carries the same bearer token and request ID as API calls, since document
// content sits behind the same auth as the rest of the API. Failures here
// are local/file-access failures, reported distinctly from API errors.
func (c *Client) DownloadFile(ctx context.Context, fileURL string) ([]byte, error) {
	if !strings.Contains(fileURL, "://") {
		fileURL = c.baseURL + "/" + strings.TrimLeft(fileURL, "/")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, &FileAccessError{Path: fileURL, Err: err}
	}

	req.Header.Set("X-Request-ID", uuid.New().String())
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, &FileAccessError{Path: fileURL, Err: err}
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FileAccessError{Path: fileURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FileAccessError{Path: fileURL, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FileAccessError{Path: fileURL, Err: err}
	}
	return data, nil
}
