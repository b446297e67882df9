// Package notion is the client layer: it resolves data source schemas,
// compiles queries, drives pagination, and materializes typed pages. All
// modeling invariants are enforced locally, before a request is made; the
// transport only moves JSON.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/nesalia-inc/better-notion-sub002/config"
)

// Transport executes one API request and returns the raw response body. It
// owns authentication, rate-limit handling, and retries; this layer never
// retries and passes transport failures through unmodified.
type Transport interface {
	Request(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error)
}

// TransportError is an error response from the service, carried through to
// the caller as-is.
type TransportError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *TransportError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("notion: %s (status %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("notion: status %d: %s", e.Status, e.Message)
}

// HTTPTransport is the default Transport: a plain HTTP client with bearer
// auth and the API version header, no retries.
type HTTPTransport struct {
	httpClient *http.Client
	token      string
	baseURL    string
	version    string
	logger     *zap.Logger
}

// NewHTTPTransport creates a transport from client configuration.
func NewHTTPTransport(cfg *config.Config, logger *zap.Logger) *HTTPTransport {
	if logger == nil {
		logger = zap.NewNop()
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}
	version := cfg.Version
	if version == "" {
		version = config.DefaultVersion
	}
	return &HTTPTransport{
		httpClient: &http.Client{},
		token:      cfg.Token,
		baseURL:    baseURL,
		version:    version,
		logger:     logger,
	}
}

// Request executes one API call and returns the response body.
func (t *HTTPTransport) Request(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	reqURL := t.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	t.setHeaders(req)

	start := time.Now()
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	t.logger.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr TransportError
		if err := json.Unmarshal(respBody, &apiErr); err != nil || apiErr.Status == 0 && apiErr.Code == "" {
			return nil, &TransportError{Status: resp.StatusCode, Message: string(respBody)}
		}
		if apiErr.Status == 0 {
			apiErr.Status = resp.StatusCode
		}
		return nil, &apiErr
	}

	return respBody, nil
}

func (t *HTTPTransport) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+t.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", t.version)
}
