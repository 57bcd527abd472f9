package arena

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Taichi-iskw/arena-merge/internal/errors"
	"github.com/Taichi-iskw/arena-merge/internal/model"
)

const (
	defaultBaseURL = "https://api.are.na/v2"
	maxErrorBody   = 4 << 10
)

// Client is the Are.na channel/block API used by the merge engine and the CLI
type Client interface {
	GetChannel(ctx context.Context, identifier string, page, perPage int) (*model.Channel, error)
	CreateBlock(ctx context.Context, channelIdentifier, title, content string) (*model.Block, error)
	DeleteChannel(ctx context.Context, identifier string) error
	SearchChannelByTitle(ctx context.Context, title string) (*model.Channel, error)
	CreateChannel(ctx context.Context, title string) (*model.Channel, error)
	GetBlock(ctx context.Context, id int64) (*model.Block, error)
	DeleteBlock(ctx context.Context, id int64) error
}

// Compile-time interface check.
var _ Client = (*HTTPClient)(nil)

// StatusError describes a non-2xx answer from the API
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// HTTPClient implements Client over the Are.na v2 JSON API
type HTTPClient struct {
	http    *http.Client
	baseURL string
	token   string
	logger  *slog.Logger
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying *http.Client entirely.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.http = hc
	}
}

// WithBaseURL points the client at another API root (tests, proxies).
func WithBaseURL(baseURL string) ClientOption {
	return func(c *HTTPClient) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *HTTPClient) {
		c.logger = logger
	}
}

// NewHTTPClient creates an Are.na client authenticating with a bearer token
func NewHTTPClient(token string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: defaultBaseURL,
		token:   token,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do performs one API call. A nil in skips the request body, a nil out skips decoding.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, errors.CodeInternal, "failed to encode request body")
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.CodeUpstream, fmt.Sprintf("%s %s failed", method, path))
	}
	defer resp.Body.Close()

	c.logger.Debug("arena request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		statusErr := &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
		if resp.StatusCode == http.StatusNotFound {
			return errors.Wrap(statusErr, errors.CodeNotFound, "resource not found")
		}
		return errors.Wrap(statusErr, errors.CodeUpstream, "unexpected response from Are.na")
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, errors.CodeUpstream, "malformed response from Are.na")
	}
	return nil
}
