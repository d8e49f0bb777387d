// Package cpanel is a small client for the cPanel UAPI file manager. It reads
// and writes files below a fixed base directory and runs the connectivity
// checks behind the /test-cpanel endpoint.
package cpanel

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

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

const (
	defaultDirectory = "public_html"
	defaultTimeout   = 15 * time.Second
	maxResponseSize  = 32 << 20 // 32MB
	logBodyPreview   = 200
)

// Config holds the connection settings for a cPanel account.
type Config struct {
	BaseURL   string        // e.g. https://host.example.com:2083
	Username  string        // Required
	Password  string        // Required
	Directory string        // Base directory for file operations (default "public_html")
	Timeout   time.Duration // Per-call timeout (default 15s)
}

func (c *Config) setDefaults() {
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	if c.Directory == "" {
		c.Directory = defaultDirectory
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
}

// Client talks to the UAPI "execute" endpoints with basic auth.
// It never retries; every failure is returned to the caller as is.
type Client struct {
	cfg     Config
	http    *http.Client
	logger  echo.Logger
	metrics *Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The configured timeout
// is still applied to it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets the logger used for per-call diagnostics.
func WithLogger(l echo.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithMetrics records call durations and outcomes into m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New creates a Client for cfg.
func New(cfg Config, opts ...Option) *Client {
	cfg.setDefaults()
	c := &Client{cfg: cfg}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	c.http.Timeout = cfg.Timeout
	if c.logger == nil {
		l := log.New("cpanel")
		l.SetLevel(log.INFO)
		c.logger = l
	}
	return c
}

// Directory returns the base directory all file names are resolved against.
func (c *Client) Directory() string {
	return c.cfg.Directory
}

// Response is the envelope every UAPI call returns.
type Response struct {
	Status   int             `json:"status"`
	Errors   []string        `json:"errors"`
	Messages []string        `json:"messages"`
	Data     json.RawMessage `json:"data"`
}

// OK reports whether the remote side flagged the call as successful.
func (r *Response) OK() bool {
	return r.Status == 1
}

// HasData reports whether the response carried a non-null data member.
func (r *Response) HasData() bool {
	d := bytes.TrimSpace(r.Data)
	return len(d) > 0 && !bytes.Equal(d, []byte("null"))
}

// Message returns the first remote error, or the first message, or fallback.
func (r *Response) Message(fallback string) string {
	if len(r.Errors) > 0 && r.Errors[0] != "" {
		return r.Errors[0]
	}
	if len(r.Messages) > 0 && r.Messages[0] != "" {
		return r.Messages[0]
	}
	return fallback
}

// Execute performs one UAPI call. Parameters are sent as a query string for
// GET and as a form-encoded body otherwise. A transport error, a non-2xx HTTP
// status or an undecodable body is returned as *APIError. The status field of
// the decoded envelope is left for the caller to judge.
func (c *Client) Execute(ctx context.Context, method, endpoint string, params url.Values) (*Response, error) {
	target := c.cfg.BaseURL + "/execute/" + endpoint

	var body io.Reader
	if method == http.MethodGet {
		if q := params.Encode(); q != "" {
			target += "?" + q
		}
	} else {
		body = strings.NewReader(params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, &APIError{Endpoint: endpoint, Method: method, Err: err}
	}
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		elapsed := time.Since(start)
		c.metrics.observe(endpoint, resultTransportError, elapsed)
		c.logger.Errorf("cpanel %s %s failed after %s: %v", method, endpoint, elapsed, err)
		return nil, &APIError{Endpoint: endpoint, Method: method, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.observe(endpoint, resultTransportError, elapsed)
		c.logger.Errorf("cpanel %s %s read body after %s: %v", method, endpoint, elapsed, err)
		return nil, &APIError{Endpoint: endpoint, Method: method, StatusCode: resp.StatusCode, Err: err}
	}
	c.logger.Infof("cpanel %s %s -> %d (%s, %d bytes)", method, endpoint, resp.StatusCode, elapsed, len(raw))

	var out Response
	if err := json.Unmarshal(raw, &out); err != nil {
		c.metrics.observe(endpoint, resultBadBody, elapsed)
		c.logger.Errorf("cpanel %s %s: invalid JSON response: %s", method, endpoint, preview(raw))
		return nil, &APIError{
			Endpoint:   endpoint,
			Method:     method,
			StatusCode: resp.StatusCode,
			Message:    "invalid JSON response: " + preview(raw),
			Err:        err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.observe(endpoint, resultHTTPError, elapsed)
		msg := out.Message("unknown error")
		c.logger.Errorf("cpanel %s %s: HTTP %d: %s", method, endpoint, resp.StatusCode, msg)
		return nil, &APIError{Endpoint: endpoint, Method: method, StatusCode: resp.StatusCode, Message: msg}
	}

	if out.OK() {
		c.metrics.observe(endpoint, resultOK, elapsed)
	} else {
		c.metrics.observe(endpoint, resultRemoteError, elapsed)
	}
	return &out, nil
}

// ReadFile returns the content of name inside the base directory. Any failure
// (transport, remote status, missing content) is reported as an error
// wrapping ErrNotFound.
func (c *Client) ReadFile(ctx context.Context, name string) (string, error) {
	params := url.Values{}
	params.Set("dir", c.cfg.Directory)
	params.Set("file", name)

	resp, err := c.Execute(ctx, http.MethodGet, endpointGetFileContent, params)
	if err != nil {
		return "", fmt.Errorf("cpanel: read %s: %w: %w", name, ErrNotFound, err)
	}
	if !resp.OK() {
		msg := resp.Message("failed to read file")
		c.logger.Errorf("cpanel: read %s: %s", name, msg)
		return "", fmt.Errorf("cpanel: read %s: %w: %s", name, ErrNotFound, msg)
	}
	fc, err := decodeFileContent(resp.Data)
	if err != nil {
		c.logger.Errorf("cpanel: read %s: %v", name, err)
		return "", fmt.Errorf("cpanel: read %s: %w: %w", name, ErrNotFound, err)
	}
	c.logger.Infof("cpanel: read %s (%s shape, %d chars)", name, fc.Shape, len(fc.Content))
	return fc.Content, nil
}

// WriteFile replaces name inside the base directory with content. One attempt
// only; atomicity is whatever the remote API provides.
func (c *Client) WriteFile(ctx context.Context, name, content string) error {
	params := url.Values{}
	params.Set("dir", c.cfg.Directory)
	params.Set("file", name)
	params.Set("content", content)

	c.logger.Infof("cpanel: write %s (%d chars)", name, len(content))
	resp, err := c.Execute(ctx, http.MethodPost, endpointSaveFileContent, params)
	if err != nil {
		return fmt.Errorf("cpanel: write %s: %w", name, err)
	}
	if !resp.OK() {
		msg := resp.Message("failed to write file")
		c.logger.Errorf("cpanel: write %s: %s", name, msg)
		return fmt.Errorf("cpanel: write %s: %w", name, &APIError{
			Endpoint: endpointSaveFileContent,
			Method:   http.MethodPost,
			Message:  msg,
			Remote:   resp.Errors,
		})
	}
	return nil
}

func preview(raw []byte) string {
	if len(raw) > logBodyPreview {
		return string(raw[:logBodyPreview])
	}
	return string(raw)
}
