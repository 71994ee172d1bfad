package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionProvider supplies the bearer token and handles session teardown.
type SessionProvider interface {
	Token() string
	HandleUnauthorized()
}

type Request struct {
	Method string
	Path   string
	Body   any
	Query  url.Values
	Form   url.Values

	retried bool
}

type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

type Client struct {
	baseURL string
	session SessionProvider
	client  *http.Client
	logger  *zap.SugaredLogger
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	Session SessionProvider
	Logger  *zap.SugaredLogger
	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		session: cfg.Session,
		client:  httpClient,
		logger:  logger,
	}
}

// SetSession attaches the session after construction, for callers that build
// the session on top of this client.
func (c *Client) SetSession(s SessionProvider) {
	c.session = s
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do performs the request. Non-2xx responses are returned as *APIError.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := c.build(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", req.Method, req.Path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized && !req.retried {
		req.retried = true
		c.logger.Warnw("session rejected by backend", "method", req.Method, "path", req.Path)
		if c.session != nil {
			c.session.HandleUnauthorized()
		}
		return nil, newAPIError(resp.StatusCode, body)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newAPIError(resp.StatusCode, body)
		if resp.StatusCode != http.StatusNotFound {
			c.logger.Debugw("backend error", "method", req.Method, "path", req.Path, "status", resp.StatusCode, "message", apiErr.message())
		}
		return nil, apiErr
	}

	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

// JSON performs the request and decodes a JSON response into out when out is non-nil.
func (c *Client) JSON(ctx context.Context, method, path string, body any, query url.Values, out any) error {
	resp, err := c.Do(ctx, Request{Method: method, Path: path, Body: body, Query: query})
	if err != nil {
		return err
	}
	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	return nil
}

// Download fetches a binary payload and the filename suggested by the server.
func (c *Client) Download(ctx context.Context, path string, query url.Values) ([]byte, string, error) {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		return nil, "", err
	}
	filename := ""
	if disposition := resp.Header.Get("Content-Disposition"); disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			filename = params["filename"]
		}
	}
	return resp.Body, filename, nil
}

func (c *Client) build(ctx context.Context, req Request) (*http.Request, error) {
	endpoint := c.baseURL + req.Path
	if len(req.Query) > 0 {
		endpoint += "?" + req.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.Form != nil:
		body = strings.NewReader(req.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case req.Body != nil:
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("%s %s: encode: %w", req.Method, req.Path, err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if c.session != nil {
		if token := c.session.Token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return httpReq, nil
}
