// ABOUTME: HTTP client for the quizz backend API
// ABOUTME: One request path that attaches both credentials and normalises errors

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/config"
)

// maxBodySize bounds how much of a response body is buffered
const maxBodySize = 16 << 20

// TokenSource supplies the current bearer token, empty when logged out
type TokenSource interface {
	Token() string
}

// Client is the API client for the quizz backend
type Client struct {
	cfg        *config.Config
	httpClient *http.Client
	uploadHTTP *http.Client
	tokens     TokenSource
}

// New creates a client from the resolved configuration
func New(cfg *config.Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	uploadTimeout := cfg.UploadTimeout
	if uploadTimeout == 0 {
		uploadTimeout = 5 * time.Minute
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		uploadHTTP: &http.Client{Timeout: uploadTimeout},
	}
}

// WithTokenSource returns a copy of the client that reads bearer tokens from ts
func (c *Client) WithTokenSource(ts TokenSource) *Client {
	cp := *c
	cp.tokens = ts
	return &cp
}

// BaseURL returns the API base URL without userinfo
func (c *Client) BaseURL() string {
	return c.cfg.APIURL
}

// Multipart is a pre-built multipart body with its boundary content type
type Multipart struct {
	Body        io.Reader
	ContentType string
}

// Request describes one backend call
type Request struct {
	Method string
	Path   string // relative to the base URL, or absolute
	Query  url.Values

	// Body is JSON encoded unless it is url.Values (form), *Multipart,
	// or an io.Reader (sent as-is with ContentType)
	Body        any
	ContentType string
	Headers     http.Header

	// RequireAuth makes the call fail with ErrAuthRequired when no token is available
	RequireAuth bool
	// Token overrides the client's token source for this call
	Token string

	// Upload selects the long-timeout HTTP client
	Upload bool

	// DefaultError replaces the generic status message when the body has none
	DefaultError string
}

// Do performs the request and decodes a successful response into out.
// out may be nil, a *string for raw text, or any JSON target.
func (c *Client) Do(ctx context.Context, r Request, out any) error {
	bearer := r.Token
	if bearer == "" && r.RequireAuth && c.tokens != nil {
		bearer = c.tokens.Token()
	}
	if r.RequireAuth && bearer == "" {
		return ErrAuthRequired
	}

	body, contentType, err := encodeBody(r.Body, r.ContentType)
	if err != nil {
		return err
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	target := c.cfg.URL(r.Path)
	if len(r.Query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + r.Query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header = config.BuildHeaders(config.HeaderOptions{
		Tunnel: c.cfg.TunnelAuth,
		Bearer: bearer,
	})
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, vs := range r.Headers {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	httpClient := c.httpClient
	if r.Upload {
		httpClient = c.uploadHTTP
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return c.handleRequestError(ctx, err)
	}

	slog.Debug("API request",
		"method", method,
		"path", r.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", requestID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, data, r.DefaultError)
	}
	return decodeSuccess(resp, data, out)
}

func (c *Client) handleRequestError(ctx context.Context, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled), errors.Is(err, context.Canceled):
		return ErrAborted
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	return &TransportError{BaseURL: c.cfg.APIURL, Err: err}
}

func encodeBody(body any, contentType string) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, contentType, nil
	case url.Values:
		return strings.NewReader(b.Encode()), orDefault(contentType, "application/x-www-form-urlencoded"), nil
	case *Multipart:
		return b.Body, orDefault(contentType, b.ContentType), nil
	case io.Reader:
		return b, contentType, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode request body: %w", err)
		}
		return bytes.NewReader(data), orDefault(contentType, "application/json"), nil
	}
}

func decodeSuccess(resp *http.Response, data []byte, out any) error {
	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if s, ok := out.(*string); ok {
		*s = string(data)
		return nil
	}
	if !isJSON(resp.Header.Get("Content-Type")) && !json.Valid(data) {
		return fmt.Errorf("unexpected %q response from backend", resp.Header.Get("Content-Type"))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
