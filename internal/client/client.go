// Package client is a typed REST client for the marketplace API. It covers
// the auth, product and favorites resources and is what the favorites store
// and the shilpkaar CLI talk to.
//
// Every call runs under a per-request timeout on top of the caller's context.
// Failed responses are returned as *APIError carrying the server's error
// envelope.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultTimeout bounds a single request when WithTimeout is not given.
const DefaultTimeout = 10 * time.Second

const headerIdempotencyKey = "Idempotency-Key"

// Client is safe for concurrent use.
type Client struct {
	base      string
	hc        *http.Client
	timeout   time.Duration
	token     func() string
	retries   int
	backoff   time.Duration
	userAgent string
	newKey    func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the traced default client.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.hc = hc } }

// WithTimeout sets the per-request timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithToken sets the bearer token source, read on every request.
func WithToken(src func() string) Option { return func(c *Client) { c.token = src } }

// WithStaticToken is WithToken for a fixed token.
func WithStaticToken(tok string) Option {
	return WithToken(func() string { return tok })
}

// WithRetries sets how many extra attempts safe requests get after a
// transport error or 5xx. Safe means GET or a POST carrying an
// Idempotency-Key.
func WithRetries(n int, backoff time.Duration) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retries = n
		}
		c.backoff = backoff
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option { return func(c *Client) { c.userAgent = ua } }

// New returns a client rooted at baseURL, which includes the API base path
// (e.g. http://localhost:8080/api/v1).
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("client: invalid base URL %q", baseURL)
	}
	c := &Client{
		base:      u.String(),
		hc:        &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		timeout:   DefaultTimeout,
		token:     func() string { return "" },
		retries:   1,
		backoff:   200 * time.Millisecond,
		userAgent: "shilpkaar-client/1",
		newKey:    uuid.NewString,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	header http.Header
}

func (r request) retryable() bool {
	return r.method == http.MethodGet || r.header.Get(headerIdempotencyKey) != ""
}

// do sends r and decodes a 2xx JSON body into out (when non-nil).
func (c *Client) do(ctx context.Context, r request, out any) error {
	var payload []byte
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", r.method, r.path, err)
		}
		payload = b
	}

	attempts := 1
	if r.retryable() {
		attempts += c.retries
	}
	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			t := time.NewTimer(c.backoff * time.Duration(i))
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}
		var retry bool
		retry, err = c.once(ctx, r, payload, out)
		if err == nil || !retry || ctx.Err() != nil {
			return err
		}
	}
	return err
}

func (c *Client) once(ctx context.Context, r request, payload []byte, out any) (retry bool, err error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.base + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return false, fmt.Errorf("build %s %s: %w", r.method, r.path, err)
	}
	for k, vs := range r.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return true, fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return resp.StatusCode >= 500, decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return false, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("decode %s %s: %w", r.method, r.path, err)
	}
	return false, nil
}

// APIError is a non-2xx response.
type APIError struct {
	Status    int    `json:"-"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api %d: %s", e.Status, e.Message)
}

func decodeError(resp *http.Response) error {
	e := &APIError{Status: resp.StatusCode}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if len(b) == 0 || json.Unmarshal(b, e) != nil {
		e.Code, e.Message = "", ""
	}
	if e.Message == "" {
		e.Message = http.StatusText(resp.StatusCode)
	}
	if e.RequestID == "" {
		e.RequestID = resp.Header.Get("X-Request-ID")
	}
	return e
}

// StatusOf returns the HTTP status behind err, or 0 when err is not an
// *APIError.
func StatusOf(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}

// IsStatus reports whether err is an *APIError with one of statuses.
func IsStatus(err error, statuses ...int) bool {
	st := StatusOf(err)
	if st == 0 {
		return false
	}
	for _, s := range statuses {
		if s == st {
			return true
		}
	}
	return false
}
