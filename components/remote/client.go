// Package remote implements the shared HTTP request executor used by
// every backend configured to delegate work to an endpoint instead of
// computing locally. It applies the configured timeout, attaches the
// bearer credential, and maps failures to exactly three kinds (timeout,
// connection failure, non-2xx status) so calling code can apply one
// retry/fallback policy across all remote backends. The client itself
// never retries.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/xid"
	"go.uber.org/atomic"

	"github.com/bububa/docrerank/components"
)

// Client is a JSON-over-HTTP API client bound to one backend endpoint.
type Client struct {
	opts     Options
	requests *atomic.Int64
}

// Options are client options.
type Options struct {
	// BaseURL is the endpoint the backend delegates to.
	BaseURL string
	// APIKey, when set, is sent as a bearer credential.
	APIKey string
	// Backend labels errors with the capability that failed.
	Backend string
	// Timeout bounds every request issued by the client.
	Timeout time.Duration
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// Option is functional option.
type Option func(*Options)

// WithBaseURL sets the endpoint base URL.
func WithBaseURL(baseURL string) Option {
	return func(o *Options) {
		o.BaseURL = baseURL
	}
}

// WithAPIKey sets the bearer credential.
func WithAPIKey(apiKey string) Option {
	return func(o *Options) {
		o.APIKey = apiKey
	}
}

// WithBackend sets the backend label used in surfaced errors.
func WithBackend(backend string) Option {
	return func(o *Options) {
		o.Backend = backend
	}
}

// WithTimeout sets the per-request deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *Options) {
		o.HTTPClient = httpClient
	}
}

// NewClient creates a new HTTP API client and returns it.
func NewClient(opts ...Option) *Client {
	options := Options{
		Timeout:    30 * time.Second,
		HTTPClient: http.DefaultClient,
	}
	for _, apply := range opts {
		apply(&options)
	}
	return &Client{
		opts:     options,
		requests: atomic.NewInt64(0),
	}
}

// Requests returns how many requests the client has issued.
func (c *Client) Requests() int64 {
	return c.requests.Load()
}

// Backend returns the backend label the client reports errors under.
func (c *Client) Backend() string {
	return c.opts.Backend
}

// PostJSON sends payload to the configured endpoint and decodes the
// response body into result. A cancelled context surfaces as the
// context's own error; every other failure maps onto the uniform error
// kinds. A partially received or undecodable body is reported as a
// components.ProtocolError, never parsed as a complete result.
func (c *Client) PostJSON(ctx context.Context, op string, payload, result any) error {
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	body := new(bytes.Buffer)
	enc := json.NewEncoder(body)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", xid.New().String())
	if c.opts.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)
	}

	c.requests.Inc()
	resp, err := c.opts.HTTPClient.Do(req)
	if err != nil {
		return c.mapTransportError(ctx, op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return &components.BackendError{
			Backend: c.opts.Backend,
			Op:      op,
			Kind:    components.ErrStatus,
			Status:  resp.StatusCode,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		if ctxErr := mapContextError(ctx, c.opts.Backend, op, err); ctxErr != nil {
			return ctxErr
		}
		return &components.ProtocolError{
			Backend: c.opts.Backend,
			Op:      op,
			Reason:  "undecodable response body: " + err.Error(),
		}
	}
	return nil
}

func (c *Client) mapTransportError(ctx context.Context, op string, err error) error {
	if ctxErr := mapContextError(ctx, c.opts.Backend, op, err); ctxErr != nil {
		return ctxErr
	}
	kind := components.ErrConnection
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		kind = components.ErrTimeout
	}
	return &components.BackendError{
		Backend: c.opts.Backend,
		Op:      op,
		Kind:    kind,
		Err:     err,
	}
}

// mapContextError distinguishes a caller abandoning the call from the
// client's own deadline. Cancellation propagates untouched; an expired
// deadline is the timeout error kind.
func mapContextError(ctx context.Context, backend, op string, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return ctx.Err()
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return &components.BackendError{
			Backend: backend,
			Op:      op,
			Kind:    components.ErrTimeout,
			Err:     err,
		}
	}
	return nil
}
