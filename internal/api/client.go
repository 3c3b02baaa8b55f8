package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/sony/gobreaker/v2"
)

// Default configuration values.
const (
	DefaultTimeout = 30 * time.Second
)

// Config configures the API client.
type Config struct {
	// BaseURL is the API root, e.g. "https://es.ekddigital.com/v1". Required.
	BaseURL string
	// APIKey is the bearer credential. Required.
	APIKey string
	// UserAgent is sent on every request.
	UserAgent string
	// Timeout bounds each individual attempt, not the whole retry
	// sequence. Defaults to DefaultTimeout.
	Timeout time.Duration
	// HTTPClient overrides the pooled transport.
	HTTPClient *http.Client
	// Retry overrides the retry policy. Defaults to DefaultRetryConfig.
	Retry *RetryConfig
	// Breaker enables a circuit breaker around the transport when non-nil.
	Breaker *BreakerConfig
	// Logger receives debug traces when Debug is set.
	Logger *slog.Logger
	// Debug enables a per-attempt trace entry on Logger.
	Debug bool
}

// Client executes API requests: it injects authentication, applies the
// per-attempt timeout and the retry policy, and turns failed responses into
// typed errors. One Client owns one pooled HTTP transport.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	timeout    time.Duration
	httpClient *http.Client
	retry      *RetryConfig
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	logger     *slog.Logger
	debug      bool
	closed     atomic.Bool
}

// NewClient creates a new API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	c := &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		userAgent:  cfg.UserAgent,
		timeout:    cfg.Timeout,
		httpClient: cfg.HTTPClient,
		retry:      cfg.Retry,
		logger:     cfg.Logger,
		debug:      cfg.Debug,
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.retry == nil {
		c.retry = DefaultRetryConfig()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if cfg.Breaker != nil {
		c.breaker = newBreaker(cfg.Breaker)
	}
	return c, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetHTTPClient sets a custom HTTP client.
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// Close marks the client closed and releases idle pooled connections.
// Subsequent calls to Do fail with ErrClientClosed. Close is idempotent.
func (c *Client) Close() {
	if c.closed.Swap(true) {
		return
	}
	c.httpClient.CloseIdleConnections()
}

// Closed reports whether Close has been called.
func (c *Client) Closed() bool {
	return c.closed.Load()
}

// Do executes the request and decodes a 2xx JSON body into result when
// result is non-nil. Retryable failures (429, 5xx, connection errors) are
// retried per the retry policy as long as the request is idempotent;
// terminal failures surface immediately as *APIError.
func (c *Client) Do(ctx context.Context, r *Request, result interface{}) error {
	if c.closed.Load() {
		return ErrClientClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var payload []byte
	if r.Body != nil {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		payload = data
	}

	hint := &retryAfterHint{}
	attempt := 0
	return retry.Do(ctx, c.retry.backoff(hint), func(ctx context.Context) error {
		attempt++
		return c.attempt(ctx, r, payload, attempt, hint, result)
	})
}

// attempt performs one try of the request under its own timeout and
// classifies the outcome. Retryable failures are wrapped with
// retry.RetryableError so the loop in Do continues; everything else stops
// the loop and surfaces to the caller.
func (c *Client) attempt(ctx context.Context, r *Request, payload []byte, attempt int, hint *retryAfterHint, result interface{}) error {
	if c.closed.Load() {
		return ErrClientClosed
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	u := r.url(c.baseURL)
	req, err := http.NewRequestWithContext(attemptCtx, r.Method, u, bodyReader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.IdempotencyKey != "" {
		req.Header.Set("Idempotency-Key", r.IdempotencyKey)
	}

	start := time.Now()
	resp, err := c.send(req)
	elapsed := time.Since(start)

	if err != nil {
		c.trace(r, attempt, 0, elapsed, err)
		return c.classifyTransportError(ctx, r, u, attempt, err)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	c.trace(r, attempt, resp.StatusCode, elapsed, nil)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if readErr != nil {
			return fmt.Errorf("read response body: %w", readErr)
		}
		if result != nil && len(body) > 0 {
			if err := json.Unmarshal(body, result); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
		}
		return nil
	}

	apiErr := ParseError(resp.StatusCode, body, resp.Header)
	if RetryableStatus(resp.StatusCode) {
		if apiErr.RetryAfter > 0 {
			hint.set(apiErr.RetryAfter)
		}
		if r.retryable() {
			return retry.RetryableError(apiErr)
		}
	}
	return apiErr
}

// send issues the request through the breaker when one is configured.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	if c.breaker == nil {
		return c.httpClient.Do(req)
	}
	return c.breaker.Execute(func() (*http.Response, error) {
		return c.httpClient.Do(req)
	})
}

// classifyTransportError maps a failed transport call to a typed error and
// decides retryability. Caller cancellation always wins; an attempt-level
// deadline becomes TimeoutError; breaker refusals are terminal.
func (c *Client) classifyTransportError(ctx context.Context, r *Request, u string, attempt int, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if breakerRefused(err) {
		return &NetworkError{Err: err, URL: u, Attempt: attempt}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		terr := &TimeoutError{Err: err, URL: u, Attempt: attempt, Timeout: c.timeout}
		if r.retryable() {
			return retry.RetryableError(terr)
		}
		return terr
	}
	nerr := &NetworkError{Err: err, URL: u, Attempt: attempt}
	if r.retryable() {
		return retry.RetryableError(nerr)
	}
	return nerr
}

// trace emits one debug log entry per attempt. The bearer credential is
// never part of the record. Logging must not affect the call outcome.
func (c *Client) trace(r *Request, attempt, status int, elapsed time.Duration, err error) {
	if !c.debug {
		return
	}
	attrs := []slog.Attr{
		slog.String("method", r.Method),
		slog.String("path", r.Path),
		slog.Int("attempt", attempt),
		slog.Duration("elapsed", elapsed),
	}
	if status != 0 {
		attrs = append(attrs, slog.Int("status", status))
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	c.logger.LogAttrs(context.Background(), slog.LevelDebug, "ekdsend request", attrs...)
}
