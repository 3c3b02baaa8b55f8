package ekdsend

import (
	"log/slog"
	"net/http"
	"time"
)

const (
	defaultBaseURL   = "https://es.ekddigital.com/v1"
	defaultUserAgent = "ekdsend-go/" + Version
)

// RetryConfig tunes the retry policy beyond the max-retries knob.
type RetryConfig struct {
	// MaxRetries is the number of additional attempts after the first.
	MaxRetries int
	// BaseDelay is the delay before the first retry. Default 1s.
	BaseDelay time.Duration
	// MaxDelay caps the delay between attempts. Default 30s.
	MaxDelay time.Duration
	// JitterPercent randomizes each delay by up to ±JitterPercent%.
	// Default 50.
	JitterPercent int
}

// BreakerConfig enables a circuit breaker around the transport.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive connection failures
	// that opens the breaker. Default 5.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
	// MaxHalfOpenRequests bounds probe requests while half-open.
	MaxHalfOpenRequests uint32
}

// clientConfig holds configuration for the client.
type clientConfig struct {
	baseURL    string
	timeout    time.Duration
	maxRetries int
	httpClient *http.Client
	logger     *slog.Logger
	debug      bool
	userAgent  string
	retry      *RetryConfig
	breaker    *BreakerConfig
}

// Option configures the client.
type Option func(*clientConfig)

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithTimeout sets the per-attempt timeout. Each retry attempt gets a
// fresh timeout budget; the caller's context bounds the whole call.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithMaxRetries sets the number of additional attempts after the first.
// Zero disables retries entirely. Default: 3.
func WithMaxRetries(count int) Option {
	return func(c *clientConfig) {
		c.maxRetries = count
	}
}

// WithHTTPClient sets a custom HTTP client, replacing the default pooled
// transport.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithDebug enables a per-attempt debug trace on the configured logger.
// The bearer credential is never logged.
func WithDebug(debug bool) Option {
	return func(c *clientConfig) {
		c.debug = debug
	}
}

// WithLogger sets the logger used for debug traces. Defaults to
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *clientConfig) {
		c.userAgent = ua
	}
}

// WithRetryConfig replaces the whole retry policy. Overrides WithMaxRetries.
func WithRetryConfig(cfg RetryConfig) Option {
	return func(c *clientConfig) {
		c.retry = &cfg
	}
}

// WithCircuitBreaker enables a circuit breaker around the transport.
func WithCircuitBreaker(cfg BreakerConfig) Option {
	return func(c *clientConfig) {
		c.breaker = &cfg
	}
}
