package api

import (
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryConfig configures retry behavior for failed HTTP requests.
type RetryConfig struct {
	// MaxRetries is the number of additional attempts after the first,
	// so MaxRetries=3 allows up to 4 attempts total.
	MaxRetries int
	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration
	// MaxDelay caps the delay between attempts, jitter included.
	MaxDelay time.Duration
	// JitterPercent randomizes each delay by up to ±JitterPercent%
	// to prevent thundering herd across clients.
	JitterPercent int
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:    3,
		BaseDelay:     time.Second,
		MaxDelay:      30 * time.Second,
		JitterPercent: 50,
	}
}

// RetryableStatus reports whether a status code is a transient failure
// eligible for retry. Everything else in 4xx is terminal.
func RetryableStatus(statusCode int) bool {
	return statusCode == 429 || statusCode >= 500
}

// retryAfterHint carries a server-provided Retry-After value from one
// attempt to the backoff computation for the next. Each request gets its
// own hint; attempts within a request run sequentially, so no locking.
type retryAfterHint struct {
	d time.Duration
}

func (h *retryAfterHint) set(d time.Duration) {
	if d > h.d {
		h.d = d
	}
}

func (h *retryAfterHint) take() time.Duration {
	d := h.d
	h.d = 0
	return d
}

// backoff builds the per-request backoff schedule: exponential growth from
// BaseDelay, jittered, capped at MaxDelay, bounded by MaxRetries. When the
// previous attempt carried a Retry-After hint, the larger of hint and
// computed delay wins.
func (rc *RetryConfig) backoff(hint *retryAfterHint) retry.Backoff {
	b := retry.NewExponential(rc.BaseDelay)
	if rc.JitterPercent > 0 {
		b = retry.WithJitterPercent(uint64(rc.JitterPercent), b)
	}
	b = retry.WithCappedDuration(rc.MaxDelay, b)

	inner := b
	b = retry.BackoffFunc(func() (time.Duration, bool) {
		d, stop := inner.Next()
		if stop {
			return 0, true
		}
		if ra := hint.take(); ra > d {
			d = ra
		}
		return d, false
	})

	return retry.WithMaxRetries(uint64(rc.MaxRetries), b)
}
