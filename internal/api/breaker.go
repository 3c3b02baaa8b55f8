package api

import (
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerConfig configures the optional circuit breaker around the
// transport. The breaker trips on consecutive connection-level failures;
// HTTP error statuses are the retry policy's concern, not the breaker's.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive transport failures
	// that opens the breaker.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before allowing a
	// half-open probe.
	OpenTimeout time.Duration
	// MaxHalfOpenRequests is the number of probe requests allowed while
	// half-open.
	MaxHalfOpenRequests uint32
}

func newBreaker(cfg *BreakerConfig) *gobreaker.CircuitBreaker[*http.Response] {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	return gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        "ekdsend-transport",
		MaxRequests: cfg.MaxHalfOpenRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
	})
}

// breakerRefused reports whether the error came from the breaker itself
// rather than the wire. Such failures are terminal: retrying locally would
// spin against an open breaker without reaching the server.
func breakerRefused(err error) bool {
	return err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests
}
