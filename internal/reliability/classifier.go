// Package reliability classifies remote-call failures and computes retry
// delays for the long-poll loop.
package reliability

import (
	"errors"
	"net"
	"time"
)

// StatusCarrier is implemented by errors that carry an HTTP or Bot API
// error code.
type StatusCarrier interface {
	StatusCode() int
}

// IsRetryableHTTPStatus classifies retryable HTTP status codes.
func IsRetryableHTTPStatus(code int) bool {
	switch code {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

// Retryable classifies an error from a remote call. Timeouts and transport
// failures are retryable; application errors are retryable only when their
// status code is. A 401 from a bad token, for example, will never recover
// on its own.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	var sc StatusCarrier
	if errors.As(err, &sc) {
		return IsRetryableHTTPStatus(sc.StatusCode())
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	// Long polls drop connections routinely; unknown transport failures
	// default to retryable.
	return true
}

// ExponentialBackoff computes a deterministic capped backoff duration.
func ExponentialBackoff(attempt int, base, cap time.Duration) time.Duration {
	if attempt <= 0 {
		return base
	}
	d := base
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= cap {
			return cap
		}
	}
	return d
}
