package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNetwork is returned when a request fails at the transport level
	// (DNS, connection reset, timeout)
	ErrNetwork = errors.New("network request failed")

	// ErrDecode is returned when a response body does not match the expected schema
	ErrDecode = errors.New("failed to decode response")

	// ErrEncode is returned when a request body cannot be serialized
	ErrEncode = errors.New("failed to encode request")

	// ErrInvalidInput is returned when a caller-supplied argument violates a precondition
	ErrInvalidInput = errors.New("invalid input")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)

// StatusError is returned when a server responds with a non-2xx status.
// Body preserves the raw response body for diagnostics. RetryAfter is
// non-zero only when a 429 response carried a parseable Retry-After header.
type StatusError struct {
	Code       int
	Body       string
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// IsRateLimited reports whether err is a StatusError for HTTP 429.
func IsRateLimited(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == 429
}
