package fetch

import (
	"errors"
	"fmt"
)

// ErrRateLimited marks a 429 response. It is wrapped into the retry loop's
// last error so that exhaustion reports the real cause.
var ErrRateLimited = errors.New("rate limited by remote service")

// ClientError reports a permanent 4xx response (other than 429).
// The executor fails fast on these: retrying a request the server has
// already rejected as malformed or unauthorized cannot succeed.
type ClientError struct {
	// StatusCode is the HTTP status code of the rejected request.
	StatusCode int
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	return fmt.Sprintf("client error: status %d", e.StatusCode)
}

// ServerError reports a 5xx response. It is transient from the executor's
// point of view and is retried until attempts are exhausted.
type ServerError struct {
	// StatusCode is the HTTP status code of the failed request.
	StatusCode int
}

// Error implements the error interface.
func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: status %d", e.StatusCode)
}

// RetryExhaustedError is returned when every attempt failed.
// It carries the last underlying error for diagnosis.
type RetryExhaustedError struct {
	// Attempts is the number of attempts made.
	Attempts int

	// Err is the error from the final attempt.
	Err error
}

// Error implements the error interface.
func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("request failed after %d attempts: %v", e.Attempts, e.Err)
}

// Unwrap returns the last underlying error so callers can use errors.Is/As.
func (e *RetryExhaustedError) Unwrap() error {
	return e.Err
}
