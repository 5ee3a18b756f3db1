package fetch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Default executor settings. These mirror the upstream search service's
// documented limits: four attempts with a 1.5 second backoff base keeps the
// worst-case blocking time around ten seconds.
const (
	// DefaultMaxAttempts is the total number of attempts per request.
	DefaultMaxAttempts = 4

	// DefaultBackoffBase is the base for the exponential backoff schedule.
	DefaultBackoffBase = 1500 * time.Millisecond

	// DefaultRequestTimeout bounds each individual attempt.
	DefaultRequestTimeout = 20 * time.Second

	// maxResponseBody limits how much of a response body is read.
	// Search responses are small JSON documents; anything larger is
	// truncated to prevent memory exhaustion.
	maxResponseBody = 5 * 1024 * 1024
)

// RequestSpec describes one outbound GET request.
type RequestSpec struct {
	// Endpoint is the full request URL without query parameters.
	Endpoint string

	// Header contains request headers (API keys, Accept, ...).
	Header map[string]string

	// Query contains query parameters, encoded into the URL.
	Query url.Values

	// Timeout bounds this request. Zero means DefaultRequestTimeout.
	Timeout time.Duration
}

// Response is the outcome of a successful request.
type Response struct {
	// StatusCode is the HTTP status code (always < 400 here).
	StatusCode int

	// Header contains the response headers.
	Header http.Header

	// Body is the response body, read fully and truncated at the
	// executor's body limit.
	Body []byte
}

// Executor executes outbound requests with bounded retries and backoff.
//
// Design decision: We use a struct with the http.Client rather than
// package-level functions because:
//  1. Client configuration (proxy, TLS, timeouts) stays consistent
//  2. Connection pooling works better with a shared client
//  3. The sleep and clock hooks make the backoff schedule testable
type Executor struct {
	// client is the HTTP client used for all attempts.
	client *http.Client

	// maxAttempts is the total attempt budget per request.
	maxAttempts int

	// backoffBase is the base delay for the exponential schedule.
	backoffBase time.Duration

	// sleep blocks the calling goroutine. Injectable for tests.
	sleep func(time.Duration)

	// now returns the current time. Injectable for tests of the
	// rate-limit reset wait.
	now func() time.Time

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Executor) {
		e.client = client
	}
}

// WithMaxAttempts sets the total attempt budget per request.
func WithMaxAttempts(n int) Option {
	return func(e *Executor) {
		e.maxAttempts = n
	}
}

// WithBackoffBase sets the base delay for the exponential backoff schedule.
func WithBackoffBase(d time.Duration) Option {
	return func(e *Executor) {
		e.backoffBase = d
	}
}

// WithSleepFunc replaces the sleep function. Tests use this to record
// the backoff schedule instead of actually waiting.
func WithSleepFunc(sleep func(time.Duration)) Option {
	return func(e *Executor) {
		e.sleep = sleep
	}
}

// WithNowFunc replaces the clock used for rate-limit reset calculations.
func WithNowFunc(now func() time.Time) Option {
	return func(e *Executor) {
		e.now = now
	}
}

// WithLogger sets a custom logger for the executor.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// NewExecutor creates an Executor with the given options.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		client:      &http.Client{},
		maxAttempts: DefaultMaxAttempts,
		backoffBase: DefaultBackoffBase,
		sleep:       time.Sleep,
		now:         time.Now,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Do executes the request, retrying transient failures, 5xx, and 429
// responses up to the attempt budget. It returns a *ClientError for other
// 4xx responses without retrying, and a *RetryExhaustedError carrying the
// last underlying error once attempts run out.
func (e *Executor) Do(ctx context.Context, spec RequestSpec) (*Response, error) {
	var lastErr error

	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		resp, retryAfter, err := e.attempt(ctx, spec)
		if err == nil {
			e.cooperativeThrottle(resp)
			return resp, nil
		}

		// Permanent client errors are never retried.
		var clientErr *ClientError
		if errors.As(err, &clientErr) {
			return nil, clientErr
		}

		lastErr = err
		if attempt == e.maxAttempts {
			break
		}

		delay := e.backoff(attempt)
		if retryAfter > 0 {
			delay = retryAfter
		}
		e.logger.Warn("request failed, retrying",
			"endpoint", spec.Endpoint,
			"attempt", attempt,
			"delay", delay,
			"error", err,
		)
		e.sleep(delay)
	}

	e.logger.Error("request failed, attempts exhausted",
		"endpoint", spec.Endpoint,
		"attempts", e.maxAttempts,
		"error", lastErr,
	)
	return nil, &RetryExhaustedError{Attempts: e.maxAttempts, Err: lastErr}
}

// attempt performs one request. On a 429 it returns ErrRateLimited together
// with the server-requested retry delay (zero when no Retry-After header is
// present, in which case the caller falls back to the exponential schedule).
func (e *Executor) attempt(ctx context.Context, spec RequestSpec) (*Response, time.Duration, error) {
	timeout := spec.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	endpoint := spec.Endpoint
	if len(spec.Query) > 0 {
		endpoint += "?" + spec.Query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, err
	}
	for k, v := range spec.Header {
		req.Header.Set(k, v)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		// Transient network failure.
		return nil, 0, err
	}
	defer resp.Body.Close() //nolint:errcheck // Read side is what matters

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, 0, err
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, parseRetryAfter(resp.Header.Get("Retry-After")), ErrRateLimited
	case resp.StatusCode >= 500:
		return nil, 0, &ServerError{StatusCode: resp.StatusCode}
	case resp.StatusCode >= 400:
		return nil, 0, &ClientError{StatusCode: resp.StatusCode}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, 0, nil
}

// cooperativeThrottle sleeps until the advertised rate-limit reset when the
// response reports zero remaining quota. This is self-throttling after a
// success, not a retry: the response is returned afterwards regardless.
func (e *Executor) cooperativeThrottle(resp *Response) {
	if resp.Header.Get("X-RateLimit-Remaining") != "0" {
		return
	}
	reset, err := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64)
	if err != nil {
		return
	}
	wait := time.Unix(reset, 0).Sub(e.now())
	if wait <= 0 {
		return
	}
	e.logger.Warn("rate limit quota exhausted, waiting for reset", "wait", wait)
	e.sleep(wait)
}

// backoff returns the exponential delay for the given 1-based attempt:
// base * 2^(attempt-1).
func (e *Executor) backoff(attempt int) time.Duration {
	return e.backoffBase << (attempt - 1)
}

// parseRetryAfter parses an integer-seconds Retry-After value.
// The HTTP-date form is not produced by the search service and is ignored.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}
