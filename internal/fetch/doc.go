// Package fetch provides the outbound call executor shared by the
// network-bound pipeline stages.
//
// The Executor wraps a single HTTP request with bounded retries,
// exponential backoff, and rate-limit header compliance:
//   - Transient network failures and 5xx responses are retried on an
//     exponential schedule (base * 2^(attempt-1)).
//   - 429 responses honor an integer Retry-After header when present,
//     falling back to the exponential schedule otherwise.
//   - After a successful response, exhausted rate-limit quota
//     (X-RateLimit-Remaining: 0 with a reset timestamp) triggers a
//     cooperative sleep until the reset time before returning.
//   - Other 4xx responses fail fast with no retry.
//
// Design decision: sleeps and the clock are injectable so that the backoff
// schedule is testable without real waiting. Callers must budget for the
// worst-case cumulative backoff time; no cancellation beyond the request
// context and per-request timeout is provided.
package fetch
