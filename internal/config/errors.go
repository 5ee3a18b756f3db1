package config

import "errors"

// Configuration validation errors.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoAPIKey is returned when the search credential is missing.
	// The collect stage cannot run without BRAVE_API_KEY set.
	ErrNoAPIKey = errors.New("search API key is not set: export BRAVE_API_KEY")

	// ErrNoKeywords is returned when the keyword list is empty.
	// Collect with no keywords would always produce an empty material set.
	ErrNoKeywords = errors.New("no search keywords configured")

	// ErrInvalidDate is returned when a --date value does not parse as
	// YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date: expected YYYY-MM-DD")

	// ErrInvalidTimeout is returned when a timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxAttempts is returned when the retry budget is not
	// positive. Zero attempts would mean no request is ever sent.
	ErrInvalidMaxAttempts = errors.New("invalid max attempts: must be positive")

	// ErrInvalidBackoffBase is returned when the backoff base is not
	// positive.
	ErrInvalidBackoffBase = errors.New("invalid backoff base: must be positive")

	// ErrInvalidRequestDelay is returned when the inter-query delay is
	// negative. Use 0 for no delay between keyword queries.
	ErrInvalidRequestDelay = errors.New("invalid request delay: must be non-negative")

	// ErrInvalidTimezone is returned when the configured timezone cannot
	// be loaded.
	ErrInvalidTimezone = errors.New("invalid timezone")
)
