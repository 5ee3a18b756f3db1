// Package search implements the search collaborator boundary for the
// Collect stage.
//
// The Client queries a Brave-compatible web search API (one GET per
// keyword, "<keyword> <date>" as the query) through the fetch executor,
// so all retry, backoff, and rate-limit behavior lives in one place.
// A malformed or empty JSON response yields zero results for that
// keyword rather than a fatal error; a single bad query should not sink
// a whole collect run.
//
// The Deduplicator normalizes discovered URLs to a canonical identity
// (lowercased scheme and host, trailing slash stripped, fragment dropped,
// query string kept verbatim) and admits only the first occurrence.
// Its state is scoped to one Collect run.
package search
