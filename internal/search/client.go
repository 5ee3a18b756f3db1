package search

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/morinote/dailynote/internal/fetch"
	"github.com/morinote/dailynote/internal/model"
)

// Default search client settings.
const (
	// DefaultEndpoint is the Brave web search API endpoint.
	DefaultEndpoint = "https://api.search.brave.com/res/v1/web/search"

	// DefaultCount is the number of results requested per keyword.
	DefaultCount = 10

	// DefaultFreshness restricts results to the last day. The pipeline
	// collects daily material, so older results are noise.
	DefaultFreshness = "day"
)

// Client queries a Brave-compatible web search API.
//
// Design decision: The client owns no retry logic. Every request goes
// through a fetch.Executor so that backoff and rate-limit handling are
// identical for all network-bound stages.
type Client struct {
	// executor performs the outbound requests.
	executor *fetch.Executor

	// endpoint is the search API URL.
	endpoint string

	// apiKey authenticates requests via the X-Subscription-Token header.
	apiKey string

	// count is the per-keyword result count.
	count int

	// freshness is the freshness filter value.
	freshness string

	// timeout bounds each query.
	timeout time.Duration

	// logger for structured logging.
	logger *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithEndpoint overrides the search API endpoint. Tests point this at an
// httptest server.
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithCount sets the per-keyword result count.
func WithCount(count int) ClientOption {
	return func(c *Client) {
		c.count = count
	}
}

// WithFreshness sets the freshness filter.
func WithFreshness(freshness string) ClientOption {
	return func(c *Client) {
		c.freshness = freshness
	}
}

// WithTimeout sets the per-query timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithClientLogger sets a custom logger for the client.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a search client using the given executor and API key.
func NewClient(executor *fetch.Executor, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		executor:  executor,
		endpoint:  DefaultEndpoint,
		apiKey:    apiKey,
		count:     DefaultCount,
		freshness: DefaultFreshness,
		timeout:   fetch.DefaultRequestTimeout,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// response mirrors the subset of the search API's JSON we consume.
type response struct {
	Web struct {
		Results []result `json:"results"`
	} `json:"web"`
}

// result is a single raw search result. Description and Snippet are
// alternative fields for the same concept across API versions.
type result struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Snippet     string `json:"snippet"`
}

// Search queries one keyword scoped to the given date and returns the
// parsed results. Results with an empty title or URL are skipped.
// A malformed JSON body yields zero results, logged but not fatal.
func (c *Client) Search(ctx context.Context, keyword, date string) ([]model.MaterialEntry, error) {
	query := url.Values{}
	query.Set("q", keyword+" "+date)
	query.Set("count", strconv.Itoa(c.count))
	query.Set("freshness", c.freshness)

	resp, err := c.executor.Do(ctx, fetch.RequestSpec{
		Endpoint: c.endpoint,
		Header: map[string]string{
			"Accept":               "application/json",
			"X-Subscription-Token": c.apiKey,
		},
		Query:   query,
		Timeout: c.timeout,
	})
	if err != nil {
		return nil, err
	}

	var parsed response
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		c.logger.Error("failed to decode search response",
			"keyword", keyword,
			"error", err,
		)
		return nil, nil
	}

	entries := make([]model.MaterialEntry, 0, len(parsed.Web.Results))
	for _, r := range parsed.Web.Results {
		title := strings.TrimSpace(r.Title)
		rawURL := strings.TrimSpace(r.URL)
		if title == "" || rawURL == "" {
			continue
		}

		summary := strings.TrimSpace(r.Description)
		if summary == "" {
			summary = strings.TrimSpace(r.Snippet)
		}

		entries = append(entries, model.MaterialEntry{
			Title:   title,
			URL:     rawURL,
			Summary: summary,
		})
	}
	return entries, nil
}
