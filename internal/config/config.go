package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. The network-facing defaults mirror the
// limits the search service documents; the stage defaults match the
// behavior the published site was built around.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "dailynote"

	// APIKeyEnv is the environment variable holding the search credential.
	APIKeyEnv = "BRAVE_API_KEY"

	// DefaultTimezone is the timezone used when --date is omitted.
	// Collection runs on a fixed local day boundary regardless of where
	// the pipeline host happens to be.
	DefaultTimezone = "Asia/Taipei"

	// DefaultTimeout bounds each search request.
	DefaultTimeout = 20 * time.Second

	// DefaultMaxAttempts is the retry budget per search request.
	DefaultMaxAttempts = 4

	// DefaultBackoffBase is the exponential backoff base between retries.
	DefaultBackoffBase = 1500 * time.Millisecond

	// DefaultRequestDelay is the fixed pause between keyword queries,
	// a politeness setting for the upstream rate limit.
	DefaultRequestDelay = 1 * time.Second

	// DefaultResultCount is the number of results requested per keyword.
	DefaultResultCount = 10

	// DefaultAuthorTimeout bounds the authoring collaborator call.
	// On expiry the draft stage degrades to the deterministic fallback
	// writer instead of failing.
	DefaultAuthorTimeout = 30 * time.Second

	// DefaultAuthorCommand is the external authoring agent binary.
	DefaultAuthorCommand = "sessions-spawn"

	// DefaultImageCommand is the external image generator binary.
	DefaultImageCommand = "nanobanana"

	// DefaultIllustrateRetries is how many times the whole illustrate
	// step is retried. This is independent of any HTTP-level retry a
	// generator performs internally.
	DefaultIllustrateRetries = 3

	// DefaultIllustrateRetryDelay is the fixed pause between illustrate
	// retries.
	DefaultIllustrateRetryDelay = 5 * time.Second
)

// DefaultKeywords are the daily collection queries. Each is combined with
// the target date into one search request.
var DefaultKeywords = []string{
	"AI agents",
	"MCP",
	"GitHub trending",
	"AI coding tools",
	"LLM",
}

// Config holds all configuration for a pipeline run.
// It is populated from defaults, an optional config file, and CLI flags,
// then passed through the application via dependency injection.
type Config struct {
	// BaseDir is the repository root that artifacts, indexes, and logs
	// live under, and the working directory for the git transaction.
	BaseDir string

	// Date is the resolved target date in YYYY-MM-DD form.
	Date string

	// Timezone names the zone used to derive the default date.
	Timezone string

	// APIKey is the search API credential, from the environment only.
	APIKey string

	// Endpoint is the search API endpoint. Overridable for testing
	// against a local server.
	Endpoint string

	// Keywords are the collection queries, run sequentially.
	Keywords []string

	// ResultCount is the per-keyword result count.
	ResultCount int

	// Timeout bounds each search request.
	Timeout time.Duration

	// MaxAttempts is the retry budget per search request.
	MaxAttempts int

	// BackoffBase is the exponential backoff base between retries.
	BackoffBase time.Duration

	// RequestDelay is the fixed pause between keyword queries.
	RequestDelay time.Duration

	// AuthorCommand is the external authoring agent binary. Empty
	// disables the external agent, forcing the fallback writer.
	AuthorCommand string

	// AuthorTimeout bounds the authoring collaborator call.
	AuthorTimeout time.Duration

	// ImageCommand is the external image generator binary. Empty
	// disables the external generator.
	ImageCommand string

	// AllowPlaceholder keeps the degraded placeholder generator at the
	// end of the illustrate fallback chain. Disabling it makes the
	// illustrate stage fatal when no real generator is available.
	AllowPlaceholder bool

	// HistoryDir is the directory holding the run-history database.
	// Defaults to the XDG data directory.
	HistoryDir string

	// SaveHistory records every stage run in the history database.
	SaveHistory bool

	// Verbose enables debug-level log output.
	Verbose bool
}

// NewConfig creates a Config with default values.
//
// Design decision: We use a constructor instead of relying on zero values
// because most defaults are non-zero. It doubles as documentation of what
// the defaults are.
func NewConfig() *Config {
	return &Config{
		BaseDir:          ".",
		Timezone:         DefaultTimezone,
		Keywords:         append([]string(nil), DefaultKeywords...),
		ResultCount:      DefaultResultCount,
		Timeout:          DefaultTimeout,
		MaxAttempts:      DefaultMaxAttempts,
		BackoffBase:      DefaultBackoffBase,
		RequestDelay:     DefaultRequestDelay,
		AuthorCommand:    DefaultAuthorCommand,
		AuthorTimeout:    DefaultAuthorTimeout,
		ImageCommand:     DefaultImageCommand,
		AllowPlaceholder: true,
		HistoryDir:       XDGDataDir(),
		SaveHistory:      true,
	}
}

// XDGDataDir returns the XDG data directory for dailynote.
// On Linux: ~/.local/share/dailynote
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
// The API key is checked separately by RequireAPIKey because only the
// collect stage needs it.
func (c *Config) Validate() error {
	if _, err := time.Parse("2006-01-02", c.Date); err != nil {
		return ErrInvalidDate
	}
	if len(c.Keywords) == 0 {
		return ErrNoKeywords
	}
	if c.Timeout <= 0 || c.AuthorTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}
	if c.BackoffBase <= 0 {
		return ErrInvalidBackoffBase
	}
	if c.RequestDelay < 0 {
		return ErrInvalidRequestDelay
	}
	return nil
}

// RequireAPIKey returns ErrNoAPIKey when the search credential is missing.
func (c *Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return ErrNoAPIKey
	}
	return nil
}

// ResolveDate validates an explicit YYYY-MM-DD date, or derives today's
// date in the configured timezone when dateStr is empty.
func ResolveDate(dateStr, timezone string) (string, error) {
	if dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return "", ErrInvalidDate
		}
		return parsed.Format("2006-01-02"), nil
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return "", ErrInvalidTimezone
	}
	return time.Now().In(loc).Format("2006-01-02"), nil
}
