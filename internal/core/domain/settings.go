package domain

import (
	"fmt"
	"net/url"
	"time"
)

// Defaults for SearchConfig.
const (
	DefaultBaseURL           = "https://api.github.com"
	DefaultPageSize          = 50
	DefaultDebounceWindow    = 250 * time.Millisecond
	DefaultCooldownDelay     = 500 * time.Millisecond
	DefaultRequestsPerSecond = 0.5
	DefaultTimeout           = 30 * time.Second

	// MaxPageSize is the largest per_page the search API accepts.
	MaxPageSize = 100
)

// SearchConfig holds the endpoint, paging and timing settings of a search session.
type SearchConfig struct {
	// BaseURL is the API root, e.g. https://api.github.com.
	BaseURL string

	// Token is an optional access token. Empty means unauthenticated.
	Token string

	// PageSize is the number of repositories requested per page.
	PageSize int

	// DebounceWindow collapses bursts of scroll-to-bottom signals.
	DebounceWindow time.Duration

	// CooldownDelay keeps the next-page flag raised after a successful load.
	CooldownDelay time.Duration

	// RequestsPerSecond is the proactive client-side throttle.
	RequestsPerSecond float64

	// Timeout bounds a single HTTP request.
	Timeout time.Duration
}

// DefaultSearchConfig returns the built-in configuration.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		BaseURL:           DefaultBaseURL,
		PageSize:          DefaultPageSize,
		DebounceWindow:    DefaultDebounceWindow,
		CooldownDelay:     DefaultCooldownDelay,
		RequestsPerSecond: DefaultRequestsPerSecond,
		Timeout:           DefaultTimeout,
	}
}

// Validate checks that the configuration can drive a session.
func (c SearchConfig) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: base URL %q", ErrInvalidConfig, c.BaseURL)
	}
	if c.PageSize <= 0 || c.PageSize > MaxPageSize {
		return fmt.Errorf("%w: page size %d not in 1..%d", ErrInvalidConfig, c.PageSize, MaxPageSize)
	}
	if c.DebounceWindow < 0 || c.CooldownDelay < 0 {
		return fmt.Errorf("%w: negative delay", ErrInvalidConfig)
	}
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("%w: requests per second must be positive", ErrInvalidConfig)
	}
	return nil
}

// Authenticated reports whether a token is configured.
func (c SearchConfig) Authenticated() bool {
	return c.Token != ""
}
