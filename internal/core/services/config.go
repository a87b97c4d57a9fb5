package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/reposearch-cli/internal/core/domain"
	"github.com/custodia-labs/reposearch-cli/internal/core/ports/driven"
)

// Config keys for the search settings.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyBaseURL           = "api.base_url"
	KeyToken             = "api.token"
	KeyRequestsPerSecond = "api.requests_per_second"
	KeyTimeoutSeconds    = "api.timeout_seconds"
	KeyPageSize          = "search.page_size"
	KeyDebounceMillis    = "search.debounce_ms"
	KeyCooldownMillis    = "search.cooldown_ms"
)

// ConfigKeys lists every key the search settings read, in display order.
func ConfigKeys() []string {
	return []string{
		KeyBaseURL,
		KeyToken,
		KeyRequestsPerSecond,
		KeyTimeoutSeconds,
		KeyPageSize,
		KeyDebounceMillis,
		KeyCooldownMillis,
	}
}

// IsConfigKey reports whether key is a known search setting.
func IsConfigKey(key string) bool {
	for _, k := range ConfigKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// ConfigOverrides are values given on the command line.
// Zero values leave the stored setting in place.
type ConfigOverrides struct {
	BaseURL  string
	Token    string
	PageSize int
}

// ResolveSearchConfig layers defaults, the config store and overrides, in
// that order, and validates the result. A nil store is skipped.
func ResolveSearchConfig(store driven.ConfigStore, overrides ConfigOverrides) (domain.SearchConfig, error) {
	cfg := domain.DefaultSearchConfig()

	if store != nil {
		if v := store.GetString(KeyBaseURL); v != "" {
			cfg.BaseURL = v
		}
		if v := store.GetString(KeyToken); v != "" {
			cfg.Token = v
		}
		if v := store.GetFloat(KeyRequestsPerSecond); v > 0 {
			cfg.RequestsPerSecond = v
		}
		if v := store.GetInt(KeyTimeoutSeconds); v > 0 {
			cfg.Timeout = time.Duration(v) * time.Second
		}
		if v := store.GetInt(KeyPageSize); v != 0 {
			cfg.PageSize = v
		}
		if _, ok := store.Get(KeyDebounceMillis); ok {
			cfg.DebounceWindow = time.Duration(store.GetInt(KeyDebounceMillis)) * time.Millisecond
		}
		if _, ok := store.Get(KeyCooldownMillis); ok {
			cfg.CooldownDelay = time.Duration(store.GetInt(KeyCooldownMillis)) * time.Millisecond
		}
	}

	if overrides.BaseURL != "" {
		cfg.BaseURL = overrides.BaseURL
	}
	if overrides.Token != "" {
		cfg.Token = overrides.Token
	}
	if overrides.PageSize != 0 {
		cfg.PageSize = overrides.PageSize
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("resolve config: %w", err)
	}
	return cfg, nil
}
