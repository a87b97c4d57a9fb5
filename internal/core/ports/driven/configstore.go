package driven

import "context"

// ConfigStore provides access to application configuration.
// Keys use dot notation matching the TOML layout (e.g. "search.page_size").
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString returns "" if the key doesn't exist or isn't a string.
	GetString(key string) string

	// GetInt returns 0 if the key doesn't exist or isn't an integer.
	GetInt(key string) int

	// GetFloat returns 0 if the key doesn't exist or isn't numeric.
	GetFloat(key string) float64

	// Set stores a configuration value and persists it immediately.
	Set(key string, value any) error

	// Keys returns all known keys in sorted order.
	Keys() []string

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}

// ConfigWatcher is implemented by stores whose backing file can change
// underneath a running process.
type ConfigWatcher interface {
	// Watch reloads the store on every change and then signals on the
	// returned channel. Bursts of changes may collapse into one signal.
	// The channel is closed once ctx is done.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
