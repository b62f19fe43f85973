package config

import "time"

// SessionConfig configures session state tracking.
type SessionConfig struct {
	// Enabled controls whether session tracking runs. Default: true
	Enabled *bool `json:"enabled,omitempty" koanf:"enabled" toml:"enabled,omitempty"`

	// MaxAge is how long an idle session is retained. Default: "24h"
	MaxAge Duration `json:"max_age,omitempty" koanf:"max_age" toml:"max_age,omitempty"`
}

// IsEnabled returns whether session tracking is enabled.
func (c *SessionConfig) IsEnabled() bool {
	if c == nil || c.Enabled == nil {
		return true
	}

	return *c.Enabled
}

// GetMaxAge returns the configured retention or the 24h default.
func (c *SessionConfig) GetMaxAge() time.Duration {
	const defaultMaxAge = 24 * time.Hour

	if c == nil || c.MaxAge == 0 {
		return defaultMaxAge
	}

	return c.MaxAge.ToDuration()
}
