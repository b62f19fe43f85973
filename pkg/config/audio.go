package config

import "time"

// AudioConfig configures audio cue selection and playback.
type AudioConfig struct {
	// Enabled controls whether audio cues play at all. Default: false
	Enabled *bool `json:"enabled,omitempty" koanf:"enabled" toml:"enabled,omitempty"`

	// Dir is the sound file directory. Default: XDG data dir audio/.
	Dir string `json:"dir,omitempty" koanf:"dir" toml:"dir,omitempty"`

	// Player overrides the external player command. When empty the
	// platform default chain is tried (afplay, paplay, aplay, ffplay).
	Player string `json:"player,omitempty" koanf:"player" toml:"player,omitempty"`

	// Cooldown is the minimum interval between cues sharing a sound key.
	// Default: "2s"
	Cooldown Duration `json:"cooldown,omitempty" koanf:"cooldown" toml:"cooldown,omitempty"`

	// PlayTimeout bounds one playback invocation. Default: "3s"
	PlayTimeout Duration `json:"play_timeout,omitempty" koanf:"play_timeout" toml:"play_timeout,omitempty"`
}

// IsEnabled returns whether audio cues are enabled.
// Audio is opt-in, unlike gates.
func (c *AudioConfig) IsEnabled() bool {
	if c == nil || c.Enabled == nil {
		return false
	}

	return *c.Enabled
}

// GetCooldown returns the configured cooldown or the 2s default.
func (c *AudioConfig) GetCooldown() time.Duration {
	const defaultCooldown = 2 * time.Second

	if c == nil || c.Cooldown == 0 {
		return defaultCooldown
	}

	return c.Cooldown.ToDuration()
}

// GetPlayTimeout returns the configured playback timeout or the 3s default.
func (c *AudioConfig) GetPlayTimeout() time.Duration {
	const defaultPlayTimeout = 3 * time.Second

	if c == nil || c.PlayTimeout == 0 {
		return defaultPlayTimeout
	}

	return c.PlayTimeout.ToDuration()
}
