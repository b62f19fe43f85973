package config

// AuditConfig configures the decision audit log.
type AuditConfig struct {
	// Enabled controls whether decisions are audited. Default: true
	Enabled *bool `json:"enabled,omitempty" koanf:"enabled" toml:"enabled,omitempty"`

	// File overrides the audit log path. Default: XDG state dir audit.jsonl.
	File string `json:"file,omitempty" koanf:"file" toml:"file,omitempty"`

	// MaxSizeMB is the size threshold for rotation. Default: 10
	MaxSizeMB *int `json:"max_size_mb,omitempty" koanf:"max_size_mb" toml:"max_size_mb,omitempty"`

	// MaxAgeDays is how long rotated files are retained. Default: 30
	MaxAgeDays *int `json:"max_age_days,omitempty" koanf:"max_age_days" toml:"max_age_days,omitempty"`

	// MaxBackups is how many rotated files are retained. Default: 3
	MaxBackups *int `json:"max_backups,omitempty" koanf:"max_backups" toml:"max_backups,omitempty"`
}

// IsEnabled returns whether auditing is enabled.
func (c *AuditConfig) IsEnabled() bool {
	if c == nil || c.Enabled == nil {
		return true
	}

	return *c.Enabled
}

// GetMaxSizeMB returns the rotation size threshold.
func (c *AuditConfig) GetMaxSizeMB() int {
	const defaultMaxSizeMB = 10

	if c == nil || c.MaxSizeMB == nil {
		return defaultMaxSizeMB
	}

	return *c.MaxSizeMB
}

// GetMaxAgeDays returns the rotated file retention in days.
func (c *AuditConfig) GetMaxAgeDays() int {
	const defaultMaxAgeDays = 30

	if c == nil || c.MaxAgeDays == nil {
		return defaultMaxAgeDays
	}

	return *c.MaxAgeDays
}

// GetMaxBackups returns the number of rotated files retained.
func (c *AuditConfig) GetMaxBackups() int {
	const defaultMaxBackups = 3

	if c == nil || c.MaxBackups == nil {
		return defaultMaxBackups
	}

	return *c.MaxBackups
}
