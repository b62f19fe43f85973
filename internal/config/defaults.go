package config

import (
	"time"

	"github.com/smykla-labs/hookgate/pkg/config"
)

// Default configuration constants for the koanf defaults map.
const (
	defaultTimeoutStr     = "3s"
	defaultCooldownStr    = "2s"
	defaultPlayTimeoutStr = "3s"
	defaultSessionMaxAge  = "24h"

	defaultAuditMaxSizeMB  = 10
	defaultAuditMaxAgeDays = 30
	defaultAuditMaxBackups = 3
)

// defaultsToMap returns the lowest-priority configuration layer.
// Only scalars appear here; table defaults (blocked substrings,
// sensitive patterns, classifier rules) live in the typed getters, so
// configured tables replace them wholesale instead of merging.
func defaultsToMap() map[string]any {
	return map[string]any{
		"global.default_timeout":    defaultTimeoutStr,
		"global.parallel_execution": false,

		"gates.dangerous_commands.enabled":        true,
		"gates.sensitive_paths.enabled":           true,
		"gates.package_install.enabled":           true,
		"gates.package_install.require_isolation": true,

		"classifier.enabled": true,

		"audio.enabled":      false,
		"audio.cooldown":     defaultCooldownStr,
		"audio.play_timeout": defaultPlayTimeoutStr,

		"session.enabled": true,
		"session.max_age": defaultSessionMaxAge,

		"audit.enabled":      true,
		"audit.max_size_mb":  defaultAuditMaxSizeMB,
		"audit.max_age_days": defaultAuditMaxAgeDays,
		"audit.max_backups":  defaultAuditMaxBackups,
	}
}

// DefaultConfig returns a fully populated configuration matching the
// defaults layer, for writing starter config files.
func DefaultConfig() *config.Config {
	return &config.Config{
		Global: &config.GlobalConfig{
			DefaultTimeout:    config.Duration(3 * time.Second),
			ParallelExecution: boolPtr(false),
		},
		Gates: &config.GatesConfig{
			DangerousCommands: &config.DangerousCommandsConfig{
				GateConfig: config.GateConfig{Enabled: boolPtr(true)},
			},
			SensitivePaths: &config.SensitivePathsConfig{
				GateConfig: config.GateConfig{Enabled: boolPtr(true)},
			},
			PackageInstall: &config.PackageInstallConfig{
				GateConfig:       config.GateConfig{Enabled: boolPtr(true)},
				RequireIsolation: boolPtr(true),
			},
		},
		Classifier: &config.ClassifierConfig{
			Enabled: boolPtr(true),
		},
		Audio: &config.AudioConfig{
			Enabled:     boolPtr(false),
			Cooldown:    config.Duration(2 * time.Second),
			PlayTimeout: config.Duration(3 * time.Second),
		},
		Session: &config.SessionConfig{
			Enabled: boolPtr(true),
			MaxAge:  config.Duration(24 * time.Hour),
		},
		Audit: &config.AuditConfig{
			Enabled:    boolPtr(true),
			MaxSizeMB:  intPtr(defaultAuditMaxSizeMB),
			MaxAgeDays: intPtr(defaultAuditMaxAgeDays),
			MaxBackups: intPtr(defaultAuditMaxBackups),
		},
	}
}

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }
