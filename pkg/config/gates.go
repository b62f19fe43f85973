package config

// GatesConfig groups all allow/deny gate configurations.
type GatesConfig struct {
	// DangerousCommands configures the dangerous command gate.
	DangerousCommands *DangerousCommandsConfig `json:"dangerous_commands,omitempty" koanf:"dangerous_commands" toml:"dangerous_commands,omitempty"`

	// SensitivePaths configures the sensitive path gate.
	SensitivePaths *SensitivePathsConfig `json:"sensitive_paths,omitempty" koanf:"sensitive_paths" toml:"sensitive_paths,omitempty"`

	// PackageInstall configures the isolated-environment gate.
	PackageInstall *PackageInstallConfig `json:"package_install,omitempty" koanf:"package_install" toml:"package_install,omitempty"`
}

// GateConfig contains common gate settings.
type GateConfig struct {
	// Enabled controls whether this gate runs. Default: true
	Enabled *bool `json:"enabled,omitempty" koanf:"enabled" toml:"enabled,omitempty"`
}

// IsEnabled returns whether the gate is enabled.
func (g *GateConfig) IsEnabled() bool {
	if g == nil || g.Enabled == nil {
		return true
	}

	return *g.Enabled
}

// DangerousCommandsConfig configures the dangerous command gate.
type DangerousCommandsConfig struct {
	GateConfig `koanf:",squash"`

	// BlockedSubstrings are matched case-sensitively against Bash commands.
	// The deny reason names the matched substring.
	BlockedSubstrings []string `json:"blocked_substrings,omitempty" koanf:"blocked_substrings" toml:"blocked_substrings,omitempty"`
}

// GetBlockedSubstrings returns the configured substrings or the defaults.
func (c *DangerousCommandsConfig) GetBlockedSubstrings() []string {
	if c == nil || len(c.BlockedSubstrings) == 0 {
		return defaultBlockedSubstrings()
	}

	return c.BlockedSubstrings
}

// defaultBlockedSubstrings is the built-in dangerous command table.
func defaultBlockedSubstrings() []string {
	return []string{
		"rm -rf /",
		"rm -rf ~",
		"dd if=/dev/zero",
		"mkfs",
		":(){ :|:& };:", // fork bomb
		"> /dev/sda",
	}
}

// SensitivePathsConfig configures the sensitive path gate.
type SensitivePathsConfig struct {
	GateConfig `koanf:",squash"`

	// Patterns are doublestar globs matched against file operation targets.
	Patterns []string `json:"patterns,omitempty" koanf:"patterns" toml:"patterns,omitempty"`
}

// GetPatterns returns the configured patterns or the defaults.
func (c *SensitivePathsConfig) GetPatterns() []string {
	if c == nil || len(c.Patterns) == 0 {
		return defaultSensitivePatterns()
	}

	return c.Patterns
}

// defaultSensitivePatterns is the built-in protected path table.
func defaultSensitivePatterns() []string {
	return []string{
		"**/.env",
		"**/.env.*",
		"**/secrets/**",
		"**/*.pem",
		"**/*.key",
		"**/.ssh/**",
		"**/.aws/credentials",
	}
}

// PackageInstallConfig configures the isolated-environment gate.
type PackageInstallConfig struct {
	GateConfig `koanf:",squash"`

	// RequireIsolation denies package installs that run outside a
	// virtualenv or equivalent isolated environment. Default: true
	RequireIsolation *bool `json:"require_isolation,omitempty" koanf:"require_isolation" toml:"require_isolation,omitempty"`

	// Installers are the package manager commands this gate watches.
	Installers []string `json:"installers,omitempty" koanf:"installers" toml:"installers,omitempty"`
}

// IsIsolationRequired returns whether isolation is required.
func (c *PackageInstallConfig) IsIsolationRequired() bool {
	if c == nil || c.RequireIsolation == nil {
		return true
	}

	return *c.RequireIsolation
}

// GetInstallers returns the configured installers or the defaults.
func (c *PackageInstallConfig) GetInstallers() []string {
	if c == nil || len(c.Installers) == 0 {
		return []string{"pip", "pip3"}
	}

	return c.Installers
}
