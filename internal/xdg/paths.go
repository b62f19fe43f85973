// Package xdg provides centralized path management following XDG Base
// Directory conventions. All global/user-level paths hookgate touches on
// disk are defined here. Project-local paths (.hookgate/config.toml) remain
// in internal/config.
package xdg

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

const appName = "hookgate"

func userHome() (string, error) {
	return os.UserHomeDir()
}

// --- XDG base directory functions ---

// ConfigHome returns $XDG_CONFIG_HOME or ~/.config.
func ConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}

	home, err := userHome()
	if err != nil {
		return filepath.Join("~", ".config")
	}

	return filepath.Join(home, ".config")
}

// DataHome returns $XDG_DATA_HOME or ~/.local/share.
func DataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}

	home, err := userHome()
	if err != nil {
		return filepath.Join("~", ".local", "share")
	}

	return filepath.Join(home, ".local", "share")
}

// StateHome returns $XDG_STATE_HOME or ~/.local/state.
func StateHome() string {
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return v
	}

	home, err := userHome()
	if err != nil {
		return filepath.Join("~", ".local", "state")
	}

	return filepath.Join(home, ".local", "state")
}

// --- hookgate-specific directories ---

// ConfigDir returns ConfigHome()/hookgate.
func ConfigDir() string {
	return filepath.Join(ConfigHome(), appName)
}

// DataDir returns DataHome()/hookgate.
func DataDir() string {
	return filepath.Join(DataHome(), appName)
}

// StateDir returns StateHome()/hookgate.
func StateDir() string {
	return filepath.Join(StateHome(), appName)
}

// --- Specific file paths ---

// GlobalConfigFile returns ConfigDir()/config.toml.
func GlobalConfigFile() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// LogFile returns the dispatcher log file path.
// Respects HOOKGATE_LOG_FILE env var, otherwise StateDir()/dispatcher.log.
func LogFile() string {
	if v := os.Getenv("HOOKGATE_LOG_FILE"); v != "" {
		return v
	}

	return filepath.Join(StateDir(), "dispatcher.log")
}

// AuditFile returns StateDir()/audit.jsonl.
func AuditFile() string {
	return filepath.Join(StateDir(), "audit.jsonl")
}

// CrashDumpDir returns StateDir()/crashes.
func CrashDumpDir() string {
	return filepath.Join(StateDir(), "crashes")
}

// CooldownStateFile returns StateDir()/cooldowns.json.
func CooldownStateFile() string {
	return filepath.Join(StateDir(), "cooldowns.json")
}

// SessionStateFile returns StateDir()/sessions.json.
func SessionStateFile() string {
	return filepath.Join(StateDir(), "sessions.json")
}

// AudioDir returns the sound file directory.
// Respects HOOKGATE_AUDIO_DIR env var, otherwise DataDir()/audio.
func AudioDir() string {
	if v := os.Getenv("HOOKGATE_AUDIO_DIR"); v != "" {
		return v
	}

	return filepath.Join(DataDir(), "audio")
}

// --- Utility functions ---

// ExpandPath resolves ~ prefix to the user's home directory.
// Returns the path unchanged if it doesn't start with ~.
// Returns error for invalid tilde usage like "~foo".
func ExpandPath(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	home, err := userHome()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}

	switch {
	case path == "~":
		return home, nil
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(home, path[2:]), nil
	default:
		return "", errors.Newf("paths starting with ~ must be either ~ or ~/subdir, got %q", path)
	}
}

// ExpandPathSilent resolves ~ prefix, returning the original path on error.
func ExpandPathSilent(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}

	return expanded
}
