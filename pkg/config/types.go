// Package config provides configuration schema types for hookgate policies.
package config

import (
	"time"

	"github.com/cockroachdb/errors"
)

// ErrNegativeDuration is returned when a duration value is negative.
var ErrNegativeDuration = errors.New("duration must not be negative")

// Duration wraps time.Duration for human-readable TOML values ("2s", "1h").
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	dur, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrap(err, "invalid duration")
	}

	if dur < 0 {
		return errors.Wrapf(ErrNegativeDuration, "got %s", dur)
	}

	*d = Duration(dur)

	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML serialization.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// ToDuration converts Duration to time.Duration.
func (d Duration) ToDuration() time.Duration {
	return time.Duration(d)
}

// Config represents the root configuration for hookgate.
type Config struct {
	// Gates groups allow/deny gate configurations.
	Gates *GatesConfig `json:"gates,omitempty" koanf:"gates" toml:"gates,omitempty"`

	// Classifier contains prompt routing configuration.
	Classifier *ClassifierConfig `json:"classifier,omitempty" koanf:"classifier" toml:"classifier,omitempty"`

	// Audio contains audio cue configuration.
	Audio *AudioConfig `json:"audio,omitempty" koanf:"audio" toml:"audio,omitempty"`

	// Session contains session tracking configuration.
	Session *SessionConfig `json:"session,omitempty" koanf:"session" toml:"session,omitempty"`

	// Audit contains decision audit log configuration.
	Audit *AuditConfig `json:"audit,omitempty" koanf:"audit" toml:"audit,omitempty"`

	// Global settings that apply across all policies.
	Global *GlobalConfig `json:"global,omitempty" koanf:"global" toml:"global,omitempty"`
}

// GlobalConfig contains settings that apply to all policies.
type GlobalConfig struct {
	// DefaultTimeout bounds every external call a hook makes
	// (audio players, subprocesses). Default: "3s"
	DefaultTimeout Duration `json:"default_timeout,omitempty" koanf:"default_timeout" toml:"default_timeout,omitempty"`

	// ParallelExecution enables parallel validator execution.
	// Default: false (sequential execution)
	ParallelExecution *bool `json:"parallel_execution,omitempty" koanf:"parallel_execution" toml:"parallel_execution,omitempty"`

	// MaxCPUWorkers is the maximum number of concurrent CPU-bound validators.
	// Default: runtime.NumCPU()
	MaxCPUWorkers *int `json:"max_cpu_workers,omitempty" koanf:"max_cpu_workers" toml:"max_cpu_workers,omitempty"`

	// MaxIOWorkers is the maximum number of concurrent I/O-bound validators.
	// Default: runtime.NumCPU() * 2
	MaxIOWorkers *int `json:"max_io_workers,omitempty" koanf:"max_io_workers" toml:"max_io_workers,omitempty"`
}

// GetDefaultTimeout returns the configured timeout or the 3s default.
func (g *GlobalConfig) GetDefaultTimeout() time.Duration {
	const defaultTimeout = 3 * time.Second

	if g == nil || g.DefaultTimeout == 0 {
		return defaultTimeout
	}

	return g.DefaultTimeout.ToDuration()
}

// IsParallelExecution returns whether parallel execution is enabled.
func (g *GlobalConfig) IsParallelExecution() bool {
	if g == nil || g.ParallelExecution == nil {
		return false
	}

	return *g.ParallelExecution
}
