// Package doctor provides health checks for the hookgate installation.
package doctor

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/cockroachdb/errors"

	internalconfig "github.com/smykla-labs/hookgate/internal/config"
	"github.com/smykla-labs/hookgate/internal/xdg"
	"github.com/smykla-labs/hookgate/pkg/config"
	"github.com/smykla-labs/hookgate/pkg/logger"
)

// Status represents the status of a health check.
type Status string

const (
	// StatusPass indicates the check passed.
	StatusPass Status = "pass"
	// StatusFail indicates the check failed.
	StatusFail Status = "fail"
	// StatusSkipped indicates the check was skipped.
	StatusSkipped Status = "skipped"
)

// CheckResult represents the result of a health check.
type CheckResult struct {
	// Name is the human-readable name of the check.
	Name string

	// Status indicates whether the check passed, failed, or was skipped.
	Status Status

	// Message is the primary message describing the result.
	Message string

	// Details contains additional context about the result.
	Details []string
}

// HealthChecker performs a health check and returns a result.
type HealthChecker interface {
	// Name returns the human-readable name of the check.
	Name() string

	// Check performs the health check and returns a result.
	Check(ctx context.Context) CheckResult
}

// Runner executes health checks and reports results.
type Runner struct {
	checkers []HealthChecker
	out      io.Writer
	logger   logger.Logger
}

// NewRunner creates a Runner over the given checkers.
func NewRunner(checkers []HealthChecker, out io.Writer, log logger.Logger) *Runner {
	return &Runner{
		checkers: checkers,
		out:      out,
		logger:   log,
	}
}

// Run executes all checks and reports results. It returns an error when
// any check failed.
func (r *Runner) Run(ctx context.Context, verbose bool) error {
	failed := 0

	for _, checker := range r.checkers {
		result := checker.Check(ctx)
		r.logger.Debug("check completed", "name", result.Name, "status", result.Status)

		r.report(result, verbose)

		if result.Status == StatusFail {
			failed++
		}
	}

	if failed > 0 {
		fmt.Fprintf(r.out, "\n%d check(s) failed\n", failed)

		return errors.Newf("%d check(s) failed", failed)
	}

	fmt.Fprintln(r.out, "\nAll checks passed")

	return nil
}

func (r *Runner) report(result CheckResult, verbose bool) {
	marks := map[Status]string{
		StatusPass:    "ok",
		StatusFail:    "FAIL",
		StatusSkipped: "skip",
	}

	fmt.Fprintf(r.out, "[%s] %s: %s\n", marks[result.Status], result.Name, result.Message)

	if verbose {
		for _, detail := range result.Details {
			fmt.Fprintf(r.out, "       %s\n", detail)
		}
	}
}

// DefaultCheckers returns the standard check set for the installation.
func DefaultCheckers(cfg *config.Config) []HealthChecker {
	return []HealthChecker{
		&ConfigCheck{},
		&StateDirCheck{},
		&AudioCheck{config: cfg.Audio},
	}
}

// ConfigCheck verifies the configuration files parse cleanly.
type ConfigCheck struct{}

// Name implements HealthChecker.
func (c *ConfigCheck) Name() string { return "configuration" }

// Check implements HealthChecker.
func (c *ConfigCheck) Check(_ context.Context) CheckResult {
	result := CheckResult{Name: c.Name()}

	loader, err := internalconfig.NewLoader()
	if err != nil {
		result.Status = StatusFail
		result.Message = err.Error()

		return result
	}

	if _, err := loader.Load(nil); err != nil {
		result.Status = StatusFail
		result.Message = err.Error()
		result.Details = append(result.Details, "global: "+loader.GlobalConfigPath())

		return result
	}

	result.Status = StatusPass
	result.Message = "configuration loads cleanly"
	result.Details = append(result.Details,
		"global: "+loader.GlobalConfigPath(),
		fmt.Sprintf("global present: %t", loader.HasGlobalConfig()),
		fmt.Sprintf("project present: %t", loader.HasProjectConfig()),
	)

	return result
}

// StateDirCheck verifies the state directory is usable.
type StateDirCheck struct{}

// Name implements HealthChecker.
func (c *StateDirCheck) Name() string { return "state directory" }

// Check implements HealthChecker.
func (c *StateDirCheck) Check(_ context.Context) CheckResult {
	result := CheckResult{Name: c.Name()}
	dir := xdg.StateDir()

	if err := os.MkdirAll(dir, 0o700); err != nil {
		result.Status = StatusFail
		result.Message = fmt.Sprintf("cannot create %s: %v", dir, err)

		return result
	}

	probe := filepath.Join(dir, ".doctor-probe")
	if err := os.WriteFile(probe, nil, 0o600); err != nil {
		result.Status = StatusFail
		result.Message = fmt.Sprintf("cannot write to %s: %v", dir, err)

		return result
	}

	_ = os.Remove(probe)

	result.Status = StatusPass
	result.Message = dir

	return result
}

// AudioCheck verifies the audio player and sound directory when audio
// cues are enabled.
type AudioCheck struct {
	config *config.AudioConfig

	// lookPath is swappable for tests.
	lookPath func(string) (string, error)
}

// Name implements HealthChecker.
func (c *AudioCheck) Name() string { return "audio" }

// Check implements HealthChecker.
func (c *AudioCheck) Check(_ context.Context) CheckResult {
	result := CheckResult{Name: c.Name()}

	if !c.config.IsEnabled() {
		result.Status = StatusSkipped
		result.Message = "audio cues disabled"

		return result
	}

	lookPath := c.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	players := []string{"afplay", "paplay", "aplay", "ffplay"}
	if c.config != nil && c.config.Player != "" {
		players = []string{c.config.Player}
	}

	var found string

	for _, player := range players {
		if _, err := lookPath(player); err == nil {
			found = player

			break
		}
	}

	if found == "" {
		result.Status = StatusFail
		result.Message = "no audio player binary found"
		result.Details = append(result.Details, fmt.Sprintf("searched: %v", players))

		return result
	}

	dir := xdg.AudioDir()
	if c.config != nil && c.config.Dir != "" {
		dir = c.config.Dir
	}

	if _, err := os.Stat(dir); err != nil {
		result.Status = StatusFail
		result.Message = fmt.Sprintf("sound directory missing: %s", dir)

		return result
	}

	result.Status = StatusPass
	result.Message = fmt.Sprintf("player %s, sounds in %s", found, dir)

	return result
}
