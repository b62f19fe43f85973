package doctor

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/smykla-labs/hookgate/pkg/config"
	"github.com/smykla-labs/hookgate/pkg/logger"
)

type stubCheck struct {
	name   string
	result CheckResult
}

func (s *stubCheck) Name() string { return s.name }

func (s *stubCheck) Check(_ context.Context) CheckResult {
	result := s.result
	result.Name = s.name

	return result
}

func TestRunnerAllPass(t *testing.T) {
	var out bytes.Buffer

	runner := NewRunner([]HealthChecker{
		&stubCheck{name: "a", result: CheckResult{Status: StatusPass, Message: "fine"}},
		&stubCheck{name: "b", result: CheckResult{Status: StatusSkipped, Message: "off"}},
	}, &out, logger.NewNoOpLogger())

	if err := runner.Run(context.Background(), false); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !strings.Contains(out.String(), "All checks passed") {
		t.Errorf("output missing success line: %q", out.String())
	}
}

func TestRunnerReportsFailures(t *testing.T) {
	var out bytes.Buffer

	runner := NewRunner([]HealthChecker{
		&stubCheck{name: "a", result: CheckResult{Status: StatusPass, Message: "fine"}},
		&stubCheck{name: "b", result: CheckResult{Status: StatusFail, Message: "broken"}},
	}, &out, logger.NewNoOpLogger())

	if err := runner.Run(context.Background(), false); err == nil {
		t.Fatal("expected error when a check fails")
	}

	if !strings.Contains(out.String(), "[FAIL] b: broken") {
		t.Errorf("output missing failure line: %q", out.String())
	}
}

func TestRunnerVerboseDetails(t *testing.T) {
	var out bytes.Buffer

	runner := NewRunner([]HealthChecker{
		&stubCheck{name: "a", result: CheckResult{
			Status:  StatusPass,
			Message: "fine",
			Details: []string{"extra detail"},
		}},
	}, &out, logger.NewNoOpLogger())

	if err := runner.Run(context.Background(), true); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !strings.Contains(out.String(), "extra detail") {
		t.Errorf("verbose output missing details: %q", out.String())
	}
}

func TestAudioCheckSkippedWhenDisabled(t *testing.T) {
	check := &AudioCheck{config: &config.AudioConfig{}}

	result := check.Check(context.Background())
	if result.Status != StatusSkipped {
		t.Errorf("Status = %q, want %q", result.Status, StatusSkipped)
	}
}

func TestAudioCheckMissingPlayer(t *testing.T) {
	enabled := true
	check := &AudioCheck{
		config: &config.AudioConfig{Enabled: &enabled},
		lookPath: func(string) (string, error) {
			return "", os.ErrNotExist
		},
	}

	result := check.Check(context.Background())
	if result.Status != StatusFail {
		t.Errorf("Status = %q, want %q", result.Status, StatusFail)
	}
}

func TestAudioCheckCustomPlayer(t *testing.T) {
	enabled := true
	dir := t.TempDir()
	check := &AudioCheck{
		config: &config.AudioConfig{Enabled: &enabled, Player: "mycustomplayer", Dir: dir},
		lookPath: func(name string) (string, error) {
			if name != "mycustomplayer" {
				t.Errorf("looked up %q, want mycustomplayer", name)
			}

			return "/usr/bin/mycustomplayer", nil
		},
	}

	result := check.Check(context.Background())
	if result.Status != StatusPass {
		t.Errorf("Status = %q, want %q (message: %s)", result.Status, StatusPass, result.Message)
	}
}
