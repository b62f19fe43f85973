package command

import (
	"context"
	"os"
	"path/filepath"
	"slices"

	"github.com/smykla-labs/hookgate/internal/validator"
	"github.com/smykla-labs/hookgate/pkg/config"
	"github.com/smykla-labs/hookgate/pkg/hook"
	"github.com/smykla-labs/hookgate/pkg/logger"
	"github.com/smykla-labs/hookgate/pkg/parser"
)

// safeInstallerSubcommands are installer subcommands allowed outside an
// isolated environment because they do not modify the system.
var safeInstallerSubcommands = []string{
	"list", "show", "search", "help", "freeze", "--version", "check",
}

// globalOptOutFlags mark an explicit request to install outside isolation.
var globalOptOutFlags = []string{"--user", "--break-system-packages"}

// isolationEnvVars indicate an active isolated environment.
var isolationEnvVars = []string{"VIRTUAL_ENV", "CONDA_DEFAULT_ENV"}

// venvDirNames are conventional virtualenv directory names searched when
// suggesting an activation command.
var venvDirNames = []string{"venv", ".venv", "env", "virtualenv"}

// PackageInstallValidator denies package installs that run outside an
// isolated environment.
type PackageInstallValidator struct {
	validator.BaseValidator
	config  *config.PackageInstallConfig
	bash    *parser.BashParser
	getenv  func(string) string
	workdir func() (string, error)
}

// PackageInstallOption configures a PackageInstallValidator.
type PackageInstallOption func(*PackageInstallValidator)

// WithGetenv overrides environment lookup, for tests.
func WithGetenv(getenv func(string) string) PackageInstallOption {
	return func(v *PackageInstallValidator) {
		v.getenv = getenv
	}
}

// WithWorkdir overrides working directory lookup, for tests.
func WithWorkdir(workdir func() (string, error)) PackageInstallOption {
	return func(v *PackageInstallValidator) {
		v.workdir = workdir
	}
}

// NewPackageInstallValidator creates a new PackageInstallValidator.
func NewPackageInstallValidator(
	log logger.Logger,
	cfg *config.PackageInstallConfig,
	opts ...PackageInstallOption,
) *PackageInstallValidator {
	v := &PackageInstallValidator{
		BaseValidator: *validator.NewBaseValidator("package-install", log),
		config:        cfg,
		bash:          parser.NewBashParser(),
		getenv:        os.Getenv,
		workdir:       os.Getwd,
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Validate denies watched installer commands when no isolated environment
// is active and the command does not opt out explicitly.
func (v *PackageInstallValidator) Validate(
	_ context.Context,
	hookCtx *hook.Context,
) *validator.Result {
	log := v.Logger()

	if !v.config.IsIsolationRequired() {
		log.Debug("isolation not required, skipping")
		return validator.Pass()
	}

	command := hookCtx.GetCommand()
	if command == "" {
		return validator.Pass()
	}

	result, err := v.bash.Parse(command)
	if err != nil {
		log.Debug("failed to parse command", "error", err)
		return validator.Pass()
	}

	installers := v.config.GetInstallers()

	for _, cmd := range result.Commands {
		if !v.isWatchedInstall(cmd, installers) {
			continue
		}

		if v.hasOptOutFlag(cmd) {
			log.Debug("explicit global install requested", "command", cmd.Name)
			return validator.Pass()
		}

		if v.inIsolatedEnvironment() {
			log.Debug("isolated environment active")
			return validator.Pass()
		}

		return v.blockResult(cmd.Name)
	}

	return validator.Pass()
}

// isWatchedInstall reports whether cmd is an install or uninstall invocation
// of a watched installer. Read-only subcommands pass. The module-runner form
// ("python -m pip install") is normalized to the plain installer name.
func (*PackageInstallValidator) isWatchedInstall(cmd parser.Command, installers []string) bool {
	name := cmd.Name
	args := cmd.Args

	if (name == "python" || name == "python3") &&
		len(args) >= 2 && args[0] == "-m" {
		name = args[1]
		args = args[2:]
	}

	if !slices.Contains(installers, name) {
		return false
	}

	if len(args) == 0 {
		return false
	}

	sub := args[0]
	if slices.Contains(safeInstallerSubcommands, sub) {
		return false
	}

	return sub == "install" || sub == "uninstall"
}

// hasOptOutFlag reports whether cmd carries an explicit global-install flag.
func (*PackageInstallValidator) hasOptOutFlag(cmd parser.Command) bool {
	for _, flag := range globalOptOutFlags {
		if cmd.HasArg(flag) {
			return true
		}
	}

	return false
}

// inIsolatedEnvironment checks the process environment for an active
// virtualenv or conda environment.
func (v *PackageInstallValidator) inIsolatedEnvironment() bool {
	for _, name := range isolationEnvVars {
		if v.getenv(name) != "" {
			return true
		}
	}

	return false
}

// blockResult builds the deny result with an activation hint when a
// project virtualenv exists.
func (v *PackageInstallValidator) blockResult(installer string) *validator.Result {
	details := map[string]string{
		"installer": installer,
	}

	hint := "No virtual environment found. Create one with: python -m venv venv"
	if venvPath := v.findProjectVenv(); venvPath != "" {
		hint = "Activate the existing environment: source " +
			filepath.Join(venvPath, "bin", "activate")
		details["venv"] = venvPath
	}

	details["hint"] = hint

	return validator.FailWithDetails(
		"Package install outside an isolated environment: "+installer+
			" would modify system-wide packages.",
		details,
	)
}

// findProjectVenv looks for conventional virtualenv directories in the
// working directory.
func (v *PackageInstallValidator) findProjectVenv() string {
	cwd, err := v.workdir()
	if err != nil {
		return ""
	}

	for _, name := range venvDirNames {
		candidate := filepath.Join(cwd, name)
		if isVenvDir(candidate) {
			return candidate
		}
	}

	return ""
}

// isVenvDir reports whether path looks like a virtualenv root.
func isVenvDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}

	for _, sub := range []string{"bin", "Scripts"} {
		if _, err := os.Stat(filepath.Join(path, sub)); err == nil {
			return true
		}
	}

	return false
}
