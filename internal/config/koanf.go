// Package config loads the merged runtime configuration.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	tomlparser "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/smykla-labs/hookgate/internal/xdg"
	"github.com/smykla-labs/hookgate/pkg/config"
)

var (
	// ErrInvalidTOML is returned when the TOML file cannot be parsed.
	ErrInvalidTOML = errors.New("invalid TOML")

	// ErrInvalidPermissions is returned when a config file has insecure
	// permissions.
	ErrInvalidPermissions = errors.New("config file has insecure permissions")
)

const (
	// ProjectConfigDir is the directory name for project configuration.
	ProjectConfigDir = ".hookgate"

	// ProjectConfigFile is the primary project configuration file name.
	ProjectConfigFile = "config.toml"

	// ProjectConfigFileAlt is the alternative project configuration file name.
	ProjectConfigFileAlt = "hookgate.toml"

	// envPrefix namespaces the environment variable overrides.
	envPrefix = "HOOKGATE_"
)

// Loader loads configuration from multiple sources using koanf.
// Precedence order (highest to lowest):
// 1. CLI flags
// 2. Environment variables (HOOKGATE_*)
// 3. Project config (.hookgate/config.toml or hookgate.toml)
// 4. Global config (XDG config dir)
// 5. Defaults
type Loader struct {
	k          *koanf.Koanf
	globalFile string
	workDir    string
}

// NewLoader creates a Loader using the XDG global config path and the
// current working directory.
func NewLoader() (*Loader, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get working directory")
	}

	return NewLoaderWithPaths(xdg.GlobalConfigFile(), workDir), nil
}

// NewLoaderWithPaths creates a Loader with explicit paths, for testing.
func NewLoaderWithPaths(globalFile, workDir string) *Loader {
	return &Loader{
		k:          koanf.New("."),
		globalFile: globalFile,
		workDir:    workDir,
	}
}

// Load merges all sources and unmarshals the result. Classifier rules
// are replaced wholesale by the highest-priority source that sets them,
// preserving in-file rule order.
func (l *Loader) Load(flags map[string]any) (*config.Config, error) {
	l.k = koanf.New(".")

	if err := l.k.Load(confmap.Provider(defaultsToMap(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load defaults")
	}

	if err := l.loadTOMLFile(l.globalFile); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "failed to load global config")
	}

	if projectPath := l.findProjectConfig(); projectPath != "" {
		if err := l.loadTOMLFile(projectPath); err != nil {
			return nil, errors.Wrap(err, "failed to load project config")
		}
	}

	envOpt := env.Opt{
		Prefix:        envPrefix,
		TransformFunc: envTransform,
	}

	if err := l.k.Load(env.Provider(".", envOpt), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load env vars")
	}

	if len(flags) > 0 {
		if err := l.k.Load(confmap.Provider(flags, "."), nil); err != nil {
			return nil, errors.Wrap(err, "failed to load flags")
		}
	}

	var cfg config.Config

	unmarshalConf := koanf.UnmarshalConf{Tag: "koanf", FlatPaths: false}
	if err := l.k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	return &cfg, nil
}

// loadTOMLFile loads a TOML configuration file with a permission check.
func (l *Loader) loadTOMLFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	// Reject world-writable config: it feeds the permission decision.
	if info.Mode().Perm()&0o002 != 0 {
		return errors.Wrapf(
			ErrInvalidPermissions,
			"%s is world-writable (mode: %s)",
			path,
			info.Mode().Perm(),
		)
	}

	if err := l.k.Load(file.Provider(path), tomlparser.Parser()); err != nil {
		return errors.Wrapf(ErrInvalidTOML, "%s: %v", path, err)
	}

	return nil
}

// envTransform converts environment variable names to config paths.
// Config keys contain single underscores (dangerous_commands), so double
// underscores separate path segments:
// HOOKGATE_GATES__DANGEROUS_COMMANDS__ENABLED → gates.dangerous_commands.enabled
func envTransform(key, value string) (string, any) {
	key = strings.TrimPrefix(key, envPrefix)
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "__", ".")

	return key, value
}

// GlobalConfigPath returns the global configuration file path.
func (l *Loader) GlobalConfigPath() string {
	return l.globalFile
}

// ProjectConfigPaths returns the paths checked for project configuration.
func (l *Loader) ProjectConfigPaths() []string {
	return []string{
		filepath.Join(l.workDir, ProjectConfigDir, ProjectConfigFile),
		filepath.Join(l.workDir, ProjectConfigFileAlt),
	}
}

// findProjectConfig returns the first project config file that exists.
func (l *Loader) findProjectConfig() string {
	for _, path := range l.ProjectConfigPaths() {
		if fileExists(path) {
			return path
		}
	}

	return ""
}

// HasGlobalConfig checks if a global configuration file exists.
func (l *Loader) HasGlobalConfig() bool {
	return fileExists(l.globalFile)
}

// HasProjectConfig checks if a project configuration file exists.
func (l *Loader) HasProjectConfig() bool {
	return l.findProjectConfig() != ""
}

// fileExists checks that path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}
