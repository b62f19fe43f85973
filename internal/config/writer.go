package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"

	"github.com/smykla-labs/hookgate/internal/xdg"
	"github.com/smykla-labs/hookgate/pkg/config"
)

const (
	// ConfigFileMode is the file mode for configuration files (user read/write only).
	ConfigFileMode = 0o600

	// ConfigDirMode is the file mode for configuration directories (user rwx only).
	ConfigDirMode = 0o700
)

// ErrConfigExists is returned when writing would overwrite an existing file.
var ErrConfigExists = errors.New("config file already exists")

// Writer handles writing configuration to TOML files.
type Writer struct {
	globalFile string
	workDir    string
}

// NewWriter creates a new Writer with default paths.
func NewWriter() *Writer {
	workDir, err := os.Getwd()
	if err != nil {
		workDir = "."
	}

	return &Writer{
		globalFile: xdg.GlobalConfigFile(),
		workDir:    workDir,
	}
}

// NewWriterWithPaths creates a new Writer with custom paths (for testing).
func NewWriterWithPaths(globalFile, workDir string) *Writer {
	return &Writer{
		globalFile: globalFile,
		workDir:    workDir,
	}
}

// WriteGlobal writes the configuration to the global config file.
func (w *Writer) WriteGlobal(cfg *config.Config, force bool) error {
	return w.WriteFile(w.globalFile, cfg, force)
}

// WriteProject writes the configuration to the primary project config
// location (.hookgate/config.toml).
func (w *Writer) WriteProject(cfg *config.Config, force bool) error {
	path := filepath.Join(w.workDir, ProjectConfigDir, ProjectConfigFile)

	return w.WriteFile(path, cfg, force)
}

// WriteFile writes the configuration to the given path. Existing files
// are preserved unless force is set.
func (w *Writer) WriteFile(path string, cfg *config.Config, force bool) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.Wrapf(ErrConfigExists, "%s", path)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, ConfigDirMode); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dir)
	}

	var buf bytes.Buffer

	encoder := toml.NewEncoder(&buf)
	encoder.SetIndentTables(true)

	if err := encoder.Encode(cfg); err != nil {
		return errors.Wrap(err, "failed to encode config to TOML")
	}

	if err := os.WriteFile(path, buf.Bytes(), ConfigFileMode); err != nil {
		return errors.Wrapf(err, "failed to write config file %s", path)
	}

	return nil
}
