// Package statestore persists small JSON state documents for hooks.
//
// Each document is owned exclusively by one consumer (cooldown state,
// session state, usage counters). Writes go to a temp file followed by an
// atomic rename so a killed process never leaves a half-written document
// for the next invocation to choke on.
package statestore

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/smykla-labs/hookgate/pkg/logger"
)

// File permission constants.
const (
	// FilePermissions is the permission mode for state files.
	FilePermissions = 0o600

	// DirPermissions is the permission mode for the state directory.
	DirPermissions = 0o700
)

// Store reads and writes JSON documents under a single state directory.
type Store struct {
	dir    string
	logger logger.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.logger = log
		}
	}
}

// New creates a Store rooted at dir.
func New(dir string, opts ...Option) *Store {
	s := &Store{
		dir:    dir,
		logger: logger.NewNoOpLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Dir returns the state directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the full path for a named document.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Load reads the named document into v.
// A missing or corrupt file is not an error: the caller keeps its fresh
// zero state and the first Save repairs the file. Returns true when v was
// populated from disk.
func (s *Store) Load(name string, v any) (bool, error) {
	path := s.Path(name)

	// Path is derived from trusted configuration, not user input.
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is from config
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("state file does not exist, using fresh state",
				"path", path,
			)

			return false, nil
		}

		return false, errors.Wrap(err, "reading state file")
	}

	if err := json.Unmarshal(data, v); err != nil {
		s.logger.Debug("failed to parse state file, using fresh state",
			"path", path,
			"error", err.Error(),
		)

		return false, nil
	}

	return true, nil
}

// Save writes v as the named document via write-temp-then-rename.
func (s *Store) Save(name string, v any) error {
	if err := os.MkdirAll(s.dir, DirPermissions); err != nil {
		return errors.Wrap(err, "creating state directory")
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling state")
	}

	path := s.Path(name)

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, FilePermissions); err != nil {
		return errors.Wrap(err, "writing temp state file")
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)

		return errors.Wrap(err, "renaming state file")
	}

	s.logger.Debug("saved state to file",
		"path", path,
	)

	return nil
}
