// Package file provides validators for file operations.
package file

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/smykla-labs/hookgate/internal/validator"
	"github.com/smykla-labs/hookgate/pkg/config"
	"github.com/smykla-labs/hookgate/pkg/hook"
	"github.com/smykla-labs/hookgate/pkg/logger"
)

// SensitivePathValidator denies writes to credential and secret files.
type SensitivePathValidator struct {
	validator.BaseValidator
	config *config.SensitivePathsConfig
}

// NewSensitivePathValidator creates a new SensitivePathValidator.
func NewSensitivePathValidator(
	log logger.Logger,
	cfg *config.SensitivePathsConfig,
) *SensitivePathValidator {
	return &SensitivePathValidator{
		BaseValidator: *validator.NewBaseValidator("sensitive-path", log),
		config:        cfg,
	}
}

// Validate matches the target path against the protected glob table.
func (v *SensitivePathValidator) Validate(
	_ context.Context,
	hookCtx *hook.Context,
) *validator.Result {
	log := v.Logger()

	path := hookCtx.GetFilePath()
	if path == "" {
		log.Debug("no file path, skipping")
		return validator.Pass()
	}

	normalized := normalizePath(path)

	for _, pattern := range v.config.GetPatterns() {
		matched, err := doublestar.Match(pattern, normalized)
		if err != nil {
			log.Error("invalid path pattern", "pattern", pattern, "error", err)

			continue
		}

		if matched {
			log.Info("sensitive path blocked", "path", path, "pattern", pattern)

			return validator.FailWithDetails(
				"Write to protected path: "+path,
				map[string]string{
					"path":    path,
					"pattern": pattern,
				},
			)
		}
	}

	log.Debug("path not protected", "path", path)

	return validator.Pass()
}

// normalizePath converts a path to slash form and strips a leading "./"
// so "**/.env" style patterns match relative targets too.
func normalizePath(path string) string {
	return strings.TrimPrefix(filepath.ToSlash(path), "./")
}
