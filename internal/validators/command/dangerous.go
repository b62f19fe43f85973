// Package command provides validators for Bash command operations.
package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/smykla-labs/hookgate/internal/validator"
	"github.com/smykla-labs/hookgate/pkg/config"
	"github.com/smykla-labs/hookgate/pkg/hook"
	"github.com/smykla-labs/hookgate/pkg/logger"
)

// DangerousCommandValidator denies Bash commands containing known
// destructive substrings.
type DangerousCommandValidator struct {
	validator.BaseValidator
	config *config.DangerousCommandsConfig
}

// NewDangerousCommandValidator creates a new DangerousCommandValidator.
func NewDangerousCommandValidator(
	log logger.Logger,
	cfg *config.DangerousCommandsConfig,
) *DangerousCommandValidator {
	return &DangerousCommandValidator{
		BaseValidator: *validator.NewBaseValidator("dangerous-command", log),
		config:        cfg,
	}
}

// Validate checks the command against the blocked substring table.
// Matching is case-sensitive on the raw command string, so quoting or
// splitting a destructive command does not evade the check any more than
// it would evade the shell.
func (v *DangerousCommandValidator) Validate(
	_ context.Context,
	hookCtx *hook.Context,
) *validator.Result {
	log := v.Logger()

	command := hookCtx.GetCommand()
	if command == "" {
		log.Debug("empty command, skipping")
		return validator.Pass()
	}

	for _, blocked := range v.config.GetBlockedSubstrings() {
		if strings.Contains(command, blocked) {
			log.Info("dangerous command blocked", "substring", blocked)

			return validator.FailWithDetails(
				fmt.Sprintf("Command matches blocked pattern: %s", blocked),
				map[string]string{
					"pattern": blocked,
					"command": command,
				},
			)
		}
	}

	log.Debug("no dangerous patterns found")

	return validator.Pass()
}
