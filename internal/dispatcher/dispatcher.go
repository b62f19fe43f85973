// Package dispatcher orchestrates validation of hook contexts.
package dispatcher

import (
	"context"
	"fmt"

	"github.com/smykla-labs/hookgate/internal/validator"
	"github.com/smykla-labs/hookgate/pkg/hook"
	"github.com/smykla-labs/hookgate/pkg/logger"
	"github.com/smykla-labs/hookgate/pkg/parser"
)

// ValidationError represents a validation failure.
type ValidationError struct {
	// Validator is the name of the validator that failed.
	Validator string

	// Message is the error message.
	Message string

	// Details contains additional error details.
	Details map[string]string

	// ShouldBlock indicates whether this error should block the operation.
	ShouldBlock bool
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Validator, e.Message)
	}

	return e.Validator
}

// Dispatcher orchestrates validation of hook contexts.
type Dispatcher struct {
	registry *validator.Registry
	logger   logger.Logger
	executor Executor
}

// NewDispatcher creates a new Dispatcher with sequential execution.
func NewDispatcher(registry *validator.Registry, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		logger:   log,
		executor: NewSequentialExecutor(log),
	}
}

// NewDispatcherWithExecutor creates a new Dispatcher with a custom executor.
func NewDispatcherWithExecutor(
	registry *validator.Registry,
	log logger.Logger,
	executor Executor,
) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		logger:   log,
		executor: executor,
	}
}

// Dispatch validates the context using all matching validators.
// Returns a slice of validation errors (empty if all pass) and any
// additional context strings from passing validators.
//
// Dispatch never panics: a panicking validator or a dispatch-level fault
// degrades to "no decision" so a broken policy cannot block the host.
func (d *Dispatcher) Dispatch(
	ctx context.Context,
	hookCtx *hook.Context,
) (validationErrors []*ValidationError, contexts []string) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("dispatch panicked, degrading to no decision",
				"panic", fmt.Sprintf("%v", r),
			)

			validationErrors = nil
			contexts = nil
		}
	}()

	d.logger.Info("dispatching",
		"event", hookCtx.EventType,
		"tool", hookCtx.ToolName,
	)

	validationErrors, contexts = d.runValidators(ctx, hookCtx)

	// A Bash command can write files through redirects; validate those
	// targets as synthetic Write operations so file gates see them.
	if hookCtx.EventType == hook.EventTypePreToolUse && hookCtx.ToolName == hook.ToolTypeBash {
		syntheticErrors, syntheticContexts := d.validateBashFileWrites(ctx, hookCtx)
		validationErrors = append(validationErrors, syntheticErrors...)
		contexts = append(contexts, syntheticContexts...)
	}

	return validationErrors, contexts
}

// runValidators runs validators on a context and collects their results.
func (d *Dispatcher) runValidators(
	ctx context.Context,
	hookCtx *hook.Context,
) ([]*ValidationError, []string) {
	validators := d.registry.FindValidators(hookCtx)

	if len(validators) == 0 {
		d.logger.Info("no validators found",
			"event", hookCtx.EventType,
			"tool", hookCtx.ToolName,
		)

		return nil, nil
	}

	d.logger.Info("validators found",
		"count", len(validators),
	)

	validationErrors, contexts := d.executor.Execute(ctx, hookCtx, validators)

	for _, verr := range validationErrors {
		if verr.ShouldBlock {
			d.logger.Error("validator failed",
				"validator", verr.Validator,
				"message", verr.Message,
			)
		} else {
			d.logger.Info("validator warned",
				"validator", verr.Validator,
				"message", verr.Message,
			)
		}
	}

	return validationErrors, contexts
}

// validateBashFileWrites parses Bash commands for file writes and validates
// them as synthetic Write operations.
func (d *Dispatcher) validateBashFileWrites(
	ctx context.Context,
	bashCtx *hook.Context,
) ([]*ValidationError, []string) {
	bashParser := parser.NewBashParser()

	result, err := bashParser.Parse(bashCtx.GetCommand())
	if err != nil {
		d.logger.Debug("failed to parse bash command for file writes",
			"error", err,
		)

		return nil, nil
	}

	if len(result.FileWrites) == 0 {
		return nil, nil
	}

	d.logger.Info("detected bash file writes",
		"count", len(result.FileWrites),
	)

	var (
		allErrors   []*ValidationError
		allContexts []string
	)

	for _, fw := range result.FileWrites {
		syntheticCtx := &hook.Context{
			EventType: hook.EventTypePreToolUse,
			ToolName:  hook.ToolTypeWrite,
			ToolInput: hook.ToolInput{
				FilePath: fw.Path,
				Content:  fw.Content,
			},
			SessionID: bashCtx.SessionID,
		}

		d.logger.Debug("validating synthetic write context",
			"file", fw.Path,
			"operation", fw.Operation,
		)

		errors, contexts := d.runValidators(ctx, syntheticCtx)
		allErrors = append(allErrors, errors...)
		allContexts = append(allContexts, contexts...)
	}

	return allErrors, allContexts
}

// ShouldBlock returns true if any validation error should block the operation.
func ShouldBlock(errors []*ValidationError) bool {
	for _, err := range errors {
		if err.ShouldBlock {
			return true
		}
	}

	return false
}
