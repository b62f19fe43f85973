package validator

import (
	"context"

	"github.com/smykla-labs/hookgate/pkg/hook"
	"github.com/smykla-labs/hookgate/pkg/logger"
)

// Category represents the type of workload a validator performs.
// Used to select the appropriate worker pool for parallel execution.
type Category int

const (
	// CategoryCPU is for pure computation validators (regex, parsing).
	CategoryCPU Category = iota

	// CategoryIO is for validators that touch the file system or invoke
	// external processes. These benefit from higher concurrency.
	CategoryIO
)

// String returns a string representation of the category.
func (c Category) String() string {
	switch c {
	case CategoryCPU:
		return "CPU"
	case CategoryIO:
		return "IO"
	default:
		return "Unknown"
	}
}

// Validator validates a hook context.
type Validator interface {
	// Name returns the validator name.
	Name() string

	// Validate validates the given context and returns a result.
	Validate(ctx context.Context, hookCtx *hook.Context) *Result

	// Category returns the validator's workload category for parallel execution.
	Category() Category
}

// Result represents the validation result.
type Result struct {
	// Passed indicates whether the validation passed.
	Passed bool

	// Message is the human-readable message.
	Message string

	// Details contains additional details about the validation.
	Details map[string]string

	// ShouldBlock indicates whether this failure should block the operation.
	// Some validators only warn without blocking.
	ShouldBlock bool

	// Context is text surfaced to the host as additional context for its
	// next turn. May be set on passing results (e.g. prompt routing).
	Context string
}

// Pass creates a passing validation result.
func Pass() *Result {
	return &Result{
		Passed:      true,
		ShouldBlock: false,
	}
}

// PassWithContext creates a passing result carrying additional context.
func PassWithContext(context string) *Result {
	return &Result{
		Passed:      true,
		ShouldBlock: false,
		Context:     context,
	}
}

// Fail creates a failing validation result that blocks the operation.
func Fail(message string) *Result {
	return &Result{
		Passed:      false,
		Message:     message,
		ShouldBlock: true,
	}
}

// FailWithDetails creates a failing validation result with details.
func FailWithDetails(message string, details map[string]string) *Result {
	return &Result{
		Passed:      false,
		Message:     message,
		Details:     details,
		ShouldBlock: true,
	}
}

// Warn creates a failing validation result that only warns without blocking.
func Warn(message string) *Result {
	return &Result{
		Passed:      false,
		Message:     message,
		ShouldBlock: false,
	}
}

// AddDetail adds a detail to the result.
func (r *Result) AddDetail(key, value string) *Result {
	if r.Details == nil {
		r.Details = make(map[string]string)
	}

	r.Details[key] = value

	return r
}

// String returns a string representation of the result.
func (r *Result) String() string {
	if r.Passed {
		return "PASS"
	}

	if r.ShouldBlock {
		return "BLOCK"
	}

	return "WARN"
}

// BaseValidator provides common validator functionality.
type BaseValidator struct {
	name   string
	logger logger.Logger
}

// NewBaseValidator creates a new BaseValidator.
func NewBaseValidator(name string, logger logger.Logger) *BaseValidator {
	return &BaseValidator{
		name:   name,
		logger: logger,
	}
}

// Name returns the validator name.
func (v *BaseValidator) Name() string {
	return v.name
}

// Logger returns the logger.
//
//nolint:ireturn // interface for polymorphism
func (v *BaseValidator) Logger() logger.Logger {
	return v.logger
}

// Category returns the default category (CPU) for validators.
// Validators that perform I/O should override this.
func (*BaseValidator) Category() Category {
	return CategoryCPU
}
