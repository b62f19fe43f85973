// Package validator provides the validator registry and predicate system.
package validator

import (
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/smykla-labs/hookgate/pkg/hook"
)

// Predicate determines if a validator should be applied to a context.
// Predicates are pure functions of the context.
type Predicate func(*hook.Context) bool

// Registration represents a validator registration with its predicate.
type Registration struct {
	Validator Validator
	Predicate Predicate
}

// Registry manages validator registrations and selection.
// Registration order is preserved: validators always run in the order
// they were registered, so dispatch is reproducible across invocations.
type Registry struct {
	registrations []Registration
}

// NewRegistry creates a new empty validator registry.
func NewRegistry() *Registry {
	return &Registry{
		registrations: make([]Registration, 0),
	}
}

// Register adds a validator with a predicate to the registry.
func (r *Registry) Register(validator Validator, predicate Predicate) {
	r.registrations = append(r.registrations, Registration{
		Validator: validator,
		Predicate: predicate,
	})
}

// FindValidators returns all validators whose predicates match the context,
// in registration order.
func (r *Registry) FindValidators(ctx *hook.Context) []Validator {
	validators := make([]Validator, 0)

	for _, reg := range r.registrations {
		if reg.Predicate(ctx) {
			validators = append(validators, reg.Validator)
		}
	}

	return validators
}

// Count returns the number of registered validators.
func (r *Registry) Count() int {
	return len(r.registrations)
}

// Common Predicates

// EventTypeIs returns a predicate that matches the given event type.
func EventTypeIs(eventType hook.EventType) Predicate {
	return func(ctx *hook.Context) bool {
		return ctx.EventType == eventType
	}
}

// EventTypeIn returns a predicate that matches any of the given event types.
func EventTypeIn(eventTypes ...hook.EventType) Predicate {
	return func(ctx *hook.Context) bool {
		return slices.Contains(eventTypes, ctx.EventType)
	}
}

// ToolTypeIs returns a predicate that matches the given tool type.
func ToolTypeIs(toolType hook.ToolType) Predicate {
	return func(ctx *hook.Context) bool {
		return ctx.ToolName == toolType
	}
}

// ToolTypeIn returns a predicate that matches any of the given tool types.
func ToolTypeIn(toolTypes ...hook.ToolType) Predicate {
	return func(ctx *hook.Context) bool {
		return slices.Contains(toolTypes, ctx.ToolName)
	}
}

// HasCommand returns a predicate that matches when a non-empty command is
// present. Substring predicates guard on this: an empty command must never
// match a contains-check by accident.
func HasCommand() Predicate {
	return func(ctx *hook.Context) bool {
		return strings.TrimSpace(ctx.GetCommand()) != ""
	}
}

// HasFilePath returns a predicate that matches when a file path is present.
func HasFilePath() Predicate {
	return func(ctx *hook.Context) bool {
		return ctx.GetFilePath() != ""
	}
}

// CommandMatches returns a predicate that matches if the command matches the pattern.
func CommandMatches(pattern string) Predicate {
	re := regexp.MustCompile(pattern)

	return func(ctx *hook.Context) bool {
		cmd := ctx.GetCommand()

		return cmd != "" && re.MatchString(cmd)
	}
}

// CommandContains returns a predicate that matches if the command contains the substring.
func CommandContains(substring string) Predicate {
	return func(ctx *hook.Context) bool {
		cmd := ctx.GetCommand()

		return cmd != "" && substring != "" && strings.Contains(cmd, substring)
	}
}

// CommandStartsWith returns a predicate that matches if the command starts with the prefix.
func CommandStartsWith(prefix string) Predicate {
	return func(ctx *hook.Context) bool {
		cmd := strings.TrimSpace(ctx.GetCommand())

		return cmd != "" && strings.HasPrefix(cmd, prefix)
	}
}

// FilePathMatches returns a predicate that matches if the file path matches
// the doublestar pattern.
func FilePathMatches(pattern string) Predicate {
	return func(ctx *hook.Context) bool {
		path := ctx.GetFilePath()
		if path == "" {
			return false
		}

		matched, err := doublestar.Match(pattern, path)

		return err == nil && matched
	}
}

// FileExtensionIs returns a predicate that matches if the file has the given extension.
func FileExtensionIs(ext string) Predicate {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	return func(ctx *hook.Context) bool {
		path := ctx.GetFilePath()

		return path != "" && filepath.Ext(path) == ext
	}
}

// FileExtensionIn returns a predicate that matches if the file has any of the given extensions.
func FileExtensionIn(exts ...string) Predicate {
	normalized := make([]string, len(exts))

	for i, ext := range exts {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}

		normalized[i] = ext
	}

	return func(ctx *hook.Context) bool {
		path := ctx.GetFilePath()
		if path == "" {
			return false
		}

		return slices.Contains(normalized, filepath.Ext(path))
	}
}

// HasPrompt returns a predicate that matches when a non-empty prompt is present.
func HasPrompt() Predicate {
	return func(ctx *hook.Context) bool {
		return strings.TrimSpace(ctx.GetPrompt()) != ""
	}
}

// PromptMatches returns a predicate that matches if the prompt matches the pattern.
func PromptMatches(pattern string) Predicate {
	re := regexp.MustCompile(pattern)

	return func(ctx *hook.Context) bool {
		prompt := ctx.GetPrompt()

		return prompt != "" && re.MatchString(prompt)
	}
}

// Predicate Combinators

// And returns a predicate that matches if all predicates match.
func And(predicates ...Predicate) Predicate {
	return func(ctx *hook.Context) bool {
		for _, p := range predicates {
			if !p(ctx) {
				return false
			}
		}

		return true
	}
}

// Or returns a predicate that matches if any predicate matches.
func Or(predicates ...Predicate) Predicate {
	return func(ctx *hook.Context) bool {
		for _, p := range predicates {
			if p(ctx) {
				return true
			}
		}

		return false
	}
}

// Not returns a predicate that inverts the given predicate.
func Not(predicate Predicate) Predicate {
	return func(ctx *hook.Context) bool {
		return !predicate(ctx)
	}
}

// Always returns a predicate that always matches.
func Always() Predicate {
	return func(*hook.Context) bool {
		return true
	}
}

// Never returns a predicate that never matches.
func Never() Predicate {
	return func(*hook.Context) bool {
		return false
	}
}
