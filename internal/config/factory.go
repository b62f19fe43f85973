package config

import (
	"github.com/smykla-labs/hookgate/internal/validator"
	commandvalidators "github.com/smykla-labs/hookgate/internal/validators/command"
	filevalidators "github.com/smykla-labs/hookgate/internal/validators/file"
	promptvalidators "github.com/smykla-labs/hookgate/internal/validators/prompt"
	"github.com/smykla-labs/hookgate/pkg/config"
	"github.com/smykla-labs/hookgate/pkg/hook"
	"github.com/smykla-labs/hookgate/pkg/logger"
)

// ValidatorWithPredicate pairs a validator with its registration predicate.
type ValidatorWithPredicate struct {
	Validator validator.Validator
	Predicate validator.Predicate
}

// BuildRegistry creates the validator registry from configuration.
// Registration order is evaluation order: gates first, classifier last,
// so a deny is found before any advisory context is computed.
func BuildRegistry(cfg *config.Config, log logger.Logger) *validator.Registry {
	registry := validator.NewRegistry()

	for _, vp := range createValidators(cfg, log) {
		registry.Register(vp.Validator, vp.Predicate)
	}

	log.Debug("validator registry built", "validator_count", registry.Count())

	return registry
}

// createValidators builds the enabled validators in evaluation order.
func createValidators(cfg *config.Config, log logger.Logger) []ValidatorWithPredicate {
	var (
		gates      *config.GatesConfig
		classifier *config.ClassifierConfig
	)

	if cfg != nil {
		gates = cfg.Gates
		classifier = cfg.Classifier
	}

	var validators []ValidatorWithPredicate

	if dangerousEnabled(gates) {
		validators = append(validators, createDangerousCommandValidator(gates, log))
	}

	if sensitiveEnabled(gates) {
		validators = append(validators, createSensitivePathValidator(gates, log))
	}

	if installEnabled(gates) {
		validators = append(validators, createPackageInstallValidator(gates, log))
	}

	if classifier.IsEnabled() {
		validators = append(validators, createClassifierValidator(classifier, log))
	}

	return validators
}

func createDangerousCommandValidator(
	gates *config.GatesConfig,
	log logger.Logger,
) ValidatorWithPredicate {
	var cfg *config.DangerousCommandsConfig
	if gates != nil {
		cfg = gates.DangerousCommands
	}

	return ValidatorWithPredicate{
		Validator: commandvalidators.NewDangerousCommandValidator(log, cfg),
		Predicate: validator.And(
			validator.EventTypeIs(hook.EventTypePreToolUse),
			validator.ToolTypeIs(hook.ToolTypeBash),
			validator.HasCommand(),
		),
	}
}

func createSensitivePathValidator(
	gates *config.GatesConfig,
	log logger.Logger,
) ValidatorWithPredicate {
	var cfg *config.SensitivePathsConfig
	if gates != nil {
		cfg = gates.SensitivePaths
	}

	return ValidatorWithPredicate{
		Validator: filevalidators.NewSensitivePathValidator(log, cfg),
		Predicate: validator.And(
			validator.EventTypeIs(hook.EventTypePreToolUse),
			validator.ToolTypeIn(
				hook.ToolTypeWrite,
				hook.ToolTypeEdit,
				hook.ToolTypeMultiEdit,
			),
			validator.HasFilePath(),
		),
	}
}

func createPackageInstallValidator(
	gates *config.GatesConfig,
	log logger.Logger,
) ValidatorWithPredicate {
	var cfg *config.PackageInstallConfig
	if gates != nil {
		cfg = gates.PackageInstall
	}

	return ValidatorWithPredicate{
		Validator: commandvalidators.NewPackageInstallValidator(log, cfg),
		Predicate: validator.And(
			validator.EventTypeIs(hook.EventTypePreToolUse),
			validator.ToolTypeIs(hook.ToolTypeBash),
			validator.HasCommand(),
		),
	}
}

func createClassifierValidator(
	cfg *config.ClassifierConfig,
	log logger.Logger,
) ValidatorWithPredicate {
	return ValidatorWithPredicate{
		Validator: promptvalidators.NewClassifierValidator(log, cfg),
		Predicate: validator.And(
			validator.EventTypeIs(hook.EventTypeUserPromptSubmit),
			validator.HasPrompt(),
		),
	}
}

func dangerousEnabled(gates *config.GatesConfig) bool {
	if gates == nil || gates.DangerousCommands == nil {
		return true
	}

	return gates.DangerousCommands.IsEnabled()
}

func sensitiveEnabled(gates *config.GatesConfig) bool {
	if gates == nil || gates.SensitivePaths == nil {
		return true
	}

	return gates.SensitivePaths.IsEnabled()
}

func installEnabled(gates *config.GatesConfig) bool {
	if gates == nil || gates.PackageInstall == nil {
		return true
	}

	return gates.PackageInstall.IsEnabled()
}
