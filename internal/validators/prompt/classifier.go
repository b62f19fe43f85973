// Package prompt provides prompt classification for UserPromptSubmit events.
package prompt

import (
	"context"
	"regexp"
	"strings"

	"github.com/smykla-labs/hookgate/internal/validator"
	"github.com/smykla-labs/hookgate/pkg/config"
	"github.com/smykla-labs/hookgate/pkg/hook"
	"github.com/smykla-labs/hookgate/pkg/logger"
)

// mentionPattern matches explicit @agent-<name> mentions.
var mentionPattern = regexp.MustCompile(`@agent-[\w-]+`)

// compiledRule is a classifier rule with its pattern compiled.
type compiledRule struct {
	pattern *regexp.Regexp
	label   string
}

// ClassifierValidator routes prompts to named handlers. Explicit
// @agent- mentions win over the rule table; within the table the first
// matching rule wins. Classification is advisory: the result is always
// a pass, carrying the routing as additionalContext.
type ClassifierValidator struct {
	validator.BaseValidator
	rules []compiledRule
}

// NewClassifierValidator creates a new ClassifierValidator. Invalid rule
// patterns are logged and skipped; the remaining rules keep their order.
func NewClassifierValidator(
	log logger.Logger,
	cfg *config.ClassifierConfig,
) *ClassifierValidator {
	v := &ClassifierValidator{
		BaseValidator: *validator.NewBaseValidator("prompt-classifier", log),
	}

	rules := defaultRules()
	if cfg != nil && len(cfg.Rules) > 0 {
		rules = cfg.Rules
	}

	for _, rule := range rules {
		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			log.Error("invalid classifier pattern",
				"pattern", rule.Pattern, "label", rule.Label, "error", err)

			continue
		}

		v.rules = append(v.rules, compiledRule{pattern: re, label: rule.Label})
	}

	return v
}

// Validate classifies the prompt and emits the routing as context.
func (v *ClassifierValidator) Validate(
	_ context.Context,
	hookCtx *hook.Context,
) *validator.Result {
	log := v.Logger()

	text := hookCtx.GetPrompt()
	if text == "" {
		log.Debug("empty prompt, skipping")
		return validator.Pass()
	}

	if mentions := parseMentions(text); len(mentions) > 0 {
		log.Info("explicit agent mentions found", "agents", strings.Join(mentions, ","))

		return validator.PassWithContext(
			"Route this request to: " + strings.Join(mentions, ", ") + ".")
	}

	for _, rule := range v.rules {
		if rule.pattern.MatchString(text) {
			log.Info("prompt classified", "label", rule.label)

			return validator.PassWithContext(
				"This request concerns " + rule.label + " work.")
		}
	}

	log.Debug("no classification matched")

	return validator.Pass()
}

// parseMentions extracts @agent- mentions in order of appearance,
// deduplicated case-insensitively.
func parseMentions(text string) []string {
	seen := make(map[string]bool)

	var mentions []string

	for _, m := range mentionPattern.FindAllString(text, -1) {
		name := strings.ToLower(m)
		if seen[name] {
			continue
		}

		seen[name] = true

		mentions = append(mentions, name)
	}

	return mentions
}

// defaultRules is the built-in routing table, checked in order.
func defaultRules() []config.ClassifierRule {
	return []config.ClassifierRule{
		{Pattern: `\b(deploy|docker|kubernetes|ci/cd|infrastructure)\b`, Label: "infrastructure"},
		{Pattern: `\b(security|auth|encryption|vulnerability)\b`, Label: "security"},
		{Pattern: `\b(database|schema|migration|query)\b`, Label: "database"},
		{Pattern: `\b(api|backend|server|endpoint)\b`, Label: "backend"},
		{Pattern: `\b(ui|frontend|react|component)\b`, Label: "frontend"},
		{Pattern: `\b(test|testing|qa|coverage)\b`, Label: "testing"},
		{Pattern: `\b(performance|optimize|benchmark|profiling)\b`, Label: "performance"},
	}
}
