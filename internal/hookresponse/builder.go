package hookresponse

import (
	"github.com/smykla-labs/hookgate/internal/dispatcher"
)

// Build constructs a HookResponse from validation errors and any
// additionalContext strings collected from passing checks.
// Returns nil when there is nothing to say (clean pass, no output needed).
func Build(
	eventName string,
	errs []*dispatcher.ValidationError,
	contexts []string,
) *HookResponse {
	if len(errs) == 0 && len(contexts) == 0 {
		return nil
	}

	blocking, warnings := categorize(errs)

	resp := &HookResponse{
		SystemMessage: FormatSystemMessage(errs),
	}

	switch {
	case len(blocking) > 0:
		resp.HookSpecificOutput = &HookSpecificOutput{
			HookEventName:            eventName,
			PermissionDecision:       DecisionDeny,
			PermissionDecisionReason: formatDecisionReason(blocking),
			AdditionalContext:        formatAdditionalContext(warnings, contexts),
		}
	default:
		resp.HookSpecificOutput = &HookSpecificOutput{
			HookEventName:      eventName,
			PermissionDecision: DecisionAllow,
			AdditionalContext:  formatAdditionalContext(warnings, contexts),
		}
	}

	return resp
}

// categorize splits errors into blocking failures and warnings.
func categorize(errs []*dispatcher.ValidationError) (
	blocking, warnings []*dispatcher.ValidationError,
) {
	for _, e := range errs {
		if e.ShouldBlock {
			blocking = append(blocking, e)
		} else {
			warnings = append(warnings, e)
		}
	}

	return blocking, warnings
}
