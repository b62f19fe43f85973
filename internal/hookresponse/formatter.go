package hookresponse

import (
	"strings"

	"github.com/smykla-labs/hookgate/internal/dispatcher"
)

const (
	// maxReasonCharsPerError caps each error's contribution to
	// permissionDecisionReason so the reason stays compact.
	maxReasonCharsPerError = 200

	// reasonSeparator joins multiple error reasons.
	reasonSeparator = " | "
)

// formatDecisionReason builds the permissionDecisionReason string.
func formatDecisionReason(blocking []*dispatcher.ValidationError) string {
	if len(blocking) == 0 {
		return ""
	}

	parts := make([]string, 0, len(blocking))

	for _, e := range blocking {
		parts = append(parts, formatSingleReason(e))
	}

	return strings.Join(parts, reasonSeparator)
}

// formatSingleReason formats one blocking error for the decision reason.
func formatSingleReason(e *dispatcher.ValidationError) string {
	s := firstLine(e.Message)

	if len(s) > maxReasonCharsPerError {
		return s[:maxReasonCharsPerError-3] + "..."
	}

	return s
}

// formatAdditionalContext joins warnings and classifier contexts into the
// behavioral framing shown to the agent.
func formatAdditionalContext(
	warnings []*dispatcher.ValidationError,
	contexts []string,
) string {
	var parts []string

	for _, e := range warnings {
		parts = append(parts, "hookgate warning: "+firstLine(e.Message)+". Not blocking.")
	}

	parts = append(parts, contexts...)

	return strings.Join(parts, " ")
}

// FormatSystemMessage builds the human-readable message shown in the UI.
func FormatSystemMessage(errs []*dispatcher.ValidationError) string {
	if len(errs) == 0 {
		return ""
	}

	blocking, warnings := categorize(errs)

	var b strings.Builder

	if len(blocking) > 0 {
		formatErrorList(&b, "Blocked:", blocking)
	}

	if len(warnings) > 0 {
		formatErrorList(&b, "Warnings:", warnings)
	}

	return b.String()
}

// formatErrorList writes a categorized list of errors.
func formatErrorList(b *strings.Builder, header string, errs []*dispatcher.ValidationError) {
	b.WriteString("\n")
	b.WriteString(header)

	for _, e := range errs {
		b.WriteString(" ")
		b.WriteString(e.Validator)
	}

	b.WriteString("\n\n")

	for _, e := range errs {
		formatSingleError(b, e)
	}
}

// formatSingleError writes one error entry.
func formatSingleError(b *strings.Builder, e *dispatcher.ValidationError) {
	b.WriteString(e.Message)
	b.WriteString("\n")

	if len(e.Details) > 0 {
		b.WriteString("\n")

		for _, v := range e.Details {
			b.WriteString(strings.TrimSpace(v))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
}

// firstLine returns the first non-blank line from text.
func firstLine(text string) string {
	for line := range strings.SplitSeq(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			return trimmed
		}
	}

	return text
}
