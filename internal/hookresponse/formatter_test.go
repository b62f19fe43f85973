package hookresponse

import (
	"strings"
	"testing"

	"github.com/smykla-labs/hookgate/internal/dispatcher"
)

func TestFormatSingleReasonTruncatesLongMessages(t *testing.T) {
	e := &dispatcher.ValidationError{
		Validator:   "gate",
		Message:     strings.Repeat("x", 500),
		ShouldBlock: true,
	}

	got := formatSingleReason(e)
	if len(got) > maxReasonCharsPerError {
		t.Errorf("len = %d, want <= %d", len(got), maxReasonCharsPerError)
	}

	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated reason missing ellipsis: %q", got)
	}
}

func TestFormatSingleReasonUsesFirstLine(t *testing.T) {
	e := &dispatcher.ValidationError{
		Message: "\n\nCommand blocked\nExtra detail line\nMore detail",
	}

	if got := formatSingleReason(e); got != "Command blocked" {
		t.Errorf("got %q", got)
	}
}

func TestFormatSystemMessageSeparatesBlockingAndWarnings(t *testing.T) {
	errs := []*dispatcher.ValidationError{
		{Validator: "gate", Message: "hard stop", ShouldBlock: true},
		{Validator: "advice", Message: "soft note", ShouldBlock: false},
	}

	msg := FormatSystemMessage(errs)

	if !strings.Contains(msg, "Blocked: gate") {
		t.Errorf("missing blocking header: %q", msg)
	}

	if !strings.Contains(msg, "Warnings: advice") {
		t.Errorf("missing warnings header: %q", msg)
	}
}

func TestFormatSystemMessageIncludesDetails(t *testing.T) {
	errs := []*dispatcher.ValidationError{
		{
			Validator:   "gate",
			Message:     "blocked",
			ShouldBlock: true,
			Details:     map[string]string{"pattern": "rm -rf /"},
		},
	}

	msg := FormatSystemMessage(errs)
	if !strings.Contains(msg, "rm -rf /") {
		t.Errorf("details missing: %q", msg)
	}
}

func TestFormatSystemMessageEmptyForNoErrors(t *testing.T) {
	if got := FormatSystemMessage(nil); got != "" {
		t.Errorf("got %q", got)
	}
}
