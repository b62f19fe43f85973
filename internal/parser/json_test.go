package parser_test

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/smykla-labs/hookgate/internal/parser"
	"github.com/smykla-labs/hookgate/pkg/hook"
)

func TestParseFullPayload(t *testing.T) {
	input := `{
		"hook_event_name": "PreToolUse",
		"tool_name": "Bash",
		"tool_input": {"command": "git status"},
		"session_id": "sess-1",
		"tool_use_id": "tu-9"
	}`

	p := parser.NewJSONParser(strings.NewReader(input))

	ctx, err := p.Parse(hook.EventTypeUnknown)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if ctx.EventType != hook.EventTypePreToolUse {
		t.Errorf("EventType = %q", ctx.EventType)
	}

	if ctx.ToolName != hook.ToolTypeBash {
		t.Errorf("ToolName = %q", ctx.ToolName)
	}

	if got := ctx.GetCommand(); got != "git status" {
		t.Errorf("GetCommand() = %q", got)
	}

	if ctx.SessionID != "sess-1" {
		t.Errorf("SessionID = %q", ctx.SessionID)
	}
}

func TestParseEmptyInput(t *testing.T) {
	t.Setenv("CLAUDE_TOOL_INPUT", "")

	p := parser.NewJSONParser(strings.NewReader(""))

	_, err := p.Parse(hook.EventTypePreToolUse)
	if !errors.Is(err, parser.ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestParseEnvFallback(t *testing.T) {
	t.Setenv("CLAUDE_TOOL_INPUT", `{"tool_name":"Write","tool_input":{"file_path":"a.md"}}`)

	p := parser.NewJSONParser(strings.NewReader(""))

	ctx, err := p.Parse(hook.EventTypePreToolUse)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if ctx.ToolName != hook.ToolTypeWrite {
		t.Errorf("ToolName = %q", ctx.ToolName)
	}

	if got := ctx.GetFilePath(); got != "a.md" {
		t.Errorf("GetFilePath() = %q", got)
	}
}

func TestParseMalformedJSONDegradesToEmptyContext(t *testing.T) {
	p := parser.NewJSONParser(strings.NewReader("{not json"))

	ctx, err := p.Parse(hook.EventTypePreToolUse)
	if err != nil {
		t.Fatalf("malformed input must not error, got %v", err)
	}

	if ctx.EventType != hook.EventTypePreToolUse {
		t.Errorf("EventType = %q, want fallback", ctx.EventType)
	}

	if ctx.ToolName != hook.ToolTypeUnknown {
		t.Errorf("ToolName = %q, want unknown", ctx.ToolName)
	}

	if ctx.GetCommand() != "" {
		t.Errorf("GetCommand() = %q, want empty", ctx.GetCommand())
	}
}

func TestParseEventNameWinsOverFallback(t *testing.T) {
	input := `{"hook_event_name":"Stop"}`

	p := parser.NewJSONParser(strings.NewReader(input))

	ctx, err := p.Parse(hook.EventTypePreToolUse)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if ctx.EventType != hook.EventTypeStop {
		t.Errorf("EventType = %q, want Stop", ctx.EventType)
	}
}

func TestParseToolAliasField(t *testing.T) {
	input := `{"hook_event_name":"PreToolUse","tool":"Bash","command":"ls"}`

	p := parser.NewJSONParser(strings.NewReader(input))

	ctx, err := p.Parse(hook.EventTypeUnknown)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if ctx.ToolName != hook.ToolTypeBash {
		t.Errorf("ToolName = %q", ctx.ToolName)
	}

	if got := ctx.GetCommand(); got != "ls" {
		t.Errorf("GetCommand() = %q", got)
	}
}

func TestParseUnparsableToolInputFallsBackToCommand(t *testing.T) {
	input := `{"hook_event_name":"PreToolUse","tool_name":"Bash","tool_input":"oops","command":"pwd"}`

	p := parser.NewJSONParser(strings.NewReader(input))

	ctx, err := p.Parse(hook.EventTypeUnknown)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if got := ctx.GetCommand(); got != "pwd" {
		t.Errorf("GetCommand() = %q, want pwd", got)
	}
}

func TestParsePrompt(t *testing.T) {
	input := `{"hook_event_name":"UserPromptSubmit","prompt":"@agent-backend add an endpoint"}`

	p := parser.NewJSONParser(strings.NewReader(input))

	ctx, err := p.Parse(hook.EventTypeUnknown)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if ctx.EventType != hook.EventTypeUserPromptSubmit {
		t.Errorf("EventType = %q", ctx.EventType)
	}

	if !strings.Contains(ctx.GetPrompt(), "@agent-backend") {
		t.Errorf("GetPrompt() = %q", ctx.GetPrompt())
	}
}
