// Package parser provides JSON input parsing for hook invocations.
package parser

import (
	"encoding/json"
	"io"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/smykla-labs/hookgate/pkg/hook"
)

// ErrEmptyInput is returned when the input is empty.
// Callers treat this as "no opinion" rather than a failure.
var ErrEmptyInput = errors.New("empty input")

// JSONInput represents the raw JSON input structure.
type JSONInput struct {
	HookEventName    string          `json:"hook_event_name,omitempty"`
	ToolName         string          `json:"tool_name,omitempty"`
	Tool             string          `json:"tool,omitempty"`
	ToolInput        json.RawMessage `json:"tool_input,omitempty"`
	ToolResponse     json.RawMessage `json:"tool_response,omitempty"`
	Command          string          `json:"command,omitempty"`
	Prompt           string          `json:"prompt,omitempty"`
	NotificationType string          `json:"notification_type,omitempty"`
	SessionID        string          `json:"session_id,omitempty"`
	ToolUseID        string          `json:"tool_use_id,omitempty"`
	TranscriptPath   string          `json:"transcript_path,omitempty"`
}

// JSONParser parses JSON input from stdin or environment variable.
type JSONParser struct {
	reader io.Reader
}

// NewJSONParser creates a new JSONParser that reads from the given reader.
func NewJSONParser(reader io.Reader) *JSONParser {
	return &JSONParser{
		reader: reader,
	}
}

// Parse reads the full input and extracts the hook context.
//
// fallbackEvent is used when the payload carries no hook_event_name
// (older hosts pass the event via a CLI flag instead).
//
// Malformed JSON degrades to an empty context for the fallback event:
// a hook must never crash the host over bad input.
func (p *JSONParser) Parse(fallbackEvent hook.EventType) (*hook.Context, error) {
	jsonBytes, err := io.ReadAll(p.reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read input")
	}

	// If stdin is empty, try the environment variable
	if len(jsonBytes) == 0 {
		envInput := os.Getenv("CLAUDE_TOOL_INPUT")
		if envInput == "" {
			return nil, ErrEmptyInput
		}

		jsonBytes = []byte(envInput)
	}

	var input JSONInput

	if unmarshalErr := json.Unmarshal(jsonBytes, &input); unmarshalErr != nil {
		return &hook.Context{
			EventType: fallbackEvent,
			RawJSON:   string(jsonBytes),
		}, nil
	}

	eventType := hook.ParseEventType(input.HookEventName)
	if eventType == hook.EventTypeUnknown {
		eventType = fallbackEvent
	}

	// Some hosts send "tool" instead of "tool_name"
	toolName := input.ToolName
	if toolName == "" {
		toolName = input.Tool
	}

	var toolInput hook.ToolInput

	if len(input.ToolInput) > 0 {
		if unmarshalErr := json.Unmarshal(input.ToolInput, &toolInput); unmarshalErr != nil {
			// If tool_input fails to parse, fall back to the top-level command
			toolInput.Command = input.Command
		}
	} else {
		toolInput.Command = input.Command
	}

	ctx := &hook.Context{
		EventType:        eventType,
		ToolName:         hook.ParseToolType(toolName),
		ToolInput:        toolInput,
		ToolResponse:     input.ToolResponse,
		Prompt:           input.Prompt,
		NotificationType: input.NotificationType,
		RawJSON:          string(jsonBytes),
		SessionID:        input.SessionID,
		ToolUseID:        input.ToolUseID,
		TranscriptPath:   input.TranscriptPath,
	}

	return ctx, nil
}
