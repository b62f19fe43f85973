// Package hook provides core types for the hook invocation context.
package hook

import "encoding/json"

// EventType identifies the lifecycle event that triggered a hook invocation.
// Values match the host's wire format exactly; dispatch never case-normalizes.
type EventType string

const (
	// EventTypeUnknown represents an unrecognized event type.
	EventTypeUnknown EventType = ""

	// EventTypePreToolUse is sent before a tool is executed.
	EventTypePreToolUse EventType = "PreToolUse"

	// EventTypePostToolUse is sent after a tool has executed.
	EventTypePostToolUse EventType = "PostToolUse"

	// EventTypeNotification is sent for user notifications.
	EventTypeNotification EventType = "Notification"

	// EventTypeSessionStart is sent when a session begins.
	EventTypeSessionStart EventType = "SessionStart"

	// EventTypeStop is sent when the assistant finishes its turn.
	EventTypeStop EventType = "Stop"

	// EventTypeUserPromptSubmit is sent when the user submits a prompt.
	EventTypeUserPromptSubmit EventType = "UserPromptSubmit"
)

// ToolType identifies the tool being invoked on tool-related events.
type ToolType string

const (
	// ToolTypeUnknown represents a tool this binary has no policies for.
	ToolTypeUnknown ToolType = ""

	// ToolTypeBash is the shell command execution tool.
	ToolTypeBash ToolType = "Bash"

	// ToolTypeWrite creates files.
	ToolTypeWrite ToolType = "Write"

	// ToolTypeEdit modifies files.
	ToolTypeEdit ToolType = "Edit"

	// ToolTypeMultiEdit modifies multiple regions of a file.
	ToolTypeMultiEdit ToolType = "MultiEdit"

	// ToolTypeRead reads files.
	ToolTypeRead ToolType = "Read"

	// ToolTypeGrep searches file contents.
	ToolTypeGrep ToolType = "Grep"

	// ToolTypeGlob finds files by pattern.
	ToolTypeGlob ToolType = "Glob"
)

// knownEventTypes is the set of event names this binary dispatches on.
var knownEventTypes = map[string]EventType{
	string(EventTypePreToolUse):       EventTypePreToolUse,
	string(EventTypePostToolUse):      EventTypePostToolUse,
	string(EventTypeNotification):     EventTypeNotification,
	string(EventTypeSessionStart):     EventTypeSessionStart,
	string(EventTypeStop):             EventTypeStop,
	string(EventTypeUserPromptSubmit): EventTypeUserPromptSubmit,
}

// ParseEventType maps an event name to its EventType.
// Unknown names map to EventTypeUnknown so the hook passes through.
func ParseEventType(name string) EventType {
	if et, ok := knownEventTypes[name]; ok {
		return et
	}

	return EventTypeUnknown
}

// knownToolTypes is the set of tool names this binary has policies for.
var knownToolTypes = map[string]ToolType{
	string(ToolTypeBash):      ToolTypeBash,
	string(ToolTypeWrite):     ToolTypeWrite,
	string(ToolTypeEdit):      ToolTypeEdit,
	string(ToolTypeMultiEdit): ToolTypeMultiEdit,
	string(ToolTypeRead):      ToolTypeRead,
	string(ToolTypeGrep):      ToolTypeGrep,
	string(ToolTypeGlob):      ToolTypeGlob,
}

// ParseToolType maps a tool name to its ToolType.
// Unknown names map to ToolTypeUnknown to allow pass-through.
func ParseToolType(name string) ToolType {
	if tt, ok := knownToolTypes[name]; ok {
		return tt
	}

	return ToolTypeUnknown
}

// ToolInput contains the raw tool input data.
type ToolInput struct {
	// Command is the shell command for the Bash tool.
	Command string `json:"command,omitempty"`

	// FilePath is the file path for file operations.
	FilePath string `json:"file_path,omitempty"`

	// Path is an alternative field for file path.
	Path string `json:"path,omitempty"`

	// Content is the file content for the Write tool.
	Content string `json:"content,omitempty"`

	// OldString is the string to replace for the Edit tool.
	OldString string `json:"old_string,omitempty"`

	// NewString is the replacement string for the Edit tool.
	NewString string `json:"new_string,omitempty"`

	// Pattern is the search pattern for Grep/Glob tools.
	Pattern string `json:"pattern,omitempty"`

	// Additional fields stored as raw JSON.
	Additional map[string]json.RawMessage `json:"-"`
}

// Context represents the complete hook invocation context.
// It is constructed once per invocation and never mutated.
type Context struct {
	// EventType is the lifecycle event that triggered this invocation.
	EventType EventType

	// ToolName is the tool being invoked, if any.
	ToolName ToolType

	// ToolInput contains the tool-specific input parameters.
	ToolInput ToolInput

	// ToolResponse contains the raw tool output on PostToolUse events.
	ToolResponse json.RawMessage

	// Prompt is the submitted prompt text on UserPromptSubmit events.
	Prompt string

	// NotificationType is the notification kind on Notification events.
	NotificationType string

	// RawJSON contains the original JSON input for advanced parsing.
	RawJSON string

	// SessionID correlates invocations belonging to one host session.
	// Used only for logging and state keying, never for control flow.
	SessionID string

	// ToolUseID is the unique identifier for this tool invocation.
	ToolUseID string

	// TranscriptPath is the path to the session transcript file.
	TranscriptPath string
}

// GetCommand returns the command from ToolInput.
func (c *Context) GetCommand() string {
	return c.ToolInput.Command
}

// GetFilePath returns the file path from ToolInput, preferring FilePath over Path.
func (c *Context) GetFilePath() string {
	if c.ToolInput.FilePath != "" {
		return c.ToolInput.FilePath
	}

	return c.ToolInput.Path
}

// GetContent returns the file content from ToolInput.
func (c *Context) GetContent() string {
	return c.ToolInput.Content
}

// GetPrompt returns the submitted prompt text.
func (c *Context) GetPrompt() string {
	return c.Prompt
}

// IsBashTool returns true if the tool is Bash.
func (c *Context) IsBashTool() bool {
	return c.ToolName == ToolTypeBash
}

// IsFileTool returns true if the tool is a file operation (Write, Edit, MultiEdit).
func (c *Context) IsFileTool() bool {
	return c.ToolName == ToolTypeWrite ||
		c.ToolName == ToolTypeEdit ||
		c.ToolName == ToolTypeMultiEdit
}

// HasSessionID returns true if a session ID is present.
func (c *Context) HasSessionID() bool {
	return c.SessionID != ""
}
