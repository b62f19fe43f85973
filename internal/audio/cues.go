// Package audio plays short sound cues for hook events. Playback is
// fire-and-forget: failures are logged and never affect the decision.
package audio

import (
	"strings"

	"github.com/smykla-labs/hookgate/pkg/hook"
)

// Sound keys. Each maps to a WAV file of the same name in the audio dir.
const (
	CueReady        = "ready"
	CueProcessing   = "processing"
	CueFileWrite    = "file_write"
	CueFileComplete = "file_complete"
	CueFileDelete   = "file_delete"
	CueGitCommit    = "git_commit"
	CueGitPush      = "git_push"
	CueBuild        = "build_running"
	CueTests        = "tests_running"
	CueTestsFailed  = "tests_failed"
	CueInstall      = "package_install"
	CueRisky        = "risky_command"
	CueBlocked      = "command_blocked"
)

// cueRule maps a command substring to a sound key. Rules are checked in
// order; the first match wins.
type cueRule struct {
	substrings []string
	key        string
}

// bashCueRules categorizes Bash commands. More specific entries come
// before the generic ones they overlap with.
var bashCueRules = []cueRule{
	{[]string{"git commit"}, CueGitCommit},
	{[]string{"git push"}, CueGitPush},
	{[]string{"rm -rf", "git push --force", "git reset --hard"}, CueRisky},
	{[]string{"rm ", "rmdir"}, CueFileDelete},
	{[]string{"pip install", "pip3 install", "npm install", "npm i ", "apt ", "brew "}, CueInstall},
	{[]string{"pytest", "go test", "npm test", "cargo test", "jest"}, CueTests},
	{[]string{"make", "go build", "npm run build", "cargo build", "docker build"}, CueBuild},
}

// SelectCue picks the sound key for a hook event, or "" for silence.
// Selection is deterministic: rule order decides ties.
func SelectCue(hookCtx *hook.Context) string {
	if hookCtx == nil {
		return ""
	}

	switch hookCtx.EventType {
	case hook.EventTypePreToolUse:
		return selectPreToolCue(hookCtx)
	case hook.EventTypePostToolUse:
		return selectPostToolCue(hookCtx)
	case hook.EventTypeNotification:
		return CueReady
	case hook.EventTypeStop:
		return CueReady
	default:
		return ""
	}
}

// selectPreToolCue categorizes a tool invocation before it runs.
func selectPreToolCue(hookCtx *hook.Context) string {
	switch {
	case hookCtx.IsBashTool():
		return selectBashCue(hookCtx.GetCommand())
	case hookCtx.IsFileTool():
		return CueFileWrite
	default:
		return ""
	}
}

// selectPostToolCue categorizes a completed tool invocation.
func selectPostToolCue(hookCtx *hook.Context) string {
	switch {
	case hookCtx.IsFileTool():
		return CueFileComplete
	case hookCtx.IsBashTool():
		if isFailedResponse(hookCtx) {
			return CueTestsFailed
		}

		return ""
	default:
		return ""
	}
}

// selectBashCue matches the command against the rule table.
func selectBashCue(command string) string {
	if command == "" {
		return ""
	}

	lowered := strings.ToLower(command)

	for _, rule := range bashCueRules {
		for _, sub := range rule.substrings {
			if strings.Contains(lowered, sub) {
				return rule.key
			}
		}
	}

	return CueProcessing
}

// isFailedResponse sniffs the raw tool response for failure markers.
func isFailedResponse(hookCtx *hook.Context) bool {
	if len(hookCtx.ToolResponse) == 0 {
		return false
	}

	response := strings.ToLower(string(hookCtx.ToolResponse))

	for _, marker := range []string{"\"exit_code\":1", "failed", "error:"} {
		if strings.Contains(response, marker) {
			return true
		}
	}

	return false
}
