// Package hookresponse builds the structured JSON decision written to stdout.
package hookresponse

import (
	"encoding/json"
	"io"
)

// Decision values accepted by the hook protocol.
const (
	DecisionAllow = "allow"
	DecisionDeny  = "deny"
)

// HookResponse is the top-level JSON structure written to stdout.
type HookResponse struct {
	HookSpecificOutput *HookSpecificOutput `json:"hookSpecificOutput,omitempty"`
	SystemMessage      string              `json:"systemMessage,omitempty"`
}

// HookSpecificOutput carries the permission decision and context for the agent.
type HookSpecificOutput struct {
	HookEventName            string `json:"hookEventName"`
	PermissionDecision       string `json:"permissionDecision"`
	PermissionDecisionReason string `json:"permissionDecisionReason,omitempty"`
	AdditionalContext        string `json:"additionalContext,omitempty"`
}

// IsDeny reports whether the response denies the operation.
func (r *HookResponse) IsDeny() bool {
	return r != nil &&
		r.HookSpecificOutput != nil &&
		r.HookSpecificOutput.PermissionDecision == DecisionDeny
}

// Write emits the response as a single JSON document. A nil response
// writes nothing: silence means allow with no context.
func (r *HookResponse) Write(w io.Writer) error {
	if r == nil {
		return nil
	}

	enc := json.NewEncoder(w)

	return enc.Encode(r)
}
