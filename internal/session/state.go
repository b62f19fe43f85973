// Package session tracks per-session activity across hook invocations.
// The tracker is observational: it feeds logging and the audit trail,
// never the permission decision.
package session

import (
	"time"
)

// Info contains the tracked state for a single session.
type Info struct {
	// SessionID is the unique identifier for the session.
	SessionID string `json:"session_id"`

	// CommandCount is the number of Bash commands seen in this session.
	CommandCount int `json:"command_count"`

	// EventCount is the total number of hook events seen.
	EventCount int `json:"event_count"`

	// DenyCount is the number of denied operations.
	DenyCount int `json:"deny_count"`

	// StartedAt is when the session was first seen.
	StartedAt time.Time `json:"started_at"`

	// LastActivity is when the session was last seen.
	LastActivity time.Time `json:"last_activity"`
}

// State contains state for all tracked sessions.
type State struct {
	// Sessions maps session ID to session info.
	Sessions map[string]*Info `json:"sessions"`

	// LastUpdated is when the state was last modified.
	LastUpdated time.Time `json:"last_updated"`
}

// NewState creates empty session state.
func NewState() *State {
	return &State{
		Sessions: make(map[string]*Info),
	}
}
