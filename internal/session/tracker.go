package session

import (
	"sync"
	"time"

	"github.com/smykla-labs/hookgate/internal/statestore"
	"github.com/smykla-labs/hookgate/pkg/config"
	"github.com/smykla-labs/hookgate/pkg/hook"
	"github.com/smykla-labs/hookgate/pkg/logger"
)

// stateName is the state store document holding session state.
const stateName = "sessions.json"

// defaultMaxAge is how long an inactive session lives.
const defaultMaxAge = 24 * time.Hour

// Tracker records per-session activity keyed by session ID. Sessions
// expire after a configurable maximum age; expiry happens lazily on load
// and on each record.
type Tracker struct {
	mu     sync.Mutex
	state  *State
	store  *statestore.Store
	config *config.SessionConfig
	logger logger.Logger
	maxAge time.Duration

	// now returns the current time. Overridable for tests.
	now func() time.Time
}

// TrackerOption configures the Tracker.
type TrackerOption func(*Tracker)

// WithLogger sets the logger.
func WithLogger(log logger.Logger) TrackerOption {
	return func(t *Tracker) {
		if log != nil {
			t.logger = log
		}
	}
}

// WithTimeFunc sets a custom time function for testing.
func WithTimeFunc(fn func() time.Time) TrackerOption {
	return func(t *Tracker) {
		if fn != nil {
			t.now = fn
		}
	}
}

// NewTracker creates a session tracker persisting through the given store.
func NewTracker(
	store *statestore.Store,
	cfg *config.SessionConfig,
	opts ...TrackerOption,
) *Tracker {
	t := &Tracker{
		state:  NewState(),
		store:  store,
		config: cfg,
		logger: logger.NewNoOpLogger(),
		maxAge: defaultMaxAge,
		now:    time.Now,
	}

	if cfg != nil {
		if maxAge := cfg.GetMaxAge(); maxAge > 0 {
			t.maxAge = maxAge
		}
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Load reads persisted state and expires stale sessions.
func (t *Tracker) Load() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var state State

	found, err := t.store.Load(stateName, &state)
	if err != nil {
		return err
	}

	if !found {
		t.logger.Debug("no session state, starting fresh")
		return nil
	}

	if state.Sessions == nil {
		state.Sessions = make(map[string]*Info)
	}

	t.state = &state
	t.expireLocked()

	return nil
}

// Save persists the current state.
func (t *Tracker) Save() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.store.Save(stateName, t.state)
}

// Record notes one hook event for the session carried by hookCtx.
// Contexts without a session ID are ignored.
func (t *Tracker) Record(hookCtx *hook.Context, denied bool) {
	if hookCtx == nil || !hookCtx.HasSessionID() {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.expireLocked()

	now := t.now()

	info, ok := t.state.Sessions[hookCtx.SessionID]
	if !ok {
		info = &Info{
			SessionID: hookCtx.SessionID,
			StartedAt: now,
		}
		t.state.Sessions[hookCtx.SessionID] = info
	}

	info.EventCount++

	if hookCtx.IsBashTool() {
		info.CommandCount++
	}

	if denied {
		info.DenyCount++
	}

	info.LastActivity = now
	t.state.LastUpdated = now

	t.logger.Debug("session activity recorded",
		"session_id", hookCtx.SessionID,
		"events", info.EventCount,
		"commands", info.CommandCount,
	)
}

// Get returns the tracked info for a session, or nil.
func (t *Tracker) Get(sessionID string) *Info {
	t.mu.Lock()
	defer t.mu.Unlock()

	info, ok := t.state.Sessions[sessionID]
	if !ok {
		return nil
	}

	copied := *info

	return &copied
}

// Count returns the number of tracked sessions.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.state.Sessions)
}

// expireLocked drops sessions older than maxAge. Must hold mu.
func (t *Tracker) expireLocked() {
	cutoff := t.now().Add(-t.maxAge)

	for id, info := range t.state.Sessions {
		if info.LastActivity.Before(cutoff) {
			t.logger.Debug("session expired",
				"session_id", id,
				"last_activity", info.LastActivity.Format(time.RFC3339),
			)

			delete(t.state.Sessions, id)
		}
	}
}
