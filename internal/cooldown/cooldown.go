// Package cooldown rate-limits repeated triggers by label.
package cooldown

import (
	"sync"
	"time"

	"github.com/smykla-labs/hookgate/internal/statestore"
	"github.com/smykla-labs/hookgate/pkg/logger"
)

// stateName is the state store document holding cooldown timestamps.
const stateName = "cooldowns.json"

// State holds per-label last-fired timestamps.
type State struct {
	// LastFired maps a trigger label to the time it last fired.
	LastFired map[string]time.Time `json:"last_fired"`

	// LastUpdated is when the state was last modified.
	LastUpdated time.Time `json:"last_updated"`
}

// NewState creates empty cooldown state.
func NewState() *State {
	return &State{
		LastFired: make(map[string]time.Time),
	}
}

// Limiter suppresses triggers that fire again within their cooldown
// window. Suppressed triggers do not touch the stored timestamp, so a
// burst of events cannot hold the window open indefinitely.
type Limiter struct {
	mu     sync.Mutex
	state  *State
	store  *statestore.Store
	logger logger.Logger

	// now returns the current time. Overridable for tests.
	now func() time.Time
}

// Option configures the Limiter.
type Option func(*Limiter)

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(l *Limiter) {
		if log != nil {
			l.logger = log
		}
	}
}

// WithTimeFunc sets a custom time function for testing.
func WithTimeFunc(fn func() time.Time) Option {
	return func(l *Limiter) {
		if fn != nil {
			l.now = fn
		}
	}
}

// NewLimiter creates a limiter persisting through the given store.
func NewLimiter(store *statestore.Store, opts ...Option) *Limiter {
	l := &Limiter{
		state:  NewState(),
		store:  store,
		logger: logger.NewNoOpLogger(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load reads persisted state. Missing or corrupt state starts fresh.
func (l *Limiter) Load() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var state State

	found, err := l.store.Load(stateName, &state)
	if err != nil {
		return err
	}

	if !found {
		l.logger.Debug("no cooldown state, starting fresh")
		return nil
	}

	if state.LastFired == nil {
		state.LastFired = make(map[string]time.Time)
	}

	l.state = &state

	return nil
}

// Save persists the current state.
func (l *Limiter) Save() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.store.Save(stateName, l.state)
}

// Allow reports whether label may fire now. A firing label records its
// timestamp; a suppressed one leaves state untouched.
func (l *Limiter) Allow(label string, cooldown time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	if last, ok := l.state.LastFired[label]; ok {
		if now.Sub(last) < cooldown {
			l.logger.Debug("trigger suppressed",
				"label", label,
				"since_last", now.Sub(last).String(),
				"cooldown", cooldown.String(),
			)

			return false
		}
	}

	l.state.LastFired[label] = now
	l.state.LastUpdated = now

	l.logger.Debug("trigger allowed", "label", label)

	return true
}

// Reset clears all cooldown state.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.state = NewState()
}
