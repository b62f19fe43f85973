package audio

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/smykla-labs/hookgate/internal/cooldown"
	"github.com/smykla-labs/hookgate/pkg/config"
	"github.com/smykla-labs/hookgate/pkg/logger"
)

// playerChain is tried in order when no player is configured.
var playerChain = []string{"afplay", "paplay", "aplay", "ffplay"}

// Player resolves sound keys to files and plays them through an
// external command, bounded by a timeout and a per-key cooldown.
type Player struct {
	config  *config.AudioConfig
	limiter *cooldown.Limiter
	logger  logger.Logger
	dir     string

	// runCommand executes the player process. Overridable for tests.
	runCommand func(ctx context.Context, name string, args ...string) error

	// lookPath resolves a player binary. Overridable for tests.
	lookPath func(string) (string, error)
}

// PlayerOption configures the Player.
type PlayerOption func(*Player)

// WithRunCommand overrides process execution, for tests.
func WithRunCommand(fn func(ctx context.Context, name string, args ...string) error) PlayerOption {
	return func(p *Player) {
		if fn != nil {
			p.runCommand = fn
		}
	}
}

// WithLookPath overrides binary resolution, for tests.
func WithLookPath(fn func(string) (string, error)) PlayerOption {
	return func(p *Player) {
		if fn != nil {
			p.lookPath = fn
		}
	}
}

// NewPlayer creates a Player. dir is the sound file directory; the
// limiter may be nil to disable rate limiting.
func NewPlayer(
	cfg *config.AudioConfig,
	dir string,
	limiter *cooldown.Limiter,
	log logger.Logger,
	opts ...PlayerOption,
) *Player {
	p := &Player{
		config:  cfg,
		limiter: limiter,
		logger:  log,
		dir:     dir,
		lookPath: exec.LookPath,
		runCommand: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
	}

	if cfg != nil && cfg.Dir != "" {
		p.dir = cfg.Dir
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Play plays the cue for key. Every failure path is silent: a missing
// file, an absent player binary, or a timeout only produce debug logs.
// Returns whether playback was attempted, for the caller's audit entry.
func (p *Player) Play(ctx context.Context, key string) bool {
	if key == "" || !p.config.IsEnabled() {
		return false
	}

	// Availability before the limiter: a cue that cannot play must
	// not consume the cooldown window.
	soundFile := filepath.Join(p.dir, key+".wav")
	if _, err := os.Stat(soundFile); err != nil {
		p.logger.Debug("sound file missing", "file", soundFile)
		return false
	}

	player, args := p.resolvePlayer()
	if player == "" {
		p.logger.Debug("no audio player available")
		return false
	}

	if p.limiter != nil && !p.limiter.Allow(key, p.config.GetCooldown()) {
		p.logger.Debug("cue suppressed by cooldown", "key", key)
		return false
	}

	playCtx, cancel := context.WithTimeout(ctx, p.config.GetPlayTimeout())
	defer cancel()

	if err := p.runCommand(playCtx, player, append(args, soundFile)...); err != nil {
		p.logger.Debug("playback failed", "player", player, "error", err)
		return false
	}

	p.logger.Debug("cue played", "key", key, "player", player)

	return true
}

// PlayAsync fires playback on a goroutine and returns a channel that
// closes when it finishes. The decision path never waits on it; main
// drains it with a timeout before exiting.
func (p *Player) PlayAsync(ctx context.Context, key string) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)
		p.Play(ctx, key)
	}()

	return done
}

// resolvePlayer picks the configured player or the first available
// binary from the platform chain.
func (p *Player) resolvePlayer() (string, []string) {
	if p.config != nil && p.config.Player != "" {
		return p.config.Player, nil
	}

	for _, candidate := range playerChain {
		if _, err := p.lookPath(candidate); err == nil {
			return candidate, playerArgs(candidate)
		}
	}

	return "", nil
}

// playerArgs returns player-specific flags that keep playback quiet
// and non-interactive.
func playerArgs(player string) []string {
	if player == "ffplay" {
		return []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}
	}

	return nil
}

// Timeout returns the playback timeout, for callers draining PlayAsync.
func (p *Player) Timeout() time.Duration {
	return p.config.GetPlayTimeout()
}
