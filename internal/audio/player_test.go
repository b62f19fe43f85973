package audio_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smykla-labs/hookgate/internal/audio"
	"github.com/smykla-labs/hookgate/internal/cooldown"
	"github.com/smykla-labs/hookgate/internal/statestore"
	"github.com/smykla-labs/hookgate/pkg/config"
	"github.com/smykla-labs/hookgate/pkg/logger"
)

func enabledConfig() *config.AudioConfig {
	on := true

	return &config.AudioConfig{Enabled: &on}
}

func soundDir(t *testing.T, keys ...string) string {
	t.Helper()

	dir := t.TempDir()

	for _, key := range keys {
		path := filepath.Join(dir, key+".wav")
		if err := os.WriteFile(path, []byte("RIFF"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	return dir
}

func fakeLookPath(string) (string, error) { return "/usr/bin/aplay", nil }

func TestPlayerPlaysExistingCue(t *testing.T) {
	dir := soundDir(t, audio.CueReady)

	var played []string

	p := audio.NewPlayer(
		enabledConfig(), dir, nil, logger.NewNoOpLogger(),
		audio.WithLookPath(fakeLookPath),
		audio.WithRunCommand(func(_ context.Context, _ string, args ...string) error {
			played = append(played, args[len(args)-1])
			return nil
		}),
	)

	if !p.Play(context.Background(), audio.CueReady) {
		t.Fatal("Play returned false")
	}

	if len(played) != 1 || filepath.Base(played[0]) != "ready.wav" {
		t.Errorf("played = %v", played)
	}
}

func TestPlayerDisabledByDefault(t *testing.T) {
	dir := soundDir(t, audio.CueReady)

	ran := false

	p := audio.NewPlayer(
		nil, dir, nil, logger.NewNoOpLogger(),
		audio.WithLookPath(fakeLookPath),
		audio.WithRunCommand(func(context.Context, string, ...string) error {
			ran = true
			return nil
		}),
	)

	if p.Play(context.Background(), audio.CueReady) {
		t.Error("Play returned true with nil config")
	}

	if ran {
		t.Error("player ran despite audio being disabled")
	}
}

func TestPlayerMissingFileSilent(t *testing.T) {
	p := audio.NewPlayer(
		enabledConfig(), t.TempDir(), nil, logger.NewNoOpLogger(),
		audio.WithLookPath(fakeLookPath),
	)

	if p.Play(context.Background(), audio.CueGitCommit) {
		t.Error("Play returned true for missing file")
	}
}

func TestPlayerNoBinarySilent(t *testing.T) {
	dir := soundDir(t, audio.CueReady)

	p := audio.NewPlayer(
		enabledConfig(), dir, nil, logger.NewNoOpLogger(),
		audio.WithLookPath(func(string) (string, error) {
			return "", errors.New("not found")
		}),
	)

	if p.Play(context.Background(), audio.CueReady) {
		t.Error("Play returned true with no player binary")
	}
}

func TestPlayerPlaybackErrorSilent(t *testing.T) {
	dir := soundDir(t, audio.CueReady)

	p := audio.NewPlayer(
		enabledConfig(), dir, nil, logger.NewNoOpLogger(),
		audio.WithLookPath(fakeLookPath),
		audio.WithRunCommand(func(context.Context, string, ...string) error {
			return errors.New("device busy")
		}),
	)

	if p.Play(context.Background(), audio.CueReady) {
		t.Error("Play returned true on playback error")
	}
}

func TestPlayerCooldownSuppressesRepeat(t *testing.T) {
	dir := soundDir(t, audio.CueGitCommit)

	current := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	limiter := cooldown.NewLimiter(
		statestore.New(t.TempDir()),
		cooldown.WithTimeFunc(func() time.Time { return current }),
	)

	runs := 0

	p := audio.NewPlayer(
		enabledConfig(), dir, limiter, logger.NewNoOpLogger(),
		audio.WithLookPath(fakeLookPath),
		audio.WithRunCommand(func(context.Context, string, ...string) error {
			runs++
			return nil
		}),
	)

	ctx := context.Background()

	if !p.Play(ctx, audio.CueGitCommit) {
		t.Fatal("first play suppressed")
	}

	current = current.Add(500 * time.Millisecond)

	if p.Play(ctx, audio.CueGitCommit) {
		t.Error("second play inside cooldown window not suppressed")
	}

	current = current.Add(5 * time.Second)

	if !p.Play(ctx, audio.CueGitCommit) {
		t.Error("play after cooldown window suppressed")
	}

	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}

func TestPlayerFailedAttemptKeepsCooldownCold(t *testing.T) {
	dir := soundDir(t, audio.CueGitCommit)

	current := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	limiter := cooldown.NewLimiter(
		statestore.New(t.TempDir()),
		cooldown.WithTimeFunc(func() time.Time { return current }),
	)

	available := false
	runs := 0

	p := audio.NewPlayer(
		enabledConfig(), dir, limiter, logger.NewNoOpLogger(),
		audio.WithLookPath(func(string) (string, error) {
			if !available {
				return "", errors.New("not found")
			}
			return "/usr/bin/aplay", nil
		}),
		audio.WithRunCommand(func(context.Context, string, ...string) error {
			runs++
			return nil
		}),
	)

	ctx := context.Background()

	// No player binary: the attempt fails without stamping the limiter.
	if p.Play(ctx, audio.CueGitCommit) {
		t.Fatal("play succeeded with no player binary")
	}

	// A moment later the binary is present. The earlier failure must
	// not count as a fire, so this plays immediately.
	available = true
	current = current.Add(100 * time.Millisecond)

	if !p.Play(ctx, audio.CueGitCommit) {
		t.Error("play suppressed by a cooldown the failed attempt should not have started")
	}

	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
}

func TestPlayerConfiguredPlayerWins(t *testing.T) {
	dir := soundDir(t, audio.CueReady)

	on := true
	cfg := &config.AudioConfig{Enabled: &on, Player: "customplay"}

	var gotPlayer string

	p := audio.NewPlayer(
		cfg, dir, nil, logger.NewNoOpLogger(),
		audio.WithRunCommand(func(_ context.Context, name string, _ ...string) error {
			gotPlayer = name
			return nil
		}),
	)

	p.Play(context.Background(), audio.CueReady)

	if gotPlayer != "customplay" {
		t.Errorf("player = %q", gotPlayer)
	}
}

func TestPlayAsyncCompletes(t *testing.T) {
	dir := soundDir(t, audio.CueReady)

	p := audio.NewPlayer(
		enabledConfig(), dir, nil, logger.NewNoOpLogger(),
		audio.WithLookPath(fakeLookPath),
		audio.WithRunCommand(func(context.Context, string, ...string) error {
			return nil
		}),
	)

	select {
	case <-p.PlayAsync(context.Background(), audio.CueReady):
	case <-time.After(time.Second):
		t.Fatal("PlayAsync did not complete")
	}
}
