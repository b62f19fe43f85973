// Package main provides the CLI entry point for hookgate.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/smykla-labs/hookgate/internal/audio"
	"github.com/smykla-labs/hookgate/internal/audit"
	internalconfig "github.com/smykla-labs/hookgate/internal/config"
	"github.com/smykla-labs/hookgate/internal/cooldown"
	"github.com/smykla-labs/hookgate/internal/crashdump"
	"github.com/smykla-labs/hookgate/internal/dispatcher"
	"github.com/smykla-labs/hookgate/internal/hookresponse"
	"github.com/smykla-labs/hookgate/internal/parser"
	"github.com/smykla-labs/hookgate/internal/session"
	"github.com/smykla-labs/hookgate/internal/statestore"
	"github.com/smykla-labs/hookgate/internal/xdg"
	"github.com/smykla-labs/hookgate/pkg/config"
	"github.com/smykla-labs/hookgate/pkg/hook"
	"github.com/smykla-labs/hookgate/pkg/logger"
)

const (
	// ExitCodeAllow indicates the operation may proceed.
	ExitCodeAllow = 0

	// ExitCodeDeny indicates the operation was denied. The deny decision
	// is also communicated via the JSON document on stdout.
	ExitCodeDeny = 1
)

var (
	hookType  string
	debugMode bool
	traceMode bool

	// denied is set by run when the decision is a deny, so main can
	// translate it into the exit code after cobra unwinds.
	denied bool

	// parsedCtx holds the parsed event for crash diagnostics.
	parsedCtx *hook.Context
)

func main() {
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() (exitCode int) {
	// A panic anywhere degrades to "no decision": exit 0, no output.
	defer func() {
		if r := recover(); r != nil {
			handleCrash(r)

			exitCode = ExitCodeAllow
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return 1
	}

	if denied {
		return ExitCodeDeny
	}

	return ExitCodeAllow
}

// handleCrash records a dump for a recovered panic. Every failure here
// is reported on stderr and otherwise ignored.
func handleCrash(recovered any) {
	fmt.Fprintf(os.Stderr, "panic: %v\n", recovered)

	info := crashdump.Collect(recovered, parsedCtx, version)

	path, err := crashdump.NewWriter(xdg.CrashDumpDir()).Write(info)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to write crash dump: %v\n", err)

		return
	}

	fmt.Fprintf(os.Stderr, "crash dump saved to: %s\n", path)
}

var rootCmd = &cobra.Command{
	Use:   "hookgate",
	Short: "Hook event gatekeeper",
	Long: `hookgate reads one hook event from stdin, runs the configured policy
checks, and emits at most one JSON permission decision on stdout.`,
	RunE:              run,
	SilenceUsage:      true,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
}

func init() {
	rootCmd.Flags().StringVarP(
		&hookType,
		"hook-type",
		"T",
		"",
		"Hook event type fallback when stdin omits hook_event_name",
	)
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.Flags().BoolVar(&traceMode, "trace", false, "Enable trace logging")
}

func run(_ *cobra.Command, _ []string) error {
	if versionRequested {
		printVersion()

		return nil
	}

	// State dir holds the log, audit trail, and JSON state files.
	if err := os.MkdirAll(xdg.StateDir(), 0o700); err != nil {
		return runDispatch(logger.NewNoOpLogger())
	}

	log, err := logger.NewFileLogger(xdg.LogFile(), debugMode, traceMode)
	if err != nil {
		// Logging is a side effect: its failure must not change the
		// decision, so fall back to a no-op logger and keep going.
		return runDispatch(logger.NewNoOpLogger())
	}

	return runDispatch(log)
}

func runDispatch(log logger.Logger) error {
	fallbackEvent := hook.ParseEventType(hookType)
	if fallbackEvent == hook.EventTypeUnknown {
		fallbackEvent = hook.EventTypePreToolUse
	}

	log.Info("hook invoked",
		"eventType", fallbackEvent,
		"debug", debugMode,
		"trace", traceMode,
	)

	jsonParser := parser.NewJSONParser(os.Stdin)

	hookCtx, err := jsonParser.Parse(fallbackEvent)
	if err != nil {
		if errors.Is(err, parser.ErrEmptyInput) {
			log.Info("no input provided, allowing")

			return nil
		}

		// Internal faults never block the host: log and allow.
		log.Error("failed to parse input", "error", err)

		return nil
	}

	parsedCtx = hookCtx

	log.Info("context parsed",
		"event", hookCtx.EventType,
		"tool", hookCtx.ToolName,
		"file", filepath.Base(hookCtx.GetFilePath()),
	)

	cfg, err := loadConfig(log)
	if err != nil {
		log.Error("failed to load configuration", "error", err)

		return nil
	}

	registry := internalconfig.BuildRegistry(cfg, log)
	disp := dispatcher.NewDispatcherWithExecutor(registry, log, buildExecutor(cfg, log))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Global.GetDefaultTimeout())
	defer cancel()

	errs, contexts := disp.Dispatch(ctx, hookCtx)

	response := hookresponse.Build(string(hookCtx.EventType), errs, contexts)
	denied = response.IsDeny()

	if response != nil {
		if err := response.Write(os.Stdout); err != nil {
			log.Error("failed to write response", "error", err)
		}

		if denied {
			log.Error("operation denied", "errorCount", len(errs))
		} else {
			log.Info("operation allowed with context", "warningCount", len(errs))
		}
	} else {
		log.Info("operation allowed")
	}

	// Side effects run after the decision is out and cannot change it.
	// They get a fresh context: the dispatch timeout may already be
	// spent.
	runSideEffects(context.Background(), cfg, hookCtx, response, log)

	return nil
}

// loadConfig loads configuration from all sources with precedence.
func loadConfig(log logger.Logger) (*config.Config, error) {
	loader, err := internalconfig.NewLoader()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create config loader")
	}

	cfg, err := loader.Load(nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}

	log.Debug("configuration loaded",
		"global_config", loader.HasGlobalConfig(),
		"project_config", loader.HasProjectConfig(),
	)

	return cfg, nil
}

// buildExecutor picks the executor implementation from configuration.
func buildExecutor(cfg *config.Config, log logger.Logger) dispatcher.Executor {
	if cfg.Global.IsParallelExecution() {
		return dispatcher.NewParallelExecutor(log, parallelConfig(cfg))
	}

	return dispatcher.NewSequentialExecutor(log)
}

// parallelConfig translates worker limits from configuration. Unset
// limits keep the executor defaults.
func parallelConfig(cfg *config.Config) *dispatcher.ParallelExecutorConfig {
	if cfg.Global == nil {
		return nil
	}

	pc := dispatcher.DefaultParallelConfig()
	if cfg.Global.MaxCPUWorkers != nil {
		pc.MaxCPUWorkers = *cfg.Global.MaxCPUWorkers
	}

	if cfg.Global.MaxIOWorkers != nil {
		pc.MaxIOWorkers = *cfg.Global.MaxIOWorkers
	}

	return pc
}

// runSideEffects performs the audit entry, session bookkeeping, and
// audio cue for an already-made decision. Every failure here is logged
// and swallowed.
func runSideEffects(
	ctx context.Context,
	cfg *config.Config,
	hookCtx *hook.Context,
	response *hookresponse.HookResponse,
	log logger.Logger,
) {
	decision, reason := decisionSummary(response)

	if cfg.Audit.IsEnabled() {
		writer := audit.NewWriter(xdg.AuditFile(), cfg.Audit, log)

		if err := writer.Record(hookCtx, decision, reason); err != nil {
			log.Error("audit write failed", "error", err)
		}

		if err := writer.Close(); err != nil {
			log.Error("audit close failed", "error", err)
		}
	}

	if cfg.Session.IsEnabled() {
		recordSession(cfg, hookCtx, response.IsDeny(), log)
	}

	if cfg.Audio.IsEnabled() {
		playCue(ctx, cfg, hookCtx, response, log)
	}
}

// decisionSummary flattens the response for the audit entry.
func decisionSummary(response *hookresponse.HookResponse) (string, string) {
	if response == nil || response.HookSpecificOutput == nil {
		return hookresponse.DecisionAllow, ""
	}

	return response.HookSpecificOutput.PermissionDecision,
		response.HookSpecificOutput.PermissionDecisionReason
}

// recordSession updates the session tracker state.
func recordSession(
	cfg *config.Config,
	hookCtx *hook.Context,
	wasDenied bool,
	log logger.Logger,
) {
	store := statestore.New(xdg.StateDir(), statestore.WithLogger(log))
	tracker := session.NewTracker(store, cfg.Session, session.WithLogger(log))

	if err := tracker.Load(); err != nil {
		log.Error("session load failed", "error", err)

		return
	}

	tracker.Record(hookCtx, wasDenied)

	if err := tracker.Save(); err != nil {
		log.Error("session save failed", "error", err)
	}
}

// playCue plays the audio cue for this event, bounded by the playback
// timeout. Denied operations get the blocked cue regardless of the
// command category.
func playCue(
	ctx context.Context,
	cfg *config.Config,
	hookCtx *hook.Context,
	response *hookresponse.HookResponse,
	log logger.Logger,
) {
	key := audio.SelectCue(hookCtx)
	if response.IsDeny() {
		key = audio.CueBlocked
	}

	if key == "" {
		return
	}

	store := statestore.New(xdg.StateDir(), statestore.WithLogger(log))
	limiter := cooldown.NewLimiter(store, cooldown.WithLogger(log))

	if err := limiter.Load(); err != nil {
		log.Error("cooldown load failed", "error", err)
	}

	player := audio.NewPlayer(cfg.Audio, xdg.AudioDir(), limiter, log)

	// The process is short-lived, so "fire-and-forget" still waits for
	// the bounded playback before exiting; the decision was already
	// written to stdout.
	select {
	case <-player.PlayAsync(ctx, key):
	case <-time.After(player.Timeout()):
	}

	if err := limiter.Save(); err != nil {
		log.Error("cooldown save failed", "error", err)
	}
}
