// Package audit appends one JSONL record per decision to a rotating log.
// Audit failures never affect the decision.
package audit

import (
	"encoding/json"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/smykla-labs/hookgate/pkg/config"
	"github.com/smykla-labs/hookgate/pkg/hook"
	"github.com/smykla-labs/hookgate/pkg/logger"
)

// Entry is one audit record. Fields are stable: downstream tooling
// greps and jq's this file.
type Entry struct {
	Timestamp string `json:"ts"`
	Event     string `json:"event"`
	Tool      string `json:"tool,omitempty"`
	Command   string `json:"command,omitempty"`
	FilePath  string `json:"file_path,omitempty"`
	Decision  string `json:"decision"`
	Reason    string `json:"reason,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// Writer appends entries to the audit log.
type Writer struct {
	out    io.WriteCloser
	logger logger.Logger
	now    func() time.Time
}

// Option configures the Writer.
type Option func(*Writer)

// WithTimeFunc sets a custom time function for testing.
func WithTimeFunc(fn func() time.Time) Option {
	return func(w *Writer) {
		if fn != nil {
			w.now = fn
		}
	}
}

// WithOutput replaces the rotating file with an arbitrary writer, for tests.
func WithOutput(out io.WriteCloser) Option {
	return func(w *Writer) {
		if out != nil {
			w.out = out
		}
	}
}

// NewWriter creates a Writer appending to path with rotation per cfg.
func NewWriter(path string, cfg *config.AuditConfig, log logger.Logger, opts ...Option) *Writer {
	w := &Writer{
		out: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    cfg.GetMaxSizeMB(),
			MaxAge:     cfg.GetMaxAgeDays(),
			MaxBackups: cfg.GetMaxBackups(),
			Compress:   true,
			LocalTime:  true,
		},
		logger: log,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Record appends one entry for the decision made on hookCtx.
// The entry is marshaled and written with a single Write call, so
// concurrent invocations interleave at line granularity only.
func (w *Writer) Record(hookCtx *hook.Context, decision, reason string) error {
	entry := Entry{
		Timestamp: w.now().UTC().Format(time.RFC3339),
		Event:     string(hookCtx.EventType),
		Tool:      string(hookCtx.ToolName),
		Command:   hookCtx.GetCommand(),
		FilePath:  hookCtx.GetFilePath(),
		Decision:  decision,
		Reason:    reason,
		SessionID: hookCtx.SessionID,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return errors.Wrap(err, "marshaling audit entry")
	}

	if _, err := w.out.Write(append(data, '\n')); err != nil {
		return errors.Wrap(err, "writing audit entry")
	}

	return nil
}

// Close releases the underlying log file.
func (w *Writer) Close() error {
	return w.out.Close()
}
