// Package logger provides structured logging for hook invocations.
// Logs go to a file only: stdout belongs to the response emitter.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Logger provides structured logging interface.
type Logger interface {
	// Debug logs debug-level messages with optional key-value pairs.
	Debug(msg string, keysAndValues ...any)

	// Info logs info-level messages with optional key-value pairs.
	Info(msg string, keysAndValues ...any)

	// Error logs error-level messages with optional key-value pairs.
	Error(msg string, keysAndValues ...any)

	// With returns a new logger with additional key-value pairs.
	With(keysAndValues ...any) Logger
}

// Level is an ordered verbosity threshold. A FileLogger emits records
// at or above its configured level.
type Level int

const (
	// LevelDebug emits everything, enabled by trace mode.
	LevelDebug Level = iota

	// LevelInfo emits info and error records, enabled by debug mode.
	LevelInfo

	// LevelError emits errors only. This is the default: hook
	// invocations are frequent and the log file is append-only.
	LevelError

	// LogFilePermissions defines the file permissions for log files (owner read/write only).
	LogFilePermissions = 0o600
)

// String returns the record tag for the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	default:
		return "ERROR"
	}
}

// levelFor maps the CLI verbosity flags to a threshold. Trace wins
// over debug when both are set.
func levelFor(debugMode, traceMode bool) Level {
	switch {
	case traceMode:
		return LevelDebug
	case debugMode:
		return LevelInfo
	default:
		return LevelError
	}
}

// FileLogger implements Logger with file output only.
type FileLogger struct {
	file     io.Writer
	baseKVs  []any
	minLevel Level
	now      func() time.Time
}

// NewFileLogger creates a new FileLogger that appends to a log file.
func NewFileLogger(filePath string, debugMode, traceMode bool) (*FileLogger, error) {
	//nolint:gosec // File path is controlled and within the state directory
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermissions)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open log file")
	}

	return NewFileLoggerWithWriter(file, debugMode, traceMode), nil
}

// NewFileLoggerWithWriter creates a new FileLogger with a custom writer.
func NewFileLoggerWithWriter(file io.Writer, debugMode, traceMode bool) *FileLogger {
	return &FileLogger{
		file:     file,
		minLevel: levelFor(debugMode, traceMode),
		now:      time.Now,
	}
}

// Debug logs debug-level messages.
func (l *FileLogger) Debug(msg string, keysAndValues ...any) {
	l.log(LevelDebug, msg, keysAndValues...)
}

// Info logs info-level messages.
func (l *FileLogger) Info(msg string, keysAndValues ...any) {
	l.log(LevelInfo, msg, keysAndValues...)
}

// Error logs error-level messages.
func (l *FileLogger) Error(msg string, keysAndValues ...any) {
	l.log(LevelError, msg, keysAndValues...)
}

// With returns a new logger with additional base key-value pairs.
//
//nolint:ireturn // With is intended to return an interface for chaining
func (l *FileLogger) With(keysAndValues ...any) Logger {
	newKVs := make([]any, len(l.baseKVs)+len(keysAndValues))
	copy(newKVs, l.baseKVs)
	copy(newKVs[len(l.baseKVs):], keysAndValues)

	return &FileLogger{
		file:     l.file,
		baseKVs:  newKVs,
		minLevel: l.minLevel,
		now:      l.now,
	}
}

// log writes a log entry to the file only (never stdout/stderr).
func (l *FileLogger) log(level Level, msg string, keysAndValues ...any) {
	if level < l.minLevel || l.file == nil {
		return
	}

	var builder strings.Builder

	builder.WriteString(l.now().UTC().Format("2006-01-02T15:04:05.000Z"))
	builder.WriteString(" ")
	builder.WriteString(level.String())
	builder.WriteString(" ")
	builder.WriteString(msg)

	writeKeyValues(&builder, l.baseKVs)
	writeKeyValues(&builder, keysAndValues)

	builder.WriteString("\n")

	_, _ = io.WriteString(l.file, builder.String())
}

// writeKeyValues formats key-value pairs in logfmt and appends them to
// builder. A dangling key with no value is emitted as key=!MISSING so
// a malformed call site is visible in the log instead of dropped.
func writeKeyValues(builder *strings.Builder, kvs []any) {
	for i := 0; i < len(kvs); i += 2 {
		builder.WriteString(" ")
		builder.WriteString(fmt.Sprintf("%v", kvs[i]))
		builder.WriteString("=")

		if i+1 >= len(kvs) {
			builder.WriteString("!MISSING")

			return
		}

		builder.WriteString(formatValue(kvs[i+1]))
	}
}

// formatValue renders a logfmt value, quoting when it contains
// whitespace or quotes.
func formatValue(v any) string {
	var value string

	switch t := v.(type) {
	case nil:
		return "<nil>"
	case error:
		value = t.Error()
	case time.Duration:
		value = t.String()
	default:
		value = fmt.Sprintf("%v", t)
	}

	if strings.ContainsAny(value, " \t\n\"") {
		return quote(value)
	}

	return value
}

// quote escapes and quotes a string value.
func quote(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")

	return "\"" + s + "\""
}

// NoOpLogger is a logger that does nothing.
type NoOpLogger struct{}

// NewNoOpLogger creates a new NoOpLogger.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

// Debug does nothing.
func (*NoOpLogger) Debug(string, ...any) {}

// Info does nothing.
func (*NoOpLogger) Info(string, ...any) {}

// Error does nothing.
func (*NoOpLogger) Error(string, ...any) {}

// With returns the same NoOpLogger.
//
//nolint:ireturn // With is intended to return an interface for chaining
func (n *NoOpLogger) With(...any) Logger {
	return n
}
