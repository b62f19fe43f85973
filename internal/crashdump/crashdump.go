// Package crashdump records diagnostic dumps for panics recovered at
// the top level, so a fault that degraded to "allow" can still be
// investigated afterwards.
package crashdump

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/smykla-labs/hookgate/pkg/hook"
)

const (
	// FilePerm is the file permission for crash dump files.
	FilePerm fs.FileMode = 0o600

	// DirPerm is the file permission for the dump directory.
	DirPerm fs.FileMode = 0o700

	// FileExtension is the extension for crash dump files.
	FileExtension = ".json"

	// MaxDumps caps how many dumps are kept; oldest are pruned first.
	MaxDumps = 20

	shortIDLength = 8

	panicNilStr = "panic(nil)"
)

// ErrWriteFailed is returned when writing a crash dump fails.
var ErrWriteFailed = errors.New("failed to write crash dump")

// Info is the JSON document written for one recovered panic.
type Info struct {
	ID         string       `json:"id"`
	Timestamp  time.Time    `json:"timestamp"`
	Version    string       `json:"version"`
	PanicValue string       `json:"panic_value"`
	StackTrace string       `json:"stack_trace"`
	Runtime    RuntimeInfo  `json:"runtime"`
	Context    *ContextInfo `json:"context,omitempty"`
}

// RuntimeInfo captures the Go runtime state at crash time.
type RuntimeInfo struct {
	GOOS         string `json:"goos"`
	GOARCH       string `json:"goarch"`
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
}

// ContextInfo is the subset of the hook event safe to persist. Prompt
// text is deliberately excluded.
type ContextInfo struct {
	EventType string `json:"event_type,omitempty"`
	ToolName  string `json:"tool_name,omitempty"`
	Command   string `json:"command,omitempty"`
	FilePath  string `json:"file_path,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// Collect gathers crash information from a recovered panic. hookCtx
// may be nil when the crash happened before parsing.
func Collect(recovered any, hookCtx *hook.Context, version string) *Info {
	now := time.Now()
	panicValue := formatPanicValue(recovered)

	info := &Info{
		ID:         generateID(now, panicValue),
		Timestamp:  now,
		Version:    version,
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Runtime: RuntimeInfo{
			GOOS:         runtime.GOOS,
			GOARCH:       runtime.GOARCH,
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
		},
	}

	if hookCtx != nil {
		info.Context = &ContextInfo{
			EventType: string(hookCtx.EventType),
			ToolName:  string(hookCtx.ToolName),
			Command:   hookCtx.GetCommand(),
			FilePath:  hookCtx.GetFilePath(),
			SessionID: hookCtx.SessionID,
		}
	}

	return info
}

// formatPanicValue converts a recovered panic value to a string.
// Handles Go 1.21+ PanicNilError, the error interface, and the default
// case.
func formatPanicValue(v any) string {
	if v == nil {
		return panicNilStr
	}

	type panicNilError interface {
		error
		RuntimeError()
	}

	if _, ok := v.(panicNilError); ok {
		return panicNilStr
	}

	if err, ok := v.(error); ok {
		return err.Error()
	}

	return fmt.Sprintf("%v", v)
}

// generateID builds a dump ID. Format: crash-{timestamp}-{shortHash}.
func generateID(timestamp time.Time, panicValue string) string {
	data := fmt.Sprintf("%d-%s", timestamp.UnixNano(), panicValue)
	hash := sha256.Sum256([]byte(data))
	shortHash := hex.EncodeToString(hash[:])[:shortIDLength]

	return fmt.Sprintf("crash-%s-%s", timestamp.Format("20060102T150405"), shortHash)
}

// Writer writes crash dumps to a directory.
type Writer struct {
	dir string
}

// NewWriter creates a Writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Write persists the dump and returns the file path. Older dumps
// beyond MaxDumps are pruned.
func (w *Writer) Write(info *Info) (string, error) {
	if info == nil {
		return "", errors.Wrap(ErrWriteFailed, "crash info is nil")
	}

	if err := os.MkdirAll(w.dir, DirPerm); err != nil {
		return "", errors.Wrap(ErrWriteFailed, err.Error())
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return "", errors.Wrap(ErrWriteFailed, "failed to marshal crash info")
	}

	filePath := filepath.Join(w.dir, info.ID+FileExtension)
	tempPath := filePath + ".tmp"

	if err := os.WriteFile(tempPath, data, FilePerm); err != nil {
		return "", errors.Wrap(ErrWriteFailed, err.Error())
	}

	if err := os.Rename(tempPath, filePath); err != nil {
		_ = os.Remove(tempPath)

		return "", errors.Wrap(ErrWriteFailed, err.Error())
	}

	w.prune()

	return filePath, nil
}

// prune removes the oldest dumps beyond MaxDumps. Failures are ignored:
// pruning never blocks the dump that was just written.
func (w *Writer) prune() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return
	}

	var names []string

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, FileExtension) {
			continue
		}

		names = append(names, name)
	}

	if len(names) <= MaxDumps {
		return
	}

	// Dump IDs embed a sortable timestamp, so lexical order is
	// chronological order.
	sort.Strings(names)

	for _, name := range names[:len(names)-MaxDumps] {
		_ = os.Remove(filepath.Join(w.dir, name))
	}
}
