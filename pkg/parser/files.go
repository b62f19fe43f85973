package parser

import "fmt"

// WriteOp represents the type of file write operation.
type WriteOp int

const (
	// WriteOpNone indicates no file write operation.
	WriteOpNone WriteOp = iota
	// WriteOpRedirect indicates output redirection (>).
	WriteOpRedirect
	// WriteOpAppend indicates append redirection (>>).
	WriteOpAppend
	// WriteOpTee indicates the tee command.
	WriteOpTee
	// WriteOpCopy indicates cp.
	WriteOpCopy
	// WriteOpMove indicates mv.
	WriteOpMove
	// WriteOpHeredoc indicates a heredoc (<<) combined with redirection.
	WriteOpHeredoc
)

// String returns string representation of WriteOp.
func (w WriteOp) String() string {
	switch w {
	case WriteOpNone:
		return "None"
	case WriteOpRedirect:
		return "Redirect"
	case WriteOpAppend:
		return "Append"
	case WriteOpTee:
		return "Tee"
	case WriteOpCopy:
		return "Copy"
	case WriteOpMove:
		return "Move"
	case WriteOpHeredoc:
		return "Heredoc"
	default:
		return "Unknown"
	}
}

// FileWrite represents a file write operation detected in the command.
type FileWrite struct {
	Path      string   // Target file path
	Operation WriteOp  // Type of write operation
	Source    string   // Source command (for cp, mv, tee)
	Content   string   // Content for heredoc operations
	Location  Location // Position in source
}

// String returns a string representation of the file write operation.
func (f *FileWrite) String() string {
	return fmt.Sprintf("%s %s -> %s", f.Operation, f.Source, f.Path)
}
