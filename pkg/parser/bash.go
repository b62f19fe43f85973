package parser

import (
	"strings"

	"github.com/cockroachdb/errors"
	"mvdan.cc/sh/v3/syntax"
)

var (
	// ErrEmptyCommand is returned when trying to parse an empty command.
	ErrEmptyCommand = errors.New("empty command")
	// ErrParseFailed is returned when parsing fails.
	ErrParseFailed = errors.New("failed to parse command")
)

// ParseResult contains the results of parsing a Bash command.
type ParseResult struct {
	Commands   []Command   // All commands found, in source order
	FileWrites []FileWrite // All file write operations
}

// HasCommand checks if the parse result contains a command with the given name.
func (r *ParseResult) HasCommand(name string) bool {
	for _, cmd := range r.Commands {
		if cmd.Name == name {
			return true
		}
	}

	return false
}

// GetCommands returns all commands with the given name.
func (r *ParseResult) GetCommands(name string) []Command {
	result := make([]Command, 0)

	for _, cmd := range r.Commands {
		if cmd.Name == name {
			result = append(result, cmd)
		}
	}

	return result
}

// BashParser parses Bash commands into their constituent simple commands
// and file write operations. Commands inside chains, pipes, subshells, and
// command substitutions are all extracted.
type BashParser struct {
	parser *syntax.Parser
}

// NewBashParser creates a new BashParser instance.
func NewBashParser() *BashParser {
	return &BashParser{
		parser: syntax.NewParser(),
	}
}

// Parse parses a Bash command string and extracts all commands and operations.
func (p *BashParser) Parse(command string) (*ParseResult, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil, ErrEmptyCommand
	}

	file, err := p.parser.Parse(strings.NewReader(command), "")
	if err != nil {
		return nil, errors.Wrap(ErrParseFailed, err.Error())
	}

	walker := &astWalker{
		commands:   make([]Command, 0),
		fileWrites: make([]FileWrite, 0),
	}

	syntax.Walk(file, walker.visit)

	return &ParseResult{
		Commands:   walker.commands,
		FileWrites: walker.fileWrites,
	}, nil
}

// astWalker walks the AST and extracts commands and file operations.
type astWalker struct {
	commands   []Command
	fileWrites []FileWrite
}

// visit is called for each node in the AST. Subshells and command
// substitutions are descended into by syntax.Walk itself.
func (w *astWalker) visit(node syntax.Node) bool {
	switch n := node.(type) {
	case *syntax.CallExpr:
		w.extractCommand(n)
	case *syntax.Stmt:
		w.extractRedirect(n)
	}

	return true
}

// extractCommand extracts a simple command from a CallExpr node.
func (w *astWalker) extractCommand(call *syntax.CallExpr) {
	if len(call.Args) == 0 {
		return
	}

	name := wordToString(call.Args[0])
	if name == "" {
		return
	}

	cmd := Command{
		Name: name,
		Args: wordsToStrings(call.Args[1:]),
		Location: Location{
			Line:   call.Pos().Line(),
			Column: call.Pos().Col(),
		},
	}

	w.commands = append(w.commands, cmd)
	w.extractFileWriteCommand(cmd)
}

// extractRedirect extracts file write operations from redirections.
func (w *astWalker) extractRedirect(stmt *syntax.Stmt) {
	if stmt.Redirs == nil {
		return
	}

	var (
		outputPath     string
		outputOp       WriteOp
		outputLoc      Location
		heredocContent string
		hasOutput      bool
		hasHeredoc     bool
	)

	for _, redir := range stmt.Redirs {
		switch redir.Op {
		case syntax.RdrOut, syntax.AppOut:
			path := wordToString(redir.Word)
			if path == "" {
				continue
			}

			outputPath = path

			outputOp = WriteOpRedirect
			if redir.Op == syntax.AppOut {
				outputOp = WriteOpAppend
			}

			outputLoc = Location{
				Line:   redir.Pos().Line(),
				Column: redir.Pos().Col(),
			}
			hasOutput = true

		case syntax.Hdoc, syntax.DashHdoc:
			if redir.Hdoc != nil {
				heredocContent = wordToString(redir.Hdoc)
			}

			hasHeredoc = true
		}
	}

	if !hasOutput {
		// A heredoc without output redirection feeds a command's stdin
		// and writes no file.
		return
	}

	fw := FileWrite{
		Path:      outputPath,
		Operation: outputOp,
		Location:  outputLoc,
	}

	if hasHeredoc {
		fw.Operation = WriteOpHeredoc
		fw.Content = heredocContent
	}

	w.fileWrites = append(w.fileWrites, fw)
}

// extractFileWriteCommand detects file write commands (tee, cp, mv).
func (w *astWalker) extractFileWriteCommand(cmd Command) {
	op, targets := fileWriteOperation(cmd)
	if op == WriteOpNone {
		return
	}

	for _, target := range targets {
		w.fileWrites = append(w.fileWrites, FileWrite{
			Path:      target,
			Operation: op,
			Source:    cmd.Name,
			Location:  cmd.Location,
		})
	}
}

// fileWriteOperation determines whether a command writes to files.
func fileWriteOperation(cmd Command) (WriteOp, []string) {
	switch cmd.Name {
	case "tee":
		// tee writes to every non-flag argument
		targets := make([]string, 0, len(cmd.Args))

		for _, arg := range cmd.Args {
			if len(arg) > 0 && arg[0] != '-' {
				targets = append(targets, arg)
			}
		}

		return WriteOpTee, targets

	case "cp":
		if len(cmd.Args) >= 2 { //nolint:mnd // source + dest minimum
			return WriteOpCopy, []string{cmd.Args[len(cmd.Args)-1]}
		}

	case "mv":
		if len(cmd.Args) >= 2 { //nolint:mnd // source + dest minimum
			return WriteOpMove, []string{cmd.Args[len(cmd.Args)-1]}
		}
	}

	return WriteOpNone, nil
}
