// Package errors implements the two-tier error model of §7: scenario-local
// parse errors that the compiler recovers from and keeps going, and fatal
// errors that abort the run.
package errors

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Position represents a location in source code.
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// CompileError is a single diagnostic with source position and the phase
// that produced it (e.g. "source", "gherkin", "ledger").
type CompileError struct {
	Pos     Position
	Message string
	Phase   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Phase, e.Pos, e.Message)
}

// ScenarioError is a recoverable, scenario-local parse error (§7): unknown
// identifier, unsupported operator, type mismatch, missing keyword. The
// caller's recovery policy replaces the scenario with an ast.ReportErr and
// continues compiling the rest of the feature.
type ScenarioError struct {
	Scenario string
	*CompileError
}

// FatalError is an unrecoverable failure: I/O failure, an unwritable
// output path, or a header-parse failure that escaped the per-class
// recovery loop. The process exits non-zero on a FatalError.
type FatalError struct {
	*CompileError
}

// ErrorList collects multiple compilation errors (generally ScenarioErrors
// accumulated across a whole compile run, for a final diagnostic report).
type ErrorList struct {
	Errors []*CompileError
}

func NewErrorList() *ErrorList {
	return &ErrorList{}
}

func (el *ErrorList) Add(pos Position, phase, message string) {
	el.Errors = append(el.Errors, &CompileError{Pos: pos, Message: message, Phase: phase})
}

func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

func (el *ErrorList) String() string {
	s := ""
	for _, e := range el.Errors {
		s += e.Error() + "\n"
	}
	return s
}

var (
	errorColor = color.New(color.FgRed, color.Bold)
)

// PrintScenario writes a ScenarioError to stderr-style output in the
// bracketed-line-context form the base parser renders, colorized so a
// terminal reader can spot recoverable failures in a long compile log.
func PrintScenario(w io.Writer, msg string) {
	errorColor.Fprintln(w, msg)
}
