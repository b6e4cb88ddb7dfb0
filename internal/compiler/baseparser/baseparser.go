// Package baseparser provides the token-cursor primitives shared by the
// header parser and the Gherkin parser: peek/advance/check/match/consume,
// scan recovery, and error reporting with source-line context.
package baseparser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/btouchard/ghtc/internal/compiler/errors"
	"github.com/btouchard/ghtc/internal/compiler/token"
)

// ParseError is raised by Error and caught by a caller's recovery policy
// (§7). Line and Context echo what Error already printed, so a recovery
// site can build a structured errors.ScenarioError without re-parsing the
// message string.
type ParseError struct {
	Message string
	Line    int
	Context string
}

func (e *ParseError) Error() string { return e.Message }

// ContextFunc renders the name of whatever the parser is currently inside
// (a class name, a scenario name) for use in error messages. Parsers set
// this so Cursor.Error doesn't need to know about their domain state.
type ContextFunc func() string

// Cursor is a token-slice cursor with the primitives named in §4.B.
type Cursor struct {
	Tokens  []token.Token
	i       int
	context ContextFunc
	out     io.Writer
}

// NewCursor wraps a token slice. ctx may be nil, in which case Error omits
// the contextual name. Errors print to os.Stderr; use NewCursorTo in tests
// that need to capture the diagnostic instead.
func NewCursor(tokens []token.Token, ctx ContextFunc) *Cursor {
	return NewCursorTo(tokens, ctx, os.Stderr)
}

// NewCursorTo wraps a token slice, sending Error's stderr-style diagnostic
// to out instead of os.Stderr.
func NewCursorTo(tokens []token.Token, ctx ContextFunc, out io.Writer) *Cursor {
	return &Cursor{Tokens: tokens, context: ctx, out: out}
}

// Peek returns the token at the cursor without consuming it.
func (c *Cursor) Peek() token.Token {
	if c.i >= len(c.Tokens) {
		c.i = len(c.Tokens) - 1
	}
	return c.Tokens[c.i]
}

// Advance consumes and returns the current token.
func (c *Cursor) Advance() token.Token {
	tok := c.Peek()
	c.i++
	return tok
}

// Check reports whether the current token has the given kind, without
// consuming it.
func (c *Cursor) Check(kind token.Type) bool {
	return c.Peek().Type == kind
}

// Match advances and returns true if the current token has the given kind;
// otherwise it leaves the cursor untouched and returns false.
func (c *Cursor) Match(kind token.Type) bool {
	if c.Check(kind) {
		c.Advance()
		return true
	}
	return false
}

// Consume advances past a token of the given kind and returns it, or raises
// a ParseError with msg. On a mismatch the offending token is still
// consumed before the error is raised, matching the source's
// advance-even-on-mismatch behaviour so callers keep making forward
// progress during recovery.
func (c *Cursor) Consume(kind token.Type, msg string) token.Token {
	if c.Match(kind) {
		return c.Tokens[c.i-1]
	}
	c.Advance()
	c.Error(msg)
	return c.Tokens[c.i-1]
}

// ReadName expects a STRING token (the tail-of-line title captured after
// Feature:/Scenario:/Scenario Outline:).
func (c *Cursor) ReadName() string {
	return c.Consume(token.STRING, "Expect string.").Literal
}

// Identifier expects an IDENT token and returns its lexeme.
func (c *Cursor) Identifier() string {
	return c.Consume(token.IDENT, "Expect identifier.").Literal
}

// IsDone reports and consumes EOF.
func (c *Cursor) IsDone() bool {
	return c.Match(token.EOF)
}

// AdvanceUntil skips tokens until one of the given kind is consumed, or
// EOF is reached (returning false in that case).
func (c *Cursor) AdvanceUntil(kind token.Type) bool {
	for {
		if c.Match(token.EOF) {
			return false
		}
		if c.Match(kind) {
			return true
		}
		c.Advance()
	}
}

// Error renders the offending line with the current token bracketed,
// prints it to stderr the way base_parser.py's error() unconditionally
// print()s before raising (§7: "reported to stderr with line number,
// scenario name, offending-token context string, and the specific
// message"), and raises a ParseError. Panicking (rather than returning an
// error value) is the deliberate Go analogue of the source's
// exception-based non-local return: callers recover() at the
// scenario/class boundary named in §7 — the diagnostic is already on
// stderr by the time they do, so recovery never has to re-derive it.
func (c *Cursor) Error(msg string) {
	idx := c.i - 1
	if idx < 0 {
		idx = 0
	}
	line := c.Tokens[idx].Pos.Line

	ctx := ""
	if c.context != nil {
		ctx = c.context()
	}

	rendered := c.renderLine(line, idx)
	fullMsg := fmt.Sprintf("line %d (%s): %s\n%s", line, ctx, msg, rendered)
	out := c.out
	if out == nil {
		out = os.Stderr
	}
	errors.PrintScenario(out, fullMsg)
	panic(&ParseError{Message: fullMsg, Line: line, Context: ctx})
}

func (c *Cursor) renderLine(line, offending int) string {
	var b strings.Builder
	b.WriteString("    - ")
	first := true
	for i, tok := range c.Tokens {
		if tok.Pos.Line != line {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		if i == offending {
			b.WriteString("[" + tok.String() + "]")
		} else {
			b.WriteString("(" + tok.String() + ")")
		}
	}
	return b.String()
}
