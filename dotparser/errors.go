package dotparser

import (
	"errors"
	"fmt"
)

// ErrSyntax is matched by every *SyntaxError via errors.Is.
var ErrSyntax = errors.New("syntax error")

// Position tracks a source location for error messages.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number, in bytes
	Offset int // 0-based byte offset into source
}

// positionAt converts a byte offset into a line/column position.
func positionAt(src string, offset int) Position {
	pos := Position{Line: 1, Column: 1, Offset: offset}
	for i := 0; i < offset && i < len(src); i++ {
		if src[i] == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}
	return pos
}

// ParseError is the base error type for all dotparser errors.
type ParseError struct {
	Message string
	Pos     Position
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("line %d, col %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error { return e.Cause }

// SyntaxError reports the point where no grammar alternative matched.
// Remaining is the unconsumed input starting at Pos.
type SyntaxError struct {
	ParseError
	Expected  string
	Got       string
	Remaining string
}

func (e *SyntaxError) Error() string {
	msg := fmt.Sprintf("expected %s, got %s", e.Expected, e.Got)
	if e.Message != "" {
		msg = e.Message + ": " + msg
	}
	if e.Pos.Line > 0 {
		return fmt.Sprintf("line %d, col %d: %s", e.Pos.Line, e.Pos.Column, msg)
	}
	return msg
}

func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }

// excerptLen bounds how much of the remaining input is echoed in Got.
const excerptLen = 16

func describeAt(src string, offset int) string {
	if offset >= len(src) {
		return "EOF"
	}
	rest := src[offset:]
	if len(rest) > excerptLen {
		return fmt.Sprintf("%q...", rest[:excerptLen])
	}
	return fmt.Sprintf("%q", rest)
}

// further returns whichever error got deeper into the input. On a tie the
// second one wins, since callers pass the more specific error second.
func further(a, b *SyntaxError) *SyntaxError {
	if a == nil {
		return b
	}
	if b == nil || a.Pos.Offset > b.Pos.Offset {
		return a
	}
	return b
}
