package lang

import (
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/quse/lang/token"
)

// Error categories. Every sentinel below belongs to exactly one of them, so
// callers can test for a whole category with errors.Is.
var (
	ErrSyntax        = NewError("syntax error")
	ErrConfiguration = NewError("configuration error")
	ErrInternal      = NewError("internal invariant violation")
)

// Syntax errors.
var (
	ErrUnterminatedDeclaration = ErrSyntax.Class("unterminated declaration")
	ErrMisplacedAlias          = ErrSyntax.Class("alias must follow the final path segment")
	ErrWildcardNotSupported    = ErrSyntax.Class("wildcard imports are not supported")
	ErrIllegalSelfReference    = ErrSyntax.Class("illegal self reference")
	ErrNonNameTail             = ErrSyntax.Class("expected ident as last path segment")
	ErrExpectedSegment         = ErrSyntax.Class("expected path segment")
	ErrExpectedIdent           = ErrSyntax.Class("expected identifier")
	ErrUnbalancedDelimiter     = ErrSyntax.Class("unbalanced delimiter")
	ErrUnterminatedLiteral     = ErrSyntax.Class("unterminated literal")
	ErrUnexpectedCharacter     = ErrSyntax.Class("unexpected character")
	ErrTrailingTokens          = ErrSyntax.Class("unexpected tokens after declarations")
)

// Configuration errors.
var (
	ErrEditionWithoutBase = ErrConfiguration.Class("edition prelude requires the core or std prelude")
	ErrInvalidBundle      = ErrConfiguration.Class("invalid prelude bundle")
	ErrInvalidSeed        = ErrConfiguration.Class("invalid namespace seed")
)

// Other errors.
var (
	ErrReadInput    = NewError("failed to read input")
	ErrInvalidIdent = NewError("invalid identifier")
)

// Error represents an error with optional structured logging attributes and,
// for syntax errors, the location and spelling of the offending token.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg      string
	err      error       // Wrapped error (for errors.Unwrap)
	origin   *Error      // Sentinel this error was derived from
	class    *Error      // Category the sentinel belongs to
	attrs    []slog.Attr // Attributes for structured logging
	expected []string
	found    string
	pos      token.Pos
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Class creates a new sentinel Error that belongs to the receiver's category:
// errors.Is(child, parent) reports true for it and everything derived from
// it.
func (e *Error) Class(msg string) *Error {
	return &Error{msg: msg, class: e.sentinel()}
}

// WrapError wraps a standard error into an Error.
// If err already is (or wraps) an *Error, that Error is returned.
func WrapError(err error) *Error {
	var ee *Error
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

func (e *Error) sentinel() *Error {
	if e.origin != nil {
		return e.origin
	}

	return e
}

// derive returns a copy of e that remembers its sentinel.
func (e *Error) derive() *Error {
	dup := *e
	dup.origin = e.sentinel()

	return &dup
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message from whichever parts are set:
	//
	//   <msg> at <pos>: expected one of <expected>, found <found>: <err>
	var sb strings.Builder

	sb.WriteString(e.msg)

	if e.pos.IsValid() {
		sb.WriteString(" at ")
		sb.WriteString(e.pos.String())
	}

	if detail := e.detail(); detail != "" {
		if sb.Len() > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(detail)
	}

	if e.err != nil {
		if sb.Len() > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(e.err.Error())
	}

	return sb.String()
}

func (e *Error) detail() string {
	var part []string

	switch len(e.expected) {
	case 0:
	case 1:
		part = append(part, "expected "+e.expected[0])
	default:
		part = append(part, "expected one of: "+strings.Join(e.expected, ", "))
	}

	if e.found != "" {
		part = append(part, "found "+e.found)
	}

	return strings.Join(part, ", ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from, or the
// category of that sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	want := t.sentinel()

	for s := e.sentinel(); s != nil; s = s.class {
		if s == want {
			return true
		}
	}

	return false
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+5)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.pos.IsValid() {
		attrs = append(attrs,
			slog.Int("line", e.pos.Line),
			slog.Int("column", e.pos.Column),
		)
	}

	if e.found != "" {
		attrs = append(attrs, slog.String("found", e.found))
	}

	if len(e.expected) > 0 {
		attrs = append(attrs, slog.Any("expected", e.expected))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	dup := e.derive()
	dup.err = err

	return dup
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	dup := e.derive()
	dup.attrs = make([]slog.Attr, 0, len(e.attrs)+len(attrs))
	dup.attrs = append(append(dup.attrs, e.attrs...), attrs...)

	return dup
}

// WithPosition returns a copy of e located at pos.
func (e *Error) WithPosition(pos token.Pos) *Error {
	dup := e.derive()
	dup.pos = pos

	return dup
}

// At returns a copy of e located at tok and describing it as the token that
// was found.
func (e *Error) At(tok token.Token) *Error {
	dup := e.WithPosition(tok.Pos)
	dup.found = tok.Describe()

	return dup
}

// Expecting returns a copy of e listing what would have been accepted.
// Literal tokens should be quoted with [Quote].
func (e *Error) Expecting(expected ...string) *Error {
	dup := e.derive()
	dup.expected = slices.Clone(expected)

	return dup
}

// Found returns a copy of e with a free-form description of what was found.
func (e *Error) Found(desc string) *Error {
	dup := e.derive()
	dup.found = desc

	return dup
}

// Quote renders the literal token spelling s for an error message.
func Quote(s string) string { return "`" + s + "`" }

// Position returns the source location of the error, if any.
func (e *Error) Position() token.Pos { return e.pos }

// Expected returns the accepted token set recorded on the error, if any.
func (e *Error) Expected() []string { return e.expected }

// Snippet renders the line of source containing the error with a caret
// under the offending column. It returns "" if the error has no position or
// the position lies outside source.
func (e *Error) Snippet(source string) string {
	if !e.pos.IsValid() {
		return ""
	}

	lines := strings.Split(source, "\n")
	if e.pos.Line > len(lines) {
		return ""
	}

	var sb strings.Builder

	num := strconv.Itoa(e.pos.Line)

	sb.WriteString("  ")
	sb.WriteString(num)
	sb.WriteString(" | ")
	sb.WriteString(lines[e.pos.Line-1])
	sb.WriteByte('\n')

	// 2 leading spaces plus " | " separator.
	sb.WriteString(strings.Repeat(" ", len(num)+5))

	if e.pos.Column > 1 {
		sb.WriteString(strings.Repeat(" ", e.pos.Column-1))
	}

	sb.WriteString("^\n")

	return sb.String()
}
