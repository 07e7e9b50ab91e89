package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Sentinel errors. Use [errors.Is] to test the reason of a [LexError] or
// [ParseError].
var (
	ErrReadInput         = NewError("read input")
	ErrUnexpectedChar    = NewError("unexpected character")
	ErrUndoubledOperator = NewError("operator must be doubled")
	ErrBareAssign        = NewError("single '=' not allowed; use 'let ... be' or 'set ... to'")
	ErrUnexpectedToken   = NewError("unexpected token")
	ErrCallTarget        = NewError("only a name can be called")
	ErrAssignmentTarget  = NewError("unsupported assignment target")
	ErrMaxDepth          = NewError("maximum nesting depth exceeded")
)

// Error is an error with optional structured logging attributes.
// It implements both error and [slog.LogValuer].
type Error struct {
	base  *Error
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError returns err as an *Error, wrapping it if necessary.
func WrapError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return &Error{err: err}
}

func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && (e == t || (e.base != nil && e.base == t))
}

// LogValue implements [slog.LogValuer].
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.Any("cause", e.err))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

func (e *Error) root() *Error {
	if e.base != nil {
		return e.base
	}

	return e
}

// Wrap returns a new Error derived from e that wraps err.
func (e *Error) Wrap(err error) *Error {
	return &Error{base: e.root(), msg: e.msg, err: err, attrs: e.attrs}
}

// With returns a new Error derived from e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	return &Error{
		base:  e.root(),
		msg:   e.msg,
		err:   e.err,
		attrs: append(e.attrs[:len(e.attrs):len(e.attrs)], attrs...),
	}
}

// LexError reports a character the lexer cannot accept.
type LexError struct {
	Err    *Error
	Offset int
	Char   rune
}

func (e *LexError) Error() string {
	return "lex error at offset " + strconv.Itoa(e.Offset) + ": " +
		e.Err.Error() + " " + strconv.QuoteRune(e.Char)
}

func (e *LexError) Unwrap() error { return e.Err }

// Pos returns the source offset of the error.
func (e *LexError) Pos() int { return e.Offset }

// LogValue implements [slog.LogValuer].
func (e *LexError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", e.Err.Error()),
		slog.Int("offset", e.Offset),
		slog.String("char", string(e.Char)),
	)
}

// ParseError reports a token the parser did not expect.
type ParseError struct {
	Err      *Error
	Expected []TokenKind
	Found    Token
	Offset   int
}

func (e *ParseError) Error() string {
	var b strings.Builder

	b.WriteString("parse error at offset ")
	b.WriteString(strconv.Itoa(e.Offset))
	b.WriteString(": ")

	if e.Err != ErrUnexpectedToken {
		b.WriteString(e.Err.Error())
		b.WriteString(": ")
	}

	if len(e.Expected) > 0 {
		b.WriteString("expected ")
		b.WriteString(describeKinds(e.Expected))
		b.WriteString(", ")
	}

	b.WriteString("found ")
	b.WriteString(e.Found.String())

	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// Pos returns the source offset of the error.
func (e *ParseError) Pos() int { return e.Offset }

// LogValue implements [slog.LogValuer].
func (e *ParseError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("error", e.Err.Error()),
		slog.Int("offset", e.Offset),
		slog.String("found", e.Found.Kind.String()),
	}

	if len(e.Expected) > 0 {
		attrs = append(attrs, slog.String("expected", describeKinds(e.Expected)))
	}

	return slog.GroupValue(attrs...)
}

// AssignmentTargetError reports a set, increase, or decrease statement
// whose target is neither a name nor a single index into a name.
type AssignmentTargetError struct {
	ParseError
}

func (e *AssignmentTargetError) Unwrap() error { return &e.ParseError }

// exprStart lists the kinds that can begin an expression.
var exprStart = []TokenKind{
	TokenNumber, TokenText, TokenTrue, TokenFalse, TokenIdent,
	TokenLParen, TokenLBracket, TokenNot, TokenMinus, TokenPlus,
}

func describeKinds(kinds []TokenKind) string {
	if len(kinds) == len(exprStart) && kinds[0] == exprStart[0] {
		return "expression"
	}

	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}

	switch len(names) {
	case 1:
		return names[0]
	case 2:
		return names[0] + " or " + names[1]
	default:
		return "one of " + strings.Join(names, ", ")
	}
}

// Position returns the 1-based line and column (in characters) of a byte
// offset within source.
func Position(source string, offset int) (line, col int) {
	offset = max(0, min(offset, len(source)))
	line = 1 + strings.Count(source[:offset], "\n")
	start := strings.LastIndexByte(source[:offset], '\n') + 1
	col = 1 + utf8.RuneCountInString(source[start:offset])

	return line, col
}

// Describe renders err with the line and column of its source offset and a
// caret under the offending character. Errors that do not carry an offset
// (any value with a Pos() int method) are rendered unchanged.
func Describe(err error, source string) string {
	var p interface{ Pos() int }
	if !errors.As(err, &p) {
		return err.Error()
	}

	line, col := Position(source, p.Pos())

	lines := strings.Split(source, "\n")

	var b strings.Builder

	b.WriteString(err.Error())
	b.WriteString("\n  at line ")
	b.WriteString(strconv.Itoa(line))
	b.WriteString(", column ")
	b.WriteString(strconv.Itoa(col))
	b.WriteString(":\n")

	if line <= len(lines) {
		num := strconv.Itoa(line)
		text := strings.TrimRight(lines[line-1], "\r")

		b.WriteString("  " + num + " | " + text + "\n")
		b.WriteString(strings.Repeat(" ", len(num)+5+col-1) + "^\n")
	}

	return b.String()
}
