package eval

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Runtime faults.
var (
	ErrUndefinedVariable = NewError("undefined variable")
	ErrType              = NewError("type error")
	ErrIndex             = NewError("index out of range")
	ErrMaxDepth          = NewError("maximum call depth exceeded")
	ErrHost              = NewError("host operation failed")
)

// Binding faults, detected before any statement runs.
var (
	ErrUnknownFunction       = NewError("unknown function")
	ErrArity                 = NewError("wrong number of arguments")
	ErrReturnOutsideFunction = NewError("return outside a function")
	ErrDuplicateFunction     = NewError("function already declared")
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

// attrString returns the string value of the first attribute named key.
func (e *Error) attrString(key string) string {
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Value.String()
		}
	}

	return ""
}

// RuntimeError is a fault raised while executing a program. Detail names
// the subject of the fault, such as the undefined identifier.
type RuntimeError struct {
	Err    *Error
	Detail string
	Offset int
}

func (e *RuntimeError) Error() string {
	msg := "runtime error at offset " + strconv.Itoa(e.Offset) + ": " + e.Err.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}

	return msg
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// Pos returns the source offset of the node that faulted.
func (e *RuntimeError) Pos() int { return e.Offset }

// LogValue implements [slog.LogValuer].
func (e *RuntimeError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("error", e.Err),
		slog.Int("offset", e.Offset),
	)
}

// Name returns the identifier involved in the fault, if any.
func (e *RuntimeError) Name() string { return e.Err.attrString("name") }

// BindError is a fault found while resolving calls before execution.
type BindError struct {
	Err    *Error
	Detail string
	Offset int
}

func (e *BindError) Error() string {
	msg := "bind error at offset " + strconv.Itoa(e.Offset) + ": " + e.Err.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}

	return msg
}

func (e *BindError) Unwrap() error { return e.Err }

// Pos returns the source offset of the offending node.
func (e *BindError) Pos() int { return e.Offset }

// LogValue implements [slog.LogValuer].
func (e *BindError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("error", e.Err),
		slog.Int("offset", e.Offset),
	)
}

// BindErrors collects every binding fault of a program in source order.
type BindErrors []*BindError

func (errs BindErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}

	return strings.Join(msgs, "\n")
}

// Unwrap returns the individual faults.
func (errs BindErrors) Unwrap() []error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}

	return out
}

func fault(reason *Error, at int, detail string, attrs ...slog.Attr) *RuntimeError {
	return &RuntimeError{Err: reason.With(attrs...), Detail: detail, Offset: at}
}

// AsRuntime reports whether err is a *RuntimeError and returns it.
func AsRuntime(err error) (*RuntimeError, bool) {
	var re *RuntimeError
	ok := errors.As(err, &re)

	return re, ok
}
