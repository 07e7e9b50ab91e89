package eval

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/ardnew/reo/lang"
)

// Session runs a sequence of programs against one global scope and one
// function table, as an interactive prompt does. A Session is not safe for
// concurrent use.
type Session struct {
	m *machine
}

// NewSession returns a session with an empty global scope.
func NewSession(opts ...Option) *Session {
	return &Session{m: &machine{
		cfg:     makeConfig(opts...),
		globals: NewScope(),
		funcs:   make(funcTable),
	}}
}

// Eval parses src and runs it. See [Session.EvalProgram].
func (s *Session) Eval(ctx context.Context, src string, opts ...lang.Option) (Value, error) {
	prog, err := lang.Parse(ctx, src, opts...)
	if err != nil {
		return Nothing, err
	}

	return s.EvalProgram(ctx, prog)
}

// EvalProgram binds prog against the functions the session already knows,
// then executes its statements in the global scope. If the last statement
// is an expression statement, its value is returned.
//
// The functions of prog are kept only if binding succeeds. Variables
// defined before a fault remain defined.
func (s *Session) EvalProgram(ctx context.Context, prog *lang.Program) (Value, error) {
	logger := s.m.cfg.logger

	funcs, err := bind(ctx, logger, prog, s.m.funcs)
	if err != nil {
		return Nothing, err
	}

	s.m.funcs = funcs

	logger.TraceContext(ctx, "run",
		slog.Int("statement_count", len(prog.Stmts)),
		slog.Int("global_count", s.m.globals.Len()),
	)

	top := &frame{scope: s.m.globals}
	stmts := prog.Stmts

	var last *lang.ExprStmt
	if n := len(stmts); n > 0 {
		if es, ok := stmts[n-1].(*lang.ExprStmt); ok {
			last, stmts = es, stmts[:n-1]
		}
	}

	if _, err := s.m.execBlock(ctx, top, stmts); err != nil {
		logger.TraceContext(ctx, "stopped", slog.Any("error", err))

		return Nothing, err
	}

	if last == nil {
		logger.TraceContext(ctx, "finished")

		return Nothing, nil
	}

	v, err := s.m.eval(ctx, top, last.X)

	logger.TraceContext(ctx, "finished", slog.Bool("has_value", err == nil))

	return v, err
}

// Check binds prog against the functions the session knows without running
// it or keeping its functions. The error is a [BindErrors] when not nil.
func (s *Session) Check(ctx context.Context, prog *lang.Program) error {
	_, err := bind(ctx, s.m.cfg.logger, prog, s.m.funcs)

	return err
}

// Lookup returns the value of a global variable.
func (s *Session) Lookup(name string) (Value, bool) { return s.m.globals.Lookup(name) }

// Define binds a global variable.
func (s *Session) Define(name string, v Value) { s.m.globals.Define(name, v) }

// Globals returns the global scope.
func (s *Session) Globals() *Scope { return s.m.globals }

// Functions returns the user functions known to the session sorted by name.
func (s *Session) Functions() []*lang.FuncDecl {
	return slices.SortedFunc(maps.Values(s.m.funcs), func(a, b *lang.FuncDecl) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
}

// Function returns the user function named name.
func (s *Session) Function(name string) (*lang.FuncDecl, bool) { return s.m.funcs.lookup(name) }

// Signatures returns the signatures of every callable, builtins first.
// User functions shadowed by a builtin are omitted.
func (s *Session) Signatures() []Signature {
	sigs := Builtins()

	for _, f := range s.Functions() {
		if !IsBuiltin(f.Name) {
			sigs = append(sigs, userSignature(f))
		}
	}

	return sigs
}

// Signature returns the signature of the callable named name.
func (s *Session) Signature(name string) (Signature, bool) {
	if b, ok := lookupBuiltin(name); ok {
		return b.sig, true
	}

	if f, ok := s.m.funcs.lookup(name); ok {
		return userSignature(f), true
	}

	return Signature{}, false
}
