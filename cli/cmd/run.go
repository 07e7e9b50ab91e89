package cmd

import (
	"context"
	"log/slog"
	"maps"
	"os"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/ardnew/reo/eval"
	"github.com/ardnew/reo/lang"
	"github.com/ardnew/reo/log"
	"github.com/ardnew/reo/pkg"
)

// Run executes a script.
type Run struct {
	Script   string   `arg:"" default:"-" help:"Script file, script name on the search path, or '-' for stdin." name:"script"`
	Define   []string `help:"Define a global before the script runs, as NAME=EXPR (EXPR is an expr-lang expression)." placeholder:"NAME=EXPR" short:"D"`
	MaxDepth int      `default:"${maxDepth}" help:"Maximum depth of nested function calls (0 for no limit)."`
	NoCache  bool     `help:"Parse without the shared parse cache."`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, path, err := readScript(ctx, r.Script)
	if err != nil {
		return err
	}

	streams := streamsFrom(ctx)
	logger := log.Default()

	prog, err := parse(ctx, src, r.NoCache, lang.WithLogger(logger))
	if err != nil {
		return report(streams.Err, err, src, path)
	}

	in := streams.In
	if r.Script == stdinSource || r.Script == "" {
		in = nil
	}

	session := eval.NewSession(
		eval.WithHost(eval.NewStdHost(in, streams.Out)),
		eval.WithLogger(logger),
		eval.WithMaxDepth(r.MaxDepth),
	)

	if err := r.define(session); err != nil {
		return err
	}

	logger.DebugContext(ctx, "running script",
		slog.String("script", path),
		slog.Int("define_count", len(r.Define)),
	)

	if _, err := session.EvalProgram(ctx, prog); err != nil {
		return report(streams.Err, err, src, path)
	}

	return nil
}

// define evaluates each NAME=EXPR with expr-lang and binds the result as a
// global. Each expression sees the globals defined before it and an env
// function reading the process environment.
func (r *Run) define(session *eval.Session) error {
	env := map[string]any{
		"env": os.Getenv,
		"reo": map[string]any{"version": strings.TrimSpace(pkg.Version)},
	}

	for _, def := range r.Define {
		name, src, ok := strings.Cut(def, "=")
		name = strings.TrimSpace(name)

		if !ok || !lang.IsIdentifier(name) {
			return ErrDefine.With(slog.String("define", def))
		}

		out, err := expr.Eval(src, maps.Clone(env))
		if err != nil {
			return ErrDefine.With(slog.String("define", def)).Wrap(err)
		}

		v, err := eval.FromNative(out)
		if err != nil {
			return ErrDefine.With(slog.String("define", def)).Wrap(err)
		}

		session.Define(name, v)
		env[name] = eval.ToNative(v)
	}

	return nil
}
