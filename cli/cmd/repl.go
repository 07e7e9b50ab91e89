package cmd

import (
	"context"
	"errors"

	"github.com/ardnew/reo/cli/cmd/repl"
	"github.com/ardnew/reo/eval"
	"github.com/ardnew/reo/log"
)

// Repl starts an interactive prompt.
type Repl struct {
	Script    string `arg:"" help:"Script to run before the prompt starts." name:"script" optional:""`
	MaxDepth  int    `default:"${maxDepth}" help:"Maximum depth of nested function calls (0 for no limit)."`
	NoHistory bool   `help:"Do not read or write the history file."`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var src, path string

	if r.Script != "" {
		if src, path, err = readScript(ctx, r.Script); err != nil {
			return err
		}
	}

	var cacheDir string

	if ktx := kongContextFrom(ctx); ktx != nil && !r.NoHistory {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	err = repl.Run(ctx, src, cacheDir, log.Default(), eval.WithMaxDepth(r.MaxDepth))
	if isScriptError(err) {
		return report(streamsFrom(ctx).Err, err, src, path)
	}

	return err
}

// isScriptError reports whether err is a fault in script source.
func isScriptError(err error) bool {
	var (
		p    interface{ Pos() int }
		bind eval.BindErrors
	)

	return errors.As(err, &p) || errors.As(err, &bind)
}
