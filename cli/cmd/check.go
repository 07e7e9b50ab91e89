package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/reo/eval"
	"github.com/ardnew/reo/lang"
	"github.com/ardnew/reo/log"
)

// Check parses and binds scripts without running them.
type Check struct {
	Scripts []string `arg:"" default:"-" help:"Script files, script names on the search path, or '-' for stdin." name:"script"`
	Quiet   bool     `help:"Print nothing for scripts that pass." short:"q"`
}

// Run executes the check command. Every script is checked; the first
// failure is returned after all have been reported.
func (c *Check) Run(ctx context.Context) error {
	logger := log.Default()

	var first error

	for _, name := range c.Scripts {
		if err := c.check(ctx, name, logger); err != nil && first == nil {
			first = err
		}
	}

	logger.DebugContext(ctx, "checked scripts",
		slog.Int("count", len(c.Scripts)),
		slog.Bool("ok", first == nil),
	)

	return first
}

func (c *Check) check(ctx context.Context, name string, logger log.Logger) error {
	streams := streamsFrom(ctx)

	src, path, err := readScript(ctx, name)
	if err != nil {
		return err
	}

	prog, err := parse(ctx, src, true, lang.WithLogger(logger))
	if err != nil {
		return report(streams.Err, err, src, path)
	}

	session := eval.NewSession(
		eval.WithHost(eval.SandboxHost{}),
		eval.WithLogger(logger),
	)

	if err := session.Check(ctx, prog); err != nil {
		return report(streams.Err, err, src, path)
	}

	if !c.Quiet {
		_, err = fmt.Fprintf(streams.Out, "%s: ok\n", path)
	}

	return err
}
