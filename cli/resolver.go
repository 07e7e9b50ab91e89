package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/reo/eval"
	"github.com/ardnew/reo/lang"
	"github.com/ardnew/reo/log"
)

// loadScript returns a [kong.ConfigurationLoader] for configuration written
// as a Reo script.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(loadScript(ctx), "/path/to/config.reo")
//
// The script runs in a sandbox: say prints nothing, ask reads nothing, and
// file access fails. Every global the script leaves behind names a flag,
// with underscores standing in for hyphens:
//
//	let log_level be "debug".
//	let log_pretty be not true.
//	let path be ["/opt/scripts", "~/scripts"].
//
// This configuration will be applied to Kong flags:
//
//	--log-level=debug
//	--no-log-pretty
//	--path=/opt/scripts --path=~/scripts
//
// Command-line flags override config file values. A script that fails to
// parse or run is reported as a warning and contributes nothing.
func loadScript(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		logger := log.Default()

		prog, err := lang.ParseReader(ctx, r, lang.WithLogger(logger))
		if err != nil {
			logger.WarnContext(ctx, "ignoring configuration script",
				slog.Any("error", err),
			)

			return config{}, nil
		}

		session := eval.NewSession(
			eval.WithHost(eval.SandboxHost{}),
			eval.WithLogger(logger),
		)

		if _, err := session.EvalProgram(ctx, prog); err != nil {
			logger.WarnContext(ctx, "ignoring configuration script",
				slog.Any("error", err),
			)

			return config{}, nil
		}

		globals := session.Globals()
		c := make(config, globals.Len())

		for name, v := range globals.All() {
			c.set(name, v)
		}

		logger.TraceContext(ctx, "loaded configuration script",
			slog.Int("settings", len(c)),
		)

		return c, nil
	}
}

// loadYAML returns a [kong.ConfigurationLoader] for configuration written as
// a YAML mapping of flag names to values. Nested mappings are ignored.
func loadYAML(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return config{}, nil
			}

			log.WarnContext(ctx, "ignoring configuration file",
				slog.Any("error", err),
			)

			return config{}, nil
		}

		c := make(config, len(doc))

		for name, x := range doc {
			v, err := eval.FromNative(x)
			if err != nil {
				log.WarnContext(ctx, "ignoring configuration setting",
					slog.String("name", name),
					slog.Any("error", err),
				)

				continue
			}

			c.set(name, v)
		}

		return c, nil
	}
}

// config implements [kong.Resolver] over settings keyed by lower-case name.
type config map[string]eval.Value

func (c config) set(name string, v eval.Value) {
	c[strings.ToLower(name)] = v
}

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	name := strings.ToLower(flag.Name)

	for _, key := range []string{name, strings.ReplaceAll(name, "-", "_")} {
		if v, ok := c[key]; ok && !v.IsNothing() {
			return flagValue(v), nil
		}
	}

	return nil, nil
}

// flagValue converts v to the form kong decodes: numbers as text, since
// kong's integer decoders accept only strings and integers, and lists as
// []any.
func flagValue(v eval.Value) any { return flagNative(eval.ToNative(v)) }

func flagNative(x any) any {
	switch x := x.(type) {
	case float64:
		return eval.FormatNumber(x)
	case []any:
		out := make([]any, 0, len(x))
		for _, e := range x {
			if e != nil {
				out = append(out, flagNative(e))
			}
		}

		return out
	default:
		return x
	}
}
