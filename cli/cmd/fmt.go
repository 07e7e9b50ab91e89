package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/reo/lang"
	"github.com/ardnew/reo/log"
)

// Fmt reads a script, parses it, and prints it in the chosen format.
type Fmt struct {
	Native     Native     `cmd:"" default:"withargs" help:"Format as canonical Reo source (default)."`
	JSON       JSON       `cmd:""                    help:"Format the syntax tree as JSON."`
	YAML       YAML       `cmd:""                    help:"Format the syntax tree as YAML."`
	AST        AST        `cmd:""                    help:"Format as an indented syntax tree outline."`
	Tokens     Tokens     `cmd:""                    help:"List the tokens of the script."`
	Normalized Normalized `cmd:""                    help:"Print the script with English operator phrases replaced."`
}

// source is the script argument shared by the fmt subcommands.
type source struct {
	Script  string `arg:"" default:"-" help:"Script file, script name on the search path, or '-' for stdin." name:"script"`
	NoCache bool   `help:"Parse without the shared parse cache."`
}

// load reads and parses the script, reporting parse faults to stderr.
func (s source) load(ctx context.Context, format string) (*lang.Program, error) {
	src, path, err := readScript(ctx, s.Script)
	if err != nil {
		return nil, err
	}

	prog, err := parse(ctx, src, s.NoCache, lang.WithLogger(log.Default()))
	if err != nil {
		return nil, report(streamsFrom(ctx).Err, err, src, path)
	}

	log.TraceContext(ctx, "formatting",
		slog.String("script", path),
		slog.String("format", format),
	)

	return prog, nil
}

// Native formats input as canonical Reo source.
type Native struct {
	source

	Indent int `default:"2" help:"Indent width for formatted output; 0 prints one line." short:"i"`
}

// Run executes the native command.
func (f *Native) Run(ctx context.Context) error {
	prog, err := f.load(ctx, "native")
	if err != nil {
		return err
	}

	return prog.Format(ctx, streamsFrom(ctx).Out, f.Indent)
}

// JSON formats the syntax tree as JSON.
type JSON struct {
	source

	Indent int `default:"2" help:"Indent width for JSON output; 0 prints one line." short:"i"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) error {
	prog, err := j.load(ctx, "json")
	if err != nil {
		return err
	}

	return prog.FormatJSON(ctx, streamsFrom(ctx).Out, j.Indent)
}

// YAML formats the syntax tree as YAML.
type YAML struct {
	source

	Indent int `default:"2" help:"Indent width for YAML output; 0 uses flow style." short:"i"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) error {
	prog, err := y.load(ctx, "yaml")
	if err != nil {
		return err
	}

	return prog.FormatYAML(ctx, streamsFrom(ctx).Out, y.Indent)
}

// AST formats the syntax tree as an indented outline.
type AST struct {
	source
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) error {
	prog, err := a.load(ctx, "ast")
	if err != nil {
		return err
	}

	return lang.Fprint(streamsFrom(ctx).Out, prog)
}

// Tokens lists the tokens of a script, one per line with its offset.
type Tokens struct {
	source
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) error {
	src, path, err := readScript(ctx, t.Script)
	if err != nil {
		return err
	}

	streams := streamsFrom(ctx)

	toks, err := lang.Lex(src)
	if err != nil {
		return report(streams.Err, err, src, path)
	}

	for _, tok := range toks {
		if _, err := fmt.Fprintf(streams.Out, "%d\t%s\n", tok.Offset, tok); err != nil {
			return err
		}
	}

	return nil
}

// Normalized prints the script after operator phrases are replaced.
type Normalized struct {
	source
}

// Run executes the normalized command.
func (n *Normalized) Run(ctx context.Context) error {
	src, _, err := readScript(ctx, n.Script)
	if err != nil {
		return err
	}

	_, err = io.WriteString(streamsFrom(ctx).Out, lang.Normalize(src).Text)

	return err
}
