package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/reo/eval"
	"github.com/ardnew/reo/lang"
	"github.com/ardnew/reo/log"
	"github.com/ardnew/reo/pkg"
	"github.com/ardnew/reo/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
	YAML  bool `help:"Write YAML instead of a Reo script"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	if i.YAML {
		confPath = strings.TrimSuffix(confPath, pkg.Ext) + ".yaml"
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	settings := i.settings(ktx)

	if i.YAML {
		err = writeYAML(file, settings)
	} else {
		err = settingsProgram(settings).Format(ctx, file, defaultConfigIndent)
	}

	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
		slog.Int("settings", len(settings)),
	)

	return nil
}

// setting is one configuration entry named by its script identifier.
type setting struct {
	name  string
	value eval.Value
}

// settings returns the current value of each configurable flag in model
// order. Flags without a value or without a valid identifier form are
// skipped.
func (i *Init) settings(ktx *kong.Context) []setting {
	prefixIgnore := []string{"help", "version", profile.Tag}

	var out []setting

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		name := strings.ReplaceAll(flag.Name, "-", "_")
		if !lang.IsIdentifier(name) {
			continue
		}

		v, err := eval.FromNative(ktx.FlagValue(flag))
		if err != nil || empty(v) {
			continue
		}

		out = append(out, setting{name: name, value: v})
	}

	return out
}

func empty(v eval.Value) bool {
	switch v.Kind() {
	case eval.KindNothing:
		return true
	case eval.KindText:
		return v.String() == ""
	case eval.KindList:
		l, _ := v.List()

		return l.Len() == 0
	default:
		return false
	}
}

// settingsProgram returns a script that binds each setting with let.
func settingsProgram(settings []setting) *lang.Program {
	prog := new(lang.Program)

	for _, s := range settings {
		prog.Stmts = append(prog.Stmts, &lang.LetStmt{
			Name:  s.name,
			Value: literal(s.value),
		})
	}

	return prog
}

// literal returns an expression that evaluates to v.
func literal(v eval.Value) lang.Expr {
	switch v.Kind() {
	case eval.KindNumber:
		f := eval.ToNumber(v)
		if f < 0 {
			return &lang.UnaryExpr{Op: lang.TokenMinus, X: literal(eval.Number(-f))}
		}

		return &lang.NumberLit{Lit: eval.FormatNumber(f), Value: f}

	case eval.KindTruth:
		return &lang.TruthLit{Value: eval.ToTruth(v)}

	case eval.KindList:
		l, _ := v.List()
		lit := &lang.ListLit{}

		for e := range l.All() {
			lit.Elems = append(lit.Elems, literal(e))
		}

		return lit

	default:
		return &lang.TextLit{Value: eval.ToText(v)}
	}
}

// writeYAML writes settings as a YAML mapping in model order.
func writeYAML(w io.Writer, settings []setting) error {
	doc := make(yaml.MapSlice, 0, len(settings))

	for _, s := range settings {
		doc = append(doc, yaml.MapItem{Key: s.name, Value: eval.ToNative(s.value)})
	}

	data, err := yaml.MarshalWithOptions(doc, yaml.Indent(defaultConfigIndent))
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	_, err = w.Write(data)

	return err
}
