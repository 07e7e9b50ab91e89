package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/reo/eval"
	"github.com/ardnew/reo/lang"
)

// report writes a diagnostic for each fault in err to w, pointing into src,
// and returns err wrapped with the script path and first fault position.
func report(w io.Writer, err error, src, path string) error {
	r := lipgloss.NewRenderer(w)
	head := r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	body := r.NewStyle().Foreground(lipgloss.Color("8"))

	faults := []error{err}

	var bind eval.BindErrors
	if errors.As(err, &bind) {
		faults = bind.Unwrap()
	}

	for _, f := range faults {
		msg, detail, _ := strings.Cut(lang.Describe(f, src), "\n")

		_, _ = io.WriteString(w, head.Render(path+": "+msg)+"\n")
		if detail != "" {
			_, _ = io.WriteString(w, body.Render(strings.TrimRight(detail, "\n"))+"\n")
		}
	}

	attrs := []slog.Attr{slog.String("script", path)}

	var p interface{ Pos() int }
	if errors.As(err, &p) {
		line, col := lang.Position(src, p.Pos())
		attrs = append(attrs, slog.Int("line", line), slog.Int("column", col))
	}

	return ErrScript.With(attrs...).Wrap(err)
}

// parse parses src, through the shared parse cache unless noCache is set.
func parse(ctx context.Context, src string, noCache bool, opts ...lang.Option) (*lang.Program, error) {
	if noCache {
		return lang.Parse(ctx, src, opts...)
	}

	return lang.ParseReader(ctx, strings.NewReader(src), opts...)
}
