package repl

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/reo/eval"
	"github.com/ardnew/reo/lang"
	"github.com/ardnew/reo/log"
)

// replHost captures the output of a program so the prompt can print it
// above the input line. The terminal belongs to the prompt, so ask shows
// its prompt and yields empty text as if input had ended.
type replHost struct {
	*eval.StdHost

	mu    sync.Mutex
	lines []string
}

func newReplHost() *replHost {
	return &replHost{StdHost: eval.NewStdHost(nil, io.Discard)}
}

// Say implements [eval.Host].
func (h *replHost) Say(_ context.Context, line string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lines = append(h.lines, line)

	return nil
}

// Ask implements [eval.Host].
func (h *replHost) Ask(ctx context.Context, prompt string) (string, error) {
	if prompt != "" {
		_ = h.Say(ctx, prompt)
	}

	return "", nil
}

// drain returns and forgets the captured lines.
func (h *replHost) drain() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	lines := h.lines
	h.lines = nil

	return lines
}

type outputKind int

const (
	outSay outputKind = iota
	outResult
	outError
)

// output is one line printed in response to input.
type output struct {
	text string
	kind outputKind
}

// evaluator feeds input lines to a session. Lines that leave a statement
// unfinished are held until the statement is complete.
type evaluator struct {
	session *eval.Session
	host    *replHost
	logger  log.Logger
	pending []string
}

func newEvaluator(logger log.Logger, opts ...eval.Option) *evaluator {
	host := newReplHost()

	opts = append([]eval.Option{
		eval.WithHost(host),
		eval.WithLogger(logger),
	}, opts...)

	return &evaluator{
		session: eval.NewSession(opts...),
		host:    host,
		logger:  logger,
	}
}

// more reports whether a statement is waiting for further lines.
func (e *evaluator) more() bool { return len(e.pending) > 0 }

// reset discards held lines.
func (e *evaluator) reset() { e.pending = nil }

// eval submits one line of input. If the input so far is an unfinished
// statement, the line is held and more is true.
func (e *evaluator) eval(ctx context.Context, line string) (out []output, more bool) {
	lines := append(slices.Clone(e.pending), line)
	src := strings.Join(lines, "\n")

	prog, held, err := e.compile(ctx, src)

	switch {
	case err != nil:
		e.pending = nil

		return describe(err, src), false

	case prog == nil:
		e.pending = append(e.pending, held)

		e.logger.TraceContext(ctx, "repl continue", slog.Int("pending", len(e.pending)))

		return nil, true
	}

	e.pending = nil

	return e.run(ctx, prog, src), false
}

// compile parses src. A statement missing only its closing dot is
// completed. If src ends before its last statement does, prog is nil and
// held is the last line as it should be kept for the next attempt.
func (e *evaluator) compile(ctx context.Context, src string) (prog *lang.Program, held string, err error) {
	last := src[strings.LastIndexByte(src, '\n')+1:]

	prog, err = lang.Parse(ctx, src, lang.WithLogger(e.logger))
	if err == nil || !atEOF(err) {
		return prog, "", err
	}

	if expects(err, lang.TokenDot) {
		dotted, derr := lang.Parse(ctx, src+".", lang.WithLogger(e.logger))
		if derr == nil {
			return dotted, "", nil
		}

		if atEOF(derr) {
			return nil, last + ".", nil
		}
	}

	return nil, last, nil
}

// run executes prog and collects what it printed, its faults, and the
// value of a trailing expression.
func (e *evaluator) run(ctx context.Context, prog *lang.Program, src string) []output {
	v, err := e.session.EvalProgram(ctx, prog)

	var out []output

	for _, line := range e.host.drain() {
		out = append(out, output{text: line, kind: outSay})
	}

	if err != nil {
		e.logger.TraceContext(ctx, "repl eval result", slog.String("error", err.Error()))

		return append(out, describe(err, src)...)
	}

	if !v.IsNothing() {
		e.logger.TraceContext(ctx, "repl eval result", slog.String("kind", v.Kind().String()))

		out = append(out, output{text: display(v), kind: outResult})
	}

	return out
}

// display renders a result value. Text is quoted so it reads apart from
// numbers and names.
func display(v eval.Value) string {
	if v.Kind() == eval.KindText {
		return lang.FormatExpr(&lang.TextLit{Value: v.String()})
	}

	return v.String()
}

// describe renders each fault in err against src.
func describe(err error, src string) []output {
	faults := []error{err}

	var bind eval.BindErrors
	if errors.As(err, &bind) {
		faults = bind.Unwrap()
	}

	out := make([]output, 0, len(faults))

	for _, f := range faults {
		out = append(out, output{
			text: strings.TrimRight(lang.Describe(f, src), "\n"),
			kind: outError,
		})
	}

	return out
}

func atEOF(err error) bool {
	var pe *lang.ParseError

	return errors.As(err, &pe) && pe.Found.Kind == lang.TokenEOF
}

func expects(err error, k lang.TokenKind) bool {
	var pe *lang.ParseError

	return errors.As(err, &pe) && slices.Contains(pe.Expected, k)
}
