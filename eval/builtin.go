package eval

import (
	"context"
	"log/slog"
	"math"
	"slices"
	"strings"
	"unicode/utf8"
)

// Signature describes the parameters of a callable.
type Signature struct {
	Name   string
	Doc    string
	Params []string
	// Optional is the number of trailing parameters that may be omitted.
	Optional int
	Builtin  bool
}

// MinArgs returns the fewest arguments accepted.
func (s Signature) MinArgs() int { return len(s.Params) - s.Optional }

// MaxArgs returns the most arguments accepted.
func (s Signature) MaxArgs() int { return len(s.Params) }

// Accepts reports whether n arguments may be passed.
func (s Signature) Accepts(n int) bool { return n >= s.MinArgs() && n <= s.MaxArgs() }

// String renders the signature as name(a, b, [c]).
func (s Signature) String() string {
	params := make([]string, len(s.Params))
	for i, p := range s.Params {
		if i >= s.MinArgs() {
			p = "[" + p + "]"
		}

		params[i] = p
	}

	return s.Name + "(" + strings.Join(params, ", ") + ")"
}

type builtinFunc func(ctx context.Context, host Host, args []Value, at int) (Value, error)

type builtin struct {
	call builtinFunc
	sig  Signature
}

//nolint:gochecknoglobals
var builtins = func() map[string]builtin {
	list := []builtin{
		{
			sig:  Signature{Name: "ask", Params: []string{"prompt"}, Optional: 1, Doc: "read one line of input after writing prompt"},
			call: builtinAsk,
		},
		{
			sig:  Signature{Name: "now", Doc: "current local time in round-trip form"},
			call: builtinNow,
		},
		{
			sig:  Signature{Name: "format_now", Params: []string{"format"}, Doc: "current local time in a custom format"},
			call: builtinFormatNow,
		},
		{
			sig:  Signature{Name: "read_text", Params: []string{"path"}, Doc: "content of a file"},
			call: builtinReadText,
		},
		{
			sig:  Signature{Name: "write_text", Params: []string{"path", "text"}, Doc: "replace a file's content, returning its path"},
			call: builtinWriteText,
		},
		{
			sig:  Signature{Name: "length", Params: []string{"value"}, Doc: "characters of text or elements of a list"},
			call: builtinLength,
		},
		{
			sig:  Signature{Name: "range", Params: []string{"start", "end"}, Doc: "list of integers from start to end inclusive"},
			call: builtinRange,
		},
		{
			sig:  Signature{Name: "to_number", Params: []string{"value"}, Doc: "convert to a number"},
			call: unaryBuiltin(func(v Value) Value { return Number(ToNumber(v)) }),
		},
		{
			sig:  Signature{Name: "to_text", Params: []string{"value"}, Doc: "convert to display text"},
			call: unaryBuiltin(func(v Value) Value { return Text(ToText(v)) }),
		},
		{
			sig:  Signature{Name: "to_truth", Params: []string{"value"}, Doc: "convert to a truth value"},
			call: unaryBuiltin(func(v Value) Value { return Truth(ToTruth(v)) }),
		},
	}

	m := make(map[string]builtin, len(list))
	for _, b := range list {
		b.sig.Builtin = true
		m[b.sig.Name] = b
	}

	return m
}()

func lookupBuiltin(name string) (builtin, bool) {
	b, ok := builtins[strings.ToLower(name)]

	return b, ok
}

// IsBuiltin reports whether name, compared without regard to case, is a
// builtin function.
func IsBuiltin(name string) bool {
	_, ok := lookupBuiltin(name)

	return ok
}

// Builtins returns the signatures of all builtin functions sorted by name.
func Builtins() []Signature {
	sigs := make([]Signature, 0, len(builtins))
	for _, b := range builtins {
		sigs = append(sigs, b.sig)
	}

	slices.SortFunc(sigs, func(a, b Signature) int { return strings.Compare(a.Name, b.Name) })

	return sigs
}

func unaryBuiltin(fn func(Value) Value) builtinFunc {
	return func(_ context.Context, _ Host, args []Value, _ int) (Value, error) {
		return fn(args[0]), nil
	}
}

func hostFault(op string, at int, err error) *RuntimeError {
	return &RuntimeError{
		Err:    ErrHost.Wrap(err).With(slog.String("op", op)),
		Detail: op,
		Offset: at,
	}
}

func builtinAsk(ctx context.Context, host Host, args []Value, at int) (Value, error) {
	prompt := ""
	if len(args) > 0 {
		prompt = ToText(args[0])
	}

	line, err := host.Ask(ctx, prompt)
	if err != nil {
		return Nothing, hostFault("ask", at, err)
	}

	return Text(line), nil
}

func builtinNow(_ context.Context, host Host, _ []Value, _ int) (Value, error) {
	return Text(FormatTime(host.Now(), "o")), nil
}

func builtinFormatNow(_ context.Context, host Host, args []Value, _ int) (Value, error) {
	return Text(FormatTime(host.Now(), ToText(args[0]))), nil
}

func builtinReadText(ctx context.Context, host Host, args []Value, at int) (Value, error) {
	text, err := host.ReadText(ctx, ToText(args[0]))
	if err != nil {
		return Nothing, hostFault("read_text", at, err)
	}

	return Text(text), nil
}

func builtinWriteText(ctx context.Context, host Host, args []Value, at int) (Value, error) {
	path := ToText(args[0])

	if err := host.WriteText(ctx, path, ToText(args[1])); err != nil {
		return Nothing, hostFault("write_text", at, err)
	}

	return Text(path), nil
}

func builtinLength(_ context.Context, _ Host, args []Value, _ int) (Value, error) {
	switch v := args[0]; v.kind {
	case KindText:
		return Number(float64(utf8.RuneCountInString(v.text))), nil
	case KindList:
		return Number(float64(v.list.Len())), nil
	default:
		return Number(ToNumber(v)), nil
	}
}

// maxRange bounds the number of elements range may produce.
const maxRange = 1 << 24

func builtinRange(_ context.Context, _ Host, args []Value, at int) (Value, error) {
	a, okA := toIndex(args[0])
	b, okB := toIndex(args[1])

	if !okA || !okB {
		return Nothing, fault(ErrType, at, "range bounds must be finite numbers")
	}

	step := 1
	if a > b {
		step = -1
	}

	n := int(math.Abs(float64(b-a))) + 1
	if n > maxRange {
		return Nothing, fault(ErrIndex, at, "range too large",
			slog.Int("start", a), slog.Int("end", b))
	}

	l := &List{elems: make([]Value, 0, n)}
	for i := range n {
		l.elems = append(l.elems, Number(float64(a+i*step)))
	}

	return ListOf(l), nil
}
