package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by prettyHandler. Styles are bound to a
// renderer for the output writer, so colors are dropped when the writer is
// not a terminal.
type palette struct {
	key, text, number, yes, no, time, null lipgloss.Style
	level                                  map[slog.Level]lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }

	return palette{
		key:    fg("8"),
		text:   fg("6"),
		number: fg("3"),
		yes:    fg("2"),
		no:     fg("1"),
		time:   fg("4"),
		null:   fg("8"),
		level: map[slog.Level]lipgloss.Style{
			slog.Level(LevelTrace): fg("5"),
			slog.LevelDebug:        fg("4"),
			slog.LevelInfo:         fg("2"),
			slog.LevelWarn:         fg("3").Bold(true),
			slog.LevelError:        fg("1").Bold(true),
		},
	}
}

func (p palette) levelStyle(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.level[slog.LevelError]
	case l >= slog.LevelWarn:
		return p.level[slog.LevelWarn]
	case l >= slog.LevelInfo:
		return p.level[slog.LevelInfo]
	case l >= slog.LevelDebug:
		return p.level[slog.LevelDebug]
	default:
		return p.level[slog.Level(LevelTrace)]
	}
}

// prettyHandler renders records either as one line of colored key=value
// pairs (FormatText) or as an indented object (FormatJSON).
type prettyHandler struct {
	opts       *slog.HandlerOptions
	formatTime FormatTime
	palette    palette
	mu         *sync.Mutex
	w          io.Writer
	attrs      []slog.Attr
	prefix     string
	format     Format
}

func newPrettyHandler(
	w io.Writer,
	format Format,
	formatTime FormatTime,
	opts *slog.HandlerOptions,
) *prettyHandler {
	return &prettyHandler{
		opts:       opts,
		formatTime: formatTime,
		palette:    newPalette(w),
		mu:         &sync.Mutex{},
		w:          w,
		format:     format,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], h.qualify(attrs)...)

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

// qualify prefixes attribute keys with the current group path.
func (h *prettyHandler) qualify(attrs []slog.Attr) []slog.Attr {
	if h.prefix == "" {
		return attrs
	}

	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: h.prefix + a.Key, Value: a.Value}
	}

	return out
}

type field struct{ key, value string }

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]field, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		if s := h.formatTime(r.Time); s != "" {
			fields = append(fields, field{slog.TimeKey, h.palette.time.Render(s)})
		}
	}

	fields = append(fields, field{
		slog.LevelKey,
		h.palette.levelStyle(r.Level).Render(strings.ToUpper(Level(r.Level).String())),
	})

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			fields = append(fields, field{
				slog.SourceKey,
				h.palette.text.Render(src.File + ":" + strconv.Itoa(src.Line)),
			})
		}
	}

	fields = append(fields, field{slog.MessageKey, h.palette.text.Render(r.Message)})

	for _, a := range h.attrs {
		fields = h.appendAttr(fields, "", a)
	}

	r.Attrs(func(a slog.Attr) bool {
		fields = h.appendAttr(fields, h.prefix, a)

		return true
	})

	var b strings.Builder

	if h.format == FormatJSON {
		b.WriteString("{\n")

		for i, f := range fields {
			b.WriteString("  " + h.palette.key.Render(f.key) + ": " + f.value)

			if i < len(fields)-1 {
				b.WriteByte(',')
			}

			b.WriteByte('\n')
		}

		b.WriteString("}\n")
	} else {
		for i, f := range fields {
			if i > 0 {
				b.WriteByte(' ')
			}

			b.WriteString(h.palette.key.Render(f.key) + "=" + f.value)
		}

		b.WriteByte('\n')
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := io.WriteString(h.w, b.String())

	return err
}

// appendAttr flattens a into fields, expanding groups into dotted keys.
func (h *prettyHandler) appendAttr(fields []field, prefix string, a slog.Attr) []field {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return fields
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, g := range a.Value.Group() {
			fields = h.appendAttr(fields, prefix, g)
		}

		return fields
	}

	return append(fields, field{prefix + a.Key, h.renderValue(a.Value)})
}

func (h *prettyHandler) renderValue(v slog.Value) string {
	p := h.palette

	switch v.Kind() {
	case slog.KindString:
		return p.text.Render(v.String())
	case slog.KindInt64:
		return p.number.Render(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return p.number.Render(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return p.number.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			return p.yes.Render("true")
		}

		return p.no.Render("false")
	case slog.KindDuration:
		return p.number.Render(v.Duration().String())
	case slog.KindTime:
		return p.time.Render(h.formatTime(v.Time()))
	default:
		if v.Any() == nil {
			return p.null.Render("null")
		}

		if err, ok := v.Any().(error); ok {
			return p.no.Render(err.Error())
		}

		return p.text.Render(fmt.Sprint(v.Any()))
	}
}
