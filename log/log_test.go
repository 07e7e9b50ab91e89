package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"Warn", LevelWarn},
		{" error ", LevelError},
		{"bogus", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevels_RoundTrip(t *testing.T) {
	names := slices.Collect(Levels())
	if want := []string{"trace", "debug", "info", "warn", "error"}; !slices.Equal(names, want) {
		t.Fatalf("Levels() = %v, want %v", names, want)
	}

	for _, name := range names {
		if got := ParseLevel(name).String(); got != name {
			t.Errorf("ParseLevel(%q).String() = %q", name, got)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("TEXT") != FormatText {
		t.Error("expected text format")
	}

	if ParseFormat("json") != FormatJSON {
		t.Error("expected json format")
	}

	if ParseFormat("xml") != DefaultFormat {
		t.Error("expected default format for unknown input")
	}

	if got := slices.Collect(Formats()); !slices.Equal(got, []string{"json", "text"}) {
		t.Errorf("Formats() = %v", got)
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	var l Logger

	// Must not panic.
	l.Info("discarded")
	l.TraceContext(t.Context(), "discarded")

	if l.Level() != DefaultLevel {
		t.Errorf("zero Level() = %v", l.Level())
	}

	if l.Format() != DefaultFormat {
		t.Errorf("zero Format() = %v", l.Format())
	}
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithPretty(false), WithTimeLayout("none"), WithLevel(LevelTrace))
	l.TraceContext(t.Context(), "lexed", slog.Int("tokens", 7))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}

	if rec["level"] != "TRACE" {
		t.Errorf("level = %v, want TRACE", rec["level"])
	}

	if rec["msg"] != "lexed" {
		t.Errorf("msg = %v", rec["msg"])
	}

	if rec["tokens"] != float64(7) {
		t.Errorf("tokens = %v", rec["tokens"])
	}

	if _, ok := rec["time"]; ok {
		t.Error("expected time to be omitted")
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithLevel(LevelWarn), WithPretty(false))
	l.Debug("hidden")
	l.Info("hidden")

	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}

	l.Warn("shown")

	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected warn message, got %q", buf.String())
	}
}

func TestLogger_WrapKeepsOutput(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithPretty(false), WithFormat(FormatText))
	wrapped := base.Wrap(WithLevel(LevelDebug))

	if base.Level() != LevelInfo {
		t.Errorf("base level changed to %v", base.Level())
	}

	if wrapped.Level() != LevelDebug {
		t.Errorf("wrapped level = %v", wrapped.Level())
	}

	wrapped.Debug("visible")

	if !strings.Contains(buf.String(), "msg=visible") {
		t.Errorf("expected text output, got %q", buf.String())
	}
}

func TestPretty_Text(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatText), WithTimeLayout(""))
	l = l.With(slog.String("script", "hello.reo"))
	l.Info("started", slog.Group("run", slog.Int("statements", 3)))

	out := buf.String()
	for _, want := range []string{
		"level=INFO",
		"msg=started",
		"script=hello.reo",
		"run.statements=3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}

type loggable struct{}

func (loggable) LogValue() slog.Value {
	return slog.GroupValue(slog.String("error", "boom"))
}

func TestPretty_JSON(t *testing.T) {
	var buf bytes.Buffer

	l := Make(&buf, WithFormat(FormatJSON), WithTimeLayout("none"))
	l.Error("failed",
		slog.Any("cause", loggable{}),
		slog.Any("err", errors.New("plain")),
	)

	out := buf.String()
	if !strings.HasPrefix(out, "{\n") || !strings.HasSuffix(out, "}\n") {
		t.Fatalf("expected an indented object, got %q", out)
	}

	for _, want := range []string{"msg: failed", "cause.error: boom", "err: plain"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}
