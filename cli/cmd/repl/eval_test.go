package repl

import (
	"io"
	"strings"
	"testing"

	"github.com/ardnew/reo/log"
)

func testLogger(t *testing.T) log.Logger {
	t.Helper()

	return log.Make(io.Discard, log.WithLevel(log.LevelTrace))
}

func texts(out []output, kind outputKind) []string {
	var s []string

	for _, o := range out {
		if o.kind == kind {
			s = append(s, o.text)
		}
	}

	return s
}

func TestEvaluator_Lines(t *testing.T) {
	ev := newEvaluator(testLogger(t))
	ctx := t.Context()

	steps := []struct {
		line   string
		more   bool
		say    []string
		result []string
		errs   int
	}{
		{line: "let x be 4.", say: nil},
		{line: "x * 2", result: []string{"8"}},
		{line: `say "x is " + x`, say: []string{"x is 4"}},
		{line: `"hi"`, result: []string{`"hi"`}},
		{line: "to add(a, b):", more: true},
		{line: "  return a + b", more: true},
		{line: "end", say: nil},
		{line: "add(x, 1)", result: []string{"5"}},
		{line: "let y be x +", more: true},
		{line: "1", say: nil},
		{line: "y", result: []string{"5"}},
		{line: "say nope", errs: 1},
		{line: "say add(1)", errs: 1},
		{line: "let l be [1]. say 1. say 2. say l[5]", say: []string{"1", "2"}, errs: 1},
		{line: "let = 2", errs: 1},
	}

	for _, st := range steps {
		out, more := ev.eval(ctx, st.line)

		if more != st.more {
			t.Fatalf("eval(%q) more = %v, want %v", st.line, more, st.more)
		}

		if got := texts(out, outSay); strings.Join(got, "|") != strings.Join(st.say, "|") {
			t.Errorf("eval(%q) said %q, want %q", st.line, got, st.say)
		}

		if got := texts(out, outResult); strings.Join(got, "|") != strings.Join(st.result, "|") {
			t.Errorf("eval(%q) results %q, want %q", st.line, got, st.result)
		}

		if got := texts(out, outError); len(got) != st.errs {
			t.Errorf("eval(%q) errors %q, want %d", st.line, got, st.errs)
		}
	}
}

func TestEvaluator_Reset(t *testing.T) {
	ev := newEvaluator(testLogger(t))

	if _, more := ev.eval(t.Context(), "repeat 2 times:"); !more {
		t.Fatal("want continuation")
	}

	ev.reset()

	if ev.more() {
		t.Error("reset kept pending lines")
	}

	out, more := ev.eval(t.Context(), "1 + 1")
	if more || strings.Join(texts(out, outResult), "") != "2" {
		t.Errorf("eval after reset = %v, %v", out, more)
	}
}

func TestEvaluator_ErrorPointsIntoStatement(t *testing.T) {
	ev := newEvaluator(testLogger(t))
	ctx := t.Context()

	if _, more := ev.eval(ctx, "if true:"); !more {
		t.Fatal("want continuation")
	}

	out, more := ev.eval(ctx, "say missing. end.")
	if more {
		t.Fatal("unexpected continuation")
	}

	errs := texts(out, outError)
	if len(errs) != 1 || !strings.Contains(errs[0], "line 2") {
		t.Errorf("errors = %q, want one at line 2", errs)
	}
}

func TestEvaluator_AskYieldsEmpty(t *testing.T) {
	ev := newEvaluator(testLogger(t))

	out, _ := ev.eval(t.Context(), `let name be ask("name? "). say "[" + name + "]"`)

	if got := texts(out, outSay); strings.Join(got, "|") != "name? |[]" {
		t.Errorf("said %q", got)
	}
}
