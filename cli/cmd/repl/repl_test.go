package repl

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/reo/eval"
)

func newTestModel(t *testing.T) model {
	t.Helper()

	logger := testLogger(t)

	return newModel(t.Context(), newEvaluator(logger), NewHistory(""), logger)
}

func submit(m model, line string) model {
	m.input.SetValue(line)
	m, _ = m.executeInput()

	return m
}

func TestModel_Submit(t *testing.T) {
	m := newTestModel(t)

	m = submit(m, "let x be 2")
	m = submit(m, "to twice(n):")

	if !m.eval.more() || !strings.Contains(m.input.Prompt, morePrompt) {
		t.Fatalf("want continuation prompt, got %q", m.input.Prompt)
	}

	m = submit(m, "return n * 2. end")

	if m.eval.more() || !strings.Contains(m.input.Prompt, evalPrompt) {
		t.Fatalf("want eval prompt, got %q", m.input.Prompt)
	}

	m = submit(m, "set x to twice(x)")

	v, ok := m.eval.session.Lookup("x")
	if !ok || eval.ToNumber(v) != 4 {
		t.Errorf("x = %v, %v; want 4", v, ok)
	}

	if m.history.Len() != 4 {
		t.Errorf("history length = %d, want 4", m.history.Len())
	}
}

func TestModel_CtrlCAbandonsStatement(t *testing.T) {
	m := newTestModel(t)
	m = submit(m, "repeat 3 times:")

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlC})

	if m.quitting || m.eval.more() {
		t.Errorf("quitting = %v, more = %v; want false, false", m.quitting, m.eval.more())
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlC})

	if !m.quitting {
		t.Error("second Ctrl+C on empty line did not quit")
	}
}

func TestModel_Commands(t *testing.T) {
	m := newTestModel(t)
	m = submit(m, "to half(n): return n / 2. end. let total be 10.")

	m, _ = m.toggleMode()
	if m.mode != modeCtrl {
		t.Fatal("toggleMode did not enter command mode")
	}

	list := ansi.Strip(m.listSession())
	for _, want := range []string{"total", "= 10", "half(n)"} {
		if !strings.Contains(list, want) {
			t.Errorf("list = %q, missing %q", list, want)
		}
	}

	m = submit(m, "reset")

	if m.eval.session.Globals().Len() != 0 || len(m.eval.session.Functions()) != 0 {
		t.Error("reset kept session state")
	}

	m = submit(m, "quit")
	if !m.quitting {
		t.Error("quit did not quit")
	}
}

func TestModel_Completion(t *testing.T) {
	m := newTestModel(t)
	m = submit(m, "let counter be 0")

	m.input.SetValue("say coun")
	m.input.SetCursor(8)
	refreshMatches(&m, false)

	if len(m.matches) == 0 || m.matches[0].Str != "counter" {
		t.Fatalf("matches = %v, want counter first", m.matches)
	}

	m, _ = m.handleTab()

	if got := m.input.Value(); got != "say counter" {
		t.Errorf("after tab input = %q, want %q", got, "say counter")
	}
}
