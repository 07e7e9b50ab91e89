package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/reo/eval"
	"github.com/ardnew/reo/lang"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		stdin   string
		define  []string
		wantOut string
		wantErr error
		errLine string
	}{
		{
			name:    "say",
			script:  "let x be 6. say x * 7.",
			wantOut: "42\n",
		},
		{
			name:    "ask reads stdin",
			script:  `let n be ask("name? "). say "hi " + n.`,
			stdin:   "Ada\n",
			wantOut: "name? hi Ada\n",
		},
		{
			name:    "defines",
			script:  "say n. say s. say l. say x. say ok.",
			define:  []string{"n=2+3", `s="a" + "b"`, "l=[1, 2]", "x=n * 2", "ok=n > 4"},
			wantOut: "5\nab\n[1, 2]\n10\ntrue\n",
		},
		{
			name:    "runtime fault keeps earlier output",
			script:  "say 1.\nsay missing.",
			wantOut: "1\n",
			wantErr: eval.ErrUndefinedVariable,
			errLine: "line 2",
		},
		{
			name:    "parse fault",
			script:  "say (1.",
			wantErr: lang.ErrUnexpectedToken,
			errLine: "line 1",
		},
		{
			name:    "bind fault",
			script:  "say 1.\nsay nope(1).",
			wantErr: eval.ErrUnknownFunction,
			errLine: "nope",
		},
		{
			name:    "call depth",
			script:  "to f(n): return f(n + 1). end. say f(1).",
			wantErr: eval.ErrMaxDepth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScript(t, t.TempDir(), "main.reo", tt.script)
			ctx, out, errOut := testStreams(t, tt.stdin)

			r := &Run{Script: path, Define: tt.define, MaxDepth: 50}
			err := r.Run(ctx)

			if got := out.String(); got != tt.wantOut {
				t.Errorf("output = %q, want %q", got, tt.wantOut)
			}

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Run: %v", err)
				}

				return
			}

			if !errors.Is(err, ErrScript) || !errors.Is(err, tt.wantErr) {
				t.Fatalf("Run error = %v, want ErrScript wrapping %v", err, tt.wantErr)
			}

			if !strings.Contains(errOut.String(), path) || !strings.Contains(errOut.String(), tt.errLine) {
				t.Errorf("report = %q, want path and %q", errOut.String(), tt.errLine)
			}
		})
	}
}

func TestRunStdinScript(t *testing.T) {
	ctx, out, _ := testStreams(t, `say ask("ignored").`+"\n")

	if err := (&Run{Script: "-", MaxDepth: 10}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	// A script read from stdin leaves no input for ask.
	if got := out.String(); got != "ignored\n" {
		t.Errorf("output = %q", got)
	}
}

func TestRunDefineErrors(t *testing.T) {
	path := writeScript(t, t.TempDir(), "main.reo", "say 1.")

	for _, def := range []string{"x", "1x=3", "let=1", "a-b=1", "y=)", "m={'a': 1}"} {
		ctx, out, _ := testStreams(t, "")

		err := (&Run{Script: path, Define: []string{def}}).Run(ctx)
		if !errors.Is(err, ErrDefine) {
			t.Errorf("define %q: error = %v, want ErrDefine", def, err)
		}

		if out.Len() != 0 {
			t.Errorf("define %q: script ran", def)
		}
	}
}

func TestRunDefineEnv(t *testing.T) {
	t.Setenv("REO_TEST_GREETING", "hello")

	path := writeScript(t, t.TempDir(), "main.reo", "say greeting.")
	ctx, out, _ := testStreams(t, "")

	r := &Run{Script: path, Define: []string{`greeting=env("REO_TEST_GREETING") + "!"`}}
	if err := r.Run(ctx); err != nil {
		t.Fatal(err)
	}

	if got := out.String(); got != "hello!\n" {
		t.Errorf("output = %q", got)
	}
}

func TestRunSearchPath(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "greet.reo", `say "from path".`)

	ctx, out, _ := testStreams(t, "")
	ctx = WithSearchPath(ctx, []string{dir})

	if err := (&Run{Script: "greet"}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if got := out.String(); got != "from path\n" {
		t.Errorf("output = %q", got)
	}
}
