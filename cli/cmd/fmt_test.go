package cmd

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/reo/lang"
)

const fmtSource = "let   x be 1 .\nsay x plus 2 ."

func TestFmtNative(t *testing.T) {
	tests := []struct {
		name   string
		indent int
		want   string
	}{
		{"indented", 2, "let x be 1.\nsay x + 2.\n"},
		{"compact", 0, "let x be 1. say x + 2.\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScript(t, t.TempDir(), "in.reo", fmtSource)
			ctx, out, _ := testStreams(t, "")

			cmd := &Native{source: source{Script: path, NoCache: true}, Indent: tt.indent}
			if err := cmd.Run(ctx); err != nil {
				t.Fatal(err)
			}

			if got := out.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFmtNativeStdin(t *testing.T) {
	ctx, out, _ := testStreams(t, "say 1 is less than 2.")

	if err := (&Native{source: source{Script: "-"}, Indent: 2}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if got := out.String(); got != "say 1 < 2.\n" {
		t.Errorf("got %q", got)
	}
}

func TestFmtInvalid(t *testing.T) {
	path := writeScript(t, t.TempDir(), "bad.reo", "say 1\nsay 2.")
	ctx, out, errOut := testStreams(t, "")

	err := (&Native{source: source{Script: path}}).Run(ctx)
	if !errors.Is(err, ErrScript) || !errors.Is(err, lang.ErrUnexpectedToken) {
		t.Fatalf("error = %v, want ErrScript wrapping ErrUnexpectedToken", err)
	}

	if out.Len() != 0 {
		t.Errorf("wrote output %q for invalid script", out.String())
	}

	if !strings.Contains(errOut.String(), "line 2") {
		t.Errorf("report = %q, want line 2", errOut.String())
	}
}

func TestFmtJSON(t *testing.T) {
	path := writeScript(t, t.TempDir(), "in.reo", fmtSource)
	ctx, out, _ := testStreams(t, "")

	if err := (&JSON{source: source{Script: path}, Indent: 2}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	var doc map[string]any
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON %q: %v", out.String(), err)
	}

	stmts, ok := doc["statements"].([]any)
	if !ok || len(stmts) != 2 {
		t.Errorf("stmts = %v, want two statements", doc["statements"])
	}
}

func TestFmtYAML(t *testing.T) {
	path := writeScript(t, t.TempDir(), "in.reo", fmtSource)
	ctx, out, _ := testStreams(t, "")

	if err := (&YAML{source: source{Script: path}, Indent: 2}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("invalid YAML %q: %v", out.String(), err)
	}

	stmts, ok := doc["statements"].([]any)
	if !ok || len(stmts) != 2 {
		t.Errorf("stmts = %v, want two statements", doc["statements"])
	}
}

func TestFmtAST(t *testing.T) {
	ctx, out, _ := testStreams(t, "say 1 + x.")

	if err := (&AST{source: source{Script: "-"}}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	want := "Say @0\n  Binary + @6\n    Number 1 @4\n    Name x @8\n"
	if got := out.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFmtTokens(t *testing.T) {
	ctx, out, _ := testStreams(t, `say "hi".`)

	if err := (&Tokens{source: source{Script: "-"}}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d tokens:\n%s", len(lines), out.String())
	}

	if !strings.HasPrefix(lines[0], "0\t") || !strings.HasPrefix(lines[1], "4\ttext ") {
		t.Errorf("unexpected token lines %q", lines[:2])
	}
}

func TestFmtNormalized(t *testing.T) {
	ctx, out, _ := testStreams(t, `if x is at least 2 and y is not 3: say "is at least". end.`)

	if err := (&Normalized{source: source{Script: "-"}}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	want := `if x >= 2 && y != 3: say "is at least". end.`
	if got := out.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
