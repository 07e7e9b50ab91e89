package lang

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

const sampleSource = `
# squares and a summary
to sq(x):
    return x times x.
end.

let n be 3.
if sq(n) is greater than 5 then:
    say "big".
otherwise:
    say "small".
end.
`

func TestProgram_Format(t *testing.T) {
	prog, err := Parse(t.Context(), sampleSource)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		indent int
		want   string
	}{
		{
			name:   "indented",
			indent: 4,
			want: `to sq(x):
    return x * x.
end.

let n be 3.
if sq(n) > 5:
    say "big".
otherwise:
    say "small".
end if.
`,
		},
		{
			name:   "compact",
			indent: 0,
			want: `to sq(x): return x * x. end. let n be 3. ` +
				`if sq(n) > 5: say "big". otherwise: say "small". end if.` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			if err := prog.Format(t.Context(), &buf, tt.indent); err != nil {
				t.Fatal(err)
			}

			if buf.String() != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", buf.String(), tt.want)
			}
		})
	}
}

func TestProgram_FormatRoundTrip(t *testing.T) {
	sources := []string{
		sampleSource,
		"say (1 + 2) * 3 - (4 - 5).",
		"say -(a + b)[0] + -c.",
		`say "quote \" backslash \\ tab \t".`,
		"let xs be [1, [2, 3], []]. for each x in xs: append x to ys. end for.",
		"while a is at most 3 and not done, do: increase a by 1. end while.",
		"repeat 2 times: remove 1 from xs. end. if x: end if.",
		"to f(): return 1. end. to g(a, b, c): say f(). end.",
	}

	for _, src := range sources {
		first, err := Parse(t.Context(), src)
		if err != nil {
			t.Fatalf("Parse(%q): %v", src, err)
		}

		formatted := first.String()

		second, err := Parse(t.Context(), formatted)
		if err != nil {
			t.Fatalf("reparse of %q:\n%s\n%v", src, formatted, err)
		}

		if again := second.String(); again != formatted {
			t.Errorf("format is not stable:\n%s\nvs\n%s", formatted, again)
		}
	}
}

func TestFormatExpr(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"say 1 - (2 - 3).", "1 - (2 - 3)"},
		{"say (1 - 2) - 3.", "1 - 2 - 3"},
		{"say a or b and c.", "a || b && c"},
		{"say (a or b) and c.", "(a || b) && c"},
		{"say -(x).", "-x"},
		{"say !(a == b).", "!(a == b)"},
		{`say f("a", [1, 2])[0].`, `f("a", [1, 2])[0]`},
	}

	for _, tt := range tests {
		if got := FormatExpr(parseSay(t, tt.input)); got != tt.want {
			t.Errorf("FormatExpr(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestProgram_FormatJSON(t *testing.T) {
	prog, err := Parse(t.Context(), "let x be 1 + 2. say x.")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := prog.FormatJSON(t.Context(), &buf, 2); err != nil {
		t.Fatal(err)
	}

	var tree struct {
		Functions  []any            `json:"functions"`
		Statements []map[string]any `json:"statements"`
	}

	if err := json.Unmarshal(buf.Bytes(), &tree); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}

	if len(tree.Functions) != 0 || len(tree.Statements) != 2 {
		t.Fatalf("got %d functions, %d statements", len(tree.Functions), len(tree.Statements))
	}

	if tree.Statements[0]["node"] != "Let" || tree.Statements[1]["node"] != "Say" {
		t.Errorf("statements = %v", tree.Statements)
	}

	value, _ := tree.Statements[0]["value"].(map[string]any)
	if value["op"] != "+" {
		t.Errorf("let value = %v", value)
	}
}

func TestProgram_FormatYAML(t *testing.T) {
	prog, err := Parse(t.Context(), "to f(a): return a. end.")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := prog.FormatYAML(t.Context(), &buf, 2); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"node: Function", "name: f", "node: Return"} {
		if !strings.Contains(out, want) {
			t.Errorf("YAML output missing %q:\n%s", want, out)
		}
	}
}

func TestFprint(t *testing.T) {
	prog, err := Parse(t.Context(), "say 1 + x.")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Fprint(&buf, prog); err != nil {
		t.Fatal(err)
	}

	want := "Say @0\n  Binary + @6\n    Number 1 @4\n    Name x @8\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}
